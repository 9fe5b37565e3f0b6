package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/blog-backend/internal/models"
)

const postColumns = `id, title, content, author_id, created_at, COALESCE(updated_at, created_at) AS updated_at`

// PostStore は posts テーブルへのアクセスを提供します。
type PostStore struct {
	db *sqlx.DB
}

// NewPostStore は PostStore を作成します。
func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

// Create は記事を保存し、採番された ID を設定します。
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO posts (title, content, author_id, created_at, updated_at)
		VALUES (:title, :content, :author_id, :created_at, :updated_at)`, post)
	if err != nil {
		return translate("create post", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("create post", err)
	}
	post.ID = id
	return nil
}

// List は全記事を ID 順に返します。0件の場合は空スライスを返します。
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := s.db.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM posts ORDER BY id`); err != nil {
		return nil, translate("list posts", err)
	}
	return posts, nil
}

// Get は ID で記事を取得します。
func (s *PostStore) Get(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := s.db.GetContext(ctx, &post, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id); err != nil {
		return nil, translate("get post", err)
	}
	return &post, nil
}

// Update はタイトル・本文・更新日時のみを書き換えます。
func (s *PostStore) Update(ctx context.Context, id int64, title, content, updatedAt string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		title, content, updatedAt, id)
	if err != nil {
		return translate("update post", err)
	}
	return requireAffected("update post", res)
}

// Delete は記事を削除します。コメントは連鎖削除しません。
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return translate("delete post", err)
	}
	return requireAffected("delete post", res)
}
