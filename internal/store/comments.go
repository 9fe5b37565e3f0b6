package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/blog-backend/internal/models"
)

const commentColumns = `id, post_id, content, author_id, created_at, COALESCE(updated_at, created_at) AS updated_at`

// CommentStore は comments テーブルへのアクセスを提供します。
type CommentStore struct {
	db *sqlx.DB
}

// NewCommentStore は CommentStore を作成します。
func NewCommentStore(db *sqlx.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create はコメントを保存し、採番された ID を設定します。
// post_id の存在は foreign_keys 有効時のみ検証されます。
func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) error {
	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO comments (post_id, content, author_id, created_at, updated_at)
		VALUES (:post_id, :content, :author_id, :created_at, :updated_at)`, comment)
	if err != nil {
		return translate("create comment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate("create comment", err)
	}
	comment.ID = id
	return nil
}

// ListByPost は指定記事のコメントを ID 順に返します。
func (s *CommentStore) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := s.db.SelectContext(ctx, &comments,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ? ORDER BY id`, postID); err != nil {
		return nil, translate("list comments", err)
	}
	return comments, nil
}

// Get は ID でコメントを取得します。
func (s *CommentStore) Get(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.GetContext(ctx, &comment, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id); err != nil {
		return nil, translate("get comment", err)
	}
	return &comment, nil
}

// Update は本文と更新日時のみを書き換えます。
func (s *CommentStore) Update(ctx context.Context, id int64, content, updatedAt string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		content, updatedAt, id)
	if err != nil {
		return translate("update comment", err)
	}
	return requireAffected("update comment", res)
}

// Delete はコメントを削除します。
func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return translate("delete comment", err)
	}
	return requireAffected("delete comment", res)
}
