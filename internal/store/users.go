package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/blog-backend/internal/models"
)

// UserStore は users テーブルへのアクセスを提供します。
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore は UserStore を作成します。
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create はユーザーを作成し、採番された ID を返します。
// username / email の重複は ErrConflict になります。
func (s *UserStore) Create(ctx context.Context, username, passwordHash, email string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
		username, passwordHash, email)
	if err != nil {
		return 0, translate("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, translate("create user", err)
	}
	return id, nil
}

// FindByUsername はユーザー名でユーザーを検索します。
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, username, password, email FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, translate("find user", err)
	}
	return &user, nil
}
