// Package models はテーブルと1対1に対応するドメインモデルを定義します。
package models

// User は登録済みユーザーです。パスワードはハッシュのみを保持し、JSON には出力しません。
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"`
	Email        string `db:"email" json:"email"`
}

// Post はブログ記事です。日時は ISO-8601 文字列で保存します。
type Post struct {
	ID        int64  `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	Content   string `db:"content" json:"content"`
	AuthorID  int64  `db:"author_id" json:"author_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// Comment は記事へのコメントです。
type Comment struct {
	ID        int64  `db:"id" json:"id"`
	PostID    int64  `db:"post_id" json:"post_id"`
	Content   string `db:"content" json:"content"`
	AuthorID  int64  `db:"author_id" json:"author_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}
