// Package database は SQLite 接続の確立とスキーマ初期化を提供します。
package database

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

// 外部キーは宣言のみ。強制するかどうかは接続時のプラグマで決まる。
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	author_id INTEGER,
	created_at TEXT,
	updated_at TEXT,
	FOREIGN KEY (author_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id INTEGER,
	content TEXT NOT NULL,
	author_id INTEGER,
	created_at TEXT,
	updated_at TEXT,
	FOREIGN KEY (post_id) REFERENCES posts(id),
	FOREIGN KEY (author_id) REFERENCES users(id)
);
`

// Open はデータベースファイルを開き、接続を確認したハンドルを返します。
// 返したハンドルはプロセス全体で共有し、呼び出し側が Close します。
func Open(path string, foreignKeys bool) (*sqlx.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	params := url.Values{}
	params.Set("_foreign_keys", fmt.Sprintf("%t", foreignKeys))
	params.Set("_busy_timeout", "5000")
	dsn := "file:" + path + "?" + params.Encode()

	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return db, nil
}

// InitSchema は users / posts / comments テーブルが存在することを保証します。
// 既存テーブルには手を加えないため、起動のたびに呼び出して構いません。
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	log.Println("Database initialized successfully")
	return nil
}
