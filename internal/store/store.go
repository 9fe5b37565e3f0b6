// Package store は共有データベースハンドル上のリポジトリを提供します。
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound は該当行が存在しない、または更新・削除で影響行数が0だったことを表します。
	ErrNotFound = errors.New("record not found")
	// ErrConflict は一意制約違反を表します。
	ErrConflict = errors.New("record already exists")
	// ErrInvalidReference は外部キー制約違反を表します（foreign_keys 有効時のみ発生）。
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// translate は SQLite のエラーをパッケージのセンチネルエラーに変換します。
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s: %w: %v", op, ErrInvalidReference, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireAffected は影響行数0を ErrNotFound として扱います。
// SQLite は値が変わらない UPDATE でも一致した行を数えるため、存在確認の代わりになります。
func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
