// Package apperror は API 全体で共有するエラー型とレスポンス変換を提供します。
package apperror

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// エラーコード
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
)

// FieldError は入力検証で失敗したルール1件分を表します。
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Error は HTTP ステータスとエラーコードを持つアプリケーションエラーです。
type Error struct {
	Code    string
	Status  int
	Message string
	Details []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation は入力検証エラーを作成します。
func Validation(details []FieldError) *Error {
	return &Error{
		Code:    CodeValidation,
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Details: details,
	}
}

// InvalidCredentials はログイン失敗を表します。どちらの項目が誤っていたかは含めません。
func InvalidCredentials() *Error {
	return &Error{
		Code:    CodeInvalidCredentials,
		Status:  http.StatusBadRequest,
		Message: "Invalid username or password",
	}
}

// Unauthenticated はトークン未指定を表します。
func Unauthenticated() *Error {
	return &Error{
		Code:    CodeUnauthenticated,
		Status:  http.StatusUnauthorized,
		Message: "Authentication token is required",
	}
}

// Forbidden は不正・期限切れのトークンや権限不足を表します。
func Forbidden(message string) *Error {
	return &Error{
		Code:    CodeForbidden,
		Status:  http.StatusForbidden,
		Message: message,
	}
}

// NotFound は対象が存在しないことを表します。
func NotFound(message string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: message,
	}
}

// Conflict は一意制約違反を表します。
func Conflict(message string, err error) *Error {
	return &Error{
		Code:    CodeConflict,
		Status:  http.StatusConflict,
		Message: message,
		Err:     err,
	}
}

// Internal は想定外の失敗を表します。メッセージには元のエラー内容を含めます。
func Internal(err error) *Error {
	msg := "Internal server error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: msg,
		Err:     err,
	}
}

// Respond はエラーを JSON レスポンスに変換して処理を中断します。
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}
	if appErr.Status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["errors"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.Status, body)
}
