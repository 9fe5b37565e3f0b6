// Package validation はリクエストボディのバインドと宣言的な入力検証を提供します。
//
// 検証ルールは `validate` タグで、失敗時のメッセージは `msg` タグで指定します。
// 失敗したルールはすべて apperror.FieldError として列挙されます。
package validation

import (
	"errors"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yourusername/blog-backend/internal/apperror"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("integer", isInteger)
	})
	return validate
}

// BindJSON はボディを obj にデコードし、検証します。
// 空ボディは全項目未入力として扱い、不正な JSON は body 項目のエラーになります。
func BindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return apperror.Validation([]apperror.FieldError{
			{Field: "body", Msg: "Request body must be valid JSON"},
		})
	}
	return Struct(obj)
}

// Struct は obj を検証し、失敗したルールを列挙した検証エラーを返します。
func Struct(obj any) error {
	err := engine().Struct(obj)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Internal(err)
	}

	details := make([]apperror.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperror.FieldError{
			Field: fe.Field(),
			Msg:   messageFor(obj, fe),
		})
	}
	return apperror.Validation(details)
}

// Int64 は integer ルールを通過した値を int64 に変換します。
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// isInteger は数値または数字のみの文字列を整数として受け付けます。
func isInteger(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.IsValid() || !field.CanInterface() {
		return false
	}
	_, ok := Int64(field.Interface())
	return ok
}

func messageFor(obj any, fe validator.FieldError) string {
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return fe.Field() + " is invalid"
}
