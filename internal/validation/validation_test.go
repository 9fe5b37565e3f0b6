package validation

import (
	"bytes"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-backend/internal/apperror"
)

type sampleRequest struct {
	Title  string `json:"title" validate:"required" msg:"Title is required"`
	Email  string `json:"email" validate:"email" msg:"Valid email is required"`
	PostID any    `json:"post_id" validate:"integer" msg:"Post ID must be an integer"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
	var req sampleRequest
	return BindJSON(ctx, &req)
}

func details(t *testing.T, err error) []apperror.FieldError {
	t.Helper()
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.Error, got %v", err)
	}
	if appErr.Code != apperror.CodeValidation {
		t.Fatalf("unexpected code: %s", appErr.Code)
	}
	return appErr.Details
}

func TestBindJSONValid(t *testing.T) {
	if err := bind(t, `{"title":"t","email":"a@example.com","post_id":3}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bind(t, `{"title":"t","email":"a@example.com","post_id":"12"}`); err != nil {
		t.Fatalf("numeric string should be accepted: %v", err)
	}
}

func TestBindJSONEnumeratesEveryFailure(t *testing.T) {
	got := details(t, bind(t, `{"title":"","email":"nope","post_id":1.5}`))
	want := []apperror.FieldError{
		{Field: "title", Msg: "Title is required"},
		{Field: "email", Msg: "Valid email is required"},
		{Field: "post_id", Msg: "Post ID must be an integer"},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected details: %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("details[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestBindJSONEmptyBodyReportsMissingFields(t *testing.T) {
	got := details(t, bind(t, ``))
	if len(got) != 3 {
		t.Fatalf("expected all three rules to fail, got %#v", got)
	}
}

func TestBindJSONMalformed(t *testing.T) {
	got := details(t, bind(t, `{"title":`))
	if len(got) != 1 || got[0].Field != "body" {
		t.Fatalf("unexpected details: %#v", got)
	}
}

func TestInt64(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{float64(4), 4, true},
		{"17", 17, true},
		{"abc", 0, false},
		{2.5, 0, false},
		{nil, 0, false},
		{true, 0, false},
		{float64(math.MaxInt64), 0, false},
		{float64(-1 << 62), -1 << 62, true},
	}
	for _, tc := range cases {
		got, ok := Int64(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Int64(%#v) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
