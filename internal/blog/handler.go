// Package blog は記事とコメントの CRUD ハンドラーを提供します。
package blog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-backend/internal/apperror"
	"github.com/yourusername/blog-backend/internal/auth"
	"github.com/yourusername/blog-backend/internal/models"
	"github.com/yourusername/blog-backend/internal/store"
)

// 日時は JavaScript の toISOString と同じミリ秒精度の UTC 形式で保存する
const timestampLayout = "2006-01-02T15:04:05.000Z"

// PostRepository は記事ハンドラーが必要とする永続化操作です。
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, id int64, title, content, updatedAt string) error
	Delete(ctx context.Context, id int64) error
}

// CommentRepository はコメントハンドラーが必要とする永続化操作です。
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	Update(ctx context.Context, id int64, content, updatedAt string) error
	Delete(ctx context.Context, id int64) error
}

// Options はハンドラーの挙動を切り替える設定です。
type Options struct {
	// EnforceOwnership が true の場合、更新・削除を作成者本人に限定します。
	EnforceOwnership bool
}

// Handler は記事・コメントのハンドラーをまとめた構造体です。
type Handler struct {
	posts    PostRepository
	comments CommentRepository
	opts     Options
	now      func() time.Time
}

// NewHandler は Handler を作成します。
func NewHandler(posts PostRepository, comments CommentRepository, opts Options) *Handler {
	return &Handler{
		posts:    posts,
		comments: comments,
		opts:     opts,
		now:      time.Now,
	}
}

// Register は認証済みルートグループに記事・コメントのルートを登録します。
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/posts", h.CreatePost)
	r.GET("/posts", h.ListPosts)
	r.GET("/posts/:id", h.GetPost)
	r.PUT("/posts/:id", h.UpdatePost)
	r.DELETE("/posts/:id", h.DeletePost)

	r.POST("/comments", h.CreateComment)
	r.GET("/comments", h.ListComments)
	r.GET("/comments/:id", h.GetComment)
	r.PUT("/comments/:id", h.UpdateComment)
	r.DELETE("/comments/:id", h.DeleteComment)
}

func (h *Handler) timestamp() string {
	return h.now().UTC().Format(timestampLayout)
}

// actingUser は Auth Gate が設定したユーザーIDを返します。
func actingUser(c *gin.Context) (int64, error) {
	id, ok := auth.UserID(c)
	if !ok {
		return 0, apperror.Unauthenticated()
	}
	return id, nil
}

// pathID はパスの :id を整数として読み取ります。整数でなければ該当なしとして扱います。
func pathID(c *gin.Context, notFoundMsg string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.NotFound(notFoundMsg)
	}
	return id, nil
}

// storageError はストレージ層のエラーをレスポンス用のエラーに変換します。
func storageError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound(notFoundMsg)
	case errors.Is(err, store.ErrInvalidReference):
		return apperror.Validation([]apperror.FieldError{
			{Field: "post_id", Msg: "Referenced post or author does not exist"},
		})
	default:
		return apperror.Internal(err)
	}
}

// checkOwner は所有者チェックが有効な場合に作成者本人かを確認します。
func (h *Handler) checkOwner(authorID, userID int64) error {
	if !h.opts.EnforceOwnership || authorID == userID {
		return nil
	}
	return apperror.Forbidden("Only the author can modify this resource")
}
