package blog

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-backend/internal/apperror"
	"github.com/yourusername/blog-backend/internal/models"
	"github.com/yourusername/blog-backend/internal/validation"
)

const (
	commentNotFound   = "Comment not found"
	noCommentsForPost = "No comments found for this post"
)

// 作成と更新で同じルールを使う。更新時の post_id は検証のみで書き込まない。
type commentRequest struct {
	PostID  any    `json:"post_id" validate:"integer" msg:"Post ID must be an integer"`
	Content string `json:"content" validate:"required" msg:"Content is required"`
}

// CreateComment は POST /comments のハンドラーです。
func (h *Handler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}
	userID, err := actingUser(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	postID, _ := validation.Int64(req.PostID)

	now := h.timestamp()
	comment := &models.Comment{
		PostID:    postID,
		Content:   req.Content,
		AuthorID:  userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		apperror.Respond(c, storageError(err, commentNotFound))
		return
	}
	c.String(http.StatusCreated, "Comment created successfully")
}

// ListComments は GET /comments?post_id= のハンドラーです。
// post_id は先頭の整数部分だけを読み取ります。数字が無い場合はどの記事にも一致しないため 404 になります。
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := leadingInt(c.Query("post_id"))
	if !ok {
		apperror.Respond(c, apperror.NotFound(noCommentsForPost))
		return
	}

	comments, err := h.comments.ListByPost(c.Request.Context(), postID)
	if err != nil {
		apperror.Respond(c, apperror.Internal(err))
		return
	}
	if len(comments) == 0 {
		apperror.Respond(c, apperror.NotFound(noCommentsForPost))
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GetComment は GET /comments/:id のハンドラーです。
func (h *Handler) GetComment(c *gin.Context) {
	id, err := pathID(c, commentNotFound)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	comment, err := h.comments.Get(c.Request.Context(), id)
	if err != nil {
		apperror.Respond(c, storageError(err, commentNotFound))
		return
	}
	c.JSON(http.StatusOK, comment)
}

// UpdateComment は PUT /comments/:id のハンドラーです。本文と更新日時のみ変更します。
func (h *Handler) UpdateComment(c *gin.Context) {
	var req commentRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}
	id, err := pathID(c, commentNotFound)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	if err := h.authorizeComment(c, id); err != nil {
		apperror.Respond(c, err)
		return
	}

	if err := h.comments.Update(c.Request.Context(), id, req.Content, h.timestamp()); err != nil {
		apperror.Respond(c, storageError(err, commentNotFound))
		return
	}
	c.String(http.StatusOK, "Comment updated successfully")
}

// DeleteComment は DELETE /comments/:id のハンドラーです。
func (h *Handler) DeleteComment(c *gin.Context) {
	id, err := pathID(c, commentNotFound)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	if err := h.authorizeComment(c, id); err != nil {
		apperror.Respond(c, err)
		return
	}

	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		apperror.Respond(c, storageError(err, commentNotFound))
		return
	}
	c.String(http.StatusOK, "Comment deleted successfully")
}

func (h *Handler) authorizeComment(c *gin.Context, id int64) error {
	if !h.opts.EnforceOwnership {
		return nil
	}
	userID, err := actingUser(c)
	if err != nil {
		return err
	}
	comment, err := h.comments.Get(c.Request.Context(), id)
	if err != nil {
		return storageError(err, commentNotFound)
	}
	return h.checkOwner(comment.AuthorID, userID)
}

// leadingInt は先頭の空白を除いた後の、符号付き数字列を整数として読み取ります。
// "12abc" や "12.7" は 12 になり、数字で始まらない値は ok=false になります。
func leadingInt(raw string) (int64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
