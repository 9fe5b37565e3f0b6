package blog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-backend/internal/apperror"
	"github.com/yourusername/blog-backend/internal/models"
	"github.com/yourusername/blog-backend/internal/validation"
)

const postNotFound = "Post not found"

type postRequest struct {
	Title   string `json:"title" validate:"required" msg:"Title is required"`
	Content string `json:"content" validate:"required" msg:"Content is required"`
}

// CreatePost は POST /posts のハンドラーです。
func (h *Handler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}
	userID, err := actingUser(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	now := h.timestamp()
	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.posts.Create(c.Request.Context(), post); err != nil {
		apperror.Respond(c, storageError(err, postNotFound))
		return
	}
	c.String(http.StatusOK, "Post created successfully")
}

// ListPosts は GET /posts のハンドラーです。0件でも 200 と空配列を返します。
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		apperror.Respond(c, apperror.Internal(err))
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost は GET /posts/:id のハンドラーです。
func (h *Handler) GetPost(c *gin.Context) {
	id, err := pathID(c, postNotFound)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		apperror.Respond(c, storageError(err, postNotFound))
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdatePost は PUT /posts/:id のハンドラーです。タイトル・本文・更新日時のみ変更します。
func (h *Handler) UpdatePost(c *gin.Context) {
	var req postRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}
	id, err := pathID(c, postNotFound)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	if err := h.authorizePost(c, id); err != nil {
		apperror.Respond(c, err)
		return
	}

	if err := h.posts.Update(c.Request.Context(), id, req.Title, req.Content, h.timestamp()); err != nil {
		apperror.Respond(c, storageError(err, postNotFound))
		return
	}
	c.String(http.StatusOK, "Post updated successfully")
}

// DeletePost は DELETE /posts/:id のハンドラーです。
func (h *Handler) DeletePost(c *gin.Context) {
	id, err := pathID(c, postNotFound)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	if err := h.authorizePost(c, id); err != nil {
		apperror.Respond(c, err)
		return
	}

	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		apperror.Respond(c, storageError(err, postNotFound))
		return
	}
	c.String(http.StatusOK, "Post deleted successfully")
}

func (h *Handler) authorizePost(c *gin.Context, id int64) error {
	if !h.opts.EnforceOwnership {
		return nil
	}
	userID, err := actingUser(c)
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		return storageError(err, postNotFound)
	}
	return h.checkOwner(post.AuthorID, userID)
}
