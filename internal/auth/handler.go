// Package auth は登録・ログインとトークンによる認証機能を提供します。
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-backend/internal/apperror"
	"github.com/yourusername/blog-backend/internal/validation"
)

type registerRequest struct {
	Username string `json:"username" validate:"required" msg:"Username is required"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
	Email    string `json:"email" validate:"email" msg:"Valid email is required"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register は POST /register のハンドラーです。
func (m *Manager) Register(c *gin.Context) {
	var req registerRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}

	if _, err := m.register(c.Request.Context(), req.Username, req.Password, req.Email); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.String(http.StatusCreated, "User registered successfully")
}

// Login は POST /login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.InvalidCredentials())
		return
	}

	token, err := m.login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout は POST /logout のハンドラーです。RequireToken の後ろで使います。
func (m *Manager) Logout(c *gin.Context) {
	claims, _ := c.Get(contextClaimsKey)
	if err := m.revoke(c.Request.Context(), asClaims(claims)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.String(http.StatusOK, "Logged out successfully")
}

func asClaims(v any) *Claims {
	claims, _ := v.(*Claims)
	return claims
}
