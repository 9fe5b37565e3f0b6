package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/blog-backend/internal/apperror"
)

// RequireToken は Authorization ヘッダーのトークンを検証するミドルウェアを返します。
// トークンが無ければ 401、無効・期限切れ・失効済みなら 403 で中断します。
func (m *Manager) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			apperror.Respond(c, apperror.Unauthenticated())
			return
		}

		claims, err := m.authenticate(c.Request.Context(), token)
		if err != nil {
			apperror.Respond(c, err)
			return
		}

		c.Set(ContextUserKey, claims.UserID)
		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

// UserID は RequireToken が設定した認証済みユーザーIDを返します。
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// bearerToken はヘッダー値を半角スペース1文字で区切り、2番目の要素をトークンとして取り出します。
// "Bearer  tok" のように区切りが連続すると空文字になります。
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
