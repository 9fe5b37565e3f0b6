package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/blog-backend/internal/apperror"
	"github.com/yourusername/blog-backend/internal/config"
	"github.com/yourusername/blog-backend/internal/models"
	"github.com/yourusername/blog-backend/internal/store"
)

// ContextUserKey は、ハンドラー間で認証済みユーザーIDを共有するためのキーです。
const ContextUserKey = "auth.user_id"

// contextClaimsKey はログアウト時に参照するクレームの保存先です。
const contextClaimsKey = "auth.claims"

// UserRepository は認証処理が必要とするユーザー操作です。
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash, email string) (int64, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Manager は登録・ログイン・トークン検証をまとめた構造体です。
type Manager struct {
	users       UserRepository
	tokens      *TokenIssuer
	revocations RevocationStore
	bcryptCost  int

	// ユーザーが存在しない場合にも比較を行い、応答時間の差をなくすためのハッシュ
	dummyHash []byte
}

// NewManager は認証マネージャーを作成します。
func NewManager(cfg *config.Config, users UserRepository, revocations RevocationStore) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if users == nil {
		return nil, errors.New("users is nil")
	}
	if revocations == nil {
		revocations = NewMemoryRevocationStore()
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &Manager{
		users:       users,
		tokens:      NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL()),
		revocations: revocations,
		bcryptCost:  cfg.BcryptCost,
		dummyHash:   dummy,
	}, nil
}

// Tokens はトークン発行器を返します。
func (m *Manager) Tokens() *TokenIssuer {
	return m.tokens
}

// register はパスワードをハッシュ化してユーザーを作成します。
func (m *Manager) register(ctx context.Context, username, password, email string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	id, err := m.users.Create(ctx, username, string(hash), email)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return 0, apperror.Conflict("Username or email already exists", err)
		}
		return 0, apperror.Internal(err)
	}
	return id, nil
}

// login は認証情報を検証してトークンを発行します。
// ユーザー不在とパスワード不一致は同じエラーを返します。
func (m *Manager) login(ctx context.Context, username, password string) (string, error) {
	user, err := m.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return "", apperror.Internal(err)
		}
		_ = bcrypt.CompareHashAndPassword(m.dummyHash, []byte(password))
		return "", apperror.InvalidCredentials()
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", apperror.InvalidCredentials()
	}

	token, _, err := m.tokens.Issue(user.ID)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return token, nil
}

// authenticate はトークンを検証し、失効していないクレームを返します。
func (m *Manager) authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, apperror.Forbidden("Invalid or expired token")
	}
	if claims.ID != "" {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if revoked {
			return nil, apperror.Forbidden("Token has been revoked")
		}
	}
	return claims, nil
}

// revoke はクレームの有効期限までトークンを失効させます。
func (m *Manager) revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := m.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
