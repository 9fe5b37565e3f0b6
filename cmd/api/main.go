// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/yourusername/blog-backend/internal/auth"
	"github.com/yourusername/blog-backend/internal/blog"
	"github.com/yourusername/blog-backend/internal/config"
	"github.com/yourusername/blog-backend/internal/database"
	"github.com/yourusername/blog-backend/internal/store"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// データベース接続はプロセス全体で1つだけ開き、各ハンドラーに渡す
	db, err := database.Open(cfg.DatabasePath, cfg.EnforceForeignKeys)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.InitSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	revocations, closeRevocations, err := setupRevocations(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to set up token revocation store: %v", err)
	}
	defer closeRevocations()

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
	}
	router.Use(cors.New(corsConfig))

	if err := setupRoutes(router, cfg, db, revocations); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "blog-backend",
		"version": "0.1.0",
	})
}

// setupRoutes は公開ルートと認証必須ルートの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, db *sqlx.DB, revocations auth.RevocationStore) error {
	router.GET("/health", handleHealth)

	authManager, err := auth.NewManager(cfg, store.NewUserStore(db), revocations)
	if err != nil {
		return err
	}

	// 登録とログインはトークン不要
	router.POST("/register", authManager.Register)
	router.POST("/login", authManager.Login)

	protected := router.Group("")
	protected.Use(authManager.RequireToken())
	{
		protected.POST("/logout", authManager.Logout)

		handler := blog.NewHandler(store.NewPostStore(db), store.NewCommentStore(db), blog.Options{
			EnforceOwnership: cfg.EnforceOwnership,
		})
		handler.Register(protected)
	}
	return nil
}
