package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dvd-rental-backend/internal/platform/config"
	"dvd-rental-backend/internal/platform/httpmw"
	"dvd-rental-backend/internal/rentals"
)

func main() {
	// 設定読み込み（ファイルが無ければデフォルトで起動）
	path := os.Getenv("DVD_CONFIG")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("[ERROR] %v", err)
		}
		log.Printf("[WARN] %s not found, using defaults", path)
	}
	cfg.ApplyEnv()
	log.Printf("[INFO] mode:%s", cfg.Mode)

	ledger := rentals.NewLedger(nil)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: newRouter(cfg, ledger),
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			log.Printf("[INFO] listening on https://%s", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			log.Printf("[INFO] listening on http://%s", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	// 台帳は永続化しないので，破棄される件数を残しておく
	log.Printf("[INFO] shutting down... discarding %d rentals", ledger.Len())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}

// newRouter は台帳を受け取ってルーティングを組み立てる。台帳はプロセスで1つ
func newRouter(cfg *config.Config, ledger *rentals.Ledger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	// 顧客名は自由文字列なので %2F をパス区切りとして扱わない
	r.UseRawPath = true
	r.Use(gin.Logger(), gin.Recovery(), httpmw.RequestID(nil))
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == config.ModeDev {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", httpmw.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Location", httpmw.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	if cfg.RateLimit.Enabled {
		r.Use(httpmw.RateLimit(httpmw.NewLimiterStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
		log.Printf("[INFO] rate limit rps=%.2f burst=%d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rentals.RegisterRoutes(r, rentals.NewService(ledger))
	return r
}
