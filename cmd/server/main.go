package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bravo-servizi/bravo/internal/admin"
	"github.com/bravo-servizi/bravo/internal/alerts"
	"github.com/bravo-servizi/bravo/internal/auth"
	"github.com/bravo-servizi/bravo/internal/board"
	"github.com/bravo-servizi/bravo/internal/chat"
	"github.com/bravo-servizi/bravo/internal/config"
	"github.com/bravo-servizi/bravo/internal/escrow"
	mware "github.com/bravo-servizi/bravo/internal/middleware"
	"github.com/bravo-servizi/bravo/internal/review"
	"github.com/bravo-servizi/bravo/internal/store"
	"github.com/bravo-servizi/bravo/internal/wallet"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Record store: Postgres behind the cache-aside wrapper when configured,
	// plain in-memory otherwise (dev mode).
	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL, cfg.StoreTimeout)
		if err != nil {
			log.Fatalf("store init failed: %v", err)
		}
		defer pg.Close()

		var snap store.Snapshotter = store.NewMemorySnapshot()
		if cfg.RedisAddr != "" {
			snap = store.NewRedisSnapshot(store.NewRedis(cfg.RedisAddr, cfg.RedisPassword))
		}
		st = store.NewCached(pg, snap, cfg.StoreRetries)
	} else {
		log.Println("no DATABASE_URL, using in-memory store")
		st = store.NewMemory()
	}

	alerts.Init(cfg.RedisAddr, cfg.RedisPassword)
	defer alerts.Close()

	// Services
	authSvc := auth.New(st, cfg.JWTSecret, cfg.JWTExpiry, cfg.AdminEmail)
	walletSvc := wallet.New(st)
	boardSvc := board.New(st)
	engine := escrow.New(st, walletSvc)
	reviewSvc := review.New(st)
	adminSvc := admin.New(st)
	chatSvc := chat.New(st)

	authH := auth.NewHandlers(authSvc)
	boardH := board.NewHandlers(boardSvc, authSvc)
	escrowH := escrow.NewHandlers(engine, authSvc)
	reviewH := review.NewHandlers(reviewSvc, authSvc)
	walletH := wallet.NewHandlers(walletSvc)
	adminH := admin.NewHandlers(adminSvc)
	chatH := chat.NewHandlers(chatSvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Health
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/ready", func(c echo.Context) error {
		if _, err := st.GetAll(c.Request().Context(), store.TableUsers); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes with per-IP rate limiting on auth
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", authH.HandleSignup)
	authGroup.POST("/login", authH.HandleLogin)

	e.GET("/pros/:name/reviews", reviewH.HandleProReviews)

	// Authenticated routes
	g := e.Group("")
	g.Use(mware.JWT(cfg.JWTSecret))

	g.GET("/auth/me", authH.HandleMe)
	g.POST("/auth/role", authH.HandleSwitchRole)
	g.POST("/verification/request", adminH.HandleRequestVerification)

	g.GET("/requests", boardH.HandleList)
	g.POST("/requests", boardH.HandlePublish, mware.RequireRoles("cliente"))
	g.POST("/requests/:id/apply", boardH.HandleApply, mware.RequireRoles("professionista"))
	g.POST("/requests/:id/accept", boardH.HandleAccept, mware.RequireRoles("cliente"))

	g.GET("/jobs", escrowH.HandleList)
	g.POST("/jobs/:id/complete", escrowH.HandleComplete)

	g.GET("/pros/:name/reviews/eligibility", reviewH.HandleEligibility, mware.RequireRoles("cliente"))
	g.POST("/pros/:name/reviews", reviewH.HandleCreate, mware.RequireRoles("cliente"))
	g.POST("/reviews/:id/response", reviewH.HandleRespond, mware.RequireRoles("professionista"))

	g.GET("/wallet/balance", walletH.HandleBalance, mware.RequireRoles("professionista"))

	g.GET("/chats", chatH.HandleList)
	g.PUT("/chats", chatH.HandleSave)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(mware.JWT(cfg.JWTSecret))
	adminGroup.Use(mware.AdminGuard)
	adminGroup.GET("/stats", adminH.HandleStats)
	adminGroup.POST("/verifications/:email/approve", adminH.HandleApproveVerification)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
