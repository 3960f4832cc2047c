package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/auth"
	"github.com/korzhan/resource-tracker/internal/config"
	"github.com/korzhan/resource-tracker/internal/database"
	"github.com/korzhan/resource-tracker/internal/handler"
	mw "github.com/korzhan/resource-tracker/internal/middleware"
	"github.com/korzhan/resource-tracker/internal/queue"
	"github.com/korzhan/resource-tracker/internal/repository"
	"github.com/korzhan/resource-tracker/internal/router"
	qp "github.com/korzhan/resource-tracker/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	if err := database.Migrate(cfg.MigrationsDir, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	accounts := repository.NewAccountRepo(db)
	resets := repository.NewResetTokenRepo(db)

	issuer := auth.Issuer{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Duration(cfg.TokenTTLMin) * time.Minute,
	}
	totp := &auth.TOTPService{Issuer: cfg.TOTPIssuer, Secrets: accounts}

	authHandler := &handler.AuthHandler{
		Cfg:      cfg,
		Accounts: accounts,
		Resets:   resets,
		Issuer:   issuer,
		TOTP:     totp,
		Publish:  qp.PublishAuditEvent,
	}
	resourceHandler := &handler.ResourceHandler{
		Employees:    repository.NewEmployeeRepo(db),
		Departments:  repository.NewDepartmentRepo(db),
		Designations: repository.NewDesignationRepo(db),
		Skills:       repository.NewSkillRepo(db),
		Clients:      repository.NewClientRepo(db),
		Projects:     repository.NewProjectRepo(db),
		Assignments:  repository.NewAssignmentRepo(db),
		Billing:      repository.NewBillingRepo(db),
		Deliveries:   repository.NewDeliveryRepo(db),
		Candidates:   repository.NewCandidateRepo(db),
		Analytics:    repository.NewAnalyticsRepo(db),
		Publish:      qp.PublishAuditEvent,
	}

	e := echo.New()
	e.HideBanner = true

	// Redis backs rate limiting and the analytics cache. Both degrade to
	// passthrough when the client is nil.
	rdb := config.NewRedisClient()
	e.Use(mw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = mw.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterResources(e, resourceHandler, cfg.JWTSecret)
	router.RegisterAnalytics(e, resourceHandler, cfg.JWTSecret, cacheMW)

	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
