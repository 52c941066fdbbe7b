package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lensly/booking-marketplace/internal/config"
	"github.com/lensly/booking-marketplace/internal/database"
	"github.com/lensly/booking-marketplace/internal/handler"
	"github.com/lensly/booking-marketplace/internal/middleware"
	"github.com/lensly/booking-marketplace/internal/queue"
	"github.com/lensly/booking-marketplace/internal/repository"
	"github.com/lensly/booking-marketplace/internal/repository/mysql"
	"github.com/lensly/booking-marketplace/internal/router"
	"github.com/lensly/booking-marketplace/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	// Storage backend: MySQL when DB_HOST is configured, otherwise the
	// file-backed record store under DATA_DIR.
	var (
		users    repository.UserStore
		profiles repository.ProfileStore
		bookings repository.BookingStore
		payments repository.PaymentStore
		reviews  repository.ReviewStore
	)
	if cfg.UseMySQL() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql connect failed: %v", err)
		}
		users = mysql.NewUserStore(db)
		profiles = mysql.NewProfileStore(db)
		bookings = mysql.NewBookingStore(db)
		payments = mysql.NewPaymentStore(db)
		reviews = mysql.NewReviewStore(db)
		log.Printf("storage: mysql (%s/%s)", cfg.DBHost, cfg.DBName)
	} else {
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			log.Fatalf("open file store failed: %v", err)
		}
		users = repository.NewFileUserStore(st)
		profiles = repository.NewFileProfileStore(st)
		bookings = repository.NewFileBookingStore(st)
		payments = repository.NewFilePaymentStore(st)
		reviews = repository.NewFileReviewStore(st)
		log.Printf("storage: file store (%s)", cfg.DataDir)
	}

	userRepo := repository.NewUserRepo(users)
	profileRepo := repository.NewProfileRepo(profiles, users)
	bookingRepo := repository.NewBookingRepo(bookings, users)
	paymentRepo := repository.NewPaymentRepo(payments, bookings)
	reviewRepo := repository.NewReviewRepo(reviews, bookings, profileRepo)

	authH := handler.NewAuthHandler(cfg, userRepo, profileRepo)
	bookingH := handler.NewBookingHandler(bookingRepo)
	paymentH := handler.NewPaymentHandler(paymentRepo, bookingRepo)
	reviewH := handler.NewReviewHandler(reviewRepo)
	profileH := handler.NewProfileHandler(profileRepo)

	e := echo.New()

	// Redis-backed rate limiting; degrades to a no-op when Redis is
	// unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, profileH, reviewH)
	router.RegisterBookings(e, cfg.JWTSecret, bookingH, paymentH, reviewH, profileH)

	// Background consumer appending booking events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
