package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/summitops/conference-api/internal/db"
	"github.com/summitops/conference-api/internal/handlers"
	"github.com/summitops/conference-api/internal/mailer"
	"github.com/summitops/conference-api/internal/repository"
	"github.com/summitops/conference-api/internal/service"
	"github.com/summitops/conference-api/pkg/config"
	"github.com/summitops/conference-api/pkg/database"
	"github.com/summitops/conference-api/pkg/events"
	"github.com/summitops/conference-api/pkg/logger"
	mw "github.com/summitops/conference-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	if err := db.Migrate(cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var mailService mailer.Service
	if cfg.Email.DevMode || cfg.Email.MailerSendKey == "" {
		mailService = mailer.NewDevMailer()
	} else {
		mailService = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Repositories
	orderRepo := repository.NewOrderRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	idempotencyStore := repository.NewRedisIdempotencyStore(redisClient)

	// Services
	orderService := service.NewOrderService(orderRepo, mailService, eventBus)
	staffService := service.NewStaffService(staffRepo, mailService, eventBus, cfg)
	ticketService := service.NewTicketService(ticketRepo, mailService, eventBus)
	followUpService := service.NewFollowUpService(orderRepo, mailService, cfg)
	memberService := service.NewMemberService(memberRepo, eventBus)
	postService := service.NewPostService(postRepo)

	h := handlers.New(orderService, staffService, ticketService, followUpService, memberService, postService, cfg)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("conference-api"))
	r.Use(mw.Logging)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "Panic recovered", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(mw.Health)
	r.Use(mw.Metrics)

	r.Route("/api", func(r chi.Router) {
		// Payment provider callback. No auth: the provider does not
		// authenticate beyond its payload.
		r.Post("/webhook/modempay/ecommerce", h.HandleEcommerceWebhook)

		// Public storefront surface
		r.With(mw.Idempotency(idempotencyStore)).Post("/tickets/scholarship", h.CreateScholarshipTicket)
		r.Post("/newsletter", h.SubscribeMember)
		r.Delete("/newsletter/{email}", h.UnsubscribeMember)
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{id}", h.GetPost)

		r.Post("/staff/login", h.StaffLogin)

		// Admin dashboard surface
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)

			r.Route("/staff", func(r chi.Router) {
				r.Post("/", h.CreateStaff)
				r.Get("/", h.ListStaff)
				r.Get("/{id}", h.GetStaff)
				r.Patch("/{id}", h.UpdateStaff)
				r.Delete("/{id}", h.DeactivateStaff)
				r.Post("/{id}/reset-password", h.ResetStaffPassword)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.ListOrders)
				r.Get("/{id}", h.GetOrder)
			})

			r.Get("/follow-up", h.ListFollowUpCandidates)
			r.Post("/follow-up", h.SendFollowUps)

			r.Get("/tickets/scholarship", h.ListScholarshipTickets)
			r.Get("/newsletter", h.ListMembers)

			r.Post("/posts", h.CreatePost)
			r.Patch("/posts/{id}", h.UpdatePost)
			r.Delete("/posts/{id}", h.DeletePost)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down conference API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting conference API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
