package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stripe/stripe-go/v76"

	"replyMateAPI/handlers"
	"replyMateAPI/middleware"
	"replyMateAPI/services"
	"replyMateAPI/store"
)

var (
	dbPool              *pgxpool.Pool
	geminiService       *services.GeminiService
	userService         *services.UserService
	subscriptionService *services.SubscriptionService
	submissionService   *services.SubmissionService
	analyticsService    *services.AnalyticsService
	generationService   *services.GenerationService
	billingService      *services.BillingService
	webhookSecret       string
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		log.Fatal("STRIPE_SECRET_KEY environment variable is not set")
	}
	stripe.Key = stripeKey

	webhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("STRIPE_WEBHOOK_SECRET environment variable is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("Successfully connected to Postgres")

	pg := store.NewPostgres(dbPool)
	if err := pg.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is not set")
	}
	geminiService, err = services.NewGeminiService(context.Background(), geminiKey)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	log.Println("Gemini client initialized successfully")

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:3000"
	}

	userService = services.NewUserService(pg.Users)
	submissionService = services.NewSubmissionService(pg.Submissions)
	subscriptionService = services.NewSubscriptionService(pg.Subscriptions, pg.Submissions)
	analyticsService = services.NewAnalyticsService(pg.Submissions)
	generationService = services.NewGenerationService(geminiService, subscriptionService, submissionService)
	billingService = services.NewBillingService(
		services.StripeSessions{},
		appURL,
		os.Getenv("STRIPE_PRO_PRICE_ID"),
		os.Getenv("STRIPE_TEAM_PRICE_ID"),
	)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
		geminiService.Close()
	}()

	generationHandler := handlers.NewGenerationHandler(generationService)
	billingHandler := handlers.NewBillingHandler(billingService)
	webhookHandler := handlers.NewWebhookHandler(subscriptionService, webhookSecret)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	adminHandler := handlers.NewAdminHandler(userService, submissionService, analyticsService)

	auth := middleware.NewAuth(userService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "replymate-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Stripe signs the raw body; no auth middleware in front of this.
	api.HandleFunc("/stripe-webhook", webhookHandler.HandleStripeWebhook).Methods("POST")
	api.HandleFunc("/create-checkout-session", billingHandler.CreateCheckoutSession).Methods("POST")

	// Generation works for anonymous callers too; identified ones get their
	// runs recorded and quota-checked.
	generate := api.PathPrefix("").Subrouter()
	generate.Use(auth.Optional)
	generate.HandleFunc("/generate-reply", generationHandler.GenerateReply).Methods("POST")
	generate.HandleFunc("/generate-tweets", generationHandler.GenerateTweets).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Required)
	protected.HandleFunc("/subscription", subscriptionHandler.GetSubscription).Methods("GET")
	protected.HandleFunc("/subscription/cancel", subscriptionHandler.Cancel).Methods("POST")
	protected.HandleFunc("/subscription/reactivate", subscriptionHandler.Reactivate).Methods("POST")
	protected.HandleFunc("/submissions", submissionHandler.ListSubmissions).Methods("GET")
	protected.HandleFunc("/submissions/{id}", submissionHandler.DeleteSubmission).Methods("DELETE")
	protected.HandleFunc("/usage", submissionHandler.GetUsage).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminOnly)
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/submissions", adminHandler.ListAllSubmissions).Methods("GET")
	admin.HandleFunc("/usage", adminHandler.AllUsage).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "X-User-ID", "Stripe-Signature"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
