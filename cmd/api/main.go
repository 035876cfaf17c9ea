// @title TripSplit API
// @version 1.0
// @description Group travel expense sharing with debt simplification.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"net/http"

	"github.com/bsm/redislock"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/roamly/tripsplit/internal/config"
	"github.com/roamly/tripsplit/internal/currency"
	"github.com/roamly/tripsplit/internal/database"
	"github.com/roamly/tripsplit/internal/debt"
	"github.com/roamly/tripsplit/internal/expense"
	expensesplit "github.com/roamly/tripsplit/internal/expense/split"
	"github.com/roamly/tripsplit/internal/group"
	"github.com/roamly/tripsplit/internal/location"
	"github.com/roamly/tripsplit/internal/notification"
	"github.com/roamly/tripsplit/internal/trip"
	"github.com/roamly/tripsplit/internal/user"
	"github.com/roamly/tripsplit/pkg/logging"
	mw "github.com/roamly/tripsplit/pkg/middleware"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("database ready")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	locker := redislock.New(rdb)

	validate := validator.New()
	splitFactory := expensesplit.NewSplitStrategyFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	userHandler := user.NewHandler(userService, validate)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, log)
	groupHandler := group.NewHandler(groupService, validate)

	// Trip feature
	tripRepo := trip.NewRepository(db)
	tripService := trip.NewService(tripRepo, groupService, log)
	tripHandler := trip.NewHandler(tripService, validate)

	// Expense feature (with split factory injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, splitFactory, groupService, notificationService, log)
	expenseHandler := expense.NewHandler(expenseService, validate)

	// Debt feature
	debtRepo := debt.NewRepository(db)
	debtService := debt.NewService(debtRepo, expenseService, groupService, notificationService, locker, log)
	debtHandler := debt.NewHandler(debtService)

	// Currency feature
	converter := currency.NewConverter(rdb, cfg.ExchangeRateAPIURL, log)
	currencyHandler := currency.NewHandler(converter, validate)

	// Location feature
	locationRepo := location.NewRepository(db)
	locationService := location.NewService(locationRepo, groupService, notificationService, log)
	locationHandler := location.NewHandler(locationService, validate)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", userHandler.AuthRoutes())

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(cfg.JWTSecret))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/trips", tripHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/debts", debtHandler.Routes())
			r.Mount("/currency", currencyHandler.Routes())
			r.Mount("/locations", locationHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	log.WithField("port", cfg.Port).Info("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
