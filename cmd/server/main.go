package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Dias221467/Hydration_Tracker/internal/config"
	"github.com/Dias221467/Hydration_Tracker/internal/database"
	"github.com/Dias221467/Hydration_Tracker/internal/handlers"
	"github.com/Dias221467/Hydration_Tracker/internal/jobs"
	"github.com/Dias221467/Hydration_Tracker/internal/repository"
	cron "github.com/Dias221467/Hydration_Tracker/internal/scheduler"
	"github.com/Dias221467/Hydration_Tracker/internal/services"
	"github.com/Dias221467/Hydration_Tracker/pkg/logger"
	"github.com/Dias221467/Hydration_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	waterRepo := repository.NewWaterRepository(db)
	bottleRepo := repository.NewBottleRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	ledgerService := services.NewLedgerService(waterRepo, waterRepo, bottleRepo, cfg.StoreTimeout)
	ledgerService.SetPublisher(handlers.PushAggregateUpdate)
	waterLogService := services.NewWaterLogService(waterRepo, ledgerService, cfg.StoreTimeout)
	bottleService := services.NewBottleService(bottleRepo, cfg.StoreTimeout)
	notificationService := services.NewNotificationService(notificationRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	waterHandler := handlers.NewWaterHandler(ledgerService, waterLogService, userService)
	bottleHandler := handlers.NewBottleHandler(bottleService, ledgerService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	socketHandler := handlers.NewWaterSocketHandler(cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Register User routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/verify", userHandler.VerifyEmailHandler).Methods("GET")

	// Protected user routes (only authenticated users can access)
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")
	protectedUserRoutes.HandleFunc("/{id}/preferences", userHandler.UpdatePreferencesHandler).Methods("PATCH")

	// Water ledger routes
	protectedWaterRoutes := router.PathPrefix("/water").Subrouter()
	protectedWaterRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedWaterRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedWaterRoutes.HandleFunc("/intake", waterHandler.IntakeHandler).Methods("POST")
	protectedWaterRoutes.HandleFunc("/today", waterHandler.TodayHandler).Methods("GET")
	protectedWaterRoutes.HandleFunc("/events", waterHandler.ListEventsHandler).Methods("GET")
	protectedWaterRoutes.HandleFunc("/events/{id}", waterHandler.DeleteEventHandler).Methods("DELETE")
	protectedWaterRoutes.HandleFunc("/suggestions", waterHandler.SuggestionsHandler).Methods("GET")

	// Live updates ride a token query param, not the auth header
	router.HandleFunc("/water/live", socketHandler.LiveUpdatesHandler).Methods("GET")

	// Bottle catalog routes
	protectedBottleRoutes := router.PathPrefix("/bottles").Subrouter()
	protectedBottleRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedBottleRoutes.HandleFunc("", bottleHandler.CreateBottleHandler).Methods("POST")
	protectedBottleRoutes.HandleFunc("", bottleHandler.ListBottlesHandler).Methods("GET")
	protectedBottleRoutes.HandleFunc("/{id}", bottleHandler.GetBottleHandler).Methods("GET")
	protectedBottleRoutes.HandleFunc("/{id}", bottleHandler.UpdateBottleHandler).Methods("PUT")
	protectedBottleRoutes.HandleFunc("/{id}", bottleHandler.DeleteBottleHandler).Methods("DELETE")
	protectedBottleRoutes.HandleFunc("/{id}/pour", bottleHandler.PourBottleHandler).Methods("POST")

	// Notification routes
	protectedNotificationRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotificationRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	protectedNotificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background reminder scans
	reminder := jobs.NewHydrationReminder(userService, ledgerService, notificationService)
	cron.StartReminderCronJobs(reminder, notificationService)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
