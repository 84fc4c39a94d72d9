package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boylish/Task-Manager-backend/config"
	"github.com/boylish/Task-Manager-backend/handlers"
	"github.com/boylish/Task-Manager-backend/logging"
	"github.com/boylish/Task-Manager-backend/middleware"
	"github.com/boylish/Task-Manager-backend/services"
	"github.com/boylish/Task-Manager-backend/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("logs")
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: Failed to load configuration: %v", err)
	}

	logging.InitLogger(cfg.LogDir)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting task manager backend...")

	utils.SetJWTSecret(cfg.JWTSecret)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB, database: %s", cfg.MongoDBName)

	db := client.Database(cfg.MongoDBName)
	tasksCollection := db.Collection("tasks")
	usersCollection := db.Collection("users")

	dashboardBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "DashboardAggregationCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	taskService := services.NewTaskService(tasksCollection, usersCollection)
	userService := services.NewUserService(usersCollection, tasksCollection, cfg.AdminInviteToken)
	dashboardService := services.NewDashboardService(tasksCollection, dashboardBreaker)
	reportService := services.NewReportService(taskService, userService)

	authHandler := handlers.NewAuthHandler(userService, cfg.UploadDir)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	reportHandler := handlers.NewReportHandler(reportService)

	r := mux.NewRouter()

	// Public auth routes
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/upload-image", authHandler.UploadImage).Methods(http.MethodPost)

	// Authenticated routes. Admin-only handlers are wrapped individually; the
	// fixed /tasks/... paths must be registered before the {id} routes so mux
	// never captures them as task ids.
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AdminOnly(h)
	}

	auth := r.PathPrefix("/api").Subrouter()
	auth.Use(middleware.JWTAuthMiddleware)

	auth.HandleFunc("/auth/profile", authHandler.GetProfile).Methods(http.MethodGet)
	auth.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods(http.MethodPut)

	auth.Handle("/users", adminOnly(userHandler.GetAllUsers)).Methods(http.MethodGet)
	auth.HandleFunc("/users/{id}", userHandler.GetUserByID).Methods(http.MethodGet)
	auth.Handle("/users/{id}", adminOnly(userHandler.DeleteUser)).Methods(http.MethodDelete)

	auth.HandleFunc("/tasks", taskHandler.GetAllTasks).Methods(http.MethodGet)
	auth.Handle("/tasks", adminOnly(taskHandler.CreateTask)).Methods(http.MethodPost)
	auth.Handle("/tasks/dashboard-data", adminOnly(dashboardHandler.GetDashboardData)).Methods(http.MethodGet)
	auth.HandleFunc("/tasks/user-dashboard-data", dashboardHandler.GetUserDashboardData).Methods(http.MethodGet)
	auth.HandleFunc("/tasks/{id}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	auth.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	auth.Handle("/tasks/{id}", adminOnly(taskHandler.DeleteTask)).Methods(http.MethodDelete)
	auth.HandleFunc("/tasks/{id}/status", taskHandler.UpdateTaskStatus).Methods(http.MethodPut)
	auth.HandleFunc("/tasks/{id}/todo", taskHandler.UpdateTaskChecklist).Methods(http.MethodPut)

	auth.Handle("/reports/export/tasks", adminOnly(reportHandler.ExportTasksReport)).Methods(http.MethodGet)
	auth.Handle("/reports/export/users", adminOnly(reportHandler.ExportUsersReport)).Methods(http.MethodGet)

	// Static serving of uploaded images
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	corsRouter := middleware.EnableCORS(cfg.AllowedOrigins)(r)

	serverAddress := fmt.Sprintf(":%s", cfg.ServerPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
