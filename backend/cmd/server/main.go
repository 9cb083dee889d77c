package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus_electives/backend/internal/auth"
	"campus_electives/backend/internal/certification"
	"campus_electives/backend/internal/chat"
	"campus_electives/backend/internal/courses"
	"campus_electives/backend/internal/gateway"
	"campus_electives/backend/internal/marks"
	"campus_electives/backend/internal/projects"
	"campus_electives/backend/internal/shared"
	"campus_electives/backend/internal/tasks"
)

func main() {
	log.Println("INFO: Starting Campus Electives Server...")

	// 1. Load Configuration
	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("INFO: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadPortalConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Connect to MongoDB
	store, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := store.Disconnect(); err != nil {
			log.Printf("WARN: Error disconnecting from MongoDB: %v", err)
		}
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureIndexes(indexCtx); err != nil {
		log.Printf("WARN: Failed to ensure indexes: %v", err)
	}
	cancel()

	// 3. Initialize Services
	services := &gateway.Services{
		Auth:          auth.NewAuthService(store, cfg),
		Courses:       courses.NewCourseService(store),
		Projects:      projects.NewProjectService(store),
		Marks:         marks.NewMarksService(store),
		Certification: certification.NewCertificationService(store, cfg),
		Tasks:         tasks.NewTaskService(store),
		Chat:          chat.NewChatService(cfg),
	}

	// 4. Setup Routes and Middleware
	router := gateway.SetupRoutes(services, cfg)

	// 5. Configure Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Server listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: HTTP server shutdown error: %v", err)
	}

	log.Println("INFO: Server stopped.")
}
