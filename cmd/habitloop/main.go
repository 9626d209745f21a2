package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/habitloop-dev/habitloop/db"
	"github.com/habitloop-dev/habitloop/internal/handlers"
	"github.com/habitloop-dev/habitloop/internal/router"
	"github.com/habitloop-dev/habitloop/internal/scheduler"
	"github.com/habitloop-dev/habitloop/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	dispatchers := []services.Dispatcher{
		&services.FuncDispatcher{ChannelName: "feed", Fn: handlers.BroadcastReminder},
	}

	if webhookURL := os.Getenv("REMINDER_WEBHOOK_URL"); webhookURL != "" {
		dispatchers = append(dispatchers, services.NewWebhookDispatcher(webhookURL))
	}

	if err := scheduler.Initialize(os.Getenv("REFRESH_SCHEDULE"), dispatchers...); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Shutdown()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
