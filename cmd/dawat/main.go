package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dawat-dev/dawat/db"
	"github.com/dawat-dev/dawat/internal/auth"
	"github.com/dawat-dev/dawat/internal/handlers"
	"github.com/dawat-dev/dawat/internal/router"
	"github.com/dawat-dev/dawat/internal/scheduler"
	"github.com/dawat-dev/dawat/internal/services"
	"github.com/dawat-dev/dawat/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	conn, err := db.Connect(os.Getenv("DATABASE_URL"))

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	dataStore := store.New(conn)
	hub := handlers.NewHub()

	notifier := &services.Notifier{
		DiscordWebhook: os.Getenv("REMINDER_DISCORD_WEBHOOK"),
		SlackWebhook:   os.Getenv("REMINDER_SLACK_WEBHOOK"),
	}

	reminder := scheduler.New(dataStore, hub, notifier, reminderInterval())
	reminder.Start()
	defer reminder.Stop()

	r := router.New(conn, dataStore, hub)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func reminderInterval() time.Duration {
	if raw := os.Getenv("REMINDER_INTERVAL_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
		log.Printf("Invalid REMINDER_INTERVAL_MINUTES %q, using default", raw)
	}

	return time.Hour
}
