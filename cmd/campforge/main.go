package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campforge-dev/campforge/db"
	"github.com/campforge-dev/campforge/internal/auth"
	"github.com/campforge-dev/campforge/internal/router"
	"github.com/campforge-dev/campforge/internal/ws"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	verifier := selectVerifier()

	hub := ws.NewHub()

	r := router.NewRouter(hub, verifier)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server listening on :%s", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	hub.Shutdown()
}

// selectVerifier wires the identity provider. The dev verifier is only ever
// reachable when DEV_AUTH=true is set explicitly in the environment.
func selectVerifier() auth.Verifier {
	if os.Getenv("DEV_AUTH") == "true" {
		log.Println("WARNING: DEV_AUTH is enabled; all logins resolve to the dev user")
		return auth.DevVerifier{}
	}

	clientID := os.Getenv("GOOGLE_CLIENT_ID")

	if clientID == "" {
		log.Println("GOOGLE_CLIENT_ID not set; token audience will not be checked")
	}

	return auth.NewGoogleVerifier(clientID)
}
