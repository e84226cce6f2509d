package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "transitpay/internal/config"
	"transitpay/internal/events"
	"transitpay/internal/holds"
	router "transitpay/internal/http"
	"transitpay/internal/http/handlers"
	"transitpay/internal/paystack"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	env := intconfig.LoadEnv()

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	publisher, err := events.NewPublisher(env.AMQPURL)
	if err != nil {
		log.Printf("warning: event publisher disabled: %v", err)
	}
	defer publisher.Close()

	holdIndex := holds.NewIndex(env.RedisAddr)
	defer holdIndex.Close()

	handlers.Configure(handlers.AppDeps{
		Env:       env,
		Provider:  paystack.NewClient(env.PaystackSecretKey, env.PaystackBaseURL),
		Events:    publisher,
		HoldIndex: holdIndex,
	})

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
