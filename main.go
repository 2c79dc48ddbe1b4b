package main

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "hospital-admin-service/config"
    "hospital-admin-service/controllers"
    "hospital-admin-service/ledger"
    "hospital-admin-service/routes"
    "hospital-admin-service/security"

    "github.com/gin-gonic/gin"
    "github.com/joho/godotenv"
)

func main() {
    // Load environment variables from .env file if present
    if err := godotenv.Load(); err != nil {
        config.Logger.Debug("No .env file found, using environment")
    }

    config.ConnectDB()

    // Wire the purchase ledger to its Postgres-backed store
    controllers.Purchases = ledger.New(ledger.NewPostgresStore(config.DB))

    r := gin.Default()

    r.Use(security.CORSMiddleware())

    api := r.Group("/api/admin")
    routes.AdminRoutes(api)

    port := config.GetEnv("PORT", "8082")

    srv := &http.Server{
        Addr:    ":" + port,
        Handler: r,
    }

    // Start server in a goroutine
    go func() {
        config.Logger.Infof("Hospital admin service starting on port %s", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            config.Logger.Fatalf("Failed to start server: %v", err)
        }
    }()

    // Wait for interrupt signal to gracefully shutdown the server
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit
    config.Logger.Info("Shutting down hospital admin service...")

    // Give outstanding requests 30 seconds to complete
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    if err := srv.Shutdown(ctx); err != nil {
        config.Logger.Fatalf("Hospital admin service forced to shutdown: %v", err)
    }

    config.Logger.Info("Hospital admin service exited")
}
