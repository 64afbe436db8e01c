package main

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/travelapp/clients"
	"github.com/joy095/travelapp/config"
	"github.com/joy095/travelapp/config/db"
	"github.com/joy095/travelapp/config/redis"
	"github.com/joy095/travelapp/logger"
	"github.com/joy095/travelapp/middlewares/cors"
	ginlogger "github.com/joy095/travelapp/middlewares/logger"
	"github.com/joy095/travelapp/routes"
	"github.com/joy095/travelapp/utils/mail"
)

//go:embed templates/email/*
var embeddedEmailTemplates embed.FS

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	db.Connect()
	defer db.Close()
	defer redis.CloseRedis()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mail.InitTemplates(embeddedEmailTemplates)
	logger.InfoLogger.Info("Application: Email templates initialized.")

	notifier := mail.NewQueue(64)
	defer notifier.Close()

	gateway := clients.NewChapaClient(os.Getenv("CHAPA_SECRET_KEY"), os.Getenv("CHAPA_BASE_URL"))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.CorsMiddleware())
	r.Use(ginlogger.GinLogger())

	routes.RegisterListingRoutes(r)
	routes.RegisterBookingRoutes(r, gateway, notifier)
	routes.RegisterPaymentRoutes(r, gateway, notifier)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok from travel service"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		fmt.Printf("Go Server listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server failed to listen: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down Go server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Go Server forced to shutdown: %v\n", err)
	}

	fmt.Println("Go Server exited gracefully.")
}
