package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluenta/tutor-be/database"
	"github.com/fluenta/tutor-be/internal/config"
	"github.com/fluenta/tutor-be/internal/content"
	"github.com/fluenta/tutor-be/internal/pkg/validate"
	"gorm.io/gorm"
)

func main() {
	viperConfig := config.NewViper()

	log := config.NewLogger(viperConfig)
	validator := validate.NewValidator()
	api := config.NewAPI(viperConfig, log)

	library := content.DefaultLibrary()
	if err := library.Validate(); err != nil {
		log.Fatalf("Content library is broken: %v", err)
	}
	log.Info("Content library validated")

	var db *gorm.DB
	if viperConfig.GetString("storage.driver") != "memory" {
		db = database.New(viperConfig)
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Info("Migrations completed successfully")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	defer stop()

	config.Bootstrap(&config.BootstrapConfig{
		Config:    viperConfig,
		Log:       log,
		Api:       api,
		Validator: validator,
		DB:        db,
		Content:   library,
	})

	listenAddr := viperConfig.GetString("api.listen_addr")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	go func() {
		if err := api.Listen(listenAddr); err != nil {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := api.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("API shutdown error: %v", err)
	}

	log.Info("Shutting down server...")

}
