package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"relay_chat/internal/api"
	"relay_chat/internal/config"
	"relay_chat/internal/models"
	"relay_chat/internal/repository"
	"relay_chat/internal/service"
	"relay_chat/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	repos := repository.NewRepositories(db)

	services := service.NewServices(repos, cfg.Chat.HistoryLimit, cfg.Chat.DeliveryDelay())

	r := gin.Default()
	api.SetupRoutes(r, services, cfg.Chat.HistoryLimit)

	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
