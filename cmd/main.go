package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"greenfield-library/internal/auth"
	"greenfield-library/internal/config"
	"greenfield-library/internal/handlers"
	"greenfield-library/internal/models"
	"greenfield-library/internal/notify"
	"greenfield-library/internal/repositories"
	"greenfield-library/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	var (
		userRepo    repositories.UserRepository
		bookRepo    repositories.BookRepository
		requestRepo repositories.RequestRepository
	)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("failed to get generic DB: %v", err)
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)

		if err := db.AutoMigrate(&models.User{}, &models.Book{}, &models.Request{}); err != nil {
			log.Fatalf("failed to migrate schema: %v", err)
		}

		userRepo = repositories.NewUserRepository(db)
		bookRepo = repositories.NewBookRepository(db)
		requestRepo = repositories.NewRequestRepository(db)

	case config.BackendMemory:
		store := repositories.NewMemoryStore()
		userRepo = store.Users()
		bookRepo = store.Books()
		requestRepo = store.Requests()
		log.Printf("[WARN] using in-memory store, data is not persisted")
	}

	var channel notify.Channel = notify.LogChannel{}
	if cfg.SMTPHost != "" {
		channel = notify.NewSMTPChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	}
	sender := notify.NewSender(channel)

	libraryService := services.NewLibraryService(userRepo, bookRepo, requestRepo, sender)
	authManager := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL)

	router := gin.Default()

	handlers.RegisterRoutes(router, libraryService, authManager)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
