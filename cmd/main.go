package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"tickethub/backend/internal/api/handler"
	"tickethub/backend/internal/chathub"
	"tickethub/backend/internal/config"
	"tickethub/backend/internal/models"
	"tickethub/backend/internal/sla"
	"tickethub/backend/internal/storage"
	"tickethub/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Ticket{},
		&models.Category{},
		&models.MessageRecord{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

// seedCategories creates the default support categories on first boot.
func seedCategories(s *storage.Service) {
	existing, err := s.ListCategories()
	if err != nil || len(existing) > 0 {
		return
	}
	for _, name := range []string{"Payments", "Product Issues", "Technical Glitches", "General Inquiries"} {
		if err := s.SaveCategory(&models.Category{Name: name}); err != nil {
			log.Printf("WARNING: Failed to seed category %q: %v", name, err)
		}
	}
}

func main() {
	log.Println("Starting TicketHub Backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)
	seedCategories(s)

	hub := chathub.NewManagerService(s)
	go hub.Run()

	var notifier handler.TicketNotifier
	var escalations sla.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		n, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		notifier = n
		escalations = n
	} else {
		log.Println("Telegram notifications disabled (no TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID)")
	}

	monitor := sla.NewMonitor(s, escalations)
	go monitor.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, s, notifier, []byte(cfg.JWTSecret))

	r.GET("/api/session", h.GetSession)
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/api/health", h.Health)
	r.GET("/api/categories", h.ListCategories)
	r.POST("/api/tickets", h.CreateTicket)
	r.GET("/api/tickets/:id", h.GetTicket)
	r.GET("/api/tickets/:id/messages", h.GetTicketMessages)
	r.PUT("/api/tickets/:id/status", h.UpdateTicketStatus)

	server := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("HTTP server listening on %s", cfg.Addr())
	log.Fatal(server.ListenAndServe())
}
