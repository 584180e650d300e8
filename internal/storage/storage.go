package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"tickethub/backend/internal/config"
	"tickethub/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrTicketNotFound is returned when a ticket id does not exist.
var ErrTicketNotFound = errors.New("ticket not found")

type Storage interface {
	SaveTicket(ticket *models.Ticket) error
	GetTicketByID(id uint) (*models.Ticket, error)
	UpdateTicketStatus(id uint, status models.TicketStatus) error
	UpdateTicketEscalation(id uint, level int) error
	ListOpenTickets() ([]models.Ticket, error)

	SaveMessage(msg *models.MessageRecord) error
	GetTicketMessages(ticketID uint) ([]models.MessageRecord, error)

	ListCategories() ([]models.Category, error)
	SaveCategory(category *models.Category) error

	PublishEvent(ticketID uint, ev models.Event) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// RoomChannel is the Redis Pub/Sub channel name for one ticket's room.
func RoomChannel(ticketID uint) string {
	return fmt.Sprintf("ticket:%d", ticketID)
}

// SaveTicket persists a ticket in PostgreSQL.
func (s *Service) SaveTicket(ticket *models.Ticket) error {
	return s.DB.Save(ticket).Error
}

func (s *Service) GetTicketByID(id uint) (*models.Ticket, error) {
	var ticket models.Ticket

	err := s.DB.First(&ticket, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get ticket %d: %v", id, err)
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicketStatus moves a ticket to a new lifecycle state.
func (s *Service) UpdateTicketStatus(id uint, status models.TicketStatus) error {
	result := s.DB.Model(&models.Ticket{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// UpdateTicketEscalation records a ticket's new escalation level.
func (s *Service) UpdateTicketEscalation(id uint, level int) error {
	result := s.DB.Model(&models.Ticket{}).
		Where("id = ?", id).
		Update("escalation_level", level)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// ListOpenTickets returns tickets that still need an agent, newest first.
func (s *Service) ListOpenTickets() ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.DB.
		Where("status IN ?", []models.TicketStatus{models.TicketStatusOpen, models.TicketStatusInProgress}).
		Order("created_at desc").
		Find(&tickets).Error
	if err != nil {
		log.Printf("ERROR: Failed to list open tickets: %v", err)
		return nil, err
	}
	return tickets, nil
}

// SaveMessage persists a chat message. record.ID and record.CreatedAt are
// populated by GORM; CreatedAt becomes the authoritative message timestamp.
func (s *Service) SaveMessage(msg *models.MessageRecord) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for ticket %d: %v", msg.TicketID, err)
		return err
	}
	return nil
}

// GetTicketMessages loads one ticket's conversation in creation order,
// capped at MaxHistoryMessages.
func (s *Service) GetTicketMessages(ticketID uint) ([]models.MessageRecord, error) {
	var history []models.MessageRecord
	err := s.DB.Where("ticket_id = ?", ticketID).
		Order("created_at asc").
		Limit(config.MaxHistoryMessages).
		Find(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return history, nil
		}
		log.Printf("ERROR: Failed to get messages for ticket %d: %v", ticketID, err)
		return nil, err
	}
	return history, nil
}

// ListCategories reads the support categories, consulting a Redis cache
// before falling back to PostgreSQL.
func (s *Service) ListCategories() ([]models.Category, error) {
	const cacheKey = "categories"

	if s.Redis != nil {
		cached, err := s.Redis.Get(s.Ctx, cacheKey).Result()
		if err == nil {
			var categories []models.Category
			if jsonErr := json.Unmarshal([]byte(cached), &categories); jsonErr == nil {
				return categories, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("WARNING: category cache read failed: %v", err)
		}
	}

	var categories []models.Category
	if err := s.DB.Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			s.Redis.Set(s.Ctx, cacheKey, data, 0)
		}
	}
	return categories, nil
}

func (s *Service) SaveCategory(category *models.Category) error {
	if err := s.DB.Save(category).Error; err != nil {
		return err
	}
	if s.Redis != nil {
		s.Redis.Del(s.Ctx, "categories")
	}
	return nil
}

// PublishEvent publishes a room event to Redis Pub/Sub so every server
// instance can fan it out to its own connected room members.
func (s *Service) PublishEvent(ticketID uint, ev models.Event) error {
	msgBytes, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, RoomChannel(ticketID), string(msgBytes)).Err()
}

// SubscribeToAllRooms subscribes to every ticket room channel.
func (s *Service) SubscribeToAllRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, "ticket:*")
}
