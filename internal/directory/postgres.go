package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"chatrelay/internal/domain"
)

// ChatRoom is the persisted shape of a room record.
type ChatRoom struct {
	RoomID    string `gorm:"primaryKey"`
	User1     string
	User2     string
	IsActive  bool
	StartedAt time.Time
}

// Postgres is a directory backed by a chat_rooms table.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects to the given dsn and migrates the room table.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&ChatRoom{}); err != nil {
		return nil, fmt.Errorf("migrate chat rooms: %w", err)
	}
	log.Info().Str("module", "directory.postgres").Msg("room directory ready")
	return &Postgres{db: db}, nil
}

func (p *Postgres) Lookup(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	var rec ChatRoom
	err := p.db.WithContext(ctx).First(&rec, "room_id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup room %s: %w", id, err)
	}
	return &domain.Room{ID: domain.RoomID(rec.RoomID), User1: rec.User1, User2: rec.User2}, nil
}

func (p *Postgres) Create(ctx context.Context, user1, user2 string) (*domain.Room, error) {
	if err := validateParticipants(user1, user2); err != nil {
		return nil, err
	}
	room := newRoom(user1, user2)
	rec := ChatRoom{
		RoomID:    string(room.ID),
		User1:     room.User1,
		User2:     room.User2,
		IsActive:  true,
		StartedAt: time.Now(),
	}
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	log.Info().Str("module", "directory.postgres").Str("room", string(room.ID)).Msg("room created")
	return room, nil
}
