// Package session keeps authentication state server-side: the browser holds
// only a signed session-id cookie, while the backend token and cached profile
// live encrypted in the console's own database.
package session

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Session is one authenticated browser session. Token holds the backend's
// opaque token sealed with chacha20poly1305; UserJSON caches the profile.
type Session struct {
	ID        string `gorm:"primaryKey;size:36"`
	Token     []byte
	UserJSON  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store struct {
	db *gorm.DB
}

// Open connects to the session database and migrates the schema. The DSN
// selects the driver: postgres:// style for postgres, anything else sqlite.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("SESSION_DSN is empty")
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	var db *gorm.DB
	var err error
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") || strings.Contains(lower, "host=") {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.AutoMigrate(&Session{}); err != nil {
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing gorm handle (tests).
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Session{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Create(sess *Session) error {
	return s.db.Create(sess).Error
}

func (s *Store) Get(id string) (*Session, error) {
	var sess Session
	if err := s.db.First(&sess, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Save(sess *Session) error {
	return s.db.Save(sess).Error
}

func (s *Store) Delete(id string) error {
	return s.db.Delete(&Session{}, "id = ?", id).Error
}

// Count returns the number of stored sessions (tests, health checks).
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.Model(&Session{}).Count(&n).Error
	return n, err
}

// Ping runs a trivial query so health checks can verify connectivity.
func (s *Store) Ping() error {
	return s.db.Exec("SELECT 1").Error
}
