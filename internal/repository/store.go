package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on PostgreSQL or SQLite. Embedded lists live
// in JSON text columns.
type GormStore struct {
	db       *gorm.DB
	users    *userRepository
	profiles *profileRepository
	posts    *postRepository
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	metrics := observability.NewStoreMetrics(db.Dialector.Name())
	return &GormStore{
		db:       db,
		users:    &userRepository{db: db, metrics: metrics, log: observability.NewRepoLogger("users")},
		profiles: &profileRepository{db: db, metrics: metrics, log: observability.NewRepoLogger("profiles")},
		posts:    &postRepository{db: db, metrics: metrics, log: observability.NewRepoLogger("posts")},
	}
}

// AutoMigrate creates or updates the tables for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Post{})
}

func (s *GormStore) Users() UserRepository       { return s.users }
func (s *GormStore) Profiles() ProfileRepository { return s.profiles }
func (s *GormStore) Posts() PostRepository       { return s.posts }
func (s *GormStore) Driver() string              { return s.db.Dialector.Name() }

// Ping checks the underlying connection pool.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Reset deletes every row of every table.
func (s *GormStore) Reset(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Post{}, &models.Profile{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newID() string {
	return uuid.NewString()
}

// checkID rejects identifiers that are not UUIDs.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// translate maps gorm and driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicateKey(err):
		return ErrDuplicate
	default:
		return err
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// forUpdate row-locks the selected rows on dialects that support it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
