package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"gorm.io/gorm"
)

// MySQLStore implements Store using GORM.
type MySQLStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewMySQLStore creates a new GORM-backed admin store.
func NewMySQLStore(db *gorm.DB, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: log,
	}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create creates a new admin in the database.
func (s *MySQLStore) Create(ctx context.Context, a *Admin) error {
	if err := a.Validate(); err != nil {
		return err
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateEmail
		}
		s.logger.Error(ctx, "failed to create admin", map[string]interface{}{
			"error": err.Error(),
			"email": a.Email,
		})
		return err
	}

	s.logger.Info(ctx, "admin created", map[string]interface{}{
		"admin_id": a.ID,
		"email":    a.Email,
	})

	return nil
}

// GetByID retrieves an active admin by ID.
func (s *MySQLStore) GetByID(ctx context.Context, id uint) (*Admin, error) {
	var a Admin
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&a).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error(ctx, "failed to get admin by ID", map[string]interface{}{
			"error":    err.Error(),
			"admin_id": id,
		})
		return nil, err
	}

	return &a, nil
}

// GetByEmail retrieves an active admin by email, ignoring case.
func (s *MySQLStore) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&a).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error(ctx, "failed to get admin by email", map[string]interface{}{
			"error": err.Error(),
			"email": email,
		})
		return nil, err
	}

	return &a, nil
}

// Update applies setters to the admin and saves it. Disabled admins can be
// updated so they may be re-enabled.
func (s *MySQLStore) Update(ctx context.Context, id uint, setters ...UpdateSetter) error {
	var a Admin
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	for _, setter := range setters {
		if err := setter(&a); err != nil {
			return err
		}
	}

	if err := s.db.WithContext(ctx).Save(&a).Error; err != nil {
		s.logger.Error(ctx, "failed to update admin", map[string]interface{}{
			"error":    err.Error(),
			"admin_id": id,
		})
		return err
	}

	s.logger.Info(ctx, "admin updated", map[string]interface{}{
		"admin_id": id,
	})

	return nil
}
