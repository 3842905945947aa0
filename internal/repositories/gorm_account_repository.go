package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pogo-accounts/internal/models"
)

// GORMAccountRepository is a GORM implementation of AccountRepository.
// It relies on the database unique index on email (with GORM error
// translation enabled) to surface duplicates as ErrDuplicateEmail.
type GORMAccountRepository struct {
	db *gorm.DB
}

// NewGORMAccountRepository creates a new instance of GORMAccountRepository.
func NewGORMAccountRepository(db *gorm.DB) *GORMAccountRepository {
	return &GORMAccountRepository{
		db: db,
	}
}

// GetAll retrieves up to limit accounts, newest first.
func (r *GORMAccountRepository) GetAll(limit int) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetByID retrieves a single account by its ID.
func (r *GORMAccountRepository) GetByID(id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return &account, nil
}

// Create inserts a new account, assigning an ID if none is set.
func (r *GORMAccountRepository) Create(account *models.Account) error {
	if account.ID == "" {
		account.ID = NewAccountID()
	}
	if err := r.db.Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// Update applies fields to the account with the given id. A payload identical
// to the stored record returns ErrNotModified and leaves updated_at untouched.
func (r *GORMAccountRepository) Update(id string, fields map[string]any) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load account %s for update: %w", id, err)
	}

	if !wouldChange(&account, fields) {
		return nil, ErrNotModified
	}

	if err := r.db.Model(&account).Updates(fields).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update account %s: %w", id, err)
	}

	// Reload so the returned record reflects exactly what was stored.
	var updated models.Account
	if err := r.db.First(&updated, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload account %s after update: %w", id, err)
	}
	return &updated, nil
}

// Delete removes an account by its ID and returns the deleted record.
func (r *GORMAccountRepository) Delete(id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load account %s for deletion: %w", id, err)
	}

	res := r.db.Delete(&models.Account{}, "id = ?", id)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete account %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &account, nil
}

// wouldChange reports whether applying fields to the stored account would
// modify any column.
func wouldChange(account *models.Account, fields map[string]any) bool {
	for name, value := range fields {
		switch name {
		case "username":
			if account.Username != value.(string) {
				return true
			}
		case "email":
			if account.Email != value.(string) {
				return true
			}
		case "team":
			if account.Team != value.(string) {
				return true
			}
		case "country":
			if account.Country != value.(string) {
				return true
			}
		case "birthday":
			t := value.(time.Time)
			if account.Birthday == nil || !account.Birthday.Equal(t) {
				return true
			}
		case "level":
			n := value.(int)
			if account.Level == nil || *account.Level != n {
				return true
			}
		}
	}
	return false
}
