package repositories

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"pogo-accounts/internal/models"
)

// Sentinel errors returned by repository implementations. The handler layer
// maps these onto HTTP status codes.
var (
	// ErrNotFound means no account matched the given id.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail means the unique index on email rejected an insert or
	// update. The index is the sole source of truth for duplicates; there is
	// no check-then-insert pre-check to race against.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotModified means an update matched a record but changed nothing.
	ErrNotModified = errors.New("account not modified")
)

// AccountRepository defines the interface for account data access.
type AccountRepository interface {
	GetAll(limit int) ([]models.Account, error)
	GetByID(id string) (*models.Account, error)
	Create(account *models.Account) error
	// Update applies the given column values to the account with the given
	// id and returns the updated record. Returns ErrNotFound if no account
	// matches and ErrNotModified if the values are identical to what is
	// already stored.
	Update(id string, fields map[string]any) (*models.Account, error)
	// Delete removes the account with the given id and returns the record
	// as it was at deletion time.
	Delete(id string) (*models.Account, error)
}

// NewAccountID returns a fresh 24-character lowercase hex identifier.
func NewAccountID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the platform entropy source is broken.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
