package repositories

import (
	"sort"
	"sync"
	"time"

	"pogo-accounts/internal/models"
)

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	accounts map[string]models.Account
	mu       sync.RWMutex
}

// NewMockAccountRepository creates a new instance of MockAccountRepository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]models.Account),
	}
}

// GetAll returns up to limit accounts, newest first.
func (r *MockAccountRepository) GetAll(limit int) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// GetByID returns an account by its ID.
func (r *MockAccountRepository) GetByID(id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

// Create adds a new account, enforcing email uniqueness like the database
// unique index would.
func (r *MockAccountRepository) Create(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return ErrDuplicateEmail
		}
	}

	if account.ID == "" {
		account.ID = NewAccountID()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
	return nil
}

// Update applies fields to an existing account.
func (r *MockAccountRepository) Update(id string, fields map[string]any) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !wouldChange(&account, fields) {
		return nil, ErrNotModified
	}

	for name, value := range fields {
		switch name {
		case "username":
			account.Username = value.(string)
		case "email":
			email := value.(string)
			for otherID, other := range r.accounts {
				if otherID != id && other.Email == email {
					return nil, ErrDuplicateEmail
				}
			}
			account.Email = email
		case "team":
			account.Team = value.(string)
		case "country":
			account.Country = value.(string)
		case "birthday":
			t := value.(time.Time)
			account.Birthday = &t
		case "level":
			n := value.(int)
			account.Level = &n
		}
	}
	account.UpdatedAt = time.Now()
	r.accounts[id] = account
	return &account, nil
}

// Delete removes an account by its ID.
func (r *MockAccountRepository) Delete(id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.accounts, id)
	return &account, nil
}
