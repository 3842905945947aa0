package services

import (
	"time"

	"github.com/rs/zerolog"

	"pogo-accounts/internal/models"
	"pogo-accounts/internal/repositories"
	"pogo-accounts/internal/validation"
	"pogo-accounts/pkg/events"
)

// MaxListResults caps the number of records returned by a list call.
const MaxListResults = 100

// AccountService handles business logic for trainer accounts. It owns the
// sanitization step for create/update payloads and emits lifecycle events
// after successful writes.
type AccountService struct {
	repo      repositories.AccountRepository
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo repositories.AccountRepository, publisher events.Publisher, logger zerolog.Logger) *AccountService {
	return &AccountService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ListAccounts retrieves up to MaxListResults accounts.
func (s *AccountService) ListAccounts() ([]models.Account, error) {
	return s.repo.GetAll(MaxListResults)
}

// GetAccountByID retrieves a single account by its ID.
func (s *AccountService) GetAccountByID(id string) (*models.Account, error) {
	return s.repo.GetByID(id)
}

// CreateAccount sanitizes the raw payload, persists the record, and publishes
// an account.created event. Validation errors and ErrDuplicateEmail pass
// through to the caller untouched.
func (s *AccountService) CreateAccount(payload map[string]any) (*models.Account, error) {
	fields, err := validation.SanitizeCreate(payload)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username: fields["username"].(string),
		Email:    fields["email"].(string),
		Team:     fields["team"].(string),
	}
	if v, ok := fields["country"]; ok {
		account.Country = v.(string)
	}
	if v, ok := fields["birthday"]; ok {
		t := v.(time.Time)
		account.Birthday = &t
	}
	if v, ok := fields["level"]; ok {
		n := v.(int)
		account.Level = &n
	}

	if err := s.repo.Create(account); err != nil {
		return nil, err
	}

	s.publish(events.AccountCreated, account)
	return account, nil
}

// UpdateAccount sanitizes a partial payload and applies it to the account
// with the given id. ErrNotFound and ErrNotModified pass through.
func (s *AccountService) UpdateAccount(id string, payload map[string]any) (*models.Account, error) {
	fields, err := validation.SanitizeUpdate(payload)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.Update(id, fields)
	if err != nil {
		return nil, err
	}

	s.publish(events.AccountUpdated, account)
	return account, nil
}

// DeleteAccount removes an account by its ID and returns the deleted record.
func (s *AccountService) DeleteAccount(id string) (*models.Account, error) {
	account, err := s.repo.Delete(id)
	if err != nil {
		return nil, err
	}

	s.publish(events.AccountDeleted, account)
	return account, nil
}

// publish emits a lifecycle event. Publish failures are logged and never
// surfaced to the HTTP caller; the write already succeeded.
func (s *AccountService) publish(eventType string, account *models.Account) {
	if err := s.publisher.PublishAccountEvent(eventType, account.ID, account.Username); err != nil {
		s.logger.Error().Err(err).
			Str("event", eventType).
			Str("account_id", account.ID).
			Msg("failed to publish account event")
	}
}
