package services_test

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pogo-accounts/internal/models"
	"pogo-accounts/internal/repositories"
	"pogo-accounts/internal/services"
	"pogo-accounts/internal/validation"
	"pogo-accounts/pkg/events"
)

// MockAccountRepository is a mock implementation of repositories.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetAll(limit int) ([]models.Account, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByID(id string) (*models.Account, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(id string, fields map[string]any) (*models.Account, error) {
	args := m.Called(id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Delete(id string) (*models.Account, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAccountEvent(eventType, accountID, username string) error {
	args := m.Called(eventType, accountID, username)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newService(repo repositories.AccountRepository, pub events.Publisher) *services.AccountService {
	return services.NewAccountService(repo, pub, zerolog.Nop())
}

func TestAccountService_ListAccounts(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	service := newService(mockRepo, events.NoopPublisher{})

	expected := []models.Account{
		{ID: "000000000000000000000001", Username: "a", Email: "a@x.com", Team: models.TeamMystic},
		{ID: "000000000000000000000002", Username: "b", Email: "b@x.com", Team: models.TeamValor},
	}

	mockRepo.On("GetAll", services.MaxListResults).Return(expected, nil).Once()

	accounts, err := service.ListAccounts()
	assert.NoError(t, err)
	assert.Equal(t, expected, accounts)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_CreateAccount(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	mockRepo.On("Create", mock.MatchedBy(func(a *models.Account) bool {
		return a.Username == "trainer123" && a.Email == "t@example.com" && a.Team == "mystic"
	})).Return(nil).Once()
	mockPub.On("PublishAccountEvent", events.AccountCreated, mock.Anything, "trainer123").Return(nil).Once()

	account, err := service.CreateAccount(map[string]any{
		"username": "trainer123",
		"email":    "t@example.com",
		"team":     "mystic",
	})
	assert.NoError(t, err)
	assert.Equal(t, "trainer123", account.Username)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestAccountService_CreateAccount_ValidationStopsBeforeRepo(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	_, err := service.CreateAccount(map[string]any{
		"username": "trainer123",
		"team":     "mystic",
	})
	require.Error(t, err)
	assert.True(t, validation.IsValidationError(err))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockPub.AssertNotCalled(t, "PublishAccountEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_CreateAccount_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	mockRepo.On("Create", mock.Anything).Return(repositories.ErrDuplicateEmail).Once()

	_, err := service.CreateAccount(map[string]any{
		"username": "trainer123",
		"email":    "t@example.com",
		"team":     "mystic",
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	mockPub.AssertNotCalled(t, "PublishAccountEvent", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_CreateAccount_PublishFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	mockRepo.On("Create", mock.Anything).Return(nil).Once()
	mockPub.On("PublishAccountEvent", events.AccountCreated, mock.Anything, "trainer123").
		Return(fmt.Errorf("broker down")).Once()

	_, err := service.CreateAccount(map[string]any{
		"username": "trainer123",
		"email":    "t@example.com",
		"team":     "mystic",
	})
	assert.NoError(t, err)
	mockPub.AssertExpectations(t)
}

func TestAccountService_UpdateAccount(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	id := "0123456789abcdef01234567"
	updated := &models.Account{ID: id, Username: "renamed", Email: "t@example.com", Team: "mystic"}

	mockRepo.On("Update", id, map[string]any{"username": "renamed"}).Return(updated, nil).Once()
	mockPub.On("PublishAccountEvent", events.AccountUpdated, id, "renamed").Return(nil).Once()

	account, err := service.UpdateAccount(id, map[string]any{"username": "renamed"})
	assert.NoError(t, err)
	assert.Equal(t, "renamed", account.Username)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestAccountService_UpdateAccount_NotModified(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	id := "0123456789abcdef01234567"
	mockRepo.On("Update", id, mock.Anything).Return(nil, repositories.ErrNotModified).Once()

	_, err := service.UpdateAccount(id, map[string]any{"username": "same"})
	assert.ErrorIs(t, err, repositories.ErrNotModified)
	mockPub.AssertNotCalled(t, "PublishAccountEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	id := "0123456789abcdef01234567"
	deleted := &models.Account{ID: id, Username: "doomed"}

	mockRepo.On("Delete", id).Return(deleted, nil).Once()
	mockPub.On("PublishAccountEvent", events.AccountDeleted, id, "doomed").Return(nil).Once()

	account, err := service.DeleteAccount(id)
	assert.NoError(t, err)
	assert.Equal(t, id, account.ID)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)

	mockRepo.On("Delete", id).Return(nil, repositories.ErrNotFound).Once()
	_, err = service.DeleteAccount(id)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
