package handlers

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"pogo-accounts/internal/models"
	"pogo-accounts/internal/repositories"
	"pogo-accounts/internal/services"
	"pogo-accounts/internal/validation"
)

// idPattern is the authoritative id format check: exactly 24 hex characters.
// The UI performs its own pre-check, but this one decides.
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// AccountHandler handles HTTP requests for trainer accounts.
type AccountHandler struct {
	service *services.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service *services.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the account routes with the Fiber app.
func (h *AccountHandler) RegisterRoutes(router fiber.Router) {
	accounts := router.Group("/pogo-accounts")
	accounts.Get("/", h.HandleListAccounts)
	accounts.Get("/:id", h.HandleGetAccountByID)
	accounts.Post("/", h.HandleCreateAccount)
	accounts.Put("/:id", h.HandleUpdateAccount)
	accounts.Delete("/:id", h.HandleDeleteAccount)
}

// HandleListAccounts returns up to 100 accounts.
func (h *AccountHandler) HandleListAccounts(c *fiber.Ctx) error {
	accounts, err := h.service.ListAccounts()
	if err != nil {
		return h.internalError(c, err, "failed to list accounts")
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return c.JSON(accounts)
}

// HandleGetAccountByID returns a single account.
func (h *AccountHandler) HandleGetAccountByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !idPattern.MatchString(id) {
		return malformedID(c)
	}

	account, err := h.service.GetAccountByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		return h.internalError(c, err, "failed to get account")
	}
	return c.JSON(account)
}

// HandleCreateAccount creates a new account from a JSON payload.
func (h *AccountHandler) HandleCreateAccount(c *fiber.Ctx) error {
	payload, ok := parseBody(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	account, err := h.service.CreateAccount(payload)
	if err != nil {
		switch {
		case validation.IsValidationError(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
		default:
			return h.internalError(c, err, "failed to create account")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
		"id":      account.ID,
	})
}

// HandleUpdateAccount applies a partial update to an existing account.
func (h *AccountHandler) HandleUpdateAccount(c *fiber.Ctx) error {
	id := c.Params("id")
	if !idPattern.MatchString(id) {
		return malformedID(c)
	}

	payload, ok := parseBody(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	account, err := h.service.UpdateAccount(id, payload)
	if err != nil {
		switch {
		case validation.IsValidationError(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repositories.ErrNotFound):
			return notFound(c)
		case errors.Is(err, repositories.ErrNotModified):
			return c.SendStatus(fiber.StatusNotModified)
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
		default:
			return h.internalError(c, err, "failed to update account")
		}
	}

	return c.JSON(fiber.Map{
		"message":  "Account updated successfully",
		"username": account.Username,
	})
}

// HandleDeleteAccount removes an account.
func (h *AccountHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	id := c.Params("id")
	if !idPattern.MatchString(id) {
		return malformedID(c)
	}

	account, err := h.service.DeleteAccount(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c)
		}
		return h.internalError(c, err, "failed to delete account")
	}

	return c.JSON(fiber.Map{
		"message":   "Account deleted successfully",
		"deletedId": account.ID,
	})
}

// parseBody decodes the request body into an untyped map so the validation
// layer can apply its allow-list.
func parseBody(c *fiber.Ctx) (map[string]any, bool) {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil || payload == nil {
		return nil, false
	}
	return payload, true
}

func malformedID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid account id",
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Account not found",
	})
}

// internalError logs the cause server-side and returns a generic 500 body.
// Driver and store details never reach the client.
func (h *AccountHandler) internalError(c *fiber.Ctx, err error, msg string) error {
	h.logger.Error().Err(err).Str("path", c.Path()).Msg(msg)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
