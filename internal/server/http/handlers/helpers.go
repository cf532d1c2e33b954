package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/escrowdesk/internal/adapter/contract"
	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/server/http/dto"
	"github.com/polkiloo/escrowdesk/internal/server/http/middleware"
)

// CurrentAccount extracts the session account from context.
func CurrentAccount(c *gin.Context) string {
	val, ok := c.Get(middleware.AccountContextKey)
	if !ok {
		return ""
	}
	account, _ := val.(string)
	return account
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidRole),
		errors.Is(err, domainErrors.ErrUnknownAction),
		errors.Is(err, domainErrors.ErrInvalidAccount):
		return http.StatusBadRequest
	case domainErrors.IsValidation(err),
		errors.Is(err, domainErrors.ErrNotOnChain),
		errors.Is(err, contract.ErrTxHashRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrWrongNetwork),
		errors.Is(err, domainErrors.ErrIllegalTransition),
		errors.Is(err, domainErrors.ErrDuplicateChainOrder):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrRoleMismatch):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrActionInProgress):
		return http.StatusLocked
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrContractCall):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the user visible text for err. Validation and state
// errors carry their own text; external failures use fallback.
func messageFor(err error, fallback string) string {
	switch statusFor(err) {
	case http.StatusBadGateway, http.StatusInternalServerError:
		return fallback
	case http.StatusUnprocessableEntity:
		if errors.Is(err, contract.ErrTxHashRequired) {
			return "transaction hash required"
		}
		return err.Error()
	default:
		return err.Error()
	}
}

func respondError(c *gin.Context, err error, fallback string) {
	c.JSON(statusFor(err), dto.ErrorResponse{Message: messageFor(err, fallback)})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Message: message})
}
