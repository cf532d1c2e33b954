package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/escrowdesk/internal/pkg/format"
	"github.com/polkiloo/escrowdesk/internal/server/http/dto"
)

// BalanceHandler manages balance-related endpoints.
type BalanceHandler struct {
	facade BalanceFacade
}

// NewBalanceHandler constructs BalanceHandler.
func NewBalanceHandler(facade BalanceFacade) *BalanceHandler {
	return &BalanceHandler{facade: facade}
}

// Summary handles GET /api/balance.
func (h *BalanceHandler) Summary(c *gin.Context) {
	balance, err := h.facade.Balance(c.Request.Context(), CurrentAccount(c))
	if err != nil {
		respondError(c, err, "balance unavailable")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		Account:   balance.Account,
		Balance:   balance.Amount,
		Formatted: format.Amount(balance.Amount),
		Symbol:    balance.Symbol,
	})
}
