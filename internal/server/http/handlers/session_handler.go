package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/pkg/format"
	"github.com/polkiloo/escrowdesk/internal/server/http/dto"
	"github.com/polkiloo/escrowdesk/internal/server/http/middleware"
)

// SessionHandler opens wallet sessions and exposes the chain descriptor.
type SessionHandler struct {
	facade SessionFacade
}

// NewSessionHandler creates SessionHandler instance.
func NewSessionHandler(facade SessionFacade) *SessionHandler {
	return &SessionHandler{facade: facade}
}

// Connect handles POST /api/session.
func (h *SessionHandler) Connect(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "account and chainId are required")
		return
	}

	token, account, err := h.facade.Connect(req.Account, req.ChainID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrWrongNetwork) {
			c.JSON(http.StatusConflict, dto.WrongNetworkResponse{
				Message: "switch wallet to " + h.facade.Network().ChainName,
				Network: h.facade.Network(),
			})
			return
		}
		respondError(c, err, "wallet connection failed")
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.SessionResponse{
		Account:      account,
		ShortAccount: format.Address(account),
		Token:        token,
	})
}

// Network handles GET /api/network.
func (h *SessionHandler) Network(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.Network())
}
