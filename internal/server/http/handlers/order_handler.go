package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/pkg/format"
	"github.com/polkiloo/escrowdesk/internal/server/http/dto"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

var actionMessages = map[model.Action]string{
	model.ActionConfirmDelivery: "delivery confirmed",
	model.ActionWithdrawFunds:   "funds withdrawn",
	model.ActionCancelOrder:     "order cancelled",
}

var actionFailures = map[model.Action]string{
	model.ActionConfirmDelivery: "confirm delivery failed",
	model.ActionWithdrawFunds:   "withdraw funds failed",
	model.ActionCancelOrder:     "cancel order failed",
}

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade   OrderFacade
	explorer string
}

// NewOrderHandler constructs OrderHandler. explorer is the block explorer
// base URL used for transaction links.
func NewOrderHandler(facade OrderFacade, explorer string) *OrderHandler {
	return &OrderHandler{facade: facade, explorer: explorer}
}

// List handles GET /api/orders?role=.
func (h *OrderHandler) List(c *gin.Context) {
	views, err := h.facade.Orders(c.Request.Context(), CurrentAccount(c), roleQuery(c))
	if err != nil {
		respondError(c, err, "load orders failed")
		return
	}

	response := make([]dto.OrderResponse, 0, len(views))
	for _, v := range views {
		response = append(response, toOrderResponse(v))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id?role=.
func (h *OrderHandler) Get(c *gin.Context) {
	view, err := h.facade.Order(c.Request.Context(), CurrentAccount(c), roleQuery(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "load order failed")
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*view))
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "malformed order payload")
		return
	}

	view, err := h.facade.CreateOrder(c.Request.Context(), CurrentAccount(c), model.NewOrder{
		Supplier:        req.Supplier,
		Validator:       req.Validator,
		Amount:          req.Amount,
		ProductName:     req.ProductName,
		OriginCity:      req.OriginCity,
		DestinationCity: req.DestinationCity,
		TxHash:          req.TxHash,
	})
	if err != nil {
		respondError(c, err, "create order failed")
		return
	}

	c.JSON(http.StatusCreated, dto.ActionResponse{
		Message: "order created",
		Order:   toOrderResponse(*view),
		TxURL:   format.TxURL(h.explorer, req.TxHash),
	})
}

// Act handles POST /api/orders/:id/actions/:action.
func (h *OrderHandler) Act(c *gin.Context) {
	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "malformed action payload")
		return
	}

	action := c.Param("action")
	view, err := h.facade.ExecuteAction(c.Request.Context(), CurrentAccount(c), req.Role, c.Param("id"), action, req.TxHash)
	if err != nil {
		fallback, ok := actionFailures[model.Action(action)]
		if !ok {
			fallback = "action failed"
		}
		respondError(c, err, fallback)
		return
	}

	c.JSON(http.StatusOK, dto.ActionResponse{
		Message: actionMessages[model.Action(action)],
		Order:   toOrderResponse(*view),
		TxURL:   format.TxURL(h.explorer, req.TxHash),
	})
}

func roleQuery(c *gin.Context) string {
	role := strings.TrimSpace(c.Query("role"))
	if role == "" {
		return string(model.RolePurchaser)
	}
	return role
}

func toOrderResponse(v usecase.OrderView) dto.OrderResponse {
	actions := make([]string, 0, len(v.Actions))
	for _, a := range v.Actions {
		actions = append(actions, string(a))
	}
	o := v.Order
	return dto.OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		ChainOrderID:    o.ChainOrderID,
		Purchaser:       o.Purchaser,
		Supplier:        o.Supplier,
		Validator:       o.Validator,
		PurchaserShort:  format.Address(o.Purchaser),
		SupplierShort:   format.Address(o.Supplier),
		ValidatorShort:  format.Address(o.Validator),
		Amount:          o.Amount,
		AmountFormatted: format.Amount(o.Amount),
		State:           uint8(o.State),
		StateName:       o.State.String(),
		ProductName:     o.ProductName,
		OriginCity:      o.OriginCity,
		DestinationCity: o.DestinationCity,
		Progress:        o.Progress,
		FundsWithdrawn:  o.FundsWithdrawn,
		CreatedAt:       o.CreatedAt,
		Role:            string(v.Role),
		Actions:         actions,
	}
}
