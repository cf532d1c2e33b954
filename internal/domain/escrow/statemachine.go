// Package escrow holds the order state machine and the role model. Everything
// here is pure: functions take an order value and return a new one.
package escrow

import (
	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

type transition struct {
	from   model.OrderState
	to     model.OrderState
	actors []model.Role
}

var transitions = map[model.Action]transition{
	model.ActionConfirmDelivery: {
		from:   model.OrderStatePending,
		to:     model.OrderStateDelivered,
		actors: []model.Role{model.RolePurchaser},
	},
	model.ActionWithdrawFunds: {
		from:   model.OrderStateDelivered,
		to:     model.OrderStateDelivered,
		actors: []model.Role{model.RoleSupplier},
	},
	model.ActionCancelOrder: {
		from:   model.OrderStatePending,
		to:     model.OrderStateCancelled,
		actors: []model.Role{model.RolePurchaser, model.RoleSupplier},
	},
}

// actionOrder fixes the order in which permitted actions are offered.
var actionOrder = []model.Action{
	model.ActionConfirmDelivery,
	model.ActionWithdrawFunds,
	model.ActionCancelOrder,
}

// Apply performs action on order as role and returns the updated order.
func Apply(order model.Order, role model.Role, action model.Action) (model.Order, error) {
	if err := check(order, role, action); err != nil {
		return order, err
	}

	next := order
	next.State = transitions[action].to
	switch action {
	case model.ActionConfirmDelivery:
		next.Progress = 100
	case model.ActionWithdrawFunds:
		next.FundsWithdrawn = true
	}
	return next, nil
}

// Permitted returns the actions role may currently perform on order.
func Permitted(order model.Order, role model.Role) []model.Action {
	actions := make([]model.Action, 0, len(actionOrder))
	for _, action := range actionOrder {
		if check(order, role, action) == nil {
			actions = append(actions, action)
		}
	}
	return actions
}

// Allowed reports whether Apply would accept the action.
func Allowed(order model.Order, role model.Role, action model.Action) bool {
	return check(order, role, action) == nil
}

// Observe moves a pending order forward to a state reported by the chain.
// It returns false when nothing changed.
func Observe(order model.Order, observed model.OrderState) (model.Order, bool, error) {
	if !observed.Valid() {
		return order, false, reject(order, "sync", "chain", "unknown chain state")
	}
	if observed == order.State {
		return order, false, nil
	}
	if order.State != model.OrderStatePending {
		return order, false, reject(order, "sync", "chain", "order already in terminal state")
	}

	next := order
	switch observed {
	case model.OrderStateDelivered:
		next.State = model.OrderStateDelivered
		next.Progress = 100
	case model.OrderStateCancelled:
		next.State = model.OrderStateCancelled
	default:
		return order, false, reject(order, "sync", "chain", "orders never return to pending")
	}
	return next, true, nil
}

func check(order model.Order, role model.Role, action model.Action) error {
	t, ok := transitions[action]
	if !ok {
		return domainErrors.ErrUnknownAction
	}
	if !roleAllowed(t.actors, role) {
		return reject(order, string(action), string(role), "role not allowed")
	}
	if order.State != t.from {
		return reject(order, string(action), string(role), "not allowed in current state")
	}
	// withdrawFunds releases funds once.
	if action == model.ActionWithdrawFunds && order.FundsWithdrawn {
		return reject(order, string(action), string(role), "funds already withdrawn")
	}
	return nil
}

func roleAllowed(actors []model.Role, role model.Role) bool {
	for _, r := range actors {
		if r == role {
			return true
		}
	}
	return false
}

func reject(order model.Order, action, role, reason string) error {
	return &domainErrors.TransitionError{
		Action: action,
		Role:   role,
		State:  order.State.String(),
		Reason: reason,
	}
}
