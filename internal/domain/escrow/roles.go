package escrow

import "github.com/polkiloo/escrowdesk/internal/domain/model"

// Holds reports whether account is the order party for role.
func Holds(order model.Order, account string, role model.Role) bool {
	return model.SameAddress(order.AddressFor(role), account)
}

// Filter returns the orders in which account holds role, preserving order.
func Filter(orders []model.Order, account string, role model.Role) []model.Order {
	if account == "" {
		return nil
	}
	result := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if Holds(o, account, role) {
			result = append(result, o)
		}
	}
	return result
}

// RolesOf lists every role account holds in order.
func RolesOf(order model.Order, account string) []model.Role {
	var roles []model.Role
	for _, role := range model.Roles {
		if Holds(order, account, role) {
			roles = append(roles, role)
		}
	}
	return roles
}
