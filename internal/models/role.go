package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleCustomer      Role = "CUSTOMER"
	RoleEstablishment Role = "ESTABLISHMENT"
	RoleDelivery      Role = "DELIVERY"
	RoleAdmin         Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleEstablishment, RoleDelivery, RoleAdmin:
		return true
	}
	return false
}

// OrderScope names the orders column that must equal the user's id for an
// order to be visible. Admins see every order, signalled by an empty column.
func (r Role) OrderScope() (string, error) {
	switch r {
	case RoleCustomer:
		return "customer_id", nil
	case RoleEstablishment:
		return "establishment_id", nil
	case RoleDelivery:
		return "delivery_id", nil
	case RoleAdmin:
		return "", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
}
