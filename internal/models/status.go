package models

import "strings"

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusPreparing  OrderStatus = "PREPARING"
	StatusReady      OrderStatus = "READY"
	StatusDelivering OrderStatus = "DELIVERING"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusDelivering,
	StatusDelivered,
	StatusCancelled,
}

// ActiveStatuses count against a courier's concurrent load.
var ActiveStatuses = []OrderStatus{StatusReady, StatusDelivering}

// AssignableStatuses may receive a courier.
var AssignableStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady}

// CancellableStatuses may be cancelled by the customer.
var CancellableStatuses = []OrderStatus{StatusPending, StatusPreparing}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	for _, v := range OrderStatuses {
		if v == st {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) In(set []OrderStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type OrderType string

const (
	OrderTypeDelivery OrderType = "DELIVERY"
	OrderTypePickup   OrderType = "PICKUP"
	OrderTypeDineIn   OrderType = "DINE_IN"
)

// OrderTypeFromRequest maps the client's orderType (delivery, pickup, local)
// to the stored value. Anything unrecognised is a dine-in order.
func OrderTypeFromRequest(s string) OrderType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delivery":
		return OrderTypeDelivery
	case "pickup":
		return OrderTypePickup
	default:
		return OrderTypeDineIn
	}
}

type OfferStatus string

const (
	OfferOffered  OfferStatus = "OFFERED"
	OfferAccepted OfferStatus = "ACCEPTED"
	OfferDeclined OfferStatus = "DECLINED"
)

type HistoryStage string

const (
	StagePlaced    HistoryStage = "PLACED"
	StageDelivered HistoryStage = "DELIVERED"
)

var DefaultPaymentMethods = []string{"CASH", "PIX", "CREDIT", "DEBIT"}
