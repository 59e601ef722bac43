package models

import "time"

type OrderOffer struct {
	ID          uint        `gorm:"primaryKey"                      json:"id"`
	OrderID     uint        `gorm:"index;not null"                  json:"order_id"`
	DeliveryID  *uint       `gorm:"index"                           json:"delivery_id"`
	Status      OfferStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	RespondedAt *time.Time  `json:"responded_at"`
}

// DeliveryHistory is a write-once snapshot. One row per (order, stage).
type DeliveryHistory struct {
	ID                uint         `gorm:"primaryKey"                                       json:"id"`
	OrderID           uint         `gorm:"uniqueIndex:idx_history_order_stage;not null"     json:"order_id"`
	Stage             HistoryStage `gorm:"type:varchar(20);uniqueIndex:idx_history_order_stage;not null" json:"stage"`
	EstablishmentID   uint         `gorm:"index;not null"                                   json:"establishment_id"`
	EstablishmentName string       `gorm:"size:255"                                         json:"establishment_name"`
	DeliveryID        *uint        `gorm:"index"                                            json:"delivery_id"`
	DeliveryName      string       `gorm:"size:100"                                         json:"delivery_name"`
	CustomerName      string       `gorm:"size:100"                                         json:"customer_name"`
	CustomerPhone     string       `gorm:"size:20"                                          json:"customer_phone"`
	DeliveryAddress   string       `gorm:"size:500"                                         json:"delivery_address"`
	Items             string       `gorm:"type:text"                                        json:"items"`
	TotalAmount       float64      `json:"total_amount"`
	DeliveryFee       float64      `json:"delivery_fee"`
	PaymentMethod     string       `gorm:"size:20"                                          json:"payment_method"`
	OrderNotes        string       `gorm:"type:text"                                        json:"order_notes"`
	FinishedAt        time.Time    `json:"finished_at"`
}

func (DeliveryHistory) TableName() string { return "delivery_history" }

// Courier is a delivery user with its current load.
type Courier struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ActiveOrders int    `json:"active_orders"`
	IsAvailable  bool   `json:"is_available"`
}

// MaxActiveOrders is the load at which a courier stops receiving orders.
const MaxActiveOrders = 3
