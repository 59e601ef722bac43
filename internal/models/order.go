package models

import "time"

type Order struct {
	ID              uint        `gorm:"primaryKey"                  json:"id"`
	CustomerID      uint        `gorm:"index;not null"              json:"customer_id"`
	EstablishmentID uint        `gorm:"index;not null"              json:"establishment_id"`
	DeliveryID      *uint       `gorm:"index"                       json:"delivery_id"`
	TotalAmount     float64     `gorm:"not null"                    json:"total_amount"`
	DeliveryFee     float64     `gorm:"not null;default:0"          json:"delivery_fee"`
	Status          OrderStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	PaymentMethod   string      `gorm:"size:20;not null"            json:"payment_method"`
	OrderType       OrderType   `gorm:"type:varchar(20);not null"   json:"order_type"`
	AmountPaid      *float64    `json:"amount_paid"`
	ChangeAmount    *float64    `json:"change_amount"`
	PaymentStatus   string      `gorm:"size:20"                     json:"payment_status"`
	DeliveryAddress *string     `gorm:"size:500"                    json:"delivery_address"`
	Notes           *string     `gorm:"type:text"                   json:"notes"`
	CreatedAt       time.Time   `gorm:"index"                       json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Quantity  int     `gorm:"not null"       json:"quantity"`
	Price     float64 `gorm:"not null"       json:"price"`
	Obs       string  `gorm:"type:text"      json:"obs"`
}

type OrderItemAddition struct {
	ID          uint    `gorm:"primaryKey"     json:"id"`
	OrderItemID uint    `gorm:"index;not null" json:"order_item_id"`
	OptionID    uint    `gorm:"index;not null" json:"option_id"`
	Quantity    int     `gorm:"not null"       json:"quantity"`
	Price       float64 `gorm:"not null"       json:"price"`
}

// OrderRow is one row of the orders ⋈ items ⋈ additions left join. Item and
// addition columns are nil when the join found nothing.
type OrderRow struct {
	ID                 uint
	CustomerID         uint
	EstablishmentID    uint
	DeliveryID         *uint
	TotalAmount        float64
	DeliveryFee        float64
	Status             OrderStatus
	PaymentMethod      string
	OrderType          OrderType
	AmountPaid         *float64
	ChangeAmount       *float64
	PaymentStatus      string
	DeliveryAddress    *string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CustomerName       *string
	CustomerPhone      *string
	CustomerAddress    *string
	EstablishmentName  *string
	DeliveryPersonName *string
	PixKey             *string

	ItemID        *uint
	ProductID     *uint
	ProductName   *string
	ItemQuantity  *int
	ItemPrice     *float64
	ItemObs       *string
	AdditionID    *uint
	OptionID      *uint
	OptionName    *string
	AdditionQty   *int
	AdditionPrice *float64
}

type AdditionView struct {
	ID       uint    `json:"id"`
	OptionID uint    `json:"option_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderItemView struct {
	ID          uint           `json:"id"`
	ProductID   uint           `json:"product_id"`
	ProductName string         `json:"product_name"`
	Quantity    int            `json:"quantity"`
	Price       float64        `json:"price"`
	Obs         string         `json:"obs"`
	Additions   []AdditionView `json:"additions"`
}

type OrderView struct {
	ID                 uint            `json:"id"`
	CustomerID         uint            `json:"customer_id"`
	EstablishmentID    uint            `json:"establishment_id"`
	DeliveryID         *uint           `json:"delivery_id"`
	TotalAmount        float64         `json:"total_amount"`
	DeliveryFee        float64         `json:"delivery_fee"`
	Status             OrderStatus     `json:"status"`
	PaymentMethod      string          `json:"payment_method"`
	OrderType          OrderType       `json:"order_type"`
	AmountPaid         *float64        `json:"amount_paid"`
	ChangeAmount       *float64        `json:"change_amount"`
	PaymentStatus      string          `json:"payment_status"`
	DeliveryAddress    *string         `json:"delivery_address"`
	Notes              *string         `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      string          `json:"customer_phone"`
	CustomerAddress    string          `json:"customer_address"`
	EstablishmentName  string          `json:"establishment_name"`
	DeliveryPersonName string          `json:"delivery_person_name"`
	PixKey             string          `json:"pix_key"`
	TimeAgo            string          `json:"time_ago,omitempty"`
	Items              []OrderItemView `json:"items"`
}
