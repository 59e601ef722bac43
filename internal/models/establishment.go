package models

import "time"

type EstablishmentProfile struct {
	ID                     uint      `gorm:"primaryKey"                       json:"id"`
	UserID                 uint      `gorm:"uniqueIndex;not null"             json:"user_id"`
	RestaurantName         string    `gorm:"size:255"                         json:"restaurant_name"`
	Description            string    `gorm:"type:text"                        json:"description"`
	CuisineType            string    `gorm:"size:100;index"                   json:"cuisine_type"`
	LogoURL                string    `gorm:"size:500"                         json:"logo_url"`
	BannerURL              string    `gorm:"size:500"                         json:"banner_url"`
	PixKey                 string    `gorm:"size:255"                         json:"pix_key"`
	Instagram              string    `gorm:"size:255"                         json:"instagram"`
	Whatsapp               string    `gorm:"size:30"                          json:"whatsapp"`
	DeliveryRadius         float64   `gorm:"not null"                         json:"delivery_radius"`
	MinimumOrder           float64   `gorm:"not null"                         json:"minimum_order"`
	DeliveryFee            float64   `gorm:"not null"                         json:"delivery_fee"`
	AcceptedPaymentMethods []string  `gorm:"type:text;serializer:json"        json:"accepted_payment_methods"`
	OnlyLinkedDelivery     bool      `gorm:"not null;default:false"           json:"only_linked_delivery"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	BusinessHours []BusinessHour `gorm:"foreignKey:EstablishmentID;references:UserID" json:"business_hours"`
}

func (EstablishmentProfile) TableName() string { return "establishment_profile" }

// DefaultProfile is what an establishment gets before it edits anything.
func DefaultProfile(userID uint, name string) EstablishmentProfile {
	return EstablishmentProfile{
		UserID:                 userID,
		RestaurantName:         name,
		DeliveryRadius:         5,
		MinimumOrder:           20,
		DeliveryFee:            5,
		AcceptedPaymentMethods: append([]string(nil), DefaultPaymentMethods...),
	}
}

type BusinessHour struct {
	ID              uint   `gorm:"primaryKey"              json:"id"`
	EstablishmentID uint   `gorm:"index;not null"          json:"establishment_id"`
	DayOfWeek       int    `gorm:"not null"                json:"day_of_week"`
	OpenTime        string `gorm:"size:5"                  json:"open_time"`
	CloseTime       string `gorm:"size:5"                  json:"close_time"`
	IsClosed        bool   `gorm:"not null;default:false"  json:"is_closed"`
}

func (BusinessHour) TableName() string { return "establishment_business_hours" }

type EstablishmentDelivery struct {
	ID              uint      `gorm:"primaryKey"                                    json:"id"`
	EstablishmentID uint      `gorm:"uniqueIndex:idx_establishment_delivery;not null" json:"establishment_id"`
	DeliveryID      uint      `gorm:"uniqueIndex:idx_establishment_delivery;not null" json:"delivery_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func (EstablishmentDelivery) TableName() string { return "establishment_delivery" }
