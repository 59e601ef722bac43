package models

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey"                json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text"                 json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID              uint      `gorm:"primaryKey"              json:"id"`
	EstablishmentID uint      `gorm:"index;not null"          json:"establishment_id"`
	CategoryID      uint      `gorm:"index;not null"          json:"category_id"`
	Name            string    `gorm:"size:255;not null"       json:"name"`
	Description     string    `gorm:"type:text"               json:"description"`
	Price           float64   `gorm:"not null"                json:"price"`
	ImageURL        string    `gorm:"size:500"                json:"image_url"`
	IsAvailable     bool      `gorm:"not null"               json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ProductOptionGroup struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"uniqueIndex:idx_product_group;not null"`
	GroupID   uint `gorm:"uniqueIndex:idx_product_group;not null"`
}

type OptionGroup struct {
	ID              uint      `gorm:"primaryKey"                                 json:"id"`
	EstablishmentID uint      `gorm:"uniqueIndex:idx_group_name;not null"        json:"establishment_id"`
	Name            string    `gorm:"size:100;uniqueIndex:idx_group_name;not null" json:"name"`
	ProductType     string    `gorm:"size:50;not null"                           json:"product_type"`
	MinSelections   int       `gorm:"not null;default:0"                         json:"min_selections"`
	MaxSelections   int       `gorm:"not null"                                   json:"max_selections"`
	IsRequired      bool      `gorm:"not null;default:false"                     json:"is_required"`
	CreatedAt       time.Time `json:"created_at"`
}

type Option struct {
	ID              uint      `gorm:"primaryKey"                                  json:"id"`
	GroupID         uint      `gorm:"uniqueIndex:idx_option_name;not null"        json:"group_id"`
	Name            string    `gorm:"size:100;uniqueIndex:idx_option_name;not null" json:"name"`
	AdditionalPrice float64   `gorm:"not null;default:0"                          json:"additional_price"`
	Description     string    `gorm:"type:text"                                   json:"description"`
	IsAvailable     bool      `gorm:"not null"                                    json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
}

type Acrescimo struct {
	ID              uint      `gorm:"primaryKey"        json:"id"`
	EstablishmentID uint      `gorm:"index;not null"    json:"establishment_id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Price           float64   `gorm:"not null"          json:"price"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProductWithCategory is a product row joined with its category name.
type ProductWithCategory struct {
	Product
	CategoryName      string `json:"category_name"`
	EstablishmentName string `json:"establishment_name,omitempty"`
}

type OptionView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	IsAvailable bool    `json:"is_available"`
}

type AdditionalGroup struct {
	ID            uint         `json:"id"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	MinSelections int          `json:"min_selections"`
	MaxSelections int          `json:"max_selections"`
	IsRequired    bool         `json:"is_required"`
	Options       []OptionView `json:"options"`
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MenuProduct is a product as shown on an establishment's menu.
type MenuProduct struct {
	ID               uint              `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Price            float64           `json:"price"`
	ImageURL         string            `json:"image_url"`
	IsAvailable      bool              `json:"is_available"`
	Category         CategoryRef       `json:"category"`
	AdditionalGroups []AdditionalGroup `json:"additional_groups"`
}

type OptionWithGroup struct {
	Option
	GroupName string `json:"group_name"`
}
