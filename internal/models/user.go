package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	Name      string    `gorm:"size:100;not null"               json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"   json:"email"`
	Password  string    `gorm:"size:255;not null"               json:"-"`
	Role      Role      `gorm:"type:varchar(20);index;not null" json:"role"`
	Phone     string    `gorm:"size:20;index"                   json:"phone"`
	Address   string    `gorm:"size:500"                        json:"address"`
	CpfCnpj   string    `gorm:"column:cpf_cnpj;size:20"         json:"cpf_cnpj,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserAddress struct {
	ID        uint      `gorm:"primaryKey"             json:"id"`
	UserID    uint      `gorm:"index;not null"         json:"user_id"`
	Label     string    `gorm:"size:50"                json:"label"`
	Address   string    `gorm:"size:500;not null"      json:"address"`
	IsDefault bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserAddress) TableName() string { return "user_address" }

type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"`
	JTI       string    `gorm:"size:64;uniqueIndex;not null"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
