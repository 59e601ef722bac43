package models

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&UserAddress{},
		&RevokedToken{},
		&EstablishmentProfile{},
		&BusinessHour{},
		&EstablishmentDelivery{},
		&Category{},
		&Product{},
		&OptionGroup{},
		&ProductOptionGroup{},
		&Option{},
		&Acrescimo{},
		&Order{},
		&OrderItem{},
		&OrderItemAddition{},
		&OrderOffer{},
		&DeliveryHistory{},
	}
}
