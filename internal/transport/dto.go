package transport

import "github.com/painelquick/backend/internal/models"

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

type RegisterRequest struct {
	Name         string `json:"name"          validate:"required,min=2,max=100"`
	Email        string `json:"email"         validate:"required,email,max=255"`
	Password     string `json:"password"      validate:"required,min=6,max=72"`
	CpfCnpj      string `json:"cpf_cnpj"      validate:"omitempty,max=20"`
	SupportPhone string `json:"support_phone" validate:"omitempty,min=10,max=20"`
}

type ProfileRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=100"`
	Phone   string `json:"phone"   validate:"omitempty,min=10,max=20"`
	Address string `json:"address" validate:"omitempty,min=5,max=500"`
}

type UpdateUserRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone"   validate:"omitempty,min=10,max=20"`
	Address *string `json:"address" validate:"omitempty,min=2,max=500"`
}

type AddressRequest struct {
	Label     string `json:"label"      validate:"omitempty,max=50"`
	Address   string `json:"address"    validate:"required,min=5,max=500"`
	IsDefault bool   `json:"is_default"`
}

type AddressPatch struct {
	Label     *string `json:"label"      validate:"omitempty,max=50"`
	Address   *string `json:"address"    validate:"omitempty,min=5,max=500"`
	IsDefault *bool   `json:"is_default"`
}

type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type ProductRequest struct {
	CategoryID       uint    `json:"category_id"       validate:"required"`
	Name             string  `json:"name"              validate:"required,min=2,max=255"`
	Description      string  `json:"description"       validate:"omitempty,max=2000"`
	Price            float64 `json:"price"             validate:"gte=0"`
	ImageURL         string  `json:"image_url"         validate:"omitempty,max=500"`
	IsAvailable      *bool   `json:"is_available"`
	AdditionalGroups []uint  `json:"additional_groups"`
}

type ProductGroupsRequest struct {
	GroupIDs []uint `json:"group_ids" validate:"required"`
}

type OptionGroupRequest struct {
	Name          string `json:"name"           validate:"required,max=100"`
	ProductType   string `json:"product_type"   validate:"omitempty,max=50"`
	MinSelections int    `json:"min_selections" validate:"gte=0"`
	MaxSelections int    `json:"max_selections" validate:"gte=0"`
	IsRequired    bool   `json:"is_required"`
}

type OptionRequest struct {
	GroupID         uint    `json:"group_id"         validate:"required"`
	Name            string  `json:"name"             validate:"required,max=100"`
	AdditionalPrice float64 `json:"additional_price" validate:"gte=0"`
	Description     string  `json:"description"      validate:"omitempty,max=500"`
	IsAvailable     *bool   `json:"is_available"`
}

type AcrescimoRequest struct {
	Name  string  `json:"name"  validate:"required,max=100"`
	Price float64 `json:"price" validate:"gte=0"`
}

type SelectedOption struct {
	ID       uint `json:"id"       validate:"required"`
	Quantity int  `json:"quantity" validate:"gte=0"`
}

type OrderItemRequest struct {
	ProductID       uint             `json:"product_id"       validate:"required"`
	Quantity        int              `json:"quantity"         validate:"required,min=1"`
	Obs             string           `json:"obs"              validate:"omitempty,max=500"`
	SelectedOptions []SelectedOption `json:"selected_options" validate:"omitempty,dive"`
}

type CreateOrderRequest struct {
	EstablishmentID uint               `json:"establishment_id" validate:"required"`
	Items           []OrderItemRequest `json:"items"            validate:"required,min=1,dive"`
	Name            string             `json:"name"             validate:"omitempty,max=100"`
	Phone           string             `json:"phone"            validate:"omitempty,max=20"`
	Address         string             `json:"address"          validate:"omitempty,max=500"`
	OrderType       string             `json:"orderType"        validate:"omitempty,oneof=delivery pickup local DELIVERY PICKUP DINE_IN"`
	Table           string             `json:"table"            validate:"omitempty,max=20"`
	PaymentMethod   string             `json:"payment_method"   validate:"omitempty,max=20"`
	AmountPaid      *float64           `json:"amount_paid"      validate:"omitempty,gte=0"`
	Notes           string             `json:"notes"            validate:"omitempty,max=1000"`
}

type CreateOrderResponse struct {
	Message     string  `json:"message"`
	OrderID     uint    `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CustomerOrderUpdate struct {
	DeliveryAddress *string `json:"delivery_address" validate:"omitempty,max=500"`
	Notes           *string `json:"notes"            validate:"omitempty,max=1000"`
}

type FullAddition struct {
	AcrescimoID uint     `json:"acrescimo_id"`
	ID          uint     `json:"id"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Price       *float64 `json:"price"    validate:"omitempty,gte=0"`
}

// OptionID accepts either field name sent by older clients.
func (a FullAddition) OptionID() uint {
	if a.AcrescimoID != 0 {
		return a.AcrescimoID
	}
	return a.ID
}

type FullItem struct {
	ProductID uint           `json:"product_id" validate:"required"`
	Quantity  int            `json:"quantity"   validate:"required,min=1"`
	Price     *float64       `json:"price"      validate:"omitempty,gte=0"`
	Obs       string         `json:"obs"        validate:"omitempty,max=500"`
	Additions []FullAddition `json:"additions"  validate:"omitempty,dive"`
}

type FullOrderUpdate struct {
	Status        *string    `json:"status"`
	PaymentMethod *string    `json:"payment_method" validate:"omitempty,max=20"`
	AmountPaid    *float64   `json:"amount_paid"    validate:"omitempty,gte=0"`
	TotalAmount   *float64   `json:"total_amount"   validate:"omitempty,gte=0"`
	Items         []FullItem `json:"items"          validate:"omitempty,dive"`
}

type LinkCourierRequest struct {
	DeliveryID uint `json:"delivery_id" validate:"required"`
}

type AssignResponse struct {
	Message      string `json:"message"`
	DeliveryID   uint   `json:"delivery_id"`
	DeliveryName string `json:"delivery_name"`
	ActiveOrders int    `json:"active_orders"`
}

type BusinessHourRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	OpenTime  string `json:"open_time"   validate:"omitempty,len=5"`
	CloseTime string `json:"close_time"  validate:"omitempty,len=5"`
	IsClosed  bool   `json:"is_closed"`
}

type EstablishmentProfileRequest struct {
	RestaurantName         *string               `json:"restaurant_name"          validate:"omitempty,min=2,max=255"`
	Description            *string               `json:"description"              validate:"omitempty,max=2000"`
	CuisineType            *string               `json:"cuisine_type"             validate:"omitempty,max=100"`
	LogoURL                *string               `json:"logo_url"                 validate:"omitempty,max=500"`
	BannerURL              *string               `json:"banner_url"               validate:"omitempty,max=500"`
	PixKey                 *string               `json:"pix_key"                  validate:"omitempty,max=255"`
	Instagram              *string               `json:"instagram"                validate:"omitempty,max=255"`
	Whatsapp               *string               `json:"whatsapp"                 validate:"omitempty,max=30"`
	DeliveryRadius         *float64              `json:"delivery_radius"          validate:"omitempty,gte=0"`
	MinimumOrder           *float64              `json:"minimum_order"            validate:"omitempty,gte=0"`
	DeliveryFee            *float64              `json:"delivery_fee"             validate:"omitempty,gte=0"`
	AcceptedPaymentMethods []string              `json:"accepted_payment_methods" validate:"omitempty,dive,oneof=CASH PIX CREDIT DEBIT"`
	OnlyLinkedDelivery     *bool                 `json:"only_linked_delivery"`
	BusinessHours          []BusinessHourRequest `json:"business_hours"           validate:"omitempty,dive"`
}
