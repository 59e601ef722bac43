package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/painelquick/backend/internal/aggregate"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
	pkg_hash "github.com/painelquick/backend/pkg/hash"
	"github.com/painelquick/backend/pkg/logging"
	"github.com/painelquick/backend/pkg/metrics"
)

const (
	localEmail   = "local@faker.com"
	localName    = "CONSUMO LOCAL"
	localPhone   = "00000000000"
	localAddress = "LOCAL"

	pickupAddress = "RETIRADA"
	defaultMethod = "CASH"
)

// HistoryMode selects when delivery history snapshots are written.
type HistoryMode struct {
	AtPlacement  bool
	AtCompletion bool
}

type OrderService struct {
	Repo     *repo.GormRepo
	Notifier Notifier
	History  HistoryMode
}

type OfferView struct {
	models.OrderOffer
	Order models.OrderView `json:"order"`
}

func (s *OrderService) notifier() Notifier {
	if s.Notifier == nil {
		return NopNotifier{}
	}
	return s.Notifier
}

// List returns every order the caller may see. Admins see all orders.
func (s *OrderService) List(ctx context.Context, u *models.User) ([]models.OrderView, error) {
	col, err := u.Role.OrderScope()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	rows, err := s.Repo.ListOrderRows(ctx, repo.OrderFilter{Column: col, UserID: u.ID})
	if err != nil {
		return nil, err
	}
	return aggregate.Orders(rows), nil
}

func (s *OrderService) Get(ctx context.Context, u *models.User, id uint) (*models.OrderView, error) {
	col, err := u.Role.OrderScope()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	rows, err := s.Repo.ListOrderRows(ctx, repo.OrderFilter{Column: col, UserID: u.ID, OrderID: id})
	if err != nil {
		return nil, err
	}
	v, ok := aggregate.One(rows)
	if !ok {
		return nil, fmt.Errorf("%w: order not found", ErrNotFound)
	}
	return &v, nil
}

func load(ctx context.Context, r *repo.GormRepo, id uint) (*models.OrderView, error) {
	rows, err := r.ListOrderRows(ctx, repo.OrderFilter{OrderID: id})
	if err != nil {
		return nil, err
	}
	v, ok := aggregate.One(rows)
	if !ok {
		return nil, fmt.Errorf("%w: order not found", ErrNotFound)
	}
	return &v, nil
}

// Create places an order. Prices always come from the catalog; the whole
// order tree is written in one transaction and NEW_ORDER is dispatched after
// commit.
func (s *OrderService) Create(ctx context.Context, actor *models.User, req transport.CreateOrderRequest) (*models.OrderView, error) {
	l := logging.FromContext(ctx).With("svc", "orders.create")

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", ErrValidation)
	}
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
		}
	}
	if actor.Role == models.RoleEstablishment && req.EstablishmentID != actor.ID {
		return nil, fmt.Errorf("%w: establishments can only place their own orders", ErrForbidden)
	}

	est, err := s.Repo.FindUserByID(ctx, req.EstablishmentID)
	if err != nil && !repo.IsNotFound(err) {
		return nil, err
	}
	if est == nil || est.Role != models.RoleEstablishment {
		return nil, fmt.Errorf("%w: establishment not found", ErrValidation)
	}

	orderType := models.OrderTypeFromRequest(req.OrderType)
	method := strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = defaultMethod
	}

	var orderID uint
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		customer, err := resolveCustomer(ctx, tx, actor, req, orderType)
		if err != nil {
			return err
		}

		fee := 0.0
		if orderType == models.OrderTypeDelivery {
			p, err := tx.FindProfile(ctx, est.ID)
			if err != nil && !repo.IsNotFound(err) {
				return err
			}
			if p != nil {
				fee = p.DeliveryFee
			}
		}

		items, subtotal, err := priceItems(ctx, tx, est.ID, req.Items)
		if err != nil {
			return err
		}
		total := round2(subtotal + fee)

		addr, err := deliveryAddress(orderType, req)
		if err != nil {
			return err
		}

		o := &models.Order{
			CustomerID:      customer.ID,
			EstablishmentID: est.ID,
			TotalAmount:     total,
			DeliveryFee:     fee,
			Status:          models.StatusPending,
			PaymentMethod:   method,
			OrderType:       orderType,
			PaymentStatus:   "PENDING",
			DeliveryAddress: &addr,
		}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			o.Notes = &notes
		}
		if req.AmountPaid != nil {
			paid := round2(*req.AmountPaid)
			o.AmountPaid = &paid
			if paid > total {
				change := round2(paid - total)
				o.ChangeAmount = &change
			}
		}

		if err := tx.CreateOrderTree(ctx, o, items); err != nil {
			return err
		}
		if orderType == models.OrderTypeDelivery {
			offer := &models.OrderOffer{OrderID: o.ID, Status: models.OfferOffered}
			if err := tx.CreateOffer(ctx, offer); err != nil {
				return err
			}
		}
		if s.History.AtPlacement {
			if _, err := recordHistory(ctx, tx, o.ID, models.StagePlaced); err != nil {
				return err
			}
		}
		orderID = o.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	v, err := load(ctx, s.Repo, orderID)
	if err != nil {
		return nil, err
	}
	metrics.OrderCreated(string(orderType))
	l.Info("order_created", "order_id", orderID, "establishment_id", est.ID, "total", v.TotalAmount)
	s.notifier().NewOrder(ctx, *v)
	return v, nil
}

// resolveCustomer picks the user the order is placed for. Dine-in orders
// share one synthetic user; other orders placed on behalf of a customer match
// by phone and create the customer when unknown.
func resolveCustomer(ctx context.Context, tx *repo.GormRepo, actor *models.User, req transport.CreateOrderRequest, t models.OrderType) (*models.User, error) {
	if actor.Role == models.RoleCustomer {
		return actor, nil
	}
	if t == models.OrderTypeDineIn {
		return localCustomer(ctx, tx)
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: customer phone is required", ErrValidation)
	}
	u, err := tx.FindCustomerByPhone(ctx, phone)
	if err == nil {
		return u, nil
	}
	if !repo.IsNotFound(err) {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	pw, err := pkg_hash.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	u = &models.User{
		Name:     name,
		Email:    placeholderEmail(name, phone),
		Password: pw,
		Role:     models.RoleCustomer,
		Phone:    phone,
		Address:  strings.TrimSpace(req.Address),
	}
	if err := tx.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func localCustomer(ctx context.Context, tx *repo.GormRepo) (*models.User, error) {
	u, err := tx.FindUserByEmail(ctx, localEmail)
	if err == nil {
		return u, nil
	}
	if !repo.IsNotFound(err) {
		return nil, err
	}
	pw, err := pkg_hash.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	u = &models.User{
		Name:     localName,
		Email:    localEmail,
		Password: pw,
		Role:     models.RoleCustomer,
		Phone:    localPhone,
		Address:  localAddress,
	}
	if err := tx.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func placeholderEmail(name, phone string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if slug == "" {
		slug = "cliente"
	}
	return slug + "." + phone + "@faker.com"
}

func deliveryAddress(t models.OrderType, req transport.CreateOrderRequest) (string, error) {
	switch t {
	case models.OrderTypeDineIn:
		if table := strings.TrimSpace(req.Table); table != "" {
			return table, nil
		}
		return localAddress, nil
	case models.OrderTypePickup:
		return pickupAddress, nil
	default:
		addr := strings.TrimSpace(req.Address)
		if addr == "" {
			return "", fmt.Errorf("%w: delivery address is required", ErrValidation)
		}
		return addr, nil
	}
}

// priceItems captures catalog prices for every requested line. A line costs
// price×quantity plus each selected option's price×option quantity.
func priceItems(ctx context.Context, tx *repo.GormRepo, establishmentID uint, req []transport.OrderItemRequest) ([]repo.NewOrderItem, float64, error) {
	var productIDs, optionIDs []uint
	for _, it := range req {
		productIDs = append(productIDs, it.ProductID)
		for _, o := range it.SelectedOptions {
			optionIDs = append(optionIDs, o.ID)
		}
	}
	products, options, err := catalogPrices(ctx, tx, establishmentID, productIDs, optionIDs)
	if err != nil {
		return nil, 0, err
	}

	out := make([]repo.NewOrderItem, 0, len(req))
	sum := 0.0
	for _, it := range req {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: product %d not found", ErrValidation, it.ProductID)
		}
		if !p.IsAvailable {
			return nil, 0, fmt.Errorf("%w: product %s is unavailable", ErrValidation, p.Name)
		}
		line := p.Price * float64(it.Quantity)
		item := repo.NewOrderItem{Item: models.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     p.Price,
			Obs:       strings.TrimSpace(it.Obs),
		}}
		for _, sel := range it.SelectedOptions {
			o, ok := options[sel.ID]
			if !ok {
				return nil, 0, fmt.Errorf("%w: option %d not found", ErrValidation, sel.ID)
			}
			if !o.IsAvailable {
				return nil, 0, fmt.Errorf("%w: option %s is unavailable", ErrValidation, o.Name)
			}
			qty := sel.Quantity
			if qty <= 0 {
				qty = 1
			}
			line += o.AdditionalPrice * float64(qty)
			item.Additions = append(item.Additions, models.OrderItemAddition{
				OptionID: o.ID,
				Quantity: qty,
				Price:    o.AdditionalPrice,
			})
		}
		sum += line
		out = append(out, item)
	}
	return out, sum, nil
}

func catalogPrices(ctx context.Context, tx *repo.GormRepo, establishmentID uint, productIDs, optionIDs []uint) (map[uint]models.Product, map[uint]models.Option, error) {
	products := make(map[uint]models.Product)
	if len(productIDs) > 0 {
		ps, err := tx.ProductsOf(ctx, establishmentID, productIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, p := range ps {
			products[p.ID] = p
		}
	}
	options := make(map[uint]models.Option)
	if len(optionIDs) > 0 {
		opts, err := tx.OptionsOf(ctx, establishmentID, optionIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, o := range opts {
			options[o.ID] = o
		}
	}
	return products, options, nil
}

// UpdateStatus moves an order to status. Establishments reach their own
// orders; couriers reach orders bound to them, or claim an unbound READY
// delivery order by moving it to DELIVERING.
func (s *OrderService) UpdateStatus(ctx context.Context, actor *models.User, id uint, status string) (*models.OrderView, error) {
	l := logging.FromContext(ctx).With("svc", "orders.status")

	st, ok := models.ParseOrderStatus(strings.TrimSpace(status))
	if !ok {
		return nil, fmt.Errorf("%w: invalid status", ErrValidation)
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.FindOrder(ctx, id)
		if err != nil {
			return notFound(err, "order")
		}

		fields := map[string]any{"status": st}
		switch actor.Role {
		case models.RoleEstablishment:
			if o.EstablishmentID != actor.ID {
				return fmt.Errorf("%w: order not found", ErrNotFound)
			}
		case models.RoleDelivery:
			bound := o.DeliveryID != nil && *o.DeliveryID == actor.ID
			claim := o.DeliveryID == nil && st == models.StatusDelivering &&
				o.Status == models.StatusReady && o.OrderType == models.OrderTypeDelivery
			if !bound && !claim {
				return fmt.Errorf("%w: order not found", ErrNotFound)
			}
			if claim {
				fields["delivery_id"] = actor.ID
			}
		case models.RoleAdmin:
		default:
			return fmt.Errorf("%w: insufficient permissions", ErrForbidden)
		}

		if _, err := tx.UpdateOrder(ctx, id, fields); err != nil {
			return err
		}
		if _, claimed := fields["delivery_id"]; claimed || st == models.StatusCancelled {
			if err := tx.CloseOffers(ctx, id, 0); err != nil {
				return err
			}
		}
		if st == models.StatusDelivered && s.History.AtCompletion {
			if _, err := recordHistory(ctx, tx, id, models.StageDelivered); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusChanged(string(st))
	l.Info("status_changed", "order_id", id, "status", st, "actor_id", actor.ID)
	return s.updated(ctx, id)
}

func (s *OrderService) updated(ctx context.Context, id uint) (*models.OrderView, error) {
	v, err := load(ctx, s.Repo, id)
	if err != nil {
		return nil, err
	}
	s.notifier().OrderUpdated(ctx, *v)
	return v, nil
}

// CustomerUpdate edits the address and notes of the caller's own PENDING
// order. Empty values keep what is stored.
func (s *OrderService) CustomerUpdate(ctx context.Context, actor *models.User, id uint, req transport.CustomerOrderUpdate) (*models.OrderView, error) {
	fields := map[string]any{}
	if req.DeliveryAddress != nil {
		if v := strings.TrimSpace(*req.DeliveryAddress); v != "" {
			fields["delivery_address"] = v
		}
	}
	if req.Notes != nil {
		if v := strings.TrimSpace(*req.Notes); v != "" {
			fields["notes"] = v
		}
	}

	ok, err := s.Repo.UpdateOrderWhere(ctx, id, fields, "customer_id = ? AND status = ?", actor.ID, models.StatusPending)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order not found or can no longer be changed", ErrNotFound)
	}
	return s.updated(ctx, id)
}

// Cancel cancels the caller's own order while it is PENDING or PREPARING.
func (s *OrderService) Cancel(ctx context.Context, actor *models.User, id uint) (*models.OrderView, error) {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.UpdateOrderWhere(ctx, id,
			map[string]any{"status": models.StatusCancelled},
			"customer_id = ? AND status IN ?", actor.ID, statusValues(models.CancellableStatuses))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order not found or can no longer be cancelled", ErrNotFound)
		}
		return tx.CloseOffers(ctx, id, 0)
	})
	if err != nil {
		return nil, err
	}
	metrics.StatusChanged(string(models.StatusCancelled))
	return s.updated(ctx, id)
}

func statusValues(ss []models.OrderStatus) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// EstablishmentOrders lists the establishment's orders, optionally filtered
// by status.
func (s *OrderService) EstablishmentOrders(ctx context.Context, actor *models.User, status string) ([]models.OrderView, error) {
	f := repo.OrderFilter{Column: "establishment_id", UserID: actor.ID}
	if status = strings.TrimSpace(status); status != "" {
		st, ok := models.ParseOrderStatus(strings.ToUpper(status))
		if !ok {
			return nil, fmt.Errorf("%w: invalid status", ErrValidation)
		}
		f.Statuses = []models.OrderStatus{st}
	}
	rows, err := s.Repo.ListOrderRows(ctx, f)
	if err != nil {
		return nil, err
	}
	return aggregate.Orders(rows), nil
}

func (s *OrderService) EstablishmentOrder(ctx context.Context, actor *models.User, id uint) (*models.OrderView, error) {
	rows, err := s.Repo.ListOrderRows(ctx, repo.OrderFilter{Column: "establishment_id", UserID: actor.ID, OrderID: id})
	if err != nil {
		return nil, err
	}
	v, ok := aggregate.One(rows)
	if !ok {
		return nil, fmt.Errorf("%w: order not found", ErrNotFound)
	}
	return &v, nil
}

// ReadyForDelivery lists delivery orders that are being prepared or waiting
// for a courier, with a human readable age.
func (s *OrderService) ReadyForDelivery(ctx context.Context, actor *models.User) ([]models.OrderView, error) {
	rows, err := s.Repo.ListOrderRows(ctx, repo.OrderFilter{
		Column:    "establishment_id",
		UserID:    actor.ID,
		Statuses:  []models.OrderStatus{models.StatusReady, models.StatusPreparing},
		OrderType: models.OrderTypeDelivery,
	})
	if err != nil {
		return nil, err
	}
	out := aggregate.Orders(rows)
	now := time.Now().UTC()
	for i := range out {
		out[i].TimeAgo = timeAgo(now, out[i].CreatedAt)
	}
	return out, nil
}

// FullUpdate edits an establishment's order in one transaction. When items
// are sent they replace the stored ones and the total is recomputed; an
// explicit total_amount only applies when items are left alone.
func (s *OrderService) FullUpdate(ctx context.Context, actor *models.User, id uint, req transport.FullOrderUpdate) (*models.OrderView, error) {
	var newStatus models.OrderStatus
	if req.Status != nil {
		st, ok := models.ParseOrderStatus(strings.TrimSpace(*req.Status))
		if !ok {
			return nil, fmt.Errorf("%w: invalid status", ErrValidation)
		}
		newStatus = st
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.FindOrderScoped(ctx, id, "establishment_id", actor.ID)
		if err != nil {
			return notFound(err, "order")
		}

		fields := map[string]any{}
		if newStatus != "" {
			fields["status"] = newStatus
		}
		if req.PaymentMethod != nil {
			if m := strings.ToUpper(strings.TrimSpace(*req.PaymentMethod)); m != "" {
				fields["payment_method"] = m
			}
		}

		total := o.TotalAmount
		if req.Items != nil {
			items, subtotal, err := priceFullItems(ctx, tx, actor.ID, req.Items)
			if err != nil {
				return err
			}
			if err := tx.ReplaceOrderItems(ctx, id, items); err != nil {
				return err
			}
			total = round2(subtotal + o.DeliveryFee)
			fields["total_amount"] = total
		} else if req.TotalAmount != nil {
			total = round2(*req.TotalAmount)
			fields["total_amount"] = total
		}

		paid := o.AmountPaid
		if req.AmountPaid != nil {
			v := round2(*req.AmountPaid)
			paid = &v
			fields["amount_paid"] = v
		}
		if paid != nil && (req.AmountPaid != nil || fields["total_amount"] != nil) {
			change := 0.0
			if *paid > total {
				change = round2(*paid - total)
			}
			fields["change_amount"] = change
		}

		if len(fields) > 0 {
			if _, err := tx.UpdateOrder(ctx, id, fields); err != nil {
				return err
			}
		}
		if newStatus == models.StatusDelivered && s.History.AtCompletion {
			if _, err := recordHistory(ctx, tx, id, models.StageDelivered); err != nil {
				return err
			}
		}
		if newStatus == models.StatusCancelled {
			return tx.CloseOffers(ctx, id, 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if newStatus != "" {
		metrics.StatusChanged(string(newStatus))
	}
	return s.updated(ctx, id)
}

// priceFullItems prices replacement lines. A price sent by the establishment
// overrides the catalog price.
func priceFullItems(ctx context.Context, tx *repo.GormRepo, establishmentID uint, req []transport.FullItem) ([]repo.NewOrderItem, float64, error) {
	var productIDs, optionIDs []uint
	for _, it := range req {
		productIDs = append(productIDs, it.ProductID)
		for _, a := range it.Additions {
			optionIDs = append(optionIDs, a.OptionID())
		}
	}
	products, options, err := catalogPrices(ctx, tx, establishmentID, productIDs, optionIDs)
	if err != nil {
		return nil, 0, err
	}

	out := make([]repo.NewOrderItem, 0, len(req))
	sum := 0.0
	for _, it := range req {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: product %d not found", ErrValidation, it.ProductID)
		}
		if it.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
		}
		price := p.Price
		if it.Price != nil {
			price = *it.Price
		}
		line := price * float64(it.Quantity)
		item := repo.NewOrderItem{Item: models.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     price,
			Obs:       strings.TrimSpace(it.Obs),
		}}
		for _, a := range it.Additions {
			o, ok := options[a.OptionID()]
			if !ok {
				return nil, 0, fmt.Errorf("%w: option %d not found", ErrValidation, a.OptionID())
			}
			qty := a.Quantity
			if qty <= 0 {
				qty = 1
			}
			ap := o.AdditionalPrice
			if a.Price != nil {
				ap = *a.Price
			}
			line += ap * float64(qty)
			item.Additions = append(item.Additions, models.OrderItemAddition{OptionID: o.ID, Quantity: qty, Price: ap})
		}
		sum += line
		out = append(out, item)
	}
	return out, sum, nil
}

// Offers lists the open offers a courier can answer, each with its order.
func (s *OrderService) Offers(ctx context.Context, actor *models.User) ([]OfferView, error) {
	offers, err := s.Repo.OpenOffersFor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]OfferView, 0, len(offers))
	for _, f := range offers {
		v, err := load(ctx, s.Repo, f.OrderID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, OfferView{OrderOffer: f, Order: *v})
	}
	return out, nil
}

// AcceptOffer binds the courier to the offered order and closes the other
// offers for it.
func (s *OrderService) AcceptOffer(ctx context.Context, actor *models.User, offerID uint) (*models.OrderView, error) {
	var orderID uint
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		f, err := openOffer(ctx, tx, actor, offerID)
		if err != nil {
			return err
		}
		o, err := tx.FindOrder(ctx, f.OrderID)
		if err != nil {
			return notFound(err, "order")
		}
		if o.DeliveryID != nil && *o.DeliveryID != actor.ID {
			return fmt.Errorf("%w: order already has a courier", ErrConflict)
		}
		if !o.Status.In(models.AssignableStatuses) {
			return fmt.Errorf("%w: order can no longer be accepted", ErrConflict)
		}
		if o.DeliveryID == nil {
			active, err := tx.CountActiveOrders(ctx, actor.ID)
			if err != nil {
				return err
			}
			if active >= models.MaxActiveOrders {
				return fmt.Errorf("%w: courier already has %d active orders", ErrConflict, active)
			}
		}

		ok, err := tx.RespondOffer(ctx, f.ID, models.OfferAccepted, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: offer already answered", ErrConflict)
		}
		if err := tx.CloseOffers(ctx, o.ID, f.ID); err != nil {
			return err
		}
		ok, err = tx.UpdateOrderWhere(ctx, o.ID, map[string]any{"delivery_id": actor.ID},
			"(delivery_id IS NULL OR delivery_id = ?)", actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order already has a courier", ErrConflict)
		}
		orderID = o.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.updated(ctx, orderID)
}

// DeclineOffer refuses an offer. A courier already bound to the order is
// released and the order is offered to everyone again.
func (s *OrderService) DeclineOffer(ctx context.Context, actor *models.User, offerID uint) error {
	var released uint
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		f, err := openOffer(ctx, tx, actor, offerID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if f.DeliveryID == nil {
			// Unassigned offers stay open for the others; remember this courier said no.
			return tx.CreateOffer(ctx, &models.OrderOffer{
				OrderID:     f.OrderID,
				DeliveryID:  &actor.ID,
				Status:      models.OfferDeclined,
				RespondedAt: &now,
			})
		}

		ok, err := tx.RespondOffer(ctx, f.ID, models.OfferDeclined, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: offer already answered", ErrConflict)
		}
		o, err := tx.FindOrder(ctx, f.OrderID)
		if err != nil {
			return notFound(err, "order")
		}
		if o.DeliveryID == nil || *o.DeliveryID != actor.ID || !o.Status.In(models.AssignableStatuses) {
			return nil
		}
		if _, err := tx.UpdateOrder(ctx, o.ID, map[string]any{"delivery_id": nil}); err != nil {
			return err
		}
		released = o.ID
		return tx.CreateOffer(ctx, &models.OrderOffer{OrderID: o.ID, Status: models.OfferOffered})
	})
	if err != nil {
		return err
	}
	if released != 0 {
		_, err = s.updated(ctx, released)
	}
	return err
}

func openOffer(ctx context.Context, tx *repo.GormRepo, actor *models.User, offerID uint) (*models.OrderOffer, error) {
	f, err := tx.FindOffer(ctx, offerID)
	if err != nil {
		return nil, notFound(err, "offer")
	}
	if f.DeliveryID != nil && *f.DeliveryID != actor.ID {
		return nil, fmt.Errorf("%w: offer not found", ErrNotFound)
	}
	if f.Status != models.OfferOffered {
		return nil, fmt.Errorf("%w: offer already answered", ErrConflict)
	}
	return f, nil
}

func timeAgo(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
