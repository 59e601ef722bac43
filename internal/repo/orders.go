package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/painelquick/backend/internal/models"
)

const orderRowsSQL = `
SELECT o.id, o.customer_id, o.establishment_id, o.delivery_id, o.total_amount, o.delivery_fee,
       o.status, o.payment_method, o.order_type, o.amount_paid, o.change_amount, o.payment_status,
       o.delivery_address, o.notes, o.created_at, o.updated_at,
       c.name AS customer_name, c.phone AS customer_phone, c.address AS customer_address,
       COALESCE(NULLIF(ep.restaurant_name, ''), e.name) AS establishment_name,
       d.name AS delivery_person_name, ep.pix_key AS pix_key,
       oi.id AS item_id, oi.product_id AS product_id, p.name AS product_name,
       oi.quantity AS item_quantity, oi.price AS item_price, oi.obs AS item_obs,
       oia.id AS addition_id, oia.option_id AS option_id, op.name AS option_name,
       oia.quantity AS addition_qty, oia.price AS addition_price
FROM orders o
LEFT JOIN users c ON c.id = o.customer_id
LEFT JOIN users e ON e.id = o.establishment_id
LEFT JOIN establishment_profile ep ON ep.user_id = o.establishment_id
LEFT JOIN users d ON d.id = o.delivery_id
LEFT JOIN order_items oi ON oi.order_id = o.id
LEFT JOIN products p ON p.id = oi.product_id
LEFT JOIN order_item_additions oia ON oia.order_item_id = oi.id
LEFT JOIN options op ON op.id = oia.option_id`

const orderRowsOrder = ` ORDER BY o.created_at DESC, o.id DESC, oi.id ASC, oia.id ASC`

var scopeColumns = map[string]struct{}{
	"customer_id":      {},
	"establishment_id": {},
	"delivery_id":      {},
}

// OrderFilter restricts ListOrderRows. Column comes from Role.OrderScope and
// is matched against a fixed set; an empty Column means no scoping.
type OrderFilter struct {
	Column    string
	UserID    uint
	OrderID   uint
	AfterID   uint
	Statuses  []models.OrderStatus
	OrderType models.OrderType
	Limit     int
}

func (f OrderFilter) where() (string, []any, error) {
	var conds []string
	var args []any
	if f.Column != "" {
		if _, ok := scopeColumns[f.Column]; !ok {
			return "", nil, fmt.Errorf("unsupported scope column %q", f.Column)
		}
		conds = append(conds, "o."+f.Column+" = ?")
		args = append(args, f.UserID)
	}
	if f.OrderID != 0 {
		conds = append(conds, "o.id = ?")
		args = append(args, f.OrderID)
	}
	if f.AfterID != 0 {
		conds = append(conds, "o.id > ?")
		args = append(args, f.AfterID)
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, "o.status IN ?")
		args = append(args, statusStrings(f.Statuses))
	}
	if f.OrderType != "" {
		conds = append(conds, "o.order_type = ?")
		args = append(args, string(f.OrderType))
	}
	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func statusStrings(ss []models.OrderStatus) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// ListOrderRows returns the flat join rows for the matching orders. When a
// limit is set it bounds orders, not rows.
func (r *GormRepo) ListOrderRows(ctx context.Context, f OrderFilter) ([]models.OrderRow, error) {
	where, args, err := f.where()
	if err != nil {
		return nil, wrap(err)
	}
	if f.Limit > 0 {
		sub := "SELECT o.id FROM orders o" + where + " ORDER BY o.created_at DESC, o.id DESC LIMIT ?"
		args = append(args, f.Limit)
		where = " WHERE o.id IN (SELECT id FROM (" + sub + ") AS recent)"
	}
	var rows []models.OrderRow
	if err := r.Execute(ctx, &rows, orderRowsSQL+where+orderRowsOrder, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) FindOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.first(ctx, &o, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// FindOrderScoped loads an order only when column equals userID.
func (r *GormRepo) FindOrderScoped(ctx context.Context, id uint, column string, userID uint) (*models.Order, error) {
	if _, ok := scopeColumns[column]; !ok {
		return nil, wrap(fmt.Errorf("unsupported scope column %q", column))
	}
	var o models.Order
	err := r.DB.WithContext(ctx).Where("id = ? AND "+column+" = ?", id, userID).First(&o).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &o, nil
}

type NewOrderItem struct {
	Item      models.OrderItem
	Additions []models.OrderItemAddition
}

// CreateOrderTree inserts the order followed by its items and additions.
func (r *GormRepo) CreateOrderTree(ctx context.Context, o *models.Order, items []NewOrderItem) error {
	if err := r.create(ctx, o); err != nil {
		return err
	}
	return r.insertItems(ctx, o.ID, items)
}

func (r *GormRepo) insertItems(ctx context.Context, orderID uint, items []NewOrderItem) error {
	for i := range items {
		item := items[i].Item
		item.OrderID = orderID
		if err := r.create(ctx, &item); err != nil {
			return err
		}
		for j := range items[i].Additions {
			add := items[i].Additions[j]
			add.OrderItemID = item.ID
			if err := r.create(ctx, &add); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReplaceOrderItems drops every item and addition of the order and inserts items.
func (r *GormRepo) ReplaceOrderItems(ctx context.Context, orderID uint, items []NewOrderItem) error {
	db := r.DB.WithContext(ctx)
	itemIDs := db.Model(&models.OrderItem{}).Select("id").Where("order_id = ?", orderID)
	if err := db.Where("order_item_id IN (?)", itemIDs).Delete(&models.OrderItemAddition{}).Error; err != nil {
		return wrap(err)
	}
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return wrap(err)
	}
	return r.insertItems(ctx, orderID, items)
}

// UpdateOrder applies fields to the order and reports whether a row matched.
func (r *GormRepo) UpdateOrder(ctx context.Context, id uint, fields map[string]any) (bool, error) {
	fields["updated_at"] = time.Now().UTC()
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, wrap(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateOrderWhere is UpdateOrder guarded by an extra condition.
func (r *GormRepo) UpdateOrderWhere(ctx context.Context, id uint, fields map[string]any, cond string, args ...any) (bool, error) {
	fields["updated_at"] = time.Now().UTC()
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Where(cond, args...).Updates(fields)
	if res.Error != nil {
		return false, wrap(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) MaxOrderID(ctx context.Context) (uint, error) {
	var max uint
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Select("COALESCE(MAX(id), 0)").Scan(&max).Error; err != nil {
		return 0, wrap(err)
	}
	return max, nil
}

// PendingOrderIDsAfter returns ids of PENDING orders newer than lastID, ascending.
func (r *GormRepo) PendingOrderIDsAfter(ctx context.Context, lastID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id > ? AND status = ?", lastID, models.StatusPending).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, wrap(err)
}

func (r *GormRepo) ListOrdersBetween(ctx context.Context, establishmentID uint, from, to time.Time) ([]models.Order, error) {
	var out []models.Order
	err := r.DB.WithContext(ctx).
		Where("establishment_id = ? AND created_at >= ? AND created_at < ?", establishmentID, from, to).
		Order("created_at ASC").
		Find(&out).Error
	return out, wrap(err)
}

type OrderTotals struct {
	Orders    int64
	Customers int64
	Revenue   float64
}

// OrderTotals sums the establishment's non-cancelled orders over all time.
func (r *GormRepo) OrderTotals(ctx context.Context, establishmentID uint) (OrderTotals, error) {
	var out OrderTotals
	err := r.Execute(ctx, &out, `
		SELECT COUNT(*) AS orders,
		       COUNT(DISTINCT customer_id) AS customers,
		       COALESCE(SUM(total_amount), 0) AS revenue
		FROM orders
		WHERE establishment_id = ? AND status <> ?`, establishmentID, string(models.StatusCancelled))
	return out, err
}

type TopProduct struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

func (r *GormRepo) TopProducts(ctx context.Context, establishmentID uint, limit int) ([]TopProduct, error) {
	var out []TopProduct
	err := r.Execute(ctx, &out, `
		SELECT p.id AS product_id, p.name AS name,
		       SUM(oi.quantity) AS quantity, SUM(oi.price * oi.quantity) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.establishment_id = ? AND o.status <> ?
		GROUP BY p.id, p.name
		ORDER BY quantity DESC, p.name ASC
		LIMIT ?`, establishmentID, string(models.StatusCancelled), limit)
	return out, err
}

type TopCustomer struct {
	CustomerID uint    `json:"customer_id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Orders     int64   `json:"orders"`
	TotalSpent float64 `json:"total_spent"`
}

func (r *GormRepo) TopCustomers(ctx context.Context, establishmentID uint, limit int) ([]TopCustomer, error) {
	var out []TopCustomer
	err := r.Execute(ctx, &out, `
		SELECT u.id AS customer_id, u.name AS name, u.phone AS phone,
		       COUNT(o.id) AS orders, SUM(o.total_amount) AS total_spent
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		WHERE o.establishment_id = ? AND o.status <> ?
		GROUP BY u.id, u.name, u.phone
		ORDER BY total_spent DESC, u.name ASC
		LIMIT ?`, establishmentID, string(models.StatusCancelled), limit)
	return out, err
}

type TypeCount struct {
	OrderType models.OrderType
	Count     int64
}

func (r *GormRepo) CountOrdersByType(ctx context.Context, establishmentID uint) ([]TypeCount, error) {
	var out []TypeCount
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_type, COUNT(*) AS count").
		Where("establishment_id = ? AND status <> ?", establishmentID, models.StatusCancelled).
		Group("order_type").
		Order("order_type ASC").
		Scan(&out).Error
	return out, wrap(err)
}

func (r *GormRepo) CountDeliveredBy(ctx context.Context, establishmentID uint) (int64, error) {
	return r.count(ctx, &models.Order{}, "establishment_id = ? AND order_type = ? AND status = ?",
		establishmentID, models.OrderTypeDelivery, models.StatusDelivered)
}
