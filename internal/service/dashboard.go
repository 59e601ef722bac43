package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/painelquick/backend/internal/aggregate"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
)

const (
	topLimit    = 5
	recentLimit = 5
	salesDays   = 7
)

var orderTypeLabels = map[models.OrderType]struct{ Name, Color string }{
	models.OrderTypeDelivery: {"Entrega", "#f97316"},
	models.OrderTypePickup:   {"Retirada", "#22c55e"},
	models.OrderTypeDineIn:   {"Local", "#3b82f6"},
}

type DashboardService struct {
	Repo *repo.GormRepo
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

type DashboardStats struct {
	RevenueToday    float64 `json:"faturamentoHoje"`
	OrdersToday     int     `json:"pedidosHoje"`
	ActiveCustomers int     `json:"clientesAtivos"`
	AverageTicket   float64 `json:"ticketMedio"`
	RevenueYest     float64 `json:"faturamentoOntem"`
	OrdersYest      int     `json:"pedidosOntem"`
	RevenueGrowth   float64 `json:"crescimentoFaturamento"`
	OrdersGrowth    float64 `json:"crescimentoPedidos"`
}

type SalesPoint struct {
	Name  string  `json:"name"`
	Date  string  `json:"date"`
	Sales float64 `json:"vendas"`
}

type TypeSlice struct {
	Type  models.OrderType `json:"type"`
	Name  string           `json:"name"`
	Value int64            `json:"value"`
	Color string           `json:"color"`
}

type RecentOrder struct {
	ID       string  `json:"id"`
	Customer string  `json:"customer"`
	Total    float64 `json:"total"`
	Status   string  `json:"status"`
	Time     string  `json:"time"`
}

type Dashboard struct {
	Stats          DashboardStats     `json:"stats"`
	SalesData      []SalesPoint       `json:"salesData"`
	TopProducts    []repo.TopProduct  `json:"topProducts"`
	TopCustomers   []repo.TopCustomer `json:"topCustomers"`
	OrderTypeData  []TypeSlice        `json:"orderTypeData"`
	RecentOrders   []RecentOrder      `json:"recentOrders"`
	DeliveryCount  int                `json:"deliveryCount"`
	DeliveredCount int64              `json:"deliveredCount"`
}

func (s *DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Build computes the establishment dashboard. Only the sales window is
// loaded; all-time figures come from aggregates. Cancelled orders never count
// towards revenue, customers or rankings.
func (s *DashboardService) Build(ctx context.Context, actor *models.User) (*Dashboard, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	orders, err := s.Repo.ListOrdersBetween(ctx, actor.ID, today.AddDate(0, 0, -(salesDays-1)), tomorrow)
	if err != nil {
		return nil, err
	}
	totals, err := s.Repo.OrderTotals(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{}
	d.Stats, d.SalesData = summarize(orders, today, yesterday)
	d.Stats.ActiveCustomers = int(totals.Customers)
	if totals.Orders > 0 {
		d.Stats.AverageTicket = round2(totals.Revenue / float64(totals.Orders))
	}

	if d.TopProducts, err = s.Repo.TopProducts(ctx, actor.ID, topLimit); err != nil {
		return nil, err
	}
	if d.TopCustomers, err = s.Repo.TopCustomers(ctx, actor.ID, topLimit); err != nil {
		return nil, err
	}
	if d.TopProducts == nil {
		d.TopProducts = []repo.TopProduct{}
	}
	if d.TopCustomers == nil {
		d.TopCustomers = []repo.TopCustomer{}
	}

	counts, err := s.Repo.CountOrdersByType(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	d.OrderTypeData = make([]TypeSlice, 0, len(counts))
	for _, c := range counts {
		slice := TypeSlice{Type: c.OrderType, Name: string(c.OrderType), Value: c.Count, Color: "#6b7280"}
		if lbl, ok := orderTypeLabels[c.OrderType]; ok {
			slice.Name, slice.Color = lbl.Name, lbl.Color
		}
		d.OrderTypeData = append(d.OrderTypeData, slice)
	}

	rows, err := s.Repo.ListOrderRows(ctx, repo.OrderFilter{Column: "establishment_id", UserID: actor.ID, Limit: recentLimit})
	if err != nil {
		return nil, err
	}
	recent := aggregate.Orders(rows)
	d.RecentOrders = make([]RecentOrder, 0, len(recent))
	for _, o := range recent {
		d.RecentOrders = append(d.RecentOrders, RecentOrder{
			ID:       fmt.Sprintf("%03d", o.ID),
			Customer: o.CustomerName,
			Total:    o.TotalAmount,
			Status:   strings.ToLower(string(o.Status)),
			Time:     timeAgo(now, o.CreatedAt),
		})
	}

	couriers, err := s.Repo.LinkedCouriers(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	d.DeliveryCount = len(couriers)
	if d.DeliveredCount, err = s.Repo.CountDeliveredBy(ctx, actor.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func summarize(orders []models.Order, today, yesterday time.Time) (DashboardStats, []SalesPoint) {
	var st DashboardStats
	tomorrow := today.AddDate(0, 0, 1)
	start := today.AddDate(0, 0, -(salesDays - 1))

	sales := make([]SalesPoint, salesDays)
	for i := range sales {
		day := start.AddDate(0, 0, i)
		sales[i] = SalesPoint{Name: day.Format("Mon"), Date: day.Format("2006-01-02")}
	}

	for _, o := range orders {
		if o.Status == models.StatusCancelled {
			continue
		}
		at := o.CreatedAt.UTC()

		switch {
		case !at.Before(today) && at.Before(tomorrow):
			st.RevenueToday += o.TotalAmount
			st.OrdersToday++
		case !at.Before(yesterday) && at.Before(today):
			st.RevenueYest += o.TotalAmount
			st.OrdersYest++
		}
		if !at.Before(start) && at.Before(tomorrow) {
			idx := int(at.Sub(start) / (24 * time.Hour))
			sales[idx].Sales = round2(sales[idx].Sales + o.TotalAmount)
		}
	}

	st.RevenueToday = round2(st.RevenueToday)
	st.RevenueYest = round2(st.RevenueYest)
	st.RevenueGrowth = growth(st.RevenueToday, st.RevenueYest)
	st.OrdersGrowth = growth(float64(st.OrdersToday), float64(st.OrdersYest))
	return st, sales
}

// growth is the percentage change from prev to cur; zero when prev is zero.
func growth(cur, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return round2((cur - prev) / prev * 100)
}
