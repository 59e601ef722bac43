package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/painelquick/backend/internal/aggregate"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/robfig/cron/v3"
)

type newOrderNotifier interface {
	NewOrder(ctx context.Context, o models.OrderView)
}

// Poller finds PENDING orders created since the last tick and reports them
// as new orders. It catches orders written by anything other than this
// process; the dispatcher drops the ones already pushed.
type Poller struct {
	repo     *repo.GormRepo
	notifier newOrderNotifier
	interval time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	lastSeen uint
	cron     *cron.Cron
}

func NewPoller(r *repo.GormRepo, n newOrderNotifier, interval time.Duration, log *slog.Logger) *Poller {
	return &Poller{repo: r, notifier: n, interval: interval, log: log.With("component", "poller")}
}

// Start records the current highest order id and schedules polling.
func (p *Poller) Start(ctx context.Context) error {
	last, err := p.repo.MaxOrderID(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.lastSeen = last
	p.mu.Unlock()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() { p.Trigger(ctx) }); err != nil {
		return err
	}
	c.Start()
	p.cron = c
	p.log.Info("poller_started", "interval", p.interval.String(), "last_seen", last)
	return nil
}

func (p *Poller) Stop() {
	if p.cron != nil {
		<-p.cron.Stop().Done()
	}
}

// Trigger polls now. Concurrent calls run one after another.
func (p *Poller) Trigger(ctx context.Context) {
	if _, err := p.poll(ctx); err != nil {
		p.log.Warn("poll_error", "error", err)
	}
}

func (p *Poller) poll(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids, err := p.repo.PendingOrderIDsAfter(ctx, p.lastSeen)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	rows, err := p.repo.ListOrderRows(ctx, repo.OrderFilter{
		AfterID:  p.lastSeen,
		Statuses: []models.OrderStatus{models.StatusPending},
	})
	if err != nil {
		return 0, err
	}
	orders := aggregate.Orders(rows)

	// Rows come newest first; report oldest first.
	for i := len(orders) - 1; i >= 0; i-- {
		p.notifier.NewOrder(ctx, orders[i])
		if orders[i].ID > p.lastSeen {
			p.lastSeen = orders[i].ID
		}
	}
	return len(orders), nil
}

func (p *Poller) LastSeen() uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}
