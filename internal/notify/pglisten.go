package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/painelquick/backend/internal/repo"
)

const Channel = "orders_new"

var triggerSQL = []string{
	`CREATE OR REPLACE FUNCTION painelquick_notify_orders_new() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('` + Channel + `', NEW.id::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS orders_new_notify ON orders`,
	`CREATE TRIGGER orders_new_notify AFTER INSERT ON orders
	FOR EACH ROW EXECUTE FUNCTION painelquick_notify_orders_new()`,
}

// InstallTrigger makes postgres NOTIFY on every inserted order.
func InstallTrigger(ctx context.Context, r *repo.GormRepo) error {
	for _, q := range triggerSQL {
		if _, err := r.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// PGWaker listens on Channel and wakes the poller on every notification, so
// new orders show up without waiting for the next tick.
type PGWaker struct {
	DSN    string
	Wake   func(ctx context.Context)
	Logger *slog.Logger
}

// Run blocks until ctx is done.
func (w *PGWaker) Run(ctx context.Context) error {
	log := w.Logger.With("component", "pg_listener")
	l := pq.NewListener(w.DSN, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("listener_event", "event", int(ev), "error", err)
		}
	})
	defer l.Close()

	if err := l.Listen(Channel); err != nil {
		return err
	}
	log.Info("listening", "channel", Channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-l.Notify:
			// nil after a reconnect; poll anyway in case something was missed.
			if n != nil {
				log.Debug("notified", "payload", n.Extra)
			}
			w.Wake(ctx)
		case <-time.After(90 * time.Second):
			go func() { _ = l.Ping() }()
		}
	}
}
