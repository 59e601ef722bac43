package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:notify_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The poller reads from its own goroutine.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return repo.New(db)
}

func startHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	hub := NewHub(quietLogger(), []string{"*"})
	e := echo.New()
	e.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHubPushesToClients(t *testing.T) {
	t.Parallel()
	hub, conn := startHub(t)

	order := models.OrderView{ID: 7, Status: models.StatusPending, Items: []models.OrderItemView{}}
	require.NoError(t, hub.Publish(context.Background(), Message{Type: TypeNewOrder, ID: NewOrderKey(7), Order: order}))

	m := readMessage(t, conn)
	assert.Equal(t, TypeNewOrder, m.Type)
	assert.Equal(t, "NEW_ORDER:7", m.ID)
	assert.EqualValues(t, 7, m.Order.ID)
}

func TestHubRejectsForeignOrigins(t *testing.T) {
	t.Parallel()
	check := originChecker([]string{"https://painel.example.com"})

	req := httptest.NewRequest("GET", "/ws", nil)
	assert.True(t, check(req), "no origin header")
	req.Header.Set("Origin", "https://painel.example.com")
	assert.True(t, check(req))
	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))
}

func TestMemorySeenExpires(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := NewMemorySeen(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := s.FirstSeen(ctx, "NEW_ORDER:1")
	require.NoError(t, err)
	assert.True(t, first)
	first, err = s.FirstSeen(ctx, "NEW_ORDER:1")
	require.NoError(t, err)
	assert.False(t, first)

	now = now.Add(2 * time.Minute)
	first, err = s.FirstSeen(ctx, "NEW_ORDER:1")
	require.NoError(t, err)
	assert.True(t, first)
}

type failingSeen struct{}

func (failingSeen) FirstSeen(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type captureSink struct {
	mu   sync.Mutex
	msgs []Message
}

func (c *captureSink) Publish(_ context.Context, m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
	return nil
}

func (c *captureSink) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = m.Type
	}
	return out
}

func TestDispatcherDedupesNewOrderOnly(t *testing.T) {
	t.Parallel()
	sink := &captureSink{}
	d := NewDispatcher(NewMemorySeen(time.Hour), quietLogger(), sink)
	ctx := context.Background()
	o := models.OrderView{ID: 3}

	d.NewOrder(ctx, o)
	d.NewOrder(ctx, o)
	d.OrderUpdated(ctx, o)
	d.OrderUpdated(ctx, o)

	assert.Equal(t, []string{TypeNewOrder, TypeOrderUpdate, TypeOrderUpdate}, sink.types())
	assert.NotEqual(t, sink.msgs[1].ID, sink.msgs[2].ID)
}

func TestDispatcherFailsOpenWhenStoreErrors(t *testing.T) {
	t.Parallel()
	sink := &captureSink{}
	d := NewDispatcher(failingSeen{}, quietLogger(), sink)
	d.NewOrder(context.Background(), models.OrderView{ID: 3})
	assert.Equal(t, []string{TypeNewOrder}, sink.types())
}

type brokenSink struct{}

func (brokenSink) Publish(context.Context, Message) error {
	return errors.New("broker down")
}

func TestPublishReportsDelivery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := Message{Type: TypeOrderUpdate, ID: "ORDER_UPDATE:1", Order: models.OrderView{}}

	none := NewDispatcher(NewMemorySeen(time.Hour), quietLogger(), brokenSink{}, brokenSink{})
	assert.False(t, none.publish(ctx, m))

	sink := &captureSink{}
	some := NewDispatcher(NewMemorySeen(time.Hour), quietLogger(), brokenSink{}, sink)
	assert.True(t, some.publish(ctx, m))
	assert.Equal(t, []string{TypeOrderUpdate}, sink.types())

	assert.False(t, NewDispatcher(NewMemorySeen(time.Hour), quietLogger()).publish(ctx, m))
}

type recordPublisher struct {
	topic, key string
	event      any
}

func (r *recordPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.topic, r.key, r.event = topic, key, event
	return nil
}

func TestKafkaSinkKeysByOrder(t *testing.T) {
	t.Parallel()
	pub := &recordPublisher{}
	sink := &KafkaSink{Producer: pub, Topic: "order_events"}

	m := Message{Type: TypeOrderUpdate, ID: "x", Order: models.OrderView{ID: 42}}
	require.NoError(t, sink.Publish(context.Background(), m))
	assert.Equal(t, "order_events", pub.topic)
	assert.Equal(t, "42", pub.key)
	assert.Equal(t, m, pub.event)
}

func seedOrder(t *testing.T, r *repo.GormRepo) *models.Order {
	t.Helper()
	ctx := context.Background()
	n := dbSeq.Add(1)
	cust := &models.User{Name: "ana", Email: fmt.Sprintf("ana%d@example.com", n), Password: "x", Role: models.RoleCustomer}
	est := &models.User{Name: "pizzaria", Email: fmt.Sprintf("pizza%d@example.com", n), Password: "x", Role: models.RoleEstablishment}
	require.NoError(t, r.CreateUser(ctx, cust))
	require.NoError(t, r.CreateUser(ctx, est))
	o := &models.Order{
		CustomerID: cust.ID, EstablishmentID: est.ID, TotalAmount: 10,
		Status: models.StatusPending, PaymentMethod: "CASH", OrderType: models.OrderTypePickup,
	}
	require.NoError(t, r.CreateOrderTree(ctx, o, nil))
	return o
}

func TestPollerReportsOnlyNewPendingOrders(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()
	old := seedOrder(t, r)

	sink := &captureSink{}
	p := NewPoller(r, NewDispatcher(NewMemorySeen(time.Hour), quietLogger(), sink), time.Hour, quietLogger())
	require.NoError(t, p.Start(ctx))
	t.Cleanup(p.Stop)
	assert.Equal(t, old.ID, p.LastSeen())

	fresh := seedOrder(t, r)
	p.Trigger(ctx)
	p.Trigger(ctx)

	require.Len(t, sink.msgs, 1)
	assert.Equal(t, fresh.ID, sink.msgs[0].Order.ID)
	assert.Equal(t, fresh.ID, p.LastSeen())
}

func TestNewOrderArrivesOnceOverPushAndPoll(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()
	hub, conn := startHub(t)
	d := NewDispatcher(NewMemorySeen(time.Hour), quietLogger(), hub)

	p := NewPoller(r, d, 20*time.Millisecond, quietLogger())
	require.NoError(t, p.Start(ctx))
	t.Cleanup(p.Stop)

	o := seedOrder(t, r)
	rows, err := r.ListOrderRows(ctx, repo.OrderFilter{OrderID: o.ID})
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	// Push path, as the order service does after commit.
	d.NewOrder(ctx, models.OrderView{ID: o.ID, Status: models.StatusPending, Items: []models.OrderItemView{}})
	require.Eventually(t, func() bool { return p.LastSeen() == o.ID }, 2*time.Second, 10*time.Millisecond)
	p.Trigger(ctx)

	d.OrderUpdated(ctx, models.OrderView{ID: o.ID, Status: models.StatusPreparing})

	first := readMessage(t, conn)
	assert.Equal(t, TypeNewOrder, first.Type)
	assert.Equal(t, NewOrderKey(o.ID), first.ID)
	second := readMessage(t, conn)
	assert.Equal(t, TypeOrderUpdate, second.Type, "no second NEW_ORDER for the same order")
}
