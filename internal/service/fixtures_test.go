package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Discard,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repo.New(db)
}

func mustUser(t *testing.T, r *repo.GormRepo, name string, role models.Role) *models.User {
	t.Helper()
	n := seq.Add(1)
	u := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s.%d@example.com", name, n),
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		Role:     role,
		Phone:    fmt.Sprintf("1199%07d", n),
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

type menu struct {
	Product models.Product
	Bacon   models.Option
	Cheese  models.Option
}

// seedMenu gives the establishment a profile with a 5.00 delivery fee, one
// product at 10.00 and two options at 1.50 and 2.00.
func seedMenu(t *testing.T, r *repo.GormRepo, est *models.User) menu {
	t.Helper()
	ctx := context.Background()

	p := models.DefaultProfile(est.ID, est.Name)
	require.NoError(t, r.CreateProfile(ctx, &p))

	cat := models.Category{Name: fmt.Sprintf("Lanches %d", seq.Add(1))}
	require.NoError(t, r.CreateCategory(ctx, &cat))
	prod := models.Product{EstablishmentID: est.ID, CategoryID: cat.ID, Name: "X-Burger", Price: 10, IsAvailable: true}
	require.NoError(t, r.CreateProduct(ctx, &prod))

	g := models.OptionGroup{EstablishmentID: est.ID, Name: "Extras", ProductType: "lanche", MaxSelections: 3}
	require.NoError(t, r.CreateOptionGroup(ctx, &g))
	bacon := models.Option{GroupID: g.ID, Name: "Bacon", AdditionalPrice: 1.5, IsAvailable: true}
	cheese := models.Option{GroupID: g.ID, Name: "Queijo", AdditionalPrice: 2, IsAvailable: true}
	require.NoError(t, r.CreateOption(ctx, &bacon))
	require.NoError(t, r.CreateOption(ctx, &cheese))
	return menu{Product: prod, Bacon: bacon, Cheese: cheese}
}

type event struct {
	kind  string
	order models.OrderView
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) NewOrder(_ context.Context, o models.OrderView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{"NEW_ORDER", o})
}

func (n *recordingNotifier) OrderUpdated(_ context.Context, o models.OrderView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{"ORDER_UPDATE", o})
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.kind
	}
	return out
}
