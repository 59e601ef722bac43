package service

import (
	"context"
	"testing"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	repo *repo.GormRepo
	svc  *CatalogService
	est  *models.User
	menu menu
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	r := newTestRepo(t)
	est := mustUser(t, r, "pizzaria", models.RoleEstablishment)
	return &catalogFixture{repo: r, svc: &CatalogService{Repo: r}, est: est, menu: seedMenu(t, r, est)}
}

func TestDeleteCategoryRefusedWhileProductsUseIt(t *testing.T) {
	t.Parallel()
	f := newCatalogFixture(t)
	ctx := context.Background()
	catID := f.menu.Product.CategoryID

	err := f.svc.DeleteCategory(ctx, catID)
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.GetCategory(ctx, catID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProduct(ctx, f.est, f.menu.Product.ID))
	require.NoError(t, f.svc.DeleteCategory(ctx, catID))

	_, err = f.svc.GetCategory(ctx, catID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteCategory(ctx, catID), ErrNotFound)
}

func TestCategoryNames(t *testing.T) {
	t.Parallel()
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
	}{
		{"too short", "B"},
		{"duplicate ignores case", "bebidas"},
		{"blank after trim", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateCategory(ctx, transport.CategoryRequest{Name: tt.in})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestOptionGroupRules(t *testing.T) {
	t.Parallel()
	f := newCatalogFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     transport.OptionGroupRequest
		wantErr bool
	}{
		{"valid", transport.OptionGroupRequest{Name: "Molhos", MinSelections: 0, MaxSelections: 2}, false},
		{"min equals max", transport.OptionGroupRequest{Name: "Borda", MinSelections: 1, MaxSelections: 1}, false},
		{"negative min", transport.OptionGroupRequest{Name: "Tamanho", MinSelections: -1, MaxSelections: 1}, true},
		{"max below min", transport.OptionGroupRequest{Name: "Sabores", MinSelections: 3, MaxSelections: 2}, true},
		{"name taken", transport.OptionGroupRequest{Name: "extras", MaxSelections: 1}, true},
		{"name required", transport.OptionGroupRequest{Name: " ", MaxSelections: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := f.svc.CreateOptionGroup(ctx, f.est, tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, f.est.ID, g.EstablishmentID)
		})
	}

	// Group names are unique per establishment only.
	other := mustUser(t, f.repo, "sushi", models.RoleEstablishment)
	_, err := f.svc.CreateOptionGroup(ctx, other, transport.OptionGroupRequest{Name: "Extras", MaxSelections: 1})
	assert.NoError(t, err)
}

func TestUpdateOptionGroupKeepsOwnName(t *testing.T) {
	t.Parallel()
	f := newCatalogFixture(t)
	ctx := context.Background()

	g, err := f.svc.UpdateOptionGroup(ctx, f.est, f.menu.Bacon.GroupID,
		transport.OptionGroupRequest{Name: "Extras", MinSelections: 1, MaxSelections: 2, IsRequired: true})
	require.NoError(t, err)
	assert.Equal(t, 1, g.MinSelections)
	assert.True(t, g.IsRequired)

	_, err = f.svc.UpdateOptionGroup(ctx, f.est, f.menu.Bacon.GroupID,
		transport.OptionGroupRequest{Name: "Extras", MinSelections: 2, MaxSelections: 1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteOptionGroupRefusedWhileOptionsExist(t *testing.T) {
	t.Parallel()
	f := newCatalogFixture(t)
	ctx := context.Background()
	groupID := f.menu.Bacon.GroupID

	stranger := mustUser(t, f.repo, "sushi", models.RoleEstablishment)
	require.ErrorIs(t, f.svc.DeleteOptionGroup(ctx, stranger, groupID), ErrNotFound)

	require.ErrorIs(t, f.svc.DeleteOptionGroup(ctx, f.est, groupID), ErrValidation)
	_, err := f.svc.GetOptionGroup(ctx, groupID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteOption(ctx, f.est, f.menu.Bacon.ID))
	require.NoError(t, f.svc.DeleteOption(ctx, f.est, f.menu.Cheese.ID))
	require.NoError(t, f.svc.DeleteOptionGroup(ctx, f.est, groupID))

	_, err = f.svc.GetOptionGroup(ctx, groupID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOptionRules(t *testing.T) {
	t.Parallel()
	f := newCatalogFixture(t)
	ctx := context.Background()
	groupID := f.menu.Bacon.GroupID

	molhos, err := f.svc.CreateOptionGroup(ctx, f.est, transport.OptionGroupRequest{Name: "Molhos", MaxSelections: 2})
	require.NoError(t, err)
	stranger := mustUser(t, f.repo, "sushi", models.RoleEstablishment)
	foreign, err := f.svc.CreateOptionGroup(ctx, stranger, transport.OptionGroupRequest{Name: "Molhos", MaxSelections: 2})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     transport.OptionRequest
		wantErr bool
	}{
		{"valid", transport.OptionRequest{GroupID: groupID, Name: "Cheddar", AdditionalPrice: 2.5}, false},
		{"free option", transport.OptionRequest{GroupID: groupID, Name: "Cebola", AdditionalPrice: 0}, false},
		{"negative price", transport.OptionRequest{GroupID: groupID, Name: "Ovo", AdditionalPrice: -0.5}, true},
		{"name taken in group", transport.OptionRequest{GroupID: groupID, Name: "bacon", AdditionalPrice: 1}, true},
		{"same name in another group", transport.OptionRequest{GroupID: molhos.ID, Name: "Bacon", AdditionalPrice: 1}, false},
		{"unknown group", transport.OptionRequest{GroupID: 9999, Name: "Alho", AdditionalPrice: 1}, true},
		{"group of another establishment", transport.OptionRequest{GroupID: foreign.ID, Name: "Alho", AdditionalPrice: 1}, true},
		{"name required", transport.OptionRequest{GroupID: groupID, Name: "", AdditionalPrice: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := f.svc.CreateOption(ctx, f.est, tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, o.IsAvailable)
			assert.InDelta(t, tt.req.AdditionalPrice, o.AdditionalPrice, 0.001)
		})
	}
}

func TestUpdateOptionChecksNameAndOwner(t *testing.T) {
	t.Parallel()
	f := newCatalogFixture(t)
	ctx := context.Background()
	groupID := f.menu.Bacon.GroupID
	off := false

	o, err := f.svc.UpdateOption(ctx, f.est, f.menu.Bacon.ID,
		transport.OptionRequest{GroupID: groupID, Name: "Bacon", AdditionalPrice: 3, IsAvailable: &off})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, o.AdditionalPrice, 0.001)
	assert.False(t, o.IsAvailable)

	_, err = f.svc.UpdateOption(ctx, f.est, f.menu.Bacon.ID,
		transport.OptionRequest{GroupID: groupID, Name: "Queijo", AdditionalPrice: 3})
	assert.ErrorIs(t, err, ErrValidation)

	stranger := mustUser(t, f.repo, "sushi", models.RoleEstablishment)
	_, err = f.svc.UpdateOption(ctx, stranger, f.menu.Bacon.ID,
		transport.OptionRequest{GroupID: groupID, Name: "Bacon", AdditionalPrice: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}
