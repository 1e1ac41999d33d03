package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amstore/ams-go/internal/model"
	"github.com/amstore/ams-go/internal/session"
	"github.com/amstore/ams-go/internal/store"
	"github.com/amstore/ams-go/internal/testutil"
)

// testManager builds a seeded manager plus a context carrying a fresh session.
func testManager(t *testing.T) (*Manager, context.Context) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	st := store.New(db)
	require.NoError(t, st.Seed(context.Background()))

	sm := session.New(db, true)
	m := NewManager(st, sm)
	require.NoError(t, m.Init(context.Background()))

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	return m, ctx
}

func TestSettingsSnapshot(t *testing.T) {
	m, ctx := testManager(t)

	assert.Equal(t, store.DefaultSettings().SiteName, m.Settings().SiteName)

	updated := store.DefaultSettings()
	updated.SiteName = "Renamed"
	require.NoError(t, m.Store().SaveSettings(ctx, updated))

	// The snapshot is stale until RefreshSettings runs.
	assert.Equal(t, store.DefaultSettings().SiteName, m.Settings().SiteName)

	var notified []string
	m.Subscribe(func(s model.SiteSettings) {
		notified = append(notified, s.SiteName)
	})

	require.NoError(t, m.RefreshSettings(ctx))
	assert.Equal(t, "Renamed", m.Settings().SiteName)
	assert.Equal(t, []string{"Renamed"}, notified)
}

func TestLoginLogout(t *testing.T) {
	m, ctx := testManager(t)

	_, ok, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh session should be anonymous")

	admin, ok, err := m.Store().FindUserByEmail(ctx, store.DefaultAdminEmail)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, m.Login(ctx, admin))

	current, ok, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, admin.ID, current.ID)
	assert.True(t, current.RequiresPasswordChange)

	require.NoError(t, m.Logout(ctx))

	_, ok, err = m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "session should be anonymous after logout")
}

func TestCurrentUserStaleID(t *testing.T) {
	m, ctx := testManager(t)

	m.Sessions().Put(ctx, sessionKeyUserID, "gone-user")

	_, ok, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "stale user id should resolve to anonymous")
}

func TestCartAddIncrementsQuantity(t *testing.T) {
	m, ctx := testManager(t)

	p1, _, err := m.Store().FindProductByID(ctx, "p1")
	require.NoError(t, err)
	p2, _, err := m.Store().FindProductByID(ctx, "p2")
	require.NoError(t, err)

	require.NoError(t, m.AddToCart(ctx, p1))
	require.NoError(t, m.AddToCart(ctx, p2))
	require.NoError(t, m.AddToCart(ctx, p1))

	items, err := m.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2, "same product must merge into one line")

	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "p2", items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)

	assert.Equal(t, 3, CartCount(items))
	// p1 at 699 twice plus p2 at its 129 sale price.
	assert.InDelta(t, 699*2+129, CartTotal(items), 0.001)
}

func TestCartRemoveDropsWholeLine(t *testing.T) {
	m, ctx := testManager(t)

	p1, _, err := m.Store().FindProductByID(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, m.AddToCart(ctx, p1))
	require.NoError(t, m.AddToCart(ctx, p1))
	require.NoError(t, m.RemoveFromCart(ctx, "p1"))

	items, err := m.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "remove drops the line regardless of quantity")

	// Removing an id that is not in the cart is a no-op.
	require.NoError(t, m.RemoveFromCart(ctx, "p1"))
}

func TestClearCart(t *testing.T) {
	m, ctx := testManager(t)

	p1, _, err := m.Store().FindProductByID(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, m.AddToCart(ctx, p1))
	require.NoError(t, m.ClearCart(ctx))

	items, err := m.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartMalformedPayload(t *testing.T) {
	m, ctx := testManager(t)

	m.Sessions().Put(ctx, sessionKeyCart, []byte("{broken"))

	_, err := m.Cart(ctx)
	assert.Error(t, err, "malformed cart payload must fail loudly")
}
