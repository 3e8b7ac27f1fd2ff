package devserver

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniorder/internal/api"
	"omniorder/internal/models"
)

const testSecret = "dev-secret"

// newTestServer stands up a seeded dev backend and a typed client bound to
// it with a valid demo token.
func newTestServer(t *testing.T) (*api.Client, *Server) {
	t.Helper()

	store, err := OpenStore(filepath.Join(t.TempDir(), "dev.db"))
	require.NoError(t, err)
	require.NoError(t, store.SeedDemo())

	srv := NewServer(store, testSecret, t.TempDir())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL)
	session, err := client.GenerateDemoSession(context.Background())
	require.NoError(t, err)
	client.SetTokenSource(func() string { return session.AccessToken })

	return client, srv
}

func menuItem(t *testing.T, client *api.Client, name string) models.MenuItem {
	t.Helper()
	menu, err := client.GetMenu(context.Background())
	require.NoError(t, err)
	for _, cat := range menu {
		for _, item := range cat.Items {
			if item.Name == name {
				return item
			}
		}
	}
	t.Fatalf("menu item %q not seeded", name)
	return models.MenuItem{}
}

func TestStoreConfigServesBranding(t *testing.T) {
	client, _ := newTestServer(t)

	cfg, err := client.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OmniOrder Demo Kitchen", cfg.Name)
	assert.Equal(t, "mono-luxe", cfg.Preset)
}

func TestPlaceOrderResolvesMenuPricing(t *testing.T) {
	client, _ := newTestServer(t)
	burger := menuItem(t, client, "OmniBurger")

	order, err := client.PlaceOrder(context.Background(), api.PlaceOrderRequest{
		CustomerName: "Ada",
		TableNumber:  "4",
		Items: []api.PlaceOrderItem{{
			ID:        burger.ID,
			Qty:       2,
			Modifiers: []api.PlaceOrderModifier{{OptionID: "double"}},
			Notes:     "no onion",
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 1, order.TicketNumber)
	require.Len(t, order.Items, 1)
	require.Len(t, order.Items[0].Modifiers, 1)
	assert.Equal(t, "Double", order.Items[0].Modifiers[0].OptionName)
	assert.Equal(t, int64(300), order.Items[0].Modifiers[0].Price, "the server prices modifiers, not the client")

	fetched, err := client.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TicketNumber, fetched.TicketNumber)
}

func TestPlaceOrderRejectsUnknownItem(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.PlaceOrder(context.Background(), api.PlaceOrderRequest{
		CustomerName: "Ada",
		Items:        []api.PlaceOrderItem{{ID: "nope", Qty: 1}},
	})
	require.Error(t, err)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 400, statusErr.Code)
}

func TestPlaceOrderRateLimited(t *testing.T) {
	client, _ := newTestServer(t)
	fries := menuItem(t, client, "Truffle Fries")

	req := api.PlaceOrderRequest{
		CustomerName: "Ada",
		Items:        []api.PlaceOrderItem{{ID: fries.ID, Qty: 1}},
	}
	for i := 0; i < orderRateLimit; i++ {
		_, err := client.PlaceOrder(context.Background(), req)
		require.NoError(t, err)
	}

	_, err := client.PlaceOrder(context.Background(), req)
	assert.True(t, errors.Is(err, api.ErrRateLimited), "order past the window cap must map to ErrRateLimited, got %v", err)
}

func TestOrderLookupMissing(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.GetOrder(context.Background(), "missing")
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestKitchenStreamBroadcasts(t *testing.T) {
	client, _ := newTestServer(t)
	shake := menuItem(t, client, "Vanilla Shake")

	conn, _, err := websocket.DefaultDialer.Dial(client.KitchenSocketURL(), nil)
	require.NoError(t, err)
	defer conn.Close()

	order, err := client.PlaceOrder(context.Background(), api.PlaceOrderRequest{
		CustomerName: "Grace",
		Items:        []api.PlaceOrderItem{{ID: shake.ID, Qty: 1}},
	})
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev struct {
		Event string       `json:"event"`
		Order models.Order `json:"order"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "new_order", ev.Event)
	assert.Equal(t, order.ID, ev.Order.ID)

	require.NoError(t, client.UpdateOrderStatus(context.Background(), order.ID, models.StatusPreparing))

	var upd struct {
		Event string `json:"event"`
		Order struct {
			ID     string             `json:"id"`
			Status models.OrderStatus `json:"status"`
		} `json:"order"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&upd))
	assert.Equal(t, "order_update", upd.Event)
	assert.Equal(t, models.StatusPreparing, upd.Order.Status)
}

func TestKitchenSocketRequiresToken(t *testing.T) {
	client, _ := newTestServer(t)

	bad := api.NewClient(client.BaseURL)
	bad.SetTokenSource(func() string { return "garbage" })
	_, _, err := websocket.DefaultDialer.Dial(bad.KitchenSocketURL(), nil)
	assert.Error(t, err)
}

func TestCompletedOrdersLeaveActiveList(t *testing.T) {
	client, _ := newTestServer(t)
	fries := menuItem(t, client, "Truffle Fries")

	order, err := client.PlaceOrder(context.Background(), api.PlaceOrderRequest{
		CustomerName: "Ada",
		Items:        []api.PlaceOrderItem{{ID: fries.ID, Qty: 1}},
	})
	require.NoError(t, err)

	active, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, client.UpdateOrderStatus(context.Background(), order.ID, models.StatusCompleted))

	active, err = client.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAdminRequiresAuth(t *testing.T) {
	client, _ := newTestServer(t)

	anon := api.NewClient(client.BaseURL)
	anon.SetTokenSource(func() string { return "" })
	_, err := anon.ListCategories(context.Background())
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 401, statusErr.Code)
}

func TestAdminMenuBuilderRoundTrip(t *testing.T) {
	client, _ := newTestServer(t)

	cat, err := client.CreateCategory(context.Background(), api.CategoryRequest{Name: "Specials", Rank: 5})
	require.NoError(t, err)

	item, err := client.CreateItem(context.Background(), api.ItemRequest{
		Name:        "Daily Soup",
		Price:       700,
		IsAvailable: true,
		CategoryID:  cat.ID,
	})
	require.NoError(t, err)

	updated, err := client.UpdateItem(context.Background(), item.ID, api.ItemRequest{
		Name:        item.Name,
		Price:       750,
		IsAvailable: true,
		CategoryID:  cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(750), updated.Price)

	require.NoError(t, client.DeleteItem(context.Background(), item.ID))
	require.NoError(t, client.DeleteCategory(context.Background(), cat.ID))

	err = client.DeleteCategory(context.Background(), cat.ID)
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestReorderRewritesRanks(t *testing.T) {
	client, _ := newTestServer(t)

	cats, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)

	require.NoError(t, client.ReorderCategories(context.Background(), []string{cats[1].ID, cats[0].ID}))

	reordered, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cats[1].ID, reordered[0].ID)
}

func TestSettingsUpdateVisibleOnStorefront(t *testing.T) {
	client, _ := newTestServer(t)

	cfg, err := client.GetSettings(context.Background())
	require.NoError(t, err)

	cfg.Name = "Renamed Kitchen"
	cfg.Preset = "fresh-market"
	require.NoError(t, client.UpdateSettings(context.Background(), *cfg))

	public, err := client.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Renamed Kitchen", public.Name)
	assert.Equal(t, "fresh-market", public.Preset)
}

func TestProvisionCreatesTenant(t *testing.T) {
	client, _ := newTestServer(t)

	resp, err := client.Provision(context.Background(), api.ProvisionRequest{
		Name:   "Stelly's",
		Domain: "stellys.example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "tenant_stelly's", resp.SchemaName)

	_, err = client.Provision(context.Background(), api.ProvisionRequest{
		Name:   "Stelly's Again",
		Domain: "stellys.example.com",
	})
	assert.Error(t, err, "duplicate domain must be rejected")
}

func TestProvisionSeedsStarterMenu(t *testing.T) {
	client, srv := newTestServer(t)

	resp, err := client.Provision(context.Background(), api.ProvisionRequest{
		Name:     "Stelly's",
		Domain:   "stellys.example.com",
		SeedData: true,
	})
	require.NoError(t, err)

	var itemCount int64
	require.NoError(t, srv.store.db.Model(&itemRecord{}).Where("tenant_id = ?", resp.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(2), itemCount, "seed_data provisions a starter menu for the new tenant")

	var catCount int64
	require.NoError(t, srv.store.db.Model(&categoryRecord{}).Where("tenant_id = ?", resp.ID).Count(&catCount).Error)
	assert.Equal(t, int64(1), catCount)

	// The demo storefront never sees another tenant's rows.
	menu, err := client.GetMenu(context.Background())
	require.NoError(t, err)
	total := 0
	for _, cat := range menu {
		total += len(cat.Items)
	}
	assert.Equal(t, 3, total)

	// Without the flag the tenant starts empty.
	bare, err := client.Provision(context.Background(), api.ProvisionRequest{
		Name:   "Bare Bones",
		Domain: "bare.example.com",
	})
	require.NoError(t, err)
	require.NoError(t, srv.store.db.Model(&itemRecord{}).Where("tenant_id = ?", bare.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)
}

func TestResetDemoRestoresSeed(t *testing.T) {
	client, _ := newTestServer(t)
	fries := menuItem(t, client, "Truffle Fries")

	_, err := client.PlaceOrder(context.Background(), api.PlaceOrderRequest{
		CustomerName: "Ada",
		Items:        []api.PlaceOrderItem{{ID: fries.ID, Qty: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, client.ResetDemo(context.Background()))

	active, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	menu, err := client.GetMenu(context.Background())
	require.NoError(t, err)
	total := 0
	for _, cat := range menu {
		total += len(cat.Items)
	}
	assert.Equal(t, 3, total)
}
