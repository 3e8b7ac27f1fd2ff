// Package checkout coordinates order submission for the storefront: it
// turns the cart's lines into an order request and reconciles local state
// with the outcome.
package checkout

import (
	"context"

	"omniorder/internal/api"
	"omniorder/internal/cart"
	"omniorder/internal/models"
)

// OrderPlacer is the single backend call checkout depends on.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req api.PlaceOrderRequest) (*models.Order, error)
}

// Submit places the cart's contents as an order for the named customer.
// On success the cart is emptied and the returned order id is recorded as
// the active order. On any failure, rate limit included, the cart and the
// active-order reference are left untouched so the customer can retry.
func Submit(ctx context.Context, placer OrderPlacer, cartStore *cart.Store, customerName, tableNumber string) (*models.Order, error) {
	req := api.PlaceOrderRequest{
		CustomerName: customerName,
		TableNumber:  tableNumber,
	}
	for _, line := range cartStore.Lines() {
		mods := make([]api.PlaceOrderModifier, 0, len(line.Modifiers))
		for _, mod := range line.Modifiers {
			mods = append(mods, api.PlaceOrderModifier{OptionID: mod.OptionID})
		}
		req.Items = append(req.Items, api.PlaceOrderItem{
			ID:        line.ItemID,
			Qty:       line.Qty,
			Modifiers: mods,
			Notes:     line.Notes,
		})
	}

	order, err := placer.PlaceOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	cartStore.Clear()
	cartStore.SetActiveOrderID(order.ID)
	return order, nil
}
