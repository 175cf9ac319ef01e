package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"designhub-backend/internal/models"
)

// OrderTable reads and writes the orders table through PostgREST.
type OrderTable struct {
	client *supabase.Client
}

func NewOrderTable(client *supabase.Client) *OrderTable {
	return &OrderTable{client: client}
}

// ListOrders returns orders newest first. The postgrest client has no
// context support; ctx is accepted to satisfy remote.OrderStore.
func (t *OrderTable) ListOrders(_ context.Context) ([]models.Order, error) {
	var rows []OrderRow
	_, err := t.client.From(OrdersTable).
		Select(orderColumnList(), "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]models.Order, len(rows))
	for i, r := range rows {
		orders[i] = r.ToOrder()
	}
	return orders, nil
}

func (t *OrderTable) InsertOrder(_ context.Context, order models.Order) error {
	_, _, err := t.client.From(OrdersTable).
		Insert([]OrderRow{OrderRowFrom(order)}, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (t *OrderTable) UpdateOrderStatus(_ context.Context, id string, status models.Status) error {
	_, _, err := t.client.From(OrdersTable).
		Update(map[string]string{"status": string(status)}, "minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

func (t *OrderTable) DeleteOrder(_ context.Context, id string) error {
	_, _, err := t.client.From(OrdersTable).
		Delete("minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}
