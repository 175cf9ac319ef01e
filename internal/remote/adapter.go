// Package remote is the single entry point to the hosted order table. An
// Adapter is built once at startup, with or without a backing store; when
// it has none every call fails with ErrUnavailable and callers fall back to
// the local cache.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"designhub-backend/internal/models"
)

var ErrUnavailable = errors.New("remote store not configured")

// OrderStore is a row-store holding the orders table.
type OrderStore interface {
	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]models.Order, error)
	InsertOrder(ctx context.Context, order models.Order) error
	UpdateOrderStatus(ctx context.Context, id string, status models.Status) error
	DeleteOrder(ctx context.Context, id string) error
}

type Adapter struct {
	store       OrderStore
	name        string
	maxRetries  int
	baseBackoff time.Duration
}

type Option func(*Adapter)

// WithRetry sets the attempts and first backoff used for writes.
func WithRetry(maxRetries int, baseBackoff time.Duration) Option {
	return func(a *Adapter) {
		a.maxRetries = maxRetries
		a.baseBackoff = baseBackoff
	}
}

// NewAdapter wraps store; a nil store yields an unavailable adapter.
func NewAdapter(store OrderStore, name string, opts ...Option) *Adapter {
	a := &Adapter{
		store:       store,
		name:        name,
		maxRetries:  3,
		baseBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Unavailable is the adapter used when no remote store was configured.
func Unavailable() *Adapter {
	return NewAdapter(nil, "local")
}

// Available is fixed for the adapter's lifetime.
func (a *Adapter) Available() bool {
	return a != nil && a.store != nil
}

// Name identifies the backing driver, "local" when unavailable.
func (a *Adapter) Name() string {
	if !a.Available() {
		return "local"
	}
	return a.name
}

func (a *Adapter) ListOrders(ctx context.Context) ([]models.Order, error) {
	if !a.Available() {
		return nil, ErrUnavailable
	}
	orders, err := a.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote orders: %w", err)
	}
	return orders, nil
}

func (a *Adapter) InsertOrder(ctx context.Context, order models.Order) error {
	if !a.Available() {
		return ErrUnavailable
	}
	return a.retry(ctx, "insert order", func() error {
		return a.store.InsertOrder(ctx, order)
	})
}

func (a *Adapter) UpdateOrderStatus(ctx context.Context, id string, status models.Status) error {
	if !a.Available() {
		return ErrUnavailable
	}
	return a.retry(ctx, "update order status", func() error {
		return a.store.UpdateOrderStatus(ctx, id, status)
	})
}

func (a *Adapter) DeleteOrder(ctx context.Context, id string) error {
	if !a.Available() {
		return ErrUnavailable
	}
	return a.retry(ctx, "delete order", func() error {
		return a.store.DeleteOrder(ctx, id)
	})
}

func (a *Adapter) retry(ctx context.Context, op string, fn func() error) error {
	if err := RetryWithBackoff(ctx, fn, a.maxRetries, a.baseBackoff); err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return nil
}
