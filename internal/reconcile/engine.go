// Package reconcile republishes the authoritative order collection.
//
// A run fetches orders from the remote adapter when it is available and
// from the local cache otherwise (or when the remote call fails), sorts
// them newest first, publishes them to the state holder and writes remote
// results back to the cache. Local mutations publish through Apply. A
// publish reports a new order when the collection grew and the previous
// publish was non-empty.
//
// Remote fetches are not serialized. Two overlapping remote runs both
// publish and the last one wins.
package reconcile

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"designhub-backend/internal/cache"
	"designhub-backend/internal/changefeed"
	"designhub-backend/internal/models"
	"designhub-backend/internal/remote"
	"designhub-backend/internal/state"
)

type Trigger string

const (
	TriggerInitial    Trigger = "initial"
	TriggerManual     Trigger = "manual"
	TriggerChangeFeed Trigger = "change_feed"
)

const (
	SourceRemote = "remote"
	SourceCache  = "cache"
)

// Notifier receives the events of every publish. NotifyOrdersChanged is
// called after the snapshot has been replaced.
type Notifier interface {
	NotifyOrdersChanged()
	NotifyNewOrder(order models.Order)
}

type Result struct {
	Orders   []models.Order
	Source   string
	NewOrder *models.Order
	Warnings []string
}

type Engine struct {
	remote   *remote.Adapter
	cache    *cache.Store
	state    *state.Holder
	notifier Notifier
	tracer   trace.Tracer

	mu       sync.Mutex
	prevSize int
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

func NewEngine(adapter *remote.Adapter, store *cache.Store, holder *state.Holder, opts ...Option) *Engine {
	e := &Engine{
		remote: adapter,
		cache:  store,
		state:  holder,
		tracer: otel.Tracer("designhub-backend/internal/reconcile"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile performs one run. It only fails when no source could be read.
func (e *Engine) Reconcile(ctx context.Context, trigger Trigger) (Result, error) {
	ctx, span := e.tracer.Start(ctx, "reconcile.run",
		trace.WithAttributes(attribute.String("reconcile.trigger", string(trigger))))
	defer span.End()

	var res Result
	orders, fromRemote := e.fetchRemote(ctx, &res)
	source := SourceRemote

	// Cache-sourced runs read and publish under the lock local mutations
	// hold, so a persisted mutation is never published over.
	e.mu.Lock()
	if !fromRemote {
		cached, _, err := e.cache.Orders(ctx)
		if err != nil {
			e.mu.Unlock()
			err = fmt.Errorf("failed to read cached orders: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Result{}, err
		}
		orders, source = cached, SourceCache
	}

	models.SortOrdersNewestFirst(orders)
	if orders == nil {
		orders = []models.Order{}
	}
	res.Orders = orders
	res.Source = source
	res.NewOrder = e.publishLocked(orders)

	if source == SourceRemote {
		if err := e.cache.SetOrders(ctx, orders); err != nil {
			log.Printf("Warning: failed to write orders to local cache: %v", err)
			res.Warnings = append(res.Warnings, "Orders could not be saved to local storage.")
		}
	}
	e.mu.Unlock()

	e.notify(res.NewOrder)

	span.SetAttributes(
		attribute.String("reconcile.source", source),
		attribute.Int("reconcile.count", len(orders)),
		attribute.Bool("reconcile.new_order", res.NewOrder != nil),
	)
	return res, nil
}

// Apply publishes a local mutation. mutate receives the current snapshot and
// returns the collection to publish; it is responsible for persisting it.
// When mutate fails the snapshot is left unchanged. Growth is reported as a
// new order by the same rule a run uses, and the published size becomes the
// baseline for the next run.
func (e *Engine) Apply(mutate func(orders []models.Order) ([]models.Order, error)) error {
	e.mu.Lock()
	orders, err := mutate(e.state.Orders())
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	newOrder := e.publishLocked(orders)
	e.mu.Unlock()

	e.notify(newOrder)
	return nil
}

// publishLocked replaces the snapshot and returns the newest order when the
// collection grew from a non-empty one. e.mu must be held.
func (e *Engine) publishLocked(orders []models.Order) *models.Order {
	var newOrder *models.Order
	if len(orders) > e.prevSize && e.prevSize != 0 {
		newest := orders[0]
		newOrder = &newest
	}
	e.prevSize = len(orders)
	e.state.SetOrders(orders)
	return newOrder
}

func (e *Engine) notify(newOrder *models.Order) {
	if e.notifier == nil {
		return
	}
	e.notifier.NotifyOrdersChanged()
	if newOrder != nil {
		e.notifier.NotifyNewOrder(*newOrder)
	}
}

func (e *Engine) fetchRemote(ctx context.Context, res *Result) ([]models.Order, bool) {
	if !e.remote.Available() {
		return nil, false
	}
	orders, err := e.remote.ListOrders(ctx)
	if err != nil {
		log.Printf("Warning: remote fetch failed, using local cache: %v", err)
		res.Warnings = append(res.Warnings, "Could not reach the order database. Showing locally saved orders.")
		return nil, false
	}
	return orders, true
}

// Listen runs the engine on every feed signal until the returned
// subscription is removed from feed.
func (e *Engine) Listen(ctx context.Context, feed *changefeed.Feed) *changefeed.Subscription {
	return feed.Subscribe(func() {
		if _, err := e.Reconcile(ctx, TriggerChangeFeed); err != nil {
			log.Printf("Warning: change feed reconcile failed: %v", err)
		}
	})
}
