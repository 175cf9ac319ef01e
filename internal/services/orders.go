package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"designhub-backend/internal/cache"
	"designhub-backend/internal/models"
	"designhub-backend/internal/remote"
	"designhub-backend/internal/state"
)

var ErrOrderNotFound = errors.New("order not found")

const (
	WarningSyncFailed       = "Sync error. Saving locally instead."
	WarningUploadFailed     = "Attachment upload failed. The file name was recorded instead."
	WarningLocalSaveFailed  = "The order was sent but could not be saved to local storage."
	WarningAttachmentRemove = "Attachment files could not be removed from storage."

	// LocalFilePrefix marks an attachment that was never uploaded.
	LocalFilePrefix = "local://"

	recentOrdersLimit = 5
)

// Attachment is a file sent with an order.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AttachmentStore is implemented by supabase.StorageClient.
type AttachmentStore interface {
	UploadAttachment(orderID, filename, contentType string, data []byte) (string, string, error)
	DeleteOrderAttachments(orderID string) error
}

// OrderPublisher serializes local order mutations with reconciliation runs.
// It is implemented by reconcile.Engine.
type OrderPublisher interface {
	Apply(mutate func(orders []models.Order) ([]models.Order, error)) error
}

// OrderService applies order mutations to the remote store first and then to
// the local snapshot and cache. Remote failures become warnings.
type OrderService struct {
	remote      *remote.Adapter
	cache       *cache.Store
	state       *state.Holder
	publisher   OrderPublisher
	attachments AttachmentStore

	now   func() time.Time
	newID func() string
}

// NewOrderService builds the service; attachments may be nil.
func NewOrderService(adapter *remote.Adapter, store *cache.Store, holder *state.Holder, publisher OrderPublisher, attachments AttachmentStore) *OrderService {
	return &OrderService{
		remote:      adapter,
		cache:       store,
		state:       holder,
		publisher:   publisher,
		attachments: attachments,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *OrderService) List() []models.Order {
	return s.state.Orders()
}

// Submit validates form and records a new Pending order.
func (s *OrderService) Submit(ctx context.Context, form models.OrderForm, att *Attachment) (models.Order, []string, error) {
	if err := form.Validate(); err != nil {
		return models.Order{}, nil, err
	}

	order := models.Order{
		ID:          s.newID(),
		ClientName:  strings.TrimSpace(form.Name),
		Email:       strings.TrimSpace(form.Email),
		WhatsApp:    strings.TrimSpace(form.WhatsApp),
		Phone:       strings.TrimSpace(form.Phone),
		ProjectType: models.ProjectType(form.Category, form.Subcategory),
		Details:     strings.TrimSpace(form.Details),
		Status:      models.StatusPending,
		CreatedAt:   s.now().UnixMilli(),
	}

	var warnings []string
	if att != nil && att.Filename != "" {
		order.FileURL = LocalFilePrefix + att.Filename
		if s.attachments != nil {
			_, url, err := s.attachments.UploadAttachment(order.ID, att.Filename, att.ContentType, att.Data)
			if err != nil {
				log.Printf("Warning: attachment upload failed for order %s: %v", order.ID, err)
				warnings = append(warnings, WarningUploadFailed)
			} else {
				order.FileURL = url
			}
		}
	}

	synced := false
	if s.remote.Available() {
		if err := s.remote.InsertOrder(ctx, order); err != nil {
			log.Printf("Warning: failed to insert order %s remotely: %v", order.ID, err)
			warnings = append(warnings, WarningSyncFailed)
		} else {
			synced = true
		}
	}

	err := s.publisher.Apply(func(current []models.Order) ([]models.Order, error) {
		// A run triggered by the remote insert may already hold the order.
		if i := indexOf(current, order.ID); i >= 0 {
			current = append(current[:i], current[i+1:]...)
		}
		orders := append([]models.Order{order}, current...)
		if err := s.cache.SetOrders(ctx, orders); err != nil {
			if !synced {
				return nil, err
			}
			log.Printf("Warning: failed to cache order %s: %v", order.ID, err)
			warnings = append(warnings, WarningLocalSaveFailed)
		}
		return orders, nil
	})
	if err != nil {
		return models.Order{}, warnings, err
	}

	return order, warnings, nil
}

// UpdateStatus moves an order to status. Every transition is allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Order, []string, error) {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return models.Order{}, nil, err
	}
	if _, ok := s.find(id); !ok {
		return models.Order{}, nil, ErrOrderNotFound
	}

	var warnings []string
	if s.remote.Available() {
		if err := s.remote.UpdateOrderStatus(ctx, id, status); err != nil {
			log.Printf("Warning: failed to update order %s remotely: %v", id, err)
			warnings = append(warnings, WarningSyncFailed)
		}
	}

	var updated models.Order
	err := s.publisher.Apply(func(orders []models.Order) ([]models.Order, error) {
		idx := indexOf(orders, id)
		if idx < 0 {
			return nil, ErrOrderNotFound
		}
		orders[idx].Status = status
		if err := s.cache.SetOrders(ctx, orders); err != nil {
			return nil, err
		}
		updated = orders[idx]
		return orders, nil
	})
	if err != nil {
		return models.Order{}, warnings, err
	}

	return updated, warnings, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) ([]string, error) {
	existing, ok := s.find(id)
	if !ok {
		return nil, ErrOrderNotFound
	}

	var warnings []string
	if s.remote.Available() {
		if err := s.remote.DeleteOrder(ctx, id); err != nil {
			log.Printf("Warning: failed to delete order %s remotely: %v", id, err)
			warnings = append(warnings, WarningSyncFailed)
		}
	}
	if s.attachments != nil && existing.FileURL != "" && !strings.HasPrefix(existing.FileURL, LocalFilePrefix) {
		if err := s.attachments.DeleteOrderAttachments(id); err != nil {
			log.Printf("Warning: failed to remove attachments of order %s: %v", id, err)
			warnings = append(warnings, WarningAttachmentRemove)
		}
	}

	err := s.publisher.Apply(func(orders []models.Order) ([]models.Order, error) {
		idx := indexOf(orders, id)
		if idx < 0 {
			return nil, ErrOrderNotFound
		}
		orders = append(orders[:idx], orders[idx+1:]...)
		if err := s.cache.SetOrders(ctx, orders); err != nil {
			return nil, err
		}
		return orders, nil
	})
	return warnings, err
}

// Stats summarises the current snapshot for the admin dashboard.
func (s *OrderService) Stats() models.StatsResponse {
	orders := s.state.Orders()
	stats := models.StatsResponse{
		TotalProjects: len(s.state.Projects()),
		TotalOrders:   len(orders),
	}
	for _, o := range orders {
		switch o.Status {
		case models.StatusPending:
			stats.PendingOrders++
		case models.StatusInProgress:
			stats.InProgressOrders++
		case models.StatusCompleted:
			stats.CompletedOrders++
		}
	}
	n := min(len(orders), recentOrdersLimit)
	stats.RecentOrders = orders[:n]
	return stats
}

func (s *OrderService) find(id string) (models.Order, bool) {
	orders := s.state.Orders()
	if i := indexOf(orders, id); i >= 0 {
		return orders[i], true
	}
	return models.Order{}, false
}

func indexOf(orders []models.Order, id string) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
