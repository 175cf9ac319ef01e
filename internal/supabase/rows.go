package supabase

import (
	"strings"

	"designhub-backend/internal/models"
)

const OrdersTable = "orders"

// OrderColumns lists the orders columns in OrderRow field order. Both
// drivers select and insert in this order; ListOrders scans positionally.
var OrderColumns = []string{
	"id",
	"client_name",
	"email",
	"whatsapp",
	"phone",
	"project_type",
	"details",
	"file_url",
	"status",
	"created_at",
}

func orderColumnList() string {
	return strings.Join(OrderColumns, ",")
}

// OrderRow is one orders row. Every column but id is nullable.
type OrderRow struct {
	ID          string  `json:"id"`
	ClientName  *string `json:"client_name"`
	Email       *string `json:"email"`
	WhatsApp    *string `json:"whatsapp"`
	Phone       *string `json:"phone"`
	ProjectType *string `json:"project_type"`
	Details     *string `json:"details"`
	FileURL     *string `json:"file_url"`
	Status      *string `json:"status"`
	CreatedAt   *int64  `json:"created_at"`
}

// ToOrder maps a row to the domain shape. NULL text becomes "", a NULL or
// unknown status becomes Pending and a NULL created_at becomes 0.
func (r OrderRow) ToOrder() models.Order {
	o := models.Order{
		ID:          r.ID,
		ClientName:  deref(r.ClientName),
		Email:       deref(r.Email),
		WhatsApp:    deref(r.WhatsApp),
		Phone:       deref(r.Phone),
		ProjectType: deref(r.ProjectType),
		Details:     deref(r.Details),
		FileURL:     deref(r.FileURL),
		Status:      models.StatusPending,
	}
	if st, err := models.ParseStatus(deref(r.Status)); err == nil {
		o.Status = st
	}
	if r.CreatedAt != nil {
		o.CreatedAt = *r.CreatedAt
	}
	return o
}

// OrderRowFrom maps an order to a row; empty optional fields are stored as NULL.
func OrderRowFrom(o models.Order) OrderRow {
	status := string(o.Status)
	if status == "" {
		status = string(models.StatusPending)
	}
	createdAt := o.CreatedAt
	return OrderRow{
		ID:          o.ID,
		ClientName:  ptr(o.ClientName),
		Email:       ptr(o.Email),
		WhatsApp:    ptr(o.WhatsApp),
		Phone:       optional(o.Phone),
		ProjectType: ptr(o.ProjectType),
		Details:     ptr(o.Details),
		FileURL:     optional(o.FileURL),
		Status:      &status,
		CreatedAt:   &createdAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
