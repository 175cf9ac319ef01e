package models

import (
	"fmt"
	"sort"
	"strings"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every order status in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus accepts only the three canonical status labels.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", s)}
}

type Order struct {
	ID          string `json:"id"`
	ClientName  string `json:"clientName"`
	Email       string `json:"email"`
	WhatsApp    string `json:"whatsapp"`
	Phone       string `json:"phone,omitempty"`
	ProjectType string `json:"projectType"`
	Details     string `json:"details"`
	FileURL     string `json:"fileUrl,omitempty"`
	Status      Status `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
}

// SortOrdersNewestFirst orders by CreatedAt descending, keeping the relative
// order of equal timestamps.
func SortOrdersNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
}

// OrderForm is the public order-intake submission.
type OrderForm struct {
	Name        string      `json:"name" form:"name"`
	Email       string      `json:"email" form:"email"`
	WhatsApp    string      `json:"whatsapp" form:"whatsapp"`
	Phone       string      `json:"phone" form:"phone"`
	Category    Category    `json:"category" form:"category"`
	Subcategory SubCategory `json:"subcategory" form:"subcategory"`
	Details     string      `json:"details" form:"details"`
}

// Validate rejects missing required fields and a subcategory outside its category.
func (f *OrderForm) Validate() error {
	required := []struct {
		field, value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"whatsapp", f.WhatsApp},
		{"details", f.Details},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: r.field + " is required"}
		}
	}
	if !looksLikeEmail(f.Email) {
		return &ValidationError{Field: "email", Message: "email address is invalid"}
	}
	return ValidateClassification(f.Category, f.Subcategory)
}

func looksLikeEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	if at < 1 || at == len(s)-1 {
		return false
	}
	return strings.Contains(s[at+1:], ".") && !strings.ContainsAny(s, " \t\n")
}
