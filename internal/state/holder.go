// Package state holds the in-memory snapshot the API serves from.
package state

import (
	"sync"

	"designhub-backend/internal/models"
)

type Holder struct {
	mu              sync.RWMutex
	projects        []models.Project
	orders          []models.Order
	projectsVersion uint64
	ordersVersion   uint64
}

func NewHolder() *Holder {
	return &Holder{}
}

// Projects returns a copy of the current projects.
func (h *Holder) Projects() []models.Project {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.Project(nil), h.projects...)
}

// Orders returns a copy of the current orders, newest first.
func (h *Holder) Orders() []models.Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.Order(nil), h.orders...)
}

func (h *Holder) SetProjects(projects []models.Project) {
	cp := append([]models.Project(nil), projects...)
	h.mu.Lock()
	h.projects = cp
	h.projectsVersion++
	h.mu.Unlock()
}

func (h *Holder) SetOrders(orders []models.Order) {
	cp := append([]models.Order(nil), orders...)
	h.mu.Lock()
	h.orders = cp
	h.ordersVersion++
	h.mu.Unlock()
}

// Version reports how many times each collection was replaced.
func (h *Holder) Version() (projects, orders uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.projectsVersion, h.ordersVersion
}
