// Package cache is the typed local cache: JSON collections of projects and
// orders plus the admin-authenticated flag, kept in a localstore.Store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"designhub-backend/internal/localstore"
	"designhub-backend/internal/models"
)

const (
	ProjectsKey  = "designhub_projects"
	OrdersKey    = "designhub_orders"
	AdminAuthKey = "designhub_admin_auth"
)

// ErrSaveFailed wraps any failed write; the stored value is unchanged.
var ErrSaveFailed = errors.New("failed to save. The image might be too large or storage is full")

type Store struct {
	blobs localstore.Store
}

func New(blobs localstore.Store) *Store {
	return &Store{blobs: blobs}
}

// Get decodes the JSON value under key into dst. It reports false when the
// key is absent or holds malformed JSON; malformed data is logged, not returned.
func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.blobs.Get(ctx, key)
	if errors.Is(err, localstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("Warning: failed to parse cached %s, treating as empty: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.blobs.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.blobs.Remove(ctx, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Projects returns the cached portfolio and whether one was stored.
func (s *Store) Projects(ctx context.Context) ([]models.Project, bool, error) {
	var projects []models.Project
	ok, err := s.Get(ctx, ProjectsKey, &projects)
	return projects, ok, err
}

func (s *Store) SetProjects(ctx context.Context, projects []models.Project) error {
	if projects == nil {
		projects = []models.Project{}
	}
	return s.Set(ctx, ProjectsKey, projects)
}

func (s *Store) Orders(ctx context.Context) ([]models.Order, bool, error) {
	var orders []models.Order
	ok, err := s.Get(ctx, OrdersKey, &orders)
	return orders, ok, err
}

func (s *Store) SetOrders(ctx context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	return s.Set(ctx, OrdersKey, orders)
}

// AdminAuthenticated reports whether the admin flag is set to "true".
// The flag is stored as a plain string, not JSON.
func (s *Store) AdminAuthenticated(ctx context.Context) (bool, error) {
	data, err := s.blobs.Get(ctx, AdminAuthKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", AdminAuthKey, err)
	}
	return string(data) == "true", nil
}

func (s *Store) SetAdminAuthenticated(ctx context.Context) error {
	if err := s.blobs.Set(ctx, AdminAuthKey, []byte("true")); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

func (s *Store) ClearAdminAuthenticated(ctx context.Context) error {
	return s.Remove(ctx, AdminAuthKey)
}
