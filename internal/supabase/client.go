package supabase

import (
	"errors"

	"github.com/supabase-community/supabase-go"

	"designhub-backend/internal/config"
)

var ErrNotConfigured = errors.New("supabase url and key not configured")

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

// NewClient returns ErrNotConfigured when the URL or key is missing or
// still a placeholder.
func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.SupabaseConfigured() {
		return nil, ErrNotConfigured
	}

	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}
