package models

import "time"

type ProjectListResponse struct {
	Projects []Project `json:"projects"`
}

type ProjectResponse struct {
	Project  Project  `json:"project"`
	Warnings []string `json:"warnings,omitempty"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
}

type OrderResponse struct {
	Order    Order    `json:"order"`
	Warnings []string `json:"warnings,omitempty"`
}

type SyncResponse struct {
	Orders   []Order  `json:"orders"`
	Source   string   `json:"source"`
	NewOrder *Order   `json:"new_order,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type CategoriesResponse struct {
	Categories []CategoryGroup `json:"categories"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

type StatsResponse struct {
	TotalProjects    int     `json:"total_projects"`
	TotalOrders      int     `json:"total_orders"`
	PendingOrders    int     `json:"pending_orders"`
	InProgressOrders int     `json:"in_progress_orders"`
	CompletedOrders  int     `json:"completed_orders"`
	RecentOrders     []Order `json:"recent_orders"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Remote bool   `json:"remote"`
}
