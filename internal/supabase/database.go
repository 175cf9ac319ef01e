package supabase

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"designhub-backend/internal/models"
)

// DatabaseClient talks to the orders table over a direct Postgres connection.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientFromDB wraps an already opened handle.
func NewDatabaseClientFromDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (d *DatabaseClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+orderColumnList()+`
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var (
			row                                                 OrderRow
			clientName, email, whatsapp, phone, projectType     sql.NullString
			details, fileURL, status                            sql.NullString
			createdAt                                           sql.NullInt64
		)
		err := rows.Scan(
			&row.ID, &clientName, &email, &whatsapp, &phone,
			&projectType, &details, &fileURL, &status, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		row.ClientName = nullString(clientName)
		row.Email = nullString(email)
		row.WhatsApp = nullString(whatsapp)
		row.Phone = nullString(phone)
		row.ProjectType = nullString(projectType)
		row.Details = nullString(details)
		row.FileURL = nullString(fileURL)
		row.Status = nullString(status)
		if createdAt.Valid {
			row.CreatedAt = &createdAt.Int64
		}
		orders = append(orders, row.ToOrder())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

func (d *DatabaseClient) InsertOrder(ctx context.Context, order models.Order) error {
	r := OrderRowFrom(order)
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumnList()+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ID, r.ClientName, r.Email, r.WhatsApp, r.Phone,
		r.ProjectType, r.Details, r.FileURL, r.Status, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (d *DatabaseClient) UpdateOrderStatus(ctx context.Context, id string, status models.Status) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1
		WHERE id = $2
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

func (d *DatabaseClient) DeleteOrder(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, `
		DELETE FROM orders
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
