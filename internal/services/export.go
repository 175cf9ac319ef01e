package services

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"designhub-backend/internal/models"
)

const ordersSheet = "Orders"

var exportHeaders = []string{
	"ID", "Client", "Email", "WhatsApp", "Phone", "Project Type",
	"Details", "Attachment", "Status", "Created At",
}

// ExportOrders writes orders to w as an XLSX workbook with a single sheet.
func ExportOrders(w io.Writer, orders []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ordersSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ordersSheet, cell, header)
		f.SetCellStyle(ordersSheet, cell, cell, headerStyle)
	}

	for r, o := range orders {
		row := []any{
			o.ID, o.ClientName, o.Email, o.WhatsApp, o.Phone, o.ProjectType,
			o.Details, o.FileURL, string(o.Status),
			time.UnixMilli(o.CreatedAt).UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	f.SetColWidth(ordersSheet, "A", "J", 18)
	f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
