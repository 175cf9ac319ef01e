package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"designhub-backend/internal/models"
	"designhub-backend/internal/reconcile"
	"designhub-backend/internal/services"
)

// MaxAttachmentBytes caps files uploaded with an order.
const MaxAttachmentBytes = 10 << 20

type OrdersHandler struct {
	orders *services.OrderService
	engine *reconcile.Engine
}

func NewOrdersHandler(orders *services.OrderService, engine *reconcile.Engine) *OrdersHandler {
	return &OrdersHandler{orders: orders, engine: engine}
}

// SubmitOrder godoc
// @Summary     Submit an order
// @Description Accepts a JSON body or a multipart form with an optional "file" attachment. When the remote store is unreachable the order is kept locally and a warning is returned.
// @Tags        orders
// @Accept      json,mpfd
// @Produce     json
// @Param       request body models.OrderForm true "Order form"
// @Success     201 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     507 {object} models.ErrorResponse
// @Router      /api/v1/orders [post]
func (h *OrdersHandler) SubmitOrder(c *gin.Context) {
	var form models.OrderForm
	var attachment *services.Attachment

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid form", Message: err.Error()})
			return
		}
		att, err := readAttachment(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid attachment", Message: err.Error(), Field: "file"})
			return
		}
		attachment = att
	} else if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	order, warnings, err := h.orders.Submit(c.Request.Context(), form, attachment)
	if err != nil {
		respondError(c, err, "failed to submit order")
		return
	}
	c.JSON(http.StatusCreated, models.OrderResponse{Order: order, Warnings: warnings})
}

func readAttachment(c *gin.Context) (*services.Attachment, error) {
	fh, err := c.FormFile("file")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > MaxAttachmentBytes {
		return nil, fmt.Errorf("file must be smaller than %d MB", MaxAttachmentBytes>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxAttachmentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return &services.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// ListOrders godoc
// @Summary     List orders
// @Description Returns the current order snapshot, newest first
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, models.OrderListResponse{Orders: h.orders.List()})
}

// UpdateOrderStatus godoc
// @Summary     Change an order's status
// @Description Any status may move to any other status
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID"
// @Param       request body models.UpdateStatusRequest true "New status"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{order_id}/status [patch]
func (h *OrdersHandler) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err, "invalid status")
		return
	}

	order, warnings, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("order_id"), status)
	if err != nil {
		respondError(c, err, "failed to update order")
		return
	}
	c.JSON(http.StatusOK, models.OrderResponse{Order: order, Warnings: warnings})
}

// DeleteOrder godoc
// @Summary     Delete an order
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID"
// @Success     200 {object} models.OrderListResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/{order_id} [delete]
func (h *OrdersHandler) DeleteOrder(c *gin.Context) {
	warnings, err := h.orders.Delete(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondError(c, err, "failed to delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": h.orders.List(), "warnings": warnings})
}

// SyncOrders godoc
// @Summary     Refresh orders
// @Description Re-reads orders from the remote store, falling back to the local cache
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SyncResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/sync [post]
func (h *OrdersHandler) SyncOrders(c *gin.Context) {
	res, err := h.engine.Reconcile(c.Request.Context(), reconcile.TriggerManual)
	if err != nil {
		respondError(c, err, "failed to sync orders")
		return
	}
	c.JSON(http.StatusOK, models.SyncResponse{
		Orders:   res.Orders,
		Source:   res.Source,
		NewOrder: res.NewOrder,
		Warnings: res.Warnings,
	})
}

// ExportOrders godoc
// @Summary     Export orders
// @Description Downloads the current orders as an Excel workbook
// @Tags        admin
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    Bearer
// @Success     200 {file} binary
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/admin/orders/export [get]
func (h *OrdersHandler) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := services.ExportOrders(&buf, h.orders.List()); err != nil {
		respondError(c, err, "failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GetStats godoc
// @Summary     Dashboard statistics
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.StatsResponse
// @Router      /api/v1/admin/stats [get]
func (h *OrdersHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.orders.Stats())
}
