package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"retail-ledger/internal/export"
	"retail-ledger/internal/store"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves sales and inventory downloads.
type ExportHandler struct {
	Store *store.Store
}

func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{Store: s}
}

func exportFormat(c *gin.Context) (export.Format, bool) {
	f, err := export.ParseFormat(c.DefaultQuery("format", string(export.CSV)))
	if err != nil {
		badRequest(c, err.Error())
		return "", false
	}
	return f, true
}

// send renders into memory first so a failure can still produce an error
// envelope instead of a truncated file.
func send(c *gin.Context, name string, f export.Format, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		respondError(c, err)
		return
	}
	fileName := fmt.Sprintf("%s_%s.%s", name, time.Now().Format("20060102"), f)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
}

// Sales exports the sales listing; accepts the same filters as GET /sales.
func (h *ExportHandler) Sales(c *gin.Context) {
	f, ok := exportFormat(c)
	if !ok {
		return
	}
	filter, err := parseSaleFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	sales, err := h.Store.ListSales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	send(c, "sales", f, func(buf *bytes.Buffer) error { return export.Sales(buf, f, sales) })
}

func (h *ExportHandler) Inventory(c *gin.Context) {
	f, ok := exportFormat(c)
	if !ok {
		return
	}
	products, err := h.Store.ListProducts(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	send(c, "inventory", f, func(buf *bytes.Buffer) error { return export.Inventory(buf, f, products) })
}
