package handler

import (
	"fmt"

	"retail-ledger/internal/config"
	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SaleHandler serves sales, checkout and bill endpoints.
type SaleHandler struct {
	Store *store.Store
	Shop  config.ShopConfig
}

func NewSaleHandler(s *store.Store, shop config.ShopConfig) *SaleHandler {
	return &SaleHandler{Store: s, Shop: shop}
}

type recordSaleReq struct {
	KeyNumber  int64            `json:"key_number" binding:"required,gt=0"`
	Quantity   int              `json:"quantity" binding:"required,gt=0"`
	SalePrice  *decimal.Decimal `json:"sale_price"`
	CustomerID *uint            `json:"customer_id"`
}

type checkoutItem struct {
	KeyNumber int64            `json:"key_number" binding:"required,gt=0"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	SalePrice *decimal.Decimal `json:"sale_price"`
}

type checkoutReq struct {
	CustomerID *uint          `json:"customer_id"`
	Items      []checkoutItem `json:"items" binding:"required,min=1,dive"`
}

// requirePrice rejects a missing price instead of letting it decode to zero.
func requirePrice(field string, d *decimal.Decimal) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, fmt.Errorf("%s is required", field)
	}
	if err := util.ValidatePrice(*d); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return *d, nil
}

// parseSaleFilter reads category_id, customer_id, from and to (YYYY-MM-DD).
func parseSaleFilter(c *gin.Context) (store.SaleFilter, error) {
	var (
		f   store.SaleFilter
		err error
	)
	if f.CategoryID, err = util.ParseOptionalID(c.Query("category_id")); err != nil {
		return f, err
	}
	if f.CustomerID, err = util.ParseOptionalID(c.Query("customer_id")); err != nil {
		return f, err
	}
	if f.From, err = util.ParseOptionalDate(c.Query("from")); err != nil {
		return f, err
	}
	if f.To, err = util.ParseOptionalDate(c.Query("to")); err != nil {
		return f, err
	}
	return f, nil
}

func (h *SaleHandler) Create(c *gin.Context) {
	var req recordSaleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	price, err := requirePrice("sale_price", req.SalePrice)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	id, err := h.Store.RecordSale(c.Request.Context(), req.KeyNumber, req.Quantity, price, req.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"id": id})
}

// Checkout sells every cart line or none of them.
func (h *SaleHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	lines := make([]store.SaleLine, 0, len(req.Items))
	for i, item := range req.Items {
		price, err := requirePrice(fmt.Sprintf("items[%d].sale_price", i), item.SalePrice)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		lines = append(lines, store.SaleLine{KeyNumber: item.KeyNumber, Quantity: item.Quantity, SalePrice: price})
	}
	ids, err := h.Store.Checkout(c.Request.Context(), req.CustomerID, lines)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"ids": ids})
}

func (h *SaleHandler) List(c *gin.Context) {
	f, err := parseSaleFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	list, err := h.Store.ListSales(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"items": list})
}

func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	d, err := h.Store.SaleDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"sale": d})
}

func (h *SaleHandler) Bill(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	bill, err := h.Store.GenerateBillData(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"shop": h.Shop, "bill": bill})
}

// Delete cancels a sale and returns its units to stock.
func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteSale(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "sale deleted"})
}

// Clear wipes the sales history. The caller must pass ?confirm=yes.
func (h *SaleHandler) Clear(c *gin.Context) {
	if c.Query("confirm") != "yes" {
		badRequest(c, "pass confirm=yes to clear the sales history")
		return
	}
	n, err := h.Store.ClearSalesHistory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": n})
}
