package handler

import (
	"strings"

	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// CustomerHandler serves customer endpoints.
type CustomerHandler struct {
	Store *store.Store
}

func NewCustomerHandler(s *store.Store) *CustomerHandler {
	return &CustomerHandler{Store: s}
}

type customerReq struct {
	Name    string `json:"name" binding:"required,max=128"`
	Phone   string `json:"phone" binding:"max=32"`
	Email   string `json:"email" binding:"omitempty,email,max=128"`
	Address string `json:"address" binding:"max=512"`
}

func (r customerReq) input() store.CustomerInput {
	return store.CustomerInput{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address}
}

// List returns every customer, or matches for ?q= on name or phone.
func (h *CustomerHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var err error
	var list any
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		list, err = h.Store.SearchCustomers(ctx, q)
	} else {
		list, err = h.Store.ListCustomers(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"items": list})
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cust, err := h.Store.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"customer": cust})
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	id, err := h.Store.AddCustomer(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"id": id})
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	if err := h.Store.UpdateCustomer(c.Request.Context(), id, req.input()); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "customer updated"})
}

// Delete removes the customer; their sales remain as walk-in sales.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "customer deleted"})
}

func (h *CustomerHandler) Sales(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Store.GetCustomer(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Store.SalesByCustomer(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"items": list})
}
