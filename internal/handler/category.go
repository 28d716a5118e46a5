package handler

import (
	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves category endpoints.
type CategoryHandler struct {
	Store *store.Store
}

func NewCategoryHandler(s *store.Store) *CategoryHandler {
	return &CategoryHandler{Store: s}
}

type categoryReq struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=1024"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.Store.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"items": list})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.Store.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"category": cat})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	id, err := h.Store.AddCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"id": id})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	if err := h.Store.UpdateCategory(c.Request.Context(), id, req.Name, req.Description); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "category updated"})
}

// Delete moves the category's products to the default category first.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "category deleted"})
}
