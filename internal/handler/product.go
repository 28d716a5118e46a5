package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"retail-ledger/internal/models"
	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// maxImageSize bounds uploaded product images.
const maxImageSize = 5 << 20

// ProductHandler serves product endpoints. Image files referenced by path
// are only served from inside ImageDir.
type ProductHandler struct {
	Store    *store.Store
	ImageDir string
}

func NewProductHandler(s *store.Store, imageDir string) *ProductHandler {
	return &ProductHandler{Store: s, ImageDir: imageDir}
}

type createProductReq struct {
	KeyNumber     int64            `json:"key_number" binding:"required,gt=0"`
	Name          string           `json:"name" binding:"required,max=128"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	TotalAdded    int              `json:"total_added" binding:"gte=0"`
	CategoryID    uint             `json:"category_id"`
	ImagePath     string           `json:"image_path" binding:"max=1024"`
}

// updateProductReq uses pointers so absent fields stay untouched.
type updateProductReq struct {
	Name          *string          `json:"name"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	CategoryID    *uint            `json:"category_id"`
	TotalAdded    *int             `json:"total_added"`
}

func (r updateProductReq) toUpdate() (store.ProductUpdate, error) {
	var u store.ProductUpdate
	if r.Name != nil {
		u.Name = store.Some(*r.Name)
	}
	if r.PurchasePrice != nil {
		if err := util.ValidatePrice(*r.PurchasePrice); err != nil {
			return u, fmt.Errorf("purchase_price: %w", err)
		}
		u.PurchasePrice = store.Some(*r.PurchasePrice)
	}
	if r.SalePrice != nil {
		if err := util.ValidatePrice(*r.SalePrice); err != nil {
			return u, fmt.Errorf("sale_price: %w", err)
		}
		u.SalePrice = store.Some(*r.SalePrice)
	}
	if r.CategoryID != nil {
		u.CategoryID = store.Some(*r.CategoryID)
	}
	if r.TotalAdded != nil {
		u.TotalAdded = store.Some(*r.TotalAdded)
	}
	return u, nil
}

type restockReq struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// localImagePath resolves an image path against dir and reports whether the
// result stays inside dir. Relative paths are taken relative to dir.
func localImagePath(dir, path string) (string, bool) {
	if dir == "" {
		return "", false
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	rel, err := filepath.Rel(root, filepath.Clean(path))
	if err != nil || !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.Join(root, rel), true
}

func keyParam(c *gin.Context) (int64, bool) {
	key, err := util.ParseKeyNumber(c.Param("key"))
	if err != nil {
		badRequest(c, err.Error())
		return 0, false
	}
	return key, true
}

// List returns all products, products of one category (?category_id=) or
// search results (?q=).
func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		list, err := h.Store.SearchProducts(ctx, q)
		if err != nil {
			respondError(c, err)
			return
		}
		util.Success(c, util.Response{"items": list})
		return
	}

	categoryID, err := util.ParseOptionalID(c.Query("category_id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	list, err := h.Store.ListProducts(ctx, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"items": list})
}

func (h *ProductHandler) Get(c *gin.Context) {
	key, ok := keyParam(c)
	if !ok {
		return
	}
	p, err := h.Store.GetProduct(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"product": p, "has_image": p.HasImage()})
}

// Image streams the embedded image, falling back to the stored file path.
func (h *ProductHandler) Image(c *gin.Context) {
	key, ok := keyParam(c)
	if !ok {
		return
	}
	p, err := h.Store.GetProduct(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}

	raw := models.Product{ImageData: p.ImageData}
	data, err := raw.ImageBytes()
	if err != nil {
		respondError(c, err)
		return
	}
	if len(data) > 0 {
		c.Data(http.StatusOK, http.DetectContentType(data), data)
		return
	}
	if p.ImagePath != nil && *p.ImagePath != "" {
		if path, ok := localImagePath(h.ImageDir, *p.ImagePath); ok {
			c.File(path)
			return
		}
	}
	util.Error(c, http.StatusNotFound, util.CodeNotFound, "product has no image")
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	purchase, err := requirePrice("purchase_price", req.PurchasePrice)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	sale, err := requirePrice("sale_price", req.SalePrice)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	err = h.Store.AddProduct(c.Request.Context(), store.NewProduct{
		KeyNumber:     req.KeyNumber,
		Name:          req.Name,
		PurchasePrice: purchase,
		SalePrice:     sale,
		TotalAdded:    req.TotalAdded,
		CategoryID:    req.CategoryID,
		ImagePath:     req.ImagePath,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"key_number": req.KeyNumber})
}

func (h *ProductHandler) Update(c *gin.Context) {
	key, ok := keyParam(c)
	if !ok {
		return
	}
	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	u, err := req.toUpdate()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Store.UpdateProduct(c.Request.Context(), key, u); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "product updated"})
}

// UploadImage replaces the product image with the multipart "image" file.
// A request without a file clears the image.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	key, ok := keyParam(c)
	if !ok {
		return
	}

	var data []byte
	fh, err := c.FormFile("image")
	if err == nil {
		if fh.Size > maxImageSize {
			badRequest(c, "image too large")
			return
		}
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "unreadable image")
			return
		}
		defer f.Close()
		if data, err = io.ReadAll(io.LimitReader(f, maxImageSize)); err != nil {
			badRequest(c, "unreadable image")
			return
		}
	}

	var path *string
	if p := c.PostForm("image_path"); p != "" {
		path = &p
	}
	if err := h.Store.UpdateProductImage(c.Request.Context(), key, path, data); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "image updated", "size": len(data)})
}

func (h *ProductHandler) Restock(c *gin.Context) {
	key, ok := keyParam(c)
	if !ok {
		return
	}
	var req restockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	if err := h.Store.RestockProduct(c.Request.Context(), key, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "product restocked"})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	key, ok := keyParam(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteProduct(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "product deleted"})
}
