package handler

import (
	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves profit and summary reports.
type ReportHandler struct {
	Store *store.Store
}

func NewReportHandler(s *store.Store) *ReportHandler {
	return &ReportHandler{Store: s}
}

// Profit returns the total profit, or one category's with ?category_id=.
func (h *ReportHandler) Profit(c *gin.Context) {
	ctx := c.Request.Context()
	categoryID, err := util.ParseOptionalID(c.Query("category_id"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if categoryID == nil {
		total, err := h.Store.TotalProfit(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		util.Success(c, util.Response{"profit": total})
		return
	}

	if _, err := h.Store.GetCategory(ctx, *categoryID); err != nil {
		respondError(c, err)
		return
	}
	total, err := h.Store.TotalProfitByCategory(ctx, *categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"profit": total, "category_id": *categoryID})
}

func (h *ReportHandler) Summary(c *gin.Context) {
	f, err := parseSaleFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	sum, err := h.Store.SalesSummary(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"summary": sum})
}
