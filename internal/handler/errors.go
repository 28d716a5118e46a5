package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"retail-ledger/internal/backup"
	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps ledger and backup errors onto the JSON envelope.
// Storage failures are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrNoChanges):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, backup.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicateName), errors.Is(err, store.ErrDuplicateKey):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case store.IsBusinessRule(err), errors.Is(err, backup.ErrCorrupt):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeRule, err.Error())
	case errors.Is(err, backup.ErrNoKey):
		util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, err.Error())
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

func badRequest(c *gin.Context, msg string) {
	util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
}

// idParam parses a positive numeric route parameter, answering 400 when it
// is malformed.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := util.ParseID(c.Param(name))
	if err != nil {
		badRequest(c, err.Error())
		return 0, false
	}
	return id, true
}
