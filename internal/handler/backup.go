package handler

import (
	"fmt"

	"retail-ledger/internal/backup"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler serves the encrypted ledger backups.
type BackupHandler struct {
	Backups *backup.Service
}

func NewBackupHandler(svc *backup.Service) *BackupHandler {
	return &BackupHandler{Backups: svc}
}

func (h *BackupHandler) Create(c *gin.Context) {
	b, err := h.Backups.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"backup": b})
}

func (h *BackupHandler) List(c *gin.Context) {
	list, err := h.Backups.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"items": list})
}

func (h *BackupHandler) Download(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := h.Backups.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.FileName))
	c.File(b.FilePath)
}

// Restore replaces the whole ledger with the backup.
func (h *BackupHandler) Restore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	counts, err := h.Backups.Restore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "backup restored", "restored": counts})
}

func (h *BackupHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Backups.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "backup deleted"})
}
