package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dawat-dev/dawat/internal/store"
	"github.com/dawat-dev/dawat/internal/utils"
)

type BlockHandler struct {
	store *store.Store
	hub   *Hub
}

func NewBlockHandler(dataStore *store.Store, hub *Hub) *BlockHandler {
	return &BlockHandler{store: dataStore, hub: hub}
}

type CreateBlockRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateBlockRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

// BlockStatsResponse keeps the dashboard's field names for block-scoped
// statistics.
type BlockStatsResponse struct {
	TotalPeople      int64 `json:"total_people"`
	MuslimPeople     int64 `json:"muslim_people"`
	InterestedPeople int64 `json:"interested_people"`
	RecentVisits     int64 `json:"recent_visits"`
}

func (h *BlockHandler) List(ctx *gin.Context) {
	blocks, err := h.store.ListBlocks(ctx.Request.Context())

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve blocks"})
		return
	}

	ctx.JSON(http.StatusOK, blocks)
}

func (h *BlockHandler) Get(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "block_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.store.GetBlock(ctx.Request.Context(), id)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve block"})
		return
	}

	if detail == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

func (h *BlockHandler) Create(ctx *gin.Context) {
	var req CreateBlockRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	block, err := h.store.CreateBlock(ctx.Request.Context(), store.CreateBlockParams{
		Name:        req.Name,
		Description: req.Description,
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Block name already exists"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create block"})
		return
	}

	h.hub.BroadcastRefresh("blocks")

	ctx.JSON(http.StatusCreated, block)
}

func (h *BlockHandler) Update(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "block_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateBlockRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	block, err := h.store.UpdateBlock(ctx.Request.Context(), id, store.UpdateBlockParams{
		Name:        req.Name,
		Description: req.Description,
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Block name already exists"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update block"})
		return
	}

	if block == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}

	h.hub.BroadcastRefresh("blocks")

	ctx.JSON(http.StatusOK, block)
}

func (h *BlockHandler) Delete(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "block_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeleteBlock(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
			return
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Block still has contacts or visits attached"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete block"})
		return
	}

	h.hub.BroadcastRefresh("blocks")

	ctx.Status(http.StatusNoContent)
}

func (h *BlockHandler) Stats(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "block_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.store.BlockStats(ctx.Request.Context(), id)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute block stats"})
		return
	}

	if stats == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}

	ctx.JSON(http.StatusOK, BlockStatsResponse{
		TotalPeople:      stats.TotalContacts,
		MuslimPeople:     stats.MuslimContacts,
		InterestedPeople: stats.InterestedContacts,
		RecentVisits:     stats.RecentVisits,
	})
}
