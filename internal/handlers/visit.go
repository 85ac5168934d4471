package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dawat-dev/dawat/internal/store"
	"github.com/dawat-dev/dawat/internal/utils"
)

type VisitHandler struct {
	store *store.Store
	hub   *Hub
}

func NewVisitHandler(dataStore *store.Store, hub *Hub) *VisitHandler {
	return &VisitHandler{store: dataStore, hub: hub}
}

type listVisitsQuery struct {
	ContactID *uint  `form:"contact_id"`
	BlockID   *uint  `form:"block_id"`
	Purpose   string `form:"purpose"`
	Limit     int    `form:"limit,default=50" binding:"omitempty,min=1,max=100"`
	Cursor    *uint  `form:"cursor"`
}

type recentActivityQuery struct {
	Days int `form:"days,default=7" binding:"omitempty,min=1,max=30"`
}

type CreateVisitRequest struct {
	ContactID      uint       `json:"contact_id" binding:"required"`
	BlockID        uint       `json:"block_id" binding:"required"`
	VisitDate      *time.Time `json:"visit_date"`
	Purpose        string     `json:"purpose" binding:"required"`
	Response       string     `json:"response"`
	Duration       int        `json:"duration"`
	FollowUpNeeded bool       `json:"follow_up_needed"`
	FollowUpDate   *time.Time `json:"follow_up_date"`
	Notes          string     `json:"notes"`
}

type UpdateVisitRequest struct {
	VisitDate      *time.Time `json:"visit_date"`
	Purpose        *string    `json:"purpose" binding:"omitempty,min=1"`
	Response       *string    `json:"response"`
	Duration       *int       `json:"duration"`
	FollowUpNeeded *bool      `json:"follow_up_needed"`
	FollowUpDate   *time.Time `json:"follow_up_date"`
	Notes          *string    `json:"notes"`
}

func (h *VisitHandler) List(ctx *gin.Context) {
	var query listVisitsQuery

	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.store.ListVisits(ctx.Request.Context(), store.ListVisitsParams{
		ContactID: query.ContactID,
		BlockID:   query.BlockID,
		Purpose:   query.Purpose,
		Limit:     query.Limit,
		Cursor:    query.Cursor,
	})

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visits"})
		return
	}

	ctx.JSON(http.StatusOK, page)
}

func (h *VisitHandler) FollowUps(ctx *gin.Context) {
	visits, err := h.store.UpcomingFollowUps(ctx.Request.Context())

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve follow-ups"})
		return
	}

	ctx.JSON(http.StatusOK, visits)
}

func (h *VisitHandler) Recent(ctx *gin.Context) {
	var query recentActivityQuery

	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visits, err := h.store.RecentActivity(ctx.Request.Context(), query.Days)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent activity"})
		return
	}

	ctx.JSON(http.StatusOK, visits)
}

func (h *VisitHandler) Get(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "visit_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visit, err := h.store.GetVisit(ctx.Request.Context(), id)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visit"})
		return
	}

	if visit == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Visit not found"})
		return
	}

	ctx.JSON(http.StatusOK, visit)
}

func (h *VisitHandler) Create(ctx *gin.Context) {
	var req CreateVisitRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	visit, err := h.store.CreateVisit(ctx.Request.Context(), store.CreateVisitParams{
		ContactID:      req.ContactID,
		BlockID:        req.BlockID,
		VisitDate:      req.VisitDate,
		Purpose:        req.Purpose,
		Response:       req.Response,
		Duration:       req.Duration,
		FollowUpNeeded: req.FollowUpNeeded,
		FollowUpDate:   req.FollowUpDate,
		Notes:          req.Notes,
		CreatedByID:    userID,
	})

	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Referenced contact or block does not exist"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create visit"})
		return
	}

	h.hub.BroadcastRefresh("visits")

	ctx.JSON(http.StatusCreated, visit)
}

func (h *VisitHandler) Update(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "visit_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateVisitRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visit, err := h.store.UpdateVisit(ctx.Request.Context(), id, store.UpdateVisitParams{
		VisitDate:      req.VisitDate,
		Purpose:        req.Purpose,
		Response:       req.Response,
		Duration:       req.Duration,
		FollowUpNeeded: req.FollowUpNeeded,
		FollowUpDate:   req.FollowUpDate,
		Notes:          req.Notes,
	})

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update visit"})
		return
	}

	if visit == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Visit not found"})
		return
	}

	h.hub.BroadcastRefresh("visits")

	ctx.JSON(http.StatusOK, visit)
}

func (h *VisitHandler) Delete(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "visit_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeleteVisit(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Visit not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete visit"})
		return
	}

	h.hub.BroadcastRefresh("visits")

	ctx.Status(http.StatusNoContent)
}
