package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dawat-dev/dawat/internal/store"
	"github.com/dawat-dev/dawat/internal/utils"
)

type ContactHandler struct {
	store *store.Store
	hub   *Hub
}

func NewContactHandler(dataStore *store.Store, hub *Hub) *ContactHandler {
	return &ContactHandler{store: dataStore, hub: hub}
}

type listContactsQuery struct {
	BlockID *uint  `form:"block_id"`
	Search  string `form:"search"`
	Limit   int    `form:"limit,default=50" binding:"omitempty,min=1,max=100"`
	Cursor  *uint  `form:"cursor"`
}

type CreateContactRequest struct {
	Name         string `json:"name" binding:"required"`
	FatherName   string `json:"father_name"`
	PhoneNumber  string `json:"phone_number"`
	HouseNumber  string `json:"house_number"`
	Address      string `json:"address"`
	Occupation   string `json:"occupation"`
	Timings      string `json:"timings"`
	Notes        string `json:"notes"`
	IsMuslim     bool   `json:"is_muslim"`
	IsInterested bool   `json:"is_interested"`
	BlockID      uint   `json:"block_id" binding:"required"`
}

type UpdateContactRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	FatherName   *string `json:"father_name"`
	PhoneNumber  *string `json:"phone_number"`
	HouseNumber  *string `json:"house_number"`
	Address      *string `json:"address"`
	Occupation   *string `json:"occupation"`
	Timings      *string `json:"timings"`
	Notes        *string `json:"notes"`
	IsMuslim     *bool   `json:"is_muslim"`
	IsInterested *bool   `json:"is_interested"`
	BlockID      *uint   `json:"block_id"`
}

func (h *ContactHandler) List(ctx *gin.Context) {
	var query listContactsQuery

	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.store.ListContacts(ctx.Request.Context(), store.ListContactsParams{
		BlockID: query.BlockID,
		Search:  query.Search,
		Limit:   query.Limit,
		Cursor:  query.Cursor,
	})

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}

	ctx.JSON(http.StatusOK, page)
}

func (h *ContactHandler) Stats(ctx *gin.Context) {
	stats, err := h.store.ContactStats(ctx.Request.Context())

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute contact stats"})
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (h *ContactHandler) Get(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "contact_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.store.GetContact(ctx.Request.Context(), id)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contact"})
		return
	}

	if detail == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

func (h *ContactHandler) Create(ctx *gin.Context) {
	var req CreateContactRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	contact, err := h.store.CreateContact(ctx.Request.Context(), store.CreateContactParams{
		Name:         req.Name,
		FatherName:   req.FatherName,
		PhoneNumber:  req.PhoneNumber,
		HouseNumber:  req.HouseNumber,
		Address:      req.Address,
		Occupation:   req.Occupation,
		Timings:      req.Timings,
		Notes:        req.Notes,
		IsMuslim:     req.IsMuslim,
		IsInterested: req.IsInterested,
		BlockID:      req.BlockID,
		CreatedByID:  userID,
	})

	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Referenced block does not exist"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	h.hub.BroadcastRefresh("contacts")

	ctx.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "contact_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateContactRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.store.UpdateContact(ctx.Request.Context(), id, store.UpdateContactParams{
		Name:         req.Name,
		FatherName:   req.FatherName,
		PhoneNumber:  req.PhoneNumber,
		HouseNumber:  req.HouseNumber,
		Address:      req.Address,
		Occupation:   req.Occupation,
		Timings:      req.Timings,
		Notes:        req.Notes,
		IsMuslim:     req.IsMuslim,
		IsInterested: req.IsInterested,
		BlockID:      req.BlockID,
	})

	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Referenced block does not exist"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}

	if contact == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	h.hub.BroadcastRefresh("contacts")

	ctx.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(ctx *gin.Context) {
	id, err := utils.IDParam(ctx, "contact_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeleteContact(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Contact still has visits attached"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}

	h.hub.BroadcastRefresh("contacts")

	ctx.Status(http.StatusNoContent)
}
