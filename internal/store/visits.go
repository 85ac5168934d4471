package store

import (
	"context"
	"errors"
	"time"

	"github.com/dawat-dev/dawat/internal/models"
	"gorm.io/gorm"
)

// Feed bounds.
const (
	DefaultActivityDays = 7
	MaxActivityDays     = 30
	activityFeedCap     = 20

	// FollowUpHorizon is how far ahead the follow-up feed looks. Overdue
	// follow-ups have no lower bound.
	FollowUpHorizon = 7 * 24 * time.Hour
)

type ListVisitsParams struct {
	ContactID *uint
	BlockID   *uint
	Purpose   string
	Limit     int
	Cursor    *uint
}

// VisitSummary is a visit with its contact, block and creator attached.
type VisitSummary struct {
	models.Visit
	Contact   models.Contact `json:"contact"`
	Block     models.Block   `json:"block"`
	CreatedBy UserRef        `json:"created_by"`
}

type VisitPage struct {
	Visits     []VisitSummary `json:"visits"`
	NextCursor *uint          `json:"next_cursor,omitempty"`
}

// ListVisits returns one page of visits ordered by visit date, newest first.
// Pagination follows the same contract as ListContacts: limit+1 fetch, cursor
// is the last returned row's id, resume strictly after it; a deleted cursor
// row yields an empty page.
func (s *Store) ListVisits(ctx context.Context, params ListVisitsParams) (*VisitPage, error) {
	limit := normalizeLimit(params.Limit)

	tx := s.db.WithContext(ctx)

	if params.ContactID != nil {
		tx = tx.Where("contact_id = ?", *params.ContactID)
	}

	if params.BlockID != nil {
		tx = tx.Where("block_id = ?", *params.BlockID)
	}

	if params.Purpose != "" {
		tx = tx.Where("purpose = ?", params.Purpose)
	}

	if params.Cursor != nil {
		var anchor models.Visit

		err := s.db.WithContext(ctx).Select("id", "visit_date").First(&anchor, *params.Cursor).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VisitPage{Visits: []VisitSummary{}}, nil
		}

		if err != nil {
			return nil, err
		}

		tx = tx.Where("visit_date < ? OR (visit_date = ? AND id < ?)",
			anchor.VisitDate, anchor.VisitDate, anchor.ID)
	}

	var visits []models.Visit

	if err := tx.Preload("Contact").Preload("Block").Preload("CreatedBy").
		Order("visit_date DESC, id DESC").
		Limit(limit + 1).
		Find(&visits).Error; err != nil {
		return nil, err
	}

	page := &VisitPage{Visits: make([]VisitSummary, 0, len(visits))}

	if len(visits) > limit {
		visits = visits[:limit]
		next := visits[limit-1].ID
		page.NextCursor = &next
	}

	for _, visit := range visits {
		page.Visits = append(page.Visits, visitSummary(visit))
	}

	return page, nil
}

// GetVisit returns the visit with its relations. A missing id yields
// (nil, nil).
func (s *Store) GetVisit(ctx context.Context, id uint) (*VisitSummary, error) {
	var visit models.Visit

	err := s.db.WithContext(ctx).
		Preload("Contact").Preload("Block").Preload("CreatedBy").
		First(&visit, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	summary := visitSummary(visit)

	return &summary, nil
}

type CreateVisitParams struct {
	ContactID uint
	// BlockID is denormalized from the contact by the caller and stored as
	// given.
	BlockID        uint
	VisitDate      *time.Time
	Purpose        string
	Response       string
	Duration       int
	FollowUpNeeded bool
	FollowUpDate   *time.Time
	Notes          string
	CreatedByID    uint
}

// CreateVisit persists the visit attributed to CreatedByID. VisitDate
// defaults to the current time when omitted. Unknown contact or block ids
// fail with gorm.ErrForeignKeyViolated.
func (s *Store) CreateVisit(ctx context.Context, params CreateVisitParams) (*VisitSummary, error) {
	visitDate := time.Now()

	if params.VisitDate != nil {
		visitDate = *params.VisitDate
	}

	visit := models.Visit{
		ContactID:      params.ContactID,
		BlockID:        params.BlockID,
		VisitDate:      visitDate,
		Purpose:        params.Purpose,
		Response:       params.Response,
		Duration:       params.Duration,
		FollowUpNeeded: params.FollowUpNeeded,
		FollowUpDate:   params.FollowUpDate,
		Notes:          params.Notes,
		CreatedByID:    params.CreatedByID,
	}

	if err := s.db.WithContext(ctx).Create(&visit).Error; err != nil {
		return nil, err
	}

	return s.GetVisit(ctx, visit.ID)
}

type UpdateVisitParams struct {
	VisitDate      *time.Time
	Purpose        *string
	Response       *string
	Duration       *int
	FollowUpNeeded *bool
	FollowUpDate   *time.Time
	Notes          *string
}

// UpdateVisit applies the supplied fields only. A missing id yields
// (nil, nil).
func (s *Store) UpdateVisit(ctx context.Context, id uint, params UpdateVisitParams) (*VisitSummary, error) {
	var visit models.Visit

	err := s.db.WithContext(ctx).First(&visit, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if params.VisitDate != nil {
		updates["visit_date"] = *params.VisitDate
	}

	if params.Purpose != nil {
		updates["purpose"] = *params.Purpose
	}

	if params.Response != nil {
		updates["response"] = *params.Response
	}

	if params.Duration != nil {
		updates["duration"] = *params.Duration
	}

	if params.FollowUpNeeded != nil {
		updates["follow_up_needed"] = *params.FollowUpNeeded
	}

	if params.FollowUpDate != nil {
		updates["follow_up_date"] = *params.FollowUpDate
	}

	if params.Notes != nil {
		updates["notes"] = *params.Notes
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&visit).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetVisit(ctx, visit.ID)
}

// DeleteVisit removes the visit. A missing id fails with
// gorm.ErrRecordNotFound.
func (s *Store) DeleteVisit(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Visit{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// RecentActivity returns visits from the trailing days window, newest first,
// capped at twenty rows. Out-of-range day values are clamped to the 1..30
// bounds.
func (s *Store) RecentActivity(ctx context.Context, days int) ([]VisitSummary, error) {
	if days <= 0 {
		days = DefaultActivityDays
	}

	if days > MaxActivityDays {
		days = MaxActivityDays
	}

	since := time.Now().AddDate(0, 0, -days)

	var visits []models.Visit

	if err := s.db.WithContext(ctx).
		Preload("Contact").Preload("Block").Preload("CreatedBy").
		Where("visit_date >= ?", since).
		Order("visit_date DESC, id DESC").
		Limit(activityFeedCap).
		Find(&visits).Error; err != nil {
		return nil, err
	}

	summaries := make([]VisitSummary, 0, len(visits))

	for _, visit := range visits {
		summaries = append(summaries, visitSummary(visit))
	}

	return summaries, nil
}

// UpcomingFollowUps returns visits flagged for follow-up whose target date is
// at or before now plus the horizon, soonest (or most overdue) first.
func (s *Store) UpcomingFollowUps(ctx context.Context) ([]VisitSummary, error) {
	horizon := time.Now().Add(FollowUpHorizon)

	var visits []models.Visit

	if err := s.db.WithContext(ctx).
		Preload("Contact").Preload("Block").Preload("CreatedBy").
		Where("follow_up_needed = ? AND follow_up_date IS NOT NULL AND follow_up_date <= ?", true, horizon).
		Order("follow_up_date ASC, id ASC").
		Find(&visits).Error; err != nil {
		return nil, err
	}

	summaries := make([]VisitSummary, 0, len(visits))

	for _, visit := range visits {
		summaries = append(summaries, visitSummary(visit))
	}

	return summaries, nil
}

func visitSummary(visit models.Visit) VisitSummary {
	return VisitSummary{
		Visit:     visit,
		Contact:   visit.Contact,
		Block:     visit.Block,
		CreatedBy: userRef(visit.CreatedBy),
	}
}
