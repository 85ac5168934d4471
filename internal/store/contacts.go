package store

import (
	"context"
	"errors"

	"github.com/dawat-dev/dawat/internal/models"
	"gorm.io/gorm"
)

type ListContactsParams struct {
	BlockID *uint
	Search  string
	Limit   int
	Cursor  *uint
}

// ContactSummary is a contact as it appears in listings: block and creator
// attached, plus the three most recent visits and the total visit count.
type ContactSummary struct {
	models.Contact
	Block        models.Block   `json:"block"`
	CreatedBy    UserRef        `json:"created_by"`
	RecentVisits []models.Visit `json:"recent_visits"`
	VisitCount   int64          `json:"visit_count"`
}

type ContactPage struct {
	Contacts   []ContactSummary `json:"contacts"`
	NextCursor *uint            `json:"next_cursor,omitempty"`
}

// ContactWithRelations is the mutation result shape: the contact with its
// block and creator attached.
type ContactWithRelations struct {
	models.Contact
	Block     models.Block `json:"block"`
	CreatedBy UserRef      `json:"created_by"`
}

// VisitWithCreator is a visit annotated with its creator's display fields.
type VisitWithCreator struct {
	models.Visit
	CreatedBy UserRef `json:"created_by"`
}

// ContactDetail is the point-lookup shape: block, creator and the full visit
// history newest-first, each visit with its own creator.
type ContactDetail struct {
	models.Contact
	Block     models.Block       `json:"block"`
	CreatedBy UserRef            `json:"created_by"`
	Visits    []VisitWithCreator `json:"visits"`
}

// ListContacts returns one page of contacts ordered by most recent update.
// It fetches limit+1 rows; when the extra row exists the id of the last
// returned row becomes the cursor, and a follow-up call resumes strictly
// after that row in the same ordering. A cursor naming a row that has since
// been deleted yields an empty page.
//
// The free-text search matches a substring of name, phone number, address or
// occupation (OR semantics) and combines with the block filter (AND
// semantics). Case sensitivity follows the store's LIKE collation.
func (s *Store) ListContacts(ctx context.Context, params ListContactsParams) (*ContactPage, error) {
	limit := normalizeLimit(params.Limit)

	tx := s.db.WithContext(ctx)

	if params.BlockID != nil {
		tx = tx.Where("block_id = ?", *params.BlockID)
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		tx = tx.Where(
			s.db.Where("name LIKE ?", pattern).
				Or("phone_number LIKE ?", pattern).
				Or("address LIKE ?", pattern).
				Or("occupation LIKE ?", pattern),
		)
	}

	if params.Cursor != nil {
		var anchor models.Contact

		err := s.db.WithContext(ctx).Select("id", "updated_at").First(&anchor, *params.Cursor).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ContactPage{Contacts: []ContactSummary{}}, nil
		}

		if err != nil {
			return nil, err
		}

		tx = tx.Where("updated_at < ? OR (updated_at = ? AND id < ?)",
			anchor.UpdatedAt, anchor.UpdatedAt, anchor.ID)
	}

	var contacts []models.Contact

	if err := tx.Order("updated_at DESC, id DESC").Limit(limit + 1).Find(&contacts).Error; err != nil {
		return nil, err
	}

	page := &ContactPage{Contacts: make([]ContactSummary, 0, len(contacts))}

	if len(contacts) > limit {
		contacts = contacts[:limit]
		next := contacts[limit-1].ID
		page.NextCursor = &next
	}

	for _, contact := range contacts {
		summary, err := s.contactSummary(ctx, contact)

		if err != nil {
			return nil, err
		}

		page.Contacts = append(page.Contacts, summary)
	}

	return page, nil
}

func (s *Store) contactSummary(ctx context.Context, contact models.Contact) (ContactSummary, error) {
	summary := ContactSummary{Contact: contact, RecentVisits: []models.Visit{}}

	if err := s.db.WithContext(ctx).First(&summary.Block, contact.BlockID).Error; err != nil {
		return summary, err
	}

	var creator models.User

	if err := s.db.WithContext(ctx).First(&creator, contact.CreatedByID).Error; err != nil {
		return summary, err
	}

	summary.CreatedBy = userRef(creator)

	if err := s.db.WithContext(ctx).
		Where("contact_id = ?", contact.ID).
		Order("visit_date DESC, id DESC").
		Limit(3).
		Find(&summary.RecentVisits).Error; err != nil {
		return summary, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Visit{}).
		Where("contact_id = ?", contact.ID).
		Count(&summary.VisitCount).Error; err != nil {
		return summary, err
	}

	return summary, nil
}

// GetContact returns the contact with its full visit history. A missing id
// yields (nil, nil).
func (s *Store) GetContact(ctx context.Context, id uint) (*ContactDetail, error) {
	var contact models.Contact

	err := s.db.WithContext(ctx).First(&contact, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	detail := ContactDetail{Contact: contact, Visits: []VisitWithCreator{}}

	if err := s.db.WithContext(ctx).First(&detail.Block, contact.BlockID).Error; err != nil {
		return nil, err
	}

	var creator models.User

	if err := s.db.WithContext(ctx).First(&creator, contact.CreatedByID).Error; err != nil {
		return nil, err
	}

	detail.CreatedBy = userRef(creator)

	var visits []models.Visit

	if err := s.db.WithContext(ctx).Preload("CreatedBy").
		Where("contact_id = ?", id).
		Order("visit_date DESC, id DESC").
		Find(&visits).Error; err != nil {
		return nil, err
	}

	for _, visit := range visits {
		detail.Visits = append(detail.Visits, VisitWithCreator{
			Visit:     visit,
			CreatedBy: userRef(visit.CreatedBy),
		})
	}

	return &detail, nil
}

type CreateContactParams struct {
	Name         string
	FatherName   string
	PhoneNumber  string
	HouseNumber  string
	Address      string
	Occupation   string
	Timings      string
	Notes        string
	IsMuslim     bool
	IsInterested bool
	BlockID      uint
	CreatedByID  uint
}

// CreateContact persists the contact attributed to CreatedByID. A BlockID
// that references no block fails with gorm.ErrForeignKeyViolated.
func (s *Store) CreateContact(ctx context.Context, params CreateContactParams) (*ContactWithRelations, error) {
	contact := models.Contact{
		Name:         params.Name,
		FatherName:   params.FatherName,
		PhoneNumber:  params.PhoneNumber,
		HouseNumber:  params.HouseNumber,
		Address:      params.Address,
		Occupation:   params.Occupation,
		Timings:      params.Timings,
		Notes:        params.Notes,
		IsMuslim:     params.IsMuslim,
		IsInterested: params.IsInterested,
		BlockID:      params.BlockID,
		CreatedByID:  params.CreatedByID,
	}

	if err := s.db.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, err
	}

	return s.contactWithRelations(ctx, contact)
}

type UpdateContactParams struct {
	Name         *string
	FatherName   *string
	PhoneNumber  *string
	HouseNumber  *string
	Address      *string
	Occupation   *string
	Timings      *string
	Notes        *string
	IsMuslim     *bool
	IsInterested *bool
	BlockID      *uint
}

// UpdateContact applies the supplied fields only. A missing id yields
// (nil, nil).
func (s *Store) UpdateContact(ctx context.Context, id uint, params UpdateContactParams) (*ContactWithRelations, error) {
	var contact models.Contact

	err := s.db.WithContext(ctx).First(&contact, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if params.Name != nil {
		updates["name"] = *params.Name
	}

	if params.FatherName != nil {
		updates["father_name"] = *params.FatherName
	}

	if params.PhoneNumber != nil {
		updates["phone_number"] = *params.PhoneNumber
	}

	if params.HouseNumber != nil {
		updates["house_number"] = *params.HouseNumber
	}

	if params.Address != nil {
		updates["address"] = *params.Address
	}

	if params.Occupation != nil {
		updates["occupation"] = *params.Occupation
	}

	if params.Timings != nil {
		updates["timings"] = *params.Timings
	}

	if params.Notes != nil {
		updates["notes"] = *params.Notes
	}

	if params.IsMuslim != nil {
		updates["is_muslim"] = *params.IsMuslim
	}

	if params.IsInterested != nil {
		updates["is_interested"] = *params.IsInterested
	}

	if params.BlockID != nil {
		updates["block_id"] = *params.BlockID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&contact).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.contactWithRelations(ctx, contact)
}

// DeleteContact removes the contact. Contacts still referenced by visits fail
// with gorm.ErrForeignKeyViolated; a missing id fails with
// gorm.ErrRecordNotFound.
func (s *Store) DeleteContact(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Contact{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (s *Store) contactWithRelations(ctx context.Context, contact models.Contact) (*ContactWithRelations, error) {
	out := ContactWithRelations{Contact: contact}

	if err := s.db.WithContext(ctx).First(&out.Block, contact.BlockID).Error; err != nil {
		return nil, err
	}

	var creator models.User

	if err := s.db.WithContext(ctx).First(&creator, contact.CreatedByID).Error; err != nil {
		return nil, err
	}

	out.CreatedBy = userRef(creator)

	return &out, nil
}
