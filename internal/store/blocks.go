package store

import (
	"context"
	"errors"

	"github.com/dawat-dev/dawat/internal/models"
	"gorm.io/gorm"
)

type BlockSummary struct {
	models.Block
	ContactCount int64 `json:"contact_count"`
	VisitCount   int64 `json:"visit_count"`
}

type BlockContact struct {
	models.Contact
	VisitCount int64 `json:"visit_count"`
}

type BlockDetail struct {
	models.Block
	Contacts     []BlockContact `json:"contacts"`
	ContactCount int64          `json:"contact_count"`
	VisitCount   int64          `json:"visit_count"`
}

// ListBlocks returns every block ordered by name, each with its contact and
// visit counts attached.
func (s *Store) ListBlocks(ctx context.Context) ([]BlockSummary, error) {
	var blocks []models.Block

	if err := s.db.WithContext(ctx).Order("name ASC").Find(&blocks).Error; err != nil {
		return nil, err
	}

	summaries := make([]BlockSummary, 0, len(blocks))

	for _, block := range blocks {
		summary := BlockSummary{Block: block}

		if err := s.db.WithContext(ctx).Model(&models.Contact{}).
			Where("block_id = ?", block.ID).
			Count(&summary.ContactCount).Error; err != nil {
			return nil, err
		}

		if err := s.db.WithContext(ctx).Model(&models.Visit{}).
			Where("block_id = ?", block.ID).
			Count(&summary.VisitCount).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetBlock returns the block with its contacts (name order, each annotated
// with its visit count) and aggregate counts. A missing id yields (nil, nil).
func (s *Store) GetBlock(ctx context.Context, id uint) (*BlockDetail, error) {
	var block models.Block

	err := s.db.WithContext(ctx).First(&block, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var contacts []models.Contact

	if err := s.db.WithContext(ctx).
		Where("block_id = ?", block.ID).
		Order("name ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}

	detail := BlockDetail{
		Block:        block,
		Contacts:     make([]BlockContact, 0, len(contacts)),
		ContactCount: int64(len(contacts)),
	}

	for _, contact := range contacts {
		annotated := BlockContact{Contact: contact}

		if err := s.db.WithContext(ctx).Model(&models.Visit{}).
			Where("contact_id = ?", contact.ID).
			Count(&annotated.VisitCount).Error; err != nil {
			return nil, err
		}

		detail.Contacts = append(detail.Contacts, annotated)
	}

	if err := s.db.WithContext(ctx).Model(&models.Visit{}).
		Where("block_id = ?", block.ID).
		Count(&detail.VisitCount).Error; err != nil {
		return nil, err
	}

	return &detail, nil
}

type CreateBlockParams struct {
	Name        string
	Description string
}

func (s *Store) CreateBlock(ctx context.Context, params CreateBlockParams) (*models.Block, error) {
	block := models.Block{
		Name:        params.Name,
		Description: params.Description,
	}

	if err := s.db.WithContext(ctx).Create(&block).Error; err != nil {
		return nil, err
	}

	return &block, nil
}

type UpdateBlockParams struct {
	Name        *string
	Description *string
}

// UpdateBlock applies the supplied fields only. A missing id yields
// (nil, nil).
func (s *Store) UpdateBlock(ctx context.Context, id uint, params UpdateBlockParams) (*models.Block, error) {
	var block models.Block

	err := s.db.WithContext(ctx).First(&block, id).Error

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

	if params.Description != nil {
		updates["description"] = *params.Description
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&block).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &block, nil
}

// DeleteBlock removes the block. Blocks still referenced by contacts or
// visits fail with gorm.ErrForeignKeyViolated; a missing id fails with
// gorm.ErrRecordNotFound.
func (s *Store) DeleteBlock(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Block{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// BlockStats computes the dashboard counts scoped to one block. A missing id
// yields (nil, nil).
func (s *Store) BlockStats(ctx context.Context, blockID uint) (*Stats, error) {
	var block models.Block

	err := s.db.WithContext(ctx).Select("id").First(&block, blockID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return s.stats(ctx, &blockID)
}
