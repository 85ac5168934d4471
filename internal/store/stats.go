package store

import (
	"context"
	"time"

	"github.com/dawat-dev/dawat/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// RecentVisitWindow is the trailing window counted as "recent" by the
// dashboard statistics.
const RecentVisitWindow = 7 * 24 * time.Hour

// Stats is the aggregate dashboard record, either global or scoped to one
// block.
type Stats struct {
	TotalContacts      int64 `json:"total_contacts"`
	MuslimContacts     int64 `json:"muslim_contacts"`
	InterestedContacts int64 `json:"interested_contacts"`
	RecentVisits       int64 `json:"recent_visits"`
}

// ContactStats computes the global dashboard counts.
func (s *Store) ContactStats(ctx context.Context) (*Stats, error) {
	return s.stats(ctx, nil)
}

// stats runs the four counts concurrently. They do not share a snapshot;
// minor skew between counts taken at slightly different instants is accepted.
func (s *Store) stats(ctx context.Context, blockID *uint) (*Stats, error) {
	since := time.Now().Add(-RecentVisitWindow)

	var stats Stats

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.scopedContacts(gctx, blockID).Count(&stats.TotalContacts).Error
	})

	g.Go(func() error {
		return s.scopedContacts(gctx, blockID).
			Where("is_muslim = ?", true).
			Count(&stats.MuslimContacts).Error
	})

	g.Go(func() error {
		return s.scopedContacts(gctx, blockID).
			Where("is_interested = ?", true).
			Count(&stats.InterestedContacts).Error
	})

	g.Go(func() error {
		tx := s.db.WithContext(gctx).Model(&models.Visit{}).Where("visit_date >= ?", since)

		if blockID != nil {
			tx = tx.Where("block_id = ?", *blockID)
		}

		return tx.Count(&stats.RecentVisits).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *Store) scopedContacts(ctx context.Context, blockID *uint) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.Contact{})

	if blockID != nil {
		tx = tx.Where("block_id = ?", *blockID)
	}

	return tx
}
