package timelinerepo

import (
	"context"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/timeline"

	"gorm.io/gorm"
)

// GormTimelineRepository implements ports.TimelineRepository.
type GormTimelineRepository struct {
	db *gorm.DB
}

func NewGormTimelineRepository(db *gorm.DB) *GormTimelineRepository {
	return &GormTimelineRepository{db: db}
}

func (r *GormTimelineRepository) Append(ctx context.Context, event *timeline.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormTimelineRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*timeline.Event, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EventDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("seq").Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]*timeline.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := ToDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
