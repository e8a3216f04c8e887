package queries

import (
	"context"

	"orderledger/internal/adapters/out/postgres/timelinerepo"
	"orderledger/internal/core/domain/model/timeline"
	"orderledger/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderTimelineQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderTimelineQueryHandler(db *gorm.DB) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError when the order does not exist, and an
// empty list for an order without events.
func (h GetOrderTimelineQueryHandler) Handle(ctx context.Context, query GetOrderTimelineQuery) (*GetOrderTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	resp := &GetOrderTimelineQueryResponse{OrderID: query.OrderID(), Events: make([]*timeline.Event, 0)}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		err := tx.Raw(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = ?)`, query.OrderID().Bytes()).
			Scan(&exists).Error
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewObjectNotFoundError("order", query.OrderID().String())
		}

		var dtos []timelinerepo.EventDTO
		err = tx.Raw(`
			SELECT id, seq, order_id, action, status, actor, notes, metadata, created_at
			FROM timeline_events
			WHERE order_id = ?
			ORDER BY seq
		`, query.OrderID().Bytes()).Scan(&dtos).Error
		if err != nil {
			return err
		}

		for _, dto := range dtos {
			e, err := timelinerepo.ToDomain(dto)
			if err != nil {
				return err
			}
			resp.Events = append(resp.Events, e)
		}
		return nil
	}, readOnlySnapshot())
	if err != nil {
		return nil, err
	}

	return resp, nil
}
