// Package orderrepo persists order aggregates in the orders table.
package orderrepo

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// uniqueNumberIndex backs the per-tenant order number uniqueness.
const uniqueNumberIndex = "idx_orders_tenant_number"

// OrderDTO is the orders row. Status and payment status are stored by name so
// that ad hoc SQL stays readable.
type OrderDTO struct {
	ID            uuid.UUID                        `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID                        `gorm:"type:uuid;not null;uniqueIndex:idx_orders_tenant_number,priority:1;index:idx_orders_tenant_status,priority:1"`
	Number        string                           `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_tenant_number,priority:2"`
	Items         datatypes.JSONSlice[LineItemDTO] `gorm:"type:jsonb;not null"`
	Subtotal      decimal.Decimal                  `gorm:"type:numeric(18,2);not null"`
	ShippingCost  decimal.Decimal                  `gorm:"type:numeric(18,2);not null"`
	Total         decimal.Decimal                  `gorm:"type:numeric(18,2);not null"`
	Status        string                           `gorm:"type:varchar(32);not null;index:idx_orders_tenant_status,priority:2;index:idx_orders_status_entered,priority:1"`
	PaymentStatus string                           `gorm:"type:varchar(32)"`
	CustomerRef   string                           `gorm:"type:varchar(128)"`
	ShippingRef   string                           `gorm:"type:varchar(128)"`
	VendorRef     string                           `gorm:"type:varchar(128)"`
	Quotation     decimal.Decimal                  `gorm:"column:quotation_amount;type:numeric(18,2);not null;default:0"`
	CreatedAt     time.Time                        `gorm:"not null;autoCreateTime:false;index"`
	UpdatedAt     time.Time                        `gorm:"not null;autoUpdateTime:false"`
	Version       int                              `gorm:"not null"`

	StatusEnteredAt time.Time  `gorm:"column:status_entered_at;index:idx_orders_status_entered,priority:2"`
	SLABreachedAt   *time.Time `gorm:"column:sla_breached_at"`
	SLAEscalations  int        `gorm:"column:sla_escalations;not null;default:0"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of the items JSON column.
type LineItemDTO struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func fromDomain(o *order.Order) OrderDTO {
	items := make([]LineItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, LineItemDTO{
			SKU:       item.SKU(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}

	return OrderDTO{
		ID:            o.ID().Bytes(),
		TenantID:      o.TenantID().Bytes(),
		Number:        o.Number(),
		Items:         items,
		Subtotal:      o.Subtotal().Decimal(),
		ShippingCost:  o.ShippingCost().Decimal(),
		Total:         o.Total().Decimal(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		CustomerRef:   o.CustomerRef(),
		ShippingRef:   o.ShippingRef(),
		VendorRef:     o.VendorRef(),
		Quotation:     o.Quotation().Decimal(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		Version:       o.Version(),

		StatusEnteredAt: o.StatusEnteredAt(),
		SLABreachedAt:   optionalTime(o.SLABreachedAt()),
		SLAEscalations:  o.SLAEscalations(),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ToDomain rehydrates an orders row. Exported for the query side.
func ToDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		price, priceErr := kernel.NewMoney(item.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		li, itemErr := order.NewLineItem(item.SKU, item.Name, item.Quantity, price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, li)
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	payment := order.PaymentUnset
	if dto.PaymentStatus != "" {
		if payment, err = order.ParsePaymentStatus(dto.PaymentStatus); err != nil {
			return nil, err
		}
	}

	subtotal, subErr := kernel.NewMoney(dto.Subtotal)
	shipping, shipErr := kernel.NewMoney(dto.ShippingCost)
	total, totalErr := kernel.NewMoney(dto.Total)
	quotation, quotationErr := kernel.NewMoney(dto.Quotation)
	if err = errors.Join(subErr, shipErr, totalErr, quotationErr); err != nil {
		return nil, err
	}
	var breachedAt time.Time
	if dto.SLABreachedAt != nil {
		breachedAt = *dto.SLABreachedAt
	}

	return order.RestoreOrder(order.Snapshot{
		ID:            id,
		TenantID:      tenantID,
		Number:        dto.Number,
		Items:         items,
		Subtotal:      subtotal,
		ShippingCost:  shipping,
		Total:         total,
		Status:        status,
		PaymentStatus: payment,
		CustomerRef:   dto.CustomerRef,
		ShippingRef:   dto.ShippingRef,
		VendorRef:     dto.VendorRef,
		Quotation:     quotation,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
		Version:       dto.Version,

		StatusEnteredAt: dto.StatusEnteredAt,
		SLABreachedAt:   breachedAt,
		SLAEscalations:  dto.SLAEscalations,
	})
}
