package order

import (
	"errors"
	"fmt"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem")

// LineItem is an immutable line of an order.
type LineItem struct {
	sku       string
	name      string
	quantity  int
	unitPrice kernel.Money
	guard     guard.ConstructorGuard
}

func NewLineItem(sku, name string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	item := LineItem{
		sku:       strings.TrimSpace(sku),
		name:      strings.TrimSpace(name),
		quantity:  quantity,
		unitPrice: unitPrice,
		guard:     guard.NewConstructorGuard(),
	}

	var problems []error
	if item.sku == "" {
		problems = append(problems, errs.NewValueIsRequiredError("sku"))
	}
	if item.name == "" {
		problems = append(problems, errs.NewValueIsRequiredError("name"))
	}
	if quantity <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if err := errors.Join(problems...); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i LineItem) SKU() string             { return i.sku }
func (i LineItem) Name() string            { return i.name }
func (i LineItem) Quantity() int           { return i.quantity }
func (i LineItem) UnitPrice() kernel.Money { return i.unitPrice }

// LineTotal is unit price times quantity.
func (i LineItem) LineTotal() kernel.Money {
	total, _ := i.unitPrice.MulRate(decimal.NewFromInt(int64(i.quantity)))
	return total
}
