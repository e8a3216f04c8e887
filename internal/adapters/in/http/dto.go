package http

import (
	"time"

	"orderledger/internal/core/application/usecases/queries"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/timeline"

	"github.com/shopspring/decimal"
)

// Amounts travel as decimal strings ("1500.00"); requests also accept JSON
// numbers.

type LineItemRequest struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateOrderRequest struct {
	TenantID     string            `json:"tenant_id"`
	OrderNumber  string            `json:"order_number"`
	Items        []LineItemRequest `json:"items"`
	ShippingCost decimal.Decimal   `json:"shipping_cost"`
	CustomerRef  string            `json:"customer_ref"`
	ShippingRef  string            `json:"shipping_ref"`
	Actor        string            `json:"actor"`
}

// TransitionRequest moves an order. Cancellation needs reason (or notes),
// vendor_negotiation needs vendor_ref, customer_quotation a positive
// quotation_amount and shipped a tracking_ref, unless the order has them.
type TransitionRequest struct {
	Action          string          `json:"action"`
	Notes           string          `json:"notes"`
	Actor           string          `json:"actor"`
	Reason          string          `json:"reason"`
	VendorRef       string          `json:"vendor_ref"`
	QuotationAmount decimal.Decimal `json:"quotation_amount"`
	TrackingRef     string          `json:"tracking_ref"`
}

type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
	Notes         string `json:"notes"`
	Actor         string `json:"actor"`
}

type RefundRequest struct {
	RefundRequestID string          `json:"refund_request_id"`
	Amount          decimal.Decimal `json:"amount"`
	Notes           string          `json:"notes"`
	Actor           string          `json:"actor"`
}

type ContributionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id"`
}

type WithdrawalRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	RefundRequestID string          `json:"refund_request_id"`
}

type ProjectionPeriodRequest struct {
	Period            string          `json:"period"`
	ExpectedOrders    int             `json:"expected_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ExpectedRefunds   decimal.Decimal `json:"expected_refunds"`
}

type ProjectionRequest struct {
	Periods []ProjectionPeriodRequest `json:"periods"`
}

type LineItemResponse struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID                   string             `json:"id"`
	TenantID             string             `json:"tenant_id"`
	OrderNumber          string             `json:"order_number"`
	Items                []LineItemResponse `json:"items"`
	Subtotal             string             `json:"subtotal"`
	ShippingCost         string             `json:"shipping_cost"`
	Total                string             `json:"total"`
	Status               string             `json:"status"`
	PaymentStatus        string             `json:"payment_status,omitempty"`
	CustomerRef          string             `json:"customer_ref,omitempty"`
	ShippingRef          string             `json:"shipping_ref,omitempty"`
	VendorRef            string             `json:"vendor_ref,omitempty"`
	QuotationAmount      *string            `json:"quotation_amount,omitempty"`
	StatusEnteredAt      time.Time          `json:"status_entered_at"`
	SLABreachedAt        *time.Time         `json:"sla_breached_at,omitempty"`
	SLAEscalations       int                `json:"sla_escalations"`
	Version              int                `json:"version"`
	AvailableTransitions []string           `json:"available_transitions"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type TimelineEventResponse struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Status    string            `json:"status"`
	Actor     string            `json:"actor"`
	Notes     string            `json:"notes,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type TimelineResponse struct {
	OrderID string                  `json:"order_id"`
	Events  []TimelineEventResponse `json:"events"`
}

type TransactionResponse struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	Sequence        int64     `json:"sequence"`
	Type            string    `json:"type"`
	Amount          string    `json:"amount"`
	BalanceBefore   string    `json:"balance_before"`
	BalanceAfter    string    `json:"balance_after"`
	Description     string    `json:"description"`
	OrderID         *string   `json:"order_id,omitempty"`
	RefundRequestID *string   `json:"refund_request_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

type BalanceResponse struct {
	TenantID          string     `json:"tenant_id"`
	Balance           string     `json:"balance"`
	TransactionCount  int64      `json:"transaction_count"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
}

type MonthlyTrendResponse struct {
	Month            string `json:"month"`
	Contributions    string `json:"contributions"`
	Withdrawals      string `json:"withdrawals"`
	NetChange        string `json:"net_change"`
	TransactionCount int    `json:"transaction_count"`
}

type AnalyticsResponse struct {
	From                    time.Time              `json:"from"`
	To                      time.Time              `json:"to"`
	CurrentBalance          string                 `json:"current_balance"`
	TotalContributions      string                 `json:"total_contributions"`
	TotalWithdrawals        string                 `json:"total_withdrawals"`
	NetChange               string                 `json:"net_change"`
	TransactionCount        int                    `json:"transaction_count"`
	ContributionCount       int                    `json:"contribution_count"`
	WithdrawalCount         int                    `json:"withdrawal_count"`
	AverageContribution     string                 `json:"average_contribution"`
	AverageWithdrawalAmount string                 `json:"average_withdrawal_amount"`
	LargestWithdrawal       string                 `json:"largest_withdrawal"`
	UtilizationRate         string                 `json:"utilization_rate"`
	MonthlyTrend            []MonthlyTrendResponse `json:"monthly_trend"`
}

type HealthResponse struct {
	Status               string   `json:"status"`
	CurrentBalance       string   `json:"current_balance"`
	MinimumBalance       string   `json:"minimum_balance"`
	MonthlyBurnRate      string   `json:"monthly_burn_rate"`
	MonthsUntilDepletion *string  `json:"months_until_depletion"`
	ContributionRatio    *string  `json:"contribution_ratio"`
	Recommendations      []string `json:"recommendations"`
}

type ChainResponse struct {
	TenantID         string `json:"tenant_id"`
	Valid            bool   `json:"valid"`
	Checked          int    `json:"checked"`
	BrokenAtSequence *int64 `json:"broken_at_sequence,omitempty"`
	Reason           string `json:"reason,omitempty"`
	ComputedBalance  string `json:"computed_balance"`
	StoredBalance    string `json:"stored_balance"`
	BalanceMatches   bool   `json:"balance_matches"`
}

type ProjectionStepResponse struct {
	Period                string `json:"period"`
	StartingBalance       string `json:"starting_balance"`
	ExpectedContributions string `json:"expected_contributions"`
	ExpectedWithdrawals   string `json:"expected_withdrawals"`
	ProjectedBalance      string `json:"projected_balance"`
	RiskLevel             string `json:"risk_level"`
}

type ProjectionResponse struct {
	TenantID         string                   `json:"tenant_id"`
	CurrentBalance   string                   `json:"current_balance"`
	ContributionRate string                   `json:"contribution_rate"`
	MinimumBalance   string                   `json:"minimum_balance"`
	Periods          []ProjectionStepResponse `json:"periods"`
}

func newOrderResponse(o *order.Order) OrderResponse {
	items := make([]LineItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, LineItemResponse{
			SKU:       item.SKU(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
			LineTotal: item.LineTotal().String(),
		})
	}

	transitions := o.AvailableTransitions()
	available := make([]string, 0, len(transitions))
	for _, s := range transitions {
		available = append(available, s.String())
	}

	var quotation *string
	if !o.Quotation().IsZero() {
		q := o.Quotation().String()
		quotation = &q
	}
	var breachedAt *time.Time
	if !o.SLABreachedAt().IsZero() {
		t := o.SLABreachedAt()
		breachedAt = &t
	}

	return OrderResponse{
		ID:                   o.ID().String(),
		TenantID:             o.TenantID().String(),
		OrderNumber:          o.Number(),
		Items:                items,
		Subtotal:             o.Subtotal().String(),
		ShippingCost:         o.ShippingCost().String(),
		Total:                o.Total().String(),
		Status:               o.Status().String(),
		PaymentStatus:        o.PaymentStatus().String(),
		CustomerRef:          o.CustomerRef(),
		ShippingRef:          o.ShippingRef(),
		VendorRef:            o.VendorRef(),
		QuotationAmount:      quotation,
		StatusEnteredAt:      o.StatusEnteredAt(),
		SLABreachedAt:        breachedAt,
		SLAEscalations:       o.SLAEscalations(),
		Version:              o.Version(),
		AvailableTransitions: available,
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
	}
}

func newTimelineResponse(resp *queries.GetOrderTimelineQueryResponse) TimelineResponse {
	events := make([]TimelineEventResponse, 0, len(resp.Events))
	for _, e := range resp.Events {
		events = append(events, newTimelineEventResponse(e))
	}
	return TimelineResponse{OrderID: resp.OrderID.String(), Events: events}
}

func newTimelineEventResponse(e *timeline.Event) TimelineEventResponse {
	return TimelineEventResponse{
		ID:        e.ID().String(),
		Action:    string(e.Action()),
		Status:    e.Status(),
		Actor:     e.Actor(),
		Notes:     e.Notes(),
		Metadata:  e.Metadata(),
		CreatedAt: e.CreatedAt(),
	}
}

func newTransactionResponse(tx *fund.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID().String(),
		TenantID:        tx.TenantID().String(),
		Sequence:        tx.Sequence(),
		Type:            tx.Type().String(),
		Amount:          tx.Amount().String(),
		BalanceBefore:   tx.BalanceBefore().String(),
		BalanceAfter:    tx.BalanceAfter().String(),
		Description:     tx.Description(),
		OrderID:         optionalID(tx.OrderID()),
		RefundRequestID: optionalID(tx.RefundRequestID()),
		CreatedAt:       tx.CreatedAt(),
	}
}

func newAnalyticsResponse(a *fund.Analytics) AnalyticsResponse {
	trend := make([]MonthlyTrendResponse, 0, len(a.MonthlyTrend))
	for _, m := range a.MonthlyTrend {
		trend = append(trend, MonthlyTrendResponse{
			Month:            m.Month,
			Contributions:    m.Contributions.String(),
			Withdrawals:      m.Withdrawals.String(),
			NetChange:        m.NetChange.StringFixed(kernel.MoneyScale),
			TransactionCount: m.TransactionCount,
		})
	}

	return AnalyticsResponse{
		From:                    a.Period.From,
		To:                      a.Period.To,
		CurrentBalance:          a.CurrentBalance.String(),
		TotalContributions:      a.TotalContributions.String(),
		TotalWithdrawals:        a.TotalWithdrawals.String(),
		NetChange:               a.NetChange.StringFixed(kernel.MoneyScale),
		TransactionCount:        a.TransactionCount,
		ContributionCount:       a.ContributionCount,
		WithdrawalCount:         a.WithdrawalCount,
		AverageContribution:     a.AverageContribution.String(),
		AverageWithdrawalAmount: a.AverageWithdrawalAmount.String(),
		LargestWithdrawal:       a.LargestWithdrawal.String(),
		UtilizationRate:         a.UtilizationRate.StringFixed(2),
		MonthlyTrend:            trend,
	}
}

func newHealthResponse(h *fund.Health) HealthResponse {
	return HealthResponse{
		Status:               string(h.Status),
		CurrentBalance:       h.CurrentBalance.String(),
		MinimumBalance:       h.MinimumBalance.String(),
		MonthlyBurnRate:      h.MonthlyBurnRate.String(),
		MonthsUntilDepletion: optionalDecimal(h.MonthsUntilDepletion),
		ContributionRatio:    optionalDecimal(h.ContributionRatio),
		Recommendations:      h.Recommendations,
	}
}

func newChainResponse(resp *queries.VerifyFundChainQueryResponse) ChainResponse {
	out := ChainResponse{
		TenantID:        resp.TenantID.String(),
		Valid:           resp.Report.Valid,
		Checked:         resp.Report.Checked,
		Reason:          resp.Report.Reason,
		ComputedBalance: resp.Report.Balance.String(),
		StoredBalance:   resp.StoredBalance.String(),
		BalanceMatches:  resp.BalanceMatches,
	}
	if !resp.Report.Valid {
		at := resp.Report.BrokenAt
		out.BrokenAtSequence = &at
	}
	return out
}

func newProjectionResponse(resp *queries.ProjectFundBalanceQueryResponse) ProjectionResponse {
	steps := make([]ProjectionStepResponse, 0, len(resp.Steps))
	for _, s := range resp.Steps {
		steps = append(steps, ProjectionStepResponse{
			Period:                s.Period,
			StartingBalance:       s.StartingBalance.StringFixed(kernel.MoneyScale),
			ExpectedContributions: s.ExpectedContributions.String(),
			ExpectedWithdrawals:   s.ExpectedWithdrawals.String(),
			ProjectedBalance:      s.ProjectedBalance.StringFixed(kernel.MoneyScale),
			RiskLevel:             string(s.RiskLevel),
		})
	}

	return ProjectionResponse{
		TenantID:         resp.TenantID.String(),
		CurrentBalance:   resp.CurrentBalance.String(),
		ContributionRate: resp.ContributionRate.String(),
		MinimumBalance:   resp.MinimumBalance.String(),
		Periods:          steps,
	}
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalDecimal(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
