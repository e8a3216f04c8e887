package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/application/usecases/queries"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Handlers groups the use cases the HTTP surface exposes.
type Handlers struct {
	CreateOrder        commands.CreateOrderCommandHandler
	TransitionOrder    commands.TransitionOrderCommandHandler
	SetPaymentStatus   commands.SetPaymentStatusCommandHandler
	RequestRefund      commands.RequestRefundCommandHandler
	ContributeToFund   commands.ContributeToFundCommandHandler
	WithdrawFromFund   commands.WithdrawFromFundCommandHandler
	GetOrder           queries.GetOrderQueryHandler
	ListOrders         queries.ListOrdersQueryHandler
	GetOrderTimeline   queries.GetOrderTimelineQueryHandler
	GetFundBalance     queries.GetFundBalanceQueryHandler
	ListTransactions   queries.ListFundTransactionsQueryHandler
	GetFundAnalytics   queries.GetFundAnalyticsQueryHandler
	GetFundHealth      queries.GetFundHealthQueryHandler
	VerifyFundChain    queries.VerifyFundChainQueryHandler
	ProjectFundBalance queries.ProjectFundBalanceQueryHandler

	// Ping reports whether the database is reachable. Optional.
	Ping func(ctx context.Context) error
}

// Server translates HTTP requests into commands and queries. Handlers return
// core errors as they are; ErrorHandler renders them.
type Server struct {
	h   Handlers
	now func() time.Time
}

func NewServer(h Handlers) *Server {
	return &Server{h: h, now: time.Now}
}

// RegisterRoutes mounts the API under /api/v1. Mutating routes resolve the
// actor through ActorMiddleware(jwtSecret).
func (s *Server) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	auth := ActorMiddleware(jwtSecret)

	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder, auth)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/transitions", s.TransitionOrder, auth)
	api.POST("/orders/:id/payment-status", s.SetPaymentStatus, auth)
	api.POST("/orders/:id/refunds", s.RequestRefund, auth)
	api.GET("/orders/:id/timeline", s.GetOrderTimeline)

	api.GET("/funds/:tenant_id/balance", s.GetFundBalance)
	api.GET("/funds/:tenant_id/transactions", s.ListFundTransactions)
	api.GET("/funds/:tenant_id/analytics", s.GetFundAnalytics)
	api.GET("/funds/:tenant_id/health", s.GetFundHealth)
	api.GET("/funds/:tenant_id/verify", s.VerifyFundChain)
	api.POST("/funds/:tenant_id/contributions", s.ContributeToFund, auth)
	api.POST("/funds/:tenant_id/withdrawals", s.WithdrawFromFund, auth)
	api.POST("/funds/:tenant_id/projections", s.ProjectFundBalance)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	if s.h.Ping != nil {
		if err := s.h.Ping(c.Request().Context()); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	tenantID, err := parseID("tenant_id", req.TenantID)
	if err != nil {
		return err
	}
	shipping, err := money("shipping_cost", req.ShippingCost)
	if err != nil {
		return err
	}
	items := make([]commands.LineItemInput, 0, len(req.Items))
	for i, item := range req.Items {
		price, err := money(fmt.Sprintf("items[%d].unit_price", i), item.UnitPrice)
		if err != nil {
			return err
		}
		items = append(items, commands.LineItemInput{
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(tenantID, req.OrderNumber, items, shipping,
		req.CustomerRef, req.ShippingRef, actorOf(c, req.Actor))
	if err != nil {
		return err
	}
	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newOrderResponse(o))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := parseID("id", c.Param("id"))
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}
	resp, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(resp.Order))
}

// ListOrders handles GET /api/v1/orders?tenant_id=&status=&payment_status=&limit=&offset=.
func (s *Server) ListOrders(c echo.Context) error {
	var limit, offset int
	if err := bindQuery(echo.QueryParamsBinder(c).
		Int("limit", &limit).
		Int("offset", &offset)); err != nil {
		return err
	}
	page, err := queries.NewPage(limit, offset)
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(queries.OrderFilter{
		TenantID:      c.QueryParam("tenant_id"),
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
	}, page)
	if err != nil {
		return err
	}
	resp, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	out := OrderListResponse{
		Orders: make([]OrderResponse, 0, len(resp.Orders)),
		Total:  resp.Total,
		Limit:  resp.Page.Limit,
		Offset: resp.Page.Offset,
	}
	for _, o := range resp.Orders {
		out.Orders = append(out.Orders, newOrderResponse(o))
	}
	return c.JSON(http.StatusOK, out)
}

// TransitionOrder handles POST /api/v1/orders/:id/transitions.
func (s *Server) TransitionOrder(c echo.Context) error {
	orderID, err := parseID("id", c.Param("id"))
	if err != nil {
		return err
	}
	var req TransitionRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	quotation, err := money("quotation_amount", req.QuotationAmount)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, req.Action, req.Notes, actorOf(c, req.Actor),
		order.TransitionInput{
			Reason:      req.Reason,
			VendorRef:   req.VendorRef,
			Quotation:   quotation,
			TrackingRef: req.TrackingRef,
		})
	if err != nil {
		return err
	}
	o, err := s.h.TransitionOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(o))
}

// SetPaymentStatus handles POST /api/v1/orders/:id/payment-status.
func (s *Server) SetPaymentStatus(c echo.Context) error {
	orderID, err := parseID("id", c.Param("id"))
	if err != nil {
		return err
	}
	var req PaymentStatusRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSetPaymentStatusCommand(orderID, req.PaymentStatus, req.Notes, actorOf(c, req.Actor))
	if err != nil {
		return err
	}
	o, err := s.h.SetPaymentStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(o))
}

// RequestRefund handles POST /api/v1/orders/:id/refunds. refund_request_id
// makes the call idempotent: repeating a completed request returns the
// refunded order again.
func (s *Server) RequestRefund(c echo.Context) error {
	orderID, err := parseID("id", c.Param("id"))
	if err != nil {
		return err
	}
	var req RefundRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	refundRequestID, err := parseID("refund_request_id", req.RefundRequestID)
	if err != nil {
		return err
	}
	amount, err := money("amount", req.Amount)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRequestRefundCommand(orderID, refundRequestID, amount, actorOf(c, req.Actor), req.Notes)
	if err != nil {
		return err
	}
	o, err := s.h.RequestRefund.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(o))
}

// GetOrderTimeline handles GET /api/v1/orders/:id/timeline.
func (s *Server) GetOrderTimeline(c echo.Context) error {
	orderID, err := parseID("id", c.Param("id"))
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderTimelineQuery(orderID)
	if err != nil {
		return err
	}
	resp, err := s.h.GetOrderTimeline.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTimelineResponse(resp))
}

// GetFundBalance handles GET /api/v1/funds/:tenant_id/balance.
func (s *Server) GetFundBalance(c echo.Context) error {
	tenantID, err := parseID("tenant_id", c.Param("tenant_id"))
	if err != nil {
		return err
	}
	query, err := queries.NewGetFundBalanceQuery(tenantID)
	if err != nil {
		return err
	}
	resp, err := s.h.GetFundBalance.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BalanceResponse{
		TenantID:          resp.TenantID.String(),
		Balance:           resp.Balance.String(),
		TransactionCount:  resp.TransactionCount,
		LastTransactionAt: resp.LastTransactionAt,
	})
}

// ListFundTransactions handles
// GET /api/v1/funds/:tenant_id/transactions?type=&from=&to=&limit=&offset=.
// from and to are RFC 3339 timestamps.
func (s *Server) ListFundTransactions(c echo.Context) error {
	tenantID, err := parseID("tenant_id", c.Param("tenant_id"))
	if err != nil {
		return err
	}
	var (
		limit, offset int
		from, to      time.Time
	)
	if err = bindQuery(echo.QueryParamsBinder(c).
		Int("limit", &limit).
		Int("offset", &offset).
		Time("from", &from, time.RFC3339).
		Time("to", &to, time.RFC3339)); err != nil {
		return err
	}
	page, err := queries.NewPage(limit, offset)
	if err != nil {
		return err
	}

	query, err := queries.NewListFundTransactionsQuery(tenantID, queries.TransactionFilter{
		Type: c.QueryParam("type"),
		From: from,
		To:   to,
	}, page)
	if err != nil {
		return err
	}
	resp, err := s.h.ListTransactions.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	out := TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(resp.Transactions)),
		Total:        resp.Total,
		Limit:        resp.Page.Limit,
		Offset:       resp.Page.Offset,
	}
	for _, tx := range resp.Transactions {
		out.Transactions = append(out.Transactions, newTransactionResponse(tx))
	}
	return c.JSON(http.StatusOK, out)
}

// GetFundAnalytics handles GET /api/v1/funds/:tenant_id/analytics?from=&to=.
func (s *Server) GetFundAnalytics(c echo.Context) error {
	tenantID, err := parseID("tenant_id", c.Param("tenant_id"))
	if err != nil {
		return err
	}
	var from, to time.Time
	if err = bindQuery(echo.QueryParamsBinder(c).
		Time("from", &from, time.RFC3339).
		Time("to", &to, time.RFC3339)); err != nil {
		return err
	}

	query, err := queries.NewGetFundAnalyticsQuery(tenantID, from, to, s.now())
	if err != nil {
		return err
	}
	analytics, err := s.h.GetFundAnalytics.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAnalyticsResponse(analytics))
}

// GetFundHealth handles GET /api/v1/funds/:tenant_id/health.
func (s *Server) GetFundHealth(c echo.Context) error {
	tenantID, err := parseID("tenant_id", c.Param("tenant_id"))
	if err != nil {
		return err
	}
	query, err := queries.NewGetFundHealthQuery(tenantID)
	if err != nil {
		return err
	}
	health, err := s.h.GetFundHealth.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newHealthResponse(health))
}

// VerifyFundChain handles GET /api/v1/funds/:tenant_id/verify.
func (s *Server) VerifyFundChain(c echo.Context) error {
	tenantID, err := parseID("tenant_id", c.Param("tenant_id"))
	if err != nil {
		return err
	}
	query, err := queries.NewVerifyFundChainQuery(tenantID)
	if err != nil {
		return err
	}
	resp, err := s.h.VerifyFundChain.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newChainResponse(resp))
}

// ContributeToFund handles POST /api/v1/funds/:tenant_id/contributions.
func (s *Server) ContributeToFund(c echo.Context) error {
	tenantID, err := parseID("tenant_id", c.Param("tenant_id"))
	if err != nil {
		return err
	}
	var req ContributionRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	amount, err := money("amount", req.Amount)
	if err != nil {
		return err
	}
	var orderID *kernel.UUID
	if strings.TrimSpace(req.OrderID) != "" {
		id, err := parseID("order_id", req.OrderID)
		if err != nil {
			return err
		}
		orderID = &id
	}

	cmd, err := commands.NewContributeToFundCommand(tenantID, amount, req.Description, orderID)
	if err != nil {
		return err
	}
	tx, err := s.h.ContributeToFund.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newTransactionResponse(tx))
}

// WithdrawFromFund handles POST /api/v1/funds/:tenant_id/withdrawals: a manual
// debit for a refund request settled outside the order flow. Order refunds go
// through /orders/:id/refunds.
func (s *Server) WithdrawFromFund(c echo.Context) error {
	tenantID, err := parseID("tenant_id", c.Param("tenant_id"))
	if err != nil {
		return err
	}
	var req WithdrawalRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	amount, err := money("amount", req.Amount)
	if err != nil {
		return err
	}
	refundRequestID, err := parseID("refund_request_id", req.RefundRequestID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewWithdrawFromFundCommand(tenantID, amount, req.Description, refundRequestID)
	if err != nil {
		return err
	}
	tx, err := s.h.WithdrawFromFund.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newTransactionResponse(tx))
}

// ProjectFundBalance handles POST /api/v1/funds/:tenant_id/projections. It
// reads only; POST carries the per-period expectations.
func (s *Server) ProjectFundBalance(c echo.Context) error {
	tenantID, err := parseID("tenant_id", c.Param("tenant_id"))
	if err != nil {
		return err
	}
	var req ProjectionRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	inputs := make([]fund.ProjectionInput, 0, len(req.Periods))
	for i, p := range req.Periods {
		aov, err := money(fmt.Sprintf("periods[%d].average_order_value", i), p.AverageOrderValue)
		if err != nil {
			return err
		}
		refunds, err := money(fmt.Sprintf("periods[%d].expected_refunds", i), p.ExpectedRefunds)
		if err != nil {
			return err
		}
		inputs = append(inputs, fund.ProjectionInput{
			Period:            p.Period,
			ExpectedOrders:    p.ExpectedOrders,
			AverageOrderValue: aov,
			ExpectedRefunds:   refunds,
		})
	}

	query, err := queries.NewProjectFundBalanceQuery(tenantID, inputs)
	if err != nil {
		return err
	}
	resp, err := s.h.ProjectFundBalance.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProjectionResponse(resp))
}

func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errs.NewValidationErrorWithCause("body", "malformed request body", err)
	}
	return nil
}

func bindQuery(b *echo.ValueBinder) error {
	if err := b.BindError(); err != nil {
		return errs.NewValidationErrorWithCause("query", "malformed query parameter", err)
	}
	return nil
}

func parseID(field, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(strings.TrimSpace(raw))
	if err != nil {
		return kernel.UUID{}, errs.NewValidationErrorWithCause(field, "must be a UUID", err)
	}
	return id, nil
}

func money(field string, d decimal.Decimal) (kernel.Money, error) {
	m, err := kernel.NewMoney(d)
	if err != nil {
		return kernel.Money{}, errs.NewValidationErrorWithCause(field, "must be a non-negative amount", err)
	}
	return m, nil
}
