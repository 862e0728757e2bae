package http

import (
	"net/http"
	"strings"
	"time"

	"agromarket/internal/core/application/lifecycle"
	"agromarket/internal/core/application/usecases/commands"
	"agromarket/internal/core/application/usecases/queries"
	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type Order struct {
	ID                string       `json:"id"`
	Status            order.Status `json:"status"`
	Progress          int          `json:"progress"`
	Customer          string       `json:"customer"`
	Total             string       `json:"total"`
	Items             []string     `json:"items"`
	Location          string       `json:"location"`
	Date              string       `json:"date"`
	EstimatedDelivery string       `json:"estimatedDelivery"`
	CreatedAt         time.Time    `json:"createdAt"`
	LastModified      *time.Time   `json:"lastModified,omitempty"`
}

type NewOrder struct {
	Customer string   `json:"customer"`
	Total    string   `json:"total"`
	Items    []string `json:"items"`
	Location string   `json:"location"`
}

// OrderChanges is the PATCH body. Absent fields are left unchanged.
type OrderChanges struct {
	Customer          *string  `json:"customer"`
	Total             *string  `json:"total"`
	Items             []string `json:"items"`
	Location          *string  `json:"location"`
	EstimatedDelivery *string  `json:"estimatedDelivery"`
}

type StatusChange struct {
	Status order.Status `json:"status"`
}

type OrderStatistics struct {
	TotalOrders     int                  `json:"totalOrders"`
	CompletedOrders int                  `json:"completedOrders"`
	PendingOrders   int                  `json:"pendingOrders"`
	TotalValue      kernel.Money         `json:"totalValue"`
	CompletionRate  float64              `json:"completionRate"`
	ByStatus        map[order.Status]int `json:"byStatus"`
}

// GetOrders handles GET /api/v1/orders. Any of status, customer, from, to, min and max switch
// to the filter; q searches the result.
func (s *Server) GetOrders(ctx echo.Context) error {
	criteria := queries.OrderCriteria{
		Status:    order.Status(ctx.QueryParam("status")),
		Customer:  ctx.QueryParam("customer"),
		MinAmount: ctx.QueryParam("min"),
		MaxAmount: ctx.QueryParam("max"),
	}

	var err error
	if criteria.From, err = parseDate("from", ctx.QueryParam("from")); err != nil {
		return s.fail(ctx, err)
	}
	if criteria.To, err = parseDate("to", ctx.QueryParam("to")); err != nil {
		return s.fail(ctx, err)
	}

	var orders []*order.Order
	if criteria == (queries.OrderCriteria{}) {
		orders = s.orders.List()
	} else {
		q, qErr := queries.NewFilterOrdersQuery(criteria)
		if qErr != nil {
			return s.fail(ctx, qErr)
		}
		if orders, err = s.orders.Filter(q); err != nil {
			return s.fail(ctx, err)
		}
	}

	search := ctx.QueryParam("q")
	response := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Matches(search) {
			response = append(response, toOrder(o))
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders. Blank fields get the order defaults.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateOrderCommand(body.Customer, body.Total, body.Items, body.Location)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.orders.Create(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrder(created))
}

func (s *Server) GetOrderStatistics(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, toOrderStatistics(s.orders.Statistics()))
}

func (s *Server) GetOrder(ctx echo.Context) error {
	o, err := s.orders.GetByID(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// UpdateOrder handles PATCH /api/v1/orders/:id. The status cannot be changed here.
func (s *Server) UpdateOrder(ctx echo.Context) error {
	var body OrderChanges
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	changes := order.Changes{
		Customer: body.Customer,
		Total:    body.Total,
		Items:    body.Items,
		Location: body.Location,
	}
	if body.EstimatedDelivery != nil {
		at, err := parseDate("estimatedDelivery", *body.EstimatedDelivery)
		if err != nil {
			return s.fail(ctx, err)
		}
		changes.EstimatedDelivery = &at
	}

	cmd, err := commands.NewUpdateOrderCommand(ctx.Param("id"), changes)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.orders.Update(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(updated))
}

// SetOrderStatus handles PUT /api/v1/orders/:id/status. Any status is accepted.
func (s *Server) SetOrderStatus(ctx echo.Context) error {
	var body StatusChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if strings.TrimSpace(string(body.Status)) == "" {
		return s.fail(ctx, errs.NewValueIsRequiredError("status"))
	}

	cmd, err := commands.NewChangeOrderStatusCommand(ctx.Param("id"), body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.orders.SetStatus(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(updated))
}

// AdvanceOrder handles POST /api/v1/orders/:id/advance. Without a body the order moves to
// the next status.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	var body StatusChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(ctx.Param("id"), body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.orders.Advance(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(updated))
}

func (s *Server) DeleteOrder(ctx echo.Context) error {
	if _, err := s.orders.Remove(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func toOrder(o *order.Order) Order {
	resp := Order{
		ID:                o.ID(),
		Status:            o.Status(),
		Progress:          o.Progress(),
		Customer:          o.Customer(),
		Total:             o.Total(),
		Items:             o.Items(),
		Location:          o.Location(),
		Date:              o.Date().Format(time.DateOnly),
		EstimatedDelivery: o.EstimatedDelivery().Format(time.DateOnly),
		CreatedAt:         o.CreatedAt(),
	}
	if resp.Items == nil {
		resp.Items = []string{}
	}
	if modified := o.LastModified(); !modified.IsZero() {
		resp.LastModified = &modified
	}
	return resp
}

func toOrderStatistics(st lifecycle.Statistics) OrderStatistics {
	return OrderStatistics{
		TotalOrders:     st.TotalOrders,
		CompletedOrders: st.CompletedOrders,
		PendingOrders:   st.PendingOrders,
		TotalValue:      st.TotalValue,
		CompletionRate:  st.CompletionRate,
		ByStatus:        st.ByStatus,
	}
}

// parseDate reads a YYYY-MM-DD value. Empty input is the zero time.
func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return t, nil
}
