package queries_test

import (
	"testing"
	"time"

	"agromarket/internal/core/application/usecases/queries"
	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, time.January, 20, 10, 0, 0, 0, time.UTC)

func restore(t *testing.T, id string, status order.Status, customer, total string, date time.Time) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(order.Snapshot{
		ID:       id,
		Status:   status,
		Customer: customer,
		Total:    total,
		Date:     date,
	})
	require.NoError(t, err)
	return o
}

func TestFilterOrdersQuery_Matches(t *testing.T) {
	placed := restore(t, "ORD-005", order.Placed, "Agricultor Luis Martínez", "₹22,300", day)
	delivered := restore(t, "ORD-001", order.Delivered, "Agricultor Juan Pérez", "₹15,000", day.AddDate(0, 0, -5))
	broken := restore(t, "ORD-009", order.Placed, "Agricultor Ana", "N/A", day)

	testCases := []struct {
		name     string
		criteria queries.OrderCriteria
		expected []bool
	}{
		{"empty criteria match everything", queries.OrderCriteria{}, []bool{true, true, true}},
		{"status equality", queries.OrderCriteria{Status: order.Placed}, []bool{true, false, true}},
		{"customer substring", queries.OrderCriteria{Customer: "JUAN"}, []bool{false, true, false}},
		{"inclusive date range", queries.OrderCriteria{From: day.AddDate(0, 0, -5), To: day.AddDate(0, 0, -5)}, []bool{false, true, false}},
		{"inclusive amount range", queries.OrderCriteria{MinAmount: "₹15,000", MaxAmount: "15000"}, []bool{false, true, false}},
		{"malformed totals are excluded by amount bounds", queries.OrderCriteria{MinAmount: "0"}, []bool{true, true, false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := queries.NewFilterOrdersQuery(tc.criteria)
			require.NoError(t, err)
			require.NoError(t, q.Validate())

			got := []bool{q.Matches(placed), q.Matches(delivered), q.Matches(broken)}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNewFilterOrdersQuery_Errors(t *testing.T) {
	_, err := queries.NewFilterOrdersQuery(queries.OrderCriteria{MinAmount: "₹abc"})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = queries.NewFilterOrdersQuery(queries.OrderCriteria{MinAmount: "200", MaxAmount: "100"})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = queries.NewFilterOrdersQuery(queries.OrderCriteria{From: day, To: day.AddDate(0, 0, -1)})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	var zero queries.FilterOrdersQuery
	require.ErrorIs(t, zero.Validate(), queries.ErrFilterOrdersQueryIsNotConstructed)
}
