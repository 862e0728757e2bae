package lifecycle_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"agromarket/internal/core/application/lifecycle"
	"agromarket/internal/core/application/usecases/commands"
	"agromarket/internal/core/application/usecases/queries"
	"agromarket/internal/core/domain/events"
	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.January, 25, 15, 30, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) LoadAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func acceptingRepo(stored ...*order.Order) *MockOrderRepository {
	repo := new(MockOrderRepository)
	repo.On("LoadAll", mock.Anything).Return(stored, nil).Maybe()
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Maybe()
	repo.On("Update", mock.Anything, mock.Anything).Return(nil).Maybe()
	repo.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
	return repo
}

func newService(t *testing.T, repo *MockOrderRepository, opts ...lifecycle.Option) (*lifecycle.Service, *events.Bus) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	bus := events.NewBus(logger)
	opts = append([]lifecycle.Option{lifecycle.WithClock(func() time.Time { return now })}, opts...)
	return lifecycle.NewService(repo, bus, logger, opts...), bus
}

func create(t *testing.T, s *lifecycle.Service, customer, total string) *order.Order {
	t.Helper()

	cmd, err := commands.NewCreateOrderCommand(customer, total, []string{"Coco Verde"}, "")
	require.NoError(t, err)
	o, err := s.Create(t.Context(), cmd)
	require.NoError(t, err)
	return o
}

func statusCmd(t *testing.T, id string, status order.Status) commands.ChangeOrderStatusCommand {
	t.Helper()

	cmd, err := commands.NewChangeOrderStatusCommand(id, status)
	require.NoError(t, err)
	return cmd
}

func TestService_Create(t *testing.T) {
	t.Run("new order is Placed with progress 10", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())

		created := create(t, s, "Agricultor Juan Pérez", "₹100")
		got, err := s.GetByID(created.ID())

		require.NoError(t, err)
		assert.Equal(t, "ORD-001", got.ID())
		assert.Equal(t, order.Placed, got.Status())
		assert.Equal(t, 10, got.Progress())
		assert.Equal(t, now, s.LastUpdate())

		delay := got.EstimatedDelivery().Sub(got.CreatedAt())
		assert.GreaterOrEqual(t, delay, 7*24*time.Hour)
		assert.LessOrEqual(t, delay, 14*24*time.Hour)
	})

	t.Run("estimated delivery covers both ends of the range", func(t *testing.T) {
		for _, tc := range []struct {
			pick func(n int) int
			days int
		}{
			{func(int) int { return 0 }, 7},
			{func(n int) int { return n - 1 }, 14},
		} {
			s, _ := newService(t, acceptingRepo(), lifecycle.WithRandom(tc.pick))

			o := create(t, s, "Juan", "₹1")

			assert.Equal(t, now.AddDate(0, 0, tc.days), o.EstimatedDelivery())
		}
	})

	t.Run("orders are most recent first with sequential ids", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())

		create(t, s, "A", "₹100")
		create(t, s, "B", "₹200")

		list := s.List()
		require.Len(t, list, 2)
		assert.Equal(t, "ORD-002", list[0].ID())
		assert.Equal(t, "ORD-001", list[1].ID())
	})

	t.Run("ids are not reused after removal", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		create(t, s, "A", "₹100")
		second := create(t, s, "B", "₹200")

		_, err := s.Remove(t.Context(), "ORD-001")
		require.NoError(t, err)
		third := create(t, s, "C", "₹300")

		assert.Equal(t, "ORD-002", second.ID())
		assert.Equal(t, "ORD-003", third.ID())
	})

	t.Run("repository failure leaves the collection unchanged", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("LoadAll", mock.Anything).Return([]*order.Order{}, nil).Once()
		repo.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
		s, bus := newService(t, repo)
		published := 0
		events.Subscribe(bus, func(events.Event) { published++ })

		cmd, err := commands.NewCreateOrderCommand("Juan", "₹1", nil, "")
		require.NoError(t, err)
		_, err = s.Create(t.Context(), cmd)

		require.Error(t, err)
		assert.Zero(t, s.Count())
		assert.Zero(t, published)
		assert.True(t, s.LastUpdate().IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("ids continue after stored orders before the first refresh", func(t *testing.T) {
		stored, err := order.RestoreOrder(order.Snapshot{ID: "ORD-005", Customer: "Juan", Total: "₹15,000", Status: order.Delivered})
		require.NoError(t, err)
		s, _ := newService(t, acceptingRepo(stored))

		created := create(t, s, "Agricultor Pedro Sánchez", "₹5,000")

		assert.Equal(t, "ORD-006", created.ID())
		assert.Equal(t, 2, s.Count())
		assert.Equal(t, []string{"ORD-006", "ORD-005"}, []string{s.List()[0].ID(), s.List()[1].ID()})
	})

	t.Run("load failure before the first write is reported", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("LoadAll", mock.Anything).Return(nil, errors.New("connection refused")).Once()
		s, _ := newService(t, repo)

		cmd, err := commands.NewCreateOrderCommand("Juan", "₹1", nil, "")
		require.NoError(t, err)
		_, err = s.Create(t.Context(), cmd)

		require.ErrorContains(t, err, "connection refused")
		assert.Zero(t, s.Count())
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("unconstructed command is rejected", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())

		_, err := s.Create(t.Context(), commands.CreateOrderCommand{})

		require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	})
}

func TestService_SetStatus(t *testing.T) {
	t.Run("progress follows every status", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		o := create(t, s, "Juan", "₹100")

		for _, status := range order.Statuses() {
			updated, err := s.SetStatus(t.Context(), statusCmd(t, o.ID(), status))

			require.NoError(t, err)
			assert.Equal(t, status.Progress(), updated.Progress())
			got, err := s.GetByID(o.ID())
			require.NoError(t, err)
			assert.Equal(t, status.Progress(), got.Progress())
			assert.Equal(t, now, got.LastModified())
		}
	})

	t.Run("values outside the enumeration yield progress 0", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		o := create(t, s, "Juan", "₹100")

		updated, err := s.SetStatus(t.Context(), statusCmd(t, o.ID(), "Lost"))

		require.NoError(t, err)
		assert.Equal(t, 0, updated.Progress())
	})

	t.Run("unknown id fails with NotFound and changes nothing", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		create(t, s, "A", "₹100")
		create(t, s, "B", "₹200")
		before := s.List()

		_, err := s.SetStatus(t.Context(), statusCmd(t, "ORD-404", order.Delivered))

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, before, s.List())
	})

	t.Run("notification carries old and new status and sees the committed state", func(t *testing.T) {
		s, bus := newService(t, acceptingRepo())
		o := create(t, s, "Juan", "₹100")

		var received events.OrderUpdated
		var progressSeenByHandler int
		events.Subscribe(bus, func(e events.OrderUpdated) {
			received = e
			stored, err := s.GetByID(e.OrderID)
			require.NoError(t, err)
			progressSeenByHandler = stored.Progress()
		})

		_, err := s.SetStatus(t.Context(), statusCmd(t, o.ID(), order.Delivered))

		require.NoError(t, err)
		assert.Equal(t, order.Placed, received.OldStatus)
		assert.Equal(t, order.Delivered, received.NewStatus)
		assert.Equal(t, 80, received.Order.Progress())
		assert.Equal(t, 80, progressSeenByHandler)
	})

	t.Run("returned orders share no state with the collection", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		o := create(t, s, "Juan", "₹100")

		o.SetStatus(order.Completed, now)

		got, err := s.GetByID(o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Placed, got.Status())
	})
}

func TestService_Advance(t *testing.T) {
	t.Run("moves to the next status by default", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		o := create(t, s, "Juan", "₹100")

		updated, err := s.Advance(t.Context(), statusCmd(t, o.ID(), ""))

		require.NoError(t, err)
		assert.Equal(t, order.Accepted, updated.Status())
	})

	t.Run("backward move is rejected without side effects", func(t *testing.T) {
		repo := acceptingRepo()
		s, bus := newService(t, repo)
		o := create(t, s, "Juan", "₹100")
		_, err := s.SetStatus(t.Context(), statusCmd(t, o.ID(), order.Delivered))
		require.NoError(t, err)
		published := 0
		events.Subscribe(bus, func(events.OrderUpdated) { published++ })

		_, err = s.Advance(t.Context(), statusCmd(t, o.ID(), order.Loaded))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		got, err := s.GetByID(o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Delivered, got.Status())
		assert.Zero(t, published)
	})
}

func TestService_Update(t *testing.T) {
	s, bus := newService(t, acceptingRepo())
	o := create(t, s, "Juan", "₹100")
	var received events.OrderUpdated
	events.Subscribe(bus, func(e events.OrderUpdated) { received = e })
	location := "Kompally, Hyderabad"

	cmd, err := commands.NewUpdateOrderCommand(o.ID(), order.Changes{Location: &location})
	require.NoError(t, err)
	updated, err := s.Update(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, location, updated.Location())
	assert.Equal(t, order.Placed, received.OldStatus)
	assert.Equal(t, order.Placed, received.NewStatus)
}

func TestService_Remove(t *testing.T) {
	var stored []*order.Order
	repo := new(MockOrderRepository)
	repo.On("LoadAll", mock.Anything).Return([]*order.Order{}, nil).Maybe()
	repo.On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = append(stored, args.Get(1).(*order.Order)) }).
		Return(nil)
	repo.On("Delete", mock.Anything, mock.Anything).Return(nil)
	s, bus := newService(t, repo)
	create(t, s, "A", "₹100")
	target := create(t, s, "B", "₹200")
	var deleted []string
	events.Subscribe(bus, func(e events.OrderDeleted) { deleted = append(deleted, e.OrderID) })

	removed, err := s.Remove(t.Context(), target.ID())
	require.NoError(t, err)
	assert.Equal(t, target.ID(), removed.ID())
	require.Len(t, stored, 2)
	assert.NotSame(t, stored[1], removed, "callers get a copy, not the collection's order")
	assert.Equal(t, 1, s.Count())

	_, err = s.Remove(t.Context(), target.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, []string{target.ID()}, deleted)
}

func TestService_Statistics(t *testing.T) {
	t.Run("sums totals and computes the completion rate", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		a := create(t, s, "A", "₹100")
		create(t, s, "B", "₹200")

		stats := s.Statistics()
		assert.Equal(t, 2, stats.TotalOrders)
		assert.Equal(t, "₹300", stats.TotalValue.String())
		assert.Zero(t, stats.CompletionRate)

		updated, err := s.SetStatus(t.Context(), statusCmd(t, a.ID(), order.Delivered))
		require.NoError(t, err)
		assert.Equal(t, 80, updated.Progress())

		stats = s.Statistics()
		assert.Zero(t, stats.CompletedOrders)
		assert.Equal(t, 2, stats.PendingOrders)
		assert.Equal(t, 1, stats.ByStatus[order.Delivered])
	})

	t.Run("rounds the completion rate to one decimal", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		a := create(t, s, "A", "₹1")
		create(t, s, "B", "₹1")
		create(t, s, "C", "₹1")

		_, err := s.SetStatus(t.Context(), statusCmd(t, a.ID(), order.Completed))
		require.NoError(t, err)

		assert.InDelta(t, 33.3, s.Statistics().CompletionRate, 1e-9)
	})

	t.Run("empty collection", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())

		stats := s.Statistics()

		assert.Zero(t, stats.TotalOrders)
		assert.Zero(t, stats.CompletionRate)
		assert.Equal(t, "₹0", stats.TotalValue.String())
	})

	t.Run("a total that would overflow the sum is skipped", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())
		create(t, s, "A", "₹90,000,000,000,000,000")
		create(t, s, "B", "₹90,000,000,000,000,000")
		create(t, s, "C", "₹100")

		stats := s.Statistics()

		assert.Equal(t, 3, stats.TotalOrders)
		assert.Equal(t, "₹90,000,000,000,000,100", stats.TotalValue.String())
	})

	t.Run("malformed stored totals are skipped", func(t *testing.T) {
		broken, err := order.RestoreOrder(order.Snapshot{ID: "ORD-001", Customer: "Legacy", Total: "N/A", Status: order.Placed})
		require.NoError(t, err)
		fine, err := order.RestoreOrder(order.Snapshot{ID: "ORD-002", Customer: "Juan", Total: "₹1,500", Status: order.Completed})
		require.NoError(t, err)
		repo := new(MockOrderRepository)
		repo.On("LoadAll", mock.Anything).Return([]*order.Order{fine, broken}, nil).Once()
		s, _ := newService(t, repo)
		require.NoError(t, s.Refresh(t.Context()))

		stats := s.Statistics()

		assert.Equal(t, "₹1,500", stats.TotalValue.String())
		assert.InDelta(t, 50.0, stats.CompletionRate, 1e-9)
	})
}

func TestService_Reads(t *testing.T) {
	s, _ := newService(t, acceptingRepo())
	placed := create(t, s, "Agricultor Luis Martínez", "₹22,300")
	delivered := create(t, s, "Agricultor Juan Pérez", "₹15,000")
	_, err := s.SetStatus(t.Context(), statusCmd(t, delivered.ID(), order.Delivered))
	require.NoError(t, err)

	t.Run("filter by status returns exactly the Placed order", func(t *testing.T) {
		q, err := queries.NewFilterOrdersQuery(queries.OrderCriteria{Status: order.Placed})
		require.NoError(t, err)

		got, err := s.Filter(q)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, placed.ID(), got[0].ID())
	})

	t.Run("filter rejects an unconstructed query", func(t *testing.T) {
		_, err := s.Filter(queries.FilterOrdersQuery{})

		require.ErrorIs(t, err, queries.ErrFilterOrdersQueryIsNotConstructed)
	})

	t.Run("search", func(t *testing.T) {
		assert.Len(t, s.Search(""), 2)
		assert.Len(t, s.Search("delivered"), 1)
		assert.Len(t, s.Search("coco verde"), 2)
		assert.Empty(t, s.Search("aceite"))
	})

	t.Run("by status and customer", func(t *testing.T) {
		assert.Len(t, s.ListByStatus(order.Delivered), 1)
		assert.Len(t, s.ListByCustomer("agricultor"), 2)
		assert.Len(t, s.ListByCustomer("LUIS"), 1)
	})

	t.Run("get by unknown id", func(t *testing.T) {
		_, err := s.GetByID("ORD-999")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestService_Refresh(t *testing.T) {
	seeded, err := order.RestoreOrder(order.Snapshot{ID: "ORD-001", Customer: "Juan", Total: "₹15,000", Status: order.Delivered})
	require.NoError(t, err)

	t.Run("apply installs the loaded collection and notifies", func(t *testing.T) {
		s, bus := newService(t, acceptingRepo(seeded))
		var refreshed events.OrdersRefreshed
		events.Subscribe(bus, func(e events.OrdersRefreshed) { refreshed = e })

		apply, err := s.Fetch(t.Context())
		require.NoError(t, err)
		assert.Zero(t, s.Count(), "nothing changes before apply")

		apply()

		assert.Equal(t, 1, s.Count())
		assert.Equal(t, now, s.LastUpdate())
		require.Len(t, refreshed.Orders, 1)
		assert.Equal(t, 80, refreshed.Orders[0].Progress())
	})

	t.Run("a mutation during the load is not overwritten", func(t *testing.T) {
		s, _ := newService(t, acceptingRepo())

		apply, err := s.Fetch(t.Context())
		require.NoError(t, err)
		create(t, s, "Juan", "₹100")
		apply()

		assert.Equal(t, 1, s.Count())
	})

	t.Run("load failure leaves everything in place", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("LoadAll", mock.Anything).Return(nil, errors.New("timeout")).Once()
		s, _ := newService(t, repo)

		err := s.Refresh(t.Context())

		require.Error(t, err)
		assert.True(t, s.LastUpdate().IsZero())
	})
}
