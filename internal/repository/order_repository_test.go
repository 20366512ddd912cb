package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/nikolayk812/nicoshop/internal/repository"
	"github.com/nikolayk812/nicoshop/internal/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/text/currency"
)

type orderRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	container testcontainers.Container

	repo  port.OrderRepository
	users port.UserRepository
}

// entry point to run the tests in the suite
func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

// before all tests in the suite
func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = testutil.StartPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewOrder(suite.pool)
	suite.users = repository.NewUser(suite.pool)
}

// after all tests in the suite
func (suite *orderRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(suite.T().Context()))
	}
}

func (suite *orderRepositorySuite) TestInsertOrder() {
	defer suite.deleteAll()

	userID := suite.insertUser()

	tests := []struct {
		name      string
		orderFunc func() domain.Order
		wantError string
	}{
		{
			name:      "valid order with lines: ok",
			orderFunc: func() domain.Order { return suite.randomOrder(userID) },
		},
		{
			name: "valid order without shipping: ok",
			orderFunc: func() domain.Order {
				o := suite.randomOrder(userID)
				o.Shipping = domain.ShippingInfo{}
				o.PaymentMethod = ""
				return o
			},
		},
		{
			name: "empty order id: fail",
			orderFunc: func() domain.Order {
				o := suite.randomOrder(userID)
				o.ID = ""
				return o
			},
			wantError: "orderID is empty",
		},
		{
			name: "unknown user: fail",
			orderFunc: func() domain.Order {
				return suite.randomOrder(userID + 1000)
			},
			wantError: "q.InsertOrder: user not found",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ttOrder := tt.orderFunc()

			err := suite.insertOrder(ttOrder)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actualOrder, err := suite.repo.GetOrder(ctx, ttOrder.ID)
			require.NoError(t, err)

			assertOrder(t, ttOrder, actualOrder)
		})
	}
}

func (suite *orderRepositorySuite) TestInsertOrder_DuplicateID() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	userID := suite.insertUser()

	order := suite.randomOrder(userID)
	require.NoError(t, suite.insertOrder(order))

	err := suite.repo.InsertOrder(ctx, order)
	require.EqualError(t, err, "q.InsertOrder: order id already exists: conflict")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func (suite *orderRepositorySuite) TestGetOrder() {
	defer suite.deleteAll()

	userID := suite.insertUser()

	tests := []struct {
		name      string
		orderFunc func() domain.Order
		insert    bool
		wantError string
		wantIs    error
	}{
		{
			name:      "existing order: ok",
			orderFunc: func() domain.Order { return suite.randomOrder(userID) },
			insert:    true,
		},
		{
			name:      "non-existing order: not found",
			orderFunc: func() domain.Order { return suite.randomOrder(userID) },
			wantError: "withTx: q.GetOrder: order not found",
			wantIs:    domain.ErrNotFound,
		},
		{
			name:      "empty order id: fail",
			orderFunc: func() domain.Order { return domain.Order{} },
			wantError: "orderID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ttOrder := tt.orderFunc()
			if tt.insert {
				require.NoError(t, suite.insertOrder(ttOrder))
			}

			actualOrder, err := suite.repo.GetOrder(ctx, ttOrder.ID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				if tt.wantIs != nil {
					require.ErrorIs(t, err, tt.wantIs)
				}
				return
			}
			require.NoError(t, err)

			assertOrder(t, ttOrder, actualOrder)
		})
	}
}

func (suite *orderRepositorySuite) TestUpdateOrderStatus() {
	defer suite.deleteAll()

	userID := suite.insertUser()

	tests := []struct {
		name         string
		initial      domain.OrderStatus
		newStatus    domain.OrderStatus
		targetIDFunc func(string) string // which order ID to update, identity if nil
		wantError    string
	}{
		{
			name:      "pending to shipped: ok",
			initial:   domain.OrderStatusPending,
			newStatus: domain.OrderStatusShipped,
		},
		{
			name:      "cancelled back to pending: ok",
			initial:   domain.OrderStatusCancelled,
			newStatus: domain.OrderStatusPending,
		},
		{
			name:      "non-existing order: not found",
			newStatus: domain.OrderStatusShipped,
			targetIDFunc: func(string) string {
				return "CMD" + gofakeit.DigitN(13)
			},
			wantError: "q.UpdateOrderStatus: order not found",
		},
		{
			name:         "empty order id: fail",
			newStatus:    domain.OrderStatusShipped,
			targetIDFunc: func(string) string { return "" },
			wantError:    "orderID is empty",
		},
		{
			name:      "empty status: fail",
			newStatus: "",
			wantError: "status is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ttOrder := suite.randomOrder(userID)
			require.NoError(t, suite.insertOrder(ttOrder))

			if tt.initial != "" && tt.initial != domain.OrderStatusPending {
				require.NoError(t, suite.repo.UpdateOrderStatus(ctx, ttOrder.ID, tt.initial))
			}

			targetID := ttOrder.ID
			if tt.targetIDFunc != nil {
				targetID = tt.targetIDFunc(targetID)
			}

			err := suite.repo.UpdateOrderStatus(ctx, targetID, tt.newStatus)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			updatedOrder, err := suite.repo.GetOrder(ctx, ttOrder.ID)
			require.NoError(t, err)

			expected := ttOrder
			expected.Status = tt.newStatus

			assertOrder(t, expected, updatedOrder)
			assert.True(t, updatedOrder.UpdatedAt.After(updatedOrder.CreatedAt) || updatedOrder.UpdatedAt.Equal(updatedOrder.CreatedAt))
		})
	}
}

func (suite *orderRepositorySuite) TestSearchOrders() {
	defer suite.deleteAll()

	t := suite.T()

	user1 := suite.insertUser()
	user2 := suite.insertUser()

	order1 := suite.randomOrder(user1)
	require.NoError(t, suite.insertOrder(order1))

	order2 := suite.randomOrder(user2)
	require.NoError(t, suite.insertOrder(order2))

	// no lines: must still be listed
	order3 := suite.randomOrder(user2)
	order3.Items = nil
	require.NoError(t, suite.insertOrder(order3))
	require.NoError(t, suite.repo.UpdateOrderStatus(t.Context(), order3.ID, domain.OrderStatusShipped))
	order3.Status = domain.OrderStatusShipped

	tests := []struct {
		name       string
		filter     domain.OrderFilter
		wantOrders []domain.Order
		wantError  string
	}{
		{
			name:       "empty filter: all, newest first",
			filter:     domain.OrderFilter{},
			wantOrders: []domain.Order{order3, order2, order1},
		},
		{
			name:       "by user: 1 found",
			filter:     domain.OrderFilter{UserIDs: []int64{user1}},
			wantOrders: []domain.Order{order1},
		},
		{
			name:       "by users: 3 found",
			filter:     domain.OrderFilter{UserIDs: []int64{user1, user2}},
			wantOrders: []domain.Order{order3, order2, order1},
		},
		{
			name:   "by user: not found",
			filter: domain.OrderFilter{UserIDs: []int64{user2 + 1000}},
		},
		{
			name:       "by status pending: 2 found",
			filter:     domain.OrderFilter{Statuses: []domain.OrderStatus{domain.OrderStatusPending}},
			wantOrders: []domain.Order{order2, order1},
		},
		{
			name: "by status and user: 1 found",
			filter: domain.OrderFilter{
				UserIDs:  []int64{user2},
				Statuses: []domain.OrderStatus{domain.OrderStatusShipped},
			},
			wantOrders: []domain.Order{order3},
		},
		{
			name:   "by status cancelled: not found",
			filter: domain.OrderFilter{Statuses: []domain.OrderStatus{domain.OrderStatusCancelled}},
		},
		{
			name: "by createdAt after: 3 found",
			filter: domain.OrderFilter{
				CreatedAt: lo.ToPtr(domain.TimeRange{
					After: lo.ToPtr(time.Now().UTC().Add(-1 * time.Minute)),
				}),
			},
			wantOrders: []domain.Order{order3, order2, order1},
		},
		{
			name: "by createdAt before: not found",
			filter: domain.OrderFilter{
				CreatedAt: lo.ToPtr(domain.TimeRange{
					Before: lo.ToPtr(time.Now().UTC().Add(-1 * time.Minute)),
				}),
			},
		},
		{
			name: "by createdAt empty: error",
			filter: domain.OrderFilter{
				CreatedAt: lo.ToPtr(domain.TimeRange{}),
			},
			wantError: "filter.Validate: createdAt: both Before and After are nil",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			orders, err := suite.repo.SearchOrders(t.Context(), tt.filter)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assertOrders(t, tt.wantOrders, orders)
		})
	}
}

func (suite *orderRepositorySuite) TestDeleteOrder() {
	defer suite.deleteAll()

	userID := suite.insertUser()

	tests := []struct {
		name         string
		targetIDFunc func(string) string // which order ID to delete, identity if nil
		wantError    string
	}{
		{
			name: "delete existing order: ok",
		},
		{
			name: "delete non-existing order: not found",
			targetIDFunc: func(string) string {
				return "CMD" + gofakeit.DigitN(13)
			},
			wantError: "q.DeleteOrder: order not found",
		},
		{
			name:         "delete with empty order ID: error",
			targetIDFunc: func(string) string { return "" },
			wantError:    "orderID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ttOrder := suite.randomOrder(userID)
			require.NoError(t, suite.insertOrder(ttOrder))

			targetID := ttOrder.ID
			if tt.targetIDFunc != nil {
				targetID = tt.targetIDFunc(targetID)
			}

			err := suite.repo.DeleteOrder(ctx, targetID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			_, err = suite.repo.GetOrder(ctx, ttOrder.ID)
			require.ErrorIs(t, err, domain.ErrOrderNotFound)

			var lines int
			err = suite.pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_items WHERE order_id = $1", ttOrder.ID).Scan(&lines)
			require.NoError(t, err)
			assert.Zero(t, lines, "lines must cascade")
		})
	}
}

func (suite *orderRepositorySuite) insertUser() int64 {
	id, err := suite.users.InsertUser(suite.T().Context(), testutil.RandomUser())
	suite.Require().NoError(err)
	return id
}

func (suite *orderRepositorySuite) randomOrder(userID int64) domain.Order {
	order := testutil.RandomOrder(userID, gofakeit.Int64(), gofakeit.Int64())
	order.ID = "CMD" + gofakeit.DigitN(13)
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return order
}

// insertOrder stores the order row and its lines, lines get their generated IDs.
func (suite *orderRepositorySuite) insertOrder(order domain.Order) error {
	ctx := suite.T().Context()

	if err := suite.repo.InsertOrder(ctx, order); err != nil {
		return err
	}

	for _, line := range order.Items {
		if _, err := suite.repo.InsertOrderLine(ctx, line); err != nil {
			return err
		}
	}

	// created_at of consecutive orders must differ for newest-first assertions
	time.Sleep(5 * time.Millisecond)

	return nil
}

func (suite *orderRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE order_items, orders, favorites, products, users CASCADE")
	suite.NoError(err)
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	// Ignore the generated fields, decimals compare through their Equal method
	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.OrderLine{}, "ID", "CreatedAt"),
		cmpopts.IgnoreFields(domain.Order{}, "CreatedAt", "UpdatedAt"),
		cmpopts.EquateEmpty(),
		currencyComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
	assert.False(t, actual.UpdatedAt.IsZero())
	for _, line := range actual.Items {
		assert.NotZero(t, line.ID)
		assert.Equal(t, actual.ID, line.OrderID)
	}
}

// assertOrders expects the same order of elements.
func assertOrders(t *testing.T, expected, actual []domain.Order) {
	t.Helper()

	require.Equal(t, len(expected), len(actual))

	for i := range expected {
		assertOrder(t, expected[i], actual[i])
	}
}
