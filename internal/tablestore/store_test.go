package tablestore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/nikolayk812/nicoshop/internal/tablestore"
	"github.com/nikolayk812/nicoshop/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"golang.org/x/text/currency"
)

type tableStoreSuite struct {
	suite.Suite

	container testcontainers.Container
	rdb       *redis.Client

	store *tablestore.Store
}

// entry point to run the tests in the suite
func TestTableStoreSuite(t *testing.T) {
	suite.Run(t, new(tableStoreSuite))
}

// before all tests in the suite
func (suite *tableStoreSuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		redisURL string
		err      error
	)

	suite.container, redisURL, err = testutil.StartRedis(ctx)
	suite.Require().NoError(err)

	suite.rdb, err = tablestore.NewClient(ctx, redisURL)
	suite.Require().NoError(err)

	suite.store = tablestore.NewStore(suite.rdb)
}

// after all tests in the suite
func (suite *tableStoreSuite) TearDownSuite() {
	if suite.store != nil {
		suite.store.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(suite.T().Context()))
	}
}

func (suite *tableStoreSuite) TestUsers() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	users := suite.store.Users()

	user := testutil.RandomUser()
	userID, err := users.InsertUser(ctx, user)
	require.NoError(t, err)
	user.ID = userID

	_, err = users.InsertUser(ctx, user)
	require.EqualError(t, err, "rdb.SetNX: email already registered: conflict")

	got, err := users.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assertUser(t, user, got)

	user.OAuthProvider = "facebook"
	user.OAuthID = gofakeit.DigitN(16)
	user.Role = domain.RoleAdmin
	require.NoError(t, users.UpdateUser(ctx, user))

	got, err = users.GetUserByOAuth(ctx, "facebook", user.OAuthID)
	require.NoError(t, err)
	assertUser(t, user, got)

	admins, err := users.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, admins)

	order := suite.randomOrder(userID)
	require.NoError(t, suite.store.Orders().InsertOrder(ctx, order))

	summaries, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].TotalOrders)
	assert.True(t, order.Total.Equal(summaries[0].TotalSpent))

	err = users.DeleteUser(ctx, userID)
	require.EqualError(t, err, "rdb.ZCard: user still owns orders: conflict")

	require.NoError(t, suite.store.Orders().DeleteOrder(ctx, order.ID))
	require.NoError(t, users.DeleteUser(ctx, userID))

	_, err = users.GetUserByEmail(ctx, user.Email)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = users.GetUserByOAuth(ctx, "facebook", user.OAuthID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func (suite *tableStoreSuite) TestProducts() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	products := suite.store.Products()

	active := testutil.RandomProduct()
	activeID, err := products.InsertProduct(ctx, active)
	require.NoError(t, err)
	active.ID = activeID

	inactive := testutil.RandomProduct()
	inactive.Status = domain.ProductStatusInactive
	inactiveID, err := products.InsertProduct(ctx, inactive)
	require.NoError(t, err)
	inactive.ID = inactiveID

	listed, err := products.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assertProduct(t, active, listed[0])

	listed, err = products.ListProducts(ctx, false)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assertProduct(t, inactive, listed[0])

	active.Stock = 0
	active.Status = domain.ProductStatusOutOfStock
	require.NoError(t, products.UpdateProduct(ctx, active))

	got, err := products.GetProduct(ctx, activeID)
	require.NoError(t, err)
	assertProduct(t, active, got)

	require.NoError(t, products.DeleteProduct(ctx, inactiveID))

	_, err = products.GetProduct(ctx, inactiveID)
	require.EqualError(t, err, "rdb.MGet: product not found")

	err = products.DeleteProduct(ctx, inactiveID)
	require.EqualError(t, err, "rdb.Del: product not found")
}

func (suite *tableStoreSuite) TestDecrementStock() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		stock     int
		quantity  int
		policy    domain.StockPolicy
		missing   bool
		wantStock int
		wantIs    error
	}{
		{
			name:      "guarded, enough stock: ok",
			stock:     5,
			quantity:  2,
			policy:    domain.StockPolicyGuarded,
			wantStock: 3,
		},
		{
			name:      "guarded, short stock: insufficient",
			stock:     1,
			quantity:  2,
			policy:    domain.StockPolicyGuarded,
			wantStock: 1,
			wantIs:    domain.ErrInsufficientStock,
		},
		{
			name:     "guarded, unknown product: not found",
			quantity: 1,
			policy:   domain.StockPolicyGuarded,
			missing:  true,
			wantIs:   domain.ErrProductNotFound,
		},
		{
			name:      "unchecked, short stock: goes negative",
			stock:     1,
			quantity:  3,
			policy:    domain.StockPolicyUnchecked,
			wantStock: -2,
		},
		{
			name:     "unchecked, unknown product: ignored",
			quantity: 1,
			policy:   domain.StockPolicyUnchecked,
			missing:  true,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			products := suite.store.Products()

			product := testutil.RandomProduct()
			product.Stock = tt.stock
			productID, err := products.InsertProduct(ctx, product)
			require.NoError(t, err)

			targetID := productID
			if tt.missing {
				targetID = productID + 1000
			}

			err = products.DecrementStock(ctx, targetID, tt.quantity, tt.policy)
			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			} else {
				require.NoError(t, err)
			}

			if tt.missing {
				_, err := products.GetProduct(ctx, targetID)
				require.ErrorIs(t, err, domain.ErrProductNotFound, "no stock key created")
				return
			}

			got, err := products.GetProduct(ctx, productID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, got.Stock)
		})
	}
}

func (suite *tableStoreSuite) TestOrders() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	orders := suite.store.Orders()

	user1, err := suite.store.Users().InsertUser(ctx, testutil.RandomUser())
	require.NoError(t, err)
	user2, err := suite.store.Users().InsertUser(ctx, testutil.RandomUser())
	require.NoError(t, err)

	order1 := suite.insertOrder(user1)
	order2 := suite.insertOrder(user2)

	err = orders.InsertOrder(ctx, order1)
	require.EqualError(t, err, "rdb.SetNX: order id already exists: conflict")

	err = orders.InsertOrder(ctx, suite.randomOrder(user2+1000))
	require.EqualError(t, err, "rdb.Exists: user not found")

	_, err = orders.InsertOrderLine(ctx, domain.OrderLine{OrderID: "CMD0", ProductID: 1, Quantity: 1})
	require.EqualError(t, err, "rdb.Exists: order not found")

	got, err := orders.GetOrder(ctx, order1.ID)
	require.NoError(t, err)
	assertOrder(t, order1, got)

	all, err := orders.SearchOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, order2.ID, all[0].ID, "newest first")

	byUser, err := orders.SearchOrders(ctx, domain.OrderFilter{UserIDs: []int64{user1}})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assertOrder(t, order1, byUser[0])

	require.NoError(t, orders.UpdateOrderStatus(ctx, order2.ID, domain.OrderStatusCancelled))

	shipped, err := orders.SearchOrders(ctx, domain.OrderFilter{Statuses: []domain.OrderStatus{domain.OrderStatusCancelled}})
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, order2.ID, shipped[0].ID)

	err = orders.UpdateOrderStatus(ctx, "CMD0", domain.OrderStatusShipped)
	require.EqualError(t, err, "rdb.Get: order not found")

	require.NoError(t, orders.DeleteOrder(ctx, order1.ID))

	_, err = orders.GetOrder(ctx, order1.ID)
	require.EqualError(t, err, "rdb.Get: order not found")

	lines, err := suite.rdb.Exists(ctx, "order:"+order1.ID+":lines").Result()
	require.NoError(t, err)
	assert.Zero(t, lines)

	err = orders.DeleteOrder(ctx, order1.ID)
	require.EqualError(t, err, "rdb.Get: order not found")
}

func (suite *tableStoreSuite) TestFavorites() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	favorites := suite.store.Favorites()

	userID, err := suite.store.Users().InsertUser(ctx, testutil.RandomUser())
	require.NoError(t, err)

	product := testutil.RandomProduct()
	productID, err := suite.store.Products().InsertProduct(ctx, product)
	require.NoError(t, err)

	_, err = favorites.AddFavorite(ctx, userID, productID)
	require.NoError(t, err)

	_, err = favorites.AddFavorite(ctx, userID, productID)
	require.EqualError(t, err, "rdb.HSetNX: product already in favorites: conflict")

	_, err = favorites.AddFavorite(ctx, userID, productID+1000)
	require.EqualError(t, err, "rdb.Exists: product not found")

	listed, err := favorites.ListFavorites(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, product.Name, listed[0].ProductName)

	require.NoError(t, favorites.RemoveFavorite(ctx, userID, productID))

	err = favorites.RemoveFavorite(ctx, userID, productID)
	require.EqualError(t, err, "rdb.HDel: favorite not found")
}

func (suite *tableStoreSuite) TestWithinTx_Compensates() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	assert.False(t, suite.store.Atomic())

	userID, err := suite.store.Users().InsertUser(ctx, testutil.RandomUser())
	require.NoError(t, err)

	product := testutil.RandomProduct()
	product.Stock = 10
	productID, err := suite.store.Products().InsertProduct(ctx, product)
	require.NoError(t, err)

	order := suite.randomOrder(userID)
	errBoom := errors.New("boom")

	err = suite.store.WithinTx(ctx, func(tx port.Tx) error {
		if err := tx.Orders().InsertOrder(ctx, order); err != nil {
			return err
		}
		if _, err := tx.Orders().InsertOrderLine(ctx, domain.OrderLine{
			OrderID: order.ID, ProductID: productID, Quantity: 4, Price: product.Price,
		}); err != nil {
			return err
		}
		if err := tx.Products().DecrementStock(ctx, productID, 4, domain.StockPolicyGuarded); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	got, err := suite.store.Products().GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock, "stock restored")

	_, err = suite.store.Orders().GetOrder(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	userOrders, err := suite.store.Orders().SearchOrders(ctx, domain.OrderFilter{UserIDs: []int64{userID}})
	require.NoError(t, err)
	assert.Empty(t, userOrders)
}

func (suite *tableStoreSuite) TestWithinTx_Commits() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	userID, err := suite.store.Users().InsertUser(ctx, testutil.RandomUser())
	require.NoError(t, err)

	product := testutil.RandomProduct()
	product.Stock = 10
	productID, err := suite.store.Products().InsertProduct(ctx, product)
	require.NoError(t, err)

	order := suite.randomOrder(userID)

	err = suite.store.WithinTx(ctx, func(tx port.Tx) error {
		if err := tx.Orders().InsertOrder(ctx, order); err != nil {
			return err
		}
		if _, err := tx.Orders().InsertOrderLine(ctx, domain.OrderLine{
			OrderID: order.ID, ProductID: productID, Quantity: 4, Price: product.Price,
		}); err != nil {
			return err
		}
		return tx.Products().DecrementStock(ctx, productID, 4, domain.StockPolicyGuarded)
	})
	require.NoError(t, err)

	got, err := suite.store.Products().GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Stock)

	persisted, err := suite.store.Orders().GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Items, 1)
}

func (suite *tableStoreSuite) randomOrder(userID int64) domain.Order {
	order := testutil.RandomOrder(userID)
	order.ID = "CMD" + gofakeit.DigitN(13)
	return order
}

func (suite *tableStoreSuite) insertOrder(userID int64) domain.Order {
	t := suite.T()
	ctx := t.Context()

	order := testutil.RandomOrder(userID, gofakeit.Int64(), gofakeit.Int64())
	order.ID = "CMD" + gofakeit.DigitN(13)

	require.NoError(t, suite.store.Orders().InsertOrder(ctx, order))
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		_, err := suite.store.Orders().InsertOrderLine(ctx, order.Items[i])
		require.NoError(t, err)
	}

	// orders are indexed by unix ms
	time.Sleep(5 * time.Millisecond)

	return order
}

func (suite *tableStoreSuite) deleteAll() {
	suite.NoError(suite.rdb.FlushDB(suite.T().Context()).Err())
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.OrderLine{}, "ID", "CreatedAt"),
		cmpopts.IgnoreFields(domain.Order{}, "CreatedAt", "UpdatedAt"),
		cmpopts.EquateEmpty(),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
	}

	assert.Empty(t, cmp.Diff(expected, actual, opts))
	assert.False(t, actual.CreatedAt.IsZero())
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	assert.Empty(t, cmp.Diff(expected, actual, cmpopts.IgnoreFields(domain.Product{}, "CreatedAt", "UpdatedAt")))
}

func assertUser(t *testing.T, expected, actual domain.User) {
	t.Helper()

	assert.Empty(t, cmp.Diff(expected, actual, cmpopts.IgnoreFields(domain.User{}, "CreatedAt", "UpdatedAt")))
}
