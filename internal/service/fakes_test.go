package service_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/shopspring/decimal"
)

var errLineInsert = errors.New("line insert failed")

// memStore is an in-memory port.Store. WithinTx restores a snapshot when fn fails.
type memStore struct {
	mu sync.Mutex

	users     map[int64]domain.User
	products  map[int64]domain.Product
	orders    map[string]domain.Order
	favorites map[int64]map[int64]domain.Favorite
	nextID    int64

	failLineInsert bool
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[int64]domain.User{},
		products:  map[int64]domain.Product{},
		orders:    map[string]domain.Order{},
		favorites: map[int64]map[int64]domain.Favorite{},
	}
}

type memSnapshot struct {
	users     map[int64]domain.User
	products  map[int64]domain.Product
	orders    map[string]domain.Order
	favorites map[int64]map[int64]domain.Favorite
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make(map[string]domain.Order, len(s.orders))
	for id, o := range s.orders {
		o.Items = slices.Clone(o.Items)
		orders[id] = o
	}

	favorites := make(map[int64]map[int64]domain.Favorite, len(s.favorites))
	for userID, favs := range s.favorites {
		favorites[userID] = maps.Clone(favs)
	}

	return memSnapshot{
		users:     maps.Clone(s.users),
		products:  maps.Clone(s.products),
		orders:    orders,
		favorites: favorites,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.products = snap.products
	s.orders = snap.orders
	s.favorites = snap.favorites
}

func (s *memStore) Users() port.UserRepository         { return memUsers{s} }
func (s *memStore) Products() port.ProductRepository   { return memProducts{s} }
func (s *memStore) Orders() port.OrderRepository       { return memOrders{s} }
func (s *memStore) Favorites() port.FavoriteRepository { return memFavorites{s} }

func (s *memStore) WithinTx(ctx context.Context, fn func(tx port.Tx) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) Atomic() bool                   { return true }
func (s *memStore) Ping(ctx context.Context) error { return nil }
func (s *memStore) Close()                         {}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// putProduct stores product under its own ID, used to pin ids in examples.
func (s *memStore) putProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
}

func (s *memStore) stock(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Stock
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type memUsers struct{ s *memStore }

func (r memUsers) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[userID]
	if !ok {
		return domain.User{}, fmt.Errorf("mem.GetUser: %w", domain.ErrUserNotFound)
	}
	return user, nil
}

func (r memUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r memUsers) GetUserByOAuth(ctx context.Context, provider, oauthID string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.OAuthProvider == provider && u.OAuthID == oauthID })
}

func (r memUsers) find(match func(domain.User) bool) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if match(user) {
			return user, nil
		}
	}
	return domain.User{}, fmt.Errorf("mem.find: %w", domain.ErrUserNotFound)
}

func (r memUsers) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.UserSummary
	for _, user := range r.s.users {
		summary := domain.UserSummary{User: user, TotalSpent: decimal.Zero}
		for _, order := range r.s.orders {
			if order.UserID == user.ID {
				summary.TotalOrders++
				summary.TotalSpent = summary.TotalSpent.Add(order.Total)
			}
		}
		result = append(result, summary)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r memUsers) CountAdmins(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, user := range r.s.users {
		if user.Role == domain.RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (r memUsers) InsertUser(ctx context.Context, user domain.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return 0, fmt.Errorf("mem.InsertUser: %w", domain.ErrEmailTaken)
		}
	}

	user.ID = r.s.id()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = user
	return user.ID, nil
}

func (r memUsers) UpdateUser(ctx context.Context, user domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("mem.UpdateUser: %w", domain.ErrUserNotFound)
	}

	user.Email = existing.Email
	user.PasswordHash = existing.PasswordHash
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.s.users[user.ID] = user
	return nil
}

func (r memUsers) DeleteUser(ctx context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return fmt.Errorf("mem.DeleteUser: %w", domain.ErrUserNotFound)
	}
	for _, order := range r.s.orders {
		if order.UserID == userID {
			return fmt.Errorf("mem.DeleteUser: %w", domain.ErrUserHasOrders)
		}
	}

	delete(r.s.users, userID)
	delete(r.s.favorites, userID)
	return nil
}

type memProducts struct{ s *memStore }

func (r memProducts) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("mem.GetProduct: %w", domain.ErrProductNotFound)
	}
	return product, nil
}

func (r memProducts) ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Product
	for _, product := range r.s.products {
		if onlyActive && product.Status != domain.ProductStatusActive {
			continue
		}
		result = append(result, product)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r memProducts) InsertProduct(ctx context.Context, product domain.Product) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product.ID = r.s.id()
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt
	r.s.products[product.ID] = product
	return product.ID, nil
}

func (r memProducts) UpdateProduct(ctx context.Context, product domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return fmt.Errorf("mem.UpdateProduct: %w", domain.ErrProductNotFound)
	}
	product.UpdatedAt = time.Now().UTC()
	r.s.products[product.ID] = product
	return nil
}

func (r memProducts) DeleteProduct(ctx context.Context, productID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[productID]; !ok {
		return fmt.Errorf("mem.DeleteProduct: %w", domain.ErrProductNotFound)
	}
	delete(r.s.products, productID)
	return nil
}

func (r memProducts) DecrementStock(ctx context.Context, productID int64, quantity int, policy domain.StockPolicy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[productID]
	switch {
	case !ok && policy == domain.StockPolicyUnchecked:
		return nil
	case !ok:
		return fmt.Errorf("mem.DecrementStock: %w", domain.ErrProductNotFound)
	case policy == domain.StockPolicyGuarded && product.Stock < quantity:
		return fmt.Errorf("mem.DecrementStock: %w", domain.ErrInsufficientStock)
	}

	product.Stock -= quantity
	r.s.products[productID] = product
	return nil
}

type memOrders struct{ s *memStore }

func (r memOrders) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("mem.GetOrder: %w", domain.ErrOrderNotFound)
	}
	order.Items = slices.Clone(order.Items)
	return order, nil
}

func (r memOrders) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Order
	for _, order := range r.s.orders {
		if filter.Match(order) {
			order.Items = slices.Clone(order.Items)
			result = append(result, order)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r memOrders) InsertOrder(ctx context.Context, order domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[order.ID]; ok {
		return fmt.Errorf("mem.InsertOrder: %w", domain.ErrOrderExists)
	}
	if _, ok := r.s.users[order.UserID]; !ok {
		return fmt.Errorf("mem.InsertOrder: %w", domain.ErrUserNotFound)
	}

	order.Status = domain.OrderStatusPending
	order.Items = nil
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	r.s.orders[order.ID] = order
	return nil
}

func (r memOrders) InsertOrderLine(ctx context.Context, line domain.OrderLine) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.failLineInsert {
		return 0, errLineInsert
	}

	order, ok := r.s.orders[line.OrderID]
	if !ok {
		return 0, fmt.Errorf("mem.InsertOrderLine: %w", domain.ErrOrderNotFound)
	}

	line.ID = r.s.id()
	line.CreatedAt = time.Now().UTC()
	order.Items = append(slices.Clone(order.Items), line)
	r.s.orders[order.ID] = order
	return line.ID, nil
}

func (r memOrders) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[orderID]
	if !ok {
		return fmt.Errorf("mem.UpdateOrderStatus: %w", domain.ErrOrderNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.s.orders[orderID] = order
	return nil
}

func (r memOrders) DeleteOrder(ctx context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[orderID]; !ok {
		return fmt.Errorf("mem.DeleteOrder: %w", domain.ErrOrderNotFound)
	}
	delete(r.s.orders, orderID)
	return nil
}

type memFavorites struct{ s *memStore }

func (r memFavorites) ListFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Favorite
	for _, favorite := range r.s.favorites[userID] {
		result = append(result, favorite)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r memFavorites) AddFavorite(ctx context.Context, userID, productID int64) (domain.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[productID]
	if !ok {
		return domain.Favorite{}, fmt.Errorf("mem.AddFavorite: %w", domain.ErrProductNotFound)
	}
	if _, ok := r.s.favorites[userID][productID]; ok {
		return domain.Favorite{}, fmt.Errorf("mem.AddFavorite: %w", domain.ErrFavoriteExists)
	}

	favorite := domain.Favorite{
		ID:                 r.s.id(),
		UserID:             userID,
		ProductID:          productID,
		CreatedAt:          time.Now().UTC(),
		ProductName:        product.Name,
		ProductDescription: product.Description,
		ProductPrice:       product.Price,
		ProductImageURL:    product.ImageURL,
	}
	if r.s.favorites[userID] == nil {
		r.s.favorites[userID] = map[int64]domain.Favorite{}
	}
	r.s.favorites[userID][productID] = favorite
	return favorite, nil
}

func (r memFavorites) RemoveFavorite(ctx context.Context, userID, productID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.favorites[userID][productID]; !ok {
		return fmt.Errorf("mem.RemoveFavorite: %w", domain.ErrFavoriteNotFound)
	}
	delete(r.s.favorites[userID], productID)
	return nil
}

// memCache is a port.ProductCache counting its calls.
type memCache struct {
	mu          sync.Mutex
	products    []domain.Product
	hit         bool
	readErr     error
	gets        int
	sets        int
	invalidates int
}

func (c *memCache) GetProducts(ctx context.Context) ([]domain.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	return c.products, c.hit, nil
}

func (c *memCache) SetProducts(ctx context.Context, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	c.products = products
	c.hit = true
	return nil
}

func (c *memCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidates++
	c.products = nil
	c.hit = false
	return nil
}

// memPublisher records published orders and fails when err is set.
type memPublisher struct {
	mu        sync.Mutex
	published []domain.Order
	err       error
}

func (p *memPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, order)
	return nil
}

func (p *memPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}
