package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

var (
	_ interfaces.CategoryRepository = &mockCategoryRepository{}
	_ interfaces.MenuRepository     = &mockMenuRepository{}
	_ interfaces.OrderRepository    = &mockOrderRepository{}
	_ interfaces.UserRepository     = &mockUserRepository{}
	_ interfaces.SessionRepository  = &mockSessionRepository{}
	_ interfaces.EventPublisher     = &mockPublisher{}
)

type idSeq struct {
	mu   sync.Mutex
	next int
}

func (s *idSeq) id() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%024x", s.next)
}

type mockCategoryRepository struct {
	mu      sync.Mutex
	ids     idSeq
	store   map[string]*domain.Category
	listErr error
}

func (r *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.store {
		if existing.Name == c.Name {
			return errors.NewConflict("Category already exists")
		}
	}
	c.ID = r.ids.id()
	copied := *c
	r.store[c.ID] = &copied
	return nil
}

func (r *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.store[id]
	if !ok {
		return nil, errors.NewNotFound("Category not found")
	}
	copied := *c
	return &copied, nil
}

func (r *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	result := make([]domain.Category, 0, len(r.store))
	for _, c := range r.store {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return errors.NewNotFound("Category not found")
	}
	delete(r.store, id)
	return nil
}

type mockMenuRepository struct {
	mu      sync.Mutex
	ids     idSeq
	store   map[string]*domain.MenuItem
	listErr error
}

func (r *mockMenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.ids.id()
	copied := *item
	r.store[item.ID] = &copied
	return nil
}

func (r *mockMenuRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.store[id]
	if !ok {
		return nil, errors.NewNotFound("Menu item not found")
	}
	copied := *item
	return &copied, nil
}

func (r *mockMenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	result := make([]domain.MenuItem, 0, len(r.store))
	for _, item := range r.store {
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *mockMenuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[item.ID]; !ok {
		return errors.NewNotFound("Menu item not found")
	}
	copied := *item
	r.store[item.ID] = &copied
	return nil
}

func (r *mockMenuRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return errors.NewNotFound("Menu item not found")
	}
	delete(r.store, id)
	return nil
}

func (r *mockMenuRepository) DeleteByCategory(ctx context.Context, categoryID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, item := range r.store {
		if item.CategoryID == categoryID {
			delete(r.store, id)
			removed++
		}
	}
	return removed, nil
}

func (r *mockMenuRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, item := range r.store {
		counts[item.CategoryID]++
	}
	return counts, nil
}

type mockOrderRepository struct {
	mu      sync.Mutex
	ids     idSeq
	store   map[string]*domain.Order
	listErr error
	// beforeUpdate runs inside UpdateStatus before the status check
	beforeUpdate func(o *domain.Order)
}

func (r *mockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.ids.id()
	copied := *o
	r.store[o.ID] = &copied
	return nil
}

func (r *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[id]
	if !ok {
		return nil, errors.NewNotFound("Order not found")
	}
	copied := *o
	return &copied, nil
}

func (r *mockOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	result := make([]domain.Order, 0, len(r.store))
	for _, o := range r.store {
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *mockOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Order, 0)
	for _, o := range all {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *mockOrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.store[id]
	if !ok {
		return nil, errors.NewNotFound("Order not found")
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(o)
	}
	if o.Status != from {
		return nil, errors.NewConflict("Order status was changed by another request")
	}
	o.Status = to
	copied := *o
	return &copied, nil
}

type mockUserRepository struct {
	mu      sync.Mutex
	ids     idSeq
	store   map[string]*domain.User
	listErr error
}

func (r *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.store {
		if existing.Email == u.Email {
			return errors.NewConflict("User already exists with this email")
		}
	}
	u.ID = r.ids.id()
	copied := *u
	r.store[u.ID] = &copied
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.store[id]
	if !ok {
		return nil, errors.NewNotFound("User not found")
	}
	copied := *u
	return &copied, nil
}

func (r *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.store {
		if u.Email == domain.NormalizeEmail(email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.NewNotFound("User not found")
}

func (r *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	result := make([]domain.User, 0, len(r.store))
	for _, u := range r.store {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *mockUserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.User, 0)
	for _, u := range all {
		if u.Role == role {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *mockUserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.store[id]
	if !ok {
		return nil, errors.NewNotFound("User not found")
	}
	u.Status = status
	copied := *u
	return &copied, nil
}

func (r *mockUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return errors.NewNotFound("User not found")
	}
	delete(r.store, id)
	return nil
}

type mockSessionRepository struct {
	mu    sync.Mutex
	store map[string]*domain.Session
}

func (r *mockSessionRepository) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.store[s.ID] = &copied
	return nil
}

func (r *mockSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.store[id]
	if !ok {
		return nil, errors.NewNotFound("session not found")
	}
	copied := *s
	return &copied, nil
}

func (r *mockSessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return errors.NewNotFound("session not found")
	}
	delete(r.store, id)
	return nil
}

func (r *mockSessionRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.store {
		if s.UserID == userID {
			delete(r.store, id)
		}
	}
	return nil
}

type publishedEvent struct {
	kind     string
	order    domain.Order
	previous domain.OrderStatus
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *mockPublisher) PublishOrderCreated(ctx context.Context, o *domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{kind: "created", order: *o})
	return nil
}

func (p *mockPublisher) PublishOrderStatusChanged(ctx context.Context, o *domain.Order, previous domain.OrderStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{kind: "status_changed", order: *o, previous: previous})
	return nil
}

func (p *mockPublisher) Close() error { return nil }

type repos struct {
	categories *mockCategoryRepository
	menu       *mockMenuRepository
	orders     *mockOrderRepository
	users      *mockUserRepository
	sessions   *mockSessionRepository
	publisher  *mockPublisher
}

func newRepos() *repos {
	return &repos{
		categories: &mockCategoryRepository{store: make(map[string]*domain.Category)},
		menu:       &mockMenuRepository{store: make(map[string]*domain.MenuItem)},
		orders:     &mockOrderRepository{store: make(map[string]*domain.Order)},
		users:      &mockUserRepository{store: make(map[string]*domain.User)},
		sessions:   &mockSessionRepository{store: make(map[string]*domain.Session)},
		publisher:  &mockPublisher{},
	}
}
