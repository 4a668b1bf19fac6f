package storeapi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/repository"
)

// memStore backs in-memory fakes of every repository. Timestamps advance
// one second per write so ordering by creation is deterministic.
type memStore struct {
	mu         sync.Mutex
	seq        int64
	clock      time.Time
	categories map[int64]domain.Category
	products   map[int64]domain.Product
	services   map[int64]domain.Service
	users      map[int64]domain.User
	profiles   map[int64]domain.Profile

	failRegister bool
}

func newMemStore() *memStore {
	return &memStore{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		categories: map[int64]domain.Category{},
		products:   map[int64]domain.Product{},
		services:   map[int64]domain.Service{},
		users:      map[int64]domain.User{},
		profiles:   map[int64]domain.Profile{},
	}
}

func (m *memStore) repos() *repository.Repositories {
	return &repository.Repositories{
		Categories: memCategories{m},
		Products:   memProducts{m},
		Services:   memServices{m},
		Profiles:   memProfiles{m},
		Users:      memUsers{m},
	}
}

func (m *memStore) next() (int64, time.Time) {
	m.seq++
	m.clock = m.clock.Add(time.Second)
	return m.seq, m.clock
}

func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func window[T any](rows []T, p repository.Page) []T {
	if p.Offset >= len(rows) {
		return []T{}
	}
	rows = rows[p.Offset:]
	if p.Limit > 0 && p.Limit < len(rows) {
		rows = rows[:p.Limit]
	}
	return rows
}

type memCategories struct{ m *memStore }

func (r memCategories) List(_ context.Context, q repository.CategoryQuery) ([]domain.Category, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var rows []domain.Category
	for _, c := range r.m.categories {
		if c.Active && matches(q.Search, c.Name, c.Description) {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return window(rows, q.Page), int64(len(rows)), nil
}

func (r memCategories) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categories[id]
	if !ok || !c.Active {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r memCategories) NameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categories {
		if c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memCategories) Create(_ context.Context, c *domain.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c.ID, c.CreatedAt = r.m.next()
	r.m.categories[c.ID] = *c
	return nil
}

func (r memCategories) Update(_ context.Context, c *domain.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.m.categories[c.ID] = *c
	return nil
}

func (r memCategories) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categories[id]
	if !ok || !c.Active {
		return repository.ErrNotFound
	}
	for pid, p := range r.m.products {
		if p.CategoryID == id {
			delete(r.m.products, pid)
		}
	}
	for sid, s := range r.m.services {
		if s.CategoryID == id {
			delete(r.m.services, sid)
		}
	}
	delete(r.m.categories, id)
	return nil
}

func (r memCategories) CountChildren(_ context.Context, ids []int64) (map[int64]domain.CategoryCounts, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := map[int64]domain.CategoryCounts{}
	for _, id := range ids {
		var cnt domain.CategoryCounts
		for _, p := range r.m.products {
			if p.CategoryID == id && p.Active {
				cnt.Products++
			}
		}
		for _, s := range r.m.services {
			if s.CategoryID == id && s.Active {
				cnt.Services++
			}
		}
		out[id] = cnt
	}
	return out, nil
}

type memProducts struct{ m *memStore }

func (r memProducts) withCategory(p domain.Product) domain.Product {
	p.Category = r.m.categories[p.CategoryID]
	return p
}

func (r memProducts) List(_ context.Context, q repository.ProductQuery) ([]domain.Product, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var rows []domain.Product
	for _, p := range r.m.products {
		switch {
		case !p.Active:
		case q.CategoryID != nil && p.CategoryID != *q.CategoryID:
		case q.LicenseType != nil && p.LicenseType != *q.LicenseType:
		case q.Featured != nil && p.Featured != *q.Featured:
		case !matches(q.Search, p.Name, p.Description):
		default:
			rows = append(rows, r.withCategory(p))
		}
	}
	order := strings.Join(q.Ordering, ",")
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch order {
		case "precio":
			return a.Price.LessThan(b.Price)
		case "-precio":
			return a.Price.GreaterThan(b.Price)
		case "-fecha_creacion":
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.Featured != b.Featured {
			return a.Featured
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return window(rows, q.Page), int64(len(rows)), nil
}

func (r memProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok || !p.Active {
		return nil, repository.ErrNotFound
	}
	p = r.withCategory(p)
	return &p, nil
}

func (r memProducts) Create(_ context.Context, p *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p.ID, p.CreatedAt = r.m.next()
	p.UpdatedAt = p.CreatedAt
	p.Category = domain.Category{}
	r.m.products[p.ID] = *p
	*p = r.withCategory(*p)
	return nil
}

func (r memProducts) Update(_ context.Context, p *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	_, p.UpdatedAt = r.m.next()
	p.Category = domain.Category{}
	r.m.products[p.ID] = *p
	*p = r.withCategory(*p)
	return nil
}

func (r memProducts) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok || !p.Active {
		return repository.ErrNotFound
	}
	delete(r.m.products, id)
	return nil
}

type memServices struct{ m *memStore }

func (r memServices) withCategory(s domain.Service) domain.Service {
	s.Category = r.m.categories[s.CategoryID]
	return s
}

func (r memServices) List(_ context.Context, q repository.ServiceQuery) ([]domain.Service, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var rows []domain.Service
	for _, s := range r.m.services {
		switch {
		case !s.Active:
		case q.CategoryID != nil && s.CategoryID != *q.CategoryID:
		case q.ServiceType != nil && s.ServiceType != *q.ServiceType:
		case q.Featured != nil && s.Featured != *q.Featured:
		case q.DynamicQuote != nil && s.DynamicQuote != *q.DynamicQuote:
		case !matches(q.Search, s.Name, s.Description):
		default:
			rows = append(rows, r.withCategory(s))
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return window(rows, q.Page), int64(len(rows)), nil
}

func (r memServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.services[id]
	if !ok || !s.Active {
		return nil, repository.ErrNotFound
	}
	s = r.withCategory(s)
	return &s, nil
}

func (r memServices) Create(_ context.Context, s *domain.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s.ID, s.CreatedAt = r.m.next()
	s.Category = domain.Category{}
	r.m.services[s.ID] = *s
	*s = r.withCategory(*s)
	return nil
}

func (r memServices) Update(_ context.Context, s *domain.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.services[s.ID]; !ok {
		return repository.ErrNotFound
	}
	s.Category = domain.Category{}
	r.m.services[s.ID] = *s
	*s = r.withCategory(*s)
	return nil
}

func (r memServices) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.services[id]
	if !ok || !s.Active {
		return repository.ErrNotFound
	}
	delete(r.m.services, id)
	return nil
}

type memUsers struct{ m *memStore }

// find must be called with the lock held
func (r memUsers) find(u domain.User) domain.User {
	u.Profile = nil
	for _, p := range r.m.profiles {
		if p.UserID == u.ID {
			p := p
			u.Profile = &p
		}
	}
	return u
}

func (r memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u = r.find(u)
	return &u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r memUsers) Register(_ context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failRegister {
		return context.DeadlineExceeded
	}
	u.ID, _ = r.m.next()
	u.Profile = nil
	r.m.users[u.ID] = *u
	pid, at := r.m.next()
	p := domain.Profile{ID: pid, UserID: u.ID, CreatedAt: at}
	r.m.profiles[pid] = p
	u.Profile = &p
	return nil
}

func (r memUsers) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u := r.m.users[id]
	u.LastLogin = &at
	r.m.users[id] = u
	return nil
}

type memProfiles struct{ m *memStore }

// withUser must be called with the lock held
func (r memProfiles) withUser(p domain.Profile) domain.Profile {
	if u, ok := r.m.users[p.UserID]; ok {
		u.Profile = nil
		p.User = &u
	}
	return p
}

func visible(scope repository.ProfileScope, p domain.Profile) bool {
	return scope.OwnerID == 0 || p.UserID == scope.OwnerID
}

func (r memProfiles) List(_ context.Context, scope repository.ProfileScope, page repository.Page) ([]domain.Profile, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var rows []domain.Profile
	for _, p := range r.m.profiles {
		if visible(scope, p) {
			rows = append(rows, r.withUser(p))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return window(rows, page), int64(len(rows)), nil
}

func (r memProfiles) Get(_ context.Context, scope repository.ProfileScope, id int64) (*domain.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[id]
	if !ok || !visible(scope, p) {
		return nil, repository.ErrNotFound
	}
	p = r.withUser(p)
	return &p, nil
}

func (r memProfiles) GetOrCreate(_ context.Context, userID int64) (*domain.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.profiles {
		if p.UserID == userID {
			p = r.withUser(p)
			return &p, nil
		}
	}
	id, at := r.m.next()
	p := domain.Profile{ID: id, UserID: userID, CreatedAt: at}
	r.m.profiles[id] = p
	p = r.withUser(p)
	return &p, nil
}

func (r memProfiles) Create(_ context.Context, p *domain.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.profiles {
		if existing.UserID == p.UserID {
			return repository.ErrDuplicate
		}
	}
	p.ID, p.CreatedAt = r.m.next()
	p.User = nil
	r.m.profiles[p.ID] = *p
	*p = r.withUser(*p)
	return nil
}

func (r memProfiles) Update(_ context.Context, p *domain.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.profiles[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Phone, stored.Company, stored.Address, stored.Avatar = p.Phone, p.Company, p.Address, p.Avatar
	r.m.profiles[p.ID] = stored
	return nil
}

func (r memProfiles) Delete(_ context.Context, scope repository.ProfileScope, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[id]
	if !ok || !visible(scope, p) {
		return repository.ErrNotFound
	}
	delete(r.m.profiles, id)
	return nil
}
