package service

import (
	"context"
	"time"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/outbound"
)

// Hand-rolled stubs: each func field overrides one method, everything else
// falls back to a harmless default.

type stubProducts struct {
	list         func(context.Context, domain.ProductQuery) ([]domain.Product, error)
	getByID      func(context.Context, string) (domain.Product, error)
	getByBarcode func(context.Context, string) (domain.Product, error)
	insert       func(context.Context, domain.Product) (domain.Product, error)
	update       func(context.Context, domain.Product) error
	setStock     func(context.Context, string, int32) error
	decrement    func(context.Context, string, int32) error
	upsert       func(context.Context, domain.CatalogUpdate) (domain.Product, error)
	listActive   func(context.Context, int) ([]domain.Product, error)
	health       func(context.Context) (domain.InventoryHealth, error)
}

func (s *stubProducts) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	if s.list == nil {
		return []domain.Product{}, nil
	}
	return s.list(ctx, q)
}

func (s *stubProducts) GetByID(ctx context.Context, id string) (domain.Product, error) {
	if s.getByID == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return s.getByID(ctx, id)
}

func (s *stubProducts) GetByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	if s.getByBarcode == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return s.getByBarcode(ctx, barcode)
}

func (s *stubProducts) Insert(ctx context.Context, p domain.Product) (domain.Product, error) {
	if s.insert == nil {
		p.ID = "generated"
		return p, nil
	}
	return s.insert(ctx, p)
}

func (s *stubProducts) Update(ctx context.Context, p domain.Product) error {
	if s.update == nil {
		return nil
	}
	return s.update(ctx, p)
}

func (s *stubProducts) SetStock(ctx context.Context, id string, stock int32) error {
	if s.setStock == nil {
		return nil
	}
	return s.setStock(ctx, id, stock)
}

func (s *stubProducts) DecrementStock(ctx context.Context, id string, qty int32) error {
	if s.decrement == nil {
		return nil
	}
	return s.decrement(ctx, id, qty)
}

func (s *stubProducts) UpsertByBarcode(ctx context.Context, u domain.CatalogUpdate) (domain.Product, error) {
	if s.upsert == nil {
		return domain.Product{ID: "generated", Barcode: u.Barcode, Name: u.Name, Active: true}, nil
	}
	return s.upsert(ctx, u)
}

func (s *stubProducts) ListActive(ctx context.Context, limit int) ([]domain.Product, error) {
	if s.listActive == nil {
		return []domain.Product{}, nil
	}
	return s.listActive(ctx, limit)
}

func (s *stubProducts) InventoryHealth(ctx context.Context) (domain.InventoryHealth, error) {
	if s.health == nil {
		return domain.InventoryHealth{}, nil
	}
	return s.health(ctx)
}

type stubSales struct {
	record       func(context.Context, domain.Sale) error
	getByReceipt func(context.Context, string) (domain.Sale, error)
	listRecent   func(context.Context, int) ([]domain.Sale, error)
	listPage     func(context.Context, int, int) ([]domain.Sale, error)
	count        func(context.Context) (int, error)
	summarize    func(context.Context, time.Time, time.Time) (domain.DailySummary, error)
	topProducts  func(context.Context, time.Time, time.Time, int) ([]domain.TopProduct, error)
}

func (s *stubSales) Record(ctx context.Context, sale domain.Sale) error {
	if s.record == nil {
		return nil
	}
	return s.record(ctx, sale)
}

func (s *stubSales) GetByReceipt(ctx context.Context, receiptNumber string) (domain.Sale, error) {
	if s.getByReceipt == nil {
		return domain.Sale{}, domain.ErrNotFound
	}
	return s.getByReceipt(ctx, receiptNumber)
}

func (s *stubSales) ListRecent(ctx context.Context, limit int) ([]domain.Sale, error) {
	if s.listRecent == nil {
		return []domain.Sale{}, nil
	}
	return s.listRecent(ctx, limit)
}

func (s *stubSales) ListPage(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	if s.listPage == nil {
		return []domain.Sale{}, nil
	}
	return s.listPage(ctx, limit, offset)
}

func (s *stubSales) Count(ctx context.Context) (int, error) {
	if s.count == nil {
		return 0, nil
	}
	return s.count(ctx)
}

func (s *stubSales) SummarizeRange(ctx context.Context, from, to time.Time) (domain.DailySummary, error) {
	if s.summarize == nil {
		return domain.DailySummary{Day: from}, nil
	}
	return s.summarize(ctx, from, to)
}

func (s *stubSales) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.TopProduct, error) {
	if s.topProducts == nil {
		return []domain.TopProduct{}, nil
	}
	return s.topProducts(ctx, from, to, limit)
}

type stubCashiers struct {
	authenticate func(context.Context, string, string) (domain.Cashier, error)
}

func (s *stubCashiers) Authenticate(ctx context.Context, email, password string) (domain.Cashier, error) {
	if s.authenticate == nil {
		return domain.Cashier{}, domain.ErrInvalidCredentials
	}
	return s.authenticate(ctx, email, password)
}

type fakeCache struct {
	byID        map[string]domain.Product
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{byID: make(map[string]domain.Product)}
}

func (c *fakeCache) GetByID(_ context.Context, id string) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *fakeCache) GetByBarcode(_ context.Context, barcode string) (domain.Product, bool) {
	for _, p := range c.byID {
		if p.Barcode == barcode {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (c *fakeCache) Set(_ context.Context, p domain.Product) {
	c.byID[p.ID] = p
}

func (c *fakeCache) BulkSet(ctx context.Context, ps []domain.Product) {
	for _, p := range ps {
		c.Set(ctx, p)
	}
}

func (c *fakeCache) Invalidate(_ context.Context, id string) {
	delete(c.byID, id)
	c.invalidated = append(c.invalidated, id)
}

func (c *fakeCache) Len(_ context.Context) int { return len(c.byID) }

type fakeCarts struct {
	m       map[string]domain.Cart
	deleted []string
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{m: make(map[string]domain.Cart)}
}

func (s *fakeCarts) Get(_ context.Context, token string) domain.Cart {
	return s.m[token].Clone()
}

func (s *fakeCarts) Put(_ context.Context, token string, cart domain.Cart) {
	s.m[token] = cart.Clone()
}

func (s *fakeCarts) Delete(_ context.Context, token string) {
	delete(s.m, token)
	s.deleted = append(s.deleted, token)
}

type fakeSessions struct {
	m map[string]domain.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: make(map[string]domain.Session)}
}

func (s *fakeSessions) Put(_ context.Context, sess domain.Session) { s.m[sess.Token] = sess }

func (s *fakeSessions) Get(_ context.Context, token string) (domain.Session, bool) {
	sess, ok := s.m[token]
	return sess, ok
}

func (s *fakeSessions) Delete(_ context.Context, token string) { delete(s.m, token) }

func (s *fakeSessions) Sweep(_ context.Context, now time.Time) int {
	removed := 0
	for token, sess := range s.m {
		if sess.Expired(now) {
			delete(s.m, token)
			removed++
		}
	}
	return removed
}

func (s *fakeSessions) Len(_ context.Context) int { return len(s.m) }

type fakePublisher struct {
	published []domain.Sale
}

func (p *fakePublisher) Publish(_ context.Context, sale domain.Sale) {
	p.published = append(p.published, sale)
}

func (p *fakePublisher) Close() error { return nil }

var (
	_ outbound.ProductRepository = (*stubProducts)(nil)
	_ outbound.SaleRepository    = (*stubSales)(nil)
	_ outbound.CashierRepository = (*stubCashiers)(nil)
	_ outbound.ProductCache      = (*fakeCache)(nil)
	_ outbound.CartStore         = (*fakeCarts)(nil)
	_ outbound.SessionStore      = (*fakeSessions)(nil)
	_ outbound.SalePublisher     = (*fakePublisher)(nil)
)
