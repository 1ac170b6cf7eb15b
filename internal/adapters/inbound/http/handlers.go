package httpin

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/inbound"
	"github.com/kelvrith2-lang/safiri-sales/internal/web"
)

// CacheInfo is the slice of the catalog cache the dashboard shows.
type CacheInfo interface {
	Len(ctx context.Context) int
	HitRate() float64
}

type Handlers struct {
	auth     inbound.AuthUseCase
	checkout inbound.CheckoutUseCase
	catalog  inbound.CatalogUseCase
	reports  inbound.ReportUseCase
	cache    CacheInfo
	ready    func(context.Context) error
	store    string
	tmpl     *template.Template
	log      *zap.Logger
}

func NewHandlers(
	auth inbound.AuthUseCase,
	checkout inbound.CheckoutUseCase,
	catalog inbound.CatalogUseCase,
	reports inbound.ReportUseCase,
	cache CacheInfo,
	ready func(context.Context) error,
	store string,
	log *zap.Logger,
) *Handlers {
	t := template.Must(template.New("").Funcs(templateFuncs()).ParseFS(web.FS(), "*.html"))
	return &Handlers{
		auth:     auth,
		checkout: checkout,
		catalog:  catalog,
		reports:  reports,
		cache:    cache,
		ready:    ready,
		store:    store,
		tmpl:     t,
		log:      log,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/readyz", h.readyz)

	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)

	mux.HandleFunc("/", h.withSession(h.posPage))
	mux.HandleFunc("/dashboard", h.withSession(h.dashboardPage))
	mux.HandleFunc("/products", h.withSession(h.productsPage))
	mux.HandleFunc("/sales", h.withSession(h.salesPage))
	mux.HandleFunc("/receipts/", h.withSession(h.receiptPage))

	mux.HandleFunc("/api/products", h.withSession(h.apiProducts))
	mux.HandleFunc("/api/products/", h.withSession(h.apiProductByID))
	mux.HandleFunc("/api/sales", h.withSession(h.apiSales))
	mux.HandleFunc("/api/sales/recent", h.withSession(h.apiRecentSales))
	mux.HandleFunc("/api/receipts/", h.withSession(h.apiReceipt))
	mux.HandleFunc("/api/reports/daily", h.withSession(h.apiDailyReport))
	mux.HandleFunc("/api/reports/top", h.withSession(h.apiTopProducts))
	mux.HandleFunc("/api/reports/inventory", h.withSession(h.apiInventory))
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *Handlers) apiProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listProducts(w, r)
	case http.MethodPost:
		h.createProduct(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	q := domain.ProductQuery{
		Search:          strings.TrimSpace(r.URL.Query().Get("search")),
		Category:        strings.TrimSpace(r.URL.Query().Get("category")),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
		Limit:           intQuery(r, "limit", 0),
	}

	ps, err := h.catalog.ListProducts(r.Context(), q)
	if err != nil {
		h.log.Error("list products", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, ps, http.StatusOK)
}

func (h *Handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	if !h.managerOnly(w, r) {
		return
	}

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.catalog.CreateProduct(r.Context(), p)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateBarcode) {
			http.Error(w, "barcode already exists", http.StatusConflict)
			return
		}
		h.log.Error("create product", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, created, http.StatusCreated)
}

func (h *Handlers) apiProductByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/products/"))
	if rest == "" {
		http.Error(w, "missing product id", http.StatusBadRequest)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/stock"); ok {
		h.setStock(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getProduct(w, r, rest)
	case http.MethodPut:
		h.updateProduct(w, r, rest)
	case http.MethodDelete:
		h.deactivateProduct(w, r, rest)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) getProduct(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.catalog.ProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.log.Error("get product", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *Handlers) updateProduct(w http.ResponseWriter, r *http.Request, id string) {
	if !h.managerOnly(w, r) {
		return
	}

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	p.ID = id
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.catalog.UpdateProduct(r.Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrDuplicateBarcode):
			http.Error(w, "barcode already exists", http.StatusConflict)
		default:
			h.log.Error("update product", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *Handlers) deactivateProduct(w http.ResponseWriter, r *http.Request, id string) {
	if !h.managerOnly(w, r) {
		return
	}

	if err := h.catalog.DeactivateProduct(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.log.Error("deactivate product", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) setStock(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.managerOnly(w, r) {
		return
	}

	var body struct {
		Stock int32 `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if err := h.catalog.SetStock(r.Context(), id, body.Stock); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.log.Error("set stock", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type salesPageResponse struct {
	Sales []domain.Sale `json:"sales"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

func (h *Handlers) apiSales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := intQuery(r, "page", 1)
	size := intQuery(r, "size", 20)

	sales, total, err := h.reports.SalesPage(r.Context(), page, size)
	if err != nil {
		h.log.Error("list sales", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, salesPageResponse{Sales: sales, Total: total, Page: page, Size: size}, http.StatusOK)
}

func (h *Handlers) apiRecentSales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sales, err := h.reports.RecentSales(r.Context(), intQuery(r, "limit", 10))
	if err != nil {
		h.log.Error("recent sales", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, sales, http.StatusOK)
}

func (h *Handlers) apiReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	number := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/receipts/"))
	if number == "" {
		http.Error(w, "missing receipt number", http.StatusBadRequest)
		return
	}

	sale, err := h.reports.SaleByReceipt(r.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.log.Error("get receipt", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, sale, http.StatusOK)
}

type dailyReportResponse struct {
	domain.DailySummary
	AverageSaleMinor int64 `json:"average_sale_minor"`
}

func (h *Handlers) apiDailyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	day, err := dateQuery(r, "date")
	if err != nil {
		http.Error(w, "bad date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	sum, err := h.reports.DailySummary(r.Context(), day)
	if err != nil {
		h.log.Error("daily report", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, dailyReportResponse{DailySummary: sum, AverageSaleMinor: sum.AverageSaleMinor()}, http.StatusOK)
}

func (h *Handlers) apiTopProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	day, err := dateQuery(r, "date")
	if err != nil {
		http.Error(w, "bad date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	top, err := h.reports.TopProducts(r.Context(), day, intQuery(r, "limit", 5))
	if err != nil {
		h.log.Error("top products", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, top, http.StatusOK)
}

func (h *Handlers) apiInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	inv, err := h.reports.InventoryHealth(r.Context())
	if err != nil {
		h.log.Error("inventory health", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, inv, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// dateQuery parses ?date=YYYY-MM-DD in store-local time, today by default.
func dateQuery(r *http.Request, key string) (time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", v, time.Local)
}
