package httpin

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type loginVM struct {
	Store string
	Error string
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.renderPage(w, http.StatusOK, "login.html", loginVM{Store: h.store})
	case http.MethodPost:
		h.doLogin(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) doLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	sess, err := h.auth.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.renderPage(w, http.StatusUnauthorized, "login.html", loginVM{
				Store: h.store,
				Error: "Wrong email or password.",
			})
			return
		}
		h.log.Error("login", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if c, err := r.Cookie(sessionCookie); err == nil {
		_ = h.auth.Logout(r.Context(), c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type posVM struct {
	Store   string
	Cashier domain.Cashier
	Cart    cartVM
}

func (h *Handlers) posPage(w http.ResponseWriter, r *http.Request) {
	// "/" is a catch-all pattern; anything but the root itself is a miss.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess := SessionFrom(r.Context())
	cart, err := h.checkout.Cart(r.Context(), sess.Token)
	if err != nil {
		h.log.Error("load cart", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.renderPage(w, http.StatusOK, "pos.html", posVM{
		Store:   h.store,
		Cashier: sess.Cashier,
		Cart:    cartView(cart),
	})
}

type dashboardVM struct {
	Store     string
	Cashier   domain.Cashier
	Day       string
	Summary   domain.DailySummary
	Average   string
	Top       []topProductVM
	Inventory domain.InventoryHealth
	Recent    []saleRowVM
	CacheLen  int
	CacheHit  string
}

type topProductVM struct {
	Name     string
	Quantity int64
	Gross    string
}

type saleRowVM struct {
	ReceiptNumber string
	CreatedAt     string
	Payment       string
	Total         string
}

func (h *Handlers) dashboardPage(w http.ResponseWriter, r *http.Request) {
	day, err := dateQuery(r, "date")
	if err != nil {
		http.Error(w, "bad date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	sum, err := h.reports.DailySummary(ctx, day)
	if err != nil {
		h.log.Error("daily summary", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	top, err := h.reports.TopProducts(ctx, day, 5)
	if err != nil {
		h.log.Error("top products", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	inv, err := h.reports.InventoryHealth(ctx)
	if err != nil {
		h.log.Error("inventory health", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	recent, err := h.reports.RecentSales(ctx, 10)
	if err != nil {
		h.log.Error("recent sales", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	vm := dashboardVM{
		Store:     h.store,
		Cashier:   SessionFrom(ctx).Cashier,
		Day:       day.Format("2006-01-02"),
		Summary:   sum,
		Average:   domain.FormatMinor(sum.AverageSaleMinor()),
		Inventory: inv,
		CacheLen:  h.cache.Len(ctx),
		CacheHit:  fmt.Sprintf("%.0f%%", h.cache.HitRate()*100),
	}
	for _, t := range top {
		vm.Top = append(vm.Top, topProductVM{
			Name:     t.Name,
			Quantity: t.QuantitySold,
			Gross:    domain.FormatMinor(t.GrossMinor),
		})
	}
	for _, s := range recent {
		vm.Recent = append(vm.Recent, saleRow(s))
	}
	h.renderPage(w, http.StatusOK, "dashboard.html", vm)
}

type productsVM struct {
	Store    string
	Cashier  domain.Cashier
	Search   string
	Category string
	Products []productRowVM
}

type productRowVM struct {
	ID       string
	Barcode  string
	Name     string
	Category string
	Price    string
	VAT      string
	Stock    int32
	MinStock int32
	Active   bool
	Low      bool
	Out      bool
}

func (h *Handlers) productsPage(w http.ResponseWriter, r *http.Request) {
	q := domain.ProductQuery{
		Search:          strings.TrimSpace(r.URL.Query().Get("search")),
		Category:        strings.TrimSpace(r.URL.Query().Get("category")),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
	}

	ps, err := h.catalog.ListProducts(r.Context(), q)
	if err != nil {
		h.log.Error("list products", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	vm := productsVM{
		Store:    h.store,
		Cashier:  SessionFrom(r.Context()).Cashier,
		Search:   q.Search,
		Category: q.Category,
	}
	for _, p := range ps {
		vm.Products = append(vm.Products, productRowVM{
			ID:       p.ID,
			Barcode:  p.Barcode,
			Name:     p.Name,
			Category: p.Category,
			Price:    domain.FormatMinor(p.PriceMinor),
			VAT:      vatPct(p.VATRateBP),
			Stock:    p.Stock,
			MinStock: p.MinStock,
			Active:   p.Active,
			Low:      p.LowStock(),
			Out:      p.OutOfStock(),
		})
	}
	h.renderPage(w, http.StatusOK, "products.html", vm)
}

type salesVM struct {
	Store    string
	Cashier  domain.Cashier
	Sales    []saleRowVM
	Page     int
	PageSize int
	Total    int
	Pages    int
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

func (h *Handlers) salesPage(w http.ResponseWriter, r *http.Request) {
	page := intQuery(r, "page", 1)
	if page < 1 {
		page = 1
	}
	const pageSize = 20

	sales, total, err := h.reports.SalesPage(r.Context(), page, pageSize)
	if err != nil {
		h.log.Error("list sales", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	vm := salesVM{
		Store:    h.store,
		Cashier:  SessionFrom(r.Context()).Cashier,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Pages:    pages,
		HasPrev:  page > 1,
		HasNext:  page < pages,
		PrevPage: page - 1,
		NextPage: page + 1,
	}
	for _, s := range sales {
		vm.Sales = append(vm.Sales, saleRow(s))
	}
	h.renderPage(w, http.StatusOK, "sales.html", vm)
}

func (h *Handlers) receiptPage(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/receipts/"))
	if number == "" {
		http.NotFound(w, r)
		return
	}

	sale, err := h.reports.SaleByReceipt(r.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("load receipt", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.renderPage(w, http.StatusOK, "receipt.html", receiptView(h.store, sale))
}

type cartVM struct {
	Lines []cartLineVM
	Gross string
	VAT   string
	Net   string
	Items int32
	Empty bool
}

type cartLineVM struct {
	ProductID string
	Barcode   string
	Name      string
	Quantity  int32
	Unit      string
	Total     string
}

func cartView(c domain.Cart) cartVM {
	t := c.Totals()
	vm := cartVM{
		Gross: domain.FormatMinor(t.GrossMinor),
		VAT:   domain.FormatMinor(t.VATMinor),
		Net:   domain.FormatMinor(t.NetMinor),
		Items: t.Items,
		Empty: c.Empty(),
	}
	for _, l := range c.Lines {
		vm.Lines = append(vm.Lines, cartLineVM{
			ProductID: l.ProductID,
			Barcode:   l.Barcode,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Unit:      domain.FormatMinor(l.UnitPriceMinor),
			Total:     domain.FormatMinor(l.GrossMinor()),
		})
	}
	return vm
}

type receiptVM struct {
	Store         string
	ReceiptNumber string
	CreatedAt     string
	Payment       string
	Items         []receiptItemVM
	Total         string
	VAT           string
	Net           string
}

type receiptItemVM struct {
	Name     string
	Quantity int32
	Unit     string
	Total    string
}

func receiptView(store string, s domain.Sale) receiptVM {
	vm := receiptVM{
		Store:         store,
		ReceiptNumber: s.ReceiptNumber,
		CreatedAt:     s.CreatedAt.Local().Format("2006-01-02 15:04"),
		Payment:       string(s.Payment),
		Total:         domain.FormatMinor(s.TotalMinor),
		VAT:           domain.FormatMinor(s.VATMinor),
		Net:           domain.FormatMinor(s.TotalMinor - s.VATMinor),
	}
	for _, it := range s.Items {
		vm.Items = append(vm.Items, receiptItemVM{
			Name:     it.Name,
			Quantity: it.Quantity,
			Unit:     domain.FormatMinor(it.UnitPriceMinor),
			Total:    domain.FormatMinor(it.LineTotalMinor),
		})
	}
	return vm
}

func saleRow(s domain.Sale) saleRowVM {
	return saleRowVM{
		ReceiptNumber: s.ReceiptNumber,
		CreatedAt:     s.CreatedAt.Local().Format("2006-01-02 15:04"),
		Payment:       string(s.Payment),
		Total:         domain.FormatMinor(s.TotalMinor),
	}
}

// vatPct renders basis points as a percentage, dropping the decimal for
// whole-percent rates.
func vatPct(bp int32) string {
	if bp%100 == 0 {
		return fmt.Sprintf("%d%%", bp/100)
	}
	return fmt.Sprintf("%.1f%%", float64(bp)/100)
}

func (h *Handlers) renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("render page", zap.String("template", name), zap.Error(err))
	}
}

func templateFuncs() map[string]any {
	return map[string]any{
		"money":  domain.FormatMinor,
		"vatPct": vatPct,
		"datetime": func(t time.Time) string {
			return t.Local().Format("2006-01-02 15:04")
		},
	}
}
