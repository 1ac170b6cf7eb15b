package httpin

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/inbound"
	"github.com/kelvrith2-lang/safiri-sales/internal/web"
)

// UI serves the datastar actions behind the register screen. Every handler
// answers with SSE patches against the fragments in fragments.html.
type UI struct {
	checkout inbound.CheckoutUseCase
	store    string
	tmpl     *template.Template
	log      *zap.Logger
}

func NewUI(checkout inbound.CheckoutUseCase, store string, log *zap.Logger) *UI {
	t := template.Must(template.New("").Funcs(templateFuncs()).ParseFS(web.FS(), "fragments.html"))
	return &UI{checkout: checkout, store: store, tmpl: t, log: log}
}

type posSignals struct {
	Barcode   string `json:"barcode"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Payment   string `json:"payment"`
}

func (u *UI) Scan(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signals := &posSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		u.toast(sse, "error", "Bad request: invalid signals")
		return
	}
	if signals.Barcode == "" {
		u.toast(sse, "warn", "Scan or type a barcode first")
		return
	}

	sess := SessionFrom(r.Context())
	cart, p, err := u.checkout.Scan(r.Context(), sess.Token, signals.Barcode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.toast(sse, "error", "Unknown barcode "+signals.Barcode)
			return
		}
		u.log.Error("scan", zap.Error(err))
		u.toast(sse, "error", "Something went wrong, try again")
		return
	}

	u.patchCart(sse, cart)
	sse.PatchSignals([]byte(`{"barcode": ""}`))

	switch {
	case p.OutOfStock():
		u.toast(sse, "warn", p.Name+" is out of stock")
	case p.LowStock():
		u.toast(sse, "warn", p.Name+" is running low")
	default:
		u.toast(sse, "ok", "Added "+p.Name)
	}
}

func (u *UI) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signals := &posSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		u.toast(sse, "error", "Bad request: invalid signals")
		return
	}

	sess := SessionFrom(r.Context())
	cart, err := u.checkout.SetQuantity(r.Context(), sess.Token, signals.ProductID, int32(signals.Quantity))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			u.toast(sse, "error", "That item is not in the cart")
		case errors.Is(err, domain.ErrInvalidQuantity):
			u.toast(sse, "warn", "Quantity must be zero or more")
		default:
			u.log.Error("set quantity", zap.Error(err))
			u.toast(sse, "error", "Something went wrong, try again")
		}
		return
	}
	u.patchCart(sse, cart)
}

func (u *UI) Clear(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sess := SessionFrom(r.Context())
	if err := u.checkout.ClearCart(r.Context(), sess.Token); err != nil {
		u.log.Error("clear cart", zap.Error(err))
		u.toast(sse, "error", "Something went wrong, try again")
		return
	}
	u.patchCart(sse, domain.Cart{})
	u.toast(sse, "ok", "Cart cleared")
}

func (u *UI) Checkout(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signals := &posSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		u.toast(sse, "error", "Bad request: invalid signals")
		return
	}
	payment, err := domain.ParsePaymentMethod(signals.Payment)
	if err != nil {
		u.toast(sse, "warn", "Pick cash or card")
		return
	}

	sess := SessionFrom(r.Context())
	sale, err := u.checkout.Checkout(r.Context(), sess.Token, sess.Cashier.ID, payment)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			u.toast(sse, "warn", "Nothing to ring up")
			return
		}
		u.log.Error("checkout", zap.Error(err))
		u.toast(sse, "error", "Checkout failed, the cart is untouched")
		return
	}

	u.patchCart(sse, domain.Cart{})
	u.patchReceipt(sse, sale)
	u.toast(sse, "ok", fmt.Sprintf("Sale %s, %s %s", sale.ReceiptNumber, domain.FormatMinor(sale.TotalMinor), sale.Payment))
}

func (u *UI) toast(sse *datastar.ServerSentEventGenerator, level, message string) {
	html, err := u.fragment("toast", struct {
		Level   string
		Message string
	}{Level: level, Message: message})
	if err != nil {
		u.log.Error("render toast", zap.Error(err))
		return
	}
	sse.PatchElements(html)
}

func (u *UI) patchCart(sse *datastar.ServerSentEventGenerator, cart domain.Cart) {
	html, err := u.fragment("cart", cartView(cart))
	if err != nil {
		u.log.Error("render cart", zap.Error(err))
		return
	}
	sse.PatchElements(html)
}

func (u *UI) patchReceipt(sse *datastar.ServerSentEventGenerator, sale domain.Sale) {
	html, err := u.fragment("receipt", receiptView(u.store, sale))
	if err != nil {
		u.log.Error("render receipt", zap.Error(err))
		return
	}
	sse.PatchElements(html)
}

func (u *UI) fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := u.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
