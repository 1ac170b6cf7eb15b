package httpin

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewMux(h *Handlers, ui *UI) *http.ServeMux {
	mux := http.NewServeMux()

	h.Register(mux)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/ui/scan", h.withSession(ui.Scan))
	mux.HandleFunc("/ui/quantity", h.withSession(ui.SetQuantity))
	mux.HandleFunc("/ui/clear", h.withSession(ui.Clear))
	mux.HandleFunc("/ui/checkout", h.withSession(ui.Checkout))

	return mux
}
