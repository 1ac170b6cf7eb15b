package httpin

import (
	"context"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

const sessionCookie = "pos_session"

type ctxKey int

const sessionKey ctxKey = 0

// SessionFrom returns the session the middleware stored on the context. The
// zero session means the request never went through withSession.
func SessionFrom(ctx context.Context) domain.Session {
	sess, _ := ctx.Value(sessionKey).(domain.Session)
	return sess
}

func (h *Handlers) sessionFromRequest(r *http.Request) (domain.Session, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return domain.Session{}, domain.ErrSessionExpired
	}
	return h.auth.Authenticate(r.Context(), c.Value)
}

func (h *Handlers) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessionFromRequest(r)
		if err != nil {
			h.rejectUnauthenticated(w, r)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

// rejectUnauthenticated answers in whatever shape the caller expects: plain
// 401 for the JSON API, an SSE toast for datastar actions, and a redirect
// for pages.
func (h *Handlers) rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case strings.HasPrefix(r.URL.Path, "/ui/"):
		sse := datastar.NewSSE(w, r)
		sse.PatchElements(`<div id="toast" class="toast error">Session expired. Reload to sign in.</div>`)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// managerOnly gates catalog mutations. Reads stay open to every role.
func (h *Handlers) managerOnly(w http.ResponseWriter, r *http.Request) bool {
	if !SessionFrom(r.Context()).Cashier.CanManageCatalog() {
		http.Error(w, domain.ErrForbidden.Error(), http.StatusForbidden)
		return false
	}
	return true
}
