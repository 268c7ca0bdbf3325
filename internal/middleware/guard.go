package middleware

import (
	"net/http"

	"evote/internal/domain"
	"evote/internal/session"
	"evote/pkg/logger"
)

// Outcome is what the guard does with a request
type Outcome int

const (
	Render Outcome = iota
	Loading
	Redirect
)

// Decision is the result of Decide. Target is set for Redirect only.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Decide resolves access to a page that needs the given role
func Decide(subject *domain.Identity, required domain.Role, loading bool) Decision {
	switch {
	case loading:
		return Decision{Outcome: Loading}
	case subject == nil:
		return Decision{Outcome: Redirect, Target: LoginPathFor(required)}
	case subject.Role != required:
		return Decision{Outcome: Redirect, Target: DashboardPathFor(subject.Role)}
	}
	return Decision{Outcome: Render}
}

// LoginPathFor is the sign-in page of a role
func LoginPathFor(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin-login"
	}
	return "/voter-login"
}

// DashboardPathFor is the landing page of a role
func DashboardPathFor(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/voter/dashboard"
}

const loadingPage = `<!DOCTYPE html><html><head><meta charset="utf-8"><meta http-equiv="refresh" content="1"><title>Loading</title></head><body><p>Loading…</p></body></html>`

// RequireRole guards a group of pages
func RequireRole(role domain.Role, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st, _ := session.FromContext(r.Context())
			d := Decide(st.CurrentUser(), role, st.IsLoading())

			switch d.Outcome {
			case Loading:
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(loadingPage))
			case Redirect:
				logger.WithFields(map[string]interface{}{
					"path":   r.URL.Path,
					"target": d.Target,
				}).Debug("Guard redirect")
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
