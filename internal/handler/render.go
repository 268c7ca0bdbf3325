package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"evote/internal/domain"
	"evote/internal/notify"
	"evote/internal/session"
	apperrors "evote/pkg/errors"
	"evote/pkg/logger"
	"evote/pkg/utils"

	"github.com/gorilla/csrf"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"admin_register.html",
	"admin_login.html",
	"voter_login.html",
	"verify_otp.html",
	"admin_dashboard.html",
	"create_election.html",
	"election_details.html",
	"election_graph.html",
	"voter_dashboard.html",
	"face_verification.html",
	"vote_confirmation.html",
	"results.html",
	"voter_list.html",
}

// Page is what every template receives
type Page struct {
	Title  string
	User   *domain.Identity
	Toasts []domain.Toast
	Data   interface{}
}

// Renderer executes the embedded page templates inside the shared layout
type Renderer struct {
	pages  map[string]*template.Template
	logger *logger.Logger
}

// NewRenderer parses every page once
func NewRenderer(logger *logger.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"csrfField": func() template.HTML { return "" },
		"mask":      utils.MaskContact,
		"phone":     utils.FormatMobileForDisplay,
		"title":     titleCase,
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"derefF": func(p *float64) float64 {
			if p == nil {
				return 0
			}
			return *p
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render drains queued toasts, saves the session and writes the page
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	tpl, ok := rd.pages[name]
	if !ok {
		rd.logger.WithField("template", name).Error("Unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	st := stateFrom(r)
	page := Page{Title: title, Data: data}
	if st != nil {
		page.User = st.CurrentUser()
		page.Toasts = notify.Drain(st.Session())
		if err := st.Save(w, r); err != nil {
			rd.logger.WithError(err).Error("Failed to save session")
		}
	}

	tpl, err := tpl.Clone()
	if err != nil {
		rd.logger.WithError(err).Error("Failed to clone template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	tpl.Funcs(template.FuncMap{
		"csrfField": func() template.HTML { return csrf.TemplateField(r) },
	})

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page); err != nil {
		rd.logger.WithError(err).WithField("template", name).Error("Failed to render template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func stateFrom(r *http.Request) *session.State {
	st, _ := session.FromContext(r.Context())
	return st
}

// redirect saves the session and sends the browser to target
func redirect(w http.ResponseWriter, r *http.Request, log *logger.Logger, target string) {
	if st := stateFrom(r); st != nil {
		if err := st.Save(w, r); err != nil {
			log.WithError(err).Error("Failed to save session")
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// toastError queues an error toast built from err
func toastError(r *http.Request, err error) {
	st := stateFrom(r)
	if st == nil {
		return
	}
	appErr := apperrors.AsAppError(err)
	title := appErr.Title
	if title == "" {
		title = "Error"
	}
	notify.Error(st.Session(), title, appErr.Message)
}

// toastSuccess queues a success toast
func toastSuccess(r *http.Request, title, message string) {
	if st := stateFrom(r); st != nil {
		notify.Success(st.Session(), title, message)
	}
}

// abandoned reports whether the client went away while a simulated call was
// pending, in which case nothing should be written
func abandoned(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
