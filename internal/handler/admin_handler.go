package handler

import (
	"net/http"
	"strconv"
	"strings"

	"evote/internal/container"
	"evote/internal/domain"
	"evote/internal/service"
	"evote/pkg/errors"
	"evote/pkg/logger"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 5 << 20

// AdminHandler serves the administrator pages
type AdminHandler struct {
	elections *service.ElectionService
	renderer  *Renderer
	logger    *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(c *container.Container, renderer *Renderer) *AdminHandler {
	return &AdminHandler{
		elections: c.GetElectionService(),
		renderer:  renderer,
		logger:    c.GetLogger().Named("admin_handler"),
	}
}

type adminDashboardView struct {
	Filter    service.ElectionFilter
	Counts    service.StatusCounts
	Elections []domain.Election
}

type createElectionView struct {
	Draft domain.ElectionDraft
}

type electionReportView struct {
	Election   *domain.Election
	Turnout    service.TurnoutStats
	Voters     []domain.Voter
	Candidates []domain.Candidate
	Ranked     []domain.Candidate
	Winner     *domain.Candidate
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	all := h.elections.List(r.Context())
	filter := service.ParseElectionFilter(r.URL.Query().Get("filter"))

	view := adminDashboardView{
		Filter:    filter,
		Counts:    service.CountByStatus(all),
		Elections: service.FilterElections(all, filter),
	}
	h.renderer.Render(w, r, http.StatusOK, "admin_dashboard.html", "Admin Dashboard", view)
}

// CreateForm handles GET /admin/create-election
func (h *AdminHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	view := createElectionView{Draft: domain.ElectionDraft{Candidates: []domain.CandidateDraft{{}}}}
	h.renderer.Render(w, r, http.StatusOK, "create_election.html", "Create Election", view)
}

// Create handles POST /admin/create-election. Besides submitting, the form
// posts here to add or remove candidate rows.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		toastError(r, errors.NewValidationError("The uploaded form could not be read", nil))
		h.renderer.Render(w, r, http.StatusBadRequest, "create_election.html", "Create Election", createElectionView{})
		return
	}

	draft := draftFromForm(r)

	if idx := r.PostFormValue("remove_candidate"); idx != "" {
		if i, err := strconv.Atoi(idx); err == nil && i >= 0 && i < len(draft.Candidates) && len(draft.Candidates) > 1 {
			draft.Candidates = append(draft.Candidates[:i], draft.Candidates[i+1:]...)
		}
		h.renderer.Render(w, r, http.StatusOK, "create_election.html", "Create Election", createElectionView{Draft: draft})
		return
	}
	if r.PostFormValue("action") == "add_candidate" {
		draft.Candidates = append(draft.Candidates, domain.CandidateDraft{})
		h.renderer.Render(w, r, http.StatusOK, "create_election.html", "Create Election", createElectionView{Draft: draft})
		return
	}

	err := h.elections.CreateElection(r.Context(), draft)
	switch {
	case err == nil:
		toastSuccess(r, "Success", "Election created successfully")
		redirect(w, r, h.logger, "/admin/dashboard")
	case abandoned(err):
		return
	case errors.IsType(err, errors.ErrorTypeValidation):
		toastError(r, err)
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "create_election.html", "Create Election", createElectionView{Draft: draft})
	default:
		h.logger.WithError(err).Error("Failed to create election")
		toastError(r, errors.NewInternalError("Failed to create election", err))
		h.renderer.Render(w, r, http.StatusInternalServerError, "create_election.html", "Create Election", createElectionView{Draft: draft})
	}
}

func draftFromForm(r *http.Request) domain.ElectionDraft {
	draft := domain.ElectionDraft{
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Date:      r.PostFormValue("date"),
		StartTime: r.PostFormValue("start_time"),
		EndTime:   r.PostFormValue("end_time"),
		VoterFile: r.PostFormValue("voter_file_name"),
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["voter_file"]; len(files) > 0 && files[0].Filename != "" {
			draft.VoterFile = files[0].Filename
		}
	}

	names := r.PostForm["candidate_name"]
	positions := r.PostForm["candidate_position"]
	for i, name := range names {
		c := domain.CandidateDraft{Name: strings.TrimSpace(name)}
		if i < len(positions) {
			c.Position = strings.TrimSpace(positions[i])
		}
		draft.Candidates = append(draft.Candidates, c)
	}
	if len(draft.Candidates) == 0 {
		draft.Candidates = []domain.CandidateDraft{{}}
	}
	return draft
}

// Details handles GET /admin/election/{id}
func (h *AdminHandler) Details(w http.ResponseWriter, r *http.Request) {
	view, ok := h.report(w, r)
	if !ok {
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "election_details.html", "Election Details", view)
}

// Graph handles GET /admin/graph/{id}
func (h *AdminHandler) Graph(w http.ResponseWriter, r *http.Request) {
	view, ok := h.report(w, r)
	if !ok {
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "election_graph.html", "Election Graph", view)
}

// Refresh handles POST /admin/graph/{id}/refresh
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	_, _, err := h.elections.Refresh(r.Context(), id)
	switch {
	case err == nil:
		toastSuccess(r, "Success", "Data refreshed successfully")
	case abandoned(err):
		return
	case errors.IsType(err, errors.ErrorTypeNotFound):
		toastError(r, err)
		redirect(w, r, h.logger, "/admin/dashboard")
		return
	default:
		h.logger.WithError(err).Error("Failed to refresh election data")
		toastError(r, errors.NewInternalError("Failed to refresh data", err))
	}
	redirect(w, r, h.logger, "/admin/graph/"+id)
}

// report loads an election with its roster and derived figures. On failure it
// has already redirected to the dashboard.
func (h *AdminHandler) report(w http.ResponseWriter, r *http.Request) (*electionReportView, bool) {
	election, voters, err := h.elections.Roster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		toastError(r, err)
		redirect(w, r, h.logger, "/admin/dashboard")
		return nil, false
	}

	view := &electionReportView{
		Election:   election,
		Turnout:    service.Turnout(voters),
		Voters:     voters,
		Candidates: election.Candidates,
	}
	if election.Status == domain.StatusCompleted {
		view.Ranked = service.RankCandidates(election.Candidates)
		if winner, ok := service.Winner(election.Candidates); ok {
			view.Winner = winner
		}
	}
	return view, true
}
