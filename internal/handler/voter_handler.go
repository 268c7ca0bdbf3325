package handler

import (
	"net/http"

	"evote/internal/container"
	"evote/internal/domain"
	"evote/internal/service"
	"evote/internal/service/face"
	"evote/pkg/errors"
	"evote/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// VoterHandler serves the voter pages
type VoterHandler struct {
	elections *service.ElectionService
	face      service.FaceService
	renderer  *Renderer
	logger    *logger.Logger
}

// NewVoterHandler creates a new voter handler
func NewVoterHandler(c *container.Container, renderer *Renderer) *VoterHandler {
	return &VoterHandler{
		elections: c.GetElectionService(),
		face:      c.GetFaceService(),
		renderer:  renderer,
		logger:    c.GetLogger().Named("voter_handler"),
	}
}

type voterDashboardView struct {
	Elections []domain.Election
}

type faceView struct {
	Election  *domain.Election
	State     domain.FaceState
	Countdown int
}

type voteView struct {
	Election *domain.Election
	Selected string
	Voted    bool
}

type resultsView struct {
	Election *domain.Election
	Winner   *domain.Candidate
	Ranked   []domain.Candidate
}

type voterListView struct {
	Election *domain.Election
	Turnout  service.TurnoutStats
	Filter   service.VoterFilter
	Search   string
	Voters   []domain.Voter
}

// Dashboard handles GET /voter/dashboard
func (h *VoterHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	elections, err := h.elections.ListEligible(r.Context())
	if err != nil {
		if !abandoned(err) {
			h.logger.WithError(err).Error("Failed to load elections")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "voter_dashboard.html", "Voter Dashboard", voterDashboardView{Elections: elections})
}

// FaceVerification handles GET /voter/face-verification/{id}
func (h *VoterHandler) FaceVerification(w http.ResponseWriter, r *http.Request) {
	election, ok := h.activeElection(w, r)
	if !ok {
		return
	}
	st := stateFrom(r)
	if r.URL.Query().Get("retry") != "" {
		st.ClearFaceVerified(election.ID)
	}

	state := domain.FaceInitial
	if st.FaceVerified(election.ID) {
		state = domain.FaceSuccess
	}
	h.renderFace(w, r, http.StatusOK, election, state)
}

// Scan handles POST /voter/face-verification/{id}
func (h *VoterHandler) Scan(w http.ResponseWriter, r *http.Request) {
	election, ok := h.activeElection(w, r)
	if !ok {
		return
	}

	state, err := h.face.Scan(r.Context())
	if err != nil {
		// the browser left mid-scan; the countdown is dropped
		return
	}

	st := stateFrom(r)
	if state == domain.FaceSuccess {
		st.MarkFaceVerified(election.ID)
		redirect(w, r, h.logger, "/voter/face-verification/"+election.ID)
		return
	}
	st.ClearFaceVerified(election.ID)
	h.renderFace(w, r, http.StatusOK, election, domain.FaceFailed)
}

func (h *VoterHandler) renderFace(w http.ResponseWriter, r *http.Request, status int, election *domain.Election, state domain.FaceState) {
	view := faceView{Election: election, State: state, Countdown: face.CountdownTicks}
	h.renderer.Render(w, r, status, "face_verification.html", "Face Verification", view)
}

// VoteForm handles GET /voter/vote-confirmation/{id}
func (h *VoterHandler) VoteForm(w http.ResponseWriter, r *http.Request) {
	election, ok := h.activeElection(w, r)
	if !ok {
		return
	}
	st := stateFrom(r)
	if st.HasVoted(election.ID) {
		h.renderer.Render(w, r, http.StatusOK, "vote_confirmation.html", "Vote Confirmation", voteView{Election: election, Voted: true})
		return
	}
	if !h.requireFace(w, r, election) {
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "vote_confirmation.html", "Vote Confirmation", voteView{Election: election})
}

// Vote handles POST /voter/vote-confirmation/{id}
func (h *VoterHandler) Vote(w http.ResponseWriter, r *http.Request) {
	election, ok := h.activeElection(w, r)
	if !ok {
		return
	}
	st := stateFrom(r)
	if st.HasVoted(election.ID) {
		redirect(w, r, h.logger, "/voter/vote-confirmation/"+election.ID)
		return
	}
	if !h.requireFace(w, r, election) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	candidateID := r.PostFormValue("candidate_id")
	view := voteView{Election: election, Selected: candidateID}

	if candidateID == "" {
		toastError(r, errors.NewValidationError(service.MsgUnknownCandidate, nil))
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "vote_confirmation.html", "Vote Confirmation", view)
		return
	}

	_, err := h.elections.SubmitVote(r.Context(), election.ID, candidateID)
	switch {
	case err == nil:
		st.MarkVoted(election.ID)
		toastSuccess(r, "Success", "Your vote has been successfully submitted")
		redirect(w, r, h.logger, "/voter/vote-confirmation/"+election.ID)
	case abandoned(err):
		return
	case errors.IsType(err, errors.ErrorTypeValidation):
		toastError(r, err)
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "vote_confirmation.html", "Vote Confirmation", view)
	default:
		h.logger.WithError(err).Error("Failed to submit vote")
		toastError(r, errors.NewInternalError("Failed to submit your vote. Please try again.", err))
		h.renderer.Render(w, r, http.StatusInternalServerError, "vote_confirmation.html", "Vote Confirmation", view)
	}
}

// Results handles GET /voter/results/{id}
func (h *VoterHandler) Results(w http.ResponseWriter, r *http.Request) {
	election, err := h.elections.GetCompleted(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.backToDashboard(w, r, err)
		return
	}

	view := resultsView{Election: election, Ranked: service.RankCandidates(election.Candidates)}
	if winner, ok := service.Winner(election.Candidates); ok {
		view.Winner = winner
	}
	h.renderer.Render(w, r, http.StatusOK, "results.html", "Election Results", view)
}

// VoterList handles GET /voter/voter-list/{id}
func (h *VoterHandler) VoterList(w http.ResponseWriter, r *http.Request) {
	election, voters, err := h.elections.Roster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.backToDashboard(w, r, err)
		return
	}

	q := r.URL.Query()
	view := voterListView{
		Election: election,
		Turnout:  service.Turnout(voters),
		Filter:   service.ParseVoterFilter(q.Get("filter")),
		Search:   q.Get("q"),
	}
	view.Voters = service.FilterVoters(voters, view.Filter, view.Search)
	h.renderer.Render(w, r, http.StatusOK, "voter_list.html", "Voter List", view)
}

func (h *VoterHandler) activeElection(w http.ResponseWriter, r *http.Request) (*domain.Election, bool) {
	election, err := h.elections.GetActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.backToDashboard(w, r, err)
		return nil, false
	}
	return election, true
}

// requireFace sends voters without a successful scan back to the scan page
func (h *VoterHandler) requireFace(w http.ResponseWriter, r *http.Request, election *domain.Election) bool {
	if stateFrom(r).FaceVerified(election.ID) {
		return true
	}
	toastError(r, errors.NewAuthorizationError("Please complete face verification first"))
	redirect(w, r, h.logger, "/voter/face-verification/"+election.ID)
	return false
}

func (h *VoterHandler) backToDashboard(w http.ResponseWriter, r *http.Request, err error) {
	if errors.IsType(err, errors.ErrorTypeInternal) {
		h.logger.WithError(err).Error("Failed to load election")
	}
	toastError(r, err)
	redirect(w, r, h.logger, "/voter/dashboard")
}
