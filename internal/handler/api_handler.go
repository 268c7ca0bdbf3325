package handler

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"evote/internal/container"
	"evote/internal/domain"
	"evote/internal/middleware"
	"evote/internal/service"
	"evote/pkg/errors"
	"evote/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// APIHandler exposes election reports as JSON for the admin dashboard
type APIHandler struct {
	elections *service.ElectionService
	logger    *logger.Logger
}

// NewAPIHandler creates a new report API handler
func NewAPIHandler(c *container.Container) *APIHandler {
	return &APIHandler{
		elections: c.GetElectionService(),
		logger:    c.GetLogger().Named("api_handler"),
	}
}

// ElectionListResponse is the body of GET /api/elections
type ElectionListResponse struct {
	Filter    service.ElectionFilter `json:"filter"`
	Counts    service.StatusCounts   `json:"counts"`
	Elections []domain.Election      `json:"elections"`
}

// TurnoutResponse is the body of GET /api/elections/{id}/turnout
type TurnoutResponse struct {
	ElectionID string               `json:"election_id"`
	Turnout    service.TurnoutStats `json:"turnout"`
	Voters     []domain.Voter       `json:"voters"`
}

// ResultsResponse is the body of GET /api/elections/{id}/results
type ResultsResponse struct {
	ElectionID string             `json:"election_id"`
	Winner     *domain.Candidate  `json:"winner,omitempty"`
	Ranked     []domain.Candidate `json:"ranked"`
}

// ListElections handles GET /api/elections
func (h *APIHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	all := h.elections.List(r.Context())
	filter := service.ParseElectionFilter(r.URL.Query().Get("status"))

	h.respondCached(w, r, 10*time.Second, ElectionListResponse{
		Filter:    filter,
		Counts:    service.CountByStatus(all),
		Elections: service.FilterElections(all, filter),
	})
}

// GetElection handles GET /api/elections/{id}
func (h *APIHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	election, err := h.elections.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCached(w, r, 10*time.Second, election)
}

// GetTurnout handles GET /api/elections/{id}/turnout
func (h *APIHandler) GetTurnout(w http.ResponseWriter, r *http.Request) {
	election, voters, err := h.elections.Roster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondCached(w, r, 10*time.Second, TurnoutResponse{
		ElectionID: election.ID,
		Turnout:    service.Turnout(voters),
		Voters:     voters,
	})
}

// GetResults handles GET /api/elections/{id}/results
func (h *APIHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	election, err := h.elections.GetCompleted(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := ResultsResponse{ElectionID: election.ID, Ranked: service.RankCandidates(election.Candidates)}
	if winner, ok := service.Winner(election.Candidates); ok {
		resp.Winner = winner
	}
	// completed results never change
	h.respondCached(w, r, 30*time.Second, resp)
}

func (h *APIHandler) respondCached(w http.ResponseWriter, r *http.Request, maxAge time.Duration, data interface{}) {
	etag := generateETag(data)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", int(maxAge.Seconds())))
	h.respondJSON(w, http.StatusOK, data)
}

func (h *APIHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *APIHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if abandoned(err) {
		return
	}
	appErr := errors.AsAppError(err)
	if appErr.Type == errors.ErrorTypeInternal {
		h.logger.WithError(err).Error("Report request failed")
	}

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = middleware.GetRequestID(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)
	h.respondJSON(w, appErr.StatusCode, response)
}

func generateETag(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf(`"%x"`, hash)
}
