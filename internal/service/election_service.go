package service

import (
	"context"
	"errors"
	"strings"

	"evote/internal/domain"
	"evote/internal/repository"
	apperrors "evote/pkg/errors"
	"evote/pkg/latency"

	"go.uber.org/zap"
)

// User-facing messages shared by the admin and voter pages
const (
	MsgElectionNotFound    = "Election not found"
	MsgElectionNotActive   = "This election is not currently active"
	MsgResultsNotAvailable = "Results are not available yet"
	MsgRequiredFields      = "Please fill in all required fields"
	MsgVoterFileRequired   = "Please upload a voter list CSV file"
	MsgCandidateDetails    = "Please fill in all candidate details"
	MsgUnknownCandidate    = "Please select a candidate"
)

// ElectionService layers status rules and simulated latency over the election store
type ElectionService struct {
	repo   repository.ElectionRepository
	delay  latency.Simulator
	logger *zap.Logger
}

func NewElectionService(repo repository.ElectionRepository, delay latency.Simulator, logger *zap.Logger) *ElectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ElectionService{
		repo:   repo,
		delay:  delay,
		logger: logger,
	}
}

// List returns every election without delay. Used by the admin dashboard and the API.
func (s *ElectionService) List(ctx context.Context) []domain.Election {
	return s.repo.List(ctx)
}

// ListEligible is the voter dashboard fetch. Every voter sees every election.
func (s *ElectionService) ListEligible(ctx context.Context) ([]domain.Election, error) {
	if err := s.delay.Wait(ctx, latency.ElectionList); err != nil {
		return nil, err
	}
	return s.repo.List(ctx), nil
}

// Get looks up an election by id
func (s *ElectionService) Get(ctx context.Context, id string) (*domain.Election, error) {
	election, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrElectionNotFound) {
			return nil, apperrors.NewNotFoundError(MsgElectionNotFound)
		}
		return nil, apperrors.NewInternalError("Failed to load election details", err)
	}
	return election, nil
}

// GetActive is Get restricted to elections that are open for voting
func (s *ElectionService) GetActive(ctx context.Context, id string) (*domain.Election, error) {
	election, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.Status != domain.StatusActive {
		return nil, apperrors.NewConflictError(MsgElectionNotActive)
	}
	return election, nil
}

// GetCompleted is Get restricted to elections whose results are published
func (s *ElectionService) GetCompleted(ctx context.Context, id string) (*domain.Election, error) {
	election, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.Status != domain.StatusCompleted {
		return nil, apperrors.NewConflictError(MsgResultsNotAvailable)
	}
	return election, nil
}

// Roster returns the voter roll of an existing election
func (s *ElectionService) Roster(ctx context.Context, id string) (*domain.Election, []domain.Voter, error) {
	election, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return election, s.repo.VotersForElection(ctx, id), nil
}

// Refresh re-reads an election and its roster after the report refresh delay
func (s *ElectionService) Refresh(ctx context.Context, id string) (*domain.Election, []domain.Voter, error) {
	if err := s.delay.Wait(ctx, latency.ReportRefresh); err != nil {
		return nil, nil, err
	}
	return s.Roster(ctx, id)
}

// ValidateDraft checks the create-election form in the order the page reports problems
func (s *ElectionService) ValidateDraft(draft domain.ElectionDraft) error {
	missing := map[string]interface{}{}
	for field, value := range map[string]string{
		"name":       draft.Name,
		"date":       draft.Date,
		"start_time": draft.StartTime,
		"end_time":   draft.EndTime,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(MsgRequiredFields, missing)
	}

	if draft.VoterFile == "" {
		return apperrors.NewValidationError(MsgVoterFileRequired, map[string]interface{}{"voter_file": "required"})
	}

	if len(draft.Candidates) == 0 {
		return apperrors.NewValidationError(MsgCandidateDetails, map[string]interface{}{"candidates": "required"})
	}
	for _, c := range draft.Candidates {
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Position) == "" {
			return apperrors.NewValidationError(MsgCandidateDetails, map[string]interface{}{"candidates": "incomplete"})
		}
	}
	return nil
}

// CreateElection validates the draft and waits out the simulated save.
// The election is not added to the store.
func (s *ElectionService) CreateElection(ctx context.Context, draft domain.ElectionDraft) error {
	if err := s.ValidateDraft(draft); err != nil {
		return err
	}
	if err := s.delay.Wait(ctx, latency.ElectionCreate); err != nil {
		return err
	}

	s.logger.Info("Election created",
		zap.String("name", draft.Name),
		zap.String("date", draft.Date),
		zap.String("time_slot", draft.TimeSlot()),
		zap.Int("candidates", len(draft.Candidates)),
		zap.String("voter_file", draft.VoterFile))
	return nil
}

// SubmitVote accepts a ballot for an active election. Tallies are not changed.
func (s *ElectionService) SubmitVote(ctx context.Context, electionID, candidateID string) (*domain.Election, error) {
	election, err := s.GetActive(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if _, ok := election.Candidate(candidateID); !ok {
		return nil, apperrors.NewValidationError(MsgUnknownCandidate, map[string]interface{}{"candidate_id": candidateID})
	}
	if err := s.delay.Wait(ctx, latency.VoteSubmit); err != nil {
		return nil, err
	}

	s.logger.Info("Vote submitted",
		zap.String("election_id", electionID),
		zap.String("candidate_id", candidateID))
	return election, nil
}
