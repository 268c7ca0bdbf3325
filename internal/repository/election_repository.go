package repository

import (
	"context"
	"fmt"

	"evote/internal/domain"
)

// MemoryElectionRepository serves elections and voters from fixed in-memory
// fixtures. Nothing writes to it after construction.
type MemoryElectionRepository struct {
	elections []domain.Election
	voters    []domain.Voter
}

// NewMemoryElectionRepository validates the fixtures and builds the store
func NewMemoryElectionRepository(elections []domain.Election, voters []domain.Voter) (*MemoryElectionRepository, error) {
	seen := make(map[string]bool, len(elections))
	stored := make([]domain.Election, 0, len(elections))
	for _, e := range elections {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid election fixture: %w", err)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate election id %q", e.ID)
		}
		seen[e.ID] = true
		stored = append(stored, e.Clone())
	}

	return &MemoryElectionRepository{
		elections: stored,
		voters:    append([]domain.Voter(nil), voters...),
	}, nil
}

// NewDefaultElectionRepository builds the store from the bundled sample data
func NewDefaultElectionRepository() *MemoryElectionRepository {
	repo, err := NewMemoryElectionRepository(DefaultElections(), DefaultVoters())
	if err != nil {
		// fixtures are compiled in; a failure here is a programming error
		panic(err)
	}
	return repo
}

// List returns every election in fixture order
func (r *MemoryElectionRepository) List(ctx context.Context) []domain.Election {
	out := make([]domain.Election, len(r.elections))
	for i, e := range r.elections {
		out[i] = e.Clone()
	}
	return out
}

// GetByID performs a linear lookup by id
func (r *MemoryElectionRepository) GetByID(ctx context.Context, id string) (*domain.Election, error) {
	for _, e := range r.elections {
		if e.ID == id {
			clone := e.Clone()
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrElectionNotFound, id)
}

// VotersForElection returns the shared roster. The election id is not used:
// every election sees the same voters.
func (r *MemoryElectionRepository) VotersForElection(ctx context.Context, electionID string) []domain.Voter {
	return append([]domain.Voter(nil), r.voters...)
}
