package repository

import (
	"context"
	"errors"

	"evote/internal/domain"
)

// ErrElectionNotFound is returned when no election has the requested id
var ErrElectionNotFound = errors.New("election not found")

// ElectionRepository is the read-only election and voter-roll store
type ElectionRepository interface {
	// List returns every election in fixture order
	List(ctx context.Context) []domain.Election

	// GetByID returns the election with the given id or ErrElectionNotFound
	GetByID(ctx context.Context, id string) (*domain.Election, error)

	// VotersForElection returns the voter roll for an election
	VotersForElection(ctx context.Context, electionID string) []domain.Voter
}
