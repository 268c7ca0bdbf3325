package domain

import "fmt"

// ElectionStatus is the lifecycle stage of an election. It never changes on its own.
type ElectionStatus string

const (
	StatusUpcoming  ElectionStatus = "upcoming"
	StatusActive    ElectionStatus = "active"
	StatusCompleted ElectionStatus = "completed"
)

// Valid reports whether s is one of the known statuses
func (s ElectionStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Election represents a single ballot with its candidate list
type Election struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Date       string         `json:"date"`
	TimeSlot   string         `json:"time_slot"`
	Status     ElectionStatus `json:"status"`
	VoterCount *int           `json:"voter_count,omitempty"`
	VotedCount *int           `json:"voted_count,omitempty"`
	Candidates []Candidate    `json:"candidates"`
}

// Validate checks the invariants a fixture or a created election must hold
func (e *Election) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("election id is required")
	}
	if !e.Status.Valid() {
		return fmt.Errorf("election %s: unknown status %q", e.ID, e.Status)
	}
	if e.VoterCount != nil && e.VotedCount != nil && *e.VotedCount > *e.VoterCount {
		return fmt.Errorf("election %s: voted count %d exceeds voter count %d", e.ID, *e.VotedCount, *e.VoterCount)
	}
	return nil
}

// Candidate looks up a candidate by id
func (e *Election) Candidate(id string) (*Candidate, bool) {
	for i := range e.Candidates {
		if e.Candidates[i].ID == id {
			return &e.Candidates[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so callers can never write through to fixtures
func (e Election) Clone() Election {
	out := e
	out.VoterCount = cloneInt(e.VoterCount)
	out.VotedCount = cloneInt(e.VotedCount)
	if e.Candidates != nil {
		out.Candidates = make([]Candidate, len(e.Candidates))
		for i, c := range e.Candidates {
			out.Candidates[i] = c.Clone()
		}
	}
	return out
}

// Candidate is a person standing in an election. Votes and VotePercentage are
// only filled in once the election is completed.
type Candidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Position       string   `json:"position,omitempty"`
	Votes          *int     `json:"votes,omitempty"`
	VotePercentage *float64 `json:"vote_percentage,omitempty"`
}

// VoteCount returns Votes or zero when the tally is not known
func (c Candidate) VoteCount() int {
	if c.Votes == nil {
		return 0
	}
	return *c.Votes
}

// Clone returns a deep copy
func (c Candidate) Clone() Candidate {
	out := c
	out.Votes = cloneInt(c.Votes)
	if c.VotePercentage != nil {
		p := *c.VotePercentage
		out.VotePercentage = &p
	}
	return out
}

// Voter is an entry on the voter roll
type Voter struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	HasVoted bool   `json:"has_voted"`
}

// IntPtr is a helper for optional counts in fixtures and tests
func IntPtr(v int) *int { return &v }

// FloatPtr is a helper for optional percentages in fixtures and tests
func FloatPtr(v float64) *float64 { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
