package service

import (
	"math"
	"sort"
	"strings"

	"evote/internal/domain"
)

// TurnoutStats summarises how much of a roster has voted
type TurnoutStats struct {
	Total              int `json:"total"`
	Voted              int `json:"voted"`
	NotVoted           int `json:"not_voted"`
	Percentage         int `json:"percentage"`
	NotVotedPercentage int `json:"not_voted_percentage"`
}

// Turnout counts voters who have voted. Percentage is rounded and is 0 for an
// empty roster; NotVotedPercentage is always its complement.
func Turnout(voters []domain.Voter) TurnoutStats {
	stats := TurnoutStats{Total: len(voters)}
	for _, v := range voters {
		if v.HasVoted {
			stats.Voted++
		}
	}
	stats.NotVoted = stats.Total - stats.Voted
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Voted) / float64(stats.Total) * 100))
	}
	stats.NotVotedPercentage = 100 - stats.Percentage
	return stats
}

// Winner picks the candidate with the most votes. On a tie the one listed
// first wins. Missing tallies count as zero.
func Winner(candidates []domain.Candidate) (*domain.Candidate, bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].VoteCount() > candidates[best].VoteCount() {
			best = i
		}
	}
	winner := candidates[best].Clone()
	return &winner, true
}

// RankCandidates sorts by votes, highest first, keeping list order for equal tallies
func RankCandidates(candidates []domain.Candidate) []domain.Candidate {
	ranked := make([]domain.Candidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.Clone()
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].VoteCount() > ranked[j].VoteCount()
	})
	return ranked
}

// ElectionFilter selects elections on the admin dashboard
type ElectionFilter string

const (
	FilterAll       ElectionFilter = "all"
	FilterUpcoming  ElectionFilter = ElectionFilter(domain.StatusUpcoming)
	FilterActive    ElectionFilter = ElectionFilter(domain.StatusActive)
	FilterCompleted ElectionFilter = ElectionFilter(domain.StatusCompleted)
)

// ParseElectionFilter falls back to FilterAll for anything unknown
func ParseElectionFilter(s string) ElectionFilter {
	switch f := ElectionFilter(s); f {
	case FilterUpcoming, FilterActive, FilterCompleted:
		return f
	}
	return FilterAll
}

// StatusCounts is the number of elections per dashboard tab
type StatusCounts struct {
	All       int `json:"all"`
	Upcoming  int `json:"upcoming"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// CountByStatus fills the dashboard tab counters
func CountByStatus(elections []domain.Election) StatusCounts {
	counts := StatusCounts{All: len(elections)}
	for _, e := range elections {
		switch e.Status {
		case domain.StatusUpcoming:
			counts.Upcoming++
		case domain.StatusActive:
			counts.Active++
		case domain.StatusCompleted:
			counts.Completed++
		}
	}
	return counts
}

// FilterElections keeps the elections matching the tab, in order
func FilterElections(elections []domain.Election, filter ElectionFilter) []domain.Election {
	out := make([]domain.Election, 0, len(elections))
	for _, e := range elections {
		if filter == FilterAll || ElectionFilter(e.Status) == filter {
			out = append(out, e)
		}
	}
	return out
}

// VoterFilter selects voters on the voter list page
type VoterFilter string

const (
	VotersAll      VoterFilter = "all"
	VotersVoted    VoterFilter = "voted"
	VotersNotVoted VoterFilter = "not-voted"
)

// ParseVoterFilter falls back to VotersAll for anything unknown
func ParseVoterFilter(s string) VoterFilter {
	switch f := VoterFilter(s); f {
	case VotersVoted, VotersNotVoted:
		return f
	}
	return VotersAll
}

// FilterVoters applies the voted filter then a case-insensitive search over
// name and email
func FilterVoters(voters []domain.Voter, filter VoterFilter, search string) []domain.Voter {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Voter, 0, len(voters))
	for _, v := range voters {
		switch filter {
		case VotersVoted:
			if !v.HasVoted {
				continue
			}
		case VotersNotVoted:
			if v.HasVoted {
				continue
			}
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(v.Name), term) &&
			!strings.Contains(strings.ToLower(v.Email), term) {
			continue
		}
		out = append(out, v)
	}
	return out
}
