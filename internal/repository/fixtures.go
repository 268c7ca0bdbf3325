package repository

import "evote/internal/domain"

// DefaultElections are the sample elections the demo ships with
func DefaultElections() []domain.Election {
	return []domain.Election{
		{
			ID:         "1",
			Name:       "Student Council Election 2025",
			Date:       "2025-03-15",
			TimeSlot:   "9:00 AM - 5:00 PM",
			Status:     domain.StatusUpcoming,
			VoterCount: domain.IntPtr(1250),
			VotedCount: domain.IntPtr(0),
			Candidates: []domain.Candidate{
				{ID: "c1", Name: "Alex Johnson", Position: "President"},
				{ID: "c2", Name: "Maria Rodriguez", Position: "President"},
				{ID: "c3", Name: "David Chen", Position: "President"},
			},
		},
		{
			ID:         "2",
			Name:       "Department Representative Election",
			Date:       "2025-02-20",
			TimeSlot:   "10:00 AM - 4:00 PM",
			Status:     domain.StatusActive,
			VoterCount: domain.IntPtr(580),
			VotedCount: domain.IntPtr(342),
			Candidates: []domain.Candidate{
				{ID: "c4", Name: "Sarah Williams", Position: "Representative"},
				{ID: "c5", Name: "James Lee", Position: "Representative"},
			},
		},
		{
			ID:         "3",
			Name:       "Faculty Board Election 2024",
			Date:       "2024-12-10",
			TimeSlot:   "8:00 AM - 6:00 PM",
			Status:     domain.StatusCompleted,
			VoterCount: domain.IntPtr(95),
			VotedCount: domain.IntPtr(82),
			Candidates: []domain.Candidate{
				{ID: "c6", Name: "Emily Davis", Position: "Faculty Board Member", Votes: domain.IntPtr(45), VotePercentage: domain.FloatPtr(54.9)},
				{ID: "c7", Name: "Michael Taylor", Position: "Faculty Board Member", Votes: domain.IntPtr(37), VotePercentage: domain.FloatPtr(45.1)},
			},
		},
	}
}

// DefaultVoters is the shared sample voter roll
func DefaultVoters() []domain.Voter {
	return []domain.Voter{
		{ID: "v1", Name: "John Smith", Email: "john.smith@example.edu", HasVoted: true},
		{ID: "v2", Name: "Emma Brown", Email: "emma.brown@example.edu", HasVoted: true},
		{ID: "v3", Name: "Noah Wilson", Email: "noah.w@example.edu", HasVoted: true},
		{ID: "v4", Name: "Olivia Martinez", Email: "olivia.m@example.edu", HasVoted: true},
		{ID: "v5", Name: "William Johnson", Email: "william.j@example.edu", HasVoted: false},
		{ID: "v6", Name: "Sophia Garcia", Email: "sophia.g@example.edu", HasVoted: true},
		{ID: "v7", Name: "James Miller", Email: "james.m@example.edu", HasVoted: false},
		{ID: "v8", Name: "Charlotte Davis", Email: "charlotte.d@example.edu", HasVoted: true},
		{ID: "v9", Name: "Benjamin Rodriguez", Email: "benjamin.r@example.edu", HasVoted: false},
		{ID: "v10", Name: "Amelia Jackson", Email: "amelia.j@example.edu", HasVoted: true},
	}
}
