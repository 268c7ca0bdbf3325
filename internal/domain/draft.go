package domain

// ElectionDraft is the admin create-election form
type ElectionDraft struct {
	Name       string
	Date       string
	StartTime  string
	EndTime    string
	Candidates []CandidateDraft
	// VoterFile is the name of the uploaded voter list, empty when none was sent
	VoterFile string
}

// CandidateDraft is one candidate row of the create-election form
type CandidateDraft struct {
	Name     string
	Position string
}

// TimeSlot renders the start and end times the way fixtures store them
func (d ElectionDraft) TimeSlot() string {
	return d.StartTime + " - " + d.EndTime
}
