package research

// State holds every variable of one research run. The zero value of each
// field is its declared default.
type State struct {
	UserQuery          string   `json:"userQuery"`
	ResearchQueries    []string `json:"researchQueries"`
	FollowUpQueries    []string `json:"followUpQueries"`
	ResearchResults    []string `json:"researchResults"`
	IsSufficient       bool     `json:"isSufficient"`
	ResearchRoundCount int      `json:"researchRoundCount"`
	FinalAnswer        string   `json:"finalAnswer"`

	// Version counts applied updates.
	Version int `json:"version"`
}

// NewState returns the initial state for a question.
func NewState(query string) State {
	return State{UserQuery: query}
}

// Update names the fields a step overwrites. Nil fields are left untouched.
type Update struct {
	ResearchQueries    *[]string
	FollowUpQueries    *[]string
	ResearchResults    *[]string
	IsSufficient       *bool
	ResearchRoundCount *int
	FinalAnswer        *string
}

// Apply overwrites the fields named by u and bumps Version.
// Slices are stored as given; steps hand over freshly built slices.
func (s *State) Apply(u Update) {
	if u.ResearchQueries != nil {
		s.ResearchQueries = *u.ResearchQueries
	}
	if u.FollowUpQueries != nil {
		s.FollowUpQueries = *u.FollowUpQueries
	}
	if u.ResearchResults != nil {
		s.ResearchResults = *u.ResearchResults
	}
	if u.IsSufficient != nil {
		s.IsSufficient = *u.IsSufficient
	}
	if u.ResearchRoundCount != nil {
		s.ResearchRoundCount = *u.ResearchRoundCount
	}
	if u.FinalAnswer != nil {
		s.FinalAnswer = *u.FinalAnswer
	}
	s.Version++
}

// Reduce is the workflow reducer for State.
func Reduce(s *State, u Update) {
	s.Apply(u)
}

func ptr[T any](v T) *T { return &v }
