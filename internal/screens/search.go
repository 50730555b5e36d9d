package screens

import (
	"log"
	"strings"

	"snapfeed/internal/api"
	"snapfeed/internal/models"
)

// Search is the user-search view-model.
type Search struct {
	lifecycle
	client *api.Client

	Query     string
	Results   []models.UserSummary
	Searching bool
}

func NewSearch(client *api.Client) *Search {
	return &Search{lifecycle: newLifecycle(), client: client}
}

// Run executes a search, replacing the previous results. A blank query
// clears them without a request.
func (s *Search) Run(query string) error {
	s.Query = strings.TrimSpace(query)
	if s.Query == "" {
		s.Results = nil
		return nil
	}

	s.Searching = true
	defer func() { s.Searching = false }()

	results, err := s.client.SearchUsers(s.ctx, s.Query)
	if err != nil {
		log.Printf("user search %q: %v", s.Query, err)
		return err
	}
	s.Results = results
	return nil
}

// ToggleFollow flips the follow state of the i-th result optimistically
// and rolls back on failure.
func (s *Search) ToggleFollow(i int) error {
	r := &s.Results[i]
	wasFollowing := r.IsFollowing
	r.IsFollowing = !wasFollowing

	var err error
	if wasFollowing {
		err = s.client.Unfollow(s.ctx, r.ID)
	} else {
		err = s.client.Follow(s.ctx, r.ID)
	}
	if err != nil {
		r.IsFollowing = wasFollowing
		log.Printf("follow toggle %s: %v", r.ID, err)
		return err
	}
	return nil
}
