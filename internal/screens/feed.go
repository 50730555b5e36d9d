package screens

import (
	"log"

	"snapfeed/internal/api"
	"snapfeed/internal/models"
)

const feedPageSize = 20

// PostItem couples a fetched post with its carousel position. Items are
// rebuilt on every reload, which implicitly resets the position to the
// first media entry.
type PostItem struct {
	models.Post
	Carousel int
}

// Feed is the home-screen view-model: the viewer's post list with
// pull-to-refresh and the optimistic like toggle.
type Feed struct {
	lifecycle
	client *api.Client

	Items      []PostItem
	Loading    bool
	Refreshing bool
}

func NewFeed(client *api.Client) *Feed {
	return &Feed{lifecycle: newLifecycle(), client: client}
}

// Load runs the initial fetch. On failure the list stays empty and the
// loading flag is cleared so the screen shows its empty state instead of
// a stuck spinner.
func (f *Feed) Load() error {
	f.Loading = true
	defer func() { f.Loading = false }()

	posts, err := f.client.Feed(f.ctx, 0, feedPageSize)
	if err != nil {
		log.Printf("feed load: %v", err)
		f.Items = nil
		return err
	}
	f.setItems(posts)
	return nil
}

// Refresh re-runs the load for pull-to-refresh. A failed refresh keeps
// the previous list; the refreshing indicator is cleared either way.
func (f *Feed) Refresh() error {
	f.Refreshing = true
	defer func() { f.Refreshing = false }()

	posts, err := f.client.Feed(f.ctx, 0, feedPageSize)
	if err != nil {
		log.Printf("feed refresh: %v", err)
		return err
	}
	f.setItems(posts)
	return nil
}

func (f *Feed) setItems(posts []models.Post) {
	items := make([]PostItem, len(posts))
	for i, p := range posts {
		items[i] = PostItem{Post: p}
	}
	f.Items = items
}

// IndexOf returns the list position of a post, -1 when absent.
func (f *Feed) IndexOf(postID string) int {
	for i := range f.Items {
		if f.Items[i].ID == postID {
			return i
		}
	}
	return -1
}

// ToggleLike flips the liked flag and adjusts the count locally before
// the confirm request is dispatched. If the confirm fails the local
// mutation is rolled back, so the list never disagrees with the server
// by more than the one action in flight.
func (f *Feed) ToggleLike(i int) error {
	it := &f.Items[i]
	wasLiked := it.IsLiked

	if wasLiked {
		it.IsLiked = false
		it.LikesCount--
	} else {
		it.IsLiked = true
		it.LikesCount++
	}

	var err error
	if wasLiked {
		err = f.client.Unlike(f.ctx, it.ID)
	} else {
		err = f.client.Like(f.ctx, it.ID)
	}
	if err != nil {
		it.IsLiked = wasLiked
		if wasLiked {
			it.LikesCount++
		} else {
			it.LikesCount--
		}
		log.Printf("like toggle %s: %v", it.ID, err)
		return err
	}
	return nil
}

// NextMedia advances the carousel for the i-th post, wrapping past the
// last entry back to the first.
func (f *Feed) NextMedia(i int) {
	it := &f.Items[i]
	if n := len(it.Media); n > 0 {
		it.Carousel = (it.Carousel + 1) % n
	}
}

// PrevMedia steps the carousel back, wrapping from the first entry to
// the last.
func (f *Feed) PrevMedia(i int) {
	it := &f.Items[i]
	if n := len(it.Media); n > 0 {
		it.Carousel = (it.Carousel - 1 + n) % n
	}
}
