package screens

import (
	"errors"
	"log"
	"sync"

	"snapfeed/internal/api"
	"snapfeed/internal/models"
)

const gridPageSize = 20

var (
	ErrNotEditing     = errors.New("profile is not in edit mode")
	ErrAlreadyEditing = errors.New("profile is already being edited")
)

// EditBuffer is the detached copy of the editable profile fields. It is
// filled when editing begins and written back to the server on save;
// the canonical Info is never touched until the save succeeds.
type EditBuffer struct {
	Username string
	FullName string
	Bio      string
}

// Profile is the profile-screen view-model: header info plus the post
// grid, loaded concurrently, and the viewing/editing state machine for
// the viewer's own profile.
type Profile struct {
	lifecycle
	client *api.Client

	userID string
	own    bool

	Info    *models.Profile
	Posts   []models.Post
	Loading bool

	Editing bool
	Buffer  EditBuffer
}

// NewOwnProfile builds the screen for the authenticated user. The user
// id comes from the session store; the grid endpoint needs it even
// though the header is fetched via /api/me.
func NewOwnProfile(client *api.Client, userID string) *Profile {
	return &Profile{lifecycle: newLifecycle(), client: client, userID: userID, own: true}
}

// NewUserProfile builds the screen for someone else's profile.
func NewUserProfile(client *api.Client, userID string) *Profile {
	return &Profile{lifecycle: newLifecycle(), client: client, userID: userID}
}

// Load fans out the header and grid requests, joins both, and only then
// exposes the render-ready snapshot. Either failure leaves the previous
// state in place and clears the loading flag.
func (p *Profile) Load() error {
	p.Loading = true
	defer func() { p.Loading = false }()

	var (
		wg       sync.WaitGroup
		info     *models.Profile
		posts    []models.Post
		infoErr  error
		postsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if p.own {
			info, infoErr = p.client.Me(p.ctx)
		} else {
			info, infoErr = p.client.User(p.ctx, p.userID)
		}
	}()
	go func() {
		defer wg.Done()
		posts, postsErr = p.client.UserPosts(p.ctx, p.userID, 0, gridPageSize)
	}()
	wg.Wait()

	if infoErr != nil {
		log.Printf("profile load: %v", infoErr)
		return infoErr
	}
	if postsErr != nil {
		log.Printf("profile posts load: %v", postsErr)
		return postsErr
	}
	p.Info = info
	p.Posts = posts
	return nil
}

// LoadMorePosts extends the grid by one page.
func (p *Profile) LoadMorePosts() error {
	more, err := p.client.UserPosts(p.ctx, p.userID, len(p.Posts), gridPageSize)
	if err != nil {
		log.Printf("profile posts page: %v", err)
		return err
	}
	p.Posts = append(p.Posts, more...)
	return nil
}

// -------- Edit state machine (own profile only)

// BeginEdit copies the current profile fields into the buffer and enters
// edit mode.
func (p *Profile) BeginEdit() error {
	if !p.own || p.Info == nil {
		return errors.New("nothing to edit")
	}
	if p.Editing {
		return ErrAlreadyEditing
	}
	p.Buffer = EditBuffer{Username: p.Info.Username}
	if p.Info.FullName != nil {
		p.Buffer.FullName = *p.Info.FullName
	}
	if p.Info.Bio != nil {
		p.Buffer.Bio = *p.Info.Bio
	}
	p.Editing = true
	return nil
}

// CancelEdit discards the buffer unconditionally and returns to viewing.
func (p *Profile) CancelEdit() {
	p.Editing = false
	p.Buffer = EditBuffer{}
}

// SaveEdit sends the buffer as an update. Only on success does it reload
// the canonical profile and return to viewing; on failure the screen
// stays in edit mode with the buffer intact so nothing typed is lost.
func (p *Profile) SaveEdit() error {
	if !p.Editing {
		return ErrNotEditing
	}

	upd := models.ProfileUpdate{
		Username: &p.Buffer.Username,
		FullName: &p.Buffer.FullName,
		Bio:      &p.Buffer.Bio,
	}
	if err := validate.Struct(upd); err != nil {
		return err
	}
	if _, err := p.client.UpdateMe(p.ctx, upd); err != nil {
		log.Printf("profile save: %v", err)
		return err
	}

	p.Editing = false
	p.Buffer = EditBuffer{}
	return p.Load()
}

// UpdateAvatar sends a new avatar as an inline data URI through the same
// update call and reloads on success.
func (p *Profile) UpdateAvatar(dataURI string) error {
	if !p.own {
		return errors.New("cannot change another user's avatar")
	}
	if _, err := p.client.UpdateMe(p.ctx, models.ProfileUpdate{ProfilePic: &dataURI}); err != nil {
		log.Printf("avatar update: %v", err)
		return err
	}
	return p.Load()
}

// -------- Other-profile actions

// ToggleFollow flips the follow state optimistically, adjusting the
// follower count, and rolls back if the request fails.
func (p *Profile) ToggleFollow() error {
	if p.own || p.Info == nil {
		return errors.New("cannot follow this profile")
	}
	wasFollowing := p.Info.IsFollowing

	if wasFollowing {
		p.Info.IsFollowing = false
		p.Info.FollowersCount--
	} else {
		p.Info.IsFollowing = true
		p.Info.FollowersCount++
	}

	var err error
	if wasFollowing {
		err = p.client.Unfollow(p.ctx, p.userID)
	} else {
		err = p.client.Follow(p.ctx, p.userID)
	}
	if err != nil {
		p.Info.IsFollowing = wasFollowing
		if wasFollowing {
			p.Info.FollowersCount++
		} else {
			p.Info.FollowersCount--
		}
		log.Printf("follow toggle %s: %v", p.userID, err)
		return err
	}
	return nil
}

// DeletePost removes one of the viewer's own posts and drops it from the
// grid on success.
func (p *Profile) DeletePost(postID string) error {
	if !p.own {
		return errors.New("cannot delete another user's post")
	}
	if err := p.client.DeletePost(p.ctx, postID); err != nil {
		log.Printf("post delete %s: %v", postID, err)
		return err
	}
	for i := range p.Posts {
		if p.Posts[i].ID == postID {
			p.Posts = append(p.Posts[:i], p.Posts[i+1:]...)
			break
		}
	}
	if p.Info != nil && p.Info.PostsCount > 0 {
		p.Info.PostsCount--
	}
	return nil
}
