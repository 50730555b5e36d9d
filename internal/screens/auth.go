package screens

import (
	"log"

	"snapfeed/internal/api"
	"snapfeed/internal/models"
	"snapfeed/internal/session"
)

// Auth is the registration/login view-model and, together with Logout,
// the only writer of the session store.
type Auth struct {
	lifecycle
	client *api.Client
	store  *session.Store

	Submitting bool
}

func NewAuth(client *api.Client, store *session.Store) *Auth {
	return &Auth{lifecycle: newLifecycle(), client: client, store: store}
}

// Register validates the form, creates the account, and stores the
// returned credential. Any previous session is replaced.
func (a *Auth) Register(req models.RegisterRequest) (*models.AuthUser, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	a.Submitting = true
	defer func() { a.Submitting = false }()

	resp, err := a.client.Register(a.ctx, req)
	if err != nil {
		log.Printf("register: %v", err)
		return nil, err
	}
	if err := a.store.Save(resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login exchanges credentials for a token and stores it.
func (a *Auth) Login(req models.LoginRequest) (*models.AuthUser, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	a.Submitting = true
	defer func() { a.Submitting = false }()

	resp, err := a.client.Login(a.ctx, req)
	if err != nil {
		log.Printf("login: %v", err)
		return nil, err
	}
	if err := a.store.Save(resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout destroys the stored credential. It is purely local: the server
// keeps no session state beyond the token's own expiry.
func (a *Auth) Logout() error {
	return a.store.Clear()
}
