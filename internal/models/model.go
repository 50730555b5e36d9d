package models

import "time"

// MediaItem is one entry in a post's media carousel. URI is either a
// remote URL (fetched posts) or an inline base64 data URI (post creation).
type MediaItem struct {
	URI  string `json:"uri" validate:"required"`
	Type string `json:"type" validate:"required,oneof=image video"`
}

type Post struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Username      string      `json:"username"`
	ProfilePic    *string     `json:"profile_pic,omitempty"`
	Caption       *string     `json:"caption,omitempty"`
	Media         []MediaItem `json:"media"`
	LikesCount    int         `json:"likes_count"`
	CommentsCount int         `json:"comments_count"`
	IsLiked       bool        `json:"is_liked"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	ProfilePic *string   `json:"profile_pic,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type Profile struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Username       string  `json:"username"`
	FullName       *string `json:"full_name,omitempty"`
	ProfilePic     *string `json:"profile_pic,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	FollowersCount int     `json:"followers_count"`
	FollowingCount int     `json:"following_count"`
	PostsCount     int     `json:"posts_count"`
	IsFollowing    bool    `json:"is_following"`
}

// UserSummary is the trimmed user record returned by search.
type UserSummary struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	FullName    *string `json:"full_name,omitempty"`
	ProfilePic  *string `json:"profile_pic,omitempty"`
	IsFollowing bool    `json:"is_following"`
}

// AuthUser is the user block embedded in a login/register response.
type AuthUser struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        AuthUser `json:"user"`
}

// -------- Request payloads

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Username string  `json:"username" validate:"required,min=3,max=30"`
	FullName *string `json:"full_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate carries only the fields being changed; nil fields are
// omitted from the payload and left untouched server-side.
type ProfileUpdate struct {
	Username   *string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	FullName   *string `json:"full_name,omitempty"`
	ProfilePic *string `json:"profile_pic,omitempty"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

type PostCreate struct {
	Caption *string     `json:"caption,omitempty" validate:"omitempty,max=2200"`
	Media   []MediaItem `json:"media" validate:"required,min=1,max=10,dive"`
}

type CommentCreate struct {
	Text string `json:"text" validate:"required,max=2200"`
}

// Str returns a pointer to s, for filling optional request fields.
func Str(s string) *string { return &s }
