package screens

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"snapfeed/internal/api"
	"snapfeed/internal/models"
)

const (
	MaxDraftMedia = 10
	MaxCaptionLen = 2200
)

var (
	ErrDraftFull        = errors.New("a post can hold at most 10 media items")
	ErrEmptyDraft       = errors.New("add at least one photo or video")
	ErrCaptionTooLong   = errors.New("caption is limited to 2200 characters")
	ErrUploadInFlight   = errors.New("upload already in progress")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// DraftItem is one picked media entry. ID is a local handle for removal;
// it never leaves the device.
type DraftItem struct {
	ID string
	models.MediaItem
}

// Compose is the post-creation view-model. The draft lives only in
// memory: it is cleared on a successful submit and kept on failure so
// the user can retry without re-picking anything.
type Compose struct {
	lifecycle
	client *api.Client

	Caption   string
	Media     []DraftItem
	Uploading bool
}

func NewCompose(client *api.Client) *Compose {
	return &Compose{lifecycle: newLifecycle(), client: client}
}

// AddMedia appends a picked item. The 11th item is rejected and the
// draft left unchanged.
func (c *Compose) AddMedia(uri, kind string) error {
	if len(c.Media) >= MaxDraftMedia {
		return ErrDraftFull
	}
	if kind != "image" && kind != "video" {
		return ErrUnsupportedMedia
	}
	c.Media = append(c.Media, DraftItem{
		ID:        uuid.New().String(),
		MediaItem: models.MediaItem{URI: uri, Type: kind},
	})
	return nil
}

// AddMediaFile reads a local file and packages it as an inline base64
// data URI, the form the create endpoint expects.
func (c *Compose) AddMediaFile(path string) error {
	if len(c.Media) >= MaxDraftMedia {
		return ErrDraftFull
	}
	mt := mime.TypeByExtension(filepath.Ext(path))
	var kind string
	switch {
	case strings.HasPrefix(mt, "image/"):
		kind = "image"
	case strings.HasPrefix(mt, "video/"):
		kind = "video"
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMedia, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read media: %w", err)
	}
	uri := "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data)
	return c.AddMedia(uri, kind)
}

// RemoveMedia drops a draft item by its local handle.
func (c *Compose) RemoveMedia(id string) {
	for i := range c.Media {
		if c.Media[i].ID == id {
			c.Media = append(c.Media[:i], c.Media[i+1:]...)
			return
		}
	}
}

// SetCaption replaces the caption, rejecting over-length input outright.
// The cap counts characters, not bytes, so multibyte captions are not
// penalized.
func (c *Compose) SetCaption(s string) error {
	if utf8.RuneCountInString(s) > MaxCaptionLen {
		return ErrCaptionTooLong
	}
	c.Caption = s
	return nil
}

// Submit sends the whole draft as one request. An empty draft is
// rejected before any network call; a second submit while one is in
// flight is refused. The draft is cleared only when the server accepts.
func (c *Compose) Submit() (*models.Post, error) {
	if c.Uploading {
		return nil, ErrUploadInFlight
	}
	if len(c.Media) == 0 {
		return nil, ErrEmptyDraft
	}

	req := models.PostCreate{Media: make([]models.MediaItem, len(c.Media))}
	for i, m := range c.Media {
		req.Media[i] = m.MediaItem
	}
	if c.Caption != "" {
		req.Caption = &c.Caption
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	c.Uploading = true
	defer func() { c.Uploading = false }()

	post, err := c.client.CreatePost(c.ctx, req)
	if err != nil {
		return nil, err
	}

	c.Caption = ""
	c.Media = nil
	return post, nil
}
