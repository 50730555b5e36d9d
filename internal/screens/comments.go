package screens

import (
	"log"
	"sync"

	"snapfeed/internal/api"
	"snapfeed/internal/models"
)

const commentsPageSize = 50

// Comments is the post-detail view-model: the post itself plus its
// comment sheet, loaded together.
type Comments struct {
	lifecycle
	client *api.Client
	postID string

	Post    *models.Post
	Items   []models.Comment
	Loading bool
}

func NewComments(client *api.Client, postID string) *Comments {
	return &Comments{lifecycle: newLifecycle(), client: client, postID: postID}
}

// Load fans out the post fetch and the comment list, joining both before
// exposing the snapshot, the same shape as the profile screen. Either
// failure leaves the previous state in place and clears the loading flag.
func (c *Comments) Load() error {
	c.Loading = true
	defer func() { c.Loading = false }()

	var (
		wg       sync.WaitGroup
		post     *models.Post
		items    []models.Comment
		postErr  error
		itemsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		post, postErr = c.client.Post(c.ctx, c.postID)
	}()
	go func() {
		defer wg.Done()
		items, itemsErr = c.client.Comments(c.ctx, c.postID, 0, commentsPageSize)
	}()
	wg.Wait()

	if postErr != nil {
		log.Printf("post load: %v", postErr)
		return postErr
	}
	if itemsErr != nil {
		log.Printf("comments load: %v", itemsErr)
		return itemsErr
	}
	c.Post = post
	c.Items = items
	return nil
}

// Add posts a new comment, prepends it locally (the server returns the
// list newest-first) and bumps the post's comment count.
func (c *Comments) Add(text string) error {
	if err := validate.Struct(models.CommentCreate{Text: text}); err != nil {
		return err
	}
	cm, err := c.client.AddComment(c.ctx, c.postID, text)
	if err != nil {
		log.Printf("comment add: %v", err)
		return err
	}
	c.Items = append([]models.Comment{*cm}, c.Items...)
	if c.Post != nil {
		c.Post.CommentsCount++
	}
	return nil
}

// Delete removes the viewer's own comment and drops it from the local
// list on success.
func (c *Comments) Delete(commentID string) error {
	if err := c.client.DeleteComment(c.ctx, commentID); err != nil {
		log.Printf("comment delete: %v", err)
		return err
	}
	for i := range c.Items {
		if c.Items[i].ID == commentID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			if c.Post != nil && c.Post.CommentsCount > 0 {
				c.Post.CommentsCount--
			}
			return nil
		}
	}
	return nil
}
