package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// CommentService manages comments on a recipe. Add takes the author from
// the current session.
type CommentService interface {
	List(ctx context.Context, recipeID int64) ([]models.Comment, error)
	Add(ctx context.Context, recipeID int64, content string) (*models.Comment, error)
	Edit(ctx context.Context, id int64, content string) (*models.Comment, error)
	Remove(ctx context.Context, id int64) error
}

type commentService struct {
	api     client.Client
	session SessionStore
	log     logging.Logger
}

func NewCommentService(api client.Client, sess SessionStore, log logging.Logger) CommentService {
	return &commentService{api: api, session: sess, log: log}
}

func (c *commentService) List(ctx context.Context, recipeID int64) ([]models.Comment, error) {
	return c.api.ListComments(ctx, recipeID)
}

func (c *commentService) Add(ctx context.Context, recipeID int64, content string) (*models.Comment, error) {
	cur := c.session.Current()
	if !cur.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	cm, err := c.api.CreateComment(ctx, models.CommentInput{
		Content:  strings.TrimSpace(content),
		RecipeID: recipeID,
		UserID:   cur.UserID,
	})
	if err != nil {
		return nil, err
	}
	c.log.Debug(ctx, "comment added", "comment_id", cm.ID, "recipe_id", recipeID)
	return cm, nil
}

func (c *commentService) Edit(ctx context.Context, id int64, content string) (*models.Comment, error) {
	return c.api.UpdateComment(ctx, id, models.CommentUpdate{Content: strings.TrimSpace(content)})
}

func (c *commentService) Remove(ctx context.Context, id int64) error {
	return c.api.DeleteComment(ctx, id)
}
