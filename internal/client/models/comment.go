package models

import "fmt"

// Comment left on a recipe.
type Comment struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	RecipeID    int64     `json:"recipe_id"`
	UserID      int64     `json:"user_id"`
	Rating      *float64  `json:"rating,omitempty"`
	CommentDate Timestamp `json:"comment_date"`
}

// CommentInput is the POST /comments payload. The API expects the author
// id in the body.
type CommentInput struct {
	Content  string `json:"content"`
	RecipeID int64  `json:"recipe_id"`
	UserID   int64  `json:"user_id"`
}

// CommentUpdate is the PUT /comments/:id payload.
type CommentUpdate struct {
	Content string `json:"content"`
}

// String renders a one-line overview.
func (c Comment) String() string {
	date := ""
	if !c.CommentDate.IsZero() {
		date = c.CommentDate.Format("Jan 2, 2006")
	}
	return fmt.Sprintf("#%d (user %d, %s) %s", c.ID, c.UserID, date, c.Content)
}
