package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/form"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/validation"
)

var commentPrompts = []fieldPrompt{
	{name: validation.FieldContent, label: "Comment"},
}

// Comments lists the comments on a recipe.
func (a *App) Comments(ctx context.Context, recipeID int64) error {
	list, err := a.comments.List(ctx, recipeID)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.rememberComments(list)
	if len(list) == 0 {
		a.printf("No comments yet.\n")
		return nil
	}
	for _, c := range list {
		a.printf("  %s\n", c)
	}
	return nil
}

// Comment asks for a comment and posts it on the recipe.
func (a *App) Comment(ctx context.Context, recipeID int64) error {
	f := form.New(validation.CommentSchema, nil)
	if err := a.fill(f, commentPrompts, false); err != nil {
		return err
	}
	return a.submitComment(ctx, recipeID, f)
}

func (a *App) submitComment(ctx context.Context, recipeID int64, f *form.Form) error {
	err := a.submit(ctx, f, func(ctx context.Context, v validation.Record) error {
		_, err := a.comments.Add(ctx, recipeID, v[validation.FieldContent])
		return err
	})
	if err != nil {
		return err
	}
	a.notify.Success("Comment added.")
	return nil
}

const msgShowCommentsFirst = "List the recipe's comments first, then edit one by its id."

func (a *App) rememberComments(list []models.Comment) {
	a.shownMu.Lock()
	defer a.shownMu.Unlock()
	a.shown = make(map[int64]models.Comment, len(list))
	for _, c := range list {
		a.shown[c.ID] = c
	}
}

func (a *App) shownComment(id int64) (models.Comment, bool) {
	a.shownMu.Lock()
	defer a.shownMu.Unlock()
	c, ok := a.shown[id]
	return c, ok
}

// EditComment replaces the text of a comment listed by comments or show.
// The form starts with the current text.
func (a *App) EditComment(ctx context.Context, id int64) error {
	c, ok := a.shownComment(id)
	if !ok {
		a.notify.Info(msgShowCommentsFirst)
		return nil
	}
	f := form.New(validation.CommentSchema, nil)
	f.SetValues(validation.Record{validation.FieldContent: c.Content})
	a.printf("Editing comment #%d. Press Enter to keep it.\n", id)
	if err := a.fill(f, commentPrompts, true); err != nil {
		return err
	}
	return a.submitCommentEdit(ctx, id, f)
}

func (a *App) submitCommentEdit(ctx context.Context, id int64, f *form.Form) error {
	err := a.submit(ctx, f, func(ctx context.Context, v validation.Record) error {
		c, err := a.comments.Edit(ctx, id, v[validation.FieldContent])
		if err != nil {
			return err
		}
		a.shownMu.Lock()
		if _, ok := a.shown[id]; ok {
			a.shown[id] = *c
		}
		a.shownMu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}
	a.notify.Success("Comment updated.")
	return nil
}

// DeleteComment asks for confirmation and removes a comment.
func (a *App) DeleteComment(ctx context.Context, id int64) error {
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete comment #%d?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.comments.Remove(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	a.notify.Success("Comment deleted.")
	return nil
}
