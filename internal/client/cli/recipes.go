package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/client/form"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/validation"
)

var recipePrompts = []fieldPrompt{
	{name: validation.FieldTitle, label: "Title"},
	{name: validation.FieldDishType, label: "Dish type (" + strings.Join(validation.DishTypes, ", ") + ")"},
	{name: validation.FieldIngredients, label: "Ingredients", multiline: true},
	{name: validation.FieldInstructions, label: "Instructions", multiline: true},
	{name: validation.FieldPreparationTime, label: "Preparation time (minutes)"},
	{name: validation.FieldServings, label: "Servings (optional)"},
	{name: validation.FieldOrigin, label: "Origin (optional)"},
}

func (a *App) homeView(ctx context.Context, _ int64) error {
	if err := a.recipes.FetchAll(ctx); err != nil {
		return err
	}
	a.printRecipes(a.recipes.Snapshot())
	return nil
}

func (a *App) mineView(ctx context.Context, _ int64) error {
	if err := a.recipes.FetchMine(ctx); err != nil {
		return err
	}
	a.printRecipes(a.recipes.Snapshot())
	return nil
}

func (a *App) recipeView(ctx context.Context, id int64) error {
	r, err := a.recipes.Get(ctx, id)
	if err != nil {
		return err
	}
	comments, err := a.comments.List(ctx, id)
	if err != nil {
		return err
	}
	a.rememberComments(comments)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r)
	if r.Origin != nil {
		fmt.Fprintf(&b, "  Origin: %s\n", *r.Origin)
	}
	if r.Servings != nil {
		fmt.Fprintf(&b, "  Servings: %d\n", *r.Servings)
	}
	if !r.CreationDate.IsZero() {
		fmt.Fprintf(&b, "  Posted %s by user #%d\n", r.CreationDate.Format("Jan 2, 2006"), r.UserID)
	}
	fmt.Fprintf(&b, "Ingredients:\n%s\n", indent(r.Ingredients))
	fmt.Fprintf(&b, "Instructions:\n%s\n", indent(r.Instructions))
	fmt.Fprintf(&b, "Comments (%d):\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	a.printf("%s", b.String())
	return nil
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// open shows a recipe.
func (a *App) open(ctx context.Context, id int64) error {
	return a.fail(ctx, a.nav.Go(ctx, RouteRecipe, id))
}

// List shows every recipe.
func (a *App) List(ctx context.Context) error {
	return a.fail(ctx, a.nav.Go(ctx, RouteHome, 0))
}

// Search filters recipes by title. Without a query it enters live mode.
func (a *App) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return a.liveSearch(ctx)
	}
	if err := a.recipes.Search(ctx, query); err != nil {
		return a.fail(ctx, err)
	}
	a.printRecipes(a.recipes.Snapshot())
	return nil
}

// liveSearch treats every line as the current contents of a search box.
// Results arrive once typing pauses; an empty line leaves live mode.
func (a *App) liveSearch(ctx context.Context) error {
	a.printf("Live search: type a title and press Enter to refine it, an empty line stops.\n")
	a.live.Store(true)

	last := ""
	for {
		line, err := readLine(a.reader)
		if err != nil || line == "" {
			break
		}
		last = line
		a.recipes.SearchDebounced(ctx, line)
	}

	a.live.Store(false)
	if a.recipes.CancelDebounced() {
		return a.Search(ctx, last)
	}
	return nil
}

// Mine shows the current user's recipes, optionally filtered by title.
func (a *App) Mine(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return a.fail(ctx, a.nav.Go(ctx, RouteMine, 0))
	}
	if err := a.recipes.SearchMine(ctx, query); err != nil {
		return a.fail(ctx, err)
	}
	a.printRecipes(a.recipes.Snapshot())
	return nil
}

// Show prints one recipe and its comments.
func (a *App) Show(ctx context.Context, id int64) error {
	return a.open(ctx, id)
}

// Back returns to the previous view.
func (a *App) Back(ctx context.Context) error {
	err := a.nav.Back(ctx)
	if errors.Is(err, ErrNoHistory) {
		a.notify.Info("Nothing to go back to.")
		return nil
	}
	return a.fail(ctx, err)
}

// Create asks for a new recipe and publishes it.
func (a *App) Create(ctx context.Context) error {
	f := form.New(validation.RecipeSchema, nil)
	if err := a.fill(f, recipePrompts, false); err != nil {
		return err
	}
	return a.submitCreate(ctx, f)
}

func (a *App) submitCreate(ctx context.Context, f *form.Form) error {
	var created *models.Recipe
	err := a.submit(ctx, f, func(ctx context.Context, v validation.Record) error {
		in, err := models.RecipeInputFromRecord(v)
		if err != nil {
			return err
		}
		created, err = a.recipes.Create(ctx, in)
		return err
	})
	if err != nil {
		return err
	}
	a.notify.Success("Recipe created.")
	return a.open(ctx, created.ID)
}

// Edit loads a recipe into the form and saves the changes.
func (a *App) Edit(ctx context.Context, id int64) error {
	r, err := a.recipes.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, err)
	}
	f := form.New(validation.RecipeSchema, r.Record())
	a.printf("Editing %s. Press Enter to keep a value, '-' to clear it.\n", r)
	if err := a.fill(f, recipePrompts, true); err != nil {
		return err
	}
	return a.submitUpdate(ctx, id, f)
}

func (a *App) submitUpdate(ctx context.Context, id int64, f *form.Form) error {
	err := a.submit(ctx, f, func(ctx context.Context, v validation.Record) error {
		in, err := models.RecipeInputFromRecord(v)
		if err != nil {
			return err
		}
		_, err = a.recipes.Update(ctx, id, in)
		return err
	})
	if err != nil {
		return err
	}
	a.notify.Success("Recipe updated.")
	return a.open(ctx, id)
}

// Delete asks for confirmation and removes the recipe.
func (a *App) Delete(ctx context.Context, id int64) error {
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete recipe #%d?", id), a.out)
	if err != nil || !ok {
		return err
	}
	return a.deleteRecipe(ctx, id)
}

func (a *App) deleteRecipe(ctx context.Context, id int64) error {
	if err := a.recipes.Delete(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	a.notify.Success("Recipe deleted.")
	a.printRecipes(a.recipes.Snapshot())
	return nil
}
