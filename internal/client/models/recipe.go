package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/validation"
)

// DishType classifies a recipe. The accepted values are listed in
// validation.DishTypes.
type DishType string

const (
	DishAppetizer  DishType = "appetizer"
	DishMainCourse DishType = "main course"
	DishDessert    DishType = "dessert"
	DishSnack      DishType = "snack"
	DishBeverage   DishType = "beverage"
	DishOther      DishType = "other"
)

// Recipe as returned by the API. Origin and Servings are nil when the
// author left them out.
type Recipe struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	DishType        DishType  `json:"dish_type"`
	Ingredients     string    `json:"ingredients"`
	Instructions    string    `json:"instructions"`
	PreparationTime string    `json:"preparation_time"`
	Origin          *string   `json:"origin"`
	Servings        *int      `json:"servings"`
	UserID          int64     `json:"user_id"`
	CreationDate    Timestamp `json:"creation_date"`
}

// RecipeInput is the create/update payload.
type RecipeInput struct {
	Title           string   `json:"title"`
	DishType        DishType `json:"dish_type"`
	Ingredients     string   `json:"ingredients"`
	Instructions    string   `json:"instructions"`
	PreparationTime string   `json:"preparation_time"`
	Origin          *string  `json:"origin"`
	Servings        *int     `json:"servings"`
}

// RecipeInputFromRecord converts validated form values. Blank optional
// values become nil and numbers are coerced to whole numbers.
func RecipeInputFromRecord(rec validation.Record) (RecipeInput, error) {
	in := RecipeInput{
		Title:           strings.TrimSpace(rec[validation.FieldTitle]),
		DishType:        DishType(rec[validation.FieldDishType]),
		Ingredients:     strings.TrimSpace(rec[validation.FieldIngredients]),
		Instructions:    strings.TrimSpace(rec[validation.FieldInstructions]),
		PreparationTime: strings.TrimSpace(rec[validation.FieldPreparationTime]),
	}
	if origin := strings.TrimSpace(rec[validation.FieldOrigin]); origin != "" {
		in.Origin = &origin
	}
	if n, ok := validation.ParseInt(in.PreparationTime); ok {
		in.PreparationTime = strconv.Itoa(n)
	}
	if s := strings.TrimSpace(rec[validation.FieldServings]); s != "" {
		n, ok := validation.ParseInt(s)
		if !ok {
			return RecipeInput{}, fmt.Errorf("servings: %q is not a whole number", s)
		}
		in.Servings = &n
	}
	return in, nil
}

// Record returns the recipe as form values, used to prefill edit forms.
func (r Recipe) Record() validation.Record {
	rec := validation.Record{
		validation.FieldTitle:           r.Title,
		validation.FieldDishType:        string(r.DishType),
		validation.FieldIngredients:     r.Ingredients,
		validation.FieldInstructions:    r.Instructions,
		validation.FieldPreparationTime: r.PreparationTime,
		validation.FieldOrigin:          "",
		validation.FieldServings:        "",
	}
	if r.Origin != nil {
		rec[validation.FieldOrigin] = *r.Origin
	}
	if r.Servings != nil {
		rec[validation.FieldServings] = strconv.Itoa(*r.Servings)
	}
	return rec
}

// String renders a one-line overview.
func (r Recipe) String() string {
	return fmt.Sprintf("#%d %s [%s, %s min]", r.ID, r.Title, r.DishType, r.PreparationTime)
}
