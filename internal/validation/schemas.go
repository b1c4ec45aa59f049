package validation

import (
	"regexp"
	"sort"
	"sync"
)

// Registry names of the built-in schemas.
const (
	SchemaLogin    = "login"
	SchemaRegister = "register"
	SchemaRecipe   = "recipe"
	SchemaComment  = "comment"
)

// Field names shared by schemas and API payloads.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldRepeatPassword  = "repeat_password"
	FieldTitle           = "title"
	FieldDishType        = "dish_type"
	FieldIngredients     = "ingredients"
	FieldInstructions    = "instructions"
	FieldPreparationTime = "preparation_time"
	FieldServings        = "servings"
	FieldOrigin          = "origin"
	FieldContent         = "content"
)

// DishTypes is the closed set accepted for a recipe's dish type.
var DishTypes = []string{"appetizer", "main course", "dessert", "snack", "beverage", "other"}

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
)

var (
	LoginSchema = NewSchema(SchemaLogin,
		Field{Name: FieldEmail, Trim: true, Rules: []Rule{
			Required("Email is required"),
			Matches(emailRe, "Enter a valid email address"),
		}},
		Field{Name: FieldPassword, Rules: []Rule{
			Required("Password is required"),
			MinLength(8, "Password must be at least 8 characters"),
		}},
	)

	RegisterSchema = NewSchema(SchemaRegister,
		Field{Name: FieldUsername, Trim: true, Rules: []Rule{
			Required("Username is required"),
			Matches(usernameRe, "Only letters, numbers and underscores are allowed"),
			MinLength(3, "Username must be at least 3 characters"),
			MaxLength(20, "Username cannot exceed 20 characters"),
		}},
		Field{Name: FieldEmail, Trim: true, Rules: []Rule{
			Required("Email is required"),
			Matches(emailRe, "Enter a valid email address"),
		}},
		Field{Name: FieldPassword, Rules: []Rule{
			Required("Password is required"),
			Matches(upperRe, "Password must contain at least one uppercase letter"),
			Matches(digitRe, "Password must contain at least one number"),
			MinLength(8, "Password must be at least 8 characters"),
		}},
		Field{Name: FieldRepeatPassword, Rules: []Rule{
			Required("Confirm your password"),
			EqualsField(FieldPassword, "Passwords do not match"),
		}},
	)

	RecipeSchema = NewSchema(SchemaRecipe,
		Field{Name: FieldTitle, Trim: true, Rules: []Rule{
			Required("Title is required"),
			MinLength(3, "Title must be at least 3 characters"),
			MaxLength(100, "Title cannot exceed 100 characters"),
		}},
		Field{Name: FieldDishType, Rules: []Rule{
			Required("Dish type is required"),
			OneOf(DishTypes, "Select a valid dish type"),
		}},
		Field{Name: FieldIngredients, Trim: true, Rules: []Rule{
			Required("Ingredients are required"),
			MinLength(10, "Please give more detail about the ingredients (at least 10 characters)"),
		}},
		Field{Name: FieldInstructions, Trim: true, Rules: []Rule{
			Required("Instructions are required"),
			MinLength(20, "Please give more detailed instructions (at least 20 characters)"),
		}},
		Field{Name: FieldPreparationTime, Trim: true, Rules: []Rule{
			Required("Preparation time is required"),
			Integer("Preparation time must be a number", "Preparation time must be a whole number"),
			IntRange(1, 1440, "Preparation time must be a positive number", "Preparation time cannot exceed 1440 minutes (24 hours)"),
		}},
		Field{Name: FieldServings, Optional: true, Trim: true, Rules: []Rule{
			Integer("Servings must be a number", "Servings must be a whole number"),
			IntRange(1, 100, "Servings must be a positive number", "Servings cannot exceed 100"),
		}},
		Field{Name: FieldOrigin, Optional: true, Trim: true, Rules: []Rule{
			MaxLength(100, "Origin cannot exceed 100 characters"),
		}},
	)

	CommentSchema = NewSchema(SchemaComment,
		Field{Name: FieldContent, Trim: true, Rules: []Rule{
			Required("Comment cannot be empty"),
			MinLength(1, "Comment must be at least 1 character"),
			MaxLength(500, "Comment cannot exceed 500 characters"),
		}},
	)
)

var (
	registryMu sync.RWMutex
	registry   = map[string]*Schema{}
)

func init() {
	for _, s := range []*Schema{LoginSchema, RegisterSchema, RecipeSchema, CommentSchema} {
		Register(s)
	}
}

// Register adds s to the registry under s.Name(), replacing any previous
// schema with that name.
func Register(s *Schema) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Name()] = s
}

// Lookup returns the registered schema called name.
func Lookup(name string) (*Schema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	return s, ok
}

// Names lists registered schema names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
