package client

import (
	"context"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// Client is the recipe API contract.
type Client interface {
	Ping(ctx context.Context) error

	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)

	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, in models.RecipeInput) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id int64, in models.RecipeInput) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error
	ListMyRecipes(ctx context.Context) ([]models.Recipe, error)
	SearchMyRecipes(ctx context.Context, query string) ([]models.Recipe, error)

	ListComments(ctx context.Context, recipeID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, in models.CommentInput) (*models.Comment, error)
	UpdateComment(ctx context.Context, id int64, in models.CommentUpdate) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// SessionSource supplies the bearer token and is told when the server
// rejects it.
type SessionSource interface {
	Token() string
	Logout(ctx context.Context) error
}
