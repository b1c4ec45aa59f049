package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/search"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// RecipeState is what the list views render.
type RecipeState struct {
	Recipes []models.Recipe
	Query   string
	Mine    bool
	Loading bool
	Err     string
}

// RecipeStore holds the current recipe list. List loads are numbered; a
// response is applied only if no newer load started after it.
type RecipeStore struct {
	api client.Client
	log logging.Logger

	mu          sync.Mutex
	state       RecipeState
	seq         search.Sequencer
	debouncer   *search.Debouncer
	liveCtx     context.Context
	subscribers []func(RecipeState)
}

// NewRecipeStore creates an empty store. debounce is the quiet period of
// SearchDebounced; zero means search.DefaultDelay.
func NewRecipeStore(api client.Client, log logging.Logger, debounce time.Duration) *RecipeStore {
	s := &RecipeStore{api: api, log: log, state: RecipeState{Recipes: []models.Recipe{}}}
	s.debouncer = search.NewDebouncer(debounce, s.runDebounced)
	return s
}

// Snapshot returns a copy of the current state.
func (s *RecipeStore) Snapshot() RecipeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *RecipeStore) snapshotLocked() RecipeState {
	st := s.state
	st.Recipes = append([]models.Recipe(nil), s.state.Recipes...)
	return st
}

// Subscribe registers fn to receive the state after every debounced search.
func (s *RecipeStore) Subscribe(fn func(RecipeState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

type loader func(ctx context.Context) ([]models.Recipe, error)

// load starts a numbered list load and applies its result if still latest.
func (s *RecipeStore) load(ctx context.Context, query string, mine bool, fetch loader) (bool, error) {
	s.mu.Lock()
	seq := s.seq.Next()
	s.state.Loading = true
	s.state.Err = ""
	s.state.Query = query
	s.state.Mine = mine
	s.mu.Unlock()

	recipes, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.IsLatest(seq) {
		s.log.Debug(ctx, "dropping stale recipe list", "seq", seq, "query", query)
		return false, err
	}
	s.state.Loading = false
	if err != nil {
		s.state.Recipes = []models.Recipe{}
		s.state.Err = client.UserMessage(err)
		return true, err
	}
	s.state.Recipes = recipes
	return true, nil
}

// FetchAll loads every recipe and clears the search query.
func (s *RecipeStore) FetchAll(ctx context.Context) error {
	_, err := s.load(ctx, "", false, s.api.ListRecipes)
	return err
}

// Search filters by title. A blank query loads everything.
func (s *RecipeStore) Search(ctx context.Context, query string) error {
	_, err := s.search(ctx, query)
	return err
}

func (s *RecipeStore) search(ctx context.Context, query string) (bool, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.load(ctx, "", false, s.api.ListRecipes)
	}
	return s.load(ctx, query, false, func(ctx context.Context) ([]models.Recipe, error) {
		return s.api.SearchRecipes(ctx, q)
	})
}

// ClearSearch drops any pending debounced query and reloads everything.
func (s *RecipeStore) ClearSearch(ctx context.Context) error {
	s.debouncer.Flush()
	return s.FetchAll(ctx)
}

// SearchDebounced records a keystroke. The search runs once the input has
// been quiet for the debounce window; subscribers then get the new state.
func (s *RecipeStore) SearchDebounced(ctx context.Context, query string) {
	s.mu.Lock()
	s.liveCtx = ctx
	s.mu.Unlock()
	s.debouncer.Trigger(query)
}

func (s *RecipeStore) runDebounced(query string) {
	s.mu.Lock()
	ctx := s.liveCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	applied, err := s.search(ctx, query)
	if err != nil {
		s.log.Warn(ctx, "live search failed", "query", query, "error", err)
	}
	if !applied {
		return
	}

	s.mu.Lock()
	st := s.snapshotLocked()
	subs := append([]func(RecipeState){}, s.subscribers...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}

// CancelDebounced drops a pending debounced search and reports whether
// one was pending.
func (s *RecipeStore) CancelDebounced() bool {
	return s.debouncer.Flush()
}

// Close cancels any pending debounced search.
func (s *RecipeStore) Close() {
	s.debouncer.Stop()
}

// FetchMine loads the current user's recipes.
func (s *RecipeStore) FetchMine(ctx context.Context) error {
	_, err := s.load(ctx, "", true, s.api.ListMyRecipes)
	return err
}

// SearchMine filters the current user's recipes. A blank query loads all
// of them.
func (s *RecipeStore) SearchMine(ctx context.Context, query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.FetchMine(ctx)
	}
	_, err := s.load(ctx, query, true, func(ctx context.Context) ([]models.Recipe, error) {
		return s.api.SearchMyRecipes(ctx, q)
	})
	return err
}

func (s *RecipeStore) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	return s.api.GetRecipe(ctx, id)
}

// Create stores a new recipe and adds it to an unfiltered list.
func (s *RecipeStore) Create(ctx context.Context, in models.RecipeInput) (*models.Recipe, error) {
	r, err := s.api.CreateRecipe(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.state.Query == "" {
		s.state.Recipes = append(s.state.Recipes, *r)
	}
	s.mu.Unlock()
	s.log.Info(ctx, "recipe created", "recipe_id", r.ID)
	return r, nil
}

// Update saves in and refreshes the listed copy.
func (s *RecipeStore) Update(ctx context.Context, id int64, in models.RecipeInput) (*models.Recipe, error) {
	r, err := s.api.UpdateRecipe(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for i := range s.state.Recipes {
		if s.state.Recipes[i].ID == id {
			s.state.Recipes[i] = *r
		}
	}
	s.mu.Unlock()
	return r, nil
}

// Delete removes the recipe remotely and, only on success, from the list.
func (s *RecipeStore) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteRecipe(ctx, id); err != nil {
		s.log.Warn(ctx, "delete rejected", "recipe_id", id, "error", err)
		return err
	}
	s.mu.Lock()
	kept := make([]models.Recipe, 0, len(s.state.Recipes))
	for _, r := range s.state.Recipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.state.Recipes = kept
	s.mu.Unlock()
	s.log.Info(ctx, "recipe deleted", "recipe_id", id)
	return nil
}
