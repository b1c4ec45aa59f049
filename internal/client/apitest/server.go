// Package apitest runs an in-memory recipe API for tests. It speaks the
// same routes, payloads and status codes as the real backend and issues
// HS256 JWTs that expire after a day.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// Route keys accepted by Hits, Delay and Fail.
const (
	RouteHealth          = "GET /health"
	RouteRegister        = "POST /users"
	RouteLogin           = "POST /users/login"
	RouteListRecipes     = "GET /recipes"
	RouteSearchRecipes   = "GET /recipes/search"
	RouteGetRecipe       = "GET /recipes/:id"
	RouteCreateRecipe    = "POST /recipes"
	RouteUpdateRecipe    = "PUT /recipes/:id"
	RouteDeleteRecipe    = "DELETE /recipes/:id"
	RouteListComments    = "GET /recipes/:id/comments"
	RouteMyRecipes       = "GET /users/recipes"
	RouteSearchMyRecipes = "GET /users/recipes/search"
	RouteCreateComment   = "POST /comments"
	RouteUpdateComment   = "PUT /comments/:id"
	RouteDeleteComment   = "DELETE /comments/:id"
)

// TokenTTL matches the lifetime of tokens issued by the real backend.
const TokenTTL = 24 * time.Hour

type user struct {
	models.User
	password string
}

type claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	secret   []byte
	users    map[int64]*user
	recipes  map[int64]models.Recipe
	comments map[int64]models.Comment
	nextID   int64
	hits     map[string]int
	delays   map[string]func(*http.Request) time.Duration
	failures map[string]int
	revoked  map[string]bool
	now      func() time.Time
}

// New starts a server; it is closed by t.Cleanup when tb is non-nil.
func New(tb interface{ Cleanup(func()) }) *Server {
	s := &Server{
		secret:   []byte("apitest-secret"),
		users:    map[int64]*user{},
		recipes:  map[int64]models.Recipe{},
		comments: map[int64]models.Comment{},
		hits:     map[string]int{},
		delays:   map[string]func(*http.Request) time.Duration{},
		failures: map[string]int{},
		revoked:  map[string]bool{},
		now:      time.Now,
	}

	r := httprouter.New()
	s.route(r, RouteHealth, s.health)
	s.route(r, RouteRegister, s.register)
	s.route(r, RouteLogin, s.login)
	s.route(r, RouteListRecipes, s.listRecipes)

	// httprouter cannot hold /recipes/search next to /recipes/:id.
	search := s.wrap(RouteSearchRecipes, s.searchRecipes)
	get := s.wrap(RouteGetRecipe, s.getRecipe)
	r.GET("/recipes/:id", func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		if ps.ByName("id") == "search" {
			search(w, req, ps)
			return
		}
		get(w, req, ps)
	})

	s.route(r, RouteCreateRecipe, s.authed(s.createRecipe))
	s.route(r, RouteUpdateRecipe, s.authed(s.updateRecipe))
	s.route(r, RouteDeleteRecipe, s.authed(s.deleteRecipe))
	s.route(r, RouteListComments, s.listComments)
	s.route(r, RouteMyRecipes, s.authed(s.myRecipes))
	s.route(r, RouteSearchMyRecipes, s.authed(s.searchMyRecipes))
	s.route(r, RouteCreateComment, s.createComment)
	s.route(r, RouteUpdateComment, s.authed(s.updateComment))
	s.route(r, RouteDeleteComment, s.authed(s.deleteComment))

	s.Server = httptest.NewServer(r)
	if tb != nil {
		tb.Cleanup(s.Close)
	}
	return s
}

func (s *Server) route(r *httprouter.Router, key string, h httprouter.Handle) {
	method, path, _ := strings.Cut(key, " ")
	r.Handle(method, path, s.wrap(key, h))
}

// wrap counts hits and applies the configured delay and failure for key.
func (s *Server) wrap(key string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		s.mu.Lock()
		s.hits[key]++
		delay := s.delays[key]
		status := s.failures[key]
		s.mu.Unlock()

		if delay != nil {
			select {
			case <-time.After(delay(req)):
			case <-req.Context().Done():
				return
			}
		}
		if status != 0 {
			writeError(w, status, http.StatusText(status))
			return
		}
		h(w, req, ps)
	}
}

// Hits reports how many requests reached route.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// TotalHits reports requests across all routes.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Delay holds every request to route for fn(req) before answering.
func (s *Server) Delay(route string, fn func(*http.Request) time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[route] = fn
}

// Fail makes route answer with status until called again with 0.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Revoke makes token fail authentication from now on.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}

// AddUser creates an account directly.
func (s *Server) AddUser(name, email, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password)
}

func (s *Server) addUserLocked(name, email, password string) models.User {
	u := &user{
		User: models.User{
			ID: s.allocID(), Name: name, Email: email,
			RegistrationDate: models.Timestamp{Time: s.now().UTC()},
		},
		password: password,
	}
	s.users[u.ID] = u
	return u.User
}

// AddRecipe stores a recipe owned by userID.
func (s *Server) AddRecipe(userID int64, in models.RecipeInput) models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := recipeFrom(in)
	r.ID = s.allocID()
	r.UserID = userID
	r.CreationDate = models.Timestamp{Time: s.now().UTC()}
	s.recipes[r.ID] = r
	return r
}

// AddComment stores a comment by userID on recipeID.
func (s *Server) AddComment(userID, recipeID int64, content string) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Comment{
		ID: s.allocID(), Content: content, RecipeID: recipeID, UserID: userID,
		CommentDate: models.Timestamp{Time: s.now().UTC()},
	}
	s.comments[c.ID] = c
	return c
}

// Recipes returns every stored recipe ordered by id.
func (s *Server) Recipes() []models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterRecipesLocked(func(models.Recipe) bool { return true })
}

// Token signs a token for userID that expires after ttl. A negative ttl
// yields an already expired token.
func (s *Server) Token(userID int64, ttl time.Duration) string {
	s.mu.Lock()
	u := s.users[userID]
	s.mu.Unlock()

	c := claims{UserID: userID}
	if u != nil {
		c.Username, c.Email = u.Name, u.Email
	}
	now := s.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

type ctxKey struct{}

func (s *Server) authed(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get(common.AuthorizationHeader)
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Token is missing")
			return
		}
		raw, ok := strings.CutPrefix(header, common.BearerScheme)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format. Expected: Bearer <token>")
			return
		}

		var c claims
		_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(s.now),
		)
		s.mu.Lock()
		revoked := s.revoked[raw]
		_, known := s.users[c.UserID]
		s.mu.Unlock()

		if err != nil || revoked || !known {
			writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}
		h(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, c.UserID)), ps)
	}
}

func currentUser(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxKey{}).(int64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, fields ...fieldError) {
	writeJSON(w, status, errorBody{Error: msg, Fields: fields})
}

const msgInvalidJSON = "Invalid JSON body"

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(ps httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	return id, err == nil
}

func recipeFrom(in models.RecipeInput) models.Recipe {
	return models.Recipe{
		Title: in.Title, DishType: in.DishType, Ingredients: in.Ingredients,
		Instructions: in.Instructions, PreparationTime: in.PreparationTime,
		Origin: in.Origin, Servings: in.Servings,
	}
}

func (s *Server) filterRecipesLocked(keep func(models.Recipe) bool) []models.Recipe {
	out := []models.Recipe{}
	for _, r := range s.recipes {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func titleMatches(q string) func(models.Recipe) bool {
	q = strings.ToLower(q)
	return func(r models.Recipe) bool { return strings.Contains(strings.ToLower(r.Title), q) }
}
