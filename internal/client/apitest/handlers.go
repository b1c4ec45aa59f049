package apitest

import (
	"net/http"
	"sort"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK", "database": "connected"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.RegisterInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) {
			writeError(w, http.StatusBadRequest, "Email already registered",
				fieldError{Field: "email", Message: "Email already registered"})
			return
		}
		if u.Name == in.Name {
			writeError(w, http.StatusBadRequest, "Username already taken",
				fieldError{Field: "username", Message: "Username already taken"})
			return
		}
	}
	writeJSON(w, http.StatusCreated, s.addUserLocked(in.Name, in.Email, in.Password))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.Credentials
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) && u.password == in.Password {
			found = u
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResult{
		Token:    s.Token(found.ID, TokenTTL),
		UserID:   found.ID,
		Username: found.Name,
	})
}

func (s *Server) listRecipes(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.Recipes())
}

func (s *Server) searchRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []models.Recipe{})
		return
	}
	s.mu.Lock()
	out := s.filterRecipesLocked(titleMatches(q))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) myRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid := currentUser(r)
	s.mu.Lock()
	out := s.filterRecipesLocked(func(rc models.Recipe) bool { return rc.UserID == uid })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) searchMyRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []models.Recipe{})
		return
	}
	uid := currentUser(r)
	match := titleMatches(q)
	s.mu.Lock()
	out := s.filterRecipesLocked(func(rc models.Recipe) bool { return rc.UserID == uid && match(rc) })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getRecipe(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	id, ok := pathID(ps)
	s.mu.Lock()
	rc, found := s.recipes[id]
	s.mu.Unlock()
	if !ok || !found {
		writeError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func validateRecipe(in models.RecipeInput) []fieldError {
	var out []fieldError
	if strings.TrimSpace(in.Title) == "" {
		out = append(out, fieldError{Field: "title", Message: "Title is required"})
	}
	if in.DishType == "" {
		out = append(out, fieldError{Field: "dish_type", Message: "Dish type is required"})
	}
	if strings.TrimSpace(in.PreparationTime) == "" {
		out = append(out, fieldError{Field: "preparation_time", Message: "Preparation time is required"})
	}
	return out
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.RecipeInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if fields := validateRecipe(in); len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "Invalid recipe", fields...)
		return
	}
	writeJSON(w, http.StatusCreated, s.AddRecipe(currentUser(r), in))
}

// ownedRecipe resolves :id and checks ownership, writing 404/403 itself.
func (s *Server) ownedRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params, verb string) (models.Recipe, bool) {
	id, ok := pathID(ps)
	s.mu.Lock()
	rc, found := s.recipes[id]
	s.mu.Unlock()
	if !ok || !found {
		writeError(w, http.StatusNotFound, "Recipe not found")
		return models.Recipe{}, false
	}
	if rc.UserID != currentUser(r) {
		writeError(w, http.StatusForbidden, "Forbidden: You can only "+verb+" your own recipes")
		return models.Recipe{}, false
	}
	return rc, true
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rc, ok := s.ownedRecipe(w, r, ps, "edit")
	if !ok {
		return
	}
	var in models.RecipeInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if fields := validateRecipe(in); len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "Invalid recipe", fields...)
		return
	}

	updated := recipeFrom(in)
	updated.ID, updated.UserID, updated.CreationDate = rc.ID, rc.UserID, rc.CreationDate

	s.mu.Lock()
	s.recipes[rc.ID] = updated
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rc, ok := s.ownedRecipe(w, r, ps, "delete")
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.recipes, rc.ID)
	for id, c := range s.comments {
		if c.RecipeID == rc.ID {
			delete(s.comments, id)
		}
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listComments(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	id, _ := pathID(ps)
	s.mu.Lock()
	out := []models.Comment{}
	for _, c := range s.comments {
		if c.RecipeID == id {
			out = append(out, c)
		}
	}
	s.mu.Unlock()
	sortComments(out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.CommentInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if strings.TrimSpace(in.Content) == "" {
		writeError(w, http.StatusBadRequest, "Invalid comment",
			fieldError{Field: "content", Message: "Comment cannot be empty"})
		return
	}

	s.mu.Lock()
	_, recipeOK := s.recipes[in.RecipeID]
	_, userOK := s.users[in.UserID]
	s.mu.Unlock()
	if !recipeOK {
		writeError(w, http.StatusBadRequest, "Recipe not found",
			fieldError{Field: "recipe_id", Message: "Recipe not found"})
		return
	}
	if !userOK {
		writeError(w, http.StatusBadRequest, "User not found",
			fieldError{Field: "user_id", Message: "User not found"})
		return
	}
	writeJSON(w, http.StatusCreated, s.AddComment(in.UserID, in.RecipeID, in.Content))
}

func (s *Server) ownedComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params, verb string) (models.Comment, bool) {
	id, ok := pathID(ps)
	s.mu.Lock()
	c, found := s.comments[id]
	s.mu.Unlock()
	if !ok || !found {
		writeError(w, http.StatusNotFound, "Comment not found")
		return models.Comment{}, false
	}
	if c.UserID != currentUser(r) {
		writeError(w, http.StatusForbidden, "Forbidden: You can only "+verb+" your own comments")
		return models.Comment{}, false
	}
	return c, true
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, ok := s.ownedComment(w, r, ps, "edit")
	if !ok {
		return
	}
	var in models.CommentUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if strings.TrimSpace(in.Content) == "" {
		writeError(w, http.StatusBadRequest, "Invalid comment",
			fieldError{Field: "content", Message: "Comment cannot be empty"})
		return
	}
	c.Content = in.Content

	s.mu.Lock()
	s.comments[c.ID] = c
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, ok := s.ownedComment(w, r, ps, "delete")
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.comments, c.ID)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func sortComments(cs []models.Comment) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
}
