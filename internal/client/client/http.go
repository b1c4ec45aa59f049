package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

const DefaultTimeout = 10 * time.Second

// HTTPClient talks JSON to the recipe API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

type Option func(*options)

type options struct {
	timeout   time.Duration
	transport http.RoundTripper
	log       logging.Logger
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option { return func(o *options) { o.transport = rt } }

func WithLogger(l logging.Logger) Option { return func(o *options) { o.log = l } }

func NewHTTPClient(baseURL string, session SessionSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	o := options{timeout: DefaultTimeout, transport: http.DefaultTransport, log: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	return &HTTPClient{
		baseURL: u,
		log:     o.log,
		http: &http.Client{
			Timeout:   o.timeout,
			Transport: &authTransport{next: o.transport, session: session, log: o.log},
		},
	}, nil
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends in (if non-nil) as JSON and decodes the response into out (if
// non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return c.mapError(err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) mapError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func recipePath(id int64) string  { return "/recipes/" + strconv.FormatInt(id, 10) }
func commentPath(id int64) string { return "/comments/" + strconv.FormatInt(id, 10) }

type health struct {
	Status string `json:"status"`
}

// Ping checks GET /health.
func (c *HTTPClient) Ping(ctx context.Context) error {
	var h health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return err
	}
	if h.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/users", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	var res models.LoginResult
	if err := c.do(ctx, http.MethodPost, "/users/login", nil, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) listRecipes(ctx context.Context, path string, query url.Values) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if err := c.do(ctx, http.MethodGet, path, query, nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (c *HTTPClient) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	return c.listRecipes(ctx, "/recipes", nil)
}

func (c *HTTPClient) SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error) {
	return c.listRecipes(ctx, "/recipes/search", url.Values{"q": {query}})
}

func (c *HTTPClient) ListMyRecipes(ctx context.Context) ([]models.Recipe, error) {
	return c.listRecipes(ctx, "/users/recipes", nil)
}

func (c *HTTPClient) SearchMyRecipes(ctx context.Context, query string) ([]models.Recipe, error) {
	return c.listRecipes(ctx, "/users/recipes/search", url.Values{"q": {query}})
}

func (c *HTTPClient) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	var r models.Recipe
	if err := c.do(ctx, http.MethodGet, recipePath(id), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, in models.RecipeInput) (*models.Recipe, error) {
	var r models.Recipe
	if err := c.do(ctx, http.MethodPost, "/recipes", nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) UpdateRecipe(ctx context.Context, id int64, in models.RecipeInput) (*models.Recipe, error) {
	var r models.Recipe
	if err := c.do(ctx, http.MethodPut, recipePath(id), nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, recipePath(id), nil, nil, nil)
}

func (c *HTTPClient) ListComments(ctx context.Context, recipeID int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := c.do(ctx, http.MethodGet, recipePath(recipeID)+"/comments", nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *HTTPClient) CreateComment(ctx context.Context, in models.CommentInput) (*models.Comment, error) {
	var cm models.Comment
	if err := c.do(ctx, http.MethodPost, "/comments", nil, in, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *HTTPClient) UpdateComment(ctx context.Context, id int64, in models.CommentUpdate) (*models.Comment, error) {
	var cm models.Comment
	if err := c.do(ctx, http.MethodPut, commentPath(id), nil, in, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *HTTPClient) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, commentPath(id), nil, nil, nil)
}
