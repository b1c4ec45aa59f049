package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/kv"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/client/session"
	"github.com/dmitrijs2005/recipebook/internal/client/storage"
	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	onlineCheckInterval = 30 * time.Second
	pingTimeout         = 3 * time.Second
)

// Streams are the terminal handles the App talks to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Deps are the collaborators of an App.
type Deps struct {
	Log      logging.Logger
	Session  *session.Store
	API      client.Client
	Debounce time.Duration
	DB       *sql.DB
}

type App struct {
	log      logging.Logger
	db       *sql.DB
	session  *session.Store
	auth     services.AuthService
	recipes  *services.RecipeStore
	comments services.CommentService
	nav      *Navigator
	notify   Notifier
	reader   *bufio.Reader
	out      io.Writer

	modeMu sync.Mutex
	mode   Mode

	// userLogout is set while the user logs out on purpose, so the
	// logout listener does not report an expired session.
	userLogout atomic.Bool
	// live is set while live search results should be printed.
	live atomic.Bool

	// shown holds the comments last listed, by id, for prefilling edits.
	shownMu sync.Mutex
	shown   map[int64]models.Comment
}

// NewApp opens local storage, restores the saved session and connects the
// API client described by cfg.
func NewApp(ctx context.Context, cfg *config.Config, s Streams) (*App, error) {
	log := logging.New(cfg.LogLevel, s.Err)

	path, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	db, err := storage.InitDatabase(ctx, path)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", path, "error", err)
		return nil, err
	}

	sess := session.NewStore(kv.NewSQLiteRepository(db), log)
	if err := sess.Restore(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	api, err := client.NewHTTPClient(cfg.APIBaseURL, sess,
		client.WithTimeout(cfg.RequestTimeout), client.WithLogger(log))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(Deps{Log: log, Session: sess, API: api, Debounce: cfg.SearchDebounce, DB: db}, s), nil
}

func newApp(d Deps, s Streams) *App {
	out := &lockedWriter{w: s.Out}
	a := &App{
		log:      d.Log,
		db:       d.DB,
		session:  d.Session,
		auth:     services.NewAuthService(d.API, d.Session, d.Log),
		recipes:  services.NewRecipeStore(d.API, d.Log, d.Debounce),
		comments: services.NewCommentService(d.API, d.Session, d.Log),
		nav:      NewNavigator(),
		notify:   newConsoleNotifier(out),
		reader:   bufio.NewReader(s.In),
		out:      out,
	}

	a.nav.Handle(RouteHome, a.homeView)
	a.nav.Handle(RouteLogin, a.loginView)
	a.nav.Handle(RouteMine, a.mineView)
	a.nav.Handle(RouteRecipe, a.recipeView)

	a.session.OnLogout(a.onLogout)
	a.recipes.Subscribe(func(st services.RecipeState) {
		if a.live.Load() {
			a.printRecipes(st)
		}
	})
	return a
}

// onLogout runs whenever the session ends. A logout the user did not ask
// for comes from a 401 and means the token expired or was revoked.
func (a *App) onLogout() {
	if a.userLogout.Load() {
		return
	}
	a.notify.Error(client.MsgSessionExpired)
	_ = a.nav.Go(context.Background(), RouteLogin, 0)
}

// Run shows the home view and serves commands until the user exits or in
// reaches EOF.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintf(a.out, "Welcome to %s (type 'help' for commands)\n", common.AppName)

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	_ = a.fail(ctx, a.nav.Go(ctx, RouteHome, 0))

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

// Close releases local storage and pending searches. The App must not be
// used afterwards.
func (a *App) Close() {
	a.recipes.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "close database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	name := "guest"
	if cur := a.session.Current(); cur.Authenticated() {
		name = cur.Username
	}
	if m := a.Mode(); m != "" {
		return fmt.Sprintf("%s, %s", name, m)
	}
	return name
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.auth.Ping(pingCtx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the API every interval until ctx ends and
// keeps the prompt's online/offline marker current.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// fail reports err to the user and returns it. Expired sessions were
// already reported by the logout listener; a missing item sends the user
// back to the recipe list.
func (a *App) fail(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, services.ErrNotAuthenticated):
		a.notify.Error(msgLoginRequired)
	case errors.Is(err, client.ErrUnauthorized) && !errors.Is(err, services.ErrInvalidCredentials):
	case errors.Is(err, client.ErrNotFound):
		a.notify.Error(client.UserMessage(err))
		if a.nav.Current() != RouteHome {
			_ = a.fail(ctx, a.nav.Go(ctx, RouteHome, 0))
		}
	default:
		a.notify.Error(client.UserMessage(err))
	}
	a.log.Debug(ctx, "command failed", "error", err)
	return err
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) printRecipes(st services.RecipeState) {
	if st.Err != "" {
		a.notify.Error(st.Err)
		return
	}

	title := "All recipes"
	if st.Mine {
		title = "My recipes"
	}
	if st.Query != "" {
		title += fmt.Sprintf(" matching %q", st.Query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n", title, len(st.Recipes))
	if len(st.Recipes) == 0 {
		b.WriteString("  No recipes found.\n")
	}
	for _, r := range st.Recipes {
		fmt.Fprintf(&b, "  %s\n", r)
	}
	io.WriteString(a.out, b.String())
}
