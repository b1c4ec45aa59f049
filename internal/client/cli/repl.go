package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Mine(ctx context.Context, query string) error
	Show(ctx context.Context, id int64) error
	Back(ctx context.Context) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Comments(ctx context.Context, recipeID int64) error
	Comment(ctx context.Context, recipeID int64) error
	EditComment(ctx context.Context, id int64) error
	DeleteComment(ctx context.Context, id int64) error
}

const (
	helpGuest = "Available commands: (l)ist, search [query], show <id>, back, comments <id>, register, login, whoami, exit"
	helpUser  = "Available commands: (l)ist, search [query], mine [query], show <id>, back, create, edit <id>, delete <id>, " +
		"comments <id>, comment <recipe-id>, editcomment <id>, delcomment <id>, whoami, logout, exit"
)

// guestOnly and authOnly gate commands on the session state.
var (
	guestOnly = map[string]bool{"register": true, "login": true}
	authOnly  = map[string]bool{
		"mine": true, "create": true, "edit": true, "delete": true,
		"comment": true, "editcomment": true, "delcomment": true, "logout": true,
	}
)

// idCommands take a numeric id as their only argument.
var idCommands = map[string]struct {
	usage string
	run   func(execIface, context.Context, int64) error
}{
	"show":        {"show <recipe-id>", execIface.Show},
	"edit":        {"edit <recipe-id>", execIface.Edit},
	"delete":      {"delete <recipe-id>", execIface.Delete},
	"comments":    {"comments <recipe-id>", execIface.Comments},
	"comment":     {"comment <recipe-id>", execIface.Comment},
	"editcomment": {"editcomment <comment-id>", execIface.EditComment},
	"delcomment":  {"delcomment <comment-id>", execIface.DeleteComment},
}

// runREPL starts the read–eval–print loop of the recipe CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx ends, or when the user types
// "exit" or "quit".
//
// Commands that need a session are refused for guests and login/register
// are refused once signed in. Errors returned by handlers are ignored
// here; handlers report their own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "recipes (%s)> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if guestOnly[cmd] && a.isLoggedIn() {
			fmt.Fprintln(w, msgAlreadyLoggedIn)
			continue
		}
		if authOnly[cmd] && !a.isLoggedIn() {
			fmt.Fprintln(w, msgLoginRequired)
			continue
		}

		if c, ok := idCommands[cmd]; ok {
			id, ok := parseID(args)
			if !ok {
				fmt.Fprintln(w, "Usage:", c.usage)
				continue
			}
			_ = c.run(a, ctx, id)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpUser)
			} else {
				fmt.Fprintln(w, helpGuest)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "mine":
			_ = a.Mine(ctx, strings.Join(args, " "))

		case "back":
			_ = a.Back(ctx)

		case "create":
			_ = a.Create(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
