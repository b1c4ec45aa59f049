package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/recipebook/internal/buildinfo"
	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// NewRootCmd builds the recipebook command. Without a subcommand it starts
// the interactive shell.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   common.AppName,
		Short: "Browse, share and discuss recipes from the terminal",
		Long: `recipebook talks to a recipe API: browse and search recipes, publish
your own, and comment on others'. Run it without arguments for the
interactive shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Run(ctx)
			})
		},
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		versionCmd(),
		whoamiCmd(),
		logoutCmd(),
		recipesCmd(),
		searchCmd(),
		showCmd(),
	)
	return cmd
}

// withApp loads the configuration from cmd's flags and runs fn against a
// fresh App.
func withApp(cmd *cobra.Command, fn func(context.Context, *App) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := NewApp(ctx, cfg, Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error { return a.Whoami(ctx) })
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				if !a.isLoggedIn() {
					a.printf("Not logged in.\n")
					return nil
				}
				return a.Logout(ctx)
			})
		},
	}
}

func recipesCmd() *cobra.Command {
	var mine bool
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"list"},
		Short:   "List recipes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				if mine {
					if !a.isLoggedIn() {
						return errors.New(msgLoginRequired)
					}
					return a.Mine(ctx, "")
				}
				return a.List(ctx)
			})
		},
	}
	cmd.Flags().BoolVarP(&mine, "mine", "m", false, "only list your own recipes")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search recipes by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Search(ctx, strings.Join(args, " "))
			})
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid recipe id %q", args[0])
			}
			return withApp(cmd, func(ctx context.Context, a *App) error { return a.Show(ctx, id) })
		},
	}
}
