package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/apitest"
	"github.com/dmitrijs2005/recipebook/internal/client/client"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	withTerminal(t, false, nil)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func apiFlags(t *testing.T, api *apitest.Server) []string {
	return []string{"--api", api.URL, "--db", filepath.Join(t.TempDir(), "state.db"), "--log-level", "error"}
}

func TestRootCmd_Version(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Build version: ")
}

func TestRootCmd_RecipesAndSearch(t *testing.T) {
	api := apitest.New(t)
	u := api.AddUser("alice", "alice@example.com", testPassword)
	api.AddRecipe(u.ID, recipeInput("Pasta bake"))
	api.AddRecipe(u.ID, recipeInput("Soup"))

	out, err := execute(t, "", append([]string{"recipes"}, apiFlags(t, api)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "All recipes (2)")

	out, err = execute(t, "", append([]string{"search", "pasta"}, apiFlags(t, api)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Pasta bake")
	assert.NotContains(t, out, "Soup")
	assert.Equal(t, 1, api.Hits(apitest.RouteSearchRecipes))
}

func TestRootCmd_MineNeedsLogin(t *testing.T) {
	api := apitest.New(t)

	_, err := execute(t, "", append([]string{"recipes", "--mine"}, apiFlags(t, api)...)...)
	require.EqualError(t, err, msgLoginRequired)
	assert.Equal(t, 0, api.TotalHits())
}

func TestRootCmd_ShowMissingRecipe(t *testing.T) {
	api := apitest.New(t)

	_, err := execute(t, "", append([]string{"show", "abc"}, apiFlags(t, api)...)...)
	require.Error(t, err)

	out, err := execute(t, "", append([]string{"show", "42"}, apiFlags(t, api)...)...)
	require.Error(t, err)
	assert.Contains(t, out, client.MsgNotFound)
}

func TestRootCmd_SessionSurvivesRestart(t *testing.T) {
	api := apitest.New(t)
	api.AddUser("alice", "alice@example.com", testPassword)
	flags := apiFlags(t, api)

	out, err := execute(t, "login\nalice@example.com\n"+testPassword+"\nexit\n", flags...)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome back, alice!")

	out, err = execute(t, "", append([]string{"whoami"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice")

	out, err = execute(t, "", append([]string{"logout"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, msgLoggedOut)

	out, err = execute(t, "", append([]string{"whoami"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestRootCmd_BadConfig(t *testing.T) {
	_, err := execute(t, "", "whoami", "--api", "not a url", "--db", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
}
