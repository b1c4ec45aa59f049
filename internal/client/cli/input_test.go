package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\nrest\n"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetMultiline_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("only"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "only", got)

	_, err = GetMultiline(rdr(""), "Enter text", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func withTerminal(t *testing.T, isTerm bool, read func(int) ([]byte, error)) {
	t.Helper()
	oldTerm, oldRead := stdinIsTerminal, readPassword
	stdinIsTerminal = func() bool { return isTerm }
	if read != nil {
		readPassword = read
	}
	t.Cleanup(func() {
		stdinIsTerminal = oldTerm
		readPassword = oldRead
	})
}

func TestGetPassword_Terminal(t *testing.T) {
	withTerminal(t, true, func(int) ([]byte, error) { return []byte("Secret123"), nil })

	var out bytes.Buffer
	pw, err := GetPassword(rdr("ignored\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "Secret123", string(pw))
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	withTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("boom") })

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "Password", &out)
	require.Error(t, err)
}

func TestGetPassword_PipedInput(t *testing.T) {
	withTerminal(t, false, func(int) ([]byte, error) {
		t.Fatal("terminal read on piped input")
		return nil, nil
	})

	var out bytes.Buffer
	pw, err := GetPassword(rdr("Secret123\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "Secret123", string(pw))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(rdr(tt.in), "Delete?", &out)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
