// Package cli provides the interactive recipebook command-line client.
//
// It wires configuration, local storage, the API client and services into
// an App and exposes it two ways: a REPL started by the root command and a
// handful of one-shot subcommands (recipes, search, show, whoami, logout,
// version).
//
// Screens are modelled as routes rendered by a Navigator; forms are filled
// one field at a time, each answer validated on blur and re-asked until it
// passes. A 401 from any request ends the session, shows a notification and
// switches to the login screen.
//
// See NewRootCmd, App and runREPL for details.
package cli
