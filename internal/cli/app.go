// Package cli is the interactive admin console: a small REPL over the CMS
// store. Handlers print outcomes and errors inline; the store owns all state
// and remote calls.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"cmsadmin/internal/store"
)

// App binds the REPL command handlers to the store.
type App struct {
	store  *store.Store
	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the console around an already-hydrated store.
func NewApp(st *store.Store) *App {
	return &App{
		store:  st,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run drives the REPL until EOF or exit, then waits for background
// refreshes so the process does not cut them off mid-write.
func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.status, a.reader)
	a.store.WaitBackground()
}

func (a *App) authenticated() bool {
	return a.store.Authenticated()
}

func (a *App) status() string {
	if u := a.store.CurrentUser(); u != nil {
		return fmt.Sprintf("%s (%s)", u.Email, a.store.CurrentRole())
	}
	return "not logged in"
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
