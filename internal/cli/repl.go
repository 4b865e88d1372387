package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate. The real
// App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	authenticated() bool

	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Passwd(ctx context.Context) error
	Avatar(ctx context.Context, args []string) error

	Types(ctx context.Context) error
	ShowType(ctx context.Context, args []string) error
	MkType(ctx context.Context, args []string) error
	EditType(ctx context.Context, args []string) error
	RmType(ctx context.Context, args []string) error
	AddField(ctx context.Context, args []string) error

	Entries(ctx context.Context, args []string) error
	MkEntry(ctx context.Context, args []string) error
	SetField(ctx context.Context, args []string) error
	Publish(ctx context.Context, args []string) error
	RmEntry(ctx context.Context, args []string) error

	Keys(ctx context.Context) error
	MkKey(ctx context.Context, args []string) error
	RmKey(ctx context.Context, args []string) error

	Users(ctx context.Context, args []string) error
	Roles(ctx context.Context) error
	Assign(ctx context.Context, args []string) error

	Theme(ctx context.Context, args []string) error
}

const loggedOutHelp = "Available commands: login, register, help, exit"

const loggedInHelp = `Available commands:
  whoami | profile | passwd | avatar <path> | logout
  types | type <id> | mktype <name> | edittype <id> <name> | rmtype <id>
  addfield <typeID> <kind> <name>
  entries [typeID] | mkentry <typeID> <title> | setfield <entryID> <fieldID> <value>
  publish <entryID> | rment <entryID>
  keys | mkkey <name> [description] | rmkey <id>
  users [role] [page] | roles | assign <email> <role>
  theme [mode] | exit`

// runREPL starts the read-eval-print loop of the admin console.
//
// Each line's first token is the command, the rest are its arguments.
// Commands that need the session are guarded; everything a handler has to
// tell the operator (including errors) is printed inline by the handler, so
// the loop ignores handler errors. The loop exits on reader EOF or when the
// user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cms> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.authenticated() {
				printlnFn(loggedInHelp)
			} else {
				printlnFn(loggedOutHelp)
			}

		case "login":
			_ = a.Login(ctx, args)

		case "register":
			_ = a.Register(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !a.authenticated() {
				printlnFn("Please login first.")
				continue
			}
			switch cmd {
			case "logout":
				_ = a.Logout(ctx)
			case "whoami":
				_ = a.WhoAmI(ctx)
			case "profile":
				_ = a.Profile(ctx, args)
			case "passwd":
				_ = a.Passwd(ctx)
			case "avatar":
				_ = a.Avatar(ctx, args)
			case "types":
				_ = a.Types(ctx)
			case "type":
				_ = a.ShowType(ctx, args)
			case "mktype":
				_ = a.MkType(ctx, args)
			case "edittype":
				_ = a.EditType(ctx, args)
			case "rmtype":
				_ = a.RmType(ctx, args)
			case "addfield":
				_ = a.AddField(ctx, args)
			case "entries":
				_ = a.Entries(ctx, args)
			case "mkentry":
				_ = a.MkEntry(ctx, args)
			case "setfield":
				_ = a.SetField(ctx, args)
			case "publish":
				_ = a.Publish(ctx, args)
			case "rment":
				_ = a.RmEntry(ctx, args)
			case "keys":
				_ = a.Keys(ctx)
			case "mkkey":
				_ = a.MkKey(ctx, args)
			case "rmkey":
				_ = a.RmKey(ctx, args)
			case "users":
				_ = a.Users(ctx, args)
			case "roles":
				_ = a.Roles(ctx)
			case "assign":
				_ = a.Assign(ctx, args)
			case "theme":
				_ = a.Theme(ctx, args)
			default:
				printlnFn("Unknown command:", cmd)
			}
		}
		if err != nil {
			return
		}
	}
}
