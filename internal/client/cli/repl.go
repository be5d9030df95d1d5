package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Providers(ctx context.Context) error
	Inbox(ctx context.Context, n int) error
	Send(ctx context.Context, n int) error
	Forms(ctx context.Context) error
	Billing(ctx context.Context) error
	Terms(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the CareLink CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - terms          — show the terms of service
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the current session
//	  - profile        — show and optionally edit the patient profile
//	  - providers      — list the care team directory
//	  - inbox <n>      — show the thread with provider number n
//	  - send <n>       — compose a message to provider number n
//	  - forms          — list intake forms
//	  - billing        — list billing statements
//	  - terms          — show the terms of service
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("carelink %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, providers, inbox <n>, send <n>, forms, billing, terms, logout, exit")
			} else {
				printlnFn("Available commands: login, terms, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "p", "providers":
			_ = a.Providers(ctx)

		case "inbox":
			n, ok := numericArg(args, "Usage: inbox <provider number>")
			if !ok {
				continue
			}
			_ = a.Inbox(ctx, n)

		case "send":
			n, ok := numericArg(args, "Usage: send <provider number>")
			if !ok {
				continue
			}
			_ = a.Send(ctx, n)

		case "forms":
			_ = a.Forms(ctx)

		case "billing":
			_ = a.Billing(ctx)

		case "terms":
			_ = a.Terms(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func numericArg(args []string, usage string) (int, bool) {
	if len(args) == 0 {
		printlnFn(usage)
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		printlnFn(usage)
		return 0, false
	}
	return n, true
}
