package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/iliyamo/chatapp-auth/internal/client"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errUsage = errors.New("usage: authctl [-server URL] register|login|profile [flags]")

func run(args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("authctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	server := global.String("server", envOr("AUTHCTL_SERVER", "http://localhost:5000"), "auth server base URL")
	if err := global.Parse(args); err != nil {
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}

	c := client.New(*server, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch rest[0] {
	case "register":
		return register(ctx, c, rest[1:], stdout, stderr)
	case "login":
		return login(ctx, c, rest[1:], stdout, stderr)
	case "profile":
		return profile(ctx, c, rest[1:], stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q: %w", rest[0], errUsage)
	}
}

func register(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("username", "", "username (3-30 characters)")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pw, err := passwordOrPrompt(*password, stderr)
	if err != nil {
		return err
	}
	u, err := c.Register(ctx, *username, *email, pw)
	if err != nil {
		return err
	}
	return printJSON(stdout, u)
}

func login(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pw, err := passwordOrPrompt(*password, stderr)
	if err != nil {
		return err
	}
	res, err := c.Login(ctx, *email, pw)
	if err != nil {
		return err
	}
	return printJSON(stdout, res)
}

func profile(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	token := fs.String("token", os.Getenv("AUTHCTL_TOKEN"), "access token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := c.Profile(ctx, *token)
	if err != nil {
		return err
	}
	return printJSON(stdout, u)
}

func passwordOrPrompt(pw string, w io.Writer) (string, error) {
	if pw != "" {
		return pw, nil
	}
	fmt.Fprint(w, "Enter password: ")
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
