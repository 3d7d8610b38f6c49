package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/api"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/config"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/session"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/store"
)

const usage = `usage: adminctl <command> [flags]

commands:
  login -password P        log in and remember the token locally
  logout                   forget the stored token
  status                   show whether a token is stored
  analytics                show order and revenue totals
  orders [-q T] [-status S]
  advance -id ID [-to S]   move an order to its next status
  products
  save-product [-id ID] -name N -price P -stock N [...]
  delete-product -id ID [-yes]
  export-products [-o products.xlsx]`

// console is the state shared by every subcommand.
type console struct {
	holder   *session.Holder
	client   *api.Client
	notifier notify.Notifier
	out      io.Writer
	in       *bufio.Reader
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	db, err := store.Open(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("Failed to open local storage: %v", err)
	}
	defer db.Close()

	n := notify.Writer{Out: os.Stdout}
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	c := &console{
		holder: &session.Holder{
			Auth:     client,
			Tokens:   session.LocalTokenStore{Store: db},
			Notifier: n,
		},
		client:   client,
		notifier: n,
		out:      os.Stdout,
		in:       bufio.NewReader(os.Stdin),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := c.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		slog.Debug("Command failed", "command", os.Args[1], "error", err)
		stop()
		db.Close()
		os.Exit(1)
	}
}

func (c *console) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.logout()
	case "status":
		return c.status()
	case "analytics", "orders", "advance", "products", "save-product", "delete-product", "export-products":
	default:
		fmt.Fprintln(c.out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	authed, err := c.authed()
	if err != nil {
		return err
	}

	switch cmd {
	case "analytics":
		err = c.analytics(ctx, authed)
	case "orders":
		err = c.orders(ctx, authed, args)
	case "advance":
		err = c.advance(ctx, authed, args)
	case "products":
		err = c.products(ctx, authed)
	case "save-product":
		err = c.saveProduct(ctx, authed, args)
	case "delete-product":
		err = c.deleteProduct(ctx, authed, args)
	case "export-products":
		err = c.exportProducts(ctx, authed, args)
	}

	if errors.Is(err, api.ErrUnauthorized) {
		if lerr := c.holder.Logout(); lerr != nil {
			slog.Error("Failed to clear stored token", "error", lerr)
		}
		notify.Error(c.notifier, "Session expired, please log in again")
	}
	return err
}

// authed restores the stored session and returns a client that sends its
// token.
func (c *console) authed() (*api.Client, error) {
	s, err := c.holder.Restore()
	if errors.Is(err, session.ErrExpired) {
		notify.Error(c.notifier, "Session expired, please log in again")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if !s.Authenticated() {
		notify.Error(c.notifier, "Not logged in. Run: adminctl login -password ...")
		return nil, errors.New("not logged in")
	}
	return c.client.WithToken(s.Token), nil
}

// confirm asks a yes/no question on stdin; anything but y or yes declines.
func (c *console) confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
