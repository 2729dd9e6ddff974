// Command useradmin flips the active flag on accounts. Registration leaves
// accounts inactive until an operator runs:
//
//	useradmin activate <username>
//	useradmin deactivate <username>
//	useradmin show <username>
//
// It reads the same environment as the server to find the database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Jexxer/warframe-checklist/internal/auth/app"
	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

var errUsage = errors.New("usage: useradmin [-db file] activate|deactivate|show <username>")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := app.LoadConfig()

	fs := flag.NewFlagSet("useradmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "SQLite database file")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres DSN (implies the postgres driver)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return errUsage
	}
	if cfg.DatabaseURL != "" && cfg.DatabaseDriver == app.DriverSQLite && isFlagSet(fs, "database-url") {
		cfg.DatabaseDriver = app.DriverPostgres
	}

	cmd, username := fs.Arg(0), fs.Arg(1)

	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	return execute(ctx, st, cmd, username, out)
}

func execute(ctx context.Context, st store.Store, cmd, username string, out io.Writer) error {
	users := &service.UserService{Store: st}

	switch cmd {
	case "activate", "deactivate":
		if err := users.SetActive(ctx, username, cmd == "activate"); err != nil {
			return err
		}
		fmt.Fprintf(out, "%sd %s\n", cmd, username)
		return nil
	case "show":
		u, err := users.GetUser(ctx, username)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "id=%d username=%s email=%s active=%t\n", u.ID, u.Username, u.Email, u.Active)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
