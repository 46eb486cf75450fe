package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/steelcutops/stockkeep/config"
	"github.com/steelcutops/stockkeep/logger"
	"github.com/steelcutops/stockkeep/stockkeep/console"
	"github.com/steelcutops/stockkeep/stockkeep/datamanager"
	"github.com/steelcutops/stockkeep/stockkeep/productmanager"
	"github.com/steelcutops/stockkeep/stockkeep/session"
	"github.com/steelcutops/stockkeep/stockkeep/usermanager"
)

type flags struct {
	ConfigPath string
	Debug      bool
}

// app holds what every command needs once flags are parsed.
type app struct {
	cfg      config.Config
	log      logger.Logger
	logFile  *os.File
	console  *console.Console
	users    *usermanager.JSONUserManager
	products *productmanager.JSONProductManager
}

func (a *app) Close() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

func setup(f *flags, in io.Reader, out io.Writer) (*app, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	if f.Debug {
		cfg.Log.Level = "debug"
	}

	var (
		file *os.File
		sink io.Writer = os.Stderr
	)
	if cfg.Log.File != "" {
		file, err = os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		sink = file
	}
	a := &app{cfg: cfg, logFile: file, console: console.New(in, out)}

	log, err := logger.New(sink, cfg.Log.EffectiveLevel())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.log = log
	log.Debug("Debug mode enabled", "config", f.ConfigPath)

	hasher, err := usermanager.NewHasher(cfg.Security.PasswordHash)
	if err != nil {
		a.Close()
		return nil, err
	}

	dm := datamanager.NewJSONDataManager(cfg.Storage.Dir,
		datamanager.WithDiagnostics(out),
		datamanager.WithLogger(log),
	)

	a.users = usermanager.NewJSONUserManager(dm,
		usermanager.WithFile(cfg.Storage.UsersFile),
		usermanager.WithHasher(hasher),
		usermanager.WithLogger(log),
	)
	a.products = productmanager.NewJSONProductManager(dm,
		productmanager.WithFile(cfg.Storage.ProductsFile),
		productmanager.WithLogger(log),
	)
	return a, nil
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "stockkeep",
		Short:         "Interactive inventory and account manager",
		Long:          "stockkeep signs in one user and offers the admin or user menu over a JSON-backed product catalog.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(f, in, out)
			if err != nil {
				return err
			}
			defer a.Close()

			return session.NewController(a.users, a.products, a.console, a.log).Run()
		},
	}
	rootCmd.PersistentFlags().StringVar(&f.ConfigPath, "config", config.DefaultPath, "Path to INI configuration file")
	rootCmd.PersistentFlags().BoolVar(&f.Debug, "debug", false, "Enable debug log level")

	rootCmd.AddCommand(newUserCommand(f, in, out))
	return rootCmd
}

func newUserCommand(f *flags, in io.Reader, out io.Writer) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Account management commands",
	}

	var username, role string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != string(usermanager.RoleAdmin) && role != string(usermanager.RoleRegular) {
				return fmt.Errorf("role must be %q or %q", usermanager.RoleAdmin, usermanager.RoleRegular)
			}

			a, err := setup(f, in, out)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.users.LoadUsers(); err != nil {
				return err
			}

			password, err := a.console.ReadPassword("Password: ")
			if err != nil {
				return err
			}
			confirm, err := a.console.ReadPassword("Repeat password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			if _, err := a.users.AddUser(username, password, usermanager.Role(role)); err != nil {
				return err
			}
			a.console.Printf("User %s created.\n", username)
			return nil
		},
	}
	addCmd.Flags().StringVar(&username, "username", "", "Login name (required)")
	addCmd.Flags().StringVar(&role, "role", string(usermanager.RoleRegular), "Account role (admin, regular)")
	addCmd.MarkFlagRequired("username")

	userCmd.AddCommand(addCmd)
	return userCmd
}

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		if !errors.Is(err, usermanager.ErrAuthorizationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
