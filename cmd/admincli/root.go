package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lmsdesk/go-admin-client/client"
	"github.com/lmsdesk/go-admin-client/credentials"
	"github.com/lmsdesk/go-admin-client/credentials/filekeyring"
	"github.com/lmsdesk/go-admin-client/internal/config"
)

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	store  *credentials.Store
	client *client.Client
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "admincli",
		Short:         "Terminal client for the LMS admin backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newDevicesCommand(a),
		newSessionsCommand(a),
		newUsersCommand(a),
		newSettingsCommand(a),
		newAuditLogsCommand(a),
	)
	return root
}

// init loads config, builds the credential store from the local file
// keyring, restores any persisted session, and wires the API client.
func (a *app) init(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	keyringOpts := []filekeyring.Option{}
	if cfg.KeyringPassphrase != "" {
		keyringOpts = append(keyringOpts, filekeyring.WithPassphrase(cfg.KeyringPassphrase))
	}
	keyring, err := filekeyring.New(credentialsPath(cfg), keyringOpts...)
	if err != nil {
		return errors.Wrap(err, "open credentials file")
	}

	store, err := credentials.NewStore(keyring)
	if err != nil {
		return err
	}
	if err := store.Restore(); err != nil {
		return errors.Wrap(err, "restore session")
	}
	a.store = store

	a.client, err = client.New(cfg.APIBaseURL, store,
		client.WithLogger(a.log),
		client.WithNavigator(client.NavigatorFunc(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'admincli login' to sign in again.")
		})),
	)
	return err
}

// credentialsPath resolves a relative credentials file against the user's
// home directory.
func credentialsPath(cfg config.Config) string {
	if filepath.IsAbs(cfg.CredentialsFile) {
		return cfg.CredentialsFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg.CredentialsFile
	}
	return filepath.Join(home, cfg.CredentialsFile)
}

// requireSession fails fast when no session is restored, instead of
// letting the first API call bounce off a 401.
func (a *app) requireSession() error {
	if !a.store.Session().IsAuthenticated {
		return errors.New("not signed in, run 'admincli login' first")
	}
	return nil
}
