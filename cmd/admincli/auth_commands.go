package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lmsdesk/go-admin-client/client"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayBanner()

			reader := bufio.NewReader(os.Stdin)
			if email == "" {
				fmt.Print("Email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return errors.Wrap(err, "read email")
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return errors.Wrap(err, "read password")
				}
				password = strings.TrimSpace(line)
			}

			result, err := a.client.Auth.Login(cmd.Context(), client.LoginRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			if result.RequiresTwoFactor {
				fmt.Print("Two-factor code (or backup code with 'backup:' prefix): ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return errors.Wrap(err, "read two-factor code")
				}
				code := strings.TrimSpace(line)

				req := client.LoginRequest{Email: email, Password: password}
				if rest, ok := strings.CutPrefix(code, "backup:"); ok {
					req.BackupCode = rest
				} else {
					req.TwoFactorToken = code
				}
				result, err = a.client.Auth.Login(cmd.Context(), req)
				if err != nil {
					return err
				}
				if result.RequiresTwoFactor {
					return errors.New("two-factor code rejected")
				}
			}

			fmt.Printf("Signed in as %s (%s)\n", result.User.Email, result.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := a.requireSession(); err != nil {
					return err
				}
				if err := a.client.Auth.LogoutAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("Signed out everywhere.")
				return nil
			}
			if err := a.client.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "revoke every session for this account")
	return cmd
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session := a.store.Session()
			if !session.IsAuthenticated {
				fmt.Println("Not signed in.")
				return nil
			}
			fmt.Printf("%s (%s)\n", session.User.Email, session.User.Role)
			if expiry, ok := client.AccessTokenExpiry(session.AccessToken); ok {
				if remaining := time.Until(expiry); remaining > 0 {
					fmt.Printf("Access token expires in %s\n", remaining.Round(time.Second))
				} else {
					fmt.Println("Access token expired; it will refresh on the next request.")
				}
			}
			return nil
		},
	}
}

func newDevicesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage remembered login devices",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List devices holding an active refresh token",
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			devices, err := a.client.Auth.Devices(c.Context())
			if err != nil {
				return err
			}
			for _, d := range devices {
				fmt.Printf("%d\t%s\t%s\t%s\n", d.ID, d.DeviceInfo, d.IPAddress, d.CreatedAt)
			}
			return nil
		},
	})

	revoke := &cobra.Command{
		Use:   "revoke <device-id>",
		Short: "Revoke a device's refresh token",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.client.Auth.RevokeDevice(c.Context(), id)
		},
	}
	cmd.AddCommand(revoke)
	return cmd
}
