package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the Gravity server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if email == "" {
				if email, err = promptLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword("Password: "); err != nil {
					return err
				}
			}

			resp, err := a.gateway.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			if err := saveCredentials(a.cfg.Client.DataDir, credentials{
				Email:        email,
				AccessToken:  resp.AccessToken,
				RefreshToken: resp.RefreshToken,
			}); err != nil {
				return err
			}

			fmt.Printf("Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func registerCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the Gravity server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if email == "" {
				if email, err = promptLine("Email: "); err != nil {
					return err
				}
			}
			if name == "" {
				if name, err = promptLine("Name: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword("Password: "); err != nil {
					return err
				}
			}

			resp, err := a.gateway.Register(cmd.Context(), email, name, password)
			if err != nil {
				return err
			}

			if err := saveCredentials(a.cfg.Client.DataDir, credentials{
				Email:        email,
				AccessToken:  resp.AccessToken,
				RefreshToken: resp.RefreshToken,
			}); err != nil {
				return err
			}

			fmt.Printf("Account created for %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget the local state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			// Server-side revocation is best effort: losing the network must
			// not keep the user logged in locally
			creds, err := loadCredentials(a.cfg.Client.DataDir)
			if err == nil && creds.RefreshToken != "" {
				if err := a.gateway.Logout(cmd.Context(), creds.RefreshToken); err != nil {
					fmt.Printf("Warning: could not revoke the session server-side: %v\n", err)
				}
			}

			if err := clearCredentials(a.cfg.Client.DataDir); err != nil {
				return err
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
