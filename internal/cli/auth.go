package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with username and password",
		Long: `Login to the alert management API and store the access token.

In CI pass the password on stdin:

  echo "$ALERTPROBE_PASSWORD" | alertprobe auth login -u admin --password-stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin && password != "" {
				return fmt.Errorf("--password and --password-stdin are mutually exclusive")
			}
			if username == "" {
				username = promptInput("Username: ")
			}
			switch {
			case passwordStdin:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password from stdin: %w", err)
				}
				password = strings.TrimRight(string(data), "\r\n")
			case password == "":
				password = promptPassword("Password: ")
			}

			ctx := context.Background()
			resp, err := apiClient.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			// Store credentials
			viper.Set("auth.token", resp.Token)
			viper.Set("auth.username", username)

			if _, err := writeConfig(); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			name := username
			if resp.User != nil && resp.User.DisplayName != "" {
				name = resp.User.DisplayName
			}
			fmt.Fprintf(stdout, "Logged in as %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient.Logout()
			viper.Set("auth.token", "")
			viper.Set("auth.username", "")

			if _, err := writeConfig(); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}

			fmt.Fprintln(stdout, "Logged out successfully")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored login and when its token expires",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := viper.GetString("auth.token")
			if token == "" {
				return fmt.Errorf("not logged in. Run 'alertprobe auth login' first")
			}

			status := tokenStatus{
				Server:   currentServerURL(),
				Username: viper.GetString("auth.username"),
			}
			exp, err := tokenExpiry(token)
			if err != nil {
				return fmt.Errorf("stored token is unreadable: %w", err)
			}
			if exp != nil {
				status.ExpiresAt = exp
				status.Expired = time.Now().After(*exp)
			}

			if getOutputFormat() != "table" {
				return printOutput(status)
			}
			fmt.Fprintf(stdout, "Server:   %s\n", status.Server)
			fmt.Fprintf(stdout, "Username: %s\n", status.Username)
			fmt.Fprintf(stdout, "Expires:  %s\n", formatTime(status.ExpiresAt))
			if status.Expired {
				fmt.Fprintln(stdout, "Token has expired. Run 'alertprobe auth login' again.")
			}
			return nil
		},
	}
}

type tokenStatus struct {
	Server    string     `json:"server"`
	Username  string     `json:"username"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

// tokenExpiry reads the exp claim without verifying the signature; the CLI
// never holds the signing key.
func tokenExpiry(token string) (*time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, err
	}
	t := exp.Time
	return &t, nil
}

func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}
