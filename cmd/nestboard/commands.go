package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nestboard/internal/domain"
	"nestboard/internal/service"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "nestboard",
		Short:         "Nestboard community client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newSignupCmd(a),
		newOAuthCmd(a),
		newLinkCmd(a),
		newConfirmCmd(a),
		newRecoverCmd(a),
	)
	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var input service.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.showFlash()

			if input.Username == "" {
				if saved, ok := a.login.SavedUsername(); ok {
					input.Username = saved
					fmt.Printf("Username: %s (saved)\n", saved)
				}
			}
			if input.Username == "" {
				input.Username = promptLine("Username: ")
			}
			if input.Password == "" {
				input.Password = promptLine("Password: ")
			}

			err := a.login.Login(cmd.Context(), input)
			switch {
			case errors.Is(err, domain.ErrInvalidCredentials):
				fmt.Println("Wrong username or password.")
				return nil
			case errors.Is(err, domain.ErrSessionEnded):
				a.showFlash()
				return nil
			case err != nil:
				return err
			}
			a.showWelcome()
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&input.KeepLogin, "keep", false, "stay signed in across restarts")
	cmd.Flags().BoolVar(&input.RememberUsername, "remember", false, "remember the username for next time")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.End(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.gate.Allow(domain.RouteHome) {
				a.showFlash()
				return nil
			}

			state, err := a.sessions.Hydrate(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrSessionEnded) {
					a.showFlash()
					return nil
				}
				return err
			}
			if !state.IsAuthenticated {
				fmt.Println("Not signed in.")
				return nil
			}

			fmt.Printf("Signed in as %s\n", a.sessions.DisplayName())
			if state.Profile != nil {
				if state.Profile.Email != "" {
					fmt.Printf("  email:    %s\n", state.Profile.Email)
				}
				if state.Profile.Provider != "" {
					fmt.Printf("  provider: %s\n", state.Profile.Provider)
				}
			}
			return nil
		},
	}
}

func newSignupCmd(a *app) *cobra.Command {
	var input service.SignupInput

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account (email verification required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if input.Username != "" {
				available, err := a.registration.CheckUsername(ctx, input.Username)
				if err != nil {
					return err
				}
				if !available {
					fmt.Println("That username is taken.")
					return nil
				}
			}

			// Without a code yet, this run only sends one.
			if input.EmailCode == "" {
				if input.Email == "" {
					return domain.ErrMissingInput
				}
				if err := a.registration.SendEmailCode(ctx, input.Email); err != nil {
					return describeRateLimit(err)
				}
				fmt.Println("Verification code sent. Re-run with --code to finish signing up.")
				return nil
			}

			if err := a.registration.Signup(ctx, input); err != nil {
				return err
			}
			fmt.Println("Account created. Sign in with `nestboard login`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "desired username")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "password")
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "email address")
	cmd.Flags().StringVar(&input.EmailCode, "code", "", "verification code from the email")
	return cmd
}

func newRecoverCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover a forgotten username or password",
	}

	var email string
	username := &cobra.Command{
		Use:   "username",
		Short: "Look up the username for an email address",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.recovery.FindUsername(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Printf("Your username is %s\n", name)
			return nil
		},
	}
	username.Flags().StringVarP(&email, "email", "e", "", "email address")

	var (
		resetUser  string
		resetEmail string
		resetToken string
		newPass    string
	)
	password := &cobra.Command{
		Use:   "password",
		Short: "Reset a forgotten password",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if resetToken == "" {
				token, err := a.recovery.VerifyUser(ctx, resetUser, resetEmail)
				if err != nil {
					return err
				}
				fmt.Printf("Identity verified. Re-run with --token %s --new-password <password>\n", token)
				return nil
			}
			if newPass == "" {
				newPass = promptLine("New password: ")
			}
			if err := a.recovery.ResetPassword(ctx, resetToken, newPass); err != nil {
				return err
			}
			fmt.Println("Password updated. Sign in with `nestboard login`.")
			return nil
		},
	}
	password.Flags().StringVarP(&resetUser, "username", "u", "", "username")
	password.Flags().StringVarP(&resetEmail, "email", "e", "", "email address")
	password.Flags().StringVar(&resetToken, "token", "", "reset token from the verify step")
	password.Flags().StringVar(&newPass, "new-password", "", "new password")

	cmd.AddCommand(username, password)
	return cmd
}

// showWelcome prints the one-shot welcome stashed by a completed login.
func (a *app) showWelcome() {
	if name, ok := a.tokens.TakeWelcomeName(); ok {
		fmt.Printf("Welcome, %s!\n", name)
	}
}

// describeRateLimit turns a 429 into a friendly wait message; everything else
// passes through.
func describeRateLimit(err error) error {
	if apiErr, ok := domain.AsAPIError(err); ok && apiErr.Status == 429 {
		fmt.Printf("Too many attempts. Try again in %d seconds.\n", int(apiErr.RetryAfter.Seconds()))
		return nil
	}
	return err
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}
