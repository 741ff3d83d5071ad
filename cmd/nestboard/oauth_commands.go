package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nestboard/internal/domain"
	"nestboard/internal/oauth"
)

func newOAuthCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:       "oauth <google|kakao|naver>",
		Short:     "Sign in with a social provider",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"google", "kakao", "naver"},
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := domain.ParseProvider(args[0])
			if provider == "" || provider == domain.ProviderPassword {
				return fmt.Errorf("unknown provider %q", args[0])
			}

			handler := oauth.NewRedirectHandler(a.sessions, a.tokens, a.flash, a.nav)
			server := oauth.NewCallbackServer(a.cfg.Callback.ListenAddr, handler)

			a.auth.Start(provider, force)
			fmt.Println("Waiting for the sign-in to complete...")

			if err := server.Run(cmd.Context()); err != nil {
				return err
			}

			a.showFlash()
			a.showWelcome()
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "force the provider to re-prompt for an account")
	return cmd
}

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Resolve a social sign-in that matched an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.showFlash()
			if !a.link.Ready() {
				return nil
			}
			fmt.Println("An existing account matches your social sign-in. Choose one of:")
			fmt.Println("  nestboard link password      prove it with your password")
			fmt.Println("  nestboard link otp-send      mail a one-time code instead")
			fmt.Println("  nestboard link otp-verify    finish with the mailed code")
			fmt.Println("  nestboard link new           keep the accounts separate")
			return nil
		},
	}

	var password string
	linkPassword := &cobra.Command{
		Use:   "password",
		Short: "Link by proving the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = promptLine("Password: ")
			}
			if err := a.link.LinkWithPassword(cmd.Context(), password); err != nil {
				return describeLinkErr(err)
			}
			a.showFlash()
			return nil
		},
	}
	linkPassword.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")

	otpSend := &cobra.Command{
		Use:   "otp-send",
		Short: "Mail a one-time code to the account's address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.link.SendOTP(cmd.Context()); err != nil {
				if err := describeLinkErr(err); err != nil {
					return describeRateLimit(err)
				}
				return nil
			}
			fmt.Println("Code sent. Finish with `nestboard link otp-verify <code>`.")
			return nil
		},
	}

	otpVerify := &cobra.Command{
		Use:   "otp-verify <code>",
		Short: "Link with the mailed one-time code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.link.VerifyOTP(cmd.Context(), args[0]); err != nil {
				return describeLinkErr(err)
			}
			a.showFlash()
			return nil
		},
	}

	linkNew := &cobra.Command{
		Use:   "new",
		Short: "Keep the accounts separate and continue as a new member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.link.ContinueAsNew(cmd.Context()); err != nil {
				return describeLinkErr(err)
			}
			a.showFlash()
			return nil
		},
	}

	cmd.AddCommand(linkPassword, otpSend, otpVerify, linkNew)
	return cmd
}

func newConfirmCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Decide whether to continue as the returning social account",
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, ok := a.confirm.Guard()
			if !ok {
				a.showFlash()
				return nil
			}
			name := pending.DisplayName
			if name == "" {
				name = pending.Email
			}
			fmt.Printf("Continue as %s (%s)?\n", name, pending.Provider)
			fmt.Println("  nestboard confirm continue   sign in as this account")
			fmt.Println("  nestboard confirm switch     sign in with a different account")
			return nil
		},
	}

	cont := &cobra.Command{
		Use:   "continue",
		Short: "Sign in as the returning account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.confirm.Continue(cmd.Context()); err != nil {
				return describeLinkErr(err)
			}
			a.showFlash()
			a.showWelcome()
			return nil
		},
	}

	sw := &cobra.Command{
		Use:   "switch",
		Short: "Discard the returning account and pick another",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.confirm.SwitchAccount()
		},
	}

	cmd.AddCommand(cont, sw)
	return cmd
}

// describeLinkErr swallows the expected guard outcomes (the navigator already
// told the user where to go) and passes real failures through.
func describeLinkErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoLinkToken):
		return nil
	case errors.Is(err, domain.ErrSessionEnded):
		return nil
	}
	return err
}
