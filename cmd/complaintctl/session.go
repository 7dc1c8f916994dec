package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

func newPingCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the API answers its health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(apiURL)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), wait+commandTimeout)
			defer cancel()
			if err := c.WaitReady(ctx, wait); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API ready: %s\n", c.BaseURL())
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep polling with backoff for up to this long")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the selected portal and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().Str("email", email).Str("role", roleName).Msg("logging in")
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				prof, err := p.Login(ctx, email, password)
				if err != nil {
					return err
				}
				if prof == nil {
					if prof, err = p.Me(ctx); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s> (%s)\n", prof.Name, prof.Email, prof.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSignupCmd() *cobra.Command {
	var req client.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a customer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			roleName = client.RoleCustomer.String()
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				prof, err := p.Signup(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Account created: %s <%s>\n", prof.ID, prof.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().StringVar(&req.BankID, "bank-id", "", "Bank the customer banks with")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("bank-id")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				if err := p.Logout(ctx); err != nil {
					// The local session is gone either way.
					log.Warn().Err(err).Msg("logout request failed")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				prof, err := p.Me(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), prof)
			})
		},
	}
}

func newGuardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guard [path]",
		Short: "Run the route guard for a protected page and print its decision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from := ""
			if len(args) == 1 {
				from = args[0]
			}
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				d := p.Guard(ctx, from)
				out := cmd.OutOrStdout()
				switch d.Outcome {
				case client.Allow:
					fmt.Fprintf(out, "allow\t%s\n", p.SessionState())
				default:
					fmt.Fprintf(out, "%s\t%s\n", d.Outcome, d.Path)
				}
				return nil
			})
		},
	}
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the role dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				dash, err := p.Dashboard(ctx)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(dash.Raw, '\n'))
				return err
			})
		},
	}
}

func newForgotPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				msg, err := p.ForgotPassword(ctx, email)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				msg, err := p.ResetPassword(ctx, token, password)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Reset token from the email")
	cmd.Flags().StringVar(&password, "new-password", "", "New password")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}

func newUpdatePasswordCmd() *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "update-password",
		Short: "Change the password of the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				if err := p.UpdatePassword(ctx, current, next, next); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "Current password")
	cmd.Flags().StringVar(&next, "new-password", "", "New password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}
