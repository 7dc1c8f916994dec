package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

func newBanksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List the bank directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				banks, err := p.Client().Banks(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, b := range banks {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.BankCode, b.BankName)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\n", len(banks))
				return nil
			})
		},
	}
}

func newUsersCmd() *cobra.Command {
	var (
		q     client.UserQuery
		scope string
	)

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users: bank customers (officer) or officers and all users (regulator)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				var (
					page *client.UserPage
					err  error
				)
				switch scope {
				case "customers":
					page, err = p.Users(ctx, q)
				case "bank_officers":
					page, err = p.BankOfficers(ctx, q)
				case "all":
					page, err = p.AllUsers(ctx, q)
				default:
					return fmt.Errorf("unknown scope %q: want customers, bank_officers or all", scope)
				}
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, u := range page.Users {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Role, u.Email, u.Name)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\n", page.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "customers", "customers, bank_officers or all")
	cmd.Flags().IntVar(&q.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&q.BankCode, "bank-code", "", "Only users of this bank")
	cmd.Flags().StringVar(&q.Search, "search", "", "Name or email search")
	return cmd
}

func newRegisterOfficerCmd() *cobra.Command {
	var req client.RegisterBankOfficerRequest

	cmd := &cobra.Command{
		Use:   "register-officer",
		Short: "Create a bank officer account (regulator)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				prof, err := p.RegisterBankOfficer(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Officer registered: %s <%s>\n", prof.ID, prof.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Officer name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Officer email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&req.BankID, "bank-id", "", "Bank the officer works for")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("bank-id")
	return cmd
}
