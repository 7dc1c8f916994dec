package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

func newComplaintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "complaints",
		Aliases: []string{"complaint"},
		Short:   "List, inspect, file and move complaints",
	}
	cmd.AddCommand(newListComplaintsCmd())
	cmd.AddCommand(newGetComplaintCmd())
	cmd.AddCommand(newSubmitComplaintCmd())
	cmd.AddCommand(newUpdateComplaintCmd())
	cmd.AddCommand(newDeleteComplaintCmd())
	cmd.AddCommand(newStatusCmd())
	return cmd
}

func newListComplaintsCmd() *cobra.Command {
	var (
		q      client.ComplaintQuery
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the complaints the role can see",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Status = client.Status(status)
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				page, err := p.ListComplaints(ctx, q)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, c := range page.Complaints {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.ComplaintNo, c.Status, c.Priority, c.Category)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d (page %d, limit %d)\n", page.Count, page.Page, page.Limit)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&status, "status", "", "Only complaints in this status")
	cmd.Flags().StringVar(&q.Priority, "priority", "", "Only complaints of this priority")
	cmd.Flags().StringVar(&q.BankCode, "bank-code", "", "Only complaints against this bank (regulator)")
	return cmd
}

func newGetComplaintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <complaint-id>",
		Short: "Show one complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				d, err := p.GetComplaint(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), d)
			})
		},
	}
}

func newSubmitComplaintCmd() *cobra.Command {
	var (
		req     client.SubmitComplaintRequest
		pdfPath string
		attach  []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a new complaint (customer)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pdfPath != "" {
				f, err := readFile(pdfPath)
				if err != nil {
					return err
				}
				req.PDF = &f
			}
			files, err := readFiles(attach)
			if err != nil {
				return err
			}
			req.Attachments = files
			log.Debug().Str("type", req.Type).Str("category", req.Category).Int("attachments", len(files)).Msg("submitting complaint")

			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				c, err := p.SubmitComplaint(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Complaint filed: %s (%s) %s\n", c.ID, c.ComplaintNo, c.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Type, "type", "", "Complaint type")
	cmd.Flags().StringVar(&req.Category, "category", "", "Complaint category")
	cmd.Flags().StringVar(&req.Priority, "priority", "medium", "Priority: low, medium or high")
	cmd.Flags().StringVar(&req.Description, "description", "", "What happened")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "PDF document describing the complaint")
	cmd.Flags().StringSliceVar(&attach, "attach", nil, "Image attachments (repeatable)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newUpdateComplaintCmd() *cobra.Command {
	var (
		req    client.UpdateComplaintRequest
		attach []string
	)

	cmd := &cobra.Command{
		Use:   "update <complaint-id>",
		Short: "Edit a pending complaint (customer)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(attach)
			if err != nil {
				return err
			}
			req.Attachments = files
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				c, err := p.UpdateComplaint(ctx, args[0], req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Complaint updated: %s\n", c.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Description, "description", "", "New description")
	cmd.Flags().StringSliceVar(&attach, "attach", nil, "Image attachments (repeatable)")
	return cmd
}

func newDeleteComplaintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <complaint-id>",
		Short: "Withdraw a pending complaint (customer)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				if err := p.DeleteComplaint(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Complaint deleted: %s\n", args[0])
				return nil
			})
		},
	}
}

// newStatusCmd moves a complaint. When the transition needs a reason and
// none was given, the reason is read from stdin.
func newStatusCmd() *cobra.Command {
	var from, to, reason string

	cmd := &cobra.Command{
		Use:   "status <complaint-id>",
		Short: "Change the status of a complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				ch := client.StatusChange{
					ComplaintID: args[0],
					From:        client.Status(from),
					To:          client.Status(to),
					Reason:      reason,
				}
				if ch.From == "" {
					d, err := p.GetComplaint(ctx, ch.ComplaintID)
					if err != nil {
						return err
					}
					ch.From = d.Complaint.Status
				}
				if ch.Reason == "" && p.ReasonRequired(ch.From, ch.To) {
					ch.Reason = promptLine(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Reason for %s -> %s: ", ch.From, ch.To))
				}
				d, err := p.ChangeStatus(ctx, ch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Complaint %s is now %s\n", d.Complaint.ComplaintNo, d.Complaint.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Status the complaint is in (fetched when omitted)")
	cmd.Flags().StringVar(&to, "to", "", "Target status")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the change")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newRemarksCmd() *cobra.Command {
	var q client.RemarkQuery
	var status string

	cmd := &cobra.Command{
		Use:   "remarks <complaint-id>",
		Short: "List the status remarks of a complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.ComplaintID = args[0]
			q.Status = client.Status(status)
			return withPortal(cmd, func(ctx context.Context, p *client.Portal) error {
				list, err := p.Remarks(ctx, q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\t%s\n", list.ComplaintNo, list.CurrentStatus)
				for _, r := range list.Remarks {
					fmt.Fprintf(out, "%s\t%s\t%s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.ActionType, r.Reason)
				}
				fmt.Fprintf(out, "Total: %d\n", list.TotalRemarks)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.ComplaintNo, "complaint-no", "", "Complaint number to match")
	cmd.Flags().StringVar(&status, "status", "", "Only remarks for this status")
	return cmd
}
