package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"signup/internal/audit"
	"signup/internal/identity"
	"signup/internal/orphan"
)

func orphansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "Inspect and clean up identities whose profile insert failed",
	}
	cmd.AddCommand(orphansListCmd(), orphansReconcileCmd())
	return cmd
}

func orphansListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List unresolved orphaned identities, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := orphan.NewPostgresStore(db).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTITY\tUSERNAME\tIDENTIFIER\tATTEMPTS\tRECORDED\tREASON")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					r.IdentityID, r.Username, r.Identifier, r.Attempts,
					r.RecordedAt.UTC().Format(time.RFC3339), r.Reason)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum rows to print (0 for all)")
	return cmd
}

func orphansReconcileCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Retry the identity delete for unresolved orphans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Identity.URL == "" {
				return errors.New("IDENTITY_STORE_URL is required")
			}
			db, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			client := identity.NewClient(cfg.Identity.URL, cfg.Identity.APIKey, cfg.Identity.Timeout)
			reconciler := orphan.NewReconciler(orphan.NewPostgresStore(db), client,
				orphan.WithLogger(log),
				orphan.WithAuditPublisher(audit.NewPublisher(audit.NewPostgresStore(db))),
			)
			summary, err := reconciler.Reconcile(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d, resolved %d, failed %d\n",
				summary.Checked, summary.Resolved, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("%d orphans still unresolved", summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum orphans to process in one run (0 for all)")
	return cmd
}
