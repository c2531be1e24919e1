package main

import (
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/jobs"
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "inspect the UTXO ledger and drive indexing jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsLedger(cmd) {
				return nil
			}
			return a.connect(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.disconnect()
		},
	}
	root.PersistentFlags().StringVar(&a.dsn, "database-dsn", a.dsn, "PostgreSQL DSN of the ledger")
	root.PersistentFlags().IntVar(&a.topLimit, "top-limit", 100, "balances listed for all_addresses jobs")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log lifecycle transitions")

	root.AddCommand(
		newTipCmd(a),
		newJobsCmd(a),
		newBalanceCmd(a),
		newUTXOsCmd(a),
		newTxCmd(a),
	)
	return root
}

func newTipCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "show the canonical chain tip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tip, err := a.query.Tip(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(tip)
		},
	}
}

func newJobsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "list and control indexing jobs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list jobs with the ledger tip height",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := a.engine.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(summaries)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get JOB_ID",
		Short: "show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := a.engine.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(job)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "balances JOB_ID",
		Short: "show the balances in scope of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balances, err := a.query.JobBalances(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(balances)
		},
	})

	for _, action := range []jobs.Action{jobs.ActionStart, jobs.ActionStop, jobs.ActionPause, jobs.ActionResume, jobs.ActionRetry} {
		cmd.AddCommand(&cobra.Command{
			Use:   string(action) + " JOB_ID",
			Short: string(action) + " a job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				job, err := a.engine.Transition(cmd.Context(), args[0], action)
				if err != nil {
					return err
				}
				return a.print(job)
			},
		})
	}
	return cmd
}

func newBalanceCmd(a *app) *cobra.Command {
	var height int64
	cmd := &cobra.Command{
		Use:   "balance ADDRESS",
		Short: "show the confirmed balance of an address, optionally as of a height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("height") {
				balance, err := a.query.Balance(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(balance)
			}
			snapshot, err := a.query.BalanceAt(cmd.Context(), args[0], height)
			if err != nil {
				return err
			}
			return a.print(snapshot)
		},
	}
	cmd.Flags().Int64Var(&height, "height", 0, "block height of the balance")
	return cmd
}

func newUTXOsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "utxos ADDRESS",
		Short: "list unspent outputs paying an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			utxos, err := a.query.UTXOs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(utxos)
		},
	}
}

func newTxCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tx TXID",
		Short: "show a stored transaction and its chain status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := a.query.Transaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(tx)
		},
	}
}

// needsLedger reports whether cmd reads or writes the ledger; help and completion do not.
func needsLedger(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion":
			return false
		}
	}
	return true
}
