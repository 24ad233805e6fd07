package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newReceiverCommand(ctx *commandContext) *cobra.Command {
	receiverCmd := &cobra.Command{
		Use:   "receiver",
		Short: "Manage report email recipients",
	}

	receiverCmd.AddCommand(newReceiverListCommand(ctx))
	receiverCmd.AddCommand(newReceiverAddCommand(ctx))
	receiverCmd.AddCommand(newReceiverRemoveCommand(ctx))
	return receiverCmd
}

func newReceiverListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all configured email recipients",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(cfg.Email.To) == 0 {
				fmt.Fprintln(out, "No recipients configured.")
				return nil
			}
			for i, addr := range cfg.Email.To {
				fmt.Fprintf(out, "  %d. %s\n", i+1, addr)
			}
			return nil
		},
	}
}

func newReceiverAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <email>",
		Short: "Add an email recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			addr := strings.TrimSpace(args[0])
			for _, existing := range cfg.Email.To {
				if existing == addr {
					return fmt.Errorf("%q is already in the recipient list", addr)
				}
			}
			cfg.Email.To = append(cfg.Email.To, addr)
			if err := ctx.saveConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", addr)
			return nil
		},
	}
}

func newReceiverRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <email>",
		Short: "Remove an email recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			addr := strings.TrimSpace(args[0])
			kept := cfg.Email.To[:0]
			for _, existing := range cfg.Email.To {
				if existing != addr {
					kept = append(kept, existing)
				}
			}
			if len(kept) == len(cfg.Email.To) {
				return fmt.Errorf("%q not found in recipient list", addr)
			}
			cfg.Email.To = kept
			if err := ctx.saveConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", addr)
			return nil
		},
	}
}
