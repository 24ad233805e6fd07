package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"swr/internal/config"
)

func newPodcastCommand(ctx *commandContext) *cobra.Command {
	podcastCmd := &cobra.Command{
		Use:   "podcast",
		Short: "Manage podcast feeds",
	}

	podcastCmd.AddCommand(newPodcastListCommand(ctx))
	podcastCmd.AddCommand(newPodcastAddCommand(ctx))
	podcastCmd.AddCommand(newPodcastRemoveCommand(ctx))
	return podcastCmd
}

func newPodcastListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all configured podcast feeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(cfg.Feeds) == 0 {
				fmt.Fprintln(out, "No feeds configured.")
				return nil
			}
			rows := make([][]string, 0, len(cfg.Feeds))
			for i, feed := range cfg.Feeds {
				rows = append(rows, []string{fmt.Sprint(i + 1), feed.Name, feed.URL})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Name", "URL"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
}

func newPodcastAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a podcast feed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name, url := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			for _, feed := range cfg.Feeds {
				if feed.Name == name {
					return fmt.Errorf("feed %q already exists", name)
				}
			}
			cfg.Feeds = append(cfg.Feeds, config.Feed{Name: name, URL: url})
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := ctx.saveConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", name)
			return nil
		},
	}
}

func newPodcastRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a podcast feed by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			kept := cfg.Feeds[:0]
			for _, feed := range cfg.Feeds {
				if feed.Name != name {
					kept = append(kept, feed)
				}
			}
			if len(kept) == len(cfg.Feeds) {
				return fmt.Errorf("feed %q not found", name)
			}
			cfg.Feeds = kept
			if err := ctx.saveConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", name)
			return nil
		},
	}
}
