package main

import (
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change theme and page size",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

func init() {
	settingsCmd.Flags().String("theme", "", "Preview theme name")
	settingsCmd.Flags().String("page-size", "", "letter or a4")
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	set := ws.Snapshot().Settings
	flags := cmd.Flags()
	if flags.Changed("theme") || flags.Changed("page-size") {
		if flags.Changed("theme") {
			set.Theme, _ = flags.GetString("theme")
		}
		if flags.Changed("page-size") {
			set.PageSize, _ = flags.GetString("page-size")
		}
		if err := ws.SetSettings(ctx, set); err != nil {
			return err
		}
		set = ws.Snapshot().Settings
	}
	return printJSON(cmd.OutOrStdout(), set)
}
