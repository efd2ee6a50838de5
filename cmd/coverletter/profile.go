package main

import (
	"strings"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the sender details",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields; unspecified fields keep their value",
	Args:  cobra.NoArgs,
	RunE:  runProfileSet,
}

func init() {
	flags := profileSetCmd.Flags()
	flags.String("first-name", "", "First name")
	flags.String("last-name", "", "Last name")
	flags.String("address1", "", "Address line 1")
	flags.String("address2", "", "Address line 2")
	flags.String("phone", "", "Phone number")
	flags.String("email", "", "Email address")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	ws, _, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), ws.Snapshot().Profile)
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	p := ws.Snapshot().Profile
	applyProfileFlags(cmd, &p)
	if err := ws.SaveProfile(ctx, p); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), p)
}

func applyProfileFlags(cmd *cobra.Command, p *profile.Profile) {
	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"first-name": &p.FirstName,
		"last-name":  &p.LastName,
		"address1":   &p.AddressLine1,
		"address2":   &p.AddressLine2,
		"phone":      &p.PhoneNumber,
		"email":      &p.EmailAddress,
	} {
		if flags.Changed(name) {
			val, _ := flags.GetString(name)
			*dst = strings.TrimSpace(val)
		}
	}
}
