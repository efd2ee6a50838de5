package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/jobads"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Fill the job section of the current letter",
}

var jobParseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Extract role, company, contact and reference from a job ad",
	Long:  "Extract job fields from a saved ad (plain text or HTML, '-' for stdin) and merge them into the current letter. Fields already set are kept unless --overwrite is given.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobParse,
}

var jobShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the job section of the current letter",
	Args:  cobra.NoArgs,
	RunE:  runJobShow,
}

var jobSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set job fields by hand",
	Args:  cobra.NoArgs,
	RunE:  runJobSet,
}

var (
	jobSourceURL string
	jobOverwrite bool
	jobUseAI     bool
)

func init() {
	jobParseCmd.Flags().StringVar(&jobSourceURL, "source-url", "", "URL the ad was copied from; selects board-specific rules")
	jobParseCmd.Flags().BoolVar(&jobOverwrite, "overwrite", false, "Replace fields that already have a value")
	jobParseCmd.Flags().BoolVar(&jobUseAI, "ai", false, "Ask the API's AI extractor instead of the local rules")

	jobSetCmd.Flags().String("role", "", "Role title")
	jobSetCmd.Flags().String("company", "", "Company name")
	jobSetCmd.Flags().String("contact", "", "Contact person")
	jobSetCmd.Flags().String("address", "", "Business address")
	jobSetCmd.Flags().String("ref", "", "Reference number")

	jobCmd.AddCommand(jobParseCmd, jobShowCmd, jobSetCmd)
	rootCmd.AddCommand(jobCmd)
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		return string(raw), err
	}
	raw, err := os.ReadFile(path)
	return string(raw), err
}

func looksLikeHTML(path, content string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(content), "<")
}

func runJobParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	text := content
	if looksLikeHTML(args[0], content) {
		if text, err = jobads.TextFromHTML(content, jobSourceURL); err != nil {
			return err
		}
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("job ad is empty")
	}

	client, err := newClient(ctx, store)
	if err != nil {
		return err
	}
	if jobUseAI && client == nil {
		return errors.New("--ai needs --api")
	}

	var fields jobads.Fields
	parsed := false
	if client != nil {
		if jobUseAI {
			res, err := client.ExtractJob(ctx, text)
			if err == nil {
				fields = jobads.Fields{
					RoleTitle:       res.RoleTitle,
					CompanyName:     res.CompanyName,
					ContactPerson:   res.ContactPerson,
					RefNumber:       res.Reference,
					BusinessAddress: res.BusinessAddress,
				}
				parsed = true
			} else {
				warnf(cmd, "AI extraction unavailable, using local rules: %v", err)
			}
		} else {
			fields, err = client.ParseJobAd(ctx, text, jobSourceURL)
			if err == nil {
				parsed = true
			} else {
				warnf(cmd, "API parse failed, using local rules: %v", err)
			}
		}
	}
	if !parsed {
		fields = jobads.Extract(text, jobSourceURL)
	}

	changed, err := ws.ApplyJobFields(ctx, fields, jobOverwrite)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(changed) == 0 {
		fmt.Fprintln(out, "no job fields changed")
	} else {
		fmt.Fprintf(out, "job fields updated: %s\n", strings.Join(changed, ", "))
	}
	return printJSON(out, ws.Snapshot().Letter.Job)
}

func runJobShow(cmd *cobra.Command, _ []string) error {
	ws, _, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), ws.Snapshot().Letter.Job)
}

func runJobSet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	form := ws.Snapshot().Letter.Job
	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"role":    &form.RoleTitle,
		"company": &form.CompanyName,
		"contact": &form.ContactPerson,
		"address": &form.BusinessAddress,
		"ref":     &form.RefNumber,
	} {
		if flags.Changed(name) {
			val, _ := flags.GetString(name)
			*dst = strings.TrimSpace(val)
		}
	}
	if err := ws.SetJob(ctx, form); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), form)
}
