package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/responses"
)

var responsesCmd = &cobra.Command{
	Use:     "responses",
	Aliases: []string{"library"},
	Short:   "Manage the paragraph library",
}

var responsesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library paragraphs",
	Args:  cobra.NoArgs,
	RunE:  runResponsesList,
}

var responsesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a paragraph of your own",
	Args:  cobra.ExactArgs(1),
	RunE:  runResponsesAdd,
}

var responsesEditCmd = &cobra.Command{
	Use:   "edit <id> <text>",
	Short: "Replace the text (and tags, with --tag) of a paragraph",
	Args:  cobra.ExactArgs(2),
	RunE:  runResponsesEdit,
}

var responsesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a paragraph",
	Args:  cobra.ExactArgs(1),
	RunE:  runResponsesDelete,
}

var (
	responsesCategory string
	responsesTags     []string
	responsesJSON     bool
)

func init() {
	responsesListCmd.Flags().StringVar(&responsesCategory, "category", "", "Only list user, crowd or ai paragraphs")
	responsesListCmd.Flags().BoolVar(&responsesJSON, "json", false, "Print full JSON")
	responsesAddCmd.Flags().StringSliceVar(&responsesTags, "tag", nil, "Tag (repeatable)")
	responsesEditCmd.Flags().StringSliceVar(&responsesTags, "tag", nil, "Tag (repeatable); replaces existing tags")

	responsesCmd.AddCommand(responsesListCmd, responsesAddCmd, responsesEditCmd, responsesDeleteCmd)
	rootCmd.AddCommand(responsesCmd)
}

func runResponsesList(cmd *cobra.Command, _ []string) error {
	ws, _, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	var category responses.Category
	if responsesCategory != "" {
		c, ok := responses.ParseCategory(responsesCategory)
		if !ok {
			return fmt.Errorf("category must be one of user, crowd, ai")
		}
		category = c
	}

	var list []responses.Response
	for _, r := range ws.Snapshot().Responses {
		if category == "" || r.Category == category {
			list = append(list, r)
		}
	}
	if responsesJSON {
		return printJSON(cmd.OutOrStdout(), list)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTAGS\tTEXT")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Category, strings.Join(r.Tags, ","), parsing.Truncate(parsing.CollapseWhitespace(r.Text), 60))
	}
	return tw.Flush()
}

func runResponsesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	r, err := ws.AddResponse(ctx, args[0], responsesTags)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.ID)
	return nil
}

func runResponsesEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	var tags []string
	if cmd.Flags().Changed("tag") {
		tags = responsesTags
		if tags == nil {
			tags = []string{}
		}
	}
	return ws.EditResponse(ctx, args[0], args[1], tags)
}

func runResponsesDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	return ws.DeleteResponse(ctx, args[0])
}
