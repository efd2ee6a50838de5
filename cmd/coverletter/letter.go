package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/apiclient"
	"coverletter-backend/internal/letter"
	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/workspace"
)

var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Assemble, preview and export the current letter",
}

var letterAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Append library paragraphs to the letter",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLetterAdd,
}

var letterRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Take a paragraph out of the letter; the library keeps it",
	Args:  cobra.ExactArgs(1),
	RunE:  runLetterRemove,
}

var letterMoveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Move a paragraph to a 1-based position",
	Args:  cobra.ExactArgs(2),
	RunE:  runLetterMove,
}

var letterNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new letter, clearing paragraphs and job fields",
	Args:  cobra.NoArgs,
	RunE:  runLetterNew,
}

var letterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Preview the letter as text",
	Args:  cobra.NoArgs,
	RunE:  runLetterShow,
}

var letterSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Keep a named snapshot of the letter in the workspace",
	Args:  cobra.NoArgs,
	RunE:  runLetterSave,
}

var letterExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the letter to a PDF, DOCX, HTML or text file",
	Args:  cobra.NoArgs,
	RunE:  runLetterExport,
}

var (
	exportFormat string
	exportOut    string
	exportChrome string
	exportRemote bool
)

func init() {
	letterExportCmd.Flags().StringVarP(&exportFormat, "format", "f", letter.FormatPDF, "pdf, docx, html or text")
	letterExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (defaults to the generated file name)")
	letterExportCmd.Flags().StringVar(&exportChrome, "chrome", os.Getenv("CHROME_PATH"), "Chrome or Chromium binary for local PDF output")
	letterExportCmd.Flags().BoolVar(&exportRemote, "remote", false, "Render through the API instead of locally")

	letterCmd.AddCommand(letterAddCmd, letterRemoveCmd, letterMoveCmd, letterNewCmd, letterShowCmd, letterSaveCmd, letterExportCmd)
	rootCmd.AddCommand(letterCmd)
}

func runLetterAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	for _, id := range args {
		if err := ws.AddToLetter(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
	}
	return nil
}

func runLetterRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	return ws.RemoveFromLetter(ctx, args[0])
}

func runLetterMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pos, err := strconv.Atoi(args[1])
	if err != nil || pos < 1 {
		return fmt.Errorf("position must be a number from 1")
	}
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	var r workspace.Reorder = ws
	return r.Move(ctx, args[0], pos-1)
}

func runLetterNew(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	return ws.NewLetter(ctx)
}

func runLetterShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	st := ws.Snapshot()
	for i, id := range st.Letter.Paragraphs {
		r, _ := st.Response(id)
		fmt.Fprintf(out, "%d. %s  %s\n", i+1, id, parsing.Truncate(parsing.CollapseWhitespace(r.Text), 50))
	}

	rendered, err := letter.NewService(nil).Render(ctx, ws.LetterInput(), letter.FormatText)
	if errors.Is(err, letter.ErrEmptyLetter) {
		fmt.Fprintln(out, "the letter has no paragraphs; add some with 'letter add <id>'")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	_, err = out.Write(rendered.Body)
	return err
}

func runLetterSave(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, _, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	saved, err := ws.SaveLetter(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %q\n", saved.Name)
	return nil
}

func runLetterExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	in := ws.LetterInput()

	var body []byte
	if exportRemote {
		client, err := requireClient(ctx, store)
		if err != nil {
			return err
		}
		if body, err = client.RenderLetter(ctx, in, exportFormat); err != nil {
			if apiclient.IsStatus(err, http.StatusServiceUnavailable) {
				return fmt.Errorf("%w; the server cannot render %s, try --format docx, html or text", err, exportFormat)
			}
			return err
		}
	} else {
		var pdf letter.Renderer
		if exportFormat == letter.FormatPDF {
			pdf = &letter.ChromePDFRenderer{ExecPath: exportChrome}
		}
		out, err := letter.NewService(pdf).Render(ctx, in, exportFormat)
		if err != nil {
			if pdf != nil && !errors.Is(err, letter.ErrEmptyLetter) {
				return fmt.Errorf("pdf export needs Chrome (set --chrome or CHROME_PATH) or use --format docx, html or text: %w", err)
			}
			return err
		}
		body = out.Body
	}

	path := exportOut
	if path == "" {
		path = letter.FileName(in.Profile.FullName(), in.Job.RoleTitle, in.Job.CompanyName, time.Now(), exportExtension(exportFormat))
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func exportExtension(format string) string {
	if format == letter.FormatText {
		return "txt"
	}
	return format
}
