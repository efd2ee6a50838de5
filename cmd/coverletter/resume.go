package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/resumes"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Upload or remove the résumé used to suggest paragraphs",
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Parse a PDF, DOCX or text résumé",
	Long:  "Parse a résumé, fill empty profile fields and replace the résumé-based suggestions. The file is sent to the API when one is configured and parsed locally otherwise or when the API is unreachable.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeUpload,
}

var resumeRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Forget the résumé and its suggested paragraphs",
	Args:  cobra.NoArgs,
	RunE:  runResumeRemove,
}

var (
	resumeVocabulary   string
	resumeParseTimeout time.Duration
	resumeMaxPages     int
)

func init() {
	resumeUploadCmd.Flags().StringVar(&resumeVocabulary, "vocabulary", os.Getenv("VOCABULARY_FILE"), "YAML file with extra keyword vocabulary")
	resumeUploadCmd.Flags().DurationVar(&resumeParseTimeout, "parse-timeout", extract.DefaultTimeout, "Deadline for local text extraction")
	resumeUploadCmd.Flags().IntVar(&resumeMaxPages, "max-pages", extract.DefaultMaxPages, "Maximum PDF pages to read")

	resumeCmd.AddCommand(resumeUploadCmd, resumeRemoveCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runResumeUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > resumes.DefaultMaxBytes {
		return fmt.Errorf("%w: %s is %d bytes", extract.ErrTooLarge, path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)

	var result resumes.UploadResult
	client, err := newClient(ctx, store)
	if err != nil {
		return err
	}
	parsed := false
	if client != nil {
		result, err = client.UploadResume(ctx, name, data)
		if err == nil {
			parsed = true
		} else {
			warnf(cmd, "upload failed, parsing locally: %v", err)
		}
	}
	if !parsed {
		result, err = parseResumeLocally(ctx, name, data)
		if err != nil {
			return describeParseError(err)
		}
	}

	filled, err := ws.ApplyResume(ctx, result.Resume, result.PersonalDetails, result.Suggestions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "parsed %s: %d keywords, %d suggested paragraphs\n", name, len(result.Resume.Keywords), len(result.Suggestions))
	if len(filled) > 0 {
		fmt.Fprintf(out, "profile fields filled: %s\n", strings.Join(filled, ", "))
	}
	return nil
}

func parseResumeLocally(ctx context.Context, name string, data []byte) (resumes.UploadResult, error) {
	svc := resumes.NewService(resumes.NewMemoryRepo(), extract.New(extract.Options{
		MaxPages: resumeMaxPages,
		Timeout:  resumeParseTimeout,
	}), nil)
	if resumeVocabulary != "" {
		vocab, err := parsing.LoadVocabularyFile(resumeVocabulary)
		if err != nil {
			return resumes.UploadResult{}, err
		}
		svc.Keywords = parsing.NewKeywordExtractor(vocab)
	}
	return svc.Upload(ctx, "local", name, "", int64(len(data)), bytes.NewReader(data))
}

func describeParseError(err error) error {
	switch {
	case errors.Is(err, extract.ErrTooLarge):
		return fmt.Errorf("%w: the limit is 10MB", err)
	case errors.Is(err, extract.ErrUnsupportedType):
		return fmt.Errorf("%w: use a PDF, DOCX or plain text file", err)
	case errors.Is(err, extract.ErrTimeout):
		return fmt.Errorf("%w: try a shorter file or raise --parse-timeout", err)
	case errors.Is(err, extract.ErrParse):
		return fmt.Errorf("%w: the file may be scanned or image-only; save it as text and retry", err)
	}
	return err
}

func runResumeRemove(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	client, err := newClient(ctx, store)
	if err != nil {
		return err
	}
	if client != nil {
		if err := client.RemoveResume(ctx); err != nil {
			warnf(cmd, "remote résumé not removed: %v", err)
		}
	}
	if err := ws.RemoveResume(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "résumé removed")
	return nil
}
