package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/responses"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Exchange the paragraph library with the API",
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local library with the server's copy",
	Args:  cobra.NoArgs,
	RunE:  runSyncPull,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Create or update server paragraphs from the local library",
	Args:  cobra.NoArgs,
	RunE:  runSyncPush,
}

func init() {
	syncCmd.AddCommand(syncPullCmd, syncPushCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSyncPull(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	client, err := requireClient(ctx, store)
	if err != nil {
		return err
	}
	remote, err := client.ListResponses(ctx)
	if err != nil {
		return fmt.Errorf("pull failed, local library unchanged: %w", err)
	}
	if len(remote) == 0 {
		warnf(cmd, "server library is empty; local library kept (run 'sync push' to upload it)")
		return nil
	}
	if err := ws.ReplaceResponses(ctx, remote); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pulled %d paragraphs\n", len(remote))
	return nil
}

func runSyncPush(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ws, store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	client, err := requireClient(ctx, store)
	if err != nil {
		return err
	}
	remote, err := client.ListResponses(ctx)
	if err != nil {
		return fmt.Errorf("push failed, nothing sent: %w", err)
	}
	byID := make(map[string]responses.Response, len(remote))
	for _, r := range remote {
		byID[r.ID] = r
	}

	created, updated, failed := 0, 0, 0
	for _, local := range ws.Snapshot().Responses {
		existing, ok := byID[local.ID]
		switch {
		case !ok:
			_, err = client.CreateResponse(ctx, local)
			if err == nil {
				created++
			}
		case existing.Text != local.Text || !slices.Equal(existing.Tags, local.Tags):
			text := local.Text
			tags := local.Tags
			if tags == nil {
				tags = []string{}
			}
			_, err = client.UpdateResponse(ctx, local.ID, responses.Patch{Text: &text, Tags: tags})
			if err == nil {
				updated++
			}
		default:
			continue
		}
		if err != nil {
			failed++
			warnf(cmd, "%s: %v", local.ID, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pushed: %d created, %d updated, %d failed\n", created, updated, failed)
	if failed > 0 {
		return fmt.Errorf("%d paragraphs were not pushed", failed)
	}
	return nil
}
