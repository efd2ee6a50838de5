package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/shared/storage/kv"
)

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in to the API and save the session in the workspace",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <password>",
	Short: "Create an API account and save the session in the workspace",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the saved session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	client, err := requireClient(ctx, store)
	if err != nil {
		return err
	}

	call := client.Login
	if cmd.Name() == "register" {
		call = client.Register
	}
	res, err := call(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := kv.PutJSON(ctx, store, sessionKey, session{Token: res.Token, Username: res.User.Username}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", res.User.Username)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, store, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	client, err := requireClient(ctx, store)
	if err != nil {
		return err
	}
	if err := client.Logout(ctx); err != nil {
		warnf(cmd, "logout request failed: %v", err)
	}
	return store.Delete(ctx, sessionKey)
}
