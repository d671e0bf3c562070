package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpggio/hygrotrack/internal/repository"
)

func newAPIKeyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage bearer tokens for the HTTP API",
	}
	cmd.AddCommand(newAPIKeyAddCmd(opts))
	return cmd
}

func newAPIKeyAddCmd(opts *options) *cobra.Command {
	var token, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Issue a bearer token for --tenant",
		Long:  "Stores the hash of a bearer token for the tenant. A random token is generated unless --token is given; it is printed once.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			if token == "" {
				token = uuid.NewString()
			}
			if err := s.apiKeys.Add(cmd.Context(), token, opts.tenantID, description); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return fmt.Errorf("token already registered")
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tenant %s token %s\n", opts.tenantID, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token to register (random when empty)")
	cmd.Flags().StringVar(&description, "description", "", "note stored with the key")
	return cmd
}
