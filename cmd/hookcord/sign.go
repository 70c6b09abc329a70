package main

import (
	"fmt"
	"io"
	"os"

	"github.com/TheLazyLemur/hookcord/internal/relay"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func signCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "sign [file]",
		Short: "Print the X-Hub-Signature-256 value for a payload",
		Long:  "Reads the payload from file, or stdin when no file is given, and prints its sha256= signature.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("GITHUB_WEBHOOK_SECRET")
			}
			if secret == "" {
				return errors.New("secret required: pass --secret or set GITHUB_WEBHOOK_SECRET")
			}

			var (
				body []byte
				err  error
			)
			if len(args) == 1 {
				body, err = os.ReadFile(args[0])
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return errors.Wrap(err, "reading payload")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), relay.Sign(body, secret))
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "webhook secret (defaults to GITHUB_WEBHOOK_SECRET)")
	return cmd
}
