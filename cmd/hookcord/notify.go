package main

import (
	"strings"

	"github.com/TheLazyLemur/hookcord/internal/app"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify <message>",
		Short: "Send a message through the configured Discord destination",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notifier, err := app.NewNotifier(cfg)
			if err != nil {
				return err
			}
			if err := notifier.Notify(cmd.Context(), strings.Join(args, " ")); err != nil {
				return errors.Wrap(err, "sending message")
			}
			return nil
		},
	}
}
