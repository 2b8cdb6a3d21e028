package main

import (
	"log/slog"

	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/spf13/cobra"
)

func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.persister.Close()

	c := console.New(a.store, a.persister, cmd.InOrStdin(), cmd.OutOrStdout(), a.log)
	c.Load()
	if err := c.Run(); err != nil {
		return err
	}

	a.log.Debug("session ended", slog.Int("students", a.store.Len()))
	return nil
}
