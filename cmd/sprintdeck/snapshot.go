package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/sprintdeck/internal/config"
	"github.com/zulandar/sprintdeck/internal/db"
	"github.com/zulandar/sprintdeck/internal/sprint"
	"github.com/zulandar/sprintdeck/internal/tracker"
)

func newSnapshotCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record one burnup snapshot of the active sprint",
		Long:  "Fetches the active sprint's tasks from the tracker and upserts today's burnup snapshot. Intended for external schedulers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			gormDB, err := db.Connect(cfg.Database)
			if err != nil {
				return err
			}

			store := sprint.NewStore(gormDB)
			recorder := sprint.NewRecorder(store, tracker.New(cfg.ClickUp), nil, "")
			if err := recorder.RecordOnce(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot recorded.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sprintdeck.yaml", "path to config file")
	return cmd
}
