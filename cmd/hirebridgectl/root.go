package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/hirebridge-backend/internal/app"
	"github.com/yungbote/hirebridge-backend/internal/data/db"
	"github.com/yungbote/hirebridge-backend/internal/platform/envutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hirebridgectl",
		Short:         "Operational commands for the hirebridge backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newReplicateCmd(), newVersionCmd())
	return root
}

func newLogger() (*logger.Logger, error) {
	return logger.New(envutil.String("LOG_MODE", "development"))
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			pg, err := db.NewPostgresService(log)
			if err != nil {
				return fmt.Errorf("init postgres: %w", err)
			}
			defer pg.Close()
			if err := pg.AutoMigrateAll(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newReplicateCmd() *cobra.Command {
	var req services.ReplicationRequest
	cmd := &cobra.Command{
		Use:   "replicate",
		Short: "Copy a resume into a job's replica area",
		Example: `  hirebridgectl replicate --resume-url https://cdn.example.com/resumes/u1/cv.pdf \
    --candidate-name "Jane Doe" --job-id 7f1c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			replicator, closeFn, err := app.NewReplicator(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer closeFn()

			out := services.ReplicationResponse{Success: true}
			storedPath, err := replicator.Replicate(cmd.Context(), req)
			if err != nil {
				out = services.ReplicationResponse{Error: err.Error(), Code: services.ErrorCode(err)}
			} else {
				out.StoredPath = storedPath
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(out); encErr != nil {
				return encErr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&req.ResumeURL, "resume-url", "", "public URL of the source resume")
	cmd.Flags().StringVar(&req.CandidateName, "candidate-name", "", "candidate display name")
	cmd.Flags().StringVar(&req.JobID, "job-id", "", "job posting id")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
