package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoStow/internal/config"
	"github.com/piwi3910/CargoStow/internal/project"
	"github.com/piwi3910/CargoStow/internal/queue"
)

// newEnqueueCmd creates the command that submits a request file as a job.
func newEnqueueCmd() *cobra.Command {
	var requestFile string

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Submit a placement request to the job queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := project.LoadRequest(requestFile)
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}

			client, err := queue.NewClient(cmd.Context(), cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return err
			}
			defer client.Close()

			job, err := client.Enqueue(cmd.Context(), req)
			if err != nil {
				return err
			}

			printSuccess(fmt.Sprintf("job %s enqueued (%d items, %d containers)",
				job.ID, len(req.Items), len(req.Containers)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&requestFile, "request", "f", "", "placement request JSON file (required)")
	cmd.MarkFlagRequired("request")

	return cmd
}

// newStatusCmd creates the command that shows a job's state and result.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the status and result of a queued job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}

			client, err := queue.NewClient(cmd.Context(), cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return err
			}
			defer client.Close()

			job, err := client.Job(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printInfo(fmt.Sprintf("job %s: %s (updated %s)", job.ID, job.Status,
				job.UpdatedAt.Format("2006-01-02 15:04:05")))
			if job.Error != "" {
				printWarning(job.Error)
			}
			if job.Result != nil {
				printInfo(fmt.Sprintf("placements: %d, rearrangements: %d, failed: %d",
					len(job.Result.Placements), len(job.Result.Rearrangements), len(job.Result.FailedItemIDs)))
			}
			return nil
		},
	}
}
