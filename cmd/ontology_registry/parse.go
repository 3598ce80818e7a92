package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var parseWait bool

var parseCmd = &cobra.Command{
	Use:   "parse ACRONYM SUBMISSION_ID",
	Short: "Trigger the asynchronous parse of a submission",
	Long:  "Schedules the parse as a background job and returns immediately; the submission status reports completion. With --wait, blocks until the job settles.",
	Args:  cobra.ExactArgs(2),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseWait, "wait", false, "Block until the parse job settles")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	submissionID, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid submission id %q: %w", args[1], err)
	}

	ctx := cmd.Context()
	manager, cleanup, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	job, err := manager.TriggerParse(ctx, args[0], submissionID)
	if err != nil {
		return err
	}

	fmt.Printf("Parse triggered as background job %s (log: %s). Submission status will tell when it is completed.\n", job.ID, job.LogPath)
	if parseWait {
		job.Wait()
		sub, err := manager.GetSubmission(ctx, args[0], submissionID)
		if err != nil {
			return err
		}
		return printJSON(sub)
	}
	return nil
}
