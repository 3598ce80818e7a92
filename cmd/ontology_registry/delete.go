package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete ACRONYM [SUBMISSION_ID]",
	Short: "Delete an ontology (with all its submissions) or one submission",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	manager, cleanup, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 2 {
		submissionID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid submission id %q: %w", args[1], err)
		}
		if err := manager.DeleteSubmission(ctx, args[0], submissionID); err != nil {
			return err
		}
		fmt.Printf("Deleted submission %s/%d\n", args[0], submissionID)
		return nil
	}

	if err := manager.DeleteOntology(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted ontology %s and all its submissions\n", args[0])
	return nil
}
