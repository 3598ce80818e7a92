package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/martin/ontology-registry/internal/types"
)

var (
	updateName           string
	updateAdministeredBy string
	updateStatus         string
	updateParseError     string
	updatePullLocation   string
	updateFormat         string
	updateDescription    string
	updateVersion        string
)

var updateCmd = &cobra.Command{
	Use:   "update ACRONYM [SUBMISSION_ID]",
	Short: "Patch an ontology or one of its submissions",
	Long:  "Applies a partial update: only flags that were set are merged onto the stored record, which is then re-validated and persisted.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "Ontology name")
	updateCmd.Flags().StringVar(&updateAdministeredBy, "administered-by", "", "Administrator")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "Submission status")
	updateCmd.Flags().StringVar(&updateParseError, "parse-error", "", "Parse error text")
	updateCmd.Flags().StringVar(&updatePullLocation, "pull-location", "", "URL the document can be pulled from")
	updateCmd.Flags().StringVar(&updateFormat, "format", "", "Ontology format")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "Submission description")
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "Submission version label")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	manager, cleanup, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	// Only flags the caller set become part of the patch.
	set := func(name string, value *string) *string {
		if cmd.Flags().Changed(name) {
			return value
		}
		return nil
	}

	if len(args) == 1 {
		patch := types.OntologyPatch{
			Name:           set("name", &updateName),
			AdministeredBy: set("administered-by", &updateAdministeredBy),
		}
		ont, err := manager.UpdateOntology(ctx, args[0], patch)
		if err != nil {
			return err
		}
		return printJSON(ont)
	}

	submissionID, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid submission id %q: %w", args[1], err)
	}
	patch := types.SubmissionPatch{
		SubmissionStatus:    set("status", &updateStatus),
		ParseError:          set("parse-error", &updateParseError),
		PullLocation:        set("pull-location", &updatePullLocation),
		HasOntologyLanguage: set("format", &updateFormat),
		Description:         set("description", &updateDescription),
		Version:             set("version", &updateVersion),
	}
	sub, err := manager.UpdateSubmission(ctx, args[0], submissionID, patch)
	if err != nil {
		return err
	}
	return printJSON(sub)
}
