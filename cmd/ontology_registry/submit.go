package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martin/ontology-registry/internal/types"
)

var (
	submitFile         string
	submitFormat       string
	submitPullLocation string
	submitDescription  string
	submitVersion      string
)

var submitCmd = &cobra.Command{
	Use:   "submit ACRONYM",
	Short: "Create a new submission for an existing ontology",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitFile, "file", "", "Path to the ontology document to stage")
	submitCmd.Flags().StringVar(&submitFormat, "format", "", "Ontology format (OWL, OBO, SKOS, UMLS, PROTEGE)")
	submitCmd.Flags().StringVar(&submitPullLocation, "pull-location", "", "URL the document can be pulled from")
	submitCmd.Flags().StringVar(&submitDescription, "description", "", "Submission description")
	submitCmd.Flags().StringVar(&submitVersion, "version", "", "Submission version label")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	manager, cleanup, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	req := types.CreateSubmissionRequest{
		Description:         submitDescription,
		Version:             submitVersion,
		PullLocation:        submitPullLocation,
		HasOntologyLanguage: submitFormat,
	}
	if submitFile != "" {
		f, err := os.Open(submitFile)
		if err != nil {
			return fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		req.File = &types.UploadedFile{Filename: submitFile, Content: f}
	}

	sub, err := manager.CreateSubmission(ctx, args[0], req)
	if err != nil {
		return err
	}
	return printJSON(sub)
}
