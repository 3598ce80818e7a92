package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martin/ontology-registry/internal/types"
)

var (
	createName           string
	createAdministeredBy string
	createFile           string
	createFormat         string
	createPullLocation   string
	createDescription    string
	createVersion        string
)

var createCmd = &cobra.Command{
	Use:   "create ACRONYM",
	Short: "Create an ontology with its first submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Ontology name (required)")
	createCmd.Flags().StringVar(&createAdministeredBy, "administered-by", "", "Administrator")
	createCmd.Flags().StringVar(&createFile, "file", "", "Path to the ontology document to stage")
	createCmd.Flags().StringVar(&createFormat, "format", "", "Ontology format (OWL, OBO, SKOS, UMLS, PROTEGE)")
	createCmd.Flags().StringVar(&createPullLocation, "pull-location", "", "URL the document can be pulled from")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Submission description")
	createCmd.Flags().StringVar(&createVersion, "version", "", "Submission version label")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	manager, cleanup, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	req := types.CreateOntologyRequest{
		Acronym:        args[0],
		Name:           createName,
		AdministeredBy: createAdministeredBy,
		Submission: types.CreateSubmissionRequest{
			Description:         createDescription,
			Version:             createVersion,
			PullLocation:        createPullLocation,
			HasOntologyLanguage: createFormat,
		},
	}

	if createFile != "" {
		f, err := os.Open(createFile)
		if err != nil {
			return fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		req.Submission.File = &types.UploadedFile{Filename: createFile, Content: f}
	}

	ont, sub, err := manager.CreateOntology(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"ontology": ont, "submission": sub})
}

// printJSON renders a result on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
