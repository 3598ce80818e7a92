package main

import (
	"github.com/spf13/cobra"
)

var listIncludeLatest bool

var listCmd = &cobra.Command{
	Use:   "list [ACRONYM]",
	Short: "List ontologies, or the submissions of one ontology",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listIncludeLatest, "latest", false, "Include each ontology's latest submission")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	manager, cleanup, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 1 {
		subs, err := manager.ListSubmissions(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(subs)
	}

	onts, err := manager.ListOntologies(ctx, listIncludeLatest)
	if err != nil {
		return err
	}
	return printJSON(onts)
}
