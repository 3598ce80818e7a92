package parsejob

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"

	"github.com/martin/ontology-registry/internal/types"
)

// ExecParser invokes an external parser program for each run. The submission
// is handed over through the environment; the program's combined output goes
// to the run log. A non-zero exit is a parse failure. The program is
// responsible for recording its own terminal success status.
type ExecParser struct {
	// Command is the parser executable.
	Command string
	// Args are passed before the generated environment is applied.
	Args []string
}

// Process runs the external parser for one submission.
func (p *ExecParser) Process(ctx context.Context, sub *types.OntologySubmission, logger *log.Logger) error {
	if p.Command == "" {
		return fmt.Errorf("no parser command configured")
	}
	if _, err := exec.LookPath(p.Command); err != nil {
		return fmt.Errorf("parser command %q not found in PATH: %w", p.Command, err)
	}

	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Env = append(os.Environ(),
		"ONTOLOGY_ACRONYM="+sub.Acronym,
		"SUBMISSION_ID="+strconv.Itoa(sub.SubmissionID),
		"UPLOAD_FILE_PATH="+sub.UploadFilePath,
		"PULL_LOCATION="+sub.PullLocation,
		"ONTOLOGY_FORMAT="+sub.HasOntologyLanguage,
	)
	cmd.Stdout = logger.Writer()
	cmd.Stderr = logger.Writer()

	logger.Printf("running parser %s for %s/%d", p.Command, sub.Acronym, sub.SubmissionID)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("parser %s failed: %w", p.Command, err)
	}
	return nil
}
