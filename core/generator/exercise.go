package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/txnlab/schedlab/core/analysis"
	"github.com/txnlab/schedlab/render"
)

// exerciseManifest is the machine-readable record written next to the
// rendered exercise files.
type exerciseManifest struct {
	ID       string          `json:"id"`
	Schedule string          `json:"schedule"`
	Attempts int             `json:"attempts"`
	Report   analysis.Report `json:"report"`
}

// WriteExercise writes a found schedule to dir as a set of exercise files
// named by the result's id:
//
//	<id>.sched      the schedule in textual form
//	<id>.tex        the LaTeX tabular of the schedule
//	<id>-graph.dot  the Graphviz conflict graph
//	<id>.json       manifest with the property characterization
func WriteExercise(dir string, res Result) error {
	if !res.Found {
		return fmt.Errorf("no schedule to write: search found no match in %d attempts", res.Attempts)
	}
	id := res.ID.String()

	files := map[string]string{
		id + ".sched":     res.Schedule.String() + "\n",
		id + ".tex":       render.ScheduleTable(res.Schedule),
		id + "-graph.dot": render.ConflictGraphDOT(analysis.BuildConflictGraph(res.Schedule)),
	}
	manifest, err := json.MarshalIndent(exerciseManifest{
		ID:       id,
		Schedule: res.Schedule.String(),
		Attempts: res.Attempts,
		Report:   res.Report,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	files[id+".json"] = string(manifest) + "\n"

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
