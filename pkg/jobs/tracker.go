// Package jobs resolves the state of asynchronous deep-analysis jobs. There
// is no job API: the only evidence is two static artifacts the producer
// maintains, a per-job markdown file written on completion and a shared
// registry of in-flight job ids. Each poll re-derives the state from scratch
// with a fixed precedence, and every fetch failure is treated as "no
// evidence from this source" rather than an error, so the tracker always
// lands on one of the three states and never raises.
package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/dailyview/internal/source"
	"github.com/vanderheijden86/dailyview/pkg/debug"
)

// State is the derived deep-analysis state of one job.
type State int

const (
	// Pending means neither artifact nor registry has evidence of the job.
	Pending State = iota
	// Processing means the registry lists the job as in flight.
	Processing
	// Completed means the artifact exists. Terminal in the idealized
	// lifecycle, though a non-atomic producer update can make a later poll
	// transiently observe an earlier state.
	Completed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	default:
		return "pending"
	}
}

// Status is the result of one poll.
type Status struct {
	JobID string
	State State
	// Artifact is the completed job's markdown, set only when State is
	// Completed.
	Artifact string
}

// Artifact locations within the data tree.
const (
	artifactDir  = "data/analysis/deep"
	registryPath = "data/analysis/deep_analysis_status.json"
)

// registry mirrors deep_analysis_status.json.
type registry struct {
	ProcessingIDs []string `json:"processing_ids"`
}

// Tracker polls job state from a Source.
type Tracker struct {
	src source.Source
	now func() time.Time
}

// New creates a Tracker over src.
func New(src source.Source) *Tracker {
	return &Tracker{src: src, now: time.Now}
}

// Poll derives the current state of jobID. Precedence, first match wins:
//
//  1. The completed artifact exists: Completed, with its content. This
//     check is authoritative and short-circuits the registry.
//  2. The registry lists jobID: Processing.
//  3. Otherwise: Pending.
//
// Fetch failures at any step fall through to the next; Poll never returns
// an error.
func (t *Tracker) Poll(ctx context.Context, jobID string) Status {
	if artifact, ok := t.fetchArtifact(ctx, jobID); ok {
		return Status{JobID: jobID, State: Completed, Artifact: artifact}
	}

	if t.inRegistry(ctx, jobID) {
		return Status{JobID: jobID, State: Processing}
	}

	return Status{JobID: jobID, State: Pending}
}

func (t *Tracker) fetchArtifact(ctx context.Context, jobID string) (string, bool) {
	body, err := t.src.Fetch(ctx, artifactDir+"/"+jobID+".md")
	if err != nil {
		// Absent or unreachable: either way, no evidence of completion.
		debug.Log("jobs: no artifact for %s: %v", jobID, err)
		return "", false
	}
	return string(body), true
}

func (t *Tracker) inRegistry(ctx context.Context, jobID string) bool {
	// The cache-busting parameter keeps an intermediary HTTP cache from
	// serving a registry snapshot older than the artifact check above.
	bust := strconv.FormatInt(t.now().UnixMilli(), 10)
	body, err := t.src.Fetch(ctx, fmt.Sprintf("%s?t=%s", registryPath, bust))
	if err != nil {
		debug.Log("jobs: registry unavailable: %v", err)
		return false
	}

	var reg registry
	if err := json.Unmarshal(body, &reg); err != nil {
		debug.Log("jobs: registry malformed: %v", err)
		return false
	}
	for _, id := range reg.ProcessingIDs {
		if id == jobID {
			return true
		}
	}
	return false
}
