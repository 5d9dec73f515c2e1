package hierarchy

import (
	"strings"

	"github.com/CePeU/foundrysync/internal/foundry"
)

// syntheticRootID identifies the synthetic root entry prepended to every walk.
const syntheticRootID = "root"

// WalkStep is one recorded step of a walk from a folder up to the root.
type WalkStep struct {
	ID          string
	Name        string
	Depth       int
	ParentID    string
	PrevChildID string // id of the node the walk arrived from, if any
}

// WalkToRoot walks from the given folder up through parent references,
// recording each step, then reverses the order and prepends a synthetic root
// entry. A dangling parent reference terminates the walk at that point without
// raising an error.
func WalkToRoot(byID map[string]foundry.Folder, id string) []WalkStep {
	var upward []WalkStep

	prevChild := ""
	for id != foundry.RootFolderID {
		f, ok := byID[id]
		if !ok {
			// Dangling parent reference: the chain ends here.
			break
		}
		upward = append(upward, WalkStep{
			ID:          f.ID,
			Name:        f.Name,
			ParentID:    f.ParentID,
			PrevChildID: prevChild,
		})
		prevChild = f.ID
		id = f.ParentID
	}

	steps := make([]WalkStep, 0, len(upward)+1)
	steps = append(steps, WalkStep{ID: syntheticRootID, Depth: 0})
	for i := len(upward) - 1; i >= 0; i-- {
		step := upward[i]
		step.Depth = len(steps)
		steps = append(steps, step)
	}

	return steps
}

// JoinWalk concatenates the node names of a walk into a full path. The
// synthetic root contributes no path segment.
func JoinWalk(steps []WalkStep) string {
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		if step.ID == syntheticRootID {
			continue
		}
		names = append(names, step.Name)
	}
	return strings.Join(names, pathSeparator)
}
