package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CePeU/foundrysync/internal/foundry"
)

// placeholderName substitutes an empty path segment produced by consecutive
// separators in a destination path.
const placeholderName = "Unnamed"

// FolderCreator creates a folder under the given parent on the remote store
// and returns its new id.
type FolderCreator func(ctx context.Context, name, parentID string) (string, error)

// EnsureFolderPath finds the longest already-indexed prefix of the
// slash-delimited destination path and creates only the missing suffix
// segments, chaining parent ids. It returns the id of the deepest folder
// reached or created, or the root sentinel when no path was supplied.
//
// Folder names are passed to the remote create call as given; no validation
// or canonicalization happens here. Newly created folders are registered in
// the index once the chain is complete, so later lookups within the same
// session see them.
func (ix *Index) EnsureFolderPath(ctx context.Context, path string, create FolderCreator) (string, error) {
	if path == "" {
		return foundry.RootFolderID, nil
	}

	segments := strings.Split(path, pathSeparator)
	for i, seg := range segments {
		if seg == "" {
			segments[i] = placeholderName
		}
	}

	// Longest already-indexed prefix.
	lastExisting := -1
	parentID := foundry.RootFolderID
	currentPath := ""
	for i, seg := range segments {
		if currentPath == "" {
			currentPath = seg
		} else {
			currentPath = currentPath + pathSeparator + seg
		}
		node, ok := ix.FoldersByPath[currentPath]
		if !ok {
			break
		}
		lastExisting = i
		parentID = node.ID
	}

	if lastExisting == len(segments)-1 {
		return parentID, nil
	}

	// Create the missing suffix, chaining parent ids.
	var created []*FolderNode
	currentPath = strings.Join(segments[:lastExisting+1], pathSeparator)
	depth := lastExisting + 1
	for _, seg := range segments[lastExisting+1:] {
		newID, err := create(ctx, seg, parentID)
		if err != nil {
			return "", fmt.Errorf("create folder %s: %w", seg, err)
		}
		if currentPath == "" {
			currentPath = seg
		} else {
			currentPath = currentPath + pathSeparator + seg
		}
		slog.Default().Debug("folder created", "name", seg, "id", newID, "path", currentPath)
		created = append(created, &FolderNode{
			ID:       newID,
			Name:     seg,
			ParentID: parentID,
			Depth:    depth + 1,
			FullPath: currentPath,
		})
		parentID = newID
		depth++
	}

	for _, node := range created {
		ix.AddFolder(node)
	}

	return parentID, nil
}
