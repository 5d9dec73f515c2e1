package cmd

import (
	"fmt"
	"sort"

	"github.com/CePeU/foundrysync/internal/hierarchy"
)

// displayStatus prints a summary of the remote corpus.
//
//nolint:forbidigo // CLI user output function
func displayStatus(ix *hierarchy.Index) {
	unresolved := 0
	provenanced := 0
	for _, page := range ix.PagesByID {
		if page.Provenance == nil {
			continue
		}
		provenanced++
		unresolved += page.Provenance.UnresolvedLinks
	}

	fmt.Printf("Folders:  %d\n", len(ix.FoldersByID))
	fmt.Printf("Journals: %d\n", len(ix.JournalsByID))
	fmt.Printf("Pages:    %d (%d synchronized)\n", len(ix.PagesByID), provenanced)
	fmt.Printf("Unresolved links: %d\n", unresolved)

	if len(ix.JournalsByPath) == 0 {
		return
	}

	fmt.Println()
	paths := make([]string, 0, len(ix.JournalsByPath))
	for p := range ix.JournalsByPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		j := ix.JournalsByPath[p]
		fmt.Printf("  %s (%d pages)\n", p, len(j.Pages))
	}
}
