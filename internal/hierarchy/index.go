// Package hierarchy indexes the remote folder/journal/page tree and reconciles
// desired destination paths against it.
package hierarchy

import (
	"github.com/CePeU/foundrysync/internal/foundry"
)

// Composite path key separators. These are a persisted format shared with any
// existing remote corpus: journals are keyed "folder/.../journal" and pages
// "folder/.../journal.page".
const (
	pathSeparator = "/"
	pageSeparator = "."
)

// FolderNode is an indexed folder with its computed full path.
type FolderNode struct {
	ID       string
	Name     string
	ParentID string
	Depth    int
	FullPath string
}

// JournalNode is an indexed journal entry with its computed full path.
type JournalNode struct {
	ID       string
	Name     string
	FolderID string
	FullPath string
	Pages    []*PageNode
}

// PageNode is an indexed journal page with its computed full path and the
// provenance metadata recorded on the remote page, if any.
type PageNode struct {
	ID         string
	Name       string
	JournalID  string
	FullPath   string
	Provenance *foundry.Provenance
}

// Index holds by-id and by-full-path lookups for every entity kind. It is
// session-scoped: built once from a full remote snapshot, mutated in place as
// entities are created during the session, and discarded at session end.
type Index struct {
	FoldersByID    map[string]*FolderNode
	FoldersByPath  map[string]*FolderNode
	JournalsByID   map[string]*JournalNode
	JournalsByPath map[string]*JournalNode
	PagesByID      map[string]*PageNode
	PagesByPath    map[string]*PageNode
}

// NewIndex returns an index with all maps initialized, so existence checks on
// an empty remote snapshot never hit a nil map.
func NewIndex() *Index {
	return &Index{
		FoldersByID:    make(map[string]*FolderNode),
		FoldersByPath:  make(map[string]*FolderNode),
		JournalsByID:   make(map[string]*JournalNode),
		JournalsByPath: make(map[string]*JournalNode),
		PagesByID:      make(map[string]*PageNode),
		PagesByPath:    make(map[string]*PageNode),
	}
}

// BuildIndex turns a flat remote snapshot into the session index.
func BuildIndex(folders []foundry.Folder, journals []foundry.JournalEntry) *Index {
	ix := NewIndex()

	byID := make(map[string]foundry.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	for _, f := range folders {
		walk := WalkToRoot(byID, f.ID)
		node := &FolderNode{
			ID:       f.ID,
			Name:     f.Name,
			ParentID: f.ParentID,
			Depth:    len(walk) - 1, // synthetic root is depth 0
			FullPath: JoinWalk(walk),
		}
		ix.AddFolder(node)
	}

	for i := range journals {
		j := &journals[i]
		ix.indexJournal(j)
	}

	return ix
}

// indexJournal adds a journal and its pages to the index, computing full paths
// from the already-indexed folder the journal lives in.
func (ix *Index) indexJournal(j *foundry.JournalEntry) {
	folderPath := ""
	if folder, ok := ix.FoldersByID[j.FolderID]; ok {
		folderPath = folder.FullPath
	}

	node := &JournalNode{
		ID:       j.ID,
		Name:     j.Name,
		FolderID: j.FolderID,
		FullPath: JoinJournalPath(folderPath, j.Name),
	}

	for i := range j.Pages {
		p := &j.Pages[i]
		page := &PageNode{
			ID:         p.ID,
			Name:       p.Name,
			JournalID:  j.ID,
			FullPath:   node.FullPath + pageSeparator + p.Name,
			Provenance: p.Flags.Foundrysync,
		}
		node.Pages = append(node.Pages, page)
		ix.AddPage(page)
	}

	ix.AddJournal(node)
}

// AddFolder registers a folder under both lookup keys.
func (ix *Index) AddFolder(node *FolderNode) {
	ix.FoldersByID[node.ID] = node
	ix.FoldersByPath[node.FullPath] = node
}

// AddJournal registers a journal under both lookup keys.
func (ix *Index) AddJournal(node *JournalNode) {
	ix.JournalsByID[node.ID] = node
	ix.JournalsByPath[node.FullPath] = node
}

// AddPage registers a page under both lookup keys.
func (ix *Index) AddPage(node *PageNode) {
	ix.PagesByID[node.ID] = node
	ix.PagesByPath[node.FullPath] = node
}

// JoinJournalPath builds the composite path key of a journal.
func JoinJournalPath(folderPath, journalName string) string {
	if folderPath == "" {
		return journalName
	}
	return folderPath + pathSeparator + journalName
}

// JoinPagePath builds the composite path key of a page.
func JoinPagePath(folderPath, journalName, pageName string) string {
	return JoinJournalPath(folderPath, journalName) + pageSeparator + pageName
}
