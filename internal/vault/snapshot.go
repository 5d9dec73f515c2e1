package vault

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	snapshotAuthorName  = "foundrysync"
	snapshotAuthorEmail = "foundrysync@localhost"
)

// Snapshot commits the current state of the vault worktree. It is called
// before a sync session mutates document frontmatter, so that identity
// back-writes stay recoverable. A vault that is not yet a git repository is
// initialized on the fly; a clean worktree produces no commit.
func Snapshot(root, message string) error {
	repo, err := git.PlainOpen(root)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(root, false)
	}
	if err != nil {
		return fmt.Errorf("open vault repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	if addErr := worktree.AddWithOptions(&git.AddOptions{All: true}); addErr != nil {
		return fmt.Errorf("git add: %w", addErr)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("get status: %w", err)
	}

	hasChanges := false
	for _, s := range status {
		if s.Staging != ' ' {
			hasChanges = true
			break
		}
	}
	if !hasChanges {
		return nil
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  snapshotAuthorName,
			Email: snapshotAuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
