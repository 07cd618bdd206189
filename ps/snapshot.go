package ps

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v6/plumbing"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot names a catalog state with a tag. A nil asof tags the latest
// transaction.
func (history *History) Snapshot(name string, asof *Transaction) error {
	history.mu.Lock()
	defer history.mu.Unlock()

	var hash plumbing.Hash
	if asof != nil {
		hash = plumbing.NewHash(asof.Id)
	} else {
		headRef, err := history.repo.Head()
		if err != nil {
			return ErrNoHistory
		}
		hash = headRef.Hash()
	}

	if _, err := history.repo.CommitObject(hash); err != nil {
		return fmt.Errorf("unknown transaction %s: %w", hash, err)
	}
	if _, err := history.repo.CreateTag(name, hash, nil); err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", name, err)
	}
	return nil
}

// Snapshots maps every snapshot name to its transaction, sorted by name.
func (history *History) Snapshots() ([]string, map[string]Transaction, error) {
	history.mu.Lock()
	defer history.mu.Unlock()

	tags, err := history.repo.Tags()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer tags.Close()

	names := []string{}
	transactions := map[string]Transaction{}
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		commit, err := history.repo.CommitObject(ref.Hash())
		if err != nil {
			return err
		}
		name := ref.Name().Short()
		names = append(names, name)
		transactions[name] = transactionFromCommit(commit)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	sort.Strings(names)
	return names, transactions, nil
}

// ReadFileAt returns a document as of a snapshot name or transaction id.
func (history *History) ReadFileAt(revision, filePath string) ([]byte, error) {
	history.mu.Lock()
	defer history.mu.Unlock()

	if ref, err := history.repo.Tag(revision); err == nil {
		return history.readFileAt(ref.Hash(), filePath)
	}
	if _, err := hex.DecodeString(revision); err != nil || len(revision) != 40 {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, revision)
	}
	return history.readFileAt(plumbing.NewHash(revision), filePath)
}
