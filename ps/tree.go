package ps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/object"
)

type treeChange struct {
	Path     string
	BlobHash plumbing.Hash
}

func (history *History) createBlob(data []byte) (plumbing.Hash, error) {
	obj := history.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to create blob writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob data: %w", err)
	}
	writer.Close()

	hash, err := history.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store blob: %w", err)
	}
	return hash, nil
}

// currentTree returns the root tree of HEAD, or ZeroHash before the first
// commit.
func (history *History) currentTree() (plumbing.Hash, error) {
	headRef, err := history.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, nil
	}

	commit, err := history.repo.CommitObject(headRef.Hash())
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get head commit: %w", err)
	}
	return commit.TreeHash, nil
}

func (history *History) treeEntries(treeHash plumbing.Hash) (map[string]object.TreeEntry, error) {
	entries := make(map[string]object.TreeEntry)
	if treeHash == plumbing.ZeroHash {
		return entries, nil
	}

	tree, err := object.GetTree(history.repo.Storer, treeHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}
	for _, entry := range tree.Entries {
		entries[entry.Name] = entry
	}
	return entries, nil
}

func (history *History) storeTree(entries map[string]object.TreeEntry) (plumbing.Hash, error) {
	sorted := make([]object.TreeEntry, 0, len(entries))
	for _, entry := range entries {
		sorted = append(sorted, entry)
	}

	// Git orders directories as if their name had a trailing slash
	sort.Slice(sorted, func(i, j int) bool {
		nameI, nameJ := sorted[i].Name, sorted[j].Name
		if sorted[i].Mode == filemode.Dir {
			nameI += "/"
		}
		if sorted[j].Mode == filemode.Dir {
			nameJ += "/"
		}
		return nameI < nameJ
	})

	tree := &object.Tree{Entries: sorted}
	obj := history.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}

	hash, err := history.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store tree: %w", err)
	}
	return hash, nil
}

// applyChanges writes every change into the tree rooted at rootHash,
// rebuilding each touched directory once.
func (history *History) applyChanges(rootHash plumbing.Hash, changes []treeChange) (plumbing.Hash, error) {
	entries, err := history.treeEntries(rootHash)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	grouped := make(map[string][]treeChange)
	for _, change := range changes {
		dir, rest, nested := strings.Cut(change.Path, "/")
		if !nested {
			entries[dir] = object.TreeEntry{Name: dir, Mode: filemode.Regular, Hash: change.BlobHash}
			continue
		}
		grouped[dir] = append(grouped[dir], treeChange{Path: rest, BlobHash: change.BlobHash})
	}

	for dir, subChanges := range grouped {
		subTree := plumbing.ZeroHash
		if existing, ok := entries[dir]; ok && existing.Mode == filemode.Dir {
			subTree = existing.Hash
		}

		newSubTree, err := history.applyChanges(subTree, subChanges)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries[dir] = object.TreeEntry{Name: dir, Mode: filemode.Dir, Hash: newSubTree}
	}

	return history.storeTree(entries)
}
