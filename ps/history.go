package ps

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"
	"github.com/nickyhof/RowDB/core"
)

var ErrNoHistory = errors.New("no catalog history recorded yet")

// History keeps every version of the catalog documents as commits in a Git
// repository. Objects are written directly to the object store; the
// worktree is never checked out.
type History struct {
	repo *git.Repository
	mu   sync.Mutex
}

type Transaction struct {
	Id      string
	When    time.Time
	Author  string // "Name <email>" format
	Message string
}

func (transaction Transaction) String() string {
	return fmt.Sprintf("Transaction{Id: %s, When: %s, Author: %s}", transaction.Id, transaction.When, transaction.Author)
}

func NewMemoryHistory() (*History, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return nil, err
	}
	return &History{repo: repo}, nil
}

// OpenHistory opens the repository in dir, initializing it when absent.
func OpenHistory(dir string) (*History, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	wt := osfs.New(dir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return nil, err
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository
	if _, statErr := os.Stat(fs.Root()); statErr != nil {
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history in %s: %w", dir, err)
	}

	return &History{repo: repo}, nil
}

// Record commits files (relative path to content) on top of the current
// catalog snapshot.
func (history *History) Record(files map[string][]byte, identity core.Identity, message string) (Transaction, error) {
	history.mu.Lock()
	defer history.mu.Unlock()

	currentTree, err := history.currentTree()
	if err != nil {
		return Transaction{}, err
	}

	changes := make([]treeChange, 0, len(files))
	for filePath, data := range files {
		blobHash, err := history.createBlob(data)
		if err != nil {
			return Transaction{}, fmt.Errorf("failed to create blob for %s: %w", filePath, err)
		}
		changes = append(changes, treeChange{Path: filePath, BlobHash: blobHash})
	}

	newTree, err := history.applyChanges(currentTree, changes)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to update tree: %w", err)
	}

	return history.commit(newTree, identity, message)
}

// ReadFile returns a document as of the latest recorded transaction.
func (history *History) ReadFile(filePath string) ([]byte, error) {
	history.mu.Lock()
	defer history.mu.Unlock()

	headRef, err := history.repo.Head()
	if err != nil {
		return nil, ErrNoHistory
	}
	return history.readFileAt(headRef.Hash(), filePath)
}

func (history *History) readFileAt(hash plumbing.Hash, filePath string) ([]byte, error) {
	commit, err := history.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	file, err := commit.File(filePath)
	if err != nil {
		return nil, fmt.Errorf("file %s not found: %w", filePath, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read contents: %w", err)
	}
	return []byte(content), nil
}

func (history *History) LatestTransaction() Transaction {
	history.mu.Lock()
	defer history.mu.Unlock()

	headRef, err := history.repo.Head()
	if err != nil || headRef == nil {
		return Transaction{}
	}

	commit, err := history.repo.CommitObject(headRef.Hash())
	if err != nil {
		return Transaction{}
	}
	return transactionFromCommit(commit)
}

// Log lists recorded transactions, newest first.
func (history *History) Log() ([]Transaction, error) {
	history.mu.Lock()
	defer history.mu.Unlock()

	if _, err := history.repo.Head(); err != nil {
		return []Transaction{}, nil
	}

	cIter, err := history.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer cIter.Close()

	transactions := []Transaction{}
	err = cIter.ForEach(func(c *object.Commit) error {
		transactions = append(transactions, transactionFromCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return transactions, nil
}

func transactionFromCommit(commit *object.Commit) Transaction {
	author := ""
	if commit.Author.Name != "" || commit.Author.Email != "" {
		author = fmt.Sprintf("%s <%s>", commit.Author.Name, commit.Author.Email)
	}

	return Transaction{
		Id:      commit.Hash.String(),
		When:    commit.Committer.When,
		Author:  author,
		Message: strings.TrimSpace(commit.Message),
	}
}

func (history *History) commit(treeHash plumbing.Hash, identity core.Identity, message string) (Transaction, error) {
	var parentHashes []plumbing.Hash
	headRef, err := history.repo.Head()
	if err == nil {
		parentHashes = []plumbing.Hash{headRef.Hash()}
	}

	sig := object.Signature{
		Name:  identity.Name,
		Email: identity.Email,
		When:  time.Now(),
	}

	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parentHashes,
	}

	obj := history.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return Transaction{}, fmt.Errorf("failed to encode commit: %w", err)
	}

	commitHash, err := history.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to store commit: %w", err)
	}

	branchName := plumbing.Master
	if headRef != nil && headRef.Name().IsBranch() {
		branchName = headRef.Name()
	}

	ref := plumbing.NewHashReference(branchName, commitHash)
	if err := history.repo.Storer.SetReference(ref); err != nil {
		return Transaction{}, fmt.Errorf("failed to update HEAD: %w", err)
	}

	return Transaction{
		Id:      commitHash.String(),
		When:    sig.When,
		Author:  identity.String(),
		Message: message,
	}, nil
}
