package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CacheEnv overrides the directory git corpora are checked out into.
const CacheEnv = "CYTREE_CACHE"

// Fetcher materializes a fixture source and returns its root directory.
type Fetcher interface {
	Fetch(ctx context.Context, name string, src *SourceSpec) (string, error)
}

// GitFetcher checks out pinned git corpora under a cache directory. Each
// resolved commit gets its own directory, so repeated runs reuse checkouts.
type GitFetcher struct {
	cacheDir string
}

// NewGitFetcher returns a fetcher rooted at cacheDir.
func NewGitFetcher(cacheDir string) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &GitFetcher{cacheDir: cacheDir}
}

// DefaultCacheDir honours CYTREE_CACHE, falling back to the user cache dir.
func DefaultCacheDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(CacheEnv)); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("driver: locate cache dir: %w", err)
	}
	return filepath.Join(base, "cytree"), nil
}

func (g *GitFetcher) Fetch(ctx context.Context, name string, src *SourceSpec) (string, error) {
	if g == nil {
		return "", errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(src.Git)
	if url == "" {
		return "", fmt.Errorf("source %q: git URL required", name)
	}
	baseDir := filepath.Join(g.cacheDir, "src", sanitizePathSegment(name))
	return ensureGitCheckout(ctx, baseDir, url, src)
}

// ensureGitCheckout returns the checkout directory for src under baseDir,
// cloning only when no earlier checkout matches.
func ensureGitCheckout(ctx context.Context, baseDir, url string, src *SourceSpec) (string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	revision, descriptor, err := gitRevision(src)
	if err != nil {
		return "", err
	}

	if src.Rev != "" {
		if dir, ok := cachedRevCheckout(baseDir, src.Rev); ok {
			return dir, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return targetDir, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return targetDir, nil
}

// cachedRevCheckout finds an earlier checkout of rev. A full commit is
// stored under its own name, an abbreviated one under "<rev>_<commit>".
func cachedRevCheckout(baseDir, rev string) (string, bool) {
	prefix := sanitizePathSegment(rev)
	exact := filepath.Join(baseDir, prefix)
	if info, err := os.Stat(exact); err == nil && info.IsDir() {
		return exact, true
	}
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		commit, ok := strings.CutPrefix(entry.Name(), prefix+"_")
		if ok && entry.IsDir() && isCommitHash(commit) && strings.HasPrefix(commit, strings.ToLower(rev)) {
			return filepath.Join(baseDir, entry.Name()), true
		}
	}
	return "", false
}

func isCommitHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}

func gitPinnedVersion(descriptor, commit string) string {
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return descriptor + "@" + commit
}

func gitRevision(src *SourceSpec) (plumbing.Revision, string, error) {
	switch {
	case src.Rev != "":
		return plumbing.Revision(src.Rev), src.Rev, nil
	case src.Tag != "":
		return plumbing.Revision("refs/tags/" + src.Tag), src.Tag, nil
	case src.Branch != "":
		return plumbing.Revision("refs/remotes/origin/" + src.Branch), src.Branch, nil
	}
	return "", "", fmt.Errorf("git sources require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
