package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"

	"tidyplan/internal/tree"
)

// ErrInvalidPath reports a scan root that does not exist or is not a
// directory. It is the only fatal scan error besides cancellation.
var ErrInvalidPath = errors.New("scan root is not a directory")

// ProgressFunc receives the running file count and the path currently being
// visited. Advisory only; it is not a cancellation hook.
type ProgressFunc func(filesSeen int, current string)

type Options struct {
	// Skip holds gitignore-style patterns matched against root-relative
	// paths. Matching entries are never visited.
	Skip []string

	// FollowSymlinks descends into symlinked directories, breaking cycles
	// by tracking visited resolved paths. Off by default: symlinks are
	// skipped and counted.
	FollowSymlinks bool

	// MaxDepth stops descent below the given depth. Directories at the
	// limit are kept as childless nodes. Zero means unlimited.
	MaxDepth int

	Progress ProgressFunc

	// ProgressEvery is the callback cadence in visited entries. The
	// cancellation context is checked at the same cadence. Default 100.
	ProgressEvery int
}

// Stats are scan diagnostics. They do not affect placement.
type Stats struct {
	Files           int
	Dirs            int
	Errors          int
	PermissionSkips int
	SymlinkSkips    int
}

type Scanner struct {
	opts    Options
	matcher *gitignore.GitIgnore
	root    string
	visited map[string]struct{}
	entries int
	stats   Stats
}

func New(opts Options) *Scanner {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 100
	}
	s := &Scanner{opts: opts}
	if len(opts.Skip) > 0 {
		s.matcher = gitignore.CompileIgnoreLines(opts.Skip...)
	}
	return s
}

// Scan walks root depth-first and returns the snapshot tree, assembled
// post-order. Per-entry OS errors are counted and the entry skipped; only
// an invalid root or a cancelled context aborts the scan.
func (s *Scanner) Scan(ctx context.Context, root string) (tree.Node, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return tree.Node{}, fmt.Errorf("failed to resolve scan root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return tree.Node{}, fmt.Errorf("%w: %s", ErrInvalidPath, root)
	}

	s.root = abs
	s.stats = Stats{}
	s.entries = 0
	s.visited = make(map[string]struct{})
	if s.opts.FollowSymlinks {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			s.visited[resolved] = struct{}{}
		}
	}

	return s.scanDir(ctx, abs, info, 0)
}

// Stats returns the diagnostics of the most recent scan.
func (s *Scanner) Stats() Stats {
	return s.stats
}

func (s *Scanner) scanDir(ctx context.Context, path string, info fs.FileInfo, depth int) (tree.Node, error) {
	s.stats.Dirs++
	node := tree.Node{
		Path:    path,
		IsDir:   true,
		ModTime: info.ModTime(),
		Depth:   depth,
	}

	if s.opts.MaxDepth > 0 && depth >= s.opts.MaxDepth {
		return node, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		s.countError(err)
		return node, nil
	}

	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		if err := s.checkpoint(ctx, full); err != nil {
			return tree.Node{}, err
		}

		child, ok, err := s.scanEntry(ctx, full, entry, depth+1)
		if err != nil {
			return tree.Node{}, err
		}
		if ok {
			node.Size += child.Size
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

func (s *Scanner) scanEntry(ctx context.Context, path string, entry fs.DirEntry, depth int) (tree.Node, bool, error) {
	if s.excluded(path, entry.IsDir()) {
		return tree.Node{}, false, nil
	}

	if entry.Type()&fs.ModeSymlink != 0 {
		return s.scanSymlink(ctx, path, depth)
	}

	info, err := entry.Info()
	if err != nil {
		s.countError(err)
		return tree.Node{}, false, nil
	}

	if entry.IsDir() {
		node, err := s.scanDir(ctx, path, info, depth)
		return node, err == nil, err
	}

	s.stats.Files++
	return tree.Node{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Depth:   depth,
	}, true, nil
}

func (s *Scanner) scanSymlink(ctx context.Context, path string, depth int) (tree.Node, bool, error) {
	if !s.opts.FollowSymlinks {
		s.stats.SymlinkSkips++
		return tree.Node{}, false, nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		s.countError(err)
		return tree.Node{}, false, nil
	}
	if _, seen := s.visited[resolved]; seen {
		// Already walked through this target: following again would loop.
		s.stats.SymlinkSkips++
		return tree.Node{}, false, nil
	}
	s.visited[resolved] = struct{}{}

	info, err := os.Stat(path)
	if err != nil {
		s.countError(err)
		return tree.Node{}, false, nil
	}

	if info.IsDir() {
		node, err := s.scanDir(ctx, path, info, depth)
		return node, err == nil, err
	}

	s.stats.Files++
	return tree.Node{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Depth:   depth,
	}, true, nil
}

func (s *Scanner) checkpoint(ctx context.Context, current string) error {
	s.entries++
	if s.entries%s.opts.ProgressEvery != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.opts.Progress != nil {
		s.opts.Progress(s.stats.Files, current)
	}
	return nil
}

func (s *Scanner) excluded(path string, isDir bool) bool {
	if s.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if s.matcher.MatchesPath(rel) {
		return true
	}
	// Directory patterns like ".git/" only match with the trailing slash.
	return isDir && s.matcher.MatchesPath(rel+"/")
}

func (s *Scanner) countError(err error) {
	s.stats.Errors++
	if errors.Is(err, fs.ErrPermission) {
		s.stats.PermissionSkips++
	}
}
