// Package preview aggregates a decision list into a reporting summary.
// It is built by the caller after resolution; nothing in the placement
// contract depends on it.
package preview

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"tidyplan/internal/resolver"
	"tidyplan/internal/tree"
)

// Result is a mutable aggregate over an immutable decision list.
type Result struct {
	Root       string
	Total      int
	Moves      int
	InPlace    int
	Protected  int
	Skipped    int
	Conflicts  int
	TotalSize  int64
	ByCategory map[string]int
	BySource   map[resolver.Source]int
	Elapsed    time.Duration
}

// Build computes the summary. The decision list and tree are shared
// read-only, so the independent tallies run in parallel.
func Build(root tree.Node, decisions []resolver.Decision, elapsed time.Duration) Result {
	result := Result{
		Root:    root.Path,
		Total:   len(decisions),
		Elapsed: elapsed,
	}

	var g errgroup.Group
	g.Go(func() error {
		for _, d := range decisions {
			if d.WillMove {
				result.Moves++
			}
			if len(d.Conflicts) > 0 {
				result.Conflicts++
			}
		}
		return nil
	})
	g.Go(func() error {
		byCategory := make(map[string]int)
		for _, d := range decisions {
			if d.Source == resolver.SourceSkip || d.Source == resolver.SourceProtected {
				continue
			}
			if category := categoryOf(root.Path, d.Target); category != "" {
				byCategory[category]++
			}
		}
		result.ByCategory = byCategory
		return nil
	})
	g.Go(func() error {
		bySource := make(map[resolver.Source]int)
		for _, d := range decisions {
			bySource[d.Source]++
		}
		result.BySource = bySource
		return nil
	})
	g.Go(func() error {
		for _, f := range root.Files() {
			result.TotalSize += f.Size
		}
		return nil
	})
	g.Wait()

	result.Protected = result.BySource[resolver.SourceProtected]
	result.Skipped = result.BySource[resolver.SourceSkip]
	result.InPlace = result.Total - result.Moves - result.Protected - result.Skipped - result.Conflicts
	return result
}

// FormatReport renders the summary plus the planned moves and conflicts,
// one line per file.
func FormatReport(r Result, decisions []resolver.Decision) string {
	var b strings.Builder

	moves := 0
	for _, d := range decisions {
		if d.WillMove {
			moves++
		}
	}
	if moves > 0 {
		fmt.Fprintf(&b, "PLANNED MOVES (%d files):\n", moves)
		for _, d := range decisions {
			if !d.WillMove {
				continue
			}
			rel, err := filepath.Rel(r.Root, d.Target)
			if err != nil {
				rel = d.Target
			}
			fmt.Fprintf(&b, "  %s -> %s (%s)\n", filepath.Base(d.Path), rel, d.Reason)
		}
		b.WriteString("\n")
	}

	if r.Conflicts > 0 {
		fmt.Fprintf(&b, "CONFLICTS (%d files):\n", r.Conflicts)
		for _, d := range decisions {
			if len(d.Conflicts) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  ! %s -> %s (also claimed by %s)\n",
				d.Path, d.Target, strings.Join(d.Conflicts, ", "))
		}
		b.WriteString("\n")
	}

	if len(r.ByCategory) > 0 {
		categories := make([]string, 0, len(r.ByCategory))
		for c := range r.ByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		b.WriteString("By category:\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "  %-14s %d\n", c, r.ByCategory[c])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Summary: %d files (%s), %d moves, %d protected, %d skipped, %d conflicts in %s\n",
		r.Total, humanize.Bytes(uint64(r.TotalSize)), r.Moves, r.Protected,
		r.Skipped, r.Conflicts, r.Elapsed.Round(time.Millisecond))
	return b.String()
}

func categoryOf(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return "" // file sitting directly under the root has no category
	}
	return parts[0]
}
