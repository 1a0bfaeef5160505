package preview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tidyplan/internal/resolver"
	"tidyplan/internal/tree"
)

func testTree() tree.Node {
	return tree.Node{Path: "/scan", IsDir: true, Children: []tree.Node{
		{Path: "/scan/a.mp3", Size: 1000},
		{Path: "/scan/b.mp3", Size: 2000},
		{Path: "/scan/notes.xyz", Size: 10},
	}}
}

func testDecisions() []resolver.Decision {
	return []resolver.Decision{
		{Path: "/scan/a.mp3", Target: "/scan/Audio/a.mp3", Source: resolver.SourceRule,
			Reason: "matched Audio/MP3", Safe: true, WillMove: true},
		{Path: "/scan/b.mp3", Target: "/scan/Audio/b.mp3", Source: resolver.SourceContext,
			Reason: "matched Audio/MP3", Safe: true, WillMove: true},
		{Path: "/scan/notes.xyz", Target: "/scan/notes.xyz", Source: resolver.SourceSkip,
			Reason: "no matching rule", Safe: true},
	}
}

func TestBuild(t *testing.T) {
	result := Build(testTree(), testDecisions(), 42*time.Millisecond)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Moves)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Protected)
	assert.Equal(t, 0, result.Conflicts)
	assert.Equal(t, int64(3010), result.TotalSize)
	assert.Equal(t, map[string]int{"Audio": 2}, result.ByCategory)
	assert.Equal(t, 2, result.BySource[resolver.SourceRule]+result.BySource[resolver.SourceContext])
	assert.Equal(t, 42*time.Millisecond, result.Elapsed)
}

func TestBuild_CountsConflicts(t *testing.T) {
	decisions := []resolver.Decision{
		{Path: "/scan/x/r.pdf", Target: "/scan/Documents/r.pdf", Source: resolver.SourceRule,
			Conflicts: []string{"/scan/y/r.pdf"}},
		{Path: "/scan/y/r.pdf", Target: "/scan/Documents/r.pdf", Source: resolver.SourceRule,
			Conflicts: []string{"/scan/x/r.pdf"}},
	}

	result := Build(tree.Node{Path: "/scan", IsDir: true}, decisions, 0)
	assert.Equal(t, 2, result.Conflicts)
	assert.Equal(t, 0, result.Moves)
}

func TestFormatReport(t *testing.T) {
	result := Build(testTree(), testDecisions(), 42*time.Millisecond)
	report := FormatReport(result, testDecisions())

	assert.Contains(t, report, "PLANNED MOVES (2 files):")
	assert.Contains(t, report, "a.mp3 -> Audio/a.mp3")
	assert.Contains(t, report, "Summary: 3 files")
	assert.Contains(t, report, "2 moves")
	assert.NotContains(t, report, "CONFLICTS")
}

func TestFormatReport_Conflicts(t *testing.T) {
	decisions := []resolver.Decision{
		{Path: "/scan/x/r.pdf", Target: "/scan/Documents/r.pdf", Source: resolver.SourceRule,
			Conflicts: []string{"/scan/y/r.pdf"}},
		{Path: "/scan/y/r.pdf", Target: "/scan/Documents/r.pdf", Source: resolver.SourceRule,
			Conflicts: []string{"/scan/x/r.pdf"}},
	}
	result := Build(tree.Node{Path: "/scan", IsDir: true}, decisions, 0)
	report := FormatReport(result, decisions)

	assert.Contains(t, report, "CONFLICTS (2 files):")
	assert.Contains(t, report, "also claimed by /scan/y/r.pdf")
}
