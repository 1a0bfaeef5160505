package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tidyplan/internal/tree"
)

func writeFiles(t *testing.T, dir string, files []string) {
	t.Helper()
	for _, f := range files {
		fullPath := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte("content"), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
}

func TestScan_AllFiles(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		"file1.txt",
		"file2.go",
		"subdir/file3.txt",
		"subdir/nested/file4.md",
	}
	writeFiles(t, tmpDir, files)

	s := New(Options{})
	root, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if root.FileCount() != len(files) {
		t.Errorf("Expected %d files, got %d", len(files), root.FileCount())
	}
	if got := s.Stats().Files; got != len(files) {
		t.Errorf("Stats.Files: expected %d, got %d", len(files), got)
	}
	if s.Stats().Dirs != 3 {
		t.Errorf("Stats.Dirs: expected 3, got %d", s.Stats().Dirs)
	}
	if !root.IsDir || root.Depth != 0 {
		t.Errorf("Root node malformed: %+v", root)
	}
}

func TestScan_DepthAssignment(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"sub/nested/deep.txt"})

	s := New(Options{})
	root, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	root.Walk(func(n tree.Node) bool {
		rel, _ := filepath.Rel(tmpDir, n.Path)
		want := 0
		if rel != "." {
			want = len(strings.Split(filepath.ToSlash(rel), "/"))
		}
		if n.Depth != want {
			t.Errorf("Depth of %s: expected %d, got %d", rel, want, n.Depth)
		}
		return true
	})
}

func TestScan_WithSkipPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	files := map[string]bool{
		"file1.txt":           false, // kept
		"file2.tmp":           true,  // skipped (*.tmp)
		"node_modules/lib.js": true,  // skipped (node_modules/)
		"src/main.go":         false, // kept
		".DS_Store":           true,  // skipped
	}
	names := make([]string, 0, len(files))
	for f := range files {
		names = append(names, f)
	}
	writeFiles(t, tmpDir, names)

	s := New(Options{Skip: []string{"*.tmp", "node_modules/", ".DS_Store"}})
	root, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	kept := make(map[string]bool)
	for _, f := range root.Files() {
		rel, _ := filepath.Rel(tmpDir, f.Path)
		kept[filepath.ToSlash(rel)] = true
	}
	for f, skipped := range files {
		if skipped && kept[f] {
			t.Errorf("File %s should have been skipped", f)
		}
		if !skipped && !kept[f] {
			t.Errorf("File %s should have been kept", f)
		}
	}
}

func TestScan_InvalidRoot(t *testing.T) {
	s := New(Options{})
	if _, err := s.Scan(context.Background(), "/nonexistent/directory"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}

	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"plain.txt"})
	if _, err := s.Scan(context.Background(), filepath.Join(tmpDir, "plain.txt")); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath for file root, got %v", err)
	}
}

func TestScan_SymlinksSkippedByDefault(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"real/a.txt"})
	if err := os.Symlink(filepath.Join(tmpDir, "real"), filepath.Join(tmpDir, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	s := New(Options{})
	root, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if root.FileCount() != 1 {
		t.Errorf("Expected 1 file, got %d", root.FileCount())
	}
	if s.Stats().SymlinkSkips != 1 {
		t.Errorf("Expected 1 symlink skip, got %d", s.Stats().SymlinkSkips)
	}
}

func TestScan_FollowSymlinksBreaksLoops(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"real/a.txt"})
	// Loop back to the scan root from inside it.
	if err := os.Symlink(tmpDir, filepath.Join(tmpDir, "real", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	s := New(Options{FollowSymlinks: true})
	root, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if root.FileCount() != 1 {
		t.Errorf("Expected 1 file, got %d", root.FileCount())
	}
	if s.Stats().SymlinkSkips != 1 {
		t.Errorf("Expected the loop to be skipped once, got %d", s.Stats().SymlinkSkips)
	}
}

func TestScan_MaxDepthTruncates(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"a.txt", "sub/b.txt", "sub/nested/c.txt"})

	s := New(Options{MaxDepth: 1})
	root, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// Depth-1 directories are kept as childless nodes, their contents dropped.
	if root.FileCount() != 1 {
		t.Errorf("Expected 1 file at depth limit 1, got %d", root.FileCount())
	}
	foundSub := false
	root.Walk(func(n tree.Node) bool {
		if n.IsDir && filepath.Base(n.Path) == "sub" {
			foundSub = true
			if len(n.Children) != 0 {
				t.Errorf("Truncated directory should have no children")
			}
		}
		return true
	})
	if !foundSub {
		t.Error("Truncated directory node missing from tree")
	}
}

func TestScan_Cancellation(t *testing.T) {
	tmpDir := t.TempDir()
	var names []string
	for i := 0; i < 250; i++ {
		names = append(names, filepath.Join("bulk", "f"+string(rune('a'+i%26))+string(rune('0'+i/26))+".txt"))
	}
	writeFiles(t, tmpDir, names)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Options{ProgressEvery: 10})
	if _, err := s.Scan(ctx, tmpDir); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestScan_ProgressCallback(t *testing.T) {
	tmpDir := t.TempDir()
	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, "f"+string(rune('a'+i%26))+string(rune('0'+i/26))+".txt")
	}
	writeFiles(t, tmpDir, names)

	calls := 0
	s := New(Options{
		ProgressEvery: 10,
		Progress: func(filesSeen int, current string) {
			calls++
			if current == "" {
				t.Error("Progress callback received empty path")
			}
		},
	})
	if _, err := s.Scan(context.Background(), tmpDir); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if calls == 0 {
		t.Error("Progress callback never invoked")
	}
}
