package roots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidyplan/internal/tree"
)

func dir(path string, children ...tree.Node) tree.Node {
	return tree.Node{Path: path, IsDir: true, Children: children}
}

func file(path string) tree.Node {
	return tree.Node{Path: path}
}

func TestDetect_ProjectRoot(t *testing.T) {
	root := dir("/scan",
		dir("/scan/myproject",
			dir("/scan/myproject/.git", file("/scan/myproject/.git/config")),
			file("/scan/myproject/go.mod"),
			file("/scan/myproject/main.go"),
		),
		file("/scan/loose.mp3"),
	)

	infos := New(0.7).Detect(root)
	require.Len(t, infos, 1)
	assert.Equal(t, "/scan/myproject", infos[0].Path)
	assert.Equal(t, TypeProject, infos[0].Type)
	assert.GreaterOrEqual(t, infos[0].Confidence, 0.9)
	assert.True(t, infos[0].Protected)
	assert.Contains(t, infos[0].Markers, ".git")
	assert.Contains(t, infos[0].Markers, "go.mod")
}

func TestDetect_DoesNotRecurseIntoDetectedRoot(t *testing.T) {
	// A repository vendored inside a repository is not independently flagged.
	root := dir("/scan",
		dir("/scan/outer",
			dir("/scan/outer/.git"),
			dir("/scan/outer/vendor",
				dir("/scan/outer/vendor/lib",
					dir("/scan/outer/vendor/lib/.git"),
				),
			),
		),
	)

	infos := New(0.7).Detect(root)
	require.Len(t, infos, 1)
	assert.Equal(t, "/scan/outer", infos[0].Path)
}

func TestDetect_WeakSignalNeedsCorroboration(t *testing.T) {
	srcOnly := dir("/scan",
		dir("/scan/stuff", dir("/scan/stuff/src")),
	)
	assert.Empty(t, New(0.7).Detect(srcOnly))

	corroborated := dir("/scan",
		dir("/scan/stuff",
			dir("/scan/stuff/src"),
			file("/scan/stuff/makefile"),
			file("/scan/stuff/requirements.txt"),
		),
	)
	infos := New(0.7).Detect(corroborated)
	require.Len(t, infos, 1)
	assert.Equal(t, TypeProject, infos[0].Type)
}

func TestDetect_VMDiskImage(t *testing.T) {
	root := dir("/scan",
		dir("/scan/vms", file("/scan/vms/dev-box.vmdk")),
	)

	infos := New(0.7).Detect(root)
	require.Len(t, infos, 1)
	assert.Equal(t, TypeVM, infos[0].Type)
	assert.InDelta(t, 0.9, infos[0].Confidence, 1e-9)
}

func TestDetect_ConfidenceCappedAndOrdered(t *testing.T) {
	root := dir("/scan",
		dir("/scan/proj",
			dir("/scan/proj/.git"),
			file("/scan/proj/go.mod"),
			file("/scan/proj/package.json"),
		),
		dir("/scan/backup", file("/scan/backup/sunday.bkf")),
	)

	infos := New(0.7).Detect(root)
	require.Len(t, infos, 2)
	assert.Equal(t, 1.0, infos[0].Confidence) // capped
	assert.Equal(t, TypeProject, infos[0].Type)
	assert.Equal(t, TypeBackup, infos[1].Type)
	assert.Greater(t, infos[0].Confidence, infos[1].Confidence)
}

func TestDetect_MinConfidenceFilters(t *testing.T) {
	root := dir("/scan",
		dir("/scan/downloads", file("/scan/downloads/notes.bak")),
	)

	assert.Empty(t, New(0.7).Detect(root))
	infos := New(0.3).Detect(root)
	require.Len(t, infos, 1)
	assert.Equal(t, TypeBackup, infos[0].Type)
}

func TestInfo_Contains(t *testing.T) {
	info := Info{Path: "/scan/proj"}
	assert.True(t, info.Contains("/scan/proj"))
	assert.True(t, info.Contains("/scan/proj/src/main.go"))
	assert.False(t, info.Contains("/scan/project2/a.txt"))
	assert.False(t, info.Contains("/scan/other"))
}
