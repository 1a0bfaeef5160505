// Package roots finds subtrees that an organize pass must never touch:
// active projects, game installs, VM disks, media libraries, backup sets.
// Detection favors precision over recall: a directory is protected only when
// the marker evidence among its direct children is concentrated.
package roots

import (
	"path/filepath"
	"sort"
	"strings"

	"tidyplan/internal/tree"
)

// Type is the closed set of protected-root kinds.
type Type string

const (
	TypeProject Type = "project"
	TypeMedia   Type = "media"
	TypeArchive Type = "archive"
	TypeBackup  Type = "backup"
	TypeGame    Type = "game"
	TypeVM      Type = "virtual-machine"
	TypeUnknown Type = "unknown"
)

// Info describes one detected protected subtree.
type Info struct {
	Path       string
	Type       Type
	Confidence float64
	Markers    []string
	Protected  bool
}

// Contains reports whether path lies inside the protected subtree.
func (i Info) Contains(path string) bool {
	if path == i.Path {
		return true
	}
	return strings.HasPrefix(path, i.Path+string(filepath.Separator))
}

type markerKind int

const (
	markerFile markerKind = iota
	markerFolder
	markerExtension
)

type marker struct {
	pattern string // lowercase name, or extension for markerExtension
	typ     Type
	weight  float64
	kind    markerKind
}

// Weights are calibrated so that a strong single signal (VCS metadata dir,
// package manifest, hypervisor disk image) clears the default 0.7 threshold
// alone, while weak names like "src" need corroboration.
var markers = []marker{
	{".git", TypeProject, 0.9, markerFolder},
	{".svn", TypeProject, 0.85, markerFolder},
	{".hg", TypeProject, 0.85, markerFolder},
	{"package.json", TypeProject, 0.85, markerFile},
	{"go.mod", TypeProject, 0.85, markerFile},
	{"cargo.toml", TypeProject, 0.85, markerFile},
	{"pyproject.toml", TypeProject, 0.8, markerFile},
	{"pom.xml", TypeProject, 0.8, markerFile},
	{"requirements.txt", TypeProject, 0.5, markerFile},
	{"makefile", TypeProject, 0.45, markerFile},
	{"node_modules", TypeProject, 0.5, markerFolder},
	{".gitignore", TypeProject, 0.3, markerFile},
	{"src", TypeProject, 0.3, markerFolder},

	{"steamapps", TypeGame, 0.9, markerFolder},
	{"steam_api64.dll", TypeGame, 0.85, markerFile},
	{"unityplayer.dll", TypeGame, 0.85, markerFile},
	{".pak", TypeGame, 0.4, markerExtension},

	{".vmdk", TypeVM, 0.9, markerExtension},
	{".vdi", TypeVM, 0.9, markerExtension},
	{".qcow2", TypeVM, 0.9, markerExtension},
	{".vmx", TypeVM, 0.85, markerExtension},
	{".vbox", TypeVM, 0.85, markerExtension},

	{".plexignore", TypeMedia, 0.8, markerFile},
	{".nomedia", TypeMedia, 0.8, markerFile},
	{"itunes library.itl", TypeMedia, 0.85, markerFile},
	{".nfo", TypeMedia, 0.35, markerExtension},
	{"covers", TypeMedia, 0.3, markerFolder},

	{"backups.backupdb", TypeBackup, 0.9, markerFolder},
	{".bkf", TypeBackup, 0.8, markerExtension},
	{".bak", TypeBackup, 0.35, markerExtension},

	{"archive", TypeArchive, 0.35, markerFolder},
	{".rar", TypeArchive, 0.3, markerExtension},
	{".7z", TypeArchive, 0.3, markerExtension},
}

// typeOrder breaks score ties deterministically.
var typeOrder = []Type{TypeProject, TypeGame, TypeVM, TypeMedia, TypeBackup, TypeArchive}

const DefaultMinConfidence = 0.7

type Detector struct {
	minConfidence float64
}

func New(minConfidence float64) *Detector {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Detector{minConfidence: minConfidence}
}

// Detect walks directories top-down and returns every protected root,
// ordered by descending confidence. A detected root's interior is not
// searched again: a repository nested inside a repository is not
// independently flagged.
func (d *Detector) Detect(root tree.Node) []Info {
	var infos []Info
	d.detect(root, &infos)

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Confidence != infos[j].Confidence {
			return infos[i].Confidence > infos[j].Confidence
		}
		return infos[i].Path < infos[j].Path
	})
	return infos
}

func (d *Detector) detect(n tree.Node, infos *[]Info) {
	if !n.IsDir {
		return
	}

	typ, score, matched := scoreDir(n)
	if score >= d.minConfidence {
		*infos = append(*infos, Info{
			Path:       n.Path,
			Type:       typ,
			Confidence: score,
			Markers:    matched,
			Protected:  true,
		})
		return
	}

	for _, child := range n.Children {
		d.detect(child, infos)
	}
}

func scoreDir(n tree.Node) (Type, float64, []string) {
	files := make(map[string]struct{})
	folders := make(map[string]struct{})
	extensions := make(map[string]struct{})
	for _, child := range n.Children {
		name := strings.ToLower(filepath.Base(child.Path))
		if child.IsDir {
			folders[name] = struct{}{}
		} else {
			files[name] = struct{}{}
			if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
				extensions[ext] = struct{}{}
			}
		}
	}

	scores := make(map[Type]float64)
	matchedBy := make(map[Type][]string)
	for _, m := range markers {
		var present bool
		switch m.kind {
		case markerFile:
			_, present = files[m.pattern]
		case markerFolder:
			_, present = folders[m.pattern]
		case markerExtension:
			_, present = extensions[m.pattern]
		}
		if present {
			scores[m.typ] += m.weight
			matchedBy[m.typ] = append(matchedBy[m.typ], m.pattern)
		}
	}

	best := TypeUnknown
	bestScore := 0.0
	for _, t := range typeOrder {
		if scores[t] > bestScore {
			best = t
			bestScore = scores[t]
		}
	}
	if bestScore > 1.0 {
		bestScore = 1.0
	}
	return best, bestScore, matchedBy[best]
}
