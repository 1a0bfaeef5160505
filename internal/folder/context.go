// Package folder derives organizing hints for a single directory from two
// independent signals: keywords in its name and the extension histogram of
// its direct file children.
package folder

import (
	"path/filepath"
	"sort"
	"strings"

	"tidyplan/internal/rules"
	"tidyplan/internal/tree"
)

// Context is derived, never persisted.
type Context struct {
	Path               string
	Name               string
	ImpliedCategory    string
	ImpliedSubcategory string
	ImpliedExtension   string
	FileCount          int
	Extensions         map[string]int

	// DominantExtension is set only when a single extension accounts for
	// strictly more than half of the folder's direct files. A tie at
	// exactly 50% is not dominant.
	DominantExtension string
}

var categoryKeywords = map[string]string{
	"document":  "Documents",
	"doc":       "Documents",
	"paper":     "Documents",
	"picture":   "Images",
	"photo":     "Images",
	"image":     "Images",
	"img":       "Images",
	"music":     "Audio",
	"audio":     "Audio",
	"song":      "Audio",
	"sound":     "Audio",
	"video":     "Videos",
	"movie":     "Videos",
	"film":      "Videos",
	"archive":   "Archives",
	"code":      "Code",
	"script":    "Code",
	"font":      "Fonts",
	"installer": "Installers",
	"setup":     "Installers",
	"ebook":     "Ebooks",
	"book":      "Ebooks",
}

var subcategoryKeywords = map[string]string{
	"mp3":          "MP3",
	"wav":          "WAV",
	"flac":         "FLAC",
	"pdf":          "PDF",
	"word":         "Word",
	"spreadsheet":  "Spreadsheets",
	"presentation": "Presentations",
	"jpg":          "JPG",
	"jpeg":         "JPG",
	"png":          "PNG",
	"gif":          "GIF",
	"raw":          "RAW",
	"python":       "Python",
	"javascript":   "JavaScript",
	"java":         "Java",
	"rust":         "Rust",
	"zip":          "ZIP",
	"rar":          "RAR",
}

// A recognized subcategory back-infers its category.
var subcategoryToCategory = map[string]string{
	"MP3":           "Audio",
	"WAV":           "Audio",
	"FLAC":          "Audio",
	"PDF":           "Documents",
	"Word":          "Documents",
	"Spreadsheets":  "Documents",
	"Presentations": "Documents",
	"JPG":           "Images",
	"PNG":           "Images",
	"GIF":           "Images",
	"RAW":           "Images",
	"Python":        "Code",
	"JavaScript":    "Code",
	"Java":          "Code",
	"Rust":          "Code",
	"ZIP":           "Archives",
	"RAR":           "Archives",
}

var subcategoryExtension = map[string]string{
	"MP3":    ".mp3",
	"WAV":    ".wav",
	"FLAC":   ".flac",
	"PDF":    ".pdf",
	"JPG":    ".jpg",
	"PNG":    ".png",
	"GIF":    ".gif",
	"Python": ".py",
	"Java":   ".java",
	"Rust":   ".rs",
	"ZIP":    ".zip",
	"RAR":    ".rar",
}

// Build derives the context of an existing folder node.
func Build(n tree.Node) Context {
	ctx := fromName(filepath.Base(n.Path))
	ctx.Path = n.Path

	extensions := make(map[string]int)
	fileCount := 0
	for _, child := range n.Children {
		if child.IsDir {
			continue
		}
		fileCount++
		if ext := strings.ToLower(filepath.Ext(child.Path)); ext != "" {
			extensions[ext]++
		}
	}
	ctx.FileCount = fileCount
	ctx.Extensions = extensions
	ctx.DominantExtension = dominant(extensions, fileCount)
	return ctx
}

// Synthetic builds the context of a folder that does not exist yet, from
// its intended name and the extension histogram of the files planned to
// land beneath it.
func Synthetic(name string, extensions map[string]int, fileCount int) Context {
	ctx := fromName(name)
	ctx.FileCount = fileCount
	ctx.Extensions = extensions
	ctx.DominantExtension = dominant(extensions, fileCount)
	return ctx
}

// WouldCreateRedundancy reports whether placing the classified file under a
// folder with this context would restate information the folder already
// carries: an "MP3" folder gaining another .mp3, or a folder whose contents
// are already dominated by the file's extension.
func WouldCreateRedundancy(parent Context, r rules.Result) bool {
	if parent.ImpliedSubcategory != "" && strings.EqualFold(parent.ImpliedSubcategory, r.Subcategory) {
		return true
	}
	ext := r.Extension()
	if ext == "" {
		return false
	}
	if parent.ImpliedExtension != "" && parent.ImpliedExtension == ext {
		return true
	}
	return parent.DominantExtension != "" && parent.DominantExtension == ext
}

func fromName(name string) Context {
	lower := strings.ToLower(name)
	ctx := Context{Name: name}

	if sub, ok := matchKeyword(subcategoryKeywords, lower); ok {
		ctx.ImpliedSubcategory = sub
		ctx.ImpliedCategory = subcategoryToCategory[sub]
		ctx.ImpliedExtension = subcategoryExtension[sub]
	}
	if ctx.ImpliedCategory == "" {
		if cat, ok := matchKeyword(categoryKeywords, lower); ok {
			ctx.ImpliedCategory = cat
		}
	}
	return ctx
}

// matchKeyword finds the longest keyword contained in name; length-major
// ordering keeps "javascript" from losing to "java".
func matchKeyword(keywords map[string]string, name string) (string, bool) {
	keys := make([]string, 0, len(keywords))
	for k := range keywords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if strings.Contains(name, k) {
			return keywords[k], true
		}
	}
	return "", false
}

func dominant(extensions map[string]int, fileCount int) string {
	if fileCount == 0 {
		return ""
	}
	best := ""
	bestCount := 0
	for ext, count := range extensions {
		if count > bestCount || (count == bestCount && ext < best) {
			best = ext
			bestCount = count
		}
	}
	// Strictly more than half; a 50/50 split has no dominant extension.
	if bestCount*2 > fileCount {
		return best
	}
	return ""
}
