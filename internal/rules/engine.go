package rules

import (
	"path/filepath"
	"sort"
	"strings"

	"tidyplan/internal/tree"
)

// Result is the outcome of classifying one file by extension.
type Result struct {
	Path        string
	Category    string
	Subcategory string
	Confidence  float64
	MatchedRule string // the extension that matched, e.g. ".mp3"
	Context     string // free-text hint consumed by redundancy checks
}

// Extension returns the lowercased extension of the classified file.
func (r Result) Extension() string {
	return strings.ToLower(filepath.Ext(r.Path))
}

type rule struct {
	category    string
	subcategory string
	confidence  float64
}

// entry order does not matter: when two entries claim the same extension the
// higher confidence wins at table-build time.
var table = []struct {
	ext string
	rule
}{
	// Documents
	{".pdf", rule{"Documents", "PDF", 0.95}},
	{".doc", rule{"Documents", "Word", 0.9}},
	{".docx", rule{"Documents", "Word", 0.9}},
	{".odt", rule{"Documents", "Word", 0.85}},
	{".rtf", rule{"Documents", "Text", 0.8}},
	{".txt", rule{"Documents", "Text", 0.8}},
	{".md", rule{"Documents", "Text", 0.75}},
	{".xls", rule{"Documents", "Spreadsheets", 0.9}},
	{".xlsx", rule{"Documents", "Spreadsheets", 0.9}},
	{".ods", rule{"Documents", "Spreadsheets", 0.85}},
	{".csv", rule{"Documents", "Spreadsheets", 0.7}},
	{".ppt", rule{"Documents", "Presentations", 0.9}},
	{".pptx", rule{"Documents", "Presentations", 0.9}},

	// Images
	{".jpg", rule{"Images", "JPG", 0.95}},
	{".jpeg", rule{"Images", "JPG", 0.95}},
	{".png", rule{"Images", "PNG", 0.95}},
	{".gif", rule{"Images", "GIF", 0.9}},
	{".bmp", rule{"Images", "BMP", 0.85}},
	{".webp", rule{"Images", "WebP", 0.9}},
	{".svg", rule{"Images", "SVG", 0.85}},
	{".tif", rule{"Images", "TIFF", 0.85}},
	{".tiff", rule{"Images", "TIFF", 0.85}},
	{".cr2", rule{"Images", "RAW", 0.9}},
	{".nef", rule{"Images", "RAW", 0.9}},
	{".arw", rule{"Images", "RAW", 0.9}},

	// Videos
	{".mp4", rule{"Videos", "MP4", 0.95}},
	{".mkv", rule{"Videos", "MKV", 0.95}},
	{".avi", rule{"Videos", "AVI", 0.9}},
	{".mov", rule{"Videos", "MOV", 0.9}},
	{".wmv", rule{"Videos", "WMV", 0.85}},
	{".flv", rule{"Videos", "FLV", 0.8}},
	{".webm", rule{"Videos", "WebM", 0.9}},

	// Audio
	{".mp3", rule{"Audio", "MP3", 0.95}},
	{".wav", rule{"Audio", "WAV", 0.9}},
	{".flac", rule{"Audio", "FLAC", 0.95}},
	{".aac", rule{"Audio", "AAC", 0.85}},
	{".ogg", rule{"Audio", "OGG", 0.85}},
	{".m4a", rule{"Audio", "M4A", 0.85}},
	{".wma", rule{"Audio", "WMA", 0.8}},

	// Archives
	{".zip", rule{"Archives", "ZIP", 0.95}},
	{".rar", rule{"Archives", "RAR", 0.95}},
	{".7z", rule{"Archives", "7Z", 0.95}},
	{".tar", rule{"Archives", "TAR", 0.9}},
	{".gz", rule{"Archives", "TAR", 0.85}},
	{".bz2", rule{"Archives", "TAR", 0.85}},
	{".xz", rule{"Archives", "TAR", 0.85}},

	// Code
	{".py", rule{"Code", "Python", 0.9}},
	{".js", rule{"Code", "JavaScript", 0.9}},
	{".ts", rule{"Code", "JavaScript", 0.85}},
	{".go", rule{"Code", "Go", 0.9}},
	{".java", rule{"Code", "Java", 0.9}},
	{".c", rule{"Code", "C", 0.85}},
	{".h", rule{"Code", "C", 0.7}},
	{".cpp", rule{"Code", "C++", 0.85}},
	{".rs", rule{"Code", "Rust", 0.9}},
	{".rb", rule{"Code", "Ruby", 0.85}},
	{".sh", rule{"Code", "Shell", 0.8}},
	{".html", rule{"Code", "Web", 0.8}},
	{".css", rule{"Code", "Web", 0.8}},
	{".json", rule{"Code", "Data", 0.7}},
	{".xml", rule{"Code", "Data", 0.7}},
	{".yaml", rule{"Code", "Data", 0.7}},
	{".yml", rule{"Code", "Data", 0.7}},
	{".sql", rule{"Code", "SQL", 0.85}},

	// Installers
	{".exe", rule{"Installers", "Windows", 0.85}},
	{".msi", rule{"Installers", "Windows", 0.95}},
	{".dmg", rule{"Installers", "Mac", 0.95}},
	{".pkg", rule{"Installers", "Mac", 0.9}},
	{".deb", rule{"Installers", "Linux", 0.95}},
	{".rpm", rule{"Installers", "Linux", 0.95}},
	{".appimage", rule{"Installers", "Linux", 0.9}},

	// Fonts
	{".ttf", rule{"Fonts", "", 0.95}},
	{".otf", rule{"Fonts", "", 0.95}},
	{".woff", rule{"Fonts", "", 0.9}},
	{".woff2", rule{"Fonts", "", 0.9}},

	// Ebooks
	{".epub", rule{"Ebooks", "", 0.95}},
	{".mobi", rule{"Ebooks", "", 0.95}},
	{".azw3", rule{"Ebooks", "", 0.9}},

	// 3D models
	{".stl", rule{"Models", "", 0.9}},
	{".obj", rule{"Models", "", 0.8}},
	{".fbx", rule{"Models", "", 0.9}},
	{".blend", rule{"Models", "", 0.95}},

	// Databases
	{".db", rule{"Databases", "", 0.8}},
	{".sqlite", rule{"Databases", "", 0.9}},
	{".sqlite3", rule{"Databases", "", 0.9}},
	{".mdb", rule{"Databases", "", 0.85}},

	// Backups
	{".bak", rule{"Backups", "", 0.8}},
	{".old", rule{"Backups", "", 0.7}},
	{".backup", rule{"Backups", "", 0.85}},

	// Shortcuts
	{".lnk", rule{"Shortcuts", "", 0.9}},
	{".url", rule{"Shortcuts", "", 0.85}},
	{".desktop", rule{"Shortcuts", "", 0.85}},

	// Torrents
	{".torrent", rule{"Torrents", "", 0.95}},
}

// Engine maps file extensions to a two-level classification. The table is
// fixed at construction time.
type Engine struct {
	byExt map[string]rule
}

func New() *Engine {
	byExt := make(map[string]rule, len(table))
	for _, entry := range table {
		ext := strings.ToLower(entry.ext)
		if existing, ok := byExt[ext]; ok && existing.confidence >= entry.confidence {
			continue
		}
		byExt[ext] = entry.rule
	}
	return &Engine{byExt: byExt}
}

// Classify matches a single node against the extension table. Directories
// and files with missing or unmapped extensions are a miss, not an error.
func (e *Engine) Classify(n tree.Node) (Result, bool) {
	if n.IsDir {
		return Result{}, false
	}
	ext := strings.ToLower(filepath.Ext(n.Path))
	if ext == "" {
		return Result{}, false
	}
	r, ok := e.byExt[ext]
	if !ok {
		return Result{}, false
	}

	hint := strings.ToLower(r.category)
	if r.subcategory != "" {
		hint = strings.ToLower(r.subcategory) + " " + hint
	}
	return Result{
		Path:        n.Path,
		Category:    r.category,
		Subcategory: r.subcategory,
		Confidence:  r.confidence,
		MatchedRule: ext,
		Context:     hint,
	}, true
}

// ClassifyBatch classifies a sequence of nodes, dropping misses.
func (e *Engine) ClassifyBatch(nodes []tree.Node) []Result {
	results := make([]Result, 0, len(nodes))
	for _, n := range nodes {
		if r, ok := e.Classify(n); ok {
			results = append(results, r)
		}
	}
	return results
}

// Categories lists every category in the table, sorted.
func (e *Engine) Categories() []string {
	seen := make(map[string]struct{})
	for _, r := range e.byExt {
		seen[r.category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Subcategories lists the subcategories of a category, sorted.
func (e *Engine) Subcategories(category string) []string {
	seen := make(map[string]struct{})
	for _, r := range e.byExt {
		if r.category == category && r.subcategory != "" {
			seen[r.subcategory] = struct{}{}
		}
	}
	subs := make([]string, 0, len(seen))
	for s := range seen {
		subs = append(subs, s)
	}
	sort.Strings(subs)
	return subs
}

// Extensions lists the extensions mapped to a category, sorted.
func (e *Engine) Extensions(category string) []string {
	var exts []string
	for ext, r := range e.byExt {
		if r.category == category {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
