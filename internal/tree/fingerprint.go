package tree

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the snapshot's file metadata: sorted relative paths
// with sizes and modification times. No file contents are read. Two scans
// of an unchanged tree produce the same fingerprint, so a caller can check
// a stored decision list for staleness without re-resolving.
func Fingerprint(root Node) string {
	files := root.Files()

	records := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root.Path, f.Path)
		if err != nil {
			rel = f.Path
		}
		records = append(records, fmt.Sprintf("%s|%d|%d",
			filepath.ToSlash(rel), f.Size, f.ModTime.Unix()))
	}
	sort.Strings(records)

	h := xxhash.New()
	for _, record := range records {
		h.WriteString(record)
		h.WriteString("\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}
