// Package safety validates computed target paths before a move-executor
// acts on them. The checks are advisory: the resolver emits targets without
// consulting them, and a violation means "do not execute", never "crash".
package safety

import (
	"path/filepath"
	"strings"
)

const (
	maxPathLength      = 4096
	maxComponentLength = 255
)

// Characters rejected in path components. The strict superset of the
// Windows set keeps targets portable across the filesystems a decision
// list may be executed on.
const invalidChars = `<>:"|?*`

var systemPrefixes = []string{
	"/bin", "/boot", "/dev", "/etc", "/lib", "/proc", "/sbin", "/sys",
	"/usr/bin", "/usr/lib", "/usr/sbin",
	`c:\windows`, `c:\program files`, `c:\program files (x86)`,
}

// Violation describes one reason a target path is unsafe to act on.
type Violation struct {
	Path   string
	Reason string
}

// Check returns every violation found for the given target path.
func Check(path string) []Violation {
	var violations []Violation

	if len(path) > maxPathLength {
		violations = append(violations, Violation{path, "path too long"})
	}

	for _, component := range strings.Split(path, string(filepath.Separator)) {
		if len(component) > maxComponentLength {
			violations = append(violations, Violation{path, "path component too long"})
			break
		}
	}

	rest := path
	if vol := filepath.VolumeName(path); vol != "" {
		rest = path[len(vol):]
	}
	if strings.ContainsAny(rest, invalidChars) || containsControl(rest) {
		violations = append(violations, Violation{path, "invalid characters in path"})
	}

	lower := strings.ToLower(filepath.ToSlash(path))
	for _, prefix := range systemPrefixes {
		p := strings.ToLower(filepath.ToSlash(prefix))
		if lower == p || strings.HasPrefix(lower, p+"/") {
			violations = append(violations, Violation{path, "target falls under system directory " + prefix})
			break
		}
	}

	return violations
}

// IsSafe reports whether Check finds no violations.
func IsSafe(path string) bool {
	return len(Check(path)) == 0
}

func containsControl(s string) bool {
	for _, r := range s {
		if r < 0x20 {
			return true
		}
	}
	return false
}
