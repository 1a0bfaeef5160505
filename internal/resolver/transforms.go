package resolver

import (
	"path/filepath"
	"strings"

	"tidyplan/internal/folder"
	"tidyplan/internal/rules"
)

// The five anti-redundancy rules. Each is a pure transform from one
// placement map (file path -> target path) to a new one, applied in a fixed
// order; the order is part of the contract.

// applyCollectionPrevention is Rule 1. For each file it builds a synthetic
// context for the target's category folder, carrying the extension
// histogram of every file planned under that category, and drops the
// subcategory segment when the redundancy oracle fires (Audio/MP3/x.mp3
// becomes Audio/x.mp3).
func applyCollectionPrevention(root string, placements map[string]string, results map[string]rules.Result) map[string]string {
	histograms := make(map[string]map[string]int)
	counts := make(map[string]int)
	for path, target := range placements {
		category := firstSegment(root, target)
		if category == "" {
			continue
		}
		counts[category]++
		if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
			if histograms[category] == nil {
				histograms[category] = make(map[string]int)
			}
			histograms[category][ext]++
		}
	}

	out := make(map[string]string, len(placements))
	for path, target := range placements {
		out[path] = target

		r, ok := results[path]
		if !ok || r.Subcategory == "" || r.Subcategory == r.Category {
			continue
		}
		category := firstSegment(root, target)
		if category == "" {
			continue
		}
		parent := filepath.Dir(target)
		if filepath.Base(parent) != r.Subcategory {
			continue
		}

		synthetic := folder.Synthetic(category, histograms[category], counts[category])
		if folder.WouldCreateRedundancy(synthetic, r) {
			out[path] = filepath.Join(filepath.Dir(parent), filepath.Base(target))
		}
	}
	return out
}

// applyMinGroupSize is Rule 2. Folders left with fewer than minGroup files
// have their files collapsed one level up, repeatedly until stable, so
// applying the rule to an already-collapsed map is a no-op. Folders sitting
// directly under the scan root are the floor and never collapse further.
func applyMinGroupSize(root string, placements map[string]string, minGroup int) map[string]string {
	out := copyMap(placements)
	if minGroup <= 1 {
		return out
	}

	for {
		counts := make(map[string]int)
		for _, target := range out {
			counts[filepath.Dir(target)]++
		}

		changed := false
		for path, target := range out {
			dir := filepath.Dir(target)
			if dir == root || filepath.Dir(dir) == root {
				continue
			}
			if counts[dir] >= minGroup {
				continue
			}
			out[path] = filepath.Join(filepath.Dir(dir), filepath.Base(target))
			changed = true
		}
		if !changed {
			return out
		}
	}
}

// applyDepthLimit is Rule 3. Targets deeper than maxDepth directory
// segments below the scan root keep their first maxDepth segments and the
// filename; everything in between is dropped.
func applyDepthLimit(root string, placements map[string]string, maxDepth int) map[string]string {
	out := copyMap(placements)
	if maxDepth <= 0 {
		return out
	}

	for path, target := range out {
		dirs := segments(root, filepath.Dir(target))
		if len(dirs) <= maxDepth {
			continue
		}
		parts := append([]string{root}, dirs[:maxDepth]...)
		parts = append(parts, filepath.Base(target))
		out[path] = filepath.Join(parts...)
	}
	return out
}

// applySiblingMerge is Rule 4. When two or more sibling folders under the
// same grandparent each hold at most mergeThreshold files, all of their
// files merge up into the grandparent. The scan root never absorbs merges.
func applySiblingMerge(root string, placements map[string]string, mergeThreshold int) map[string]string {
	out := copyMap(placements)
	if mergeThreshold <= 0 {
		return out
	}

	counts := make(map[string]int)
	for _, target := range out {
		counts[filepath.Dir(target)]++
	}

	siblings := make(map[string][]string) // grandparent -> small sibling dirs
	for dir, count := range counts {
		if dir == root || count > mergeThreshold {
			continue
		}
		grandparent := filepath.Dir(dir)
		if grandparent == root || !strings.HasPrefix(dir, root+string(filepath.Separator)) {
			continue
		}
		siblings[grandparent] = append(siblings[grandparent], dir)
	}

	merge := make(map[string]string) // small dir -> grandparent
	for grandparent, dirs := range siblings {
		if len(dirs) < 2 {
			continue
		}
		for _, dir := range dirs {
			merge[dir] = grandparent
		}
	}

	for path, target := range out {
		if grandparent, ok := merge[filepath.Dir(target)]; ok {
			out[path] = filepath.Join(grandparent, filepath.Base(target))
		}
	}
	return out
}

// applyContextCollapse is Rule 5. Within each target's directory segments it
// removes any segment repeating an earlier one case-insensitively, keeping
// the first occurrence; duplicates need not be adjacent.
func applyContextCollapse(root string, placements map[string]string) map[string]string {
	out := copyMap(placements)
	for path, target := range out {
		dirs := segments(root, filepath.Dir(target))
		seen := make(map[string]struct{}, len(dirs))
		kept := dirs[:0:0]
		for _, seg := range dirs {
			key := strings.ToLower(seg)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			kept = append(kept, seg)
		}
		if len(kept) == len(dirs) {
			continue
		}
		parts := append([]string{root}, kept...)
		parts = append(parts, filepath.Base(target))
		out[path] = filepath.Join(parts...)
	}
	return out
}

// segments splits dir into its path components below root. It returns nil
// when dir is the root itself or lies outside it.
func segments(root, dir string) []string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}

func firstSegment(root, target string) string {
	dirs := segments(root, filepath.Dir(target))
	if len(dirs) == 0 {
		return ""
	}
	return dirs[0]
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
