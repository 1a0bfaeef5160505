// Package resolver computes, for every file in a scanned tree, where an
// organize pass should put it. It only decides: no filesystem mutation
// happens here, and detected naming conflicts are flagged, not resolved.
package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"tidyplan/internal/roots"
	"tidyplan/internal/rules"
	"tidyplan/internal/tree"
)

type Config struct {
	MinGroupSize      int
	MaxDepth          int
	MergeThreshold    int
	MinRootConfidence float64
	RespectRoots      bool
	PreventRedundancy bool
}

func DefaultConfig() Config {
	return Config{
		MinGroupSize:      5,
		MaxDepth:          3,
		MergeThreshold:    3,
		MinRootConfidence: roots.DefaultMinConfidence,
		RespectRoots:      true,
		PreventRedundancy: true,
	}
}

type Resolver struct {
	cfg      Config
	detector *roots.Detector
}

func New(cfg Config) *Resolver {
	if cfg.MinGroupSize <= 0 {
		cfg.MinGroupSize = 5
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 3
	}
	if cfg.MergeThreshold <= 0 {
		cfg.MergeThreshold = 3
	}
	return &Resolver{
		cfg:      cfg,
		detector: roots.New(cfg.MinRootConfidence),
	}
}

// Resolve turns a tree snapshot and its classification results into one
// decision per file. aiResults is a declared extension point: the groupings
// are validated up front but do not yet influence target paths.
//
// Steps, strictly ordered: root protection, initial category/subcategory
// placement, the five anti-redundancy transforms, decision assembly,
// conflict validation.
func (r *Resolver) Resolve(ctx context.Context, root tree.Node, results []rules.Result, aiResults []AIResult) ([]Decision, error) {
	for _, ai := range aiResults {
		if err := ai.Validate(); err != nil {
			return nil, err
		}
	}

	var detected []roots.Info
	if r.cfg.RespectRoots {
		detected = r.detector.Detect(root)
	}

	protected := make(map[string]roots.Info)
	files := root.Files()
	for _, f := range files {
		for _, info := range detected {
			if info.Contains(f.Path) {
				protected[f.Path] = info
				break
			}
		}
	}

	resultByPath := make(map[string]rules.Result, len(results))
	placements := make(map[string]string, len(results))
	for _, res := range results {
		if _, isProtected := protected[res.Path]; isProtected {
			continue
		}
		resultByPath[res.Path] = res
		placements[res.Path] = initialTarget(root.Path, res)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contextual := make(map[string]struct{})
	if r.cfg.PreventRedundancy {
		rewritten := applyCollectionPrevention(root.Path, placements, resultByPath)
		for path, target := range rewritten {
			if placements[path] != target {
				contextual[path] = struct{}{}
			}
		}
		placements = rewritten
	}
	placements = applyMinGroupSize(root.Path, placements, r.cfg.MinGroupSize)
	placements = applyDepthLimit(root.Path, placements, r.cfg.MaxDepth)
	placements = applySiblingMerge(root.Path, placements, r.cfg.MergeThreshold)
	placements = applyContextCollapse(root.Path, placements)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decisions := assemble(files, placements, resultByPath, protected, contextual)
	return validateConflicts(decisions), nil
}

func initialTarget(root string, r rules.Result) string {
	parts := []string{root, r.Category}
	if r.Subcategory != "" && r.Subcategory != r.Category {
		parts = append(parts, r.Subcategory)
	}
	parts = append(parts, filepath.Base(r.Path))
	return filepath.Join(parts...)
}

func assemble(files []tree.Node, placements map[string]string, results map[string]rules.Result, protected map[string]roots.Info, contextual map[string]struct{}) []Decision {
	decisions := make([]Decision, 0, len(files))
	for _, f := range files {
		if info, ok := protected[f.Path]; ok {
			decisions = append(decisions, Decision{
				Path:   f.Path,
				Target: f.Path,
				Reason: fmt.Sprintf("inside protected %s root %q", info.Type, filepath.Base(info.Path)),
				Source: SourceProtected,
				Safe:   true,
			})
			continue
		}

		target, ok := placements[f.Path]
		if !ok {
			decisions = append(decisions, Decision{
				Path:   f.Path,
				Target: f.Path,
				Reason: "no matching rule",
				Source: SourceSkip,
				Safe:   true,
			})
			continue
		}

		source := SourceRule
		if _, ok := contextual[f.Path]; ok {
			source = SourceContext
		}
		res := results[f.Path]

		reason := "matched " + res.Category
		if res.Subcategory != "" {
			reason = fmt.Sprintf("matched %s/%s", res.Category, res.Subcategory)
		}
		if target == f.Path {
			reason = "already in correct location"
		}

		decisions = append(decisions, Decision{
			Path:     f.Path,
			Target:   target,
			Reason:   reason,
			Source:   source,
			Safe:     true,
			WillMove: target != f.Path,
		})
	}

	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].Path < decisions[j].Path
	})
	return decisions
}

// validateConflicts groups decisions by target path. Every decision in a
// group claimed more than once is replaced by a copy carrying Safe=false
// and the other contenders' source paths. Disambiguation is the
// move-executor's job, not this layer's.
func validateConflicts(decisions []Decision) []Decision {
	byTarget := make(map[string][]int)
	for i, d := range decisions {
		byTarget[d.Target] = append(byTarget[d.Target], i)
	}

	out := make([]Decision, len(decisions))
	copy(out, decisions)
	for _, indexes := range byTarget {
		if len(indexes) < 2 {
			continue
		}
		for _, i := range indexes {
			conflicts := make([]string, 0, len(indexes)-1)
			for _, j := range indexes {
				if j != i {
					conflicts = append(conflicts, decisions[j].Path)
				}
			}
			sort.Strings(conflicts)

			replaced := decisions[i]
			replaced.Conflicts = conflicts
			replaced.Safe = false
			replaced.WillMove = false
			out[i] = replaced
		}
	}
	return out
}
