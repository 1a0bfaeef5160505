package resolver

import (
	"errors"
	"fmt"
)

// Source tags why a file landed at its target.
type Source string

const (
	SourceRule      Source = "rule"
	SourceAI        Source = "ai"
	SourceContext   Source = "context"
	SourceSkip      Source = "skip"
	SourceProtected Source = "protected"
)

// Decision is the final placement verdict for one file. Decisions are value
// objects: conflict validation replaces them with copies, it never mutates
// one in place.
type Decision struct {
	Path   string
	Target string
	Reason string
	Source Source

	// Conflicts lists the other source paths computed to the same target.
	// Empty unless a naming collision was detected.
	Conflicts []string

	// Safe is false exactly when Conflicts is non-empty.
	Safe bool

	// WillMove is true when the target differs from the current path and
	// the decision is safe to act on.
	WillMove bool
}

var ErrInvalidAIResult = errors.New("invalid semantic grouping result")

// AIResult is a semantic-grouping suggestion produced by an external
// collaborator. The resolver validates these but does not yet fold them
// into target-path construction; see Resolve.
type AIResult struct {
	Path       string
	Group      string
	Confidence float64
	Similar    []string
}

// NewAIResult builds a validated grouping result. The similar set must hold
// at least two members including the subject file, and confidence must lie
// in [0, 1].
func NewAIResult(path, group string, confidence float64, similar []string) (AIResult, error) {
	r := AIResult{Path: path, Group: group, Confidence: confidence, Similar: similar}
	if err := r.Validate(); err != nil {
		return AIResult{}, err
	}
	return r, nil
}

func (r AIResult) Validate() error {
	if r.Path == "" || r.Group == "" {
		return fmt.Errorf("%w: missing file or group name", ErrInvalidAIResult)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", ErrInvalidAIResult, r.Confidence)
	}
	if len(r.Similar) < 2 {
		return fmt.Errorf("%w: similar set needs at least 2 members", ErrInvalidAIResult)
	}
	for _, p := range r.Similar {
		if p == r.Path {
			return nil
		}
	}
	return fmt.Errorf("%w: similar set does not contain the subject file", ErrInvalidAIResult)
}
