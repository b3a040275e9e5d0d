// Package match holds class lookup results and the ordered builder that accumulates them.
package match

import "path/filepath"

// Tier names the resolution stage that produced a result.
type Tier string

const (
	TierLocal      Tier = "local"
	TierDependency Tier = "dependency"
	TierFlatDir    Tier = "flatdir"
)

// Result is one place a class resolves from.
type Result struct {
	Location       string `json:"location"`
	SourceLocation string `json:"sourceLocation,omitempty"`
	Coordinate     string `json:"coordinate"`
	ClassName      string `json:"className"`
	IsLocal        bool   `json:"isLocal"`
	Tier           Tier   `json:"tier"`
}

// HasSource reports whether a source form of the match is available.
func (r Result) HasSource() bool {
	return r.SourceLocation != ""
}

// Builder accumulates results in discovery order. It never reorders and
// hands out copies, so appended results cannot be modified.
type Builder struct {
	results   []Result
	locations map[string]struct{}
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{locations: make(map[string]struct{})}
}

// Append adds r unconditionally.
func (b *Builder) Append(r Result) {
	b.results = append(b.results, r)
	b.locations[canonical(r.Location)] = struct{}{}
}

// AppendUnique adds r unless its location is already present. It reports whether r was added.
func (b *Builder) AppendUnique(r Result) bool {
	if b.Has(r.Location) {
		return false
	}
	b.Append(r)
	return true
}

// Has reports whether any accumulated result has the given location,
// comparing symlink-resolved paths.
func (b *Builder) Has(location string) bool {
	_, ok := b.locations[canonical(location)]
	return ok
}

// canonical resolves symlinks so one file reached through two paths is one
// location. Paths that cannot be resolved are only cleaned.
func canonical(location string) string {
	if location == "" {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(location); err == nil {
		return resolved
	}
	return filepath.Clean(location)
}

// Len returns the number of accumulated results.
func (b *Builder) Len() int {
	return len(b.results)
}

// Results returns a copy of the accumulated results. The slice is never nil.
func (b *Builder) Results() []Result {
	out := make([]Result, len(b.results))
	copy(out, b.results)
	return out
}

// CountByTier tallies results per tier.
func CountByTier(results []Result) map[Tier]int {
	counts := make(map[Tier]int, 3)
	for _, r := range results {
		counts[r.Tier]++
	}
	return counts
}
