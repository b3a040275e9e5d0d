package envelope

import (
	"time"

	"gcf/internal/coords"
	"gcf/internal/errors"
	"gcf/internal/match"
)

// Builder constructs Response envelopes using a fluent API.
type Builder struct {
	resp *Response
}

// New creates a new envelope builder.
func New() *Builder {
	return &Builder{
		resp: &Response{
			SchemaVersion: CurrentSchemaVersion,
		},
	}
}

// Data sets the payload.
func (b *Builder) Data(data interface{}) *Builder {
	b.resp.Data = data
	return b
}

func (b *Builder) meta() *Meta {
	if b.resp.Meta == nil {
		b.resp.Meta = &Meta{}
	}
	return b.resp.Meta
}

func (b *Builder) provenance() *Provenance {
	m := b.meta()
	if m.Provenance == nil {
		m.Provenance = &Provenance{}
	}
	return m.Provenance
}

// Provider records which build model source answered.
func (b *Builder) Provider(name string) *Builder {
	if name != "" {
		b.provenance().Provider = name
	}
	return b
}

// Module records the Gradle path the request was scoped to.
func (b *Builder) Module(gradlePath string) *Builder {
	if gradlePath != "" {
		b.provenance().Module = gradlePath
	}
	return b
}

// FromMatches records per-tier hit counts and confidence for a class lookup,
// and suggests retrieving the source of the first match.
func (b *Builder) FromMatches(results []match.Result) *Builder {
	tiers := map[string]int{
		string(match.TierLocal):      0,
		string(match.TierDependency): 0,
		string(match.TierFlatDir):    0,
	}
	for tier, n := range match.CountByTier(results) {
		tiers[string(tier)] = n
	}
	b.provenance().Tiers = tiers

	score := LookupScore(tiers)
	conf := &Confidence{Score: score, Tier: ScoreToTier(score)}
	if len(results) == 0 {
		conf.Reasons = append(conf.Reasons, "no-matches")
	} else if tiers[string(match.TierLocal)] == 0 {
		conf.Reasons = append(conf.Reasons, "binary-only")
	}
	b.meta().Confidence = conf

	if len(results) == 0 {
		return b
	}
	first := results[0]
	location := first.Location
	if first.HasSource() {
		location = first.SourceLocation
	}
	reason := "Read the source of the first match"
	switch {
	case coords.IsLocal(first.Coordinate):
		reason = "Read the local source file of the first match"
	case coords.IsFlatDir(first.Coordinate) && !first.HasSource():
		reason = "Decompile the first match; flat-directory jars carry no sources"
	}
	b.resp.SuggestedNextCalls = append(b.resp.SuggestedNextCalls, SuggestedCall{
		Tool: "get_source_code",
		Params: map[string]interface{}{
			"jar_path":   location,
			"class_name": first.ClassName,
		},
		Reason: reason,
	})
	return b
}

// FromSource records the source origin and, when a line range was applied,
// the truncation relative to the full text.
func (b *Builder) FromSource(origin string, shown, total int) *Builder {
	b.provenance().Origin = origin

	score := OriginScore(origin)
	conf := &Confidence{Score: score, Tier: ScoreToTier(score)}
	if origin == "decompiled" {
		conf.Reasons = append(conf.Reasons, "decompiled")
	}
	b.meta().Confidence = conf

	return b.WithTruncation(shown < total, shown, total, "line-range")
}

// WithTruncation adds truncation metadata.
func (b *Builder) WithTruncation(truncated bool, shown, total int, reason string) *Builder {
	if !truncated {
		return b
	}
	b.meta().Truncation = &Truncation{
		IsTruncated: true,
		Shown:       shown,
		Total:       total,
		Reason:      reason,
	}
	return b
}

// Duration records how long the request took.
func (b *Builder) Duration(d time.Duration) *Builder {
	b.meta().DurationMs = d.Milliseconds()
	return b
}

// Suggest appends a follow-up call.
func (b *Builder) Suggest(tool, reason string, params map[string]interface{}) *Builder {
	b.resp.SuggestedNextCalls = append(b.resp.SuggestedNextCalls, SuggestedCall{Tool: tool, Params: params, Reason: reason})
	return b
}

// Warning adds a warning message.
func (b *Builder) Warning(msg string) *Builder {
	b.resp.Warnings = append(b.resp.Warnings, Warning{Message: msg})
	return b
}

// WarningWithCode adds a warning with a code.
func (b *Builder) WarningWithCode(code, msg string) *Builder {
	b.resp.Warnings = append(b.resp.Warnings, Warning{Code: code, Message: msg})
	return b
}

// Error sets the error field. Fixes come from the error itself when it
// carries any, else from the defaults for its code.
func (b *Builder) Error(err error) *Builder {
	if err == nil {
		return b
	}
	code := errors.CodeOf(err)
	info := &ErrorInfo{Code: code, Message: err.Error()}

	var e *errors.Error
	if errors.As(err, &e) {
		info.Message = e.Message
		if cause := e.Unwrap(); cause != nil {
			info.Message += ": " + cause.Error()
		}
		info.Details = e.Details
		info.SuggestedFixes = e.SuggestedFixes
	}
	if len(info.SuggestedFixes) == 0 {
		info.SuggestedFixes = errors.GetSuggestedFixes(code)
	}
	b.resp.Error = info
	return b
}

// Build returns the completed response envelope.
func (b *Builder) Build() *Response {
	return b.resp
}

// Operational creates a simple envelope for listing and inspection commands.
func Operational(data interface{}) *Response {
	return &Response{
		SchemaVersion: CurrentSchemaVersion,
		Data:          data,
		Meta: &Meta{
			Confidence: &Confidence{
				Score: 1.0,
				Tier:  TierHigh,
			},
		},
	}
}
