// Package envelope wraps every tool and CLI response in a consistent shape
// carrying provenance, confidence, truncation, warnings, errors and suggested
// follow-up calls next to the payload.
package envelope

import "gcf/internal/errors"

// ConfidenceTier represents how directly a result reflects real source.
type ConfidenceTier string

const (
	// TierHigh is source read from disk or from an embedded source entry.
	TierHigh ConfidenceTier = "high"
	// TierMedium is decompiled source, or a lookup with only binary hits.
	TierMedium ConfidenceTier = "medium"
	// TierLow is an empty lookup result.
	TierLow ConfidenceTier = "low"
)

// Confidence describes result quality.
type Confidence struct {
	Score   float64        `json:"score"`
	Tier    ConfidenceTier `json:"tier"`
	Reasons []string       `json:"reasons,omitempty"`
}

// Provenance describes where the result came from.
type Provenance struct {
	// Provider is the build model source: gradle, snapshot or static.
	Provider string `json:"provider,omitempty"`
	// Tiers maps each lookup tier to its hit count.
	Tiers map[string]int `json:"tiers,omitempty"`
	// Origin is the source origin: file, sourceEntry or decompiled.
	Origin string `json:"origin,omitempty"`
	Module string `json:"module,omitempty"`
}

// Truncation describes result trimming.
type Truncation struct {
	IsTruncated bool   `json:"isTruncated"`
	Shown       int    `json:"shown,omitempty"`
	Total       int    `json:"total,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Meta holds response metadata.
type Meta struct {
	Confidence *Confidence `json:"confidence,omitempty"`
	Provenance *Provenance `json:"provenance,omitempty"`
	Truncation *Truncation `json:"truncation,omitempty"`
	DurationMs int64       `json:"durationMs,omitempty"`
}

// SuggestedCall represents a recommended follow-up tool call.
type SuggestedCall struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params,omitempty"`
	Reason string                 `json:"reason,omitempty"`
}

// Warning represents a non-fatal issue.
type Warning struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ErrorInfo is the serialized form of a failed request.
type ErrorInfo struct {
	Code           errors.ErrorCode   `json:"code"`
	Message        string             `json:"message"`
	Details        interface{}        `json:"details,omitempty"`
	SuggestedFixes []errors.FixAction `json:"suggestedFixes,omitempty"`
}

// Response is the standard envelope.
type Response struct {
	SchemaVersion      string          `json:"schemaVersion"`
	Data               interface{}     `json:"data"`
	Meta               *Meta           `json:"meta,omitempty"`
	Warnings           []Warning       `json:"warnings,omitempty"`
	Error              *ErrorInfo      `json:"error,omitempty"`
	SuggestedNextCalls []SuggestedCall `json:"suggestedNextCalls,omitempty"`
}

// CurrentSchemaVersion is the current envelope schema version.
const CurrentSchemaVersion = "1.0"
