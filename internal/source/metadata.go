package source

import (
	"context"

	"gcf/internal/outline"
)

// Metadata summarizes retrieved source without returning its text.
type Metadata struct {
	Location    string           `json:"location"`
	ClassName   string           `json:"className"`
	Origin      Origin           `json:"origin"`
	Language    outline.Language `json:"language"`
	TotalLines  int              `json:"totalLines"`
	SizeBytes   int              `json:"sizeBytes"`
	TypeCount   int              `json:"typeCount"`
	MethodCount int              `json:"methodCount"`
	Types       []outline.Symbol `json:"types"`
	Methods     []outline.Symbol `json:"methods"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// GetMetadata retrieves the full source and outlines it. When the outline
// cannot be built the counts are still returned, with a warning.
func (r *Retriever) GetMetadata(ctx context.Context, location, className string) (*Metadata, error) {
	res, err := r.GetSource(ctx, Request{Location: location, ClassName: className})
	if err != nil {
		return nil, err
	}

	md := &Metadata{
		Location:   res.Location,
		ClassName:  res.ClassName,
		Origin:     res.Origin,
		Language:   res.Language,
		TotalLines: res.TotalLines,
		SizeBytes:  len(res.Text),
		Types:      []outline.Symbol{},
		Methods:    []outline.Symbol{},
	}

	out, err := outline.Extract(ctx, []byte(res.Text), res.Language)
	if err != nil {
		r.logger().Debug("Outline unavailable", "location", location, "error", err)
		md.Warnings = append(md.Warnings, "outline unavailable: "+err.Error())
		return md, nil
	}
	if out.Types != nil {
		md.Types = out.Types
	}
	if out.Methods != nil {
		md.Methods = out.Methods
	}
	md.TypeCount = len(out.Types)
	md.MethodCount = len(out.Methods)
	return md, nil
}
