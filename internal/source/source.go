// Package source turns a find result's location into class source text.
//
// A plain .java or .kt location is read directly. A .jar location yields an
// embedded source entry when one exists, otherwise the class is decompiled.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gcf/internal/archive"
	"gcf/internal/decompile"
	"gcf/internal/errors"
	"gcf/internal/outline"
)

const tracerName = "gcf.source"

// Origin says where the returned text came from.
type Origin string

const (
	OriginFile        Origin = "file"
	OriginSourceEntry Origin = "sourceEntry"
	OriginDecompiled  Origin = "decompiled"
)

// Request names the class to retrieve. LineStart and LineEnd are optional
// inclusive 1-based bounds.
type Request struct {
	Location  string
	ClassName string
	LineStart *int
	LineEnd   *int
}

// Result is retrieved source, already line filtered.
type Result struct {
	Location  string           `json:"location"`
	ClassName string           `json:"className"`
	Origin    Origin           `json:"origin"`
	Entry     string           `json:"entry,omitempty"`
	Language  outline.Language `json:"language"`
	// TotalLines counts the unfiltered text.
	TotalLines int        `json:"totalLines"`
	Range      *LineRange `json:"range,omitempty"`
	Text       string     `json:"text"`
}

// Retriever resolves locations to text. Decompiler may be nil, in which case
// archives without an embedded source entry fail.
type Retriever struct {
	Decompiler decompile.Decompiler
	Logger     *slog.Logger
}

// NewRetriever returns a Retriever. A nil logger discards output.
func NewRetriever(d decompile.Decompiler, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Retriever{Decompiler: d, Logger: logger}
}

// GetSource returns the source of req.ClassName at req.Location.
func (r *Retriever) GetSource(ctx context.Context, req Request) (res *Result, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "source.Retriever.GetSource",
		trace.WithAttributes(
			attribute.String("gcf.location", req.Location),
			attribute.String("gcf.class_name", req.ClassName),
		),
	)
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	res, err = r.load(ctx, req.Location, req.ClassName)
	if err != nil {
		return nil, err
	}
	res.TotalLines = CountLines(res.Text)
	if req.LineStart != nil || req.LineEnd != nil {
		if rng, ok := Clamp(res.TotalLines, req.LineStart, req.LineEnd); ok {
			res.Range = &rng
		}
		res.Text = FilterLines(res.Text, req.LineStart, req.LineEnd)
	}
	span.SetAttributes(attribute.String("gcf.origin", string(res.Origin)))
	return res, nil
}

func (r *Retriever) load(ctx context.Context, location, className string) (*Result, error) {
	if strings.TrimSpace(location) == "" {
		return nil, errors.NewInvalidArgumentsError("location", "must not be empty")
	}
	if strings.TrimSpace(className) == "" {
		return nil, errors.NewInvalidArgumentsError("className", "must not be empty")
	}

	ext := filepath.Ext(location)
	lang, isSource := outline.LanguageFromExtension(ext)
	if !isSource && ext != archive.Extension {
		return nil, errors.NewUnsupportedLocationError(location)
	}
	if info, err := os.Stat(location); err != nil || info.IsDir() {
		return nil, errors.NewInvalidArgumentsError("location", fmt.Sprintf("file does not exist: %s", location))
	}

	res := &Result{Location: location, ClassName: className}

	if isSource {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, errors.New(errors.SourceReadFailed, "cannot read source file", err).
				WithDetails(map[string]string{"location": location})
		}
		res.Origin = OriginFile
		res.Language = lang
		res.Text = string(data)
		return res, nil
	}

	for _, sext := range archive.SourceExtensions {
		entry := archive.SourceEntryName(className, sext)
		if text, ok := archive.ExtractEntryText(location, entry); ok {
			r.logger().Debug("Using embedded source entry", "archive", location, "entry", entry)
			res.Origin = OriginSourceEntry
			res.Entry = entry
			res.Language, _ = outline.LanguageFromExtension(sext)
			res.Text = text
			return res, nil
		}
	}

	if r.Decompiler == nil {
		return nil, errors.NewDecompilationError(className, fmt.Errorf("no embedded source and no decompiler configured"))
	}
	r.logger().Debug("No embedded source, decompiling", "archive", location, "class", className)
	text, err := r.Decompiler.Decompile(ctx, location, className)
	if err != nil {
		if errors.CodeOf(err) == errors.DecompilationFailed {
			return nil, err
		}
		return nil, errors.NewDecompilationError(className, err)
	}
	res.Origin = OriginDecompiled
	res.Language = outline.LangJava
	res.Text = text
	return res, nil
}

func (r *Retriever) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
