package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gcf/internal/envelope"
	"gcf/internal/gradle"
	"gcf/internal/match"
	"gcf/internal/source"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

func parseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatHuman, "":
		return FormatHuman, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (want json or human)", s)
	}
}

// writeResponse prints resp as indented JSON, or its payload in human form.
func writeResponse(w io.Writer, resp *envelope.Response, format OutputFormat) error {
	var out string
	var err error
	if format == FormatJSON {
		out, err = formatJSON(resp)
	} else {
		out, err = formatHuman(resp)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman renders the payload; unknown payloads fall back to JSON.
func formatHuman(resp *envelope.Response) (string, error) {
	var body string
	switch v := resp.Data.(type) {
	case findData:
		body = formatMatchesHuman(v.Results)
	case *source.Result:
		body = v.Text
	case *source.Metadata:
		body = formatMetadataHuman(v)
	case *gradle.Project:
		body = formatModulesHuman(v)
	case inspectData:
		body = formatEntriesHuman(v)
	default:
		return formatJSON(resp)
	}

	var b strings.Builder
	b.WriteString(body)
	for _, w := range resp.Warnings {
		b.WriteString("\nwarning: " + w.Message)
	}
	return b.String(), nil
}

func formatMatchesHuman(results []match.Result) string {
	if len(results) == 0 {
		return "No matches."
	}
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-10s %s\n", r.Tier, r.Coordinate)
		fmt.Fprintf(&b, "           %s", r.Location)
		if r.HasSource() && r.SourceLocation != r.Location {
			fmt.Fprintf(&b, "\n           source: %s", r.SourceLocation)
		}
	}
	return b.String()
}

func formatMetadataHuman(md *source.Metadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %s)\n", md.ClassName, md.Language, md.Origin)
	fmt.Fprintf(&b, "  %d lines, %d bytes, %d types, %d methods", md.TotalLines, md.SizeBytes, md.TypeCount, md.MethodCount)
	for _, t := range md.Types {
		fmt.Fprintf(&b, "\n  %-10s %s  L%d-%d", t.Kind, qualified(t.Container, t.Name), t.Line, t.EndLine)
	}
	for _, m := range md.Methods {
		fmt.Fprintf(&b, "\n  %-10s %s  L%d-%d  cc=%d", m.Kind, qualified(m.Container, m.Name), m.Line, m.EndLine, m.Cyclomatic)
	}
	return b.String()
}

func qualified(container, name string) string {
	if container == "" {
		return name
	}
	return container + "." + name
}

func formatModulesHuman(p *gradle.Project) string {
	var b strings.Builder
	if p.GradleVersion != "" {
		fmt.Fprintf(&b, "Gradle %s\n", p.GradleVersion)
	}
	var walk func(m *gradle.Module, depth int)
	walk = func(m *gradle.Module, depth int) {
		fmt.Fprintf(&b, "%s%s", strings.Repeat("  ", depth), m.Path)
		if m.Dir != "" {
			fmt.Fprintf(&b, "  %s", m.Dir)
		}
		fmt.Fprintf(&b, "  (%d dependencies)\n", len(m.Dependencies))
		for _, c := range m.Children {
			walk(c, depth+1)
		}
	}
	walk(p.Root, 0)
	return strings.TrimRight(b.String(), "\n")
}

func formatEntriesHuman(d inspectData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d entries)", d.Coordinate, len(d.Entries))
	for _, e := range d.Entries {
		fmt.Fprintf(&b, "\n%10d  %s", e.Size, e.Name)
	}
	return b.String()
}
