package mcp

import (
	"context"
	"time"

	"gcf/internal/envelope"
	"gcf/internal/errors"
	"gcf/internal/finder"
	"gcf/internal/gradle"
	"gcf/internal/source"
)

func (s *MCPServer) toolFindClass(ctx context.Context, params map[string]interface{}) (*envelope.Response, error) {
	root, err := requiredString(params, "workspace_dir")
	if err != nil {
		return nil, err
	}
	className, err := requiredString(params, "class_name")
	if err != nil {
		return nil, err
	}
	submodule, err := optionalString(params, "submodule_path")
	if err != nil {
		return nil, err
	}
	if s.opts.Finder == nil {
		return nil, errors.New(errors.InternalError, "class finder is not configured", nil)
	}

	start := time.Now()
	results, err := s.opts.Finder.FindClass(ctx, finder.Request{
		ProjectRoot:   root,
		ClassName:     className,
		SubmodulePath: submodule,
	})
	if err != nil {
		return nil, err
	}

	b := envelope.New().
		Data(map[string]interface{}{"results": results}).
		Provider(s.opts.Provider).
		Module(gradle.ToGradlePath(submodule)).
		FromMatches(results).
		Duration(time.Since(start))
	if len(results) == 0 {
		b.WarningWithCode("NOT_FOUND", "class was not found locally, in dependencies, or in flat-dir repositories")
	}
	return b.Build(), nil
}

func (s *MCPServer) toolGetSourceCode(ctx context.Context, params map[string]interface{}) (*envelope.Response, error) {
	location, err := requiredString(params, "jar_path")
	if err != nil {
		return nil, err
	}
	className, err := requiredString(params, "class_name")
	if err != nil {
		return nil, err
	}
	lineStart, err := optionalInt(params, "line_start")
	if err != nil {
		return nil, err
	}
	lineEnd, err := optionalInt(params, "line_end")
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.retriever().GetSource(ctx, source.Request{
		Location:  location,
		ClassName: className,
		LineStart: lineStart,
		LineEnd:   lineEnd,
	})
	if err != nil {
		return nil, err
	}

	shown := res.TotalLines
	if lineStart != nil || lineEnd != nil {
		shown = 0
		if res.Range != nil {
			shown = res.Range.End - res.Range.Start + 1
		}
	}
	b := envelope.New().
		Data(res).
		FromSource(string(res.Origin), shown, res.TotalLines).
		Duration(time.Since(start))
	if res.Origin == source.OriginDecompiled {
		b.Warning("source was decompiled; names and formatting may differ from the original")
	}
	return b.Build(), nil
}

func (s *MCPServer) toolGetSourceMetadata(ctx context.Context, params map[string]interface{}) (*envelope.Response, error) {
	location, err := requiredString(params, "jar_path")
	if err != nil {
		return nil, err
	}
	className, err := requiredString(params, "class_name")
	if err != nil {
		return nil, err
	}

	start := time.Now()
	md, err := s.retriever().GetMetadata(ctx, location, className)
	if err != nil {
		return nil, err
	}

	b := envelope.New().
		Data(md).
		FromSource(string(md.Origin), md.TotalLines, md.TotalLines).
		Duration(time.Since(start))
	for _, w := range md.Warnings {
		b.Warning(w)
	}
	if md.MethodCount > 0 {
		b.Suggest("get_source_code", "Read the source of the first method", map[string]interface{}{
			"jar_path":   location,
			"class_name": className,
			"line_start": md.Methods[0].Line,
			"line_end":   md.Methods[0].EndLine,
		})
	}
	return b.Build(), nil
}

// retriever falls back to a Retriever without decompiler when none is set.
func (s *MCPServer) retriever() *source.Retriever {
	if s.opts.Retriever != nil {
		return s.opts.Retriever
	}
	return source.NewRetriever(nil, s.logger)
}
