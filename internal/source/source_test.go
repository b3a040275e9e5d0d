package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"gcf/internal/errors"
	"gcf/internal/outline"
	"gcf/internal/testutil"
)

type fakeDecompiler struct {
	text  string
	err   error
	calls int
}

func (f *fakeDecompiler) Decompile(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func intp(n int) *int { return &n }

func TestGetSource_PlainFile(t *testing.T) {
	dir := t.TempDir()
	javaPath := testutil.WriteFile(t, filepath.Join(dir, "Foo.java"), "class Foo {}\n")
	ktPath := testutil.WriteFile(t, filepath.Join(dir, "Bar.kt"), "class Bar\n")

	r := NewRetriever(nil, nil)
	tests := []struct {
		path string
		want string
		lang outline.Language
	}{
		{javaPath, "class Foo {}\n", outline.LangJava},
		{ktPath, "class Bar\n", outline.LangKotlin},
	}
	for _, tt := range tests {
		res, err := r.GetSource(context.Background(), Request{Location: tt.path, ClassName: "x.Foo"})
		if err != nil {
			t.Fatalf("GetSource(%s) error = %v", tt.path, err)
		}
		if res.Text != tt.want || res.Origin != OriginFile || res.Language != tt.lang {
			t.Errorf("GetSource(%s) = %+v", tt.path, res)
		}
		if res.TotalLines != 1 {
			t.Errorf("TotalLines = %d, want 1", res.TotalLines)
		}
	}
}

func TestGetSource_EmbeddedEntry(t *testing.T) {
	dir := t.TempDir()
	jar := testutil.WriteJar(t, filepath.Join(dir, "lib-sources.jar"), map[string]string{
		"com/example/Foo.java": "package com.example;\nclass Foo {}\n",
		"com/example/Bar.kt":   "package com.example\nclass Bar\n",
	})
	dec := &fakeDecompiler{text: "decompiled"}
	r := NewRetriever(dec, nil)

	res, err := r.GetSource(context.Background(), Request{Location: jar, ClassName: "com.example.Foo$Inner"})
	if err != nil {
		t.Fatalf("GetSource() error = %v", err)
	}
	if res.Origin != OriginSourceEntry || res.Entry != "com/example/Foo.java" {
		t.Errorf("GetSource() = %+v, want the .java entry", res)
	}

	res, err = r.GetSource(context.Background(), Request{Location: jar, ClassName: "com.example.Bar"})
	if err != nil {
		t.Fatalf("GetSource() error = %v", err)
	}
	if res.Entry != "com/example/Bar.kt" || res.Language != outline.LangKotlin {
		t.Errorf("GetSource() = %+v, want the .kt entry", res)
	}
	if dec.calls != 0 {
		t.Errorf("decompiler called %d times, want 0", dec.calls)
	}
}

func TestGetSource_Decompiles(t *testing.T) {
	jar := testutil.ClassJar(t, filepath.Join(t.TempDir(), "lib.jar"), "com.example.Foo")
	dec := &fakeDecompiler{text: "public class Foo {\n}\n"}

	res, err := NewRetriever(dec, nil).GetSource(context.Background(), Request{Location: jar, ClassName: "com.example.Foo"})
	if err != nil {
		t.Fatalf("GetSource() error = %v", err)
	}
	if res.Origin != OriginDecompiled || res.Text != dec.text || dec.calls != 1 {
		t.Errorf("GetSource() = %+v, calls = %d", res, dec.calls)
	}
}

func TestGetSource_DecompileFailure(t *testing.T) {
	jar := testutil.ClassJar(t, filepath.Join(t.TempDir(), "lib.jar"), "com.example.Foo")

	tests := []struct {
		name string
		dec  *fakeDecompiler
	}{
		{"plain error", &fakeDecompiler{err: fmt.Errorf("boom")}},
		{"coded error", &fakeDecompiler{err: errors.NewDecompilationError("com.example.Foo", fmt.Errorf("exit 1"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRetriever(tt.dec, nil).GetSource(context.Background(), Request{Location: jar, ClassName: "com.example.Foo"})
			if errors.CodeOf(err) != errors.DecompilationFailed {
				t.Errorf("CodeOf() = %v, want %v", errors.CodeOf(err), errors.DecompilationFailed)
			}
		})
	}

	_, err := NewRetriever(nil, nil).GetSource(context.Background(), Request{Location: jar, ClassName: "com.example.Foo"})
	if errors.CodeOf(err) != errors.DecompilationFailed {
		t.Errorf("nil decompiler: CodeOf() = %v, want %v", errors.CodeOf(err), errors.DecompilationFailed)
	}
}

func TestGetSource_Errors(t *testing.T) {
	dir := t.TempDir()
	classFile := testutil.WriteFile(t, filepath.Join(dir, "Foo.class"), "x")

	tests := []struct {
		name     string
		req      Request
		wantCode errors.ErrorCode
	}{
		{"unsupported extension", Request{Location: classFile, ClassName: "Foo"}, errors.UnsupportedLocation},
		{"missing source file", Request{Location: filepath.Join(dir, "Nope.java"), ClassName: "Foo"}, errors.InvalidArguments},
		{"missing archive", Request{Location: filepath.Join(dir, "nope.jar"), ClassName: "Foo"}, errors.InvalidArguments},
		{"empty location", Request{ClassName: "Foo"}, errors.InvalidArguments},
		{"empty class", Request{Location: classFile}, errors.InvalidArguments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRetriever(&fakeDecompiler{}, nil).GetSource(context.Background(), tt.req)
			if got := errors.CodeOf(err); got != tt.wantCode {
				t.Errorf("CodeOf() = %v, want %v (err = %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestGetSource_LineFilter(t *testing.T) {
	path := testutil.WriteFile(t, filepath.Join(t.TempDir(), "Foo.java"), "l1\nl2\nl3\nl4\n")

	res, err := NewRetriever(nil, nil).GetSource(context.Background(), Request{
		Location: path, ClassName: "Foo", LineStart: intp(2), LineEnd: intp(9),
	})
	if err != nil {
		t.Fatalf("GetSource() error = %v", err)
	}
	if res.Text != "l2\nl3\nl4" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.TotalLines != 4 || res.Range == nil || *res.Range != (LineRange{Start: 2, End: 4}) {
		t.Errorf("TotalLines = %d, Range = %+v", res.TotalLines, res.Range)
	}
}

func TestGetMetadata(t *testing.T) {
	path := testutil.WriteFile(t, filepath.Join(t.TempDir(), "Foo.java"), testutil.JavaSource("com.example.Foo"))

	md, err := NewRetriever(nil, nil).GetMetadata(context.Background(), path, "com.example.Foo")
	if err != nil {
		t.Fatalf("GetMetadata() error = %v", err)
	}
	if md.TotalLines != 10 {
		t.Errorf("TotalLines = %d, want 10", md.TotalLines)
	}
	if md.SizeBytes != len(testutil.JavaSource("com.example.Foo")) {
		t.Errorf("SizeBytes = %d", md.SizeBytes)
	}
	if md.Language != outline.LangJava {
		t.Errorf("Language = %q", md.Language)
	}

	if outline.Available() {
		if md.MethodCount != 1 || md.Methods[0].Name != "greet" || md.Methods[0].Cyclomatic != 2 {
			t.Errorf("Methods = %+v", md.Methods)
		}
	} else if len(md.Warnings) == 0 || !strings.Contains(md.Warnings[0], "cgo") {
		t.Errorf("Warnings = %v, want an outline warning", md.Warnings)
	}
}
