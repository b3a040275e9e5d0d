package archive

import (
	"os"
	"path/filepath"
	"testing"

	"gcf/internal/testutil"
)

func TestCompiledEntryName(t *testing.T) {
	tests := []struct {
		className string
		want      string
	}{
		{"com.example.Foo", "com/example/Foo.class"},
		{"Foo", "Foo.class"},
		{"com.example.Outer$Inner", "com/example/Outer$Inner.class"},
	}
	for _, tt := range tests {
		if got := CompiledEntryName(tt.className); got != tt.want {
			t.Errorf("CompiledEntryName(%q) = %q, want %q", tt.className, got, tt.want)
		}
	}
}

func TestSourceEntryName(t *testing.T) {
	tests := []struct {
		className string
		ext       string
		want      string
	}{
		{"com.example.Foo", ".java", "com/example/Foo.java"},
		{"com.example.Foo", ".kt", "com/example/Foo.kt"},
		{"com.example.Outer$Inner", ".java", "com/example/Outer.java"},
		{"Outer$Inner$Deep", ".java", "Outer.java"},
		{"com.example.$Generated", ".java", "com/example/$Generated.java"},
	}
	for _, tt := range tests {
		if got := SourceEntryName(tt.className, tt.ext); got != tt.want {
			t.Errorf("SourceEntryName(%q, %q) = %q, want %q", tt.className, tt.ext, got, tt.want)
		}
	}
}

func TestContainsEntry(t *testing.T) {
	dir := t.TempDir()
	jar := testutil.ClassJar(t, filepath.Join(dir, "lib.jar"), "com.example.Foo")

	tests := []struct {
		name  string
		path  string
		entry string
		want  bool
	}{
		{"present", jar, "com/example/Foo.class", true},
		{"absent", jar, "com/example/Bar.class", false},
		{"case differs", jar, "com/example/foo.class", false},
		{"no globbing", jar, "com/example/*.class", false},
		{"missing archive", filepath.Join(dir, "missing.jar"), "com/example/Foo.class", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsEntry(tt.path, tt.entry); got != tt.want {
				t.Errorf("ContainsEntry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainsEntry_CorruptArchive(t *testing.T) {
	path := testutil.WriteFile(t, filepath.Join(t.TempDir(), "corrupt.jar"), "this is not a zip file")

	if ContainsEntry(path, "com/example/Foo.class") {
		t.Error("ContainsEntry() on corrupt archive should be false")
	}
	if _, err := Lookup(path, "com/example/Foo.class"); err == nil {
		t.Error("Lookup() on corrupt archive should return an error")
	}
}

func TestExtractEntryText(t *testing.T) {
	src := "package com.example;\n\npublic class Foo {}\n"
	jar := testutil.WriteJar(t, filepath.Join(t.TempDir(), "foo.jar"), map[string]string{
		"com/example/Foo.java": src,
	})

	got, ok := ExtractEntryText(jar, "com/example/Foo.java")
	if !ok {
		t.Fatal("ExtractEntryText() should find the entry")
	}
	if got != src {
		t.Errorf("ExtractEntryText() = %q, want %q", got, src)
	}

	if _, ok := ExtractEntryText(jar, "com/example/Bar.java"); ok {
		t.Error("ExtractEntryText() should report missing entry as absent")
	}
	if _, ok := ExtractEntryText(filepath.Join(t.TempDir(), "nope.jar"), "x"); ok {
		t.Error("ExtractEntryText() should report missing archive as absent")
	}
}

func TestEntries(t *testing.T) {
	jar := testutil.ClassJar(t, filepath.Join(t.TempDir(), "lib.jar"), "com.example.b.B", "com.example.a.A", "org.other.C")

	all, err := Entries(jar, "")
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Entries() returned %d entries, want 4 (3 classes + manifest)", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Errorf("Entries() not sorted: %q before %q", all[i-1].Name, all[i].Name)
		}
	}

	filtered, err := Entries(jar, "com/example/")
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(filtered) != 2 || filtered[0].Name != "com/example/a/A.class" {
		t.Errorf("Entries(prefix) = %+v", filtered)
	}
}

func TestListArchives(t *testing.T) {
	dir := t.TempDir()
	testutil.ClassJar(t, filepath.Join(dir, "b.jar"))
	testutil.ClassJar(t, filepath.Join(dir, "a.jar"))
	testutil.WriteFile(t, filepath.Join(dir, "notes.txt"), "x")
	if err := os.Mkdir(filepath.Join(dir, "dir.jar"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := ListArchives(dir)
	want := []string{filepath.Join(dir, "a.jar"), filepath.Join(dir, "b.jar")}
	if len(got) != len(want) {
		t.Fatalf("ListArchives() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListArchives()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := ListArchives(filepath.Join(dir, "missing")); len(got) != 0 {
		t.Errorf("ListArchives(missing) = %v, want empty", got)
	}
}

func TestIsSourcesArchive(t *testing.T) {
	if !IsSourcesArchive("/cache/guava-33.0-sources.jar") {
		t.Error("expected -sources.jar to be recognized")
	}
	if IsSourcesArchive("/cache/guava-33.0.jar") {
		t.Error("plain jar should not be a sources archive")
	}
	if !IsArchive("/cache/guava-33.0.jar") || IsArchive("/src/Foo.java") {
		t.Error("IsArchive() misclassified a path")
	}
}
