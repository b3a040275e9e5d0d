// Package outline lists the types and methods declared in a Java or Kotlin
// source file, with per-method cyclomatic complexity, using tree-sitter.
package outline

import (
	"errors"
	"strings"
)

// Language is a source language the outline understands.
type Language string

const (
	LangJava   Language = "java"
	LangKotlin Language = "kotlin"
)

// ErrUnavailable is returned when the binary was built without cgo.
var ErrUnavailable = errors.New("source outline requires cgo (tree-sitter)")

// Symbol is one declared type or method.
type Symbol struct {
	Name string `json:"name"`
	// Kind is class, interface, enum, record, annotation, object, method,
	// constructor or function.
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	EndLine int    `json:"endLine"`
	// Container is the dotted path of enclosing types, e.g. Outer.Inner.
	Container  string `json:"container,omitempty"`
	Signature  string `json:"signature"`
	Cyclomatic int    `json:"cyclomatic,omitempty"`
}

// Outline is everything extracted from one file.
type Outline struct {
	Language Language `json:"language"`
	Types    []Symbol `json:"types"`
	Methods  []Symbol `json:"methods"`
}

// LanguageFromExtension maps .java and .kt (.kts) to a Language.
func LanguageFromExtension(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".java":
		return LangJava, true
	case ".kt", ".kts":
		return LangKotlin, true
	default:
		return "", false
	}
}

// signature returns the declaration header: the text up to the first newline
// or opening brace, capped at limit bytes.
func signature(text []byte, limit int) string {
	for i, b := range text {
		if b == '\n' || b == '{' {
			return strings.TrimSpace(string(text[:i]))
		}
	}
	if len(text) <= limit {
		return strings.TrimSpace(string(text))
	}
	return strings.TrimSpace(string(text[:limit])) + "..."
}
