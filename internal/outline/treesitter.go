//go:build cgo

package outline

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/kotlin"
)

const signatureLimit = 200

var typeKinds = map[Language]map[string]string{
	LangJava: {
		"class_declaration":           "class",
		"interface_declaration":       "interface",
		"enum_declaration":            "enum",
		"record_declaration":          "record",
		"annotation_type_declaration": "annotation",
	},
	LangKotlin: {
		"class_declaration":  "class",
		"object_declaration": "object",
	},
}

var methodKinds = map[Language]map[string]string{
	LangJava: {
		"method_declaration":              "method",
		"constructor_declaration":         "constructor",
		"compact_constructor_declaration": "constructor",
	},
	LangKotlin: {
		"function_declaration":  "function",
		"secondary_constructor": "constructor",
	},
}

// decisionTypes are the nodes that each add one to cyclomatic complexity.
// Java binary_expression only counts for && and ||.
var decisionTypes = map[Language]map[string]bool{
	LangJava: {
		"if_statement":                 true,
		"for_statement":                true,
		"enhanced_for_statement":       true,
		"while_statement":              true,
		"do_statement":                 true,
		"switch_block_statement_group": true,
		"switch_rule":                  true,
		"catch_clause":                 true,
		"ternary_expression":           true,
		"binary_expression":            true,
	},
	LangKotlin: {
		"if_expression":          true,
		"when_entry":             true,
		"for_statement":          true,
		"while_statement":        true,
		"do_while_statement":     true,
		"catch_block":            true,
		"elvis_expression":       true,
		"conjunction_expression": true,
		"disjunction_expression": true,
	},
}

// Available reports whether Extract can parse source.
func Available() bool { return true }

func grammar(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangJava:
		return java.GetLanguage(), nil
	case LangKotlin:
		return kotlin.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// Extract parses source and returns its types and methods in document order.
func Extract(ctx context.Context, source []byte, lang Language) (*Outline, error) {
	g, err := grammar(lang)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	x := &extractor{
		source: source,
		lang:   lang,
		out:    &Outline{Language: lang, Types: []Symbol{}, Methods: []Symbol{}},
	}
	x.walk(tree.RootNode(), nil)
	return x.out, nil
}

type extractor struct {
	source []byte
	lang   Language
	out    *Outline
}

func (x *extractor) walk(n *sitter.Node, containers []string) {
	if n == nil {
		return
	}
	t := n.Type()

	if kind, ok := typeKinds[x.lang][t]; ok {
		if name := x.typeName(n); name != "" {
			if x.lang == LangKotlin && hasChildOfType(n, "interface") {
				kind = "interface"
			}
			x.out.Types = append(x.out.Types, x.symbol(n, name, kind, containers))
			containers = append(containers[:len(containers):len(containers)], name)
		}
	} else if kind, ok := methodKinds[x.lang][t]; ok {
		name := x.methodName(n, containers)
		if name != "" {
			if kind == "function" && len(containers) > 0 {
				kind = "method"
			}
			sym := x.symbol(n, name, kind, containers)
			sym.Cyclomatic = x.cyclomatic(n)
			x.out.Methods = append(x.out.Methods, sym)
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		x.walk(n.Child(i), containers)
	}
}

func (x *extractor) symbol(n *sitter.Node, name, kind string, containers []string) Symbol {
	return Symbol{
		Name:      name,
		Kind:      kind,
		Line:      int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		Container: strings.Join(containers, "."),
		Signature: signature(x.source[n.StartByte():n.EndByte()], signatureLimit),
	}
}

func (x *extractor) text(n *sitter.Node) string {
	return string(x.source[n.StartByte():n.EndByte()])
}

func (x *extractor) typeName(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return x.text(name)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && (c.Type() == "type_identifier" || c.Type() == "identifier" || c.Type() == "simple_identifier") {
			return x.text(c)
		}
	}
	return ""
}

func (x *extractor) methodName(n *sitter.Node, containers []string) string {
	if n.Type() == "secondary_constructor" {
		if len(containers) == 0 {
			return ""
		}
		return containers[len(containers)-1]
	}
	if x.lang == LangJava {
		if name := n.ChildByFieldName("name"); name != nil {
			return x.text(name)
		}
		return ""
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.Type() == "simple_identifier" {
			return x.text(c)
		}
	}
	return ""
}

// cyclomatic counts decision points below n, plus one.
func (x *extractor) cyclomatic(n *sitter.Node) int {
	complexity := 1
	decisions := decisionTypes[x.lang]

	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if t := node.Type(); decisions[t] {
			if t != "binary_expression" || x.isBooleanOperator(node) {
				complexity++
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(n)
	return complexity
}

func (x *extractor) isBooleanOperator(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if op := x.text(c); op == "&&" || op == "||" {
			return true
		}
	}
	return false
}

func hasChildOfType(n *sitter.Node, t string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.Type() == t {
			return true
		}
	}
	return false
}
