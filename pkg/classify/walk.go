package classify

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// scanTree walks every node of a parse tree and accumulates the two
// format signals into the returned Markers. The accumulator is threaded
// through the recursion explicitly so the walk carries no hidden state
// and stays independently testable.
func scanTree(root *ts.Node, source []byte) Markers {
	var acc Markers
	scanNode(root, source, &acc)
	return acc
}

// scanNode evaluates the marker rules on one node, then recurses into
// all children. Flags only ever flip to true; the walk visits every
// node even once both are set.
func scanNode(node *ts.Node, source []byte, acc *Markers) {
	if node == nil {
		return
	}

	if isESMNode(node) {
		acc.HasESM = true
	}
	if isCJSNode(node, source) {
		acc.HasCJS = true
	}

	for i := uint(0); i < uint(node.ChildCount()); i++ {
		scanNode(node.Child(i), source, acc)
	}
}

// isESMNode reports whether a node is ECMAScript-module syntax. In the
// tree-sitter grammars, import_statement also covers TypeScript
// import-equals declarations, and export_statement covers export
// assignments and declarations carrying an export modifier. An export
// modifier counts even inside a file that is CommonJS overall; the
// OR-accumulation over the whole file decides the final verdict, not the
// individual node.
func isESMNode(node *ts.Node) bool {
	switch node.Kind() {
	case "import_statement", "export_statement", "export_specifier", "export_clause":
		return true
	}
	return false
}

// isCJSNode reports whether a node is CommonJS syntax: a call to the
// bare identifier require with at least one argument, or a property
// access whose own source text starts with "module.exports" or
// "exports.". The prefix match is textual on the node's span; whether
// those names resolve to the real CommonJS bindings is not checked.
func isCJSNode(node *ts.Node, source []byte) bool {
	switch node.Kind() {
	case "call_expression":
		callee := node.ChildByFieldName("function")
		if callee == nil || callee.Kind() != "identifier" {
			return false
		}
		if callee.Utf8Text(source) != "require" {
			return false
		}
		args := node.ChildByFieldName("arguments")
		return args != nil && args.NamedChildCount() >= 1

	case "member_expression":
		text := node.Utf8Text(source)
		return strings.HasPrefix(text, "module.exports") ||
			strings.HasPrefix(text, "exports.")
	}
	return false
}
