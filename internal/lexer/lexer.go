// Package lexer tokenizes the C-like subset's source text: a single
// participle lexer.MustSimple rule set, with multi-character operators
// ordered before their single-character prefixes so the regex alternation
// prefers the longer match.
package lexer

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer is the participle token stream definition used to build the parser.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Operator", Pattern: `==|!=|<=|>=|&&|\|\||[-+*/%!=<>(){};,]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})
