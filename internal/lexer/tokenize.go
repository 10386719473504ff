package lexer

import (
	"strings"

	plex "github.com/alecthomas/participle/v2/lexer"

	"minic/token"
)

// operatorKinds maps every lexeme the Operator rule can produce to its
// token.Kind, the classification a stateless lexer.MustSimple definition
// leaves implicit.
var operatorKinds = map[string]token.Kind{
	"=": token.ASSIGN, "+": token.PLUS, "-": token.MINUS, "*": token.STAR,
	"/": token.SLASH, "%": token.PCT, "!": token.BANG,
	"==": token.EQ, "!=": token.NOT_EQ, "<": token.LT, "<=": token.LE, ">": token.GT, ">=": token.GE,
	"&&": token.AND, "||": token.OR,
	",": token.COMMA, ";": token.SEMICOLON,
	"(": token.LPAREN, ")": token.RPAREN, "{": token.LBRACE, "}": token.RBRACE,
}

// Tokenize runs the participle lexer definition over src and classifies
// every non-trivia token into the token package's Kind, the shape a
// hand-written token stream (and the -l CLI flag) expects.
func Tokenize(filename, src string) ([]token.Token, error) {
	l, err := Lexer.Lex(filename, strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	symbols := Lexer.Symbols()
	names := make(map[plex.TokenType]string, len(symbols))
	for name, t := range symbols {
		names[t] = name
	}

	var out []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			break
		}
		switch names[tok.Type] {
		case "Whitespace", "Comment":
			continue
		}
		out = append(out, classify(names[tok.Type], tok))
	}
	return out, nil
}

func classify(ruleName string, tok plex.Token) token.Token {
	switch ruleName {
	case "Ident":
		return token.Token{Kind: token.LookupIdent(tok.Value), Literal: tok.Value, Line: tok.Pos.Line, Column: tok.Pos.Column}
	case "Int":
		return token.Token{Kind: token.INT, Literal: tok.Value, Line: tok.Pos.Line, Column: tok.Pos.Column}
	case "Operator":
		kind, ok := operatorKinds[tok.Value]
		if !ok {
			kind = token.ILLEGAL
		}
		return token.Token{Kind: kind, Literal: tok.Value, Line: tok.Pos.Line, Column: tok.Pos.Column}
	default:
		return token.Token{Kind: token.ILLEGAL, Literal: tok.Value, Line: tok.Pos.Line, Column: tok.Pos.Column}
	}
}
