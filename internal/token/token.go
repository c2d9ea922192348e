package token

// Type identifies the lexical class of a token.
type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Identifiers and literals
	IDENT Type = "IDENT" // x, coin_bias
	FLOAT Type = "FLOAT" // 0.5, 1e-3

	// Operators and delimiters
	ASSIGN    Type = "="
	LARROW    Type = "<-"
	SEMICOLON Type = ";"
	LPAREN    Type = "("
	RPAREN    Type = ")"

	// Keywords
	DEFINE Type = "DEFINE"
	IF     Type = "IF"
	THEN   Type = "THEN"
	ELSE   Type = "ELSE"
	TRUE   Type = "TRUE"
	FALSE  Type = "FALSE"
	CONS   Type = "CONS"
	NIL    Type = "NIL"
	FLIP   Type = "FLIP"
	RETURN Type = "RETURN"
)

// Token is a single lexical unit with its source position.
type Token struct {
	Type    Type
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

var keywords = map[string]Type{
	"define": DEFINE,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"true":   TRUE,
	"false":  FALSE,
	"cons":   CONS,
	"nil":    NIL,
	"flip":   FLIP,
	"return": RETURN,
}

// LookupIdent returns the keyword type for ident, or IDENT if it is not a
// reserved word. Keywords are never identifiers.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
