package syntax

import "github.com/sandboxsh/vsh/token"

// Tokenize exposes the raw lexical token stream for src, without
// parsing. The lexer stays in its initial quoting state throughout, as
// no parser is there to push or pop states.
func Tokenize(src []byte) ([]token.Token, error) {
	var toks []token.Token
	var perr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if pe, ok := r.(*ParseError); ok {
					perr = pe
					return
				}
				panic(r)
			}
		}()
		l := NewLexer(src)
		for {
			t := l.Next()
			toks = append(toks, t)
			if t.Kind == token.EOF {
				break
			}
		}
	}()
	return toks, perr
}
