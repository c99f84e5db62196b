package syntax

import "github.com/sandboxsh/vsh/token"

var unaryTestOps = map[string]UnTestOp{
	"-z": TestStrEmpty, "-n": TestStrNonEmpty,
	"-e": TestFileExists, "-f": TestFileRegular, "-d": TestFileDir,
	"-L": TestFileSymlink, "-h": TestFileSymlink,
	"-r": TestFileReadable, "-w": TestFileWritable, "-x": TestFileExecutable,
	"-s": TestFileNonEmpty,
}

var binaryTestOps = map[string]BinTestOp{
	"=": TestStrEq, "==": TestStrEq, "!=": TestStrNe,
	"<": TestStrLt, ">": TestStrGt, "=~": TestRegexMatch,
	"-eq": TestIntEq, "-ne": TestIntNe, "-lt": TestIntLt,
	"-le": TestIntLe, "-gt": TestIntGt, "-ge": TestIntGe,
}

const (
	testLowest = iota
	testOr
	testAnd
)

// testExpr parses a [[ ]] conditional expression by precedence
// climbing over && / || with unary ! and parenthesised groups. && has
// higher precedence than ||, so "a || b && c" must parse as
// "a || (b && c)": a binary operator is consumed only while its own
// precedence is at least minPrec, and each right-hand recursion raises
// the threshold to prec+1 so a same-precedence chain stays
// left-associative while a higher-precedence operator still binds in
// the recursive call.
func (p *parser) testExpr(minPrec int) TestExpr {
	left := p.testUnary()
	for {
		// && and || lex as LAND/LOR tokens rather than WORD (the
		// lexer gives testExpr state no special casing for '&'/'|'),
		// so they're matched on token kind, not through curLit.
		var prec int
		switch p.tok.Kind {
		case token.LOR:
			prec = testOr
		case token.LAND:
			prec = testAnd
		default:
			return left
		}
		if prec < minPrec {
			return left
		}
		pos := p.pos()
		op := TestOr
		if p.tok.Kind == token.LAND {
			op = TestAnd
		}
		p.next()
		right := p.testExpr(prec + 1)
		left = &TestAndOr{OpPos: pos, Op: op, X: left, Y: right}
	}
}

func (p *parser) testUnary() TestExpr {
	pos := p.pos()
	if lit, ok := p.curLit(); ok {
		if lit == "!" {
			p.next()
			return &TestNot{NotPos: pos, X: p.testUnary()}
		}
		if op, ok := unaryTestOps[lit]; ok {
			p.next()
			return &TestUnary{OpPos: pos, Op: op, X: p.word()}
		}
	}
	if p.tok.Kind == token.LPAREN {
		p.next()
		x := p.testExpr(testLowest)
		p.expect(token.RPAREN)
		return &TestGroup{LParenPos: pos, X: x}
	}
	return p.testBinaryOrWord()
}

// testBinaryOrWord parses "word [binop word]", since [[ ]] tests start
// with an operand, not an operator.
func (p *parser) testBinaryOrWord() TestExpr {
	first := p.word()
	if lit, ok := p.curLit(); ok {
		if op, ok := binaryTestOps[lit]; ok {
			pos := p.pos()
			p.next()
			second := p.word()
			return &TestBinary{OpPos: pos, Op: op, X: first, Y: second}
		}
	}
	return &TestWord{W: first}
}
