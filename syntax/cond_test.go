package syntax

import "testing"

func condExpr(t *testing.T, src string) TestExpr {
	t.Helper()
	s := parseOne(t, "[[ "+src+" ]]")
	cc, ok := s.Pipelines[0].Commands[0].Body.(*ConditionalCommand)
	if !ok {
		t.Fatalf("body type = %T, want *ConditionalCommand", s.Pipelines[0].Commands[0].Body)
	}
	return cc.X
}

func TestParseCondUnary(t *testing.T) {
	x := condExpr(t, "-f $path")
	u, ok := x.(*TestUnary)
	if !ok {
		t.Fatalf("type = %T, want *TestUnary", x)
	}
	if u.Op != TestFileRegular {
		t.Errorf("op = %v, want TestFileRegular", u.Op)
	}
}

func TestParseCondBinaryString(t *testing.T) {
	x := condExpr(t, `"$a" = "$b"`)
	b, ok := x.(*TestBinary)
	if !ok {
		t.Fatalf("type = %T, want *TestBinary", x)
	}
	if b.Op != TestStrEq {
		t.Errorf("op = %v, want TestStrEq", b.Op)
	}
}

func TestParseCondBinaryInt(t *testing.T) {
	x := condExpr(t, "$x -lt $y")
	b, ok := x.(*TestBinary)
	if !ok {
		t.Fatalf("type = %T, want *TestBinary", x)
	}
	if b.Op != TestIntLt {
		t.Errorf("op = %v, want TestIntLt", b.Op)
	}
}

func TestParseCondNot(t *testing.T) {
	x := condExpr(t, "! -e $path")
	n, ok := x.(*TestNot)
	if !ok {
		t.Fatalf("type = %T, want *TestNot", x)
	}
	if _, ok := n.X.(*TestUnary); !ok {
		t.Errorf("inner type = %T, want *TestUnary", n.X)
	}
}

func TestParseCondAndOr(t *testing.T) {
	x := condExpr(t, "-f $a && -d $b")
	ao, ok := x.(*TestAndOr)
	if !ok {
		t.Fatalf("type = %T, want *TestAndOr", x)
	}
	if ao.Op != TestAnd {
		t.Errorf("op = %v, want TestAnd", ao.Op)
	}
}

func TestParseCondAndOrPrecedence(t *testing.T) {
	// && binds tighter than ||, so this parses as a || (b && c).
	x := condExpr(t, "-f $a || -f $b && -f $c")
	ao, ok := x.(*TestAndOr)
	if !ok {
		t.Fatalf("type = %T, want *TestAndOr", x)
	}
	if ao.Op != TestOr {
		t.Fatalf("top-level op = %v, want TestOr", ao.Op)
	}
	if _, ok := ao.Y.(*TestAndOr); !ok {
		t.Errorf("rhs type = %T, want *TestAndOr", ao.Y)
	}
}

func TestParseCondGroup(t *testing.T) {
	x := condExpr(t, "( -f $a )")
	g, ok := x.(*TestGroup)
	if !ok {
		t.Fatalf("type = %T, want *TestGroup", x)
	}
	if _, ok := g.X.(*TestUnary); !ok {
		t.Errorf("inner type = %T, want *TestUnary", g.X)
	}
}

func TestParseCondBareWord(t *testing.T) {
	x := condExpr(t, "$x")
	if _, ok := x.(*TestWord); !ok {
		t.Fatalf("type = %T, want *TestWord", x)
	}
}
