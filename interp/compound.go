package interp

import (
	"bytes"

	"github.com/sandboxsh/vsh/syntax"
)

func (ex *executor) condTrue(cond []*syntax.Statement) (bool, ctrl) {
	c := ex.execStmtsCond(cond)
	if c.kind != ctrlNone {
		return false, c
	}
	return ex.lastStatus == 0, noCtrl
}

func (ex *executor) execIf(n *syntax.If) (int, ctrl) {
	ok, c := ex.condTrue(n.Cond)
	if c.kind != ctrlNone {
		return ex.lastStatus, c
	}
	if ok {
		c := ex.execStmts(n.Then)
		return ex.lastStatus, c
	}
	for _, elif := range n.Elifs {
		ok, c := ex.condTrue(elif.Cond)
		if c.kind != ctrlNone {
			return ex.lastStatus, c
		}
		if ok {
			c := ex.execStmts(elif.Then)
			return ex.lastStatus, c
		}
	}
	if n.Else != nil {
		c := ex.execStmts(n.Else)
		return ex.lastStatus, c
	}
	ex.lastStatus = 0
	return 0, noCtrl
}

func (ex *executor) loopTick(iter int) *ctrl {
	if ex.st.Limits.MaxLoopIterations > 0 && iter > ex.st.Limits.MaxLoopIterations {
		ex.stderr.WriteString("vsh: loop iteration limit exceeded\n")
		c := ctrl{kind: ctrlExit, n: 1}
		return &c
	}
	return nil
}

func (ex *executor) execWhile(n *syntax.While) (int, ctrl) {
	status := 0
	for iter := 0; ; iter++ {
		if c := ex.loopTick(iter); c != nil {
			return status, *c
		}
		ok, c := ex.condTrue(n.Cond)
		if c.kind != ctrlNone {
			return ex.lastStatus, c
		}
		if !ok {
			break
		}
		c = ex.execStmts(n.Do)
		status = ex.lastStatus
		if c.kind == ctrlBreak {
			if c.n > 1 {
				c.n--
				return status, c
			}
			break
		}
		if c.kind == ctrlContinue {
			if c.n > 1 {
				c.n--
				return status, c
			}
			continue
		}
		if c.kind != ctrlNone {
			return status, c
		}
	}
	ex.lastStatus = status
	return status, noCtrl
}

func (ex *executor) execUntil(n *syntax.Until) (int, ctrl) {
	status := 0
	for iter := 0; ; iter++ {
		if c := ex.loopTick(iter); c != nil {
			return status, *c
		}
		ok, c := ex.condTrue(n.Cond)
		if c.kind != ctrlNone {
			return ex.lastStatus, c
		}
		if ok {
			break
		}
		c = ex.execStmts(n.Do)
		status = ex.lastStatus
		if c.kind == ctrlBreak {
			if c.n > 1 {
				c.n--
				return status, c
			}
			break
		}
		if c.kind == ctrlContinue {
			if c.n > 1 {
				c.n--
				return status, c
			}
			continue
		}
		if c.kind != ctrlNone {
			return status, c
		}
	}
	ex.lastStatus = status
	return status, noCtrl
}

func (ex *executor) execFor(n *syntax.For) (int, ctrl) {
	cfg := ex.expandConfig()
	var words []string
	if n.HasIn {
		for _, w := range n.Words {
			fs, err := cfg.Fields(w)
			if err != nil {
				ex.stderr.WriteString(err.Error() + "\n")
				return 1, noCtrl
			}
			words = append(words, fs...)
		}
	} else {
		words = ex.st.Positional
	}
	status := 0
	for iter, w := range words {
		if c := ex.loopTick(iter); c != nil {
			return status, *c
		}
		v, _ := ex.st.Env.Get(n.Var)
		v.Value = stringVal(w)
		ex.st.Env.Set(n.Var, v)
		c := ex.execStmts(n.Do)
		status = ex.lastStatus
		if c.kind == ctrlBreak {
			if c.n > 1 {
				c.n--
				return status, c
			}
			break
		}
		if c.kind == ctrlContinue {
			if c.n > 1 {
				c.n--
				return status, c
			}
			continue
		}
		if c.kind != ctrlNone {
			return status, c
		}
	}
	ex.lastStatus = status
	return status, noCtrl
}

func (ex *executor) execCStyleFor(n *syntax.CStyleFor) (int, ctrl) {
	cfg := ex.expandConfig()
	if n.Init != nil {
		if _, err := cfg.EvalArithm(n.Init); err != nil {
			ex.stderr.WriteString(err.Error() + "\n")
			return 1, noCtrl
		}
	}
	status := 0
	for iter := 0; ; iter++ {
		if c := ex.loopTick(iter); c != nil {
			return status, *c
		}
		if n.Cond != nil {
			v, err := cfg.EvalArithm(n.Cond)
			if err != nil {
				ex.stderr.WriteString(err.Error() + "\n")
				return 1, noCtrl
			}
			if v == 0 {
				break
			}
		}
		c := ex.execStmts(n.Do)
		status = ex.lastStatus
		if c.kind == ctrlBreak {
			if c.n > 1 {
				c.n--
				return status, c
			}
			break
		}
		if c.kind != ctrlContinue && c.kind != ctrlNone {
			return status, c
		}
		if n.Post != nil {
			if _, err := cfg.EvalArithm(n.Post); err != nil {
				ex.stderr.WriteString(err.Error() + "\n")
				return 1, noCtrl
			}
		}
	}
	ex.lastStatus = status
	return status, noCtrl
}

func (ex *executor) execCase(n *syntax.Case) (int, ctrl) {
	cfg := ex.expandConfig()
	word, err := cfg.Literal(n.Word)
	if err != nil {
		ex.stderr.WriteString(err.Error() + "\n")
		return 1, noCtrl
	}
	for i := 0; i < len(n.Items); i++ {
		item := n.Items[i]
		if !caseItemMatches(cfg, item, word) {
			continue
		}
		c := ex.execStmts(item.Stmts)
		status := ex.lastStatus
		if c.kind != ctrlNone {
			return status, c
		}
		switch item.Term {
		case syntax.CaseFallthrough:
			if i+1 < len(n.Items) {
				c := ex.execStmts(n.Items[i+1].Stmts)
				return ex.lastStatus, c
			}
		case syntax.CaseContinue:
			continue
		}
		return status, noCtrl
	}
	ex.lastStatus = 0
	return 0, noCtrl
}

func caseItemMatches(cfg interface {
	Literal(w *syntax.Word) (string, error)
}, item *syntax.CaseItem, word string) bool {
	for _, patWord := range item.Patterns {
		pat, err := cfg.Literal(patWord)
		if err != nil {
			continue
		}
		if globMatch(pat, word) {
			return true
		}
	}
	return false
}

func (ex *executor) execSubshell(n *syntax.Subshell) (int, ctrl) {
	sub := ex.st.Clone()
	child := &executor{st: sub, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, stmtCount: ex.stmtCount}
	c := child.execStmts(n.Stmts)
	ex.stmtCount = child.stmtCount
	ex.stdout.Write(child.stdout.Bytes())
	ex.stderr.Write(child.stderr.Bytes())
	if c.kind == ctrlExit {
		return c.n, noCtrl
	}
	return child.lastStatus, noCtrl
}

func (ex *executor) execArithmCmd(n *syntax.ArithmeticCommand) (int, ctrl) {
	cfg := ex.expandConfig()
	v, err := cfg.EvalArithm(n.X)
	if err != nil {
		ex.stderr.WriteString(err.Error() + "\n")
		return 1, noCtrl
	}
	if v == 0 {
		return 1, noCtrl
	}
	return 0, noCtrl
}

func (ex *executor) execCondCmd(n *syntax.ConditionalCommand) (int, ctrl) {
	cfg := ex.expandConfig()
	ok, err := cfg.EvalTest(n.X, ex.st.FS)
	if err != nil {
		ex.stderr.WriteString(err.Error() + "\n")
		return 1, noCtrl
	}
	if ok {
		return 0, noCtrl
	}
	return 1, noCtrl
}
