package compiler

import "github.com/pexlang/pexc/code"

// frame is a lowering-time record of one enclosing control construct,
// pushed when the compiler enters a loop or try/finally and popped on
// exit. break/continue scan the stack from the top looking for the
// frames they need to cross or land on.
type frame interface {
	isFrame()
}

// loopFrame records an enclosing while/for loop's three labels.
type loopFrame struct {
	start *code.Label
	else_ *code.Label
	end   *code.Label
}

func (*loopFrame) isFrame() {}

// tryFinallyFrame records an enclosing try/finally's finally entry point.
// break/continue crossing this frame must emit a `finally` request before
// continuing the scan, so the finally block still runs on the unwind path.
type tryFinallyFrame struct {
	finallyLabel *code.Label
}

func (*tryFinallyFrame) isFrame() {}

// pushFrame pushes f onto c's frame stack and returns a guard whose Done
// method pops it. Callers call guard.Done() immediately after lowering the
// guarded region, before inspecting its error — so the frame is popped on
// every exit path, including one that propagates an error — mirroring the
// scope-manager guarantee the source language expresses with a context
// manager. Popping happens before any sibling region (a loop's else-clause,
// a try's surrounding statements) is lowered, since that sibling runs
// outside the construct the frame represents.
func (c *Compiler) pushFrame(f frame) frameGuard {
	c.frames = append(c.frames, f)
	return frameGuard{c: c, depth: len(c.frames)}
}

type frameGuard struct {
	c     *Compiler
	depth int
}

// Done pops the frame this guard was issued for. It panics if frames were
// popped out of order, which indicates a push/pop mismatch bug rather than
// a user-triggerable error.
func (g frameGuard) Done() {
	if len(g.c.frames) != g.depth {
		panic("compiler: frame stack popped out of order")
	}
	g.c.frames = g.c.frames[:g.depth-1]
}

// emitUnwind scans the frame stack from the top, emitting a `finally`
// request (handling=false: run and continue, do not re-raise) for every
// tryFinallyFrame crossed, until it reaches the innermost loopFrame. It
// returns that loopFrame, or an error if the stack is exhausted first
// (break/continue outside a loop).
func (c *Compiler) emitUnwind(kind string) (*loopFrame, error) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		switch f := c.frames[i].(type) {
		case *tryFinallyFrame:
			c.b.Finally(false, f.finallyLabel)
		case *loopFrame:
			return f, nil
		}
	}
	return nil, &StructuralError{Msg: kind + " outside a loop"}
}
