package astctx

// Session is a scoped acquisition of the constraint-solver arena. While
// held, type builders may route type-variable-dependent forms to the
// solver arena; on Release every type uniqued there is invalidated and
// existing handles into it must not outlive the session. Nested sessions
// are not permitted (spec.md §9).
type Session struct {
	ctx      *Context
	released bool
}

// AcquireSession acquires the constraint-solver arena exclusively. It
// panics if a session is already held, since nested constraint-solver
// sessions are explicitly disallowed — this is a programming-error guard,
// not a user-facing failure mode.
func (c *Context) AcquireSession() *Session {
	if c.session != nil {
		panic("astctx: nested constraint-solver session")
	}
	s := &Session{ctx: c}
	c.session = s
	return s
}

// Release invalidates every type uniqued in the constraint-solver arena
// since this session was acquired and frees the arena for the next
// session. Calling Release more than once is a no-op.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.ctx.constraintSolver.Reset()
	s.ctx.session = nil
	s.released = true
}

// WithSession acquires a session, runs fn, and guarantees Release on
// every exit path — including a panic unwinding through fn — the
// scoped-resource pattern spec.md §4.1 and §9 require.
func (c *Context) WithSession(fn func(*Session) error) error {
	s := c.AcquireSession()
	defer s.Release()
	return fn(s)
}
