package code

import (
	"fmt"
	"strings"
)

// ConstTag discriminates the runtime type of a pool entry. Interning keys on
// (ConstTag, value) so that, e.g., the integer 1 and the float 1.0 occupy
// distinct pool slots even though later stages may compare their payloads as
// numerically equal.
type ConstTag int

const (
	TagInt ConstTag = iota
	TagFloat
	TagBool
	TagNone
	TagBytes
	TagString
	TagCode
)

// Constant is an immutable pool value: a scalar, or a Linked code object
// embedded by a FunctionDef/ClassDef.
type Constant interface {
	// Tag identifies the constant's runtime type for interning purposes.
	Tag() ConstTag
	// cacheKey returns a comparable value unique to this constant's
	// (tag, payload) pair, used as the Pool's reverse-lookup key.
	cacheKey() any
	fmt.Stringer
}

// Int is an integer constant.
type Int struct{ Value int64 }

func (Int) Tag() ConstTag      { return TagInt }
func (c Int) cacheKey() any    { return c }
func (c Int) String() string  { return fmt.Sprintf("%d", c.Value) }

// Float is a floating-point constant, kept distinct from Int even when the
// value is integral (1.0 must not collide with 1).
type Float struct{ Value float64 }

func (Float) Tag() ConstTag     { return TagFloat }
func (c Float) cacheKey() any   { return c }
func (c Float) String() string { return fmt.Sprintf("%g", c.Value) }

// Bool is the True or False named constant.
type Bool struct{ Value bool }

func (Bool) Tag() ConstTag     { return TagBool }
func (c Bool) cacheKey() any   { return c }
func (c Bool) String() string { return fmt.Sprintf("%t", c.Value) }

// None is the singleton null/unit constant; there is exactly one distinct
// interning key for it regardless of how many times it is requested.
type None struct{}

func (None) Tag() ConstTag     { return TagNone }
func (None) cacheKey() any     { return None{} }
func (None) String() string   { return "None" }

// Bytes is a byte-string constant.
type Bytes struct{ Value string }

func (Bytes) Tag() ConstTag    { return TagBytes }
func (c Bytes) cacheKey() any  { return c }
func (c Bytes) String() string { return fmt.Sprintf("b%q", c.Value) }

// String is a text-string constant.
type String struct{ Value string }

func (String) Tag() ConstTag    { return TagString }
func (c String) cacheKey() any  { return c }
func (c String) String() string { return fmt.Sprintf("%q", c.Value) }

// CodeConstant wraps a Linked code object so it can be interned into an
// enclosing Code's pool. Its cache key is the linked code's content hash,
// not pointer identity, so two structurally identical nested functions
// compiled from distinct AST subtrees would still intern to one slot.
type CodeConstant struct{ Code *Linked }

func (CodeConstant) Tag() ConstTag { return TagCode }
func (c CodeConstant) cacheKey() any {
	return c.Code.hashKey()
}
func (c CodeConstant) String() string {
	return fmt.Sprintf("<code %s, %d instrs>", c.Code.Type, len(c.Code.Instructions))
}

// poolKey is the Pool's reverse-lookup key: a constant's tag paired with its
// own cache key, so that distinct types never collide even if their cache
// keys happen to coincide (cacheKey already includes the Go concrete type,
// but pairing with Tag makes the invariant explicit and cheap to reason
// about).
type poolKey struct {
	tag ConstTag
	key any
}

// Pool is the constant pool owned by one in-progress Code: an
// append-only, order-preserving sequence of Constants plus a reverse map
// from interning key to index.
type Pool struct {
	values []Constant
	index  map[poolKey]int
}

// NewPool returns an empty constant pool.
func NewPool() *Pool {
	return &Pool{index: make(map[poolKey]int)}
}

// Intern returns the dense, stable index of c, inserting it at the next
// available index on first occurrence and returning the existing index on
// every subsequent call with an equal (tag, value) pair.
func (p *Pool) Intern(c Constant) int {
	key := poolKey{tag: c.Tag(), key: c.cacheKey()}
	if id, ok := p.index[key]; ok {
		return id
	}
	id := len(p.values)
	p.values = append(p.values, c)
	p.index[key] = id
	return id
}

// Len reports the number of distinct constants currently interned.
func (p *Pool) Len() int { return len(p.values) }

// At returns the constant stored at id. It panics if id is out of range,
// which indicates an internal invariant violation (every id handed out by
// Intern is valid for the lifetime of the pool) rather than a
// user-triggerable error.
func (p *Pool) At(id int) Constant {
	return p.values[id]
}

// Values returns the pool's constants in index order. The returned slice
// must not be mutated by the caller.
func (p *Pool) Values() []Constant {
	return p.values
}

// String renders the pool as an index-ordered list, for disassembly.
func (p *Pool) String() string {
	var b strings.Builder
	for i, c := range p.values {
		fmt.Fprintf(&b, "%d: %s\n", i, c)
	}
	return b.String()
}
