package llvm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ErrBuildFailed is returned by Finish once any construction step violated an invariant.
var ErrBuildFailed = errors.New("llvm: build failed")

// InvariantError describes a violated construction invariant. These are bugs in
// the calling compiler; the builder panics with one and Run/Build recover it.
type InvariantError struct {
	Op     string
	Msg    string
	Types  []types.Type
	Values []value.Value
}

func (e *InvariantError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	for i, t := range e.Types {
		fmt.Fprintf(&sb, "\n  type[%d]: %s", i, dumpType(t))
	}
	for i, v := range e.Values {
		fmt.Fprintf(&sb, "\n  value[%d]: %s", i, dumpValue(v))
	}
	return sb.String()
}

func dumpType(t types.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func dumpValue(v value.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.Ident() + " : " + dumpType(v.Type())
}

func typeOfs(vs []value.Value) []types.Type {
	out := make([]types.Type, len(vs))
	for i, v := range vs {
		if v != nil {
			out[i] = v.Type()
		}
	}
	return out
}

// fatalTypes aborts construction with a dump of the offending types.
func fatalTypes(op, msg string, ts ...types.Type) {
	panic(&InvariantError{Op: op, Msg: msg, Types: ts})
}

// fatalValues aborts construction with a dump of the offending values and their types.
func fatalValues(op, msg string, vs ...value.Value) {
	panic(&InvariantError{Op: op, Msg: msg, Types: typeOfs(vs), Values: vs})
}

func fatalf(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// recoverInvariant returns the *InvariantError carried by r and re-panics with anything else.
func recoverInvariant(r any) *InvariantError {
	if r == nil {
		return nil
	}
	if e, ok := r.(*InvariantError); ok {
		return e
	}
	panic(r)
}
