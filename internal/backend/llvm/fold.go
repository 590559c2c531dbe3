package llvm

import (
	"math/big"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// binOp names the two-operand integer and floating-point operations the emitter dispatches on.
type binOp uint8

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
	opRem
	opUDiv
	opURem
	opAnd
	opOr
	opXor
	opShl
	opAShr
	opLShr
)

func (op binOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	case opRem:
		return "rem"
	case opUDiv:
		return "udiv"
	case opURem:
		return "urem"
	case opAnd:
		return "and"
	case opOr:
		return "or"
	case opXor:
		return "xor"
	case opShl:
		return "shl"
	case opAShr:
		return "ashr"
	case opLShr:
		return "lshr"
	default:
		return "binop"
	}
}

// wrapInt reduces x modulo 2^bits. Widths above one bit keep the signed
// two's-complement reading so printed constants match what NewInt produces;
// i1 stays 0 or 1.
func wrapInt(x *big.Int, bits uint64) *big.Int {
	u := unsignedView(x, bits)
	if bits <= 1 {
		return u
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	if u.Cmp(half) >= 0 {
		u.Sub(u, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}
	return u
}

func unsignedView(x *big.Int, bits uint64) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	u := new(big.Int).Mod(x, mod)
	return u
}

func signedView(x *big.Int, bits uint64) *big.Int {
	s := unsignedView(x, bits)
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	if s.Cmp(half) >= 0 {
		s.Sub(s, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}
	return s
}

func constInts(x, y value.Value) (*constant.Int, *constant.Int, bool) {
	cx, ok := x.(*constant.Int)
	if !ok {
		return nil, nil, false
	}
	cy, ok := y.(*constant.Int)
	if !ok {
		return nil, nil, false
	}
	return cx, cy, true
}

// foldInt evaluates op over two constant integers of the same width. It
// declines when the result would be poison or undefined.
func foldInt(op binOp, x, y value.Value) (*constant.Int, bool) {
	cx, cy, ok := constInts(x, y)
	if !ok {
		return nil, false
	}
	bits := cx.Typ.BitSize
	ua, ub := unsignedView(cx.X, bits), unsignedView(cy.X, bits)
	sa, sb := signedView(cx.X, bits), signedView(cy.X, bits)
	r := new(big.Int)
	switch op {
	case opAdd:
		r.Add(ua, ub)
	case opSub:
		r.Sub(ua, ub)
	case opMul:
		r.Mul(ua, ub)
	case opAnd:
		r.And(ua, ub)
	case opOr:
		r.Or(ua, ub)
	case opXor:
		r.Xor(ua, ub)
	case opShl, opLShr, opAShr:
		if !ub.IsUint64() || ub.Uint64() >= bits {
			return nil, false
		}
		n := uint(ub.Uint64())
		switch op {
		case opShl:
			r.Lsh(ua, n)
		case opLShr:
			r.Rsh(ua, n)
		default:
			r.Rsh(sa, n)
		}
	case opDiv, opRem:
		if sb.Sign() == 0 {
			return nil, false
		}
		minVal := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
		if sa.Cmp(minVal) == 0 && sb.Cmp(big.NewInt(-1)) == 0 {
			return nil, false
		}
		if op == opDiv {
			r.Quo(sa, sb)
		} else {
			r.Rem(sa, sb)
		}
	case opUDiv, opURem:
		if ub.Sign() == 0 {
			return nil, false
		}
		if op == opUDiv {
			r.Quo(ua, ub)
		} else {
			r.Rem(ua, ub)
		}
	default:
		return nil, false
	}
	return &constant.Int{Typ: cx.Typ, X: wrapInt(r, bits)}, true
}

// foldCompare evaluates an integer predicate over two constant integers.
func foldCompare(cond Cond, x, y value.Value) (*constant.Int, bool) {
	cx, cy, ok := constInts(x, y)
	if !ok {
		return nil, false
	}
	bits := cx.Typ.BitSize
	var c int
	switch cond {
	case CondBT, CondBE, CondAT, CondAE:
		c = unsignedView(cx.X, bits).Cmp(unsignedView(cy.X, bits))
	default:
		c = signedView(cx.X, bits).Cmp(signedView(cy.X, bits))
	}
	var res bool
	switch cond {
	case CondEQ:
		res = c == 0
	case CondNE:
		res = c != 0
	case CondLT, CondBT:
		res = c < 0
	case CondLE, CondBE:
		res = c <= 0
	case CondGT, CondAT:
		res = c > 0
	case CondGE, CondAE:
		res = c >= 0
	default:
		return nil, false
	}
	return constant.NewBool(res), true
}

// foldConvert changes the width of a constant integer with the given extension.
func foldConvert(v value.Value, toBits int, signExtend bool) (*constant.Int, bool) {
	c, ok := v.(*constant.Int)
	if !ok {
		return nil, false
	}
	to := IntegerType(toBits)
	var x *big.Int
	if signExtend {
		x = signedView(c.X, c.Typ.BitSize)
	} else {
		x = unsignedView(c.X, c.Typ.BitSize)
	}
	return &constant.Int{Typ: to, X: wrapInt(x, to.BitSize)}, true
}
