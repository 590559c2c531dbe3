package llvm

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir/types"
)

// Kind is a semantic value kind handed over by the calling compiler.
type Kind uint8

const (
	KindIllegal Kind = iota
	KindBoolean
	KindByte
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindObject
	KindRawPointer
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindIllegal:
		return "illegal"
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindObject:
		return "object"
	case KindRawPointer:
		return "rawpointer"
	case KindVoid:
		return "void"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// StackKind widens sub-int kinds to the kind used for stack slots.
func (k Kind) StackKind() Kind {
	switch k {
	case KindBoolean, KindByte, KindShort, KindChar:
		return KindInt
	default:
		return k
	}
}

// AddrSpace tags a pointer as pointing at a GC-managed object or at raw memory.
type AddrSpace uint8

const (
	Untracked AddrSpace = iota
	Tracked
)

func (s AddrSpace) String() string {
	if s == Tracked {
		return "tracked"
	}
	return "untracked"
}

// llvmSpace is the numeric LLVM address space for s.
func (s AddrSpace) llvmSpace() types.AddrSpace {
	if s == Tracked {
		return 1
	}
	return 0
}

func spaceFor(tracked bool) AddrSpace {
	if tracked {
		return Tracked
	}
	return Untracked
}

// Resolve maps a semantic kind onto its canonical IR type.
func Resolve(k Kind) types.Type {
	switch k {
	case KindBoolean:
		return types.I1
	case KindByte:
		return types.I8
	case KindShort, KindChar:
		return types.I16
	case KindInt:
		return types.I32
	case KindLong:
		return types.I64
	case KindFloat:
		return types.Float
	case KindDouble:
		return types.Double
	case KindObject:
		return ObjectType()
	case KindRawPointer:
		return RawPointerType()
	case KindVoid:
		return types.Void
	default:
		fatalf("resolve", "illegal kind %s", k)
		return nil
	}
}

// ResolveStack resolves the stack-slot type of k.
func ResolveStack(k Kind) types.Type {
	return Resolve(k.StackKind())
}

// IntegerType returns the integer type of the given width.
func IntegerType(bits int) *types.IntType {
	switch bits {
	case 1:
		return types.I1
	case 8:
		return types.I8
	case 16:
		return types.I16
	case 32:
		return types.I32
	case 64:
		return types.I64
	}
	if bits <= 0 {
		fatalf("integer type", "invalid width %d", bits)
	}
	w, err := safecast.Conv[uint64](bits)
	if err != nil {
		fatalf("integer type", "invalid width %d: %v", bits, err)
	}
	return types.NewInt(w)
}

// PointerType returns a pointer to elem living in the given address space.
func PointerType(elem types.Type, space AddrSpace) *types.PointerType {
	requireNonVoid("pointer type", elem)
	p := types.NewPointer(elem)
	p.AddrSpace = space.llvmSpace()
	return p
}

// ObjectType is the type of a reference to a GC-managed object.
func ObjectType() *types.PointerType {
	return PointerType(types.I8, Tracked)
}

// RawPointerType is the type of an untracked byte pointer.
func RawPointerType() *types.PointerType {
	return PointerType(types.I8, Untracked)
}

// ArrayType returns [n x elem].
func ArrayType(elem types.Type, n int) *types.ArrayType {
	requireNonVoid("array type", elem)
	return types.NewArray(mustLen("array type", n), elem)
}

// VectorType returns <n x elem>.
func VectorType(elem types.Type, n int) *types.VectorType {
	requireNonVoid("vector type", elem)
	return types.NewVector(mustLen("vector type", n), elem)
}

// StructType returns a literal, unpacked struct of fields.
func StructType(fields ...types.Type) *types.StructType {
	for _, f := range fields {
		requireNonVoid("struct type", f)
	}
	return types.NewStruct(fields...)
}

// FunctionType returns a function signature; void is legal only as the result.
func FunctionType(ret types.Type, variadic bool, params ...types.Type) *types.FuncType {
	for _, p := range params {
		requireNonVoid("function type", p)
	}
	sig := types.NewFunc(ret, params...)
	sig.Variadic = variadic
	return sig
}

func requireNonVoid(op string, t types.Type) {
	if t == nil {
		fatalf(op, "nil element type")
	}
	if _, ok := t.(*types.VoidType); ok {
		fatalTypes(op, "void is not a value type", t)
	}
}

func mustLen(op string, n int) uint64 {
	l, err := safecast.Conv[uint64](n)
	if err != nil {
		fatalf(op, "invalid length %d: %v", n, err)
	}
	return l
}

// typeKind is the structural kind of an IR type; dispatch switches over it.
type typeKind uint8

const (
	tkOther typeKind = iota
	tkVoid
	tkInteger
	tkFloat
	tkDouble
	tkPointer
	tkArray
	tkStruct
	tkVector
	tkFunc
)

func kindOf(t types.Type) typeKind {
	switch t := t.(type) {
	case *types.VoidType:
		return tkVoid
	case *types.IntType:
		return tkInteger
	case *types.FloatType:
		switch t.Kind {
		case types.FloatKindFloat:
			return tkFloat
		case types.FloatKindDouble:
			return tkDouble
		}
		return tkOther
	case *types.PointerType:
		return tkPointer
	case *types.ArrayType:
		return tkArray
	case *types.StructType:
		return tkStruct
	case *types.VectorType:
		return tkVector
	case *types.FuncType:
		return tkFunc
	default:
		return tkOther
	}
}

// Class is the coarse classification used for instruction selection.
type Class uint8

const (
	ClassOther Class = iota
	ClassInteger
	ClassFloat
	ClassDouble
	ClassPointer
)

func (c Class) String() string {
	switch c {
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "float"
	case ClassDouble:
		return "double"
	case ClassPointer:
		return "pointer"
	default:
		return "other"
	}
}

// Classification is the result of Classify. Bits is set for integers and
// Space/Pointee for pointers.
type Classification struct {
	Class   Class
	Bits    int
	Space   AddrSpace
	Pointee types.Type
}

// IsFloating reports whether the classification selects floating-point opcodes.
func (c Classification) IsFloating() bool {
	return c.Class == ClassFloat || c.Class == ClassDouble
}

// Tracked reports whether the classification is a pointer to a GC-managed object.
func (c Classification) Tracked() bool {
	return c.Class == ClassPointer && c.Space == Tracked
}

// Classify inspects t. Pointers outside the two address spaces this layer uses
// are an invariant violation.
func Classify(t types.Type) Classification {
	switch kindOf(t) {
	case tkInteger:
		return Classification{Class: ClassInteger, Bits: intBits(t.(*types.IntType))}
	case tkFloat:
		return Classification{Class: ClassFloat}
	case tkDouble:
		return Classification{Class: ClassDouble}
	case tkPointer:
		p := t.(*types.PointerType)
		return Classification{Class: ClassPointer, Space: spaceOf(p), Pointee: p.ElemType}
	default:
		return Classification{Class: ClassOther}
	}
}

func spaceOf(p *types.PointerType) AddrSpace {
	switch p.AddrSpace {
	case 0:
		return Untracked
	case 1:
		return Tracked
	default:
		fatalTypes("classify", fmt.Sprintf("unknown address space %d", p.AddrSpace), p)
		return Untracked
	}
}

func intBits(t *types.IntType) int {
	bits, err := safecast.Conv[int](t.BitSize)
	if err != nil {
		fatalTypes("classify", "integer width overflow", t)
	}
	return bits
}

// IsObject reports whether t is a tracked pointer.
func IsObject(t types.Type) bool {
	return Classify(t).Tracked()
}

// IsRawPointer reports whether t is an untracked pointer.
func IsRawPointer(t types.Type) bool {
	c := Classify(t)
	return c.Class == ClassPointer && c.Space == Untracked
}

// Compatible reports whether a and b may be used interchangeably as operands.
// Integers must agree on width; pointers on address space and, recursively, pointee.
func Compatible(a, b types.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case tkInteger:
		return a.(*types.IntType).BitSize == b.(*types.IntType).BitSize
	case tkPointer:
		pa, pb := a.(*types.PointerType), b.(*types.PointerType)
		return pa.AddrSpace == pb.AddrSpace && Compatible(pa.ElemType, pb.ElemType)
	default:
		return true
	}
}

// sameType reports structural identity, used to detect conflicting redeclarations.
func sameType(a, b types.Type) bool {
	return a.String() == b.String()
}

// IntrinsicSignature renders the overload suffix of t used in intrinsic names.
// It is a pure function of type structure.
func IntrinsicSignature(t types.Type) string {
	var sb strings.Builder
	writeSignature(&sb, t)
	return sb.String()
}

func writeSignature(sb *strings.Builder, t types.Type) {
	switch kindOf(t) {
	case tkInteger:
		sb.WriteString("i")
		sb.WriteString(strconv.FormatUint(t.(*types.IntType).BitSize, 10))
	case tkFloat:
		sb.WriteString("f32")
	case tkDouble:
		sb.WriteString("f64")
	case tkVoid:
		sb.WriteString("isVoid")
	case tkPointer:
		p := t.(*types.PointerType)
		sb.WriteString("p")
		sb.WriteString(strconv.FormatUint(uint64(p.AddrSpace), 10))
		writeSignature(sb, p.ElemType)
	case tkVector:
		v := t.(*types.VectorType)
		sb.WriteString("v")
		sb.WriteString(strconv.FormatUint(v.Len, 10))
		writeSignature(sb, v.ElemType)
	case tkFunc:
		f := t.(*types.FuncType)
		sb.WriteString("f_")
		writeSignature(sb, f.RetType)
		for _, p := range f.Params {
			writeSignature(sb, p)
		}
		sb.WriteString("f")
	default:
		fatalTypes("intrinsic signature", "type has no intrinsic encoding", t)
	}
}
