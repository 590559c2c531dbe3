package llvm

import (
	"fortio.org/safecast"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// GEP computes an element address. The result stays in the base's address space.
func (b *Builder) GEP(base value.Value, indices ...value.Value) value.Value {
	c := requirePointer("gep", base)
	if len(indices) == 0 {
		fatalValues("gep", "no indices", base)
	}
	elem := gepResult(c.Pointee, indices[1:])
	gep := ir.NewGetElementPtr(c.Pointee, base, indices...)
	gep.Typ = PointerType(elem, c.Space)
	return put(b, "gep", gep)
}

// gepResult walks the aggregate indices after the leading pointer step.
func gepResult(t types.Type, indices []value.Value) types.Type {
	for _, idx := range indices {
		switch agg := t.(type) {
		case *types.ArrayType:
			t = agg.ElemType
		case *types.VectorType:
			t = agg.ElemType
		case *types.StructType:
			ci, ok := idx.(*constant.Int)
			if !ok || !ci.X.IsInt64() || ci.X.Int64() < 0 || ci.X.Int64() >= int64(len(agg.Fields)) {
				fatalValues("gep", "struct field index must be an in-range constant", idx)
			}
			t = agg.Fields[ci.X.Int64()]
		default:
			fatalTypes("gep", "cannot index into type", t)
		}
	}
	return t
}

// Load reads a value of type t from address. An object read through an
// untracked address is loaded as a raw pointer and then registered, so the
// result is always tracked.
func (b *Builder) Load(address value.Value, t types.Type) value.Value {
	ac := requirePointer("load", address)
	requireNonVoid("load", t)
	pointee := t
	register := IsObject(t) && ac.Space != Tracked
	if register {
		pointee = RawPointerType()
	}
	addr := b.Bitcast(address, PointerType(pointee, ac.Space))
	loaded := put(b, "load", ir.NewLoad(pointee, addr))
	if register {
		return b.promote(loaded, t)
	}
	return loaded
}

// Store writes v to address. An object stored through an untracked address
// is demoted with a plain cast first.
func (b *Builder) Store(v, address value.Value) {
	ac := requirePointer("store", address)
	vt := v.Type()
	stored := v
	if IsObject(vt) && ac.Space != Tracked {
		stored = b.Bitcast(v, ObjectType())
		stored = b.AddrSpaceCast(stored, RawPointerType())
		vt = RawPointerType()
	}
	addr := b.Bitcast(address, PointerType(vt, ac.Space))
	b.emit("store", ir.NewStore(stored, addr))
}

// Alloca reserves a stack slot of type t.
func (b *Builder) Alloca(t types.Type) value.Value {
	requireNonVoid("alloca", t)
	return put(b, "alloca", ir.NewAlloca(t))
}

// ArrayAlloca reserves slots raw-pointer-sized stack slots.
func (b *Builder) ArrayAlloca(slots int) value.Value {
	n, err := safecast.Conv[int32](slots)
	if err != nil || n <= 0 {
		fatalf("array alloca", "invalid slot count %d", slots)
	}
	inst := ir.NewAlloca(RawPointerType())
	inst.NElems = ConstInt(n)
	return put(b, "array alloca", inst)
}

// Prefetch hints a write to address with no temporal locality.
func (b *Builder) Prefetch(address value.Value) {
	requirePointer("prefetch", address)
	f := b.intrinsic("llvm.prefetch."+IntrinsicSignature(address.Type()), types.Void,
		address.Type(), types.I32, types.I32, types.I32)
	b.emit("prefetch", ir.NewCall(f, address, ConstInt(1), ConstInt(0), ConstInt(1)))
}

// ReturnAddress returns the return address of the frame level levels up.
func (b *Builder) ReturnAddress(level value.Value) value.Value {
	requireWidth("return address", level, 32)
	f := b.intrinsic("llvm.returnaddress", RawPointerType(), types.I32)
	return put(b, "return address", ir.NewCall(f, level))
}

// FrameAddress returns the frame pointer of the frame level levels up.
func (b *Builder) FrameAddress(level value.Value) value.Value {
	requireWidth("frame address", level, 32)
	f := b.intrinsic("llvm.frameaddress", RawPointerType(), types.I32)
	return put(b, "frame address", ir.NewCall(f, level))
}

// ExtractValue reads field i of a struct or array value.
func (b *Builder) ExtractValue(agg value.Value, i int) value.Value {
	switch kindOf(agg.Type()) {
	case tkStruct, tkArray:
	default:
		fatalValues("extractvalue", "operand is not an aggregate", agg)
	}
	return put(b, "extractvalue", ir.NewExtractValue(agg, mustLen("extractvalue", i)))
}

// ExtractElement reads lane idx of a vector.
func (b *Builder) ExtractElement(vec, idx value.Value) value.Value {
	if kindOf(vec.Type()) != tkVector {
		fatalValues("extractelement", "operand is not a vector", vec)
	}
	requireInteger("extractelement", idx)
	return put(b, "extractelement", ir.NewExtractElement(vec, idx))
}

func requirePointer(op string, v value.Value) Classification {
	c := Classify(v.Type())
	if c.Class != ClassPointer {
		fatalValues(op, "operand is not a pointer", v)
	}
	return c
}

func requireWidth(op string, v value.Value, bits int) {
	if got := requireInteger(op, v); got != bits {
		fatalValues(op, "unexpected integer width", v)
	}
}
