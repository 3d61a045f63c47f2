package intrinsics

import (
	"encoding/binary"
	"math"

	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
)

// arrayBufferObj is a fixed-size byte buffer (SPEC_FULL.md §5's
// ArrayBuffer/DataView pairing), grounded on
// original_source/crates/yavashark_env/src/builtins/array_buffer.rs. Kept
// as a plain Go []byte rather than a typed-array hierarchy — typed arrays
// themselves (Int8Array, Uint32Array, ...) are out of scope; only the
// DataView accessor surface SPEC_FULL.md names is implemented.
type arrayBufferObj struct {
	object.Object
	data []byte
}

func newArrayBufferObj(proto object.Obj, size int) *arrayBufferObj {
	return &arrayBufferObj{Object: *object.NewWithClass(proto, "ArrayBuffer"), data: make([]byte, size)}
}

// dataViewObj is a DataView over an arrayBufferObj's bytes, with its own
// byteOffset/byteLength window.
type dataViewObj struct {
	object.Object
	buf    *arrayBufferObj
	offset int
	length int
}

func newDataViewObj(proto object.Obj, buf *arrayBufferObj, offset, length int) *dataViewObj {
	return &dataViewObj{Object: *object.NewWithClass(proto, "DataView"), buf: buf, offset: offset, length: length}
}

// installArrayBuffer builds ArrayBuffer/DataView (SPEC_FULL.md §5):
// getUint8/setUint8/getInt32/setInt32/getFloat64/setFloat64 with an
// explicit little-endian flag, matching the DataView spec's
// littleEndian-by-default-false convention.
func (b *builder) installArrayBuffer() {
	b.arrayBufferProto = object.New(b.objectProto)
	b.method(b.arrayBufferProto, "slice", 2, b.arrayBufferSlice)

	abCtor := b.ctor("ArrayBuffer", 1, b.arrayBufferProto, b.arrayBufferConstructor)
	abCtor.DefinePropertyAttributes(value.IKeyStr("byteLength"), value.Number(0), builtinAttrs, b.m)

	b.dataViewProto = object.New(b.objectProto)
	b.method(b.dataViewProto, "getUint8", 1, b.dataViewGet(1, readUint8))
	b.method(b.dataViewProto, "setUint8", 2, b.dataViewSet(1, writeUint8))
	b.method(b.dataViewProto, "getInt8", 1, b.dataViewGet(1, readInt8))
	b.method(b.dataViewProto, "setInt8", 2, b.dataViewSet(1, writeInt8))
	b.method(b.dataViewProto, "getUint32", 1, b.dataViewGetEndian(4, readUint32))
	b.method(b.dataViewProto, "setUint32", 2, b.dataViewSetEndian(4, writeUint32))
	b.method(b.dataViewProto, "getInt32", 1, b.dataViewGetEndian(4, readInt32))
	b.method(b.dataViewProto, "setInt32", 2, b.dataViewSetEndian(4, writeInt32))
	b.method(b.dataViewProto, "getFloat64", 1, b.dataViewGetEndian(8, readFloat64))
	b.method(b.dataViewProto, "setFloat64", 2, b.dataViewSetEndian(8, writeFloat64))
	b.ctor("DataView", 1, b.dataViewProto, b.dataViewConstructor)
}

func (b *builder) arrayBufferConstructor(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	size := int(arg(args, 0).Float())
	if size < 0 {
		return value.Undefined, c.ThrowTypeError("Invalid array buffer length")
	}
	return value.FromObj(newArrayBufferObj(b.arrayBufferProto, size)), nil
}

func (b *builder) arrayBufferSlice(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	buf, ok := asObj(this).(*arrayBufferObj)
	if !ok {
		return value.Undefined, c.ThrowTypeError("ArrayBuffer.prototype.slice called on a non-ArrayBuffer")
	}
	length := len(buf.data)
	start := relativeIndex(arg(args, 0), length, 0)
	end := relativeIndex(arg(args, 1), length, length)
	if start >= end {
		return value.FromObj(newArrayBufferObj(b.arrayBufferProto, 0)), nil
	}
	out := newArrayBufferObj(b.arrayBufferProto, end-start)
	copy(out.data, buf.data[start:end])
	return value.FromObj(out), nil
}

func (b *builder) dataViewConstructor(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	buf, ok := asObj(arg(args, 0)).(*arrayBufferObj)
	if !ok {
		return value.Undefined, c.ThrowTypeError("DataView constructor requires an ArrayBuffer")
	}
	offset := 0
	if len(args) > 1 {
		offset = int(args[1].Float())
	}
	length := len(buf.data) - offset
	if len(args) > 2 {
		length = int(args[2].Float())
	}
	if offset < 0 || length < 0 || offset+length > len(buf.data) {
		return value.Undefined, c.ThrowTypeError("Invalid DataView range")
	}
	return value.FromObj(newDataViewObj(b.dataViewProto, buf, offset, length)), nil
}

func dataViewOf(c object.Caller, this value.Value) (*dataViewObj, error) {
	dv, ok := asObj(this).(*dataViewObj)
	if !ok {
		return nil, c.ThrowTypeError("DataView method called on a non-DataView")
	}
	return dv, nil
}

func (b *builder) dataViewGet(width int, read func([]byte) value.Value) object.NativeFn {
	return func(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
		dv, err := dataViewOf(c, this)
		if err != nil {
			return value.Undefined, err
		}
		at := int(arg(args, 0).Float())
		if at < 0 || at+width > dv.length {
			return value.Undefined, c.ThrowTypeError("Offset is outside the bounds of the DataView")
		}
		return read(dv.buf.data[dv.offset+at : dv.offset+at+width]), nil
	}
}

func (b *builder) dataViewSet(width int, write func([]byte, value.Value)) object.NativeFn {
	return func(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
		dv, err := dataViewOf(c, this)
		if err != nil {
			return value.Undefined, err
		}
		at := int(arg(args, 0).Float())
		if at < 0 || at+width > dv.length {
			return value.Undefined, c.ThrowTypeError("Offset is outside the bounds of the DataView")
		}
		write(dv.buf.data[dv.offset+at:dv.offset+at+width], arg(args, 1))
		return value.Undefined, nil
	}
}

// dataViewGetEndian/dataViewSetEndian add DataView's third "littleEndian"
// boolean argument (default false, i.e. big-endian, per the spec) over the
// fixed-endianness helpers above.
func (b *builder) dataViewGetEndian(width int, read func([]byte, bool) value.Value) object.NativeFn {
	return func(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
		dv, err := dataViewOf(c, this)
		if err != nil {
			return value.Undefined, err
		}
		at := int(arg(args, 0).Float())
		little := arg(args, 1).IsTruthy()
		if at < 0 || at+width > dv.length {
			return value.Undefined, c.ThrowTypeError("Offset is outside the bounds of the DataView")
		}
		return read(dv.buf.data[dv.offset+at:dv.offset+at+width], little), nil
	}
}

func (b *builder) dataViewSetEndian(width int, write func([]byte, value.Value, bool)) object.NativeFn {
	return func(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
		dv, err := dataViewOf(c, this)
		if err != nil {
			return value.Undefined, err
		}
		at := int(arg(args, 0).Float())
		little := arg(args, 2).IsTruthy()
		if at < 0 || at+width > dv.length {
			return value.Undefined, c.ThrowTypeError("Offset is outside the bounds of the DataView")
		}
		write(dv.buf.data[dv.offset+at:dv.offset+at+width], arg(args, 1), little)
		return value.Undefined, nil
	}
}

func readUint8(b []byte) value.Value { return value.Number(float64(b[0])) }
func readInt8(b []byte) value.Value  { return value.Number(float64(int8(b[0]))) }
func writeUint8(b []byte, v value.Value) { b[0] = byte(uint8(v.Float())) }
func writeInt8(b []byte, v value.Value)  { b[0] = byte(int8(v.Float())) }

func readUint32(b []byte, little bool) value.Value {
	if little {
		return value.Number(float64(binary.LittleEndian.Uint32(b)))
	}
	return value.Number(float64(binary.BigEndian.Uint32(b)))
}

func writeUint32(b []byte, v value.Value, little bool) {
	n := uint32(int64(v.Float()))
	if little {
		binary.LittleEndian.PutUint32(b, n)
	} else {
		binary.BigEndian.PutUint32(b, n)
	}
}

func readInt32(b []byte, little bool) value.Value {
	if little {
		return value.Number(float64(int32(binary.LittleEndian.Uint32(b))))
	}
	return value.Number(float64(int32(binary.BigEndian.Uint32(b))))
}

func writeInt32(b []byte, v value.Value, little bool) {
	n := uint32(int32(v.Float()))
	if little {
		binary.LittleEndian.PutUint32(b, n)
	} else {
		binary.BigEndian.PutUint32(b, n)
	}
}

func readFloat64(b []byte, little bool) value.Value {
	var bits uint64
	if little {
		bits = binary.LittleEndian.Uint64(b)
	} else {
		bits = binary.BigEndian.Uint64(b)
	}
	return value.Number(math.Float64frombits(bits))
}

func writeFloat64(b []byte, v value.Value, little bool) {
	bits := math.Float64bits(v.Float())
	if little {
		binary.LittleEndian.PutUint64(b, bits)
	} else {
		binary.BigEndian.PutUint64(b, bits)
	}
}
