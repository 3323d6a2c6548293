package tiff

import "encoding/binary"

// Field is a TIFF IFD entry and its raw data: the tag, the on-disk data
// type, the element count, and the value bytes in the file's byte order.
type Field struct {
	Tag   Tag
	Type  DataType
	Count uint32
	Data  []byte
}

// Size returns the byte size of the field's data.
func (f Field) Size() int {
	return f.Type.Size() * int(f.Count)
}

// Byte returns a BYTE field's ith data element.
func (f Field) Byte(i int) uint8 {
	return f.Data[i]
}

// Short returns a SHORT field's ith data element.
func (f Field) Short(i int, order binary.ByteOrder) uint16 {
	return order.Uint16(f.Data[i*2:])
}

// Long returns a LONG field's ith data element.
func (f Field) Long(i int, order binary.ByteOrder) uint32 {
	return order.Uint32(f.Data[i*4:])
}

// Long8 returns a LONG8 field's ith data element (BigTIFF).
func (f Field) Long8(i int, order binary.ByteOrder) uint64 {
	return order.Uint64(f.Data[i*8:])
}

// Rational returns a RATIONAL field's ith data element.
func (f Field) Rational(i int, order binary.ByteOrder) Rational {
	return Rational{
		Num:   order.Uint32(f.Data[i*8:]),
		Denom: order.Uint32(f.Data[i*8+4:]),
	}
}

// ASCII returns an ASCII field's data as a string. It omits the
// terminating NUL if present but retains any interior NULs.
func (f Field) ASCII() string {
	l := len(f.Data)
	if l == 0 {
		return ""
	}
	if f.Data[l-1] == 0 {
		return string(f.Data[:l-1])
	}
	return string(f.Data)
}

// AnyInteger returns an integer-typed field's ith data element widened
// to uint64. The second return value is false when the field is not an
// unsigned integer type or the element is out of range.
func (f Field) AnyInteger(i int, order binary.ByteOrder) (uint64, bool) {
	if i < 0 || i >= int(f.Count) || f.Size() > len(f.Data) {
		return 0, false
	}
	switch f.Type {
	case TypeByte:
		return uint64(f.Byte(i)), true
	case TypeShort:
		return uint64(f.Short(i, order)), true
	case TypeLong, TypeIFD:
		return uint64(f.Long(i, order)), true
	case TypeLong8, TypeIFD8:
		return f.Long8(i, order), true
	}
	return 0, false
}

// Integers returns all elements of an integer-typed field widened to
// uint64, or false when the field is not an unsigned integer type.
func (f Field) Integers(order binary.ByteOrder) ([]uint64, bool) {
	out := make([]uint64, f.Count)
	for i := range out {
		v, ok := f.AnyInteger(i, order)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// wellFormed reports whether the field's data is consistent with its
// declared type and count. Fields of unknown type are never well formed.
func (f Field) wellFormed() bool {
	size := f.Type.Size()
	return size > 0 && len(f.Data) >= size*int(f.Count)
}
