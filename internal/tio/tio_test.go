package tio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestReaderBothOrders(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		w := NewBufferWriter(32, order)
		w.WriteByte(0x2A)
		w.WriteUint16(0x0102)
		w.WriteUint32(0x03040506)
		w.WriteUint64(0x0708090A0B0C0D0E)
		w.WriteFloat64(1.5)

		r := NewReader(w.Bytes(), order)
		if b, err := r.ReadByte(); err != nil || b != 0x2A {
			t.Fatalf("%v ReadByte = %v, %v", order, b, err)
		}
		if v, err := r.ReadUint16(); err != nil || v != 0x0102 {
			t.Fatalf("%v ReadUint16 = %v, %v", order, v, err)
		}
		if v, err := r.ReadUint32(); err != nil || v != 0x03040506 {
			t.Fatalf("%v ReadUint32 = %v, %v", order, v, err)
		}
		if v, err := r.ReadUint64(); err != nil || v != 0x0708090A0B0C0D0E {
			t.Fatalf("%v ReadUint64 = %v, %v", order, v, err)
		}
		if v, err := r.ReadFloat64(); err != nil || v != 1.5 {
			t.Fatalf("%v ReadFloat64 = %v, %v", order, v, err)
		}
		if r.Len() != 0 {
			t.Fatalf("%v Len = %d after reading everything", order, r.Len())
		}
	}
}

func TestReaderBounds(t *testing.T) {
	r := NewReader([]byte{1, 2}, binary.LittleEndian)
	if _, err := r.ReadUint32(); err != ErrShortBuffer {
		t.Errorf("ReadUint32 on short data = %v, want ErrShortBuffer", err)
	}
	if err := r.Skip(3); err != ErrShortBuffer {
		t.Errorf("Skip(3) = %v, want ErrShortBuffer", err)
	}
	if err := r.Skip(-1); err != ErrNegativeSize {
		t.Errorf("Skip(-1) = %v, want ErrNegativeSize", err)
	}
	if err := r.SetPos(5); err != ErrShortBuffer {
		t.Errorf("SetPos(5) = %v, want ErrShortBuffer", err)
	}
	if _, err := r.ReadBytes(-1); err != ErrNegativeSize {
		t.Errorf("ReadBytes(-1) = %v, want ErrNegativeSize", err)
	}
}

func TestBufferWriterByteLayout(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		want  []byte
	}{
		{
			"little endian",
			binary.LittleEndian,
			[]byte{0x02, 0x01, 0x06, 0x05, 0x04, 0x03, 0x0E, 0x0D, 0x0C, 0x0B, 0x0A, 0x09, 0x08, 0x07},
		},
		{
			"big endian",
			binary.BigEndian,
			[]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewBufferWriter(16, tt.order)
			w.WriteUint16(0x0102)
			w.WriteUint32(0x03040506)
			w.WriteUint64(0x0708090A0B0C0D0E)
			if !bytes.Equal(w.Bytes(), tt.want) {
				t.Errorf("Bytes = % X, want % X", w.Bytes(), tt.want)
			}
		})
	}
}

func TestBufferWriterPatch(t *testing.T) {
	w := NewBufferWriter(16, binary.BigEndian)
	w.WriteUint32(0)
	w.WriteUint16(0xBEEF)
	if err := w.PatchUint32(0, 0xCAFEBABE); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0xBE, 0xEF}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes = % X, want % X", w.Bytes(), want)
	}
	if err := w.PatchUint32(4, 0); err != ErrShortBuffer {
		t.Errorf("PatchUint32 out of range = %v, want ErrShortBuffer", err)
	}
}

func TestBufferWriterPad(t *testing.T) {
	w := NewBufferWriter(8, binary.LittleEndian)
	w.WriteByte(1)
	w.Pad(4)
	if w.Len() != 4 {
		t.Errorf("Len after Pad(4) = %d, want 4", w.Len())
	}
	w.Pad(4)
	if w.Len() != 4 {
		t.Errorf("Pad on aligned buffer changed length to %d", w.Len())
	}
}
