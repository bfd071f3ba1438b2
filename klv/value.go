package klv

import (
	"math"

	"github.com/ugparu/gpmf/utils/bits/pio"
)

// Typed payload readers. Element counts are derived from the clipped payload,
// never from the nominal size*repeat, so a truncated final item yields fewer
// elements instead of reading out of bounds.

func (it Item) Int32s() []int32 {
	data := it.Data()
	out := make([]int32, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		out = append(out, pio.I32BE(data[i:]))
	}
	return out
}

func (it Item) Uint32s() []uint32 {
	data := it.Data()
	out := make([]uint32, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		out = append(out, pio.U32BE(data[i:]))
	}
	return out
}

func (it Item) Int16s() []int16 {
	data := it.Data()
	out := make([]int16, 0, len(data)/2)
	for i := 0; i+2 <= len(data); i += 2 {
		out = append(out, pio.I16BE(data[i:]))
	}
	return out
}

func (it Item) Uint16s() []uint16 {
	data := it.Data()
	out := make([]uint16, 0, len(data)/2)
	for i := 0; i+2 <= len(data); i += 2 {
		out = append(out, pio.U16BE(data[i:]))
	}
	return out
}

func (it Item) Float32s() []float32 {
	data := it.Data()
	out := make([]float32, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		out = append(out, math.Float32frombits(pio.U32BE(data[i:])))
	}
	return out
}

func (it Item) Float64s() []float64 {
	data := it.Data()
	out := make([]float64, 0, len(data)/8)
	for i := 0; i+8 <= len(data); i += 8 {
		out = append(out, math.Float64frombits(pio.U64BE(data[i:])))
	}
	return out
}

// Text decodes the payload as ASCII, stripping trailing NUL and space bytes.
// Leading and interior bytes are untouched.
func (it Item) Text() string {
	data := it.Data()
	end := len(data)
	for end > 0 && (data[end-1] == 0x00 || data[end-1] == 0x20) {
		end--
	}
	return string(data[:end])
}

// FirstUint32 reads the leading element of an item known to carry a single
// unsigned value, widening narrower types.
func (it Item) FirstUint32() (uint32, bool) {
	data := it.Data()
	switch it.Type {
	case 'L', 'l':
		if len(data) >= 4 {
			return pio.U32BE(data), true
		}
	case 'S', 's':
		if len(data) >= 2 {
			return uint32(pio.U16BE(data)), true
		}
	case 'B', 'b':
		if len(data) >= 1 {
			return uint32(data[0]), true
		}
	}
	return 0, false
}

// Float64sAny converts any recognized numeric payload to float64 elementwise.
// Used for SCAL, whose on-wire type varies by firmware. Unknown and
// non-numeric type characters yield nil.
func (it Item) Float64sAny() []float64 {
	switch it.Type {
	case 'd':
		return it.Float64s()
	case 'f':
		return widen(it.Float32s())
	case 'b':
		data := it.Data()
		out := make([]float64, 0, len(data))
		for _, v := range data {
			out = append(out, float64(int8(v)))
		}
		return out
	case 'B':
		data := it.Data()
		out := make([]float64, 0, len(data))
		for _, v := range data {
			out = append(out, float64(v))
		}
		return out
	case 's':
		return widen(it.Int16s())
	case 'S':
		return widen(it.Uint16s())
	case 'l':
		return widen(it.Int32s())
	case 'L':
		return widen(it.Uint32s())
	case 'j':
		data := it.Data()
		out := make([]float64, 0, len(data)/8)
		for i := 0; i+8 <= len(data); i += 8 {
			out = append(out, float64(pio.I64BE(data[i:])))
		}
		return out
	case 'J':
		data := it.Data()
		out := make([]float64, 0, len(data)/8)
		for i := 0; i+8 <= len(data); i += 8 {
			out = append(out, float64(pio.U64BE(data[i:])))
		}
		return out
	}
	return nil
}

func widen[T int16 | uint16 | int32 | uint32 | float32](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
