package klv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func leafOf(t *testing.T, raw []byte) Item {
	t.Helper()
	it, ok := NewReader(raw).Next()
	require.True(t, ok)
	return it
}

func TestInt32BigEndian(t *testing.T) {
	t.Parallel()

	it := leafOf(t, buildItem("DVID", 'l', 4, 1, []byte{0x00, 0x00, 0x00, 0x2A}))
	require.Equal(t, []int32{42}, it.Int32s())
}

func TestTextTrimming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"trailing_nul_and_space", "GoPro HERO11 \x00\x00\x00", "GoPro HERO11"},
		{"interior_preserved", "deg,deg,m,m/s", "deg,deg,m,m/s"},
		{"leading_space_kept", "  x", "  x"},
		{"all_padding", "\x00\x00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			it := leafOf(t, buildItem("DVNM", 'c', 1, uint16(len(tt.payload)), []byte(tt.payload)))
			require.Equal(t, tt.want, it.Text())
		})
	}
}

func TestTruncatedPayloadYieldsFewerElements(t *testing.T) {
	t.Parallel()

	// Declares three int32s, delivers one and a half.
	raw := buildItem("SCAL", 'l', 4, 3, make([]byte, 12))[:HeaderSize+6]
	it := leafOf(t, raw)
	require.Len(t, it.Int32s(), 1)
}

func TestFloat64sAnyDispatch(t *testing.T) {
	t.Parallel()

	t.Run("int32", func(t *testing.T) {
		t.Parallel()
		payload := []byte{
			0x00, 0x98, 0x96, 0x80, // 10000000
			0x00, 0x00, 0x03, 0xE8, // 1000
		}
		it := leafOf(t, buildItem("SCAL", 'l', 4, 2, payload))
		require.Equal(t, []float64{10000000, 1000}, it.Float64sAny())
	})

	t.Run("int16_negative", func(t *testing.T) {
		t.Parallel()
		it := leafOf(t, buildItem("SCAL", 's', 2, 1, []byte{0xFF, 0xFE}))
		require.Equal(t, []float64{-2}, it.Float64sAny())
	})

	t.Run("float32", func(t *testing.T) {
		t.Parallel()
		bits := math.Float32bits(2.5)
		payload := []byte{byte(bits >> 24), byte(bits >> 16), byte(bits >> 8), byte(bits)}
		it := leafOf(t, buildItem("SCAL", 'f', 4, 1, payload))
		require.Equal(t, []float64{2.5}, it.Float64sAny())
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		it := leafOf(t, buildItem("SCAL", '@', 4, 1, []byte{1, 2, 3, 4}))
		require.Nil(t, it.Float64sAny())
	})
}

func TestFirstUint32Widths(t *testing.T) {
	t.Parallel()

	it := leafOf(t, buildItem("GPSP", 'S', 2, 1, []byte{0x27, 0x0F}))
	v, ok := it.FirstUint32()
	require.True(t, ok)
	require.Equal(t, uint32(9999), v)

	it = leafOf(t, buildItem("GPSF", 'L', 4, 1, []byte{0, 0, 0, 3}))
	v, ok = it.FirstUint32()
	require.True(t, ok)
	require.Equal(t, uint32(3), v)

	it = leafOf(t, buildItem("GPSF", 'c', 1, 4, []byte("none")))
	_, ok = it.FirstUint32()
	require.False(t, ok)
}
