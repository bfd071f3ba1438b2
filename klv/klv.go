// Package klv implements the GPMF flavor of Key-Length-Value framing: an
// 8-byte big-endian header (FourCC key, type character, element size, repeat
// count) followed by a 4-byte-aligned payload. It also projects a KLV stream
// into a keyed tree and decodes typed payloads.
package klv

import (
	"github.com/ugparu/gpmf/utils/bits/pio"
)

// FourCC is a four-byte GPMF key, conventionally ASCII.
type FourCC uint32

func (f FourCC) String() string {
	var b [4]byte
	pio.PutU32BE(b[:], uint32(f))
	for i := 0; i < 4; i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

// StringToFourCC packs the first four bytes of s into a FourCC.
func StringToFourCC(s string) FourCC {
	var b [4]byte
	copy(b[:], s)
	return FourCC(pio.U32BE(b[:]))
}

// Keys used by the GPS decoders.
const (
	DEVC = FourCC(0x44455643)
	STRM = FourCC(0x5354524d)
	GPS5 = FourCC(0x47505335)
	GPS9 = FourCC(0x47505339)
	SCAL = FourCC(0x5343414c)
	GPSU = FourCC(0x47505355)
	GPSP = FourCC(0x47505350)
	GPSF = FourCC(0x47505346)
	GPSA = FourCC(0x47505341)
	UNIT = FourCC(0x554e4954)
	DVID = FourCC(0x44564944)
	DVNM = FourCC(0x44564e4d)
	STNM = FourCC(0x53544e4d)
	EMPT = FourCC(0x454d5054)
	TSMP = FourCC(0x54534d50)
	STMP = FourCC(0x53544d50)
	TYPE = FourCC(0x54595045)
)

// TypeNested marks an item whose payload is a nested KLV stream.
const TypeNested = byte(0x00)

// elementWidth maps a GPMF type character to the width of one element in
// bytes. Codes absent from the table are opaque.
var elementWidth = map[byte]int{
	'd': 8, // float64
	'f': 4, // float32
	'b': 1, // int8
	'B': 1, // uint8
	's': 2, // int16
	'S': 2, // uint16
	'l': 4, // int32
	'L': 4, // uint32
	'j': 8, // int64
	'J': 8, // uint64
	'c': 1, // ASCII character
	'U': 16, // UTC timestamp string
	'?': 4, // complex
}

// KnownType reports whether t is a recognized type character.
func KnownType(t byte) bool {
	_, ok := elementWidth[t]
	return ok
}

// TypeWidth returns the element width of a recognized type character and 0
// otherwise.
func TypeWidth(t byte) int {
	return elementWidth[t]
}

// Ceil4 rounds x up to the closest multiple of 4. Non-positive x rounds to 0.
func Ceil4(x int) int {
	if x <= 0 {
		return 0
	}
	return (((x - 1) >> 2) + 1) << 2
}

// HeaderSize is the fixed KLV header length.
const HeaderSize = 8

// Item is a single KLV record. Payload is a view into the reader's input
// buffer covering the aligned payload, clipped to what actually exists.
type Item struct {
	Key     FourCC
	Type    byte
	Size    uint8
	Repeat  uint16
	Payload []byte
}

// RawSize is the unpadded payload length declared by the header.
func (it Item) RawSize() int {
	return int(it.Size) * int(it.Repeat)
}

// Data returns the payload with trailing alignment padding trimmed.
func (it Item) Data() []byte {
	if rs := it.RawSize(); rs < len(it.Payload) {
		return it.Payload[:rs]
	}
	return it.Payload
}

// IsContainer reports whether the item nests other KLV items. A zero type
// byte is the standard marker; unrecognized type characters with a zero
// element size are treated the same way, while unrecognized characters with a
// nonzero size stay opaque leaves.
func (it Item) IsContainer() bool {
	if it.Type == TypeNested {
		return true
	}
	return !KnownType(it.Type) && it.Size == 0
}

// Reader iterates over the KLV items of a byte slice. Malformed input is not
// an error: iteration stops once fewer than HeaderSize bytes remain, and a
// final payload cut short by the end of the buffer is returned clipped.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Next returns the next item, or ok=false once the input is exhausted.
func (r *Reader) Next() (it Item, ok bool) {
	if len(r.buf)-r.off < HeaderSize {
		return Item{}, false
	}
	b := r.buf[r.off:]
	it.Key = FourCC(pio.U32BE(b))
	it.Type = b[4]
	it.Size = b[5]
	it.Repeat = pio.U16BE(b[6:])
	r.off += HeaderSize

	padded := Ceil4(it.RawSize())
	avail := len(r.buf) - r.off
	n := padded
	if n > avail {
		n = avail
	}
	it.Payload = r.buf[r.off : r.off+n]
	r.off += padded
	return it, true
}
