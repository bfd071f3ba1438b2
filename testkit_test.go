package gpmf

import (
	"github.com/ugparu/gpmf/klv"
	"github.com/ugparu/gpmf/utils/bits/pio"
)

// On-wire builders shared by the decoder tests.

func buildItem(key string, typ byte, size uint8, repeat uint16, payload []byte) []byte {
	b := make([]byte, 0, klv.HeaderSize+klv.Ceil4(len(payload)))
	b = append(b, key[0], key[1], key[2], key[3], typ, size, byte(repeat>>8), byte(repeat))
	b = append(b, payload...)
	for len(b)-klv.HeaderSize < klv.Ceil4(int(size)*int(repeat)) {
		b = append(b, 0)
	}
	return b
}

func buildContainer(key string, children ...[]byte) []byte {
	var body []byte
	for _, c := range children {
		body = append(body, c...)
	}
	return buildItem(key, klv.TypeNested, 1, uint16(len(body)), body)
}

func be32(vals ...int32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		pio.PutI32BE(b[i*4:], v)
	}
	return b
}

func be32u(v uint32) []byte {
	b := make([]byte, 4)
	pio.PutU32BE(b, v)
	return b
}

func be16u(v uint16) []byte {
	b := make([]byte, 2)
	pio.PutU16BE(b, v)
	return b
}

// scalItem is the canonical GPS5 scale vector: 1e7 for degrees, 1e3 for
// altitude and speeds.
func scalItem() []byte {
	return buildItem("SCAL", 'l', 4, 5, be32(10000000, 10000000, 1000, 1000, 1000))
}

func gpsuItem(ts string) []byte {
	return buildItem("GPSU", 'U', 16, 1, []byte(ts))
}

func unitItem() []byte {
	u := "deg,deg,m,m/s,m/s"
	return buildItem("UNIT", 'c', 1, uint16(len(u)), []byte(u))
}

// gps5Stream assembles a STRM container with a GPS5 payload plus siblings.
func gps5Stream(rows [][5]int32, siblings ...[]byte) []byte {
	var flat []int32
	for _, r := range rows {
		flat = append(flat, r[:]...)
	}
	children := append([][]byte{}, siblings...)
	children = append(children, buildItem("GPS5", 'l', 20, uint16(len(rows)), be32(flat...)))
	return buildContainer("STRM", children...)
}

// gps9Record packs one 36-byte GPS9 sample.
type gps9Record struct {
	lat, lon, alt      int32
	speed2d, speed3d   int16
	days               uint16
	secs               uint32
	dop                uint16
	fix                uint8
}

func (r gps9Record) bytes() []byte {
	b := make([]byte, 36)
	pio.PutI32BE(b[0:], r.lat)
	pio.PutI32BE(b[4:], r.lon)
	pio.PutI32BE(b[8:], r.alt)
	pio.PutI16BE(b[12:], r.speed2d)
	pio.PutI16BE(b[14:], r.speed3d)
	pio.PutU16BE(b[16:], r.days)
	pio.PutU32BE(b[18:], r.secs)
	pio.PutU16BE(b[22:], r.dop)
	b[24] = r.fix
	return b
}

func gps9Stream(records []gps9Record, siblings ...[]byte) []byte {
	var payload []byte
	for _, r := range records {
		payload = append(payload, r.bytes()...)
	}
	children := append([][]byte{}, siblings...)
	children = append(children, buildItem("GPS9", '?', 36, uint16(len(records)), payload))
	return buildContainer("STRM", children...)
}

// device wraps streams in a DEVC container with identity items.
func device(id uint32, name string, streams ...[]byte) []byte {
	children := [][]byte{
		buildItem("DVID", 'L', 4, 1, be32u(id)),
		buildItem("DVNM", 'c', 1, uint16(len(name)), []byte(name)),
	}
	children = append(children, streams...)
	return buildContainer("DEVC", children...)
}
