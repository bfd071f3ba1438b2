package mp4

import (
	"errors"
	"io"

	"github.com/ugparu/gpmf/utils/bits/pio"
)

// Tag is a four-byte MP4 atom identifier.
type Tag uint32

func (t Tag) String() string {
	var b [4]byte
	pio.PutU32BE(b[:], uint32(t))
	for i := 0; i < 4; i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

const (
	MOOV = Tag(0x6d6f6f76)
	TRAK = Tag(0x7472616b)
	MDIA = Tag(0x6d646961)
	MINF = Tag(0x6d696e66)
	STBL = Tag(0x7374626c)
	STSD = Tag(0x73747364)
	STSC = Tag(0x73747363)
	STSZ = Tag(0x7374737a)
	STCO = Tag(0x7374636f)
	CO64 = Tag(0x636f3634)
	MDAT = Tag(0x6d646174)
	GPMD = Tag(0x67706d64)
)

const atomHeaderSize = 8

// readMoov scans top-level atoms and returns the body of the first moov.
func readMoov(r io.ReadSeeker) ([]byte, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	hdr := make([]byte, atomHeaderSize)
	for {
		if _, err := io.ReadFull(r, hdr); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errors.New("mp4: 'moov' atom not found")
			}
			return nil, err
		}
		size := int64(pio.U32BE(hdr))
		tag := Tag(pio.U32BE(hdr[4:]))

		skip := size - atomHeaderSize
		if size == 1 {
			// 64-bit extended size, used by large mdat atoms.
			ext := make([]byte, 8)
			if _, err := io.ReadFull(r, ext); err != nil {
				return nil, err
			}
			skip = pio.I64BE(ext) - atomHeaderSize - 8
		} else if size < atomHeaderSize {
			return nil, errors.New("mp4: invalid atom size")
		}

		if tag == MOOV {
			body := make([]byte, skip)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, err
			}
			return body, nil
		}
		if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
			return nil, err
		}
	}
}

// eachChild calls fn for every well-formed direct child atom of body.
func eachChild(body []byte, fn func(tag Tag, body []byte)) {
	for n := 0; n+atomHeaderSize <= len(body); {
		size := int(pio.U32BE(body[n:]))
		tag := Tag(pio.U32BE(body[n+4:]))
		if size < atomHeaderSize || n+size > len(body) {
			return
		}
		fn(tag, body[n+atomHeaderSize:n+size])
		n += size
	}
}

// child returns the body of the first direct child with the given tag.
func child(body []byte, want Tag) (r []byte) {
	eachChild(body, func(tag Tag, b []byte) {
		if tag == want && r == nil {
			r = b
		}
	})
	return
}

type stscEntry struct {
	firstChunk      uint32
	samplesPerChunk uint32
}

// sampleTable is the subset of an stbl needed to walk a metadata track.
type sampleTable struct {
	format       Tag // stsd entry FourCC
	fixedSize    uint32
	count        uint32
	sizes        []uint32
	chunkOffsets []int64
	chunkGroups  []stscEntry
}

func (st *sampleTable) sampleCount() int {
	return int(st.count)
}

// samplesInChunk resolves the stsc run-length mapping for 0-based chunk c.
func (st *sampleTable) samplesInChunk(c int) uint32 {
	per := uint32(0)
	for _, g := range st.chunkGroups {
		if uint32(c)+1 < g.firstChunk {
			break
		}
		per = g.samplesPerChunk
	}
	return per
}

func (st *sampleTable) sampleSize(i int) uint32 {
	if st.fixedSize != 0 {
		return st.fixedSize
	}
	if i < len(st.sizes) {
		return st.sizes[i]
	}
	return 0
}

// parseSampleTable pulls the needed boxes out of one trak body.
func parseSampleTable(trak []byte) (st sampleTable, ok bool) {
	stbl := child(child(child(trak, MDIA), MINF), STBL)
	if stbl == nil {
		return st, false
	}

	if stsd := child(stbl, STSD); len(stsd) >= 8 {
		// version/flags, entry count, then sized entries.
		entries := stsd[8:]
		if len(entries) >= 8 {
			st.format = Tag(pio.U32BE(entries[4:]))
		}
	}

	if stsc := child(stbl, STSC); len(stsc) >= 8 {
		count := int(pio.U32BE(stsc[4:]))
		for i := 0; i < count && 8+i*12+12 <= len(stsc); i++ {
			e := stsc[8+i*12:]
			st.chunkGroups = append(st.chunkGroups, stscEntry{
				firstChunk:      pio.U32BE(e),
				samplesPerChunk: pio.U32BE(e[4:]),
			})
		}
	}

	if stsz := child(stbl, STSZ); len(stsz) >= 12 {
		st.fixedSize = pio.U32BE(stsz[4:])
		st.count = pio.U32BE(stsz[8:])
		if st.fixedSize == 0 {
			for i := 0; i < int(st.count) && 12+i*4+4 <= len(stsz); i++ {
				st.sizes = append(st.sizes, pio.U32BE(stsz[12+i*4:]))
			}
		}
	}

	if stco := child(stbl, STCO); len(stco) >= 8 {
		count := int(pio.U32BE(stco[4:]))
		for i := 0; i < count && 8+i*4+4 <= len(stco); i++ {
			st.chunkOffsets = append(st.chunkOffsets, int64(pio.U32BE(stco[8+i*4:])))
		}
	} else if co64 := child(stbl, CO64); len(co64) >= 8 {
		count := int(pio.U32BE(co64[4:]))
		for i := 0; i < count && 8+i*8+8 <= len(co64); i++ {
			st.chunkOffsets = append(st.chunkOffsets, pio.I64BE(co64[8+i*8:]))
		}
	}

	return st, true
}
