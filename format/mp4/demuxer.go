// Package mp4 extracts the GoPro `gpmd` timed-metadata track from an MP4
// file. The concatenated samples form the GPMF buffer the decoder consumes.
package mp4

import (
	"errors"
	"io"
	"os"

	"github.com/ugparu/gpmf/utils/logger"
)

var ErrNoGPMDTrack = errors.New("mp4: no 'gpmd' metadata track")

type Demuxer struct {
	url string
	r   *os.File
}

func NewDemuxer(url string) *Demuxer {
	return &Demuxer{url: url}
}

// ExtractGPMF opens the file and returns the concatenated payload of its
// gpmd track.
func (dmx *Demuxer) ExtractGPMF() (buf []byte, err error) {
	if dmx.r == nil {
		if dmx.r, err = os.Open(dmx.url); err != nil {
			return nil, err
		}
	}
	return Extract(dmx.r)
}

func (dmx *Demuxer) Close() {
	if dmx.r != nil {
		dmx.r.Close()
		dmx.r = nil
	}
}

// Extract walks the moov sample tables and reads every sample of the gpmd
// track in on-wire order.
func Extract(r io.ReadSeeker) ([]byte, error) {
	moov, err := readMoov(r)
	if err != nil {
		return nil, err
	}

	var track *sampleTable
	eachChild(moov, func(tag Tag, body []byte) {
		if tag != TRAK || track != nil {
			return
		}
		if st, ok := parseSampleTable(body); ok && st.format == GPMD {
			track = &st
		}
	})
	if track == nil {
		return nil, ErrNoGPMDTrack
	}
	logger.Debugf("mp4", "gpmd track: %d samples over %d chunks", track.sampleCount(), len(track.chunkOffsets))

	var out []byte
	sample := 0
	total := track.sampleCount()
	for c := 0; c < len(track.chunkOffsets) && sample < total; c++ {
		offset := track.chunkOffsets[c]
		per := int(track.samplesInChunk(c))
		for i := 0; i < per && sample < total; i++ {
			size := track.sampleSize(sample)
			if size == 0 {
				sample++
				continue
			}
			if _, err = r.Seek(offset, io.SeekStart); err != nil {
				return nil, err
			}
			data := make([]byte, size)
			if _, err = io.ReadFull(r, data); err != nil {
				return nil, err
			}
			out = append(out, data...)
			offset += int64(size)
			sample++
		}
	}
	return out, nil
}
