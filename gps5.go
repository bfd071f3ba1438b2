package gpmf

import (
	"fmt"
	"time"

	"github.com/ugparu/gpmf/klv"
	"github.com/ugparu/gpmf/utils/logger"
)

// GPS5 packs five big-endian int32 columns per sample.
const gps5Columns = 5

// gps5Rate is the nominal GPS5 sample rate in Hz; per-sample timestamps step
// by floor(i*1000/18) milliseconds from the GPSU base time.
const gps5Rate = 18

const defaultPrecision = 9999

// now is the wall-clock fallback for an absent or unparseable GPSU base
// time; overridable in tests.
var now = time.Now

// decodeGPS5 interprets a GPS5-bearing stream. Sibling metadata falls back to
// defaults; a stream flagged EMPT decodes to nothing.
func decodeGPS5(strm klv.Branch) []GPSSample {
	if strm.Has(klv.EMPT) {
		return nil
	}
	item, ok := strm.FirstItem(klv.GPS5)
	if !ok {
		return nil
	}
	raw := item.Int32s()
	n := len(raw) / gps5Columns
	if n == 0 {
		return nil
	}

	scales := scaleVector(strm)
	base := gps5BaseTime(strm)
	units := unitsOf(strm)

	precision := uint32(defaultPrecision)
	if it, ok := strm.FirstItem(klv.GPSP); ok {
		if v, ok := it.FirstUint32(); ok {
			precision = v
		}
	}
	fix := uint32(0)
	if it, ok := strm.FirstItem(klv.GPSF); ok {
		if v, ok := it.FirstUint32(); ok {
			fix = v
		}
	}

	samples := make([]GPSSample, 0, n)
	for i := 0; i < n; i++ {
		row := raw[i*gps5Columns : (i+1)*gps5Columns]
		samples = append(samples, GPSSample{
			Description:   "GPS5",
			Timestamp:     base.Add(time.Duration(i*1000/gps5Rate) * time.Millisecond),
			PrecisionX100: precision,
			Fix:           fix,
			Lat:           float64(row[0]) / scaleAt(scales, 0),
			Lon:           float64(row[1]) / scaleAt(scales, 1),
			Alt:           float64(row[2]) / scaleAt(scales, 2),
			Speed2D:       float64(row[3]) / scaleAt(scales, 3),
			Speed3D:       float64(row[4]) / scaleAt(scales, 4),
			Units:         units,
			NPoints:       n,
		})
	}
	return samples
}

// gps5BaseTime resolves the block's base time from GPSU, falling back to the
// current UTC wall clock when the sibling is missing or unparseable.
func gps5BaseTime(strm klv.Branch) time.Time {
	it, ok := strm.FirstItem(klv.GPSU)
	if !ok {
		return now().UTC()
	}
	t, err := parseGPSU(it.Text())
	if err != nil {
		logger.Warnf("GPS5", "bad GPSU %q, using wall clock: %v", it.Text(), err)
		return now().UTC()
	}
	return t
}

// parseGPSU parses the GPSU clock string: yymmddhhmmss with an optional
// fractional-second suffix of up to three digits. Years count from 2000; the
// clock is UTC.
func parseGPSU(s string) (time.Time, error) {
	if len(s) < 12 {
		return time.Time{}, fmt.Errorf("gpmf: GPSU too short: %d bytes", len(s))
	}
	fields := make([]int, 6)
	for i := range fields {
		v, err := atoi2(s[i*2 : i*2+2])
		if err != nil {
			return time.Time{}, err
		}
		fields[i] = v
	}
	ms := 0
	if len(s) > 12 {
		if s[12] != '.' {
			return time.Time{}, fmt.Errorf("gpmf: GPSU fraction separator missing")
		}
		frac := s[13:]
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		v := 0
		for i := 0; i < 3; i++ {
			if frac[i] < '0' || frac[i] > '9' {
				return time.Time{}, fmt.Errorf("gpmf: GPSU fraction not numeric")
			}
			v = v*10 + int(frac[i]-'0')
		}
		ms = v
	}
	yy, mo, dd, hh, mi, ss := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]
	return time.Date(2000+yy, time.Month(mo), dd, hh, mi, ss, ms*int(time.Millisecond), time.UTC), nil
}

func atoi2(s string) (int, error) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, fmt.Errorf("gpmf: GPSU field %q not numeric", s)
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), nil
}
