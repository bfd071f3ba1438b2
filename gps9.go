package gpmf

import (
	"time"

	"github.com/ugparu/gpmf/klv"
	"github.com/ugparu/gpmf/utils/bits/pio"
)

// GPS9 packs fixed-layout samples; the KLV element size is the per-sample
// stride. Field offsets within one sample:
const (
	gps9OffLat     = 0  // int32
	gps9OffLon     = 4  // int32
	gps9OffAlt     = 8  // int32
	gps9OffSpeed2D = 12 // int16
	gps9OffSpeed3D = 14 // int16
	gps9OffDays    = 16 // uint16, days since 2000-01-01
	gps9OffSecs    = 18 // uint32, seconds in day scaled by scales[6]
	gps9OffDOP     = 22 // uint16, precision x100
	gps9OffFix     = 24 // uint8

	gps9MinStride = gps9OffFix + 1
)

// gps9SecsScale is the scale column applied to the in-day seconds field.
const gps9SecsScale = 6

// decodeGPS9 interprets a GPS9-bearing stream. Each sample carries its own
// clock, DOP and fix, so no GPSU/GPSP/GPSF siblings are consulted.
func decodeGPS9(strm klv.Branch) []GPSSample {
	item, ok := strm.FirstItem(klv.GPS9)
	if !ok {
		return nil
	}
	stride := int(item.Size)
	if stride < gps9MinStride {
		return nil
	}
	data := item.Data()
	count := int(item.Repeat)
	// A clipped final payload drops samples whose fields are not all present
	// rather than misreading.
	avail := 0
	if len(data) >= gps9MinStride {
		avail = (len(data)-gps9MinStride)/stride + 1
	}
	if count > avail {
		count = avail
	}
	if count == 0 {
		return nil
	}

	scales := scaleVector(strm)
	units := unitsOf(strm)
	secsScale := scaleAt(scales, gps9SecsScale)
	if secsScale == 0 {
		secsScale = 1.0
	}
	epoch := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	samples := make([]GPSSample, 0, count)
	for i := 0; i < count; i++ {
		rec := data[i*stride:]
		days := int(pio.U16BE(rec[gps9OffDays:]))
		secs := pio.U32BE(rec[gps9OffSecs:])
		ms := int64(float64(secs) * 1000.0 / secsScale)
		samples = append(samples, GPSSample{
			Description:   "GPS9",
			Timestamp:     epoch.Add(time.Duration(days)*24*time.Hour + time.Duration(ms)*time.Millisecond),
			PrecisionX100: uint32(pio.U16BE(rec[gps9OffDOP:])),
			Fix:           uint32(rec[gps9OffFix]),
			Lat:           float64(pio.I32BE(rec[gps9OffLat:])) / scaleAt(scales, 0),
			Lon:           float64(pio.I32BE(rec[gps9OffLon:])) / scaleAt(scales, 1),
			Alt:           float64(pio.I32BE(rec[gps9OffAlt:])) / scaleAt(scales, 2),
			Speed2D:       float64(pio.I16BE(rec[gps9OffSpeed2D:])) / scaleAt(scales, 3),
			Speed3D:       float64(pio.I16BE(rec[gps9OffSpeed3D:])) / scaleAt(scales, 4),
			Units:         units,
			NPoints:       count,
		})
	}
	return samples
}
