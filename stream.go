package gpmf

import (
	"strconv"

	"github.com/ugparu/gpmf/klv"
)

// Defaults substituted when device metadata is absent.
const (
	defaultDeviceID   = "unknown"
	defaultDeviceName = "GoPro"
	defaultUnits      = "deg,deg,m,m/s,m/s"
)

// devices returns the top-level DEVC branches in on-wire order.
func devices(tree klv.Branch) []klv.Branch {
	return tree.Branches(klv.DEVC)
}

// streams returns the STRM branches of a device in on-wire order.
func streams(dev klv.Branch) []klv.Branch {
	return dev.Branches(klv.STRM)
}

// streamFormat classifies one stream. GPS9 wins when both payloads are
// present.
func streamFormat(strm klv.Branch) Format {
	if strm.Has(klv.GPS9) {
		return FormatGPS9
	}
	if strm.Has(klv.GPS5) {
		return FormatGPS5
	}
	return FormatUnknown
}

// gpsStreams collects every GPS-bearing stream of the tree, keyed by format.
func gpsStreams(tree klv.Branch) (gps5, gps9 []klv.Branch) {
	for _, dev := range devices(tree) {
		for _, strm := range streams(dev) {
			switch streamFormat(strm) {
			case FormatGPS5:
				gps5 = append(gps5, strm)
			case FormatGPS9:
				gps9 = append(gps9, strm)
			}
		}
	}
	return
}

// treeFormat is the format the whole buffer decodes as: GPS9 when any stream
// carries it, GPS5 otherwise, unknown when no stream bears GPS.
func treeFormat(tree klv.Branch) Format {
	gps5, gps9 := gpsStreams(tree)
	switch {
	case len(gps9) > 0:
		return FormatGPS9
	case len(gps5) > 0:
		return FormatGPS5
	default:
		return FormatUnknown
	}
}

// deviceInfo reads DVID/DVNM from the first device that carries either,
// falling back to the defaults.
func deviceInfo(tree klv.Branch) (id, name string) {
	id, name = defaultDeviceID, defaultDeviceName
	for _, dev := range devices(tree) {
		it, hasID := dev.FirstItem(klv.DVID)
		nm, hasName := dev.FirstItem(klv.DVNM)
		if !hasID && !hasName {
			continue
		}
		if hasID {
			if v, ok := it.FirstUint32(); ok {
				id = strconv.FormatUint(uint64(v), 10)
			}
		}
		if hasName {
			if s := nm.Text(); s != "" {
				name = s
			}
		}
		return
	}
	return
}

// scaleVector decodes the sibling SCAL into per-column divisors. An absent
// SCAL means no scaling.
func scaleVector(strm klv.Branch) []float64 {
	it, ok := strm.FirstItem(klv.SCAL)
	if !ok {
		return nil
	}
	return it.Float64sAny()
}

// scaleAt returns the divisor for column i, substituting 1.0 when the vector
// is shorter than the payload expects.
func scaleAt(scales []float64, i int) float64 {
	if i < len(scales) {
		return scales[i]
	}
	return 1.0
}

// unitsOf reads the sibling UNIT string.
func unitsOf(strm klv.Branch) string {
	if it, ok := strm.FirstItem(klv.UNIT); ok {
		if s := it.Text(); s != "" {
			return s
		}
	}
	return defaultUnits
}
