package gpmf

import (
	"github.com/ugparu/gpmf/klv"
	"github.com/ugparu/gpmf/utils/logger"
)

// Parse decodes a GPMF buffer into a GPS track. A buffer without GPS data
// yields an empty track with FormatUnknown; the only error is klv.ErrMalformed
// from pathological nesting.
func Parse(buf []byte) (*GPSTrack, error) {
	tree, err := klv.Project(buf)
	if err != nil {
		return nil, err
	}

	track := &GPSTrack{Format: treeFormat(tree)}
	track.DeviceID, track.DeviceName = deviceInfo(tree)

	gps5, gps9 := gpsStreams(tree)
	switch track.Format {
	case FormatGPS9:
		for _, strm := range gps9 {
			track.Samples = append(track.Samples, decodeGPS9(strm)...)
		}
	case FormatGPS5:
		for _, strm := range gps5 {
			track.Samples = append(track.Samples, decodeGPS5(strm)...)
		}
	default:
		logger.Debug("gpmf", "no GPS-bearing stream in buffer")
	}
	return track, nil
}

// DetectFormat reports which GPS payload family the buffer carries without
// decoding samples.
func DetectFormat(buf []byte) Format {
	tree, err := klv.Project(buf)
	if err != nil {
		return FormatUnknown
	}
	return treeFormat(tree)
}

// DeviceInfo reads the recording device's identifier and name without
// decoding samples.
func DeviceInfo(buf []byte) (id, name string) {
	tree, err := klv.Project(buf)
	if err != nil {
		return defaultDeviceID, defaultDeviceName
	}
	return deviceInfo(tree)
}
