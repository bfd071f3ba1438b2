// Package gpx renders decoded GPS tracks as GPX 1.1 XML and merges GPX
// documents.
package gpx

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/ugparu/gpmf"
	"github.com/ugparu/gpmf/utils/logger"
)

const (
	xmlns   = "http://www.topografix.com/GPX/1/1"
	version = "1.1"

	defaultCreator = "gpmf"
	timeLayout     = "2006-01-02T15:04:05.000Z"
)

// Options control track rendering.
type Options struct {
	Creator      string // gpx creator attribute; defaults to "gpmf".
	TrackName    string // trk name element; omitted when empty.
	ValidFixOnly bool   // Drop samples without a 2D or better fix.
	Minimal      bool   // Emit lat/lon attributes only.
}

type gpxDoc struct {
	XMLName xml.Name   `xml:"gpx"`
	Version string     `xml:"version,attr"`
	Creator string     `xml:"creator,attr"`
	Xmlns   string     `xml:"xmlns,attr"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name,omitempty"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat        string         `xml:"lat,attr"`
	Lon        string         `xml:"lon,attr"`
	Ele        string         `xml:"ele,omitempty"`
	Time       string         `xml:"time,omitempty"`
	Extensions *gpxExtensions `xml:"extensions,omitempty"`
}

type gpxExtensions struct {
	Speed   string `xml:"speed,omitempty"`
	Speed3D string `xml:"speed3d,omitempty"`
	Fix     string `xml:"fix,omitempty"`
	HDOP    string `xml:"hdop,omitempty"`
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 7, 64)
}

func metric(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// point renders one sample, clamping out-of-range coordinates to zero the
// way cameras with a cold GPS lock require.
func point(s gpmf.GPSSample, minimal bool) gpxPoint {
	lat, lon := s.Lat, s.Lon
	if lat > 90 || lat < -90 {
		logger.Warnf(s.Description, "invalid latitude %f, clamping to 0", lat)
		lat = 0
	}
	if lon > 180 || lon < -180 {
		logger.Warnf(s.Description, "invalid longitude %f, clamping to 0", lon)
		lon = 0
	}
	p := gpxPoint{Lat: coord(lat), Lon: coord(lon)}
	if minimal {
		return p
	}
	p.Ele = metric(s.Alt)
	p.Time = s.Timestamp.UTC().Format(timeLayout)
	p.Extensions = &gpxExtensions{
		Speed:   metric(s.Speed2D),
		Speed3D: metric(s.Speed3D),
		Fix:     s.FixKind(),
		HDOP:    metric(s.DOP()),
	}
	return p
}

// Marshal renders a track as a GPX 1.1 document.
func Marshal(track *gpmf.GPSTrack, opts Options) ([]byte, error) {
	if opts.ValidFixOnly {
		track = track.ValidOnly()
	}
	creator := opts.Creator
	if creator == "" {
		creator = defaultCreator
	}

	seg := gpxSegment{Points: make([]gpxPoint, 0, len(track.Samples))}
	for _, s := range track.Samples {
		seg.Points = append(seg.Points, point(s, opts.Minimal))
	}
	doc := gpxDoc{
		Version: version,
		Creator: creator,
		Xmlns:   xmlns,
		Tracks: []gpxTrack{{
			Name:     opts.TrackName,
			Segments: []gpxSegment{seg},
		}},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Write renders a track into w.
func Write(w io.Writer, track *gpmf.GPSTrack, opts Options) error {
	b, err := Marshal(track, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
