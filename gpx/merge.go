package gpx

import (
	"encoding/xml"
	"fmt"
)

// mergeDoc is the lenient read-side schema: tracks, routes and waypoints all
// contribute points.
type mergeDoc struct {
	XMLName xml.Name `xml:"gpx"`
	Tracks  []struct {
		Segments []gpxSegment `xml:"trkseg"`
	} `xml:"trk"`
	Routes []struct {
		Points []gpxPoint `xml:"rtept"`
	} `xml:"rte"`
	Waypoints []gpxPoint `xml:"wpt"`
}

// Merge combines several GPX documents into a single track named "Merged",
// one segment per non-empty input segment, documents taken in order. Within
// a document, track segments come first, then routes (each becomes a
// segment), then waypoints (each becomes a single-point segment). With
// optimize set, points are stripped to lat/lon only.
func Merge(docs [][]byte, optimize bool) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("gpx: nothing to merge")
	}

	var segments []gpxSegment
	for i, raw := range docs {
		var doc mergeDoc
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("gpx: document %d: %w", i, err)
		}
		for _, trk := range doc.Tracks {
			for _, seg := range trk.Segments {
				if len(seg.Points) > 0 {
					segments = append(segments, seg)
				}
			}
		}
		for _, rte := range doc.Routes {
			if len(rte.Points) > 0 {
				segments = append(segments, gpxSegment{Points: rte.Points})
			}
		}
		for _, wpt := range doc.Waypoints {
			segments = append(segments, gpxSegment{Points: []gpxPoint{wpt}})
		}
	}

	if optimize {
		for si := range segments {
			for pi := range segments[si].Points {
				p := &segments[si].Points[pi]
				*p = gpxPoint{Lat: p.Lat, Lon: p.Lon}
			}
		}
	}

	out := gpxDoc{
		Version: version,
		Creator: defaultCreator,
		Xmlns:   xmlns,
		Tracks:  []gpxTrack{{Name: "Merged", Segments: segments}},
	}
	body, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
