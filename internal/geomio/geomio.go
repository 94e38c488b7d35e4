// Package geomio loads geometry from the formats the app accepts
// (GeoJSON, WKT, CSV, KML) into GeoJSON feature collections.
package geomio

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// LoadFile dispatches on the file extension. ".json" and ".geojson"
// parse as GeoJSON, ".wkt" as WKT, ".csv" as lat/lon rows, ".kml" as
// KML placemarks.
func LoadFile(path string) (*geojson.FeatureCollection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".geojson":
		return LoadGeoJSON(path)
	case ".wkt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseWKT(string(data))
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// LoadGeoJSON reads a GeoJSON file. A FeatureCollection parses as-is;
// a bare Feature or geometry is wrapped into a single-feature
// collection.
func LoadGeoJSON(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		return fc, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		fc := geojson.NewFeatureCollection()
		fc.Append(f)
		return fc, nil
	}
	if g, err := geojson.UnmarshalGeometry(data); err == nil && g.Geometry() != nil {
		fc := geojson.NewFeatureCollection()
		fc.Append(geojson.NewFeature(g.Geometry()))
		return fc, nil
	}
	return nil, errors.New("geojson: no geometries found")
}

// ParseWKT parses a single WKT geometry into a one-feature collection.
func ParseWKT(s string) (*geojson.FeatureCollection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("wkt: %w", err)
	}
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(g))
	return fc, nil
}

// LoadCSV reads a CSV with latitude/longitude columns into point
// features. Column detection: lat|latitude|y and
// lon|lng|long|longitude|x, case-insensitive. The remaining columns
// become feature properties. Rows that fail to parse are skipped.
func LoadCSV(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}

	header := recs[0]
	idxLat, idxLon := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}

	fc := geojson.NewFeatureCollection()
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		feat := geojson.NewFeature(orb.Point{lon, lat})
		for i, h := range header {
			if i == idxLat || i == idxLon || i >= len(row) {
				continue
			}
			feat.Properties[strings.TrimSpace(h)] = strings.TrimSpace(row[i])
		}
		fc.Append(feat)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("csv: no valid points parsed")
	}
	return fc, nil
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPlacemark struct {
	Name  string    `xml:"name"`
	Point *kmlPoint `xml:"Point"`
}

type kmlDoc struct {
	Placemarks    []kmlPlacemark `xml:"Placemark"`
	DocPlacemarks []kmlPlacemark `xml:"Document>Placemark"`
	FolderMarks   []kmlPlacemark `xml:"Document>Folder>Placemark"`
}

func (d kmlDoc) all() []kmlPlacemark {
	out := make([]kmlPlacemark, 0, len(d.Placemarks)+len(d.DocPlacemarks)+len(d.FolderMarks))
	out = append(out, d.Placemarks...)
	out = append(out, d.DocPlacemarks...)
	out = append(out, d.FolderMarks...)
	return out
}

// LoadKML extracts Placemark > Point coordinates into point features.
// KML coordinates are "lon,lat[,alt]"; altitude is dropped.
func LoadKML(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, pm := range doc.all() {
		if pm.Point == nil {
			continue
		}
		// coordinates may hold multiple tuples separated by whitespace
		for _, tuple := range strings.Fields(pm.Point.Coordinates) {
			vals := strings.Split(tuple, ",")
			if len(vals) < 2 {
				continue
			}
			lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
			if err1 != nil || err2 != nil {
				continue
			}
			feat := geojson.NewFeature(orb.Point{lon, lat})
			if pm.Name != "" {
				feat.Properties["name"] = pm.Name
			}
			fc.Append(feat)
		}
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("kml: no points found")
	}
	return fc, nil
}
