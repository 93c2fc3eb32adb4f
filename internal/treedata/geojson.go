package treedata

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DecodeCatalog parses a GeoJSON feature collection into tree and building
// records. Point features with height/girth/canopy properties become trees;
// Polygon features with a height property become buildings. Features that do
// not fit either shape are ignored.
func DecodeCatalog(data []byte) ([]Tree, []Building, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding catalog: %w", err)
	}

	var trees []Tree
	var buildings []Building

	for i, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			trees = append(trees, Tree{
				ID:     featureID(f, i),
				Lon:    g[0],
				Lat:    g[1],
				Height: f.Properties.MustFloat64("height", 0),
				Girth:  f.Properties.MustFloat64("girth", 0),
				Canopy: f.Properties.MustFloat64("canopy", 0),
			})
		case orb.Polygon:
			if len(g) == 0 {
				continue
			}
			buildings = append(buildings, Building{
				ID:        featureID(f, i),
				Ring:      g[0], // outer ring only; holes do not matter for shadows
				Height:    f.Properties.MustFloat64("height", 0),
				MinHeight: f.Properties.MustFloat64("min_height", 0),
			})
		}
	}

	return trees, buildings, nil
}

// EncodeCatalog writes trees and buildings as a GeoJSON feature collection,
// the inverse of DecodeCatalog.
func EncodeCatalog(trees []Tree, buildings []Building) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for _, t := range trees {
		f := geojson.NewFeature(t.Point())
		f.ID = t.ID
		f.Properties["height"] = t.Height
		f.Properties["girth"] = t.Girth
		f.Properties["canopy"] = t.Canopy
		fc.Append(f)
	}

	for _, b := range buildings {
		f := geojson.NewFeature(orb.Polygon{b.Ring})
		f.ID = b.ID
		f.Properties["height"] = b.Height
		if b.MinHeight != 0 {
			f.Properties["min_height"] = b.MinHeight
		}
		fc.Append(f)
	}

	return fc.MarshalJSON()
}

func featureID(f *geojson.Feature, index int) string {
	switch id := f.ID.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return strconv.Itoa(index)
	}
}
