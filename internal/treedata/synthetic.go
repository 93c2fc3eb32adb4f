package treedata

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/urbancanopy/shadowcast/pkg/geo"
)

// Synthetic city layout parameters. The generator lays out square blocks on
// a street grid: most blocks get a building, every few blocks is a park
// filled with trees, and streets are lined with trees at regular spacing.
const (
	blockSizeM      = 90.0
	streetWidthM    = 18.0
	parkEveryN      = 4
	parkTreeSpacing = 14.0
	streetTreeStep  = 22.0
)

// GenerateSynthetic builds a deterministic catalog covering radiusM meters
// around the given center. Sizes are derived from position hashes, so two
// calls with identical arguments produce identical records.
func GenerateSynthetic(centerLon, centerLat float64, radiusM float64) ([]Tree, []Building) {
	var trees []Tree
	var buildings []Building

	p := geo.NewProjector(centerLon, centerLat)
	cell := blockSizeM + streetWidthM
	n := int(radiusM / cell)

	treeIdx := 0
	bldgIdx := 0

	for bx := -n; bx <= n; bx++ {
		for bz := -n; bz <= n; bz++ {
			// Block origin in local meters (x east, z south).
			ox := float64(bx) * cell
			oz := float64(bz) * cell

			if isPark(bx, bz) {
				trees = append(trees, parkTrees(p, ox, oz, &treeIdx)...)
				continue
			}

			buildings = append(buildings, blockBuilding(p, ox, oz, bx, bz, &bldgIdx))
			trees = append(trees, streetTrees(p, ox, oz, &treeIdx)...)
		}
	}

	return trees, buildings
}

func isPark(bx, bz int) bool {
	return (bx%parkEveryN+parkEveryN)%parkEveryN == 0 &&
		(bz%parkEveryN+parkEveryN)%parkEveryN == 0
}

// parkTrees fills a park block with a grid of larger trees.
func parkTrees(p *geo.Projector, ox, oz float64, idx *int) []Tree {
	var trees []Tree
	for x := ox; x < ox+blockSizeM; x += parkTreeSpacing {
		for z := oz; z < oz+blockSizeM; z += parkTreeSpacing {
			h := 9.0 + 6.0*math.Abs(math.Sin(x*0.31+z*0.47))
			c := 5.0 + 4.0*math.Abs(math.Sin(x*0.53+z*0.29))
			g := 60.0 + 90.0*math.Abs(math.Sin(x*0.41+z*0.37))

			lon, lat := p.ToGeo(float32(x), float32(z))
			trees = append(trees, Tree{
				ID:     fmt.Sprintf("tree_park_%06d", *idx),
				Lon:    lon,
				Lat:    lat,
				Height: h,
				Girth:  g,
				Canopy: c,
			})
			*idx++
		}
	}
	return trees
}

// streetTrees lines the north edge of a block with smaller trees.
func streetTrees(p *geo.Projector, ox, oz float64, idx *int) []Tree {
	var trees []Tree
	for x := ox; x < ox+blockSizeM; x += streetTreeStep {
		z := oz - streetWidthM/2

		h := 6.0 + 3.0*math.Abs(math.Sin(x*0.37+z*0.41))
		c := 3.5 + 2.0*math.Abs(math.Sin(x*0.59+z*0.31))
		g := 40.0 + 50.0*math.Abs(math.Sin(x*0.43+z*0.23))

		lon, lat := p.ToGeo(float32(x), float32(z))
		trees = append(trees, Tree{
			ID:     fmt.Sprintf("tree_street_%06d", *idx),
			Lon:    lon,
			Lat:    lat,
			Height: h,
			Girth:  g,
			Canopy: c,
		})
		*idx++
	}
	return trees
}

// blockBuilding places one rectangular building filling most of a block.
func blockBuilding(p *geo.Projector, ox, oz float64, bx, bz int, idx *int) Building {
	inset := 8.0
	minX, maxX := ox+inset, ox+blockSizeM-inset
	minZ, maxZ := oz+inset, oz+blockSizeM-inset

	// 4 to 11 floors depending on grid position.
	floors := 4 + ((bx*7+bz*13)%8+8)%8
	height := float64(floors) * 3.2

	corners := [][2]float64{
		{minX, minZ}, {maxX, minZ}, {maxX, maxZ}, {minX, maxZ}, {minX, minZ},
	}
	ring := make(orb.Ring, 0, len(corners))
	for _, c := range corners {
		lon, lat := p.ToGeo(float32(c[0]), float32(c[1]))
		ring = append(ring, orb.Point{lon, lat})
	}

	b := Building{
		ID:     fmt.Sprintf("bldg_%06d", *idx),
		Ring:   ring,
		Height: height,
	}
	*idx++
	return b
}
