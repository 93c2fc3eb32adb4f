package viewport

// Budget caps how many records one viewport update may request per kind.
type Budget struct {
	Trees     int
	Buildings int
}

// BudgetFor scales the entity cap by zoom: zoomed-out viewports cover far
// more ground than the caster budget can honor, so they get a smaller
// slice and rely on the fetch limit to thin the data. Trees take two
// thirds of the budget since each tree yields two solids but most urban
// records are trees.
func BudgetFor(zoom float64, maxEntities int) Budget {
	var frac float64
	switch {
	case zoom >= 17:
		frac = 1.0
	case zoom >= 16:
		frac = 0.75
	case zoom >= 15:
		frac = 0.5
	default:
		frac = 0.25
	}

	total := int(float64(maxEntities) * frac)
	trees := total * 2 / 3
	return Budget{Trees: trees, Buildings: total - trees}
}
