package debug

// GenerateGroundGrid builds line vertices for a flat reference grid on the
// ground plane, [x y z] per vertex. The viewer draws it as a stand-in
// basemap so camera motion and shadow placement are readable against
// something.
func GenerateGroundGrid(minX, maxX, minZ, maxZ, spacing, y float32) []float32 {
	if spacing <= 0 || maxX <= minX || maxZ <= minZ {
		return nil
	}

	var verts []float32
	for x := snapUp(minX, spacing); x <= maxX; x += spacing {
		verts = append(verts, x, y, minZ, x, y, maxZ)
	}
	for z := snapUp(minZ, spacing); z <= maxZ; z += spacing {
		verts = append(verts, minX, y, z, maxX, y, z)
	}
	return verts
}

// snapUp rounds v up to the next multiple of step.
func snapUp(v, step float32) float32 {
	n := int32(v / step)
	snapped := float32(n) * step
	if snapped < v {
		snapped += step
	}
	return snapped
}
