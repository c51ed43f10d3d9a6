package rpex

import (
	"iter"
	"slices"
)

// Partition is the geometry of one grid cell, one entry per axis.
// Values are in ratio units unless produced by Scaled.
type Partition struct {
	Position []uint32
	Size     []uint32
}

// Scaled returns the partition with every value multiplied by scale.
func (p Partition) Scaled(scale uint32) Partition {
	out := Partition{
		Position: make([]uint32, len(p.Position)),
		Size:     make([]uint32, len(p.Size)),
	}
	for i, v := range p.Position {
		out.Position[i] = v * scale
	}
	for i, v := range p.Size {
		out.Size[i] = v * scale
	}
	return out
}

// Len is the number of partitions: the product of addend counts.
func (r SumsInRatio) Len() int {
	if len(r.sums) == 0 {
		return 0
	}
	n := 1
	for _, s := range r.sums {
		n *= s.Len()
	}
	return n
}

// Partitions yields every cell of the grid. Axis 0 varies slowest and the
// last axis fastest. Each Partition owns its slices. The sequence can be
// ranged over any number of times and always yields the same cells.
func (r SumsInRatio) Partitions() iter.Seq[Partition] {
	return func(yield func(Partition) bool) {
		if len(r.sums) == 0 {
			return
		}
		axes := make([][]AddendWithOffset, len(r.sums))
		for i, s := range r.sums {
			axes[i] = slices.Collect(s.WithOffsets())
			if len(axes[i]) == 0 {
				return
			}
		}

		idx := make([]int, len(axes))
		for {
			p := Partition{
				Position: make([]uint32, len(axes)),
				Size:     make([]uint32, len(axes)),
			}
			for axis, i := range idx {
				p.Position[axis] = axes[axis][i].Offset
				p.Size[axis] = axes[axis][i].Addend
			}
			if !yield(p) {
				return
			}

			axis := len(idx) - 1
			for ; axis >= 0; axis-- {
				idx[axis]++
				if idx[axis] < len(axes[axis]) {
					break
				}
				idx[axis] = 0
			}
			if axis < 0 {
				return
			}
		}
	}
}
