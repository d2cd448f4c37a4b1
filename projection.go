// Copyright (C) The Biplot Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package biplot

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// alignSamples returns, for each sample ID, the index of the
// coordinate row (i.e., the entry in header) holding that sample's
// position. If header lists a sample more than once, the first entry
// is used.
func alignSamples(sampleIDs, header []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, id := range header {
		if _, dup := index[id]; !dup {
			index[id] = i
		}
	}
	perm := make([]int, len(sampleIDs))
	for i, id := range sampleIDs {
		j, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: sample %q has no principal coordinates", ErrUnsupportedComputation, id)
		}
		perm[i] = j
	}
	return perm, nil
}

// coordDims returns the number of ordination dimensions in coords,
// after checking that coords is a non-empty rectangular matrix with
// one row per header entry.
func coordDims(coords [][]float64, header []string) (int, error) {
	if len(coords) != len(header) {
		return 0, fmt.Errorf("%w: %d coordinate rows but %d sample IDs in coordinate header", ErrUnsupportedComputation, len(coords), len(header))
	}
	if len(coords) == 0 || len(coords[0]) == 0 {
		return 0, fmt.Errorf("%w: no principal coordinates", ErrUnsupportedComputation)
	}
	dims := len(coords[0])
	for i, row := range coords {
		if len(row) != dims {
			return 0, fmt.Errorf("%w: coordinate row %d (%s) has %d values, expected %d", ErrUnsupportedComputation, i, header[i], len(row), dims)
		}
	}
	return dims, nil
}

// relativeAbundance copies table (taxa x samples) into a new matrix
// and scales each sample column to sum to 1. Columns summing to 0 are
// left alone.
func relativeAbundance(table [][]float64) *mat.Dense {
	rows, cols := len(table), len(table[0])
	m := mat.NewDense(rows, cols, nil)
	for i, row := range table {
		m.SetRow(i, row)
	}
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		sum := floats.Sum(col)
		if sum == 0 {
			continue
		}
		for i := range col {
			col[i] /= sum
		}
		m.SetCol(j, col)
	}
	return m
}

// prevalence returns each taxon's share of the total relative
// abundance, scaled so the rarest taxon scores 0 and the most
// prominent scores 1.
func prevalence(rel *mat.Dense) []float64 {
	rows, _ := rel.Dims()
	share := make([]float64, rows)
	for i := range share {
		share[i] = floats.Sum(rel.RawRowView(i))
	}
	if total := floats.Sum(share); total != 0 {
		for i := range share {
			share[i] /= total
		}
	}
	lo, hi := floats.Min(share), floats.Max(share)
	for i := range share {
		if hi == lo {
			share[i] = 0
		} else {
			share[i] = (share[i] - lo) / (hi - lo)
		}
	}
	return share
}

// project returns the position of each taxon in ordination space:
// the mean of the sample coordinates weighted by the taxon's relative
// abundance in each sample. Taxa absent from every sample are placed
// at the origin.
//
// perm[j] is the row of coords for column j of rel.
func project(rel *mat.Dense, coords [][]float64, perm []int) *mat.Dense {
	rows, cols := rel.Dims()
	weights := mat.DenseCopyOf(rel)
	for i := 0; i < rows; i++ {
		row := weights.RawRowView(i)
		sum := floats.Sum(row)
		if sum == 0 {
			continue
		}
		for j := range row {
			row[j] /= sum
		}
	}
	aligned := mat.NewDense(cols, len(coords[0]), nil)
	for j, k := range perm {
		aligned.SetRow(j, coords[k])
	}
	var projected mat.Dense
	projected.Mul(weights, aligned)
	return &projected
}
