// Copyright (C) The Biplot Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package biplot

import (
	"fmt"
	"sort"
)

// Feature is a single taxon in a biplot: its label, its position in
// ordination space, its abundance in each sample, and its prevalence
// score.
type Feature struct {
	Lineage    string
	Coords     []float64
	Abundance  []float64
	Prevalence float64
}

func (f Feature) clone() Feature {
	return Feature{
		Lineage:    f.Lineage,
		Coords:     append([]float64(nil), f.Coords...),
		Abundance:  append([]float64(nil), f.Abundance...),
		Prevalence: f.Prevalence,
	}
}

// SelectFeatures returns copies of the count most prevalent features,
// most prevalent first. Features with equal prevalence stay in their
// original order. A negative count selects all features; a count
// larger than len(features) is clamped.
func SelectFeatures(features []Feature, count int) []Feature {
	if count < 0 || count > len(features) {
		count = len(features)
	}
	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return features[order[i]].Prevalence > features[order[j]].Prevalence
	})
	selected := make([]Feature, count)
	for i, idx := range order[:count] {
		selected[i] = features[idx].clone()
	}
	return selected
}

// ExtractTaxaData is SelectFeatures for callers holding row-aligned
// parallel arrays. It returns new arrays holding the selected rows of
// coords, table, lineages and prevalence, in descending prevalence
// order.
//
// All four inputs must have the same length.
func ExtractTaxaData(coords, table [][]float64, lineages []string, prevalence []float64, count int) ([][]float64, [][]float64, []string, []float64) {
	n := len(prevalence)
	if len(coords) != n || len(table) != n || len(lineages) != n {
		panic(fmt.Sprintf("biplot: misaligned taxa data: %d coordinate rows, %d table rows, %d lineages, %d prevalence values", len(coords), len(table), len(lineages), n))
	}
	features := make([]Feature, n)
	for i := range features {
		features[i] = Feature{
			Lineage:    lineages[i],
			Coords:     coords[i],
			Abundance:  table[i],
			Prevalence: prevalence[i],
		}
	}
	return unzipFeatures(SelectFeatures(features, count))
}

func unzipFeatures(features []Feature) (coords, table [][]float64, lineages []string, prevalence []float64) {
	coords = make([][]float64, len(features))
	table = make([][]float64, len(features))
	lineages = make([]string, len(features))
	prevalence = make([]float64, len(features))
	for i, f := range features {
		coords[i] = f.Coords
		table[i] = f.Abundance
		lineages[i] = f.Lineage
		prevalence[i] = f.Prevalence
	}
	return
}
