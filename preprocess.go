// Copyright (C) The Biplot Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package biplot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedComputation is returned (possibly wrapped) when no
// meaningful biplot can be computed from the given input, e.g., a
// contingency table with a single row. Callers should check for it
// with errors.Is and skip the biplot overlay.
var ErrUnsupportedComputation = errors.New("biplots are not supported for this input")

// DefaultDigits is the number of significant digits used for
// coordinates in the scores text block.
const DefaultDigits = 12

// Result holds the taxa selected for a biplot and their coordinates
// serialized as a scores text block.
type Result struct {
	Features []Feature
	// Number of ordination dimensions
	Dims     int
	// Tab-separated "#Taxon\tpc0\tpc1..." block, no trailing
	// newline
	Scores   string
}

func (r *Result) Coords() [][]float64 {
	coords, _, _, _ := unzipFeatures(r.Features)
	return coords
}

func (r *Result) Table() [][]float64 {
	_, table, _, _ := unzipFeatures(r.Features)
	return table
}

func (r *Result) Lineages() []string {
	_, _, lineages, _ := unzipFeatures(r.Features)
	return lineages
}

func (r *Result) Prevalence() []float64 {
	_, _, _, prevalence := unzipFeatures(r.Features)
	return prevalence
}

// Preprocessor computes biplot coordinates for taxa.
type Preprocessor struct {
	// Number of most prevalent taxa to keep. Negative means all.
	Count  int
	// Significant digits in Result.Scores. 0 means DefaultDigits,
	// -1 means the fewest digits that represent each float64
	// exactly.
	Digits int
}

// PreprocessOTUTable is shorthand for
// (&Preprocessor{Count: count}).Preprocess(...).
func PreprocessOTUTable(sampleIDs []string, table [][]float64, lineages []string, coords [][]float64, header []string, count int) (*Result, error) {
	return (&Preprocessor{Count: count}).Preprocess(sampleIDs, table, lineages, coords, header)
}

// Preprocess projects the taxa in table into the ordination space
// given by coords, ranks them by prevalence, and returns the most
// prevalent ones.
//
// table has one row per taxon (labeled by lineages) and one column per
// sample (identified by sampleIDs). coords has one row per sample,
// identified by header, which may list the samples in a different
// order than sampleIDs.
//
// If sampleIDs, table and lineages are all empty, the result is empty.
func (p *Preprocessor) Preprocess(sampleIDs []string, table [][]float64, lineages []string, coords [][]float64, header []string) (*Result, error) {
	if len(table) == 0 && len(lineages) == 0 && len(sampleIDs) == 0 {
		return &Result{}, nil
	}
	if len(table) < 2 {
		return nil, fmt.Errorf("%w: contingency table has %d rows, need at least 2", ErrUnsupportedComputation, len(table))
	}
	if len(lineages) != len(table) {
		return nil, fmt.Errorf("%w: %d lineages for %d table rows", ErrUnsupportedComputation, len(lineages), len(table))
	}
	for i, row := range table {
		if len(row) != len(sampleIDs) {
			return nil, fmt.Errorf("%w: table row %d (%s) has %d values for %d samples", ErrUnsupportedComputation, i, lineages[i], len(row), len(sampleIDs))
		}
	}
	if len(sampleIDs) == 0 {
		return &Result{}, nil
	}
	dims, err := coordDims(coords, header)
	if err != nil {
		return nil, err
	}
	perm, err := alignSamples(sampleIDs, header)
	if err != nil {
		return nil, err
	}

	rel := relativeAbundance(table)
	prev := prevalence(rel)
	projected := project(rel, coords, perm)

	features := make([]Feature, len(table))
	for i := range features {
		features[i] = Feature{
			Lineage:    lineages[i],
			Coords:     projected.RawRowView(i),
			Abundance:  table[i],
			Prevalence: prev[i],
		}
	}
	selected := SelectFeatures(features, p.Count)
	digits := p.Digits
	if digits == 0 {
		digits = DefaultDigits
	}
	return &Result{
		Features: selected,
		Dims:     dims,
		Scores:   FormatScores(selected, dims, digits),
	}, nil
}

// FormatScores returns a tab-separated text block with a
// "#Taxon\tpc0\tpc1..." header line followed by one line per feature:
// its lineage and coordinates, each formatted with the given number
// of significant digits (-1 for the fewest digits that represent the
// value exactly). Lines are separated by "\n" with no trailing
// newline.
func FormatScores(features []Feature, dims, digits int) string {
	lines := make([]string, 0, len(features)+1)
	header := []byte("#Taxon")
	for i := 0; i < dims; i++ {
		header = append(header, "\tpc"...)
		header = strconv.AppendInt(header, int64(i), 10)
	}
	lines = append(lines, string(header))
	for _, f := range features {
		line := []byte(f.Lineage)
		for _, v := range f.Coords {
			line = append(line, '\t')
			line = strconv.AppendFloat(line, v, 'g', digits, 64)
		}
		lines = append(lines, string(line))
	}
	return strings.Join(lines, "\n")
}
