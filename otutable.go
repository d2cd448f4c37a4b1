// Copyright (C) The Biplot Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package biplot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OTUTable is an abundance table: one row per taxon, one column per
// sample.
type OTUTable struct {
	SampleIDs []string
	Lineages  []string
	Data      [][]float64
}

// ReadOTUTable reads a tab-separated abundance table. The first
// non-comment line is the header; its first field names the taxon
// column (e.g., "Taxon" or "#OTU ID") and the rest are sample IDs. If
// the last header field is "Consensus Lineage" or "taxonomy", that
// column holds the lineages, otherwise the first column does.
func ReadOTUTable(r io.Reader) (*OTUTable, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var otus OTUTable
	var header []string
	lineageCol := 0
	for lineno, line := range bytes.Split(buf, []byte{'\n'}) {
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}
		split := strings.Split(string(line), "\t")
		if header == nil {
			if line[0] == '#' && !strings.EqualFold(split[0], "#OTU ID") {
				continue
			}
			header = split
			samples := header[1:]
			if last := len(header) - 1; last > 0 && isLineageHeader(header[last]) {
				lineageCol = last
				samples = header[1:last]
			}
			otus.SampleIDs = append([]string{}, samples...)
			continue
		}
		if len(split) != len(header) {
			return nil, fmt.Errorf("line %d: %d fields, expected %d", lineno+1, len(split), len(header))
		}
		row := make([]float64, len(otus.SampleIDs))
		for i := range row {
			row[i], err = strconv.ParseFloat(split[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: sample %s: %w", lineno+1, otus.SampleIDs[i], err)
			}
		}
		otus.Lineages = append(otus.Lineages, split[lineageCol])
		otus.Data = append(otus.Data, row)
	}
	if header == nil {
		return nil, errors.New("no header row")
	}
	return &otus, nil
}

func isLineageHeader(name string) bool {
	return strings.EqualFold(name, "Consensus Lineage") || strings.EqualFold(name, "taxonomy")
}

// Coords holds principal coordinates: one row per sample, one column
// per ordination axis.
type Coords struct {
	Header           []string
	Data             [][]float64
	Eigvals          []float64
	PercentExplained []float64
}

// ReadCoords reads principal coordinates in the tab-separated
// format:
//
//	pc vector number	1	2	...
//	sampleA	-0.27	-0.14	...
//	sampleB	-0.23	0.04	...
//
//	eigvals	4.94	1.79	...
//	% variation explained	33.8	12.2	...
func ReadCoords(r io.Reader) (*Coords, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var coords Coords
	for lineno, line := range bytes.Split(buf, []byte{'\n'}) {
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		split := strings.Split(string(line), "\t")
		label := split[0]
		if label == "pc vector number" {
			continue
		}
		values, err := parseFloats(split[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno+1, err)
		}
		switch label {
		case "eigvals":
			coords.Eigvals = values
		case "% variation explained":
			coords.PercentExplained = values
		default:
			if len(coords.Data) > 0 && len(values) != len(coords.Data[0]) {
				return nil, fmt.Errorf("line %d: sample %s has %d coordinates, expected %d", lineno+1, label, len(values), len(coords.Data[0]))
			}
			coords.Header = append(coords.Header, label)
			coords.Data = append(coords.Data, values)
		}
	}
	if len(coords.Data) == 0 {
		return nil, errors.New("no sample coordinates")
	}
	return &coords, nil
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
