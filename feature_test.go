// Copyright (C) The Biplot Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package biplot

import (
	"gonum.org/v1/gonum/floats"
	"gopkg.in/check.v1"
)

type featureSuite struct{}

var _ = check.Suite(&featureSuite{})

func (s *featureSuite) TestTopThree(c *check.C) {
	coords, table, lineages, prevalence := ExtractTaxaData(testTaxaCoords, testOTUTable, testLineages, testPrevalence, 3)
	approxRows(c, coords, [][]float64{testTaxaCoords[4], testTaxaCoords[2], testTaxaCoords[7]}, 1e-12)
	approxRows(c, table, [][]float64{testOTUTable[4], testOTUTable[2], testOTUTable[7]}, 1e-12)
	c.Check(lineages, check.DeepEquals, []string{
		"Root;k__Bacteria;p__Firmicutes",
		"Root;k__Bacteria;p__Bacteroidetes",
		"Root;k__Bacteria;p__Tenericutes",
	})
	c.Check(prevalence, check.DeepEquals, []float64{1, 0.6646394, 0.08185147})
}

func (s *featureSuite) TestAll(c *check.C) {
	order := []int{4, 2, 7, 0, 3, 5, 1, 6}
	var wantCoords, wantTable [][]float64
	var wantLineages []string
	var wantPrevalence []float64
	for _, i := range order {
		wantCoords = append(wantCoords, testTaxaCoords[i])
		wantTable = append(wantTable, testOTUTable[i])
		wantLineages = append(wantLineages, testLineages[i])
		wantPrevalence = append(wantPrevalence, testPrevalence[i])
	}
	for _, count := range []int{-1, -5, 8, 100} {
		c.Logf("count %d", count)
		coords, table, lineages, prevalence := ExtractTaxaData(testTaxaCoords, testOTUTable, testLineages, testPrevalence, count)
		c.Check(coords, check.DeepEquals, wantCoords)
		c.Check(table, check.DeepEquals, wantTable)
		c.Check(lineages, check.DeepEquals, wantLineages)
		c.Check(prevalence, check.DeepEquals, wantPrevalence)
	}
}

func (s *featureSuite) TestStableTies(c *check.C) {
	features := []Feature{
		{Lineage: "a", Prevalence: 0},
		{Lineage: "b", Prevalence: 0.5},
		{Lineage: "c", Prevalence: 0},
		{Lineage: "d", Prevalence: 0.5},
		{Lineage: "e", Prevalence: 0},
	}
	var got []string
	for _, f := range SelectFeatures(features, -1) {
		got = append(got, f.Lineage)
	}
	c.Check(got, check.DeepEquals, []string{"b", "d", "a", "c", "e"})
}

func (s *featureSuite) TestIdempotent(c *check.C) {
	features := make([]Feature, len(testLineages))
	for i := range features {
		features[i] = Feature{
			Lineage:    testLineages[i],
			Coords:     testTaxaCoords[i],
			Abundance:  testOTUTable[i],
			Prevalence: testPrevalence[i],
		}
	}
	once := SelectFeatures(features, -1)
	twice := SelectFeatures(once, -1)
	c.Check(twice, check.DeepEquals, once)
	c.Check(SelectFeatures(features, len(features)), check.DeepEquals, once)
	c.Check(SelectFeatures(once, 3), check.DeepEquals, SelectFeatures(features, 3))
	for i := 1; i < len(once); i++ {
		c.Check(once[i].Prevalence <= once[i-1].Prevalence, check.Equals, true)
	}
}

func (s *featureSuite) TestEmpty(c *check.C) {
	coords, table, lineages, prevalence := ExtractTaxaData(nil, nil, nil, nil, 3)
	c.Check(coords, check.HasLen, 0)
	c.Check(table, check.HasLen, 0)
	c.Check(lineages, check.HasLen, 0)
	c.Check(prevalence, check.HasLen, 0)

	coords, table, lineages, prevalence = ExtractTaxaData(testTaxaCoords, testOTUTable, testLineages, testPrevalence, 0)
	c.Check(coords, check.HasLen, 0)
	c.Check(table, check.HasLen, 0)
	c.Check(lineages, check.HasLen, 0)
	c.Check(prevalence, check.HasLen, 0)
}

func (s *featureSuite) TestNoAliasing(c *check.C) {
	inCoords := copyMatrix(testTaxaCoords)
	inTable := copyMatrix(testOTUTable)
	inLineages := append([]string(nil), testLineages...)
	inPrevalence := append([]float64(nil), testPrevalence...)
	coords, table, lineages, prevalence := ExtractTaxaData(inCoords, inTable, inLineages, inPrevalence, -1)

	// inputs are untouched
	c.Check(inCoords, check.DeepEquals, testTaxaCoords)
	c.Check(inTable, check.DeepEquals, testOTUTable)
	c.Check(inLineages, check.DeepEquals, testLineages)
	c.Check(inPrevalence, check.DeepEquals, testPrevalence)

	// outputs don't share memory with inputs
	coords[0][0] = 99
	table[0][0] = 99
	lineages[0] = "x"
	prevalence[0] = 99
	c.Check(inCoords[4][0], check.Equals, testTaxaCoords[4][0])
	c.Check(inTable[4][0], check.Equals, testOTUTable[4][0])
	c.Check(floats.Equal(inPrevalence, testPrevalence), check.Equals, true)
}

func (s *featureSuite) TestMisaligned(c *check.C) {
	c.Check(func() {
		ExtractTaxaData(testTaxaCoords, testOTUTable, testLineages[:7], testPrevalence, 3)
	}, check.PanicMatches, `biplot: misaligned taxa data: .*`)
}
