// Copyright (C) The Biplot Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package biplot

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
)

type biplotCmd struct{}

func (cmd *biplotCmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := cmd.run(prog, args, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	return 0
}

func (cmd *biplotCmd) run(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	otuTableFilename := flags.String("otu-table", "", "abundance table `file` (tab-separated, one row per taxon, one column per sample)")
	coordsFilename := flags.String("coords", "", "principal coordinates `file`")
	count := flags.Int("n", 10, "number of most prevalent taxa to keep (negative to keep all)")
	digits := flags.Int("digits", DefaultDigits, "significant `digits` in output coordinates (-1 for the shortest exact representation)")
	outputFilename := flags.String("o", "-", "output `file` for biplot coordinates")
	npyFilename := flags.String("npy", "", "also write coordinates of selected taxa to numpy `file`")
	prevalenceFilename := flags.String("prevalence-output", "", "also write lineage and prevalence of selected taxa to tsv `file`")
	err := flags.Parse(args)
	if err == flag.ErrHelp {
		return nil
	} else if err != nil {
		return err
	} else if flags.NArg() > 0 {
		return fmt.Errorf("errant command line arguments after parsed flags: %v", flags.Args())
	}
	if *otuTableFilename == "" || *coordsFilename == "" {
		return errors.New("must provide both -otu-table and -coords")
	}
	if *otuTableFilename == "-" && *coordsFilename == "-" {
		return errors.New("cannot read both -otu-table and -coords from stdin")
	}
	if *digits == 0 || *digits < -1 {
		return fmt.Errorf("invalid -digits %d", *digits)
	}

	log.Infof("reading %s", *otuTableFilename)
	otus, err := readOTUTableFile(*otuTableFilename, stdin)
	if err != nil {
		return err
	}
	log.Infof("reading %s", *coordsFilename)
	coords, err := readCoordsFile(*coordsFilename, stdin)
	if err != nil {
		return err
	}
	if len(coords.PercentExplained) > 0 {
		log.Infof("%% variation explained by principal coordinates: %v", coords.PercentExplained)
	}

	log.Infof("projecting %d taxa from %d samples onto %d principal coordinates", len(otus.Lineages), len(otus.SampleIDs), len(coords.Data[0]))
	pp := Preprocessor{Count: *count, Digits: *digits}
	result, err := pp.Preprocess(otus.SampleIDs, otus.Data, otus.Lineages, coords.Data, coords.Header)
	if errors.Is(err, ErrUnsupportedComputation) {
		log.Warnf("not computing biplot: %s", err)
		result = &Result{}
	} else if err != nil {
		return err
	}

	log.Infof("writing %d taxa to %s", len(result.Features), *outputFilename)
	err = writeOutput(*outputFilename, stdout, func(w io.Writer) error {
		if result.Scores == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, result.Scores)
		return err
	})
	if err != nil {
		return err
	}

	if *prevalenceFilename != "" {
		log.Infof("writing prevalence to %s", *prevalenceFilename)
		err = writeOutput(*prevalenceFilename, stdout, func(w io.Writer) error {
			for _, f := range result.Features {
				_, err := fmt.Fprintf(w, "%s\t%v\n", f.Lineage, f.Prevalence)
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if *npyFilename != "" {
		if len(result.Features) == 0 {
			log.Warnf("no taxa selected, not writing %s", *npyFilename)
		} else {
			log.Infof("writing numpy: %d rows, %d cols", len(result.Features), result.Dims)
			err = writeOutput(*npyFilename, stdout, func(w io.Writer) error {
				return writeNumpy(w, result)
			})
			if err != nil {
				return err
			}
		}
	}
	log.Print("done")
	return nil
}

func readOTUTableFile(fnm string, stdin io.Reader) (*OTUTable, error) {
	f, err := openInput(fnm, stdin)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	otus, err := ReadOTUTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fnm, err)
	}
	return otus, nil
}

func readCoordsFile(fnm string, stdin io.Reader) (*Coords, error) {
	f, err := openInput(fnm, stdin)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	coords, err := ReadCoords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fnm, err)
	}
	return coords, nil
}

// writeOutput calls fn with a buffered writer for the named file, or
// stdout if fnm is "-".
func writeOutput(fnm string, stdout io.Writer, fn func(io.Writer) error) error {
	var output io.WriteCloser
	if fnm == "-" {
		output = nopCloser{stdout}
	} else {
		f, err := os.OpenFile(fnm, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}
	bufw := bufio.NewWriter(output)
	err := fn(bufw)
	if err != nil {
		return err
	}
	err = bufw.Flush()
	if err != nil {
		return err
	}
	return output.Close()
}

// writeNumpy writes the coordinates of the selected taxa as a
// float64 array with one row per taxon.
func writeNumpy(w io.Writer, result *Result) error {
	out := make([]float64, 0, len(result.Features)*result.Dims)
	for _, f := range result.Features {
		out = append(out, f.Coords...)
	}
	npw, err := gonpy.NewWriter(nopCloser{w})
	if err != nil {
		return err
	}
	npw.Shape = []int{len(result.Features), result.Dims}
	return npw.WriteFloat64(out)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
