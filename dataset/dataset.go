// Package dataset loads the BMI / life expectancy training data.
//
// The input is a CSV file with a header row. The BMI and life expectancy
// columns are found by name, ignoring case, spaces and underscores, so
// "BMI,Life Expectancy", "bmi,life_expectancy" and
// "Country,Life expectancy,BMI" are all accepted. Other columns are ignored.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/lifeexp/pkg/errors"
)

// Column names after normalisation.
const (
	FeatureColumn = "bmi"
	LabelColumn   = "lifeexpectancy"
)

// Dataset holds the samples in file order. Features and Labels always have
// the same length.
type Dataset struct {
	Features []float64
	Labels   []float64
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Features) }

// X returns the features as an n×1 matrix.
func (d *Dataset) X() *mat.Dense {
	return mat.NewDense(len(d.Features), 1, append([]float64(nil), d.Features...))
}

// Y returns the labels as a vector.
func (d *Dataset) Y() *mat.VecDense {
	return mat.NewVecDense(len(d.Labels), append([]float64(nil), d.Labels...))
}

// Load reads the dataset at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset")
	}
	defer func() { _ = f.Close() }()

	return read(f, path)
}

// Read reads a dataset from r.
func Read(r io.Reader) (*Dataset, error) {
	return read(r, "<input>")
}

func read(r io.Reader, source string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("dataset.Read", source+": no header", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.NewParseError(source, 1, "", err)
	}

	xCol, yCol := -1, -1
	for i, name := range header {
		switch normalize(name) {
		case FeatureColumn:
			xCol = i
		case LabelColumn:
			yCol = i
		}
	}
	if xCol < 0 {
		return nil, errors.NewValueError("dataset.Read", source+`: missing column "BMI"`)
	}
	if yCol < 0 {
		return nil, errors.NewValueError("dataset.Read", source+`: missing column "Life Expectancy"`)
	}
	names := []string{header[xCol], header[yCol]}

	ds := &Dataset{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, errors.NewParseError(source, line, "", err)
		}
		line, _ := cr.FieldPos(xCol)

		x, err := strconv.ParseFloat(strings.TrimSpace(record[xCol]), 64)
		if err != nil {
			return nil, errors.NewParseError(source, line, names[0], err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(record[yCol]), 64)
		if err != nil {
			return nil, errors.NewParseError(source, line, names[1], err)
		}
		ds.Features = append(ds.Features, x)
		ds.Labels = append(ds.Labels, y)
	}

	if ds.Len() == 0 {
		return nil, errors.NewModelError("dataset.Read", source+": no rows", errors.ErrEmptyData)
	}
	return ds, nil
}

func normalize(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(name))
}
