package features

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"

	"discriminant/internal/data"
)

// Vectorize parses one CSV record laid out as f0,...,f{d-1},label.
func Vectorize(record []string) ([]float64, int, error) {
	if len(record) < 2 {
		return nil, 0, errors.Newf("features: record has %d fields, need at least 2", len(record))
	}
	vec := make([]float64, len(record)-1)
	for j, field := range record[:len(record)-1] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "features: column %d", j)
		}
		vec[j] = v
	}
	label, err := strconv.Atoi(strings.TrimSpace(record[len(record)-1]))
	if err != nil {
		return nil, 0, errors.Wrap(err, "features: label")
	}
	return vec, label, nil
}

// Names returns the feature columns of a header, dropping the label column.
func Names(header []string) []string {
	if len(header) == 0 {
		return nil
	}
	return append([]string(nil), header[:len(header)-1]...)
}

// Load reads a dataset CSV written by data.WriteCSV.
func Load(path string) (ds *data.Dataset, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(rows) < 2 {
		return nil, errors.Newf("features: %s has no data rows", path)
	}

	ds = &data.Dataset{
		X:            make([][]float64, 0, len(rows)-1),
		Y:            make([]int, 0, len(rows)-1),
		FeatureNames: Names(rows[0]),
	}
	for i, row := range rows[1:] {
		v, label, err := Vectorize(row)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", path, i+2)
		}
		ds.X = append(ds.X, v)
		ds.Y = append(ds.Y, label)
	}
	return ds, nil
}
