package data

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
)

// LabelColumn is the header of the trailing label column in dataset CSVs.
const LabelColumn = "label"

// WriteCSV writes ds with a header row of feature names followed by
// LabelColumn. Values use the shortest representation that round-trips.
func WriteCSV(path string, ds *Dataset) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	w := csv.NewWriter(f)
	header := append(append([]string(nil), ds.Names()...), LabelColumn)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, row := range ds.X {
		rec := make([]string, 0, len(row)+1)
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rec = append(rec, strconv.Itoa(ds.Y[i]))
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
