package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/forestml/canopy/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DefaultRenames fixes malformed headers carried over from the DBF side of
// the stand inventory shapefile: names truncated to ten characters and
// zonal-statistics artifacts.
var DefaultRenames = map[string]string{
	"BASAL_AR":   "basal_area",
	"STEMS_HA":   "stem_density",
	"AGE_BH":     "stand_age",
	"HT_TOP":     "top_height",
	"BIOMASS_T":  "biomass",
	"MEAN_crow":  "crown_closure",
	"MEAN_crown": "crown_closure",
}

// LoadOptions configures CSV loading: which columns become features, which
// one is the target, and how malformed headers are renamed. Columns not
// named in FeatureColumns or TargetColumn are dropped.
type LoadOptions struct {
	FeatureColumns []string
	TargetColumn   string
	Renames        map[string]string
}

// NewDefaultLoadOptions returns the stand inventory defaults: the five
// predictor attributes and crown closure as the target.
func NewDefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		FeatureColumns: []string{"basal_area", "stem_density", "stand_age", "top_height", "biomass"},
		TargetColumn:   "crown_closure",
		Renames:        DefaultRenames,
	}
}

// Load reads a stand inventory attribute table from CSV. Headers are
// trimmed and renamed before column resolution; missing required columns,
// unparsable cells and non-finite values fail with InvalidInputError.
func Load(r io.Reader, opt *LoadOptions) (*Table, error) {
	const op = "dataset.Load"
	if opt == nil {
		opt = NewDefaultLoadOptions()
	}
	if len(opt.FeatureColumns) == 0 || opt.TargetColumn == "" {
		return nil, errors.NewInvalidInputError(op, "no feature or target columns configured")
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "canopy: dataset.Load: reading header")
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if renamed, ok := opt.Renames[name]; ok {
			name = renamed
		}
		header[i] = name
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}

	featureIdx := make([]int, len(opt.FeatureColumns))
	for i, name := range opt.FeatureColumns {
		idx, ok := colIdx[name]
		if !ok {
			return nil, errors.NewInvalidInputErrorf(op, "missing required column %q", name)
		}
		featureIdx[i] = idx
	}
	targetIdx, ok := colIdx[opt.TargetColumn]
	if !ok {
		return nil, errors.NewInvalidInputErrorf(op, "missing target column %q", opt.TargetColumn)
	}

	var features []float64
	var targets []float64
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "canopy: dataset.Load: reading row %d", row)
		}
		for _, idx := range featureIdx {
			v, err := parseCell(op, record, idx, row)
			if err != nil {
				return nil, err
			}
			features = append(features, v)
		}
		v, err := parseCell(op, record, targetIdx, row)
		if err != nil {
			return nil, err
		}
		targets = append(targets, v)
		row++
	}

	if len(targets) == 0 {
		return nil, errors.NewInvalidInputError(op, "no data rows")
	}

	x := mat.NewDense(len(targets), len(featureIdx), features)
	y := mat.NewVecDense(len(targets), targets)
	return NewTable(x, y, opt.FeatureColumns)
}

// LoadFile reads a stand inventory attribute table from a CSV file.
func LoadFile(path string, opt *LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "canopy: dataset.LoadFile: opening %s", path)
	}
	defer func() { _ = f.Close() }()
	return Load(f, opt)
}

func parseCell(op string, record []string, idx, row int) (float64, error) {
	if idx >= len(record) {
		return 0, errors.NewInvalidInputErrorf(op, "row %d has %d cells, need column %d", row, len(record), idx)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
	if err != nil {
		return 0, errors.NewInvalidInputErrorf(op, "row %d column %d: unparsable value %q", row, idx, record[idx])
	}
	if err := errors.CheckFiniteScalar(op, v); err != nil {
		return 0, err
	}
	return v, nil
}
