package dataset

import (
	"strings"
	"testing"

	"github.com/forestml/canopy/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const sampleCSV = `OBJECTID,BASAL_AR,STEMS_HA,AGE_BH,HT_TOP,BIOMASS_T,MEAN_crow,Shape_Area
1,32.5,1200,45,22.1,180.2,68.5,1042.1
2,18.0,800,30,15.3,95.0,42.0,998.7
3,41.2,1500,60,27.8,240.6,81.3,1110.4
4,25.7,950,38,19.4,140.8,55.9,1003.2
`

func TestLoadRenamesAndDropsColumns(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if table.Len() != 4 {
		t.Errorf("Len() = %d, want 4", table.Len())
	}
	if table.NumFeatures() != 5 {
		t.Errorf("NumFeatures() = %d, want 5", table.NumFeatures())
	}

	wantNames := []string{"basal_area", "stem_density", "stand_age", "top_height", "biomass"}
	for i, name := range table.FeatureNames() {
		if name != wantNames[i] {
			t.Errorf("FeatureNames()[%d] = %q, want %q", i, name, wantNames[i])
		}
	}

	// OBJECTID and Shape_Area are dropped; first feature row survives intact.
	if got := table.Features().At(0, 0); got != 32.5 {
		t.Errorf("Features().At(0,0) = %v, want 32.5", got)
	}
	if got := table.Targets().AtVec(2); got != 81.3 {
		t.Errorf("Targets().AtVec(2) = %v, want 81.3", got)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	csv := "BASAL_AR,STEMS_HA\n1.0,800\n"
	_, err := Load(strings.NewReader(csv), nil)
	if err == nil {
		t.Fatal("Load() without target column: expected error")
	}
	var invErr *errors.InvalidInputError
	if !errors.As(err, &invErr) {
		t.Errorf("expected *InvalidInputError, got %T", err)
	}
}

func TestLoadRejectsUnparsableCell(t *testing.T) {
	csv := strings.Replace(sampleCSV, "32.5", "n/a", 1)
	if _, err := Load(strings.NewReader(csv), nil); err == nil {
		t.Fatal("Load() with unparsable cell: expected error")
	}
}

func TestLoadRejectsNonFinite(t *testing.T) {
	csv := strings.Replace(sampleCSV, "32.5", "NaN", 1)
	if _, err := Load(strings.NewReader(csv), nil); err == nil {
		t.Fatal("Load() with NaN cell: expected error")
	}
}

func TestLoadEmptyBody(t *testing.T) {
	csv := "BASAL_AR,STEMS_HA,AGE_BH,HT_TOP,BIOMASS_T,MEAN_crow\n"
	if _, err := Load(strings.NewReader(csv), nil); err == nil {
		t.Fatal("Load() with no data rows: expected error")
	}
}

func newTestTable(t *testing.T, n int) *Table {
	t.Helper()
	x := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, float64(i))
		x.Set(i, 1, float64(i*2))
		y.SetVec(i, float64(i*10))
	}
	table, err := NewTable(x, y, []string{"a", "b"})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func TestTrainTestSplit(t *testing.T) {
	table := newTestTable(t, 10)

	train, test, err := TrainTestSplit(table, 0.3, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}
	if test.Len() != 3 {
		t.Errorf("test.Len() = %d, want 3", test.Len())
	}
	if train.Len() != 7 {
		t.Errorf("train.Len() = %d, want 7", train.Len())
	}

	// Every original target appears exactly once across the two partitions.
	seen := make(map[float64]int)
	for _, v := range append(train.TargetSlice(), test.TargetSlice()...) {
		seen[v]++
	}
	if len(seen) != 10 {
		t.Errorf("partitions cover %d distinct targets, want 10", len(seen))
	}
	for v, count := range seen {
		if count != 1 {
			t.Errorf("target %v appears %d times, want once", v, count)
		}
	}

	// Feature/target pairing survives the shuffle.
	for i := 0; i < test.Len(); i++ {
		if test.Targets().AtVec(i) != test.Features().At(i, 0)*10 {
			t.Errorf("row %d lost feature/target pairing", i)
		}
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	table := newTestTable(t, 20)

	_, test1, err := TrainTestSplit(table, 0.25, 7)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}
	_, test2, err := TrainTestSplit(table, 0.25, 7)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}

	for i := 0; i < test1.Len(); i++ {
		if test1.Targets().AtVec(i) != test2.Targets().AtVec(i) {
			t.Fatal("same seed produced different splits")
		}
	}
}

func TestTrainTestSplitInvalidFraction(t *testing.T) {
	table := newTestTable(t, 5)
	for _, f := range []float64{0, 1, -0.2, 1.5} {
		if _, _, err := TrainTestSplit(table, f, 1); err == nil {
			t.Errorf("TrainTestSplit(fraction=%v): expected error", f)
		}
	}
}
