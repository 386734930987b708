package evaluation

import (
	"math"
	"testing"

	"github.com/forestml/canopy/pkg/errors"
)

func mustPredictionSet(t *testing.T, actual, predicted []float64) *PredictionSet {
	t.Helper()
	ps, err := NewPredictionSet(actual, predicted)
	if err != nil {
		t.Fatalf("NewPredictionSet() error = %v", err)
	}
	return ps
}

func TestNewPredictionSet(t *testing.T) {
	tests := []struct {
		name      string
		actual    []float64
		predicted []float64
		wantErr   bool
	}{
		{"valid", []float64{50, 60, 70, 80}, []float64{52, 58, 75, 77}, false},
		{"empty", nil, nil, true},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2, 3, 4}, true},
		{"NaN actual", []float64{1, math.NaN()}, []float64{1, 2}, true},
		{"Inf predicted", []float64{1, 2}, []float64{1, math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPredictionSet(tt.actual, tt.predicted)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPredictionSet() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *errors.InvalidInputError
				if !errors.As(err, &invErr) {
					t.Errorf("expected *InvalidInputError, got %T", err)
				}
			}
		})
	}
}

func TestPredictionSetIsImmutable(t *testing.T) {
	actual := []float64{1, 2, 3}
	predicted := []float64{1, 2, 3}
	ps := mustPredictionSet(t, actual, predicted)

	// Mutating the input after construction must not affect the set.
	actual[0] = 100
	if got := ps.Actual()[0]; got != 1 {
		t.Errorf("Actual()[0] = %v after input mutation, want 1", got)
	}

	// Mutating the accessor result must not affect the set either.
	ps.Actual()[1] = 200
	if got := ps.Actual()[1]; got != 2 {
		t.Errorf("Actual()[1] = %v after accessor mutation, want 2", got)
	}
}

func TestScore(t *testing.T) {
	ps := mustPredictionSet(t, []float64{50, 60, 70, 80}, []float64{52, 58, 75, 77})

	score, err := Score("rf", ps)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if score.Model != "rf" {
		t.Errorf("Model = %q, want %q", score.Model, "rf")
	}
	if math.Abs(score.MSE-10.5) > 1e-12 {
		t.Errorf("MSE = %v, want 10.5", score.MSE)
	}
	if score.RMSE != math.Sqrt(score.MSE) {
		t.Errorf("RMSE = %v, want exactly sqrt(MSE) = %v", score.RMSE, math.Sqrt(score.MSE))
	}
	if math.Abs(score.RMSE-3.2403703492) > 1e-9 {
		t.Errorf("RMSE = %v, want ≈3.2404", score.RMSE)
	}
}

func TestScoreIdenticalSequences(t *testing.T) {
	ps := mustPredictionSet(t, []float64{5, 6, 7}, []float64{5, 6, 7})

	score, err := Score("gb", ps)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if score.MSE != 0 || score.RMSE != 0 {
		t.Errorf("identical sequences: MSE = %v, RMSE = %v, want 0, 0", score.MSE, score.RMSE)
	}
}

func TestScoreInvalidInput(t *testing.T) {
	if _, err := Score("rf", nil); err == nil {
		t.Error("Score() with nil prediction set: expected error")
	}
	ps := mustPredictionSet(t, []float64{1}, []float64{1})
	if _, err := Score("", ps); err == nil {
		t.Error("Score() with empty model name: expected error")
	}
}

func TestNewScoreBoardDuplicate(t *testing.T) {
	_, err := NewScoreBoard(
		ModelScore{Model: "rf", MSE: 4, RMSE: 2},
		ModelScore{Model: "svr", MSE: 9, RMSE: 3},
		ModelScore{Model: "rf", MSE: 1, RMSE: 1},
	)
	if err == nil {
		t.Fatal("NewScoreBoard() with duplicate identifier: expected error")
	}
	var dupErr *errors.DuplicateModelError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected *DuplicateModelError, got %T", err)
	}
	if dupErr.Model != "rf" {
		t.Errorf("Model = %q, want %q", dupErr.Model, "rf")
	}
}

func TestScoreBoardPreservesInsertionOrder(t *testing.T) {
	board, err := NewScoreBoard(
		ModelScore{Model: "svr", RMSE: 9.1},
		ModelScore{Model: "rf", RMSE: 8.2},
		ModelScore{Model: "gb", RMSE: 8.9},
	)
	if err != nil {
		t.Fatalf("NewScoreBoard() error = %v", err)
	}

	want := []string{"svr", "rf", "gb"}
	for i, score := range board.Scores() {
		if score.Model != want[i] {
			t.Errorf("Scores()[%d].Model = %q, want %q", i, score.Model, want[i])
		}
	}

	if _, ok := board.Lookup("rf"); !ok {
		t.Error("Lookup(rf) not found")
	}
	if _, ok := board.Lookup("xgb"); ok {
		t.Error("Lookup(xgb) unexpectedly found")
	}
}

func TestSelectBestTieBreaksOnInsertionOrder(t *testing.T) {
	// B has RMSE 9.23; A and C tie at 8.23 with A inserted before C.
	board, err := NewScoreBoard(
		ModelScore{Model: "B", RMSE: 9.23},
		ModelScore{Model: "A", RMSE: 8.23},
		ModelScore{Model: "C", RMSE: 8.23},
	)
	if err != nil {
		t.Fatalf("NewScoreBoard() error = %v", err)
	}

	best, err := board.SelectBest()
	if err != nil {
		t.Fatalf("SelectBest() error = %v", err)
	}
	if best != "A" {
		t.Errorf("SelectBest() = %q, want %q (first occurrence of the minimum)", best, "A")
	}
}

func TestSelectBestEmptyBoard(t *testing.T) {
	board, err := NewScoreBoard()
	if err != nil {
		t.Fatalf("NewScoreBoard() error = %v", err)
	}

	_, err = board.SelectBest()
	if err == nil {
		t.Fatal("SelectBest() on empty board: expected error")
	}
	var emptyErr *errors.EmptyScoreBoardError
	if !errors.As(err, &emptyErr) {
		t.Errorf("expected *EmptyScoreBoardError, got %T", err)
	}
}

func TestNewBaseline(t *testing.T) {
	tests := []struct {
		name      string
		targets   []float64
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{"constant targets", []float64{10, 10, 10, 10}, 0, 0, false},
		{"population std", []float64{1, 2, 3, 4, 5}, math.Sqrt(2), 1e-12, false},
		{"empty", nil, 0, 0, true},
		{"non-finite", []float64{1, math.NaN()}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline, err := NewBaseline(tt.targets)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewBaseline() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if math.Abs(baseline.Std-tt.want) > tt.tolerance {
				t.Errorf("NewBaseline().Std = %v, want %v", baseline.Std, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	baseline := Baseline{Std: 10.0}

	tests := []struct {
		name string
		rmse float64
		want Verdict
	}{
		{"below baseline", 8.5, Good},
		{"exactly baseline", 10.0, Neutral},
		{"above baseline", 11.2, Poor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(ModelScore{Model: "m", RMSE: tt.rmse}, baseline)
			if got != tt.want {
				t.Errorf("Classify(RMSE=%v vs Std=10) = %v, want %v", tt.rmse, got, tt.want)
			}
		})
	}
}

func TestEndToEndScenario(t *testing.T) {
	actual := []float64{50, 60, 70, 80}
	predicted := []float64{52, 58, 75, 77}

	ps := mustPredictionSet(t, actual, predicted)
	score, err := Score("rf", ps)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	baseline, err := NewBaseline(actual)
	if err != nil {
		t.Fatalf("NewBaseline() error = %v", err)
	}

	if math.Abs(score.MSE-10.5) > 1e-12 {
		t.Errorf("MSE = %v, want 10.5", score.MSE)
	}
	if math.Abs(baseline.Std-11.180339887) > 1e-6 {
		t.Errorf("baseline Std = %v, want ≈11.18", baseline.Std)
	}
	if got := Classify(score, baseline); got != Good {
		t.Errorf("Classify() = %v, want Good", got)
	}
}

func TestVerdictString(t *testing.T) {
	if Good.String() != "good" || Neutral.String() != "neutral" || Poor.String() != "poor" {
		t.Errorf("Verdict strings = %q/%q/%q", Good.String(), Neutral.String(), Poor.String())
	}
}
