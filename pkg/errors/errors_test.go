package errors

import (
	"math"
	"strings"
	"testing"
)

func TestInvalidInputError(t *testing.T) {
	err := NewInvalidInputError("Score", "empty prediction set")

	var invErr *InvalidInputError
	if !As(err, &invErr) {
		t.Fatalf("expected error to unwrap to *InvalidInputError, got %T", err)
	}
	if invErr.Op != "Score" {
		t.Errorf("Op = %q, want %q", invErr.Op, "Score")
	}
	if !strings.Contains(err.Error(), "invalid input") {
		t.Errorf("message %q missing 'invalid input'", err.Error())
	}
}

func TestDuplicateModelError(t *testing.T) {
	err := NewDuplicateModelError("rf")

	var dupErr *DuplicateModelError
	if !As(err, &dupErr) {
		t.Fatalf("expected error to unwrap to *DuplicateModelError, got %T", err)
	}
	if dupErr.Model != "rf" {
		t.Errorf("Model = %q, want %q", dupErr.Model, "rf")
	}
}

func TestEmptyScoreBoardError(t *testing.T) {
	err := NewEmptyScoreBoardError("SelectBest")

	var emptyErr *EmptyScoreBoardError
	if !As(err, &emptyErr) {
		t.Fatalf("expected error to unwrap to *EmptyScoreBoardError, got %T", err)
	}
}

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("RandomForestRegressor", "Predict")
	want := "canopy: RandomForestRegressor: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("PCA.Transform", 5, 3, 1)

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatalf("expected error to unwrap to *DimensionError, got %T", err)
	}
	if dimErr.Expected != 5 || dimErr.Got != 3 {
		t.Errorf("Expected/Got = %d/%d, want 5/3", dimErr.Expected, dimErr.Got)
	}
}

func TestCheckFinite(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{"all finite", []float64{1.0, -2.5, 0.0}, false},
		{"contains NaN", []float64{1.0, math.NaN(), 3.0}, true},
		{"contains +Inf", []float64{1.0, math.Inf(1)}, true},
		{"contains -Inf", []float64{math.Inf(-1)}, true},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFinite("test", tt.values)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckFinite(%v) error = %v, wantErr %v", tt.values, err, tt.wantErr)
			}
			if err != nil {
				var invErr *InvalidInputError
				if !As(err, &invErr) {
					t.Errorf("expected *InvalidInputError, got %T", err)
				}
			}
		})
	}
}

func TestWarnHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewConvergenceWarning("LinearSVR", 100, "")
	Warn(w)
	if captured == nil || !strings.Contains(captured.Error(), "LinearSVR") {
		t.Errorf("warning not routed through handler: %v", captured)
	}
}
