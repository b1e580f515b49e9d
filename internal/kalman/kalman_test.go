package kalman

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/tensorworksio/mot-go/internal/testutil"
)

func TestNew_IdentityInitialization(t *testing.T) {
	f := New(4, 2)

	if f.DimX != 4 || f.DimZ != 2 {
		t.Fatalf("unexpected dims: dimX=%d dimZ=%d", f.DimX, f.DimZ)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if f.F.At(i, j) != want {
				t.Errorf("F[%d,%d] = %v, want %v", i, j, f.F.At(i, j), want)
			}
		}
	}
	for i := 0; i < 2; i++ {
		if f.X.At(i, 0) != 0 {
			t.Errorf("X[%d] = %v, want 0", i, f.X.At(i, 0))
		}
	}
}

// A constant-velocity filter with no process/measurement noise and no
// updates should advance its position by velocity*steps exactly.
func TestPredict_ConstantVelocityAdvance(t *testing.T) {
	f := New(2, 1)
	f.F.Set(0, 1, 1) // x += v
	f.Q.Set(0, 0, 0)
	f.Q.Set(1, 1, 0)
	f.X.Set(0, 0, 10) // position
	f.X.Set(1, 0, 2)  // velocity

	for i := 0; i < 5; i++ {
		f.Predict()
	}

	if got := f.X.At(0, 0); got != 20 {
		t.Errorf("position after 5 predicts = %v, want 20", got)
	}
	if got := f.X.At(1, 0); got != 2 {
		t.Errorf("velocity after 5 predicts = %v, want unchanged 2", got)
	}
}

// Update with a measurement equal to the prior should leave the state
// unchanged (no innovation).
func TestUpdate_NoInnovation(t *testing.T) {
	f := New(2, 1)
	f.X.Set(0, 0, 5)

	z := mat.NewDense(1, 1, []float64{5})
	f.Update(z)

	testutil.AssertAlmostEqual(t, f.X.At(0, 0), 5, 1e-9, "state after zero-innovation update")
}

// Update should move the state estimate toward the measurement, not past it.
func TestUpdate_MovesTowardMeasurement(t *testing.T) {
	f := New(2, 1)
	f.X.Set(0, 0, 0)

	z := mat.NewDense(1, 1, []float64{10})
	f.Update(z)

	got := f.X.At(0, 0)
	if got <= 0 || got > 10 {
		t.Errorf("state after update = %v, want in (0, 10]", got)
	}
}
