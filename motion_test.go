package mot

import "testing"

func TestKalmanXYWH_InitialBoxMatchesSeed(t *testing.T) {
	rect := Rect{X: 10, Y: 20, W: 30, H: 40}
	k := NewKalmanXYWH(rect, KalmanConfig{})

	got := k.Box()
	if got.W != 30 || got.H != 40 {
		t.Fatalf("Box() = %v, want w=30 h=40", got)
	}
	if got.X != 10 || got.Y != 20 {
		t.Fatalf("Box() = %v, want x=10 y=20", got)
	}
}

func TestKalmanXYWH_PredictThenUpdateTracksMotion(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}
	k := NewKalmanXYWH(rect, KalmanConfig{})

	// A few predict/update steps toward a moving box should pull the estimate
	// in the direction of travel, never overshoot wildly.
	for i := 1; i <= 5; i++ {
		k.Predict()
		k.Update(Rect{X: float64(i * 5), Y: 0, W: 10, H: 10})
	}

	box := k.Box()
	if box.X <= 0 || box.X > 25 {
		t.Errorf("Box().X = %v, want in (0, 25]", box.X)
	}
}

func TestKalmanXYWH_ResetZeroesSizeVelocityOnly(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}
	k := NewKalmanXYWH(rect, KalmanConfig{})

	for i := 0; i < 3; i++ {
		k.Predict()
		k.Update(Rect{X: 0, Y: 0, W: float64(10 + i), H: float64(10 + i)})
	}
	dxBefore, dyBefore := k.Velocity()

	k.Reset()
	if got := k.kf.X.At(6, 0); got != 0 {
		t.Errorf("width velocity after Reset = %v, want 0", got)
	}
	if got := k.kf.X.At(7, 0); got != 0 {
		t.Errorf("height velocity after Reset = %v, want 0", got)
	}
	dxAfter, dyAfter := k.Velocity()
	if dxAfter != dxBefore || dyAfter != dyBefore {
		t.Errorf("center velocity changed by Reset: before=(%v,%v) after=(%v,%v)", dxBefore, dyBefore, dxAfter, dyAfter)
	}
}

func TestKalmanXYSR_InitialBoxMatchesSeed(t *testing.T) {
	rect := Rect{X: 10, Y: 20, W: 30, H: 40}
	k := NewKalmanXYSR(rect, KalmanConfig{})

	got := k.Box()
	if d := got.W - 30; d > 1e-6 || d < -1e-6 {
		t.Errorf("Box().W = %v, want ~30", got.W)
	}
	if d := got.H - 40; d > 1e-6 || d < -1e-6 {
		t.Errorf("Box().H = %v, want ~40", got.H)
	}
}

func TestKalmanXYSR_ZeroHeightGuard(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 0}
	k := NewKalmanXYSR(rect, KalmanConfig{})

	if got := k.kf.X.At(3, 0); got != 0 {
		t.Errorf("aspect ratio for zero-height box = %v, want 0 (guarded)", got)
	}
}

func TestNewEstimator_DispatchesOnParameterization(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}

	xywh := NewEstimator(rect, KalmanConfig{Parameterization: ParamXYWH})
	if _, ok := xywh.(*KalmanXYWH); !ok {
		t.Errorf("NewEstimator(ParamXYWH) = %T, want *KalmanXYWH", xywh)
	}

	xysr := NewEstimator(rect, KalmanConfig{Parameterization: ParamXYSR})
	if _, ok := xysr.(*KalmanXYSR); !ok {
		t.Errorf("NewEstimator(ParamXYSR) = %T, want *KalmanXYSR", xysr)
	}
}
