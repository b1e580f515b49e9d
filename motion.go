package mot

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tensorworksio/mot-go/internal/kalman"
)

// Parameterization selects which motion-state representation a track's
// Kalman filter is built around.
type Parameterization int

const (
	// ParamXYWH tracks center x, center y, width, height plus their
	// velocities (8-dim state, 4-dim measurement).
	ParamXYWH Parameterization = iota
	// ParamXYSR tracks center x, center y, area and aspect ratio, with
	// aspect ratio treated as stationary (7-dim state, 4-dim measurement).
	ParamXYSR
)

// KalmanConfig configures a motion estimator's time step and noise scales.
// Zero values are replaced with the documented defaults inside NewEstimator.
type KalmanConfig struct {
	TimeStep              int
	ProcessNoiseScale     float64
	MeasurementNoiseScale float64
	Parameterization      Parameterization
}

func applyKalmanDefaults(cfg *KalmanConfig) {
	if cfg.TimeStep == 0 {
		cfg.TimeStep = 1
	}
	if cfg.ProcessNoiseScale == 0 {
		cfg.ProcessNoiseScale = 1
	}
	if cfg.MeasurementNoiseScale == 0 {
		cfg.MeasurementNoiseScale = 1
	}
}

// Estimator is the contract every motion parameterization satisfies: advance
// one time step, absorb a measured box, expose the current box and velocity,
// and reset accumulated velocity when a track resumes from Lost.
type Estimator interface {
	Predict() Rect
	Update(rect Rect)
	Reset()
	Box() Rect
	Velocity() (dx, dy float64)
}

// NewEstimator builds the motion estimator named by cfg.Parameterization,
// initialized at rect.
func NewEstimator(rect Rect, cfg KalmanConfig) Estimator {
	if cfg.Parameterization == ParamXYSR {
		return NewKalmanXYSR(rect, cfg)
	}
	return NewKalmanXYWH(rect, cfg)
}

// KalmanXYWH tracks a box as [xc, yc, w, h, dxc, dyc, dw, dh]: every measured
// dimension gets a constant-velocity term.
type KalmanXYWH struct {
	kf *kalman.Filter
}

const (
	xywhStateNum   = 8
	xywhMeasureNum = 4
)

// NewKalmanXYWH builds an XYWH filter seeded at rect.
func NewKalmanXYWH(rect Rect, cfg KalmanConfig) *KalmanXYWH {
	applyKalmanDefaults(&cfg)

	const stdWeightPosition = 5e-2
	const stdWeightVelocity = 625e-5

	f := kalman.New(xywhStateNum, xywhMeasureNum)

	for i := 0; i < xywhStateNum-xywhMeasureNum; i++ {
		f.F.Set(i, xywhMeasureNum+i, float64(cfg.TimeStep))
	}

	for i := 0; i < xywhStateNum; i++ {
		f.Q.Set(i, i, cfg.ProcessNoiseScale)
	}
	for i := 0; i < xywhMeasureNum; i++ {
		f.Q.Set(i, i, f.Q.At(i, i)*stdWeightPosition)
	}
	for i := xywhMeasureNum; i < xywhStateNum; i++ {
		f.Q.Set(i, i, f.Q.At(i, i)*stdWeightVelocity)
	}

	for i := 0; i < xywhMeasureNum; i++ {
		f.R.Set(i, i, cfg.MeasurementNoiseScale*stdWeightPosition)
	}

	for i := 0; i < xywhMeasureNum; i++ {
		dim := rect.W
		if i%2 != 0 {
			dim = rect.H
		}
		f.P.Set(i, i, math.Pow(2*stdWeightPosition*dim, 2))
	}
	for i := xywhMeasureNum; i < xywhStateNum; i++ {
		dim := rect.W
		if i%2 != 0 {
			dim = rect.H
		}
		f.P.Set(i, i, math.Pow(10*stdWeightVelocity*dim, 2))
	}

	f.X.Set(0, 0, rect.X+rect.W/2)
	f.X.Set(1, 0, rect.Y+rect.H/2)
	f.X.Set(2, 0, rect.W)
	f.X.Set(3, 0, rect.H)

	return &KalmanXYWH{kf: f}
}

func (k *KalmanXYWH) Predict() Rect {
	k.kf.Predict()
	return k.Box()
}

func (k *KalmanXYWH) Update(rect Rect) {
	z := mat.NewDense(xywhMeasureNum, 1, []float64{
		rect.X + rect.W/2,
		rect.Y + rect.H/2,
		rect.W,
		rect.H,
	})
	k.kf.Update(z)
}

// Reset zeroes the width/height velocity terms, matching the original
// source's reset: a track resuming from Lost should not carry stale size
// drift, but retains its center velocity.
func (k *KalmanXYWH) Reset() {
	k.kf.X.Set(6, 0, 0)
	k.kf.X.Set(7, 0, 0)
}

func (k *KalmanXYWH) Box() Rect { return xywhBoxOf(k.kf.X) }

func (k *KalmanXYWH) Velocity() (dx, dy float64) {
	return k.kf.X.At(4, 0), k.kf.X.At(5, 0)
}

func xywhBoxOf(state *mat.Dense) Rect {
	w := math.Max(0, state.At(2, 0))
	h := math.Max(0, state.At(3, 0))
	x := math.Max(0, state.At(0, 0)-w/2)
	y := math.Max(0, state.At(1, 0)-h/2)
	return Rect{X: x, Y: y, W: w, H: h}
}

// KalmanXYSR tracks a box as [xc, yc, s, r, dxc, dyc, ds]: area and center
// get constant-velocity terms, aspect ratio r is treated as stationary (no
// dr term), following the original source's parameterization.
type KalmanXYSR struct {
	kf *kalman.Filter
}

const (
	xysrStateNum   = 7
	xysrMeasureNum = 4
)

// NewKalmanXYSR builds an XYSR filter seeded at rect.
func NewKalmanXYSR(rect Rect, cfg KalmanConfig) *KalmanXYSR {
	applyKalmanDefaults(&cfg)

	f := kalman.New(xysrStateNum, xysrMeasureNum)

	for i := 0; i < xysrStateNum-xysrMeasureNum; i++ {
		f.F.Set(i, xysrMeasureNum+i, float64(cfg.TimeStep))
	}

	for i := 0; i < xysrStateNum-xysrMeasureNum; i++ {
		f.Q.Set(i, xysrMeasureNum+i, 1)
		f.Q.Set(xysrMeasureNum+i, i, 1)
	}
	for i := 0; i < xysrStateNum; i++ {
		for j := 0; j < xysrStateNum; j++ {
			f.Q.Set(i, j, f.Q.At(i, j)*cfg.ProcessNoiseScale)
		}
	}
	f.Q.Set(xysrStateNum-1, xysrStateNum-1, f.Q.At(xysrStateNum-1, xysrStateNum-1)*0.01)
	for i := xysrMeasureNum; i < xysrStateNum; i++ {
		for j := xysrMeasureNum; j < xysrStateNum; j++ {
			f.Q.Set(i, j, f.Q.At(i, j)*0.01)
		}
	}

	for i := 0; i < xysrMeasureNum; i++ {
		f.R.Set(i, i, cfg.MeasurementNoiseScale)
	}
	for i := xysrMeasureNum / 2; i < xysrMeasureNum; i++ {
		for j := xysrMeasureNum / 2; j < xysrMeasureNum; j++ {
			if i == j {
				f.R.Set(i, j, f.R.At(i, j)*0.01)
			}
		}
	}

	for i := 0; i < xysrStateNum; i++ {
		f.P.Set(i, i, 10)
	}
	for i := xysrMeasureNum; i < xysrStateNum; i++ {
		f.P.Set(i, i, f.P.At(i, i)*100)
	}

	f.X.Set(0, 0, rect.X+rect.W/2)
	f.X.Set(1, 0, rect.Y+rect.H/2)
	f.X.Set(2, 0, rect.Area())
	// Guard explicitly on h > 0, not on area: a zero-width, positive-height
	// box has zero area either way, but this mirrors the invariant named by
	// the aspect ratio itself (width/height), not the area it's paired with.
	if rect.H > 0 {
		f.X.Set(3, 0, rect.W/rect.H)
	} else {
		f.X.Set(3, 0, 0)
	}

	return &KalmanXYSR{kf: f}
}

func (k *KalmanXYSR) Predict() Rect {
	k.kf.Predict()
	return k.Box()
}

func (k *KalmanXYSR) Update(rect Rect) {
	aspect := 0.0
	if rect.H > 0 {
		aspect = rect.W / rect.H
	}
	z := mat.NewDense(xysrMeasureNum, 1, []float64{
		rect.X + rect.W/2,
		rect.Y + rect.H/2,
		rect.Area(),
		aspect,
	})
	k.kf.Update(z)
}

// Reset zeroes the area velocity term ds, mirroring the original source.
func (k *KalmanXYSR) Reset() {
	k.kf.X.Set(6, 0, 0)
}

func (k *KalmanXYSR) Box() Rect { return xysrBoxOf(k.kf.X) }

func (k *KalmanXYSR) Velocity() (dx, dy float64) {
	return k.kf.X.At(4, 0), k.kf.X.At(5, 0)
}

func xysrBoxOf(state *mat.Dense) Rect {
	area := math.Max(0, state.At(2, 0))
	w := math.Sqrt(math.Max(0, area*state.At(3, 0)))
	h := 0.0
	if w > 0 {
		h = area / w
	}
	x := math.Max(0, state.At(0, 0)-w/2)
	y := math.Max(0, state.At(1, 0)-h/2)
	return Rect{X: x, Y: y, W: w, H: h}
}
