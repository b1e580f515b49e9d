// Package kalman provides a generic, dimension-agnostic linear Kalman filter
// engine built on gonum matrices. It carries no notion of bounding boxes or
// tracking; the mot package configures F, H, Q, R and the initial x, P for
// each of its two motion parameterizations (XYWH, XYSR) and drives Predict
// and Update.
//
// Adapted from github.com/nmichlo/norfair-go's internal/filterpy package,
// itself a port of filterpy.kalman.KalmanFilter
// (https://github.com/rlabbe/filterpy), trimmed to the predict/update core
// the mot package actually drives.
package kalman

import (
	"log"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// warnedMessages tracks which messages have already been logged, so a
// condition recurring every frame doesn't spam the log.
var warnedMessages sync.Map

func warnOnce(message string) {
	if _, loaded := warnedMessages.LoadOrStore(message, true); !loaded {
		log.Printf("WARNING: %s", message)
	}
}

// Filter is a standard linear-Gaussian Kalman filter: state x (dimX, 1),
// covariance P (dimX, dimX), transition F, measurement matrix H, process
// noise Q, measurement noise R.
type Filter struct {
	DimX int
	DimZ int

	X *mat.Dense
	P *mat.Dense
	F *mat.Dense
	H *mat.Dense
	R *mat.Dense
	Q *mat.Dense

	xPrior *mat.Dense
	pPrior *mat.Dense
}

// New returns a filter with all matrices allocated and identity-initialized.
// Callers overwrite F, H, Q, R, X and P to configure a specific
// parameterization before the first Predict/Update.
func New(dimX, dimZ int) *Filter {
	f := &Filter{
		DimX:   dimX,
		DimZ:   dimZ,
		X:      mat.NewDense(dimX, 1, nil),
		P:      mat.NewDense(dimX, dimX, nil),
		F:      mat.NewDense(dimX, dimX, nil),
		H:      mat.NewDense(dimZ, dimX, nil),
		R:      mat.NewDense(dimZ, dimZ, nil),
		Q:      mat.NewDense(dimX, dimX, nil),
		xPrior: mat.NewDense(dimX, 1, nil),
		pPrior: mat.NewDense(dimX, dimX, nil),
	}
	for i := 0; i < dimX; i++ {
		f.F.Set(i, i, 1)
		f.P.Set(i, i, 1)
		f.Q.Set(i, i, 1)
	}
	for i := 0; i < dimZ; i++ {
		f.H.Set(i, i, 1)
		f.R.Set(i, i, 1)
	}
	return f
}

// Predict advances the state one time step: x = F·x, P = F·P·Fᵀ + Q.
func (f *Filter) Predict() {
	f.xPrior.Mul(f.F, f.X)
	f.X.Copy(f.xPrior)

	var fp mat.Dense
	fp.Mul(f.F, f.P)
	f.pPrior.Mul(&fp, f.F.T())
	f.P.Add(f.pPrior, f.Q)
}

// Update incorporates measurement z (dimZ, 1) using the filter's own H and R.
// If the innovation covariance S is singular the update is skipped — this
// cannot happen with the covariance policies mot configures, but a filter
// engine with no knowledge of its caller's invariants must not panic on it.
func (f *Filter) Update(z *mat.Dense) {
	var hx mat.Dense
	hx.Mul(f.H, f.X)
	var y mat.Dense
	y.Sub(z, &hx)

	var hp mat.Dense
	hp.Mul(f.H, f.P)
	var s mat.Dense
	s.Mul(&hp, f.H.T())
	s.Add(&s, f.R)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		warnOnce("kalman: singular innovation covariance, skipping update")
		return
	}

	var pHt mat.Dense
	pHt.Mul(f.P, f.H.T())
	var k mat.Dense
	k.Mul(&pHt, &sInv)

	var ky mat.Dense
	ky.Mul(&k, &y)
	f.X.Add(f.X, &ky)

	identity := mat.NewDense(f.DimX, f.DimX, nil)
	for i := 0; i < f.DimX; i++ {
		identity.Set(i, i, 1)
	}
	var kh mat.Dense
	kh.Mul(&k, f.H)
	var iMinusKH mat.Dense
	iMinusKH.Sub(identity, &kh)
	var newP mat.Dense
	newP.Mul(&iMinusKH, f.P)
	f.P.Copy(&newP)
}
