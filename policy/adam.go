// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package policy

import "github.com/goki/mat32"

// Adam is the moment-based adaptive optimizer, applied once per
// episode to the accumulated policy gradients.
type Adam struct {

	// learning rate
	LR float32 `def:"0.001" desc:"learning rate"`

	// first-moment decay
	Beta1 float32 `def:"0.9" desc:"first-moment decay"`

	// second-moment decay
	Beta2 float32 `def:"0.999" desc:"second-moment decay"`

	// denominator epsilon
	Eps float32 `def:"1e-8" desc:"denominator epsilon"`

	// update step count, for bias correction
	T int `inactive:"+" desc:"update step count, for bias correction"`

	mw, vw [][]float32 // weight moments per layer
	mb, vb [][]float32 // bias moments per layer
}

func (ad *Adam) Defaults() {
	ad.LR = 0.001
	ad.Beta1 = 0.9
	ad.Beta2 = 0.999
	ad.Eps = 1e-8
}

// Init resets the optimizer state for the given network.
func (ad *Adam) Init(nn *Network) {
	n := len(nn.Lays)
	ad.T = 0
	ad.mw = make([][]float32, n)
	ad.vw = make([][]float32, n)
	ad.mb = make([][]float32, n)
	ad.vb = make([][]float32, n)
	for li, ly := range nn.Lays {
		ad.mw[li] = make([]float32, len(ly.W))
		ad.vw[li] = make([]float32, len(ly.W))
		ad.mb[li] = make([]float32, len(ly.B))
		ad.vb[li] = make([]float32, len(ly.B))
	}
}

// Step applies one update from the network's accumulated gradients and
// clears them.
func (ad *Adam) Step(nn *Network) {
	if ad.mw == nil {
		ad.Init(nn)
	}
	ad.T++
	c1 := 1 - mat32.Pow(ad.Beta1, float32(ad.T))
	c2 := 1 - mat32.Pow(ad.Beta2, float32(ad.T))
	for li, ly := range nn.Lays {
		ad.apply(ly.W, ly.DW, ad.mw[li], ad.vw[li], c1, c2)
		ad.apply(ly.B, ly.DB, ad.mb[li], ad.vb[li], c1, c2)
	}
	nn.ZeroGrads()
}

func (ad *Adam) apply(ws, gs, m, v []float32, c1, c2 float32) {
	for i, g := range gs {
		m[i] = ad.Beta1*m[i] + (1-ad.Beta1)*g
		v[i] = ad.Beta2*v[i] + (1-ad.Beta2)*g*g
		mh := m[i] / c1
		vh := v[i] / c2
		ws[i] -= ad.LR * mh / (mat32.Sqrt(vh) + ad.Eps)
	}
}
