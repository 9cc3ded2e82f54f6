// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package policy implements the softmax policy for discrete damper
placement: a three-layer feed-forward network scoring each action from
the scalar observation, categorical sampling with log-probability, the
REINFORCE gradient for the single-step loss -logp * G, and an Adam
optimizer applying the update.
*/
package policy

import (
	"math/rand"

	"github.com/emer/emergent/erand"
	"github.com/goki/mat32"
)

// Layer is one fully connected layer: out = W * in + B, with weights
// stored row-major (NOut x NIn).  DW and DB accumulate gradients until
// the optimizer applies and clears them.
type Layer struct {

	// number of inputs
	NIn int `desc:"number of inputs"`

	// number of outputs
	NOut int `desc:"number of outputs"`

	// weights, row-major NOut x NIn
	W []float32 `desc:"weights, row-major NOut x NIn"`

	// biases, one per output
	B []float32 `desc:"biases, one per output"`

	// accumulated weight gradients
	DW []float32 `inactive:"+" desc:"accumulated weight gradients"`

	// accumulated bias gradients
	DB []float32 `inactive:"+" desc:"accumulated bias gradients"`
}

// NewLayer returns a new layer of the given size with zero weights --
// call InitWts before use.
func NewLayer(nin, nout int) *Layer {
	return &Layer{
		NIn:  nin,
		NOut: nout,
		W:    make([]float32, nout*nin),
		B:    make([]float32, nout),
		DW:   make([]float32, nout*nin),
		DB:   make([]float32, nout),
	}
}

// InitWts initializes weights and biases uniformly in +-1/sqrt(NIn),
// using the global random source.
func (ly *Layer) InitWts() {
	rp := erand.RndParams{Dist: erand.Uniform, Mean: 0, Var: float64(1 / mat32.Sqrt(float32(ly.NIn)))}
	for i := range ly.W {
		ly.W[i] = float32(rp.Gen(-1))
	}
	for i := range ly.B {
		ly.B[i] = float32(rp.Gen(-1))
	}
}

// Forward computes the layer output for the given input.
func (ly *Layer) Forward(in []float32) []float32 {
	out := make([]float32, ly.NOut)
	for j := 0; j < ly.NOut; j++ {
		s := ly.B[j]
		wj := ly.W[j*ly.NIn : (j+1)*ly.NIn]
		for i, x := range in {
			s += wj[i] * x
		}
		out[j] = s
	}
	return out
}

// ZeroGrads clears the accumulated gradients.
func (ly *Layer) ZeroGrads() {
	for i := range ly.DW {
		ly.DW[i] = 0
	}
	for i := range ly.DB {
		ly.DB[i] = 0
	}
}

// Network is the three-layer softmax policy: state -> hidden -> hidden
// -> logits over actions, with rectified-linear hidden units.  The
// forward activations from the last SampleAction call are cached for
// the subsequent Backward call.
type Network struct {

	// input dimensionality (the scalar observation)
	NIn int `desc:"input dimensionality (the scalar observation)"`

	// hidden layer width
	NHid int `def:"64" desc:"hidden layer width"`

	// number of discrete actions
	NOut int `desc:"number of discrete actions"`

	// the three fully connected layers
	Lays [3]*Layer `desc:"the three fully connected layers"`

	in    []float32
	h1    []float32
	h2    []float32
	probs []float32
}

// NewNetwork returns a new policy network of the given dimensions with
// zero weights -- call InitWts before use.
func NewNetwork(nin, nhid, nout int) *Network {
	nn := &Network{NIn: nin, NHid: nhid, NOut: nout}
	nn.Lays[0] = NewLayer(nin, nhid)
	nn.Lays[1] = NewLayer(nhid, nhid)
	nn.Lays[2] = NewLayer(nhid, nout)
	return nn
}

// InitWts initializes all layer weights.
func (nn *Network) InitWts() {
	for _, ly := range nn.Lays {
		ly.InitWts()
	}
}

// relu rectifies in place.
func relu(xs []float32) {
	for i, x := range xs {
		if x < 0 {
			xs[i] = 0
		}
	}
}

// Forward computes action logits for the given state, caching the
// intermediate activations.
func (nn *Network) Forward(state []float32) []float32 {
	nn.in = append(nn.in[:0], state...)
	nn.h1 = nn.Lays[0].Forward(nn.in)
	relu(nn.h1)
	nn.h2 = nn.Lays[1].Forward(nn.h1)
	relu(nn.h2)
	return nn.Lays[2].Forward(nn.h2)
}

// Probs computes the softmax action distribution for the given state.
func (nn *Network) Probs(state []float32) []float32 {
	logits := nn.Forward(state)
	mx := logits[0]
	for _, l := range logits[1:] {
		if l > mx {
			mx = l
		}
	}
	var sum float32
	ps := make([]float32, len(logits))
	for i, l := range logits {
		ps[i] = mat32.Exp(l - mx)
		sum += ps[i]
	}
	for i := range ps {
		ps[i] /= sum
	}
	nn.probs = ps
	return ps
}

// SampleAction draws one action from the softmax distribution for the
// given state, returning the action index and the log-probability of
// that specific draw.  The categorical sample is the only randomness in
// the whole decision process; it uses the global random source, seeded
// by the caller.
func (nn *Network) SampleAction(state []float32) (act int, logp float32) {
	ps := nn.Probs(state)
	r := rand.Float32()
	var cum float32
	act = len(ps) - 1 // guard against rounding shortfall
	for i, p := range ps {
		cum += p
		if r < cum {
			act = i
			break
		}
	}
	return act, mat32.Log(ps[act])
}

// Backward accumulates gradients of the single-step REINFORCE loss
// -logp(act) * g with respect to all parameters, using the activations
// cached by the last SampleAction / Probs call.  Gradients add up
// across calls until the optimizer clears them.
func (nn *Network) Backward(act int, g float32) {
	l0, l1, l2 := nn.Lays[0], nn.Lays[1], nn.Lays[2]

	// d(-g * log p_act) / d logit_k = g * (p_k - [k == act])
	dlog := make([]float32, nn.NOut)
	for k, p := range nn.probs {
		dlog[k] = g * p
	}
	dlog[act] -= g

	dh2 := make([]float32, nn.NHid)
	for k := 0; k < l2.NOut; k++ {
		wk := l2.W[k*l2.NIn : (k+1)*l2.NIn]
		for i, h := range nn.h2 {
			l2.DW[k*l2.NIn+i] += dlog[k] * h
			dh2[i] += dlog[k] * wk[i]
		}
		l2.DB[k] += dlog[k]
	}
	for i, h := range nn.h2 {
		if h <= 0 {
			dh2[i] = 0
		}
	}

	dh1 := make([]float32, nn.NHid)
	for k := 0; k < l1.NOut; k++ {
		wk := l1.W[k*l1.NIn : (k+1)*l1.NIn]
		for i, h := range nn.h1 {
			l1.DW[k*l1.NIn+i] += dh2[k] * h
			dh1[i] += dh2[k] * wk[i]
		}
		l1.DB[k] += dh2[k]
	}
	for i, h := range nn.h1 {
		if h <= 0 {
			dh1[i] = 0
		}
	}

	for k := 0; k < l0.NOut; k++ {
		for i, x := range nn.in {
			l0.DW[k*l0.NIn+i] += dh1[k] * x
		}
		l0.DB[k] += dh1[k]
	}
}

// ZeroGrads clears the accumulated gradients on all layers.
func (nn *Network) ZeroGrads() {
	for _, ly := range nn.Lays {
		ly.ZeroGrads()
	}
}
