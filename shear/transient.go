// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// system is the assembled equation system over the free degrees of
// freedom of a domain: plain numbering in node creation order.
type system struct {
	tags []int       // equation index -> node tag
	eqs  map[int]int // node tag -> equation index
	m    []float64   // diagonal lumped mass
	band int         // half bandwidth of the stiffness matrix
}

// newSystem numbers the free DOFs of the domain and gathers masses.
// Every free node must carry a positive mass for dynamics.
func newSystem(dm *Domain) (*system, error) {
	sy := &system{eqs: make(map[int]int)}
	for _, nd := range dm.Nodes {
		if dm.Fixed[nd.Tag] {
			continue
		}
		sy.eqs[nd.Tag] = len(sy.tags)
		sy.tags = append(sy.tags, nd.Tag)
		m := dm.Mass[nd.Tag]
		if m <= 0 {
			return nil, fmt.Errorf("shear: free node %d has no mass", nd.Tag)
		}
		sy.m = append(sy.m, m)
	}
	if len(sy.tags) == 0 {
		return nil, fmt.Errorf("shear: no free degrees of freedom")
	}
	for _, lk := range dm.Links {
		ei, iok := sy.eqs[lk.NodeI]
		ej, jok := sy.eqs[lk.NodeJ]
		if !iok || !jok {
			continue // one end fixed: only diagonal contribution
		}
		bw := ej - ei
		if bw < 0 {
			bw = -bw
		}
		if bw > sy.band {
			sy.band = bw
		}
	}
	return sy, nil
}

// stiffness assembles the banded stiffness matrix of the domain's link
// elements over the free DOFs.
func (sy *system) stiffness(dm *Domain) *mat.SymBandDense {
	kb := mat.NewSymBandDense(len(sy.tags), sy.band, nil)
	for _, lk := range dm.Links {
		k := dm.Mats[lk.Mat]
		ei, iok := sy.eqs[lk.NodeI]
		ej, jok := sy.eqs[lk.NodeJ]
		if iok {
			kb.SetSymBand(ei, ei, kb.At(ei, ei)+k)
		}
		if jok {
			kb.SetSymBand(ej, ej, kb.At(ej, ej)+k)
		}
		if iok && jok {
			if ei > ej {
				ei, ej = ej, ei
			}
			kb.SetSymBand(ei, ej, kb.At(ei, ej)-k)
		}
	}
	return kb
}

// Transient is a Newmark time-history analysis over a domain.  The
// model is treated as linear: the effective stiffness is factorized
// once (per step size) with a banded Cholesky decomposition, and each
// Step performs one solve.
type Transient struct {

	// the domain under analysis
	Dom *Domain `desc:"the domain under analysis"`

	// Newmark gamma parameter; 0.5 for average acceleration
	Gamma float64 `desc:"Newmark gamma parameter; 0.5 for average acceleration"`

	// Newmark beta parameter; 0.25 for average acceleration
	Beta float64 `desc:"Newmark beta parameter; 0.25 for average acceleration"`

	sy       *system
	kb       *mat.SymBandDense // stiffness
	cb       *mat.SymBandDense // Rayleigh damping
	chol     mat.BandCholesky
	factored bool
	dt       float64 // step size of the current factorization
	d, v, a  []float64
	t        float64
}

// NewTransient assembles the analysis over the given domain.  The
// initial state is at rest; the initial acceleration balances the base
// excitation at time 0.
func NewTransient(dm *Domain, gamma, beta float64) (*Transient, error) {
	if beta <= 0 || gamma <= 0 {
		return nil, fmt.Errorf("shear.NewTransient: gamma and beta must be positive, got %g, %g", gamma, beta)
	}
	sy, err := newSystem(dm)
	if err != nil {
		return nil, err
	}
	an := &Transient{Dom: dm, Gamma: gamma, Beta: beta, sy: sy}
	an.kb = sy.stiffness(dm)
	n := len(sy.tags)
	an.cb = mat.NewSymBandDense(n, sy.band, nil)
	for i := 0; i < n; i++ {
		an.cb.SetSymBand(i, i, dm.AlphaM*sy.m[i])
		for j := i; j <= i+sy.band && j < n; j++ {
			an.cb.SetSymBand(i, j, an.cb.At(i, j)+dm.BetaK*an.kb.At(i, j))
		}
	}
	an.d = make([]float64, n)
	an.v = make([]float64, n)
	an.a = make([]float64, n)
	ag := dm.Excite.ValueAt(0)
	for i := range an.a {
		an.a[i] = -ag // at rest: M a = -M ag
	}
	return an, nil
}

// factorize builds and factorizes the Newmark effective stiffness for
// the given step size.
func (an *Transient) factorize(dt float64) error {
	n := len(an.sy.tags)
	a0 := 1 / (an.Beta * dt * dt)
	a1 := an.Gamma / (an.Beta * dt)
	kh := mat.NewSymBandDense(n, an.sy.band, nil)
	for i := 0; i < n; i++ {
		for j := i; j <= i+an.sy.band && j < n; j++ {
			kh.SetSymBand(i, j, an.kb.At(i, j)+a1*an.cb.At(i, j))
		}
		kh.SetSymBand(i, i, kh.At(i, i)+a0*an.sy.m[i])
	}
	if ok := an.chol.Factorize(kh); !ok {
		return fmt.Errorf("shear.Transient: effective stiffness not positive definite at dt=%g", dt)
	}
	an.dt = dt
	an.factored = true
	return nil
}

// Step advances the analysis by one time step.  A non-nil error is the
// solver failure status: the state is left at the last successful
// step, and callers may stop early and use results collected so far.
func (an *Transient) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("shear.Transient.Step: dt must be positive, got %g", dt)
	}
	if !an.factored || dt != an.dt {
		if err := an.factorize(dt); err != nil {
			return err
		}
	}
	n := len(an.sy.tags)
	a0 := 1 / (an.Beta * dt * dt)
	a1 := an.Gamma / (an.Beta * dt)
	a2 := 1 / (an.Beta * dt)
	a3 := 1/(2*an.Beta) - 1
	a4 := an.Gamma/an.Beta - 1
	a5 := dt / 2 * (an.Gamma/an.Beta - 2)

	t1 := an.t + dt
	ag := an.Dom.Excite.ValueAt(t1)
	f := mat.NewVecDense(n, nil)
	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		f.SetVec(i, -an.sy.m[i]*ag+an.sy.m[i]*(a0*an.d[i]+a2*an.v[i]+a3*an.a[i]))
		z.SetVec(i, a1*an.d[i]+a4*an.v[i]+a5*an.a[i])
	}
	var cz mat.VecDense
	cz.MulVec(an.cb, z)
	f.AddVec(f, &cz)

	var dn mat.VecDense
	if err := an.chol.SolveVecTo(&dn, f); err != nil {
		return fmt.Errorf("shear.Transient.Step: solve failed at t=%g: %w", t1, err)
	}
	for i := 0; i < n; i++ {
		di := dn.AtVec(i)
		if math.IsNaN(di) || math.IsInf(di, 0) {
			return fmt.Errorf("shear.Transient.Step: solution diverged at t=%g", t1)
		}
	}
	for i := 0; i < n; i++ {
		di := dn.AtVec(i)
		ai := a0*(di-an.d[i]) - a2*an.v[i] - a3*an.a[i]
		an.v[i] += dt * ((1-an.Gamma)*an.a[i] + an.Gamma*ai)
		an.a[i] = ai
		an.d[i] = di
	}
	an.t = t1
	return nil
}

// Time returns the current analysis time.
func (an *Transient) Time() float64 {
	return an.t
}

// NodeDisp returns the current displacement of the given node: 0 for
// fixed or unknown nodes.
func (an *Transient) NodeDisp(tag int) float64 {
	eq, ok := an.sy.eqs[tag]
	if !ok {
		return 0
	}
	return an.d[eq]
}

// NodeVel returns the current velocity of the given node.
func (an *Transient) NodeVel(tag int) float64 {
	eq, ok := an.sy.eqs[tag]
	if !ok {
		return 0
	}
	return an.v[eq]
}

// NodeAccel returns the current acceleration of the given node,
// relative to the base.
func (an *Transient) NodeAccel(tag int) float64 {
	eq, ok := an.sy.eqs[tag]
	if !ok {
		return 0
	}
	return an.a[eq]
}
