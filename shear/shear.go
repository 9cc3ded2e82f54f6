// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package shear implements a small finite-element solver for lumped-mass
shear-chain structural models: nodes with a single translational degree
of freedom, elastic two-node link elements, uniform base excitation
from a path time series, Rayleigh damping, Newmark transient
integration on a banded symmetric system, and modal (eigen) analysis.

The Domain holds model definition state with an explicit lifecycle:
build it up with AddNode / Fix / SetMass / ElasticMaterial / AddLink
etc., create a Transient analysis over it, drive the analysis one Step
at a time, and Wipe when done.  Nothing is global -- each Domain is an
independent model.
*/
package shear

import "fmt"

// Node is a model node with one horizontal degree of freedom,
// positioned along the chain axis.
type Node struct {

	// user-assigned tag, unique within the domain
	Tag int `desc:"user-assigned tag, unique within the domain"`

	// position along the chain axis
	X float64 `desc:"position along the chain axis"`
}

// Link is a two-node link element transmitting axial force between its
// nodes according to an elastic uniaxial material.
type Link struct {

	// user-assigned tag, unique within the domain
	Tag int `desc:"user-assigned tag, unique within the domain"`

	// tag of the first node
	NodeI int `desc:"tag of the first node"`

	// tag of the second node
	NodeJ int `desc:"tag of the second node"`

	// tag of the material supplying the stiffness
	Mat int `desc:"tag of the material supplying the stiffness"`
}

// PathSeries is a time series of samples at a fixed interval, linearly
// interpolated between samples and zero outside the record.
type PathSeries struct {

	// sampling interval
	Dt float64 `desc:"sampling interval"`

	// sample values, the first at time 0
	Values []float64 `desc:"sample values, the first at time 0"`
}

// ValueAt returns the series value at time t, linearly interpolating
// between samples.  Times before 0 or past the last sample return 0.
func (ps *PathSeries) ValueAt(t float64) float64 {
	if ps == nil || len(ps.Values) == 0 || ps.Dt <= 0 {
		return 0
	}
	if t < 0 {
		return 0
	}
	x := t / ps.Dt
	i := int(x)
	if i >= len(ps.Values)-1 {
		if i == len(ps.Values)-1 && x == float64(i) {
			return ps.Values[i]
		}
		return 0
	}
	frac := x - float64(i)
	return ps.Values[i] + frac*(ps.Values[i+1]-ps.Values[i])
}

// Domain is one independent structural model: nodes, boundary
// conditions, lumped masses, elastic materials, link elements, damping
// coefficients, and the base excitation.
type Domain struct {

	// model nodes, in creation order
	Nodes []Node `desc:"model nodes, in creation order"`

	// tags of nodes with their degree of freedom fixed
	Fixed map[int]bool `desc:"tags of nodes with their degree of freedom fixed"`

	// lumped nodal mass by node tag
	Mass map[int]float64 `desc:"lumped nodal mass by node tag"`

	// elastic material stiffness by material tag
	Mats map[int]float64 `desc:"elastic material stiffness by material tag"`

	// link elements, in creation order
	Links []Link `desc:"link elements, in creation order"`

	// mass-proportional Rayleigh damping coefficient
	AlphaM float64 `desc:"mass-proportional Rayleigh damping coefficient"`

	// stiffness-proportional Rayleigh damping coefficient
	BetaK float64 `desc:"stiffness-proportional Rayleigh damping coefficient"`

	// uniform base excitation driving every unconstrained mass
	Excite *PathSeries `desc:"uniform base excitation driving every unconstrained mass"`
}

// NewDomain returns a new empty domain.
func NewDomain() *Domain {
	dm := &Domain{}
	dm.Wipe()
	return dm
}

// Wipe resets the domain to empty, releasing all model state.
func (dm *Domain) Wipe() {
	dm.Nodes = nil
	dm.Fixed = make(map[int]bool)
	dm.Mass = make(map[int]float64)
	dm.Mats = make(map[int]float64)
	dm.Links = nil
	dm.AlphaM = 0
	dm.BetaK = 0
	dm.Excite = nil
}

// AddNode creates a node with the given tag at the given position.
func (dm *Domain) AddNode(tag int, x float64) {
	dm.Nodes = append(dm.Nodes, Node{Tag: tag, X: x})
}

// NodeByTag returns the node with the given tag, false if not present.
func (dm *Domain) NodeByTag(tag int) (*Node, bool) {
	for i := range dm.Nodes {
		if dm.Nodes[i].Tag == tag {
			return &dm.Nodes[i], true
		}
	}
	return nil, false
}

// Fix constrains the degree of freedom of the given node to zero.
func (dm *Domain) Fix(tag int) {
	dm.Fixed[tag] = true
}

// SetMass assigns a lumped mass to the given node.
func (dm *Domain) SetMass(tag int, mass float64) {
	dm.Mass[tag] = mass
}

// ElasticMaterial defines a linear elastic uniaxial material with the
// given stiffness under the given tag.
func (dm *Domain) ElasticMaterial(tag int, k float64) {
	dm.Mats[tag] = k
}

// AddLink creates a two-node link element between the given nodes using
// the given material.  Both nodes and the material must already exist.
func (dm *Domain) AddLink(tag, ni, nj, mat int) error {
	if _, ok := dm.NodeByTag(ni); !ok {
		return fmt.Errorf("shear.AddLink: element %d: no node with tag %d", tag, ni)
	}
	if _, ok := dm.NodeByTag(nj); !ok {
		return fmt.Errorf("shear.AddLink: element %d: no node with tag %d", tag, nj)
	}
	if _, ok := dm.Mats[mat]; !ok {
		return fmt.Errorf("shear.AddLink: element %d: no material with tag %d", tag, mat)
	}
	dm.Links = append(dm.Links, Link{Tag: tag, NodeI: ni, NodeJ: nj, Mat: mat})
	return nil
}

// NumLinks returns the number of link elements in the domain.
func (dm *Domain) NumLinks() int {
	return len(dm.Links)
}

// Rayleigh sets the Rayleigh damping coefficients: C = alphaM*M + betaK*K.
func (dm *Domain) Rayleigh(alphaM, betaK float64) {
	dm.AlphaM = alphaM
	dm.BetaK = betaK
}

// SetExcitation attaches a uniform base excitation: at each instant the
// series value is applied as a ground acceleration to every free node
// carrying mass.
func (dm *Domain) SetExcitation(ps *PathSeries) {
	dm.Excite = ps
}
