// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shear

import (
	"math"
	"testing"
)

func TestPathSeriesValueAt(t *testing.T) {
	ps := &PathSeries{Dt: 0.5, Values: []float64{0, 1, -1}}
	tests := []struct {
		t   float64
		val float64
	}{
		{-0.1, 0},
		{0, 0},
		{0.25, 0.5},
		{0.5, 1},
		{0.75, 0},
		{1.0, -1},
		{1.1, 0},
		{5, 0},
	}
	for _, ts := range tests {
		v := ps.ValueAt(ts.t)
		if math.Abs(v-ts.val) > 1.0e-12 {
			t.Errorf("ValueAt(%v): got %v, trg %v", ts.t, v, ts.val)
		}
	}
	var nilps *PathSeries
	if nilps.ValueAt(0.1) != 0 {
		t.Errorf("nil series must return 0")
	}
}

// sdof builds a single-story model: node 1 fixed, node 2 with mass m
// linked by stiffness k.
func sdof(m, k float64) *Domain {
	dm := NewDomain()
	dm.AddNode(1, 0)
	dm.AddNode(2, 3)
	dm.Fix(1)
	dm.SetMass(2, m)
	dm.ElasticMaterial(1, k)
	if err := dm.AddLink(1, 1, 2, 1); err != nil {
		panic(err)
	}
	return dm
}

func TestAddLinkValidation(t *testing.T) {
	dm := sdof(1, 1)
	if err := dm.AddLink(2, 1, 99, 1); err == nil {
		t.Errorf("expected error for unknown node")
	}
	if err := dm.AddLink(2, 1, 2, 99); err == nil {
		t.Errorf("expected error for unknown material")
	}
	if dm.NumLinks() != 1 {
		t.Errorf("NumLinks: got %d, trg 1", dm.NumLinks())
	}
}

func TestEigenSDOF(t *testing.T) {
	dm := sdof(2, 8)
	lams, err := dm.Eigen(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(lams) != 1 {
		t.Fatalf("Eigen: got %d values, trg 1", len(lams))
	}
	// omega^2 = k/m = 4
	if math.Abs(lams[0]-4) > 1.0e-10 {
		t.Errorf("Eigen: got %v, trg 4", lams[0])
	}
}

func TestEigenTwoStory(t *testing.T) {
	m, k := 3.0, 7.0
	dm := NewDomain()
	dm.AddNode(1, 0)
	dm.AddNode(2, 3)
	dm.AddNode(3, 6)
	dm.Fix(1)
	dm.SetMass(2, m)
	dm.SetMass(3, m)
	dm.ElasticMaterial(1, k)
	dm.AddLink(1, 1, 2, 1)
	dm.AddLink(2, 2, 3, 1)
	lams, err := dm.Eigen(2)
	if err != nil {
		t.Fatal(err)
	}
	// analytical: lambda = (3 -+ sqrt(5))/2 * k/m for the uniform 2-story chain
	trg := []float64{(3 - math.Sqrt(5)) / 2 * k / m, (3 + math.Sqrt(5)) / 2 * k / m}
	for i, lam := range lams {
		if math.Abs(lam-trg[i]) > 1.0e-9 {
			t.Errorf("Eigen[%d]: got %v, trg %v", i, lam, trg[i])
		}
	}
}

func TestTransientAtRest(t *testing.T) {
	dm := sdof(1, 100)
	an, err := NewTransient(dm, 0.5, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		if err := an.Step(0.01); err != nil {
			t.Fatal(err)
		}
		if d := an.NodeDisp(2); d != 0 {
			t.Fatalf("unexcited model moved: step %d, disp %v", i, d)
		}
	}
}

// TestTransientConstantAccel checks the undamped SDOF response to a
// suddenly applied constant base acceleration against the closed forms
// u(t) = -(ag/w^2)(1 - cos(w t)), v(t) = -(ag/w) sin(w t), and
// a(t) = -ag cos(w t), covering the full Newmark state update.
func TestTransientConstantAccel(t *testing.T) {
	w := 2 * math.Pi // 1 s period
	ag := 1.0
	dm := sdof(1, w*w)
	n := 2000
	dt := 0.001
	vals := make([]float64, n+1)
	for i := range vals {
		vals[i] = ag
	}
	dm.SetExcitation(&PathSeries{Dt: dt, Values: vals})
	an, err := NewTransient(dm, 0.5, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	peak := 0.0
	for i := 0; i < n; i++ {
		if err := an.Step(dt); err != nil {
			t.Fatal(err)
		}
		d := an.NodeDisp(2)
		if math.Abs(d) > peak {
			peak = math.Abs(d)
		}
		tm := an.Time()
		trg := -(ag / (w * w)) * (1 - math.Cos(w*tm))
		if math.Abs(d-trg) > 1.0e-4 {
			t.Fatalf("step %d t=%v: got %v, trg %v", i, tm, d, trg)
		}
		vtrg := -(ag / w) * math.Sin(w*tm)
		if v := an.NodeVel(2); math.Abs(v-vtrg) > 1.0e-3 {
			t.Fatalf("step %d t=%v: vel got %v, trg %v", i, tm, v, vtrg)
		}
		atrg := -ag * math.Cos(w*tm)
		if a := an.NodeAccel(2); math.Abs(a-atrg) > 1.0e-2 {
			t.Fatalf("step %d t=%v: accel got %v, trg %v", i, tm, a, atrg)
		}
	}
	if an.NodeVel(1) != 0 || an.NodeAccel(1) != 0 {
		t.Errorf("fixed node must report zero vel and accel")
	}
	if an.NodeVel(99) != 0 || an.NodeAccel(99) != 0 {
		t.Errorf("unknown node must report zero vel and accel")
	}
	trgPeak := 2 * ag / (w * w)
	if math.Abs(peak-trgPeak)/trgPeak > 1.0e-3 {
		t.Errorf("peak: got %v, trg %v", peak, trgPeak)
	}
}

func TestTransientDeterminism(t *testing.T) {
	run := func() []float64 {
		dm := sdof(2, 50)
		dm.SetExcitation(&PathSeries{Dt: 0.02, Values: []float64{0.1, -0.1, 0.05}})
		an, err := NewTransient(dm, 0.5, 0.25)
		if err != nil {
			t.Fatal(err)
		}
		var ds []float64
		for i := 0; i < 3; i++ {
			if err := an.Step(0.02); err != nil {
				t.Fatal(err)
			}
			ds = append(ds, an.NodeDisp(2))
		}
		return ds
	}
	d1 := run()
	d2 := run()
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Errorf("step %d: %v != %v", i, d1[i], d2[i])
		}
	}
}

func TestTransientDamped(t *testing.T) {
	dm := sdof(1, 400) // w = 20
	dm.Rayleigh(0.5, 0)
	dm.SetExcitation(&PathSeries{Dt: 0.01, Values: []float64{1, 0, 0}})
	an, err := NewTransient(dm, 0.5, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	n := 2000
	half := n / 2
	max1, max2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		if err := an.Step(0.01); err != nil {
			t.Fatal(err)
		}
		d := math.Abs(an.NodeDisp(2))
		if i < half {
			if d > max1 {
				max1 = d
			}
		} else if d > max2 {
			max2 = d
		}
	}
	if max1 == 0 {
		t.Fatalf("impulse produced no motion")
	}
	if max2 >= max1 {
		t.Errorf("damped response did not decay: first half %v, second half %v", max1, max2)
	}
}

func TestTransientErrors(t *testing.T) {
	dm := sdof(1, 100)
	if _, err := NewTransient(dm, 0.5, 0); err == nil {
		t.Errorf("expected error for beta=0")
	}
	dm2 := NewDomain()
	dm2.AddNode(1, 0)
	dm2.Fix(1)
	if _, err := NewTransient(dm2, 0.5, 0.25); err == nil {
		t.Errorf("expected error for no free DOFs")
	}
	dm3 := NewDomain()
	dm3.AddNode(1, 0)
	dm3.AddNode(2, 3)
	dm3.Fix(1)
	if _, err := NewTransient(dm3, 0.5, 0.25); err == nil {
		t.Errorf("expected error for massless free node")
	}
	an, err := NewTransient(dm, 0.5, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if err := an.Step(0); err == nil {
		t.Errorf("expected error for dt=0")
	}
}
