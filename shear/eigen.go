// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Eigen returns the lowest n generalized eigenvalues of K phi = lambda
// M phi over the free DOFs, in ascending order.  With lumped (diagonal)
// mass this reduces to a standard symmetric problem on the
// mass-normalized stiffness.  Natural circular frequencies are the
// square roots of the returned values.
func (dm *Domain) Eigen(n int) ([]float64, error) {
	sy, err := newSystem(dm)
	if err != nil {
		return nil, err
	}
	nf := len(sy.tags)
	kb := sy.stiffness(dm)
	ka := mat.NewSymDense(nf, nil)
	for i := 0; i < nf; i++ {
		for j := i; j <= i+sy.band && j < nf; j++ {
			ka.SetSym(i, j, kb.At(i, j)/math.Sqrt(sy.m[i]*sy.m[j]))
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(ka, false); !ok {
		return nil, fmt.Errorf("shear.Eigen: factorization failed")
	}
	vals := eig.Values(nil) // ascending
	if n > len(vals) {
		n = len(vals)
	}
	return vals[:n], nil
}
