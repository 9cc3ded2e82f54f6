// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package quake loads ground-acceleration records: flat sequences of
floating-point samples at a fixed time step, read from plain text files
with one or more whitespace-separated values per line.
*/
package quake

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is a ground-acceleration time history sampled at a fixed
// interval.  It is immutable once loaded (Scale being the one
// deliberate exception, applied before any analysis uses it).
// Units must be consistent with the force / mass units of the model
// that consumes it -- this is the caller's responsibility.
type Record struct {

	// name of this record, typically the file it was loaded from
	Nm string `desc:"name of this record, typically the file it was loaded from"`

	// sampling interval between consecutive samples
	Dt float64 `desc:"sampling interval between consecutive samples"`

	// acceleration samples, in load order
	Accel []float64 `desc:"acceleration samples, in load order"`
}

// ReadFile loads a record from the given file at the given time step.
// The file is parsed as a flat sequence of floats -- line structure is
// not significant.  Any read or parse failure is returned as an error:
// a training run cannot proceed without its record, so callers treat
// this as fatal.
func ReadFile(path string, dt float64) (*Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("quake.ReadFile: %w", err)
	}
	flds := strings.Fields(string(b))
	if len(flds) == 0 {
		return nil, fmt.Errorf("quake.ReadFile: no samples in %s", path)
	}
	acc := make([]float64, len(flds))
	for i, fld := range flds {
		v, err := strconv.ParseFloat(fld, 64)
		if err != nil {
			return nil, fmt.Errorf("quake.ReadFile: %s: sample %d: %w", path, i, err)
		}
		acc[i] = v
	}
	return &Record{Nm: filepath.Base(path), Dt: dt, Accel: acc}, nil
}

// NumSteps returns the number of samples, which is also the number of
// transient analysis steps driven by this record.
func (rc *Record) NumSteps() int {
	return len(rc.Accel)
}

// Duration returns the total duration covered by the record.
func (rc *Record) Duration() float64 {
	return float64(len(rc.Accel)) * rc.Dt
}

// Scale multiplies every sample by the given factor, e.g., for unit
// conversion of records stored in g.
func (rc *Record) Scale(factor float64) {
	for i := range rc.Accel {
		rc.Accel[i] *= factor
	}
}
