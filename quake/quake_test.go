// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quake

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const difTol = 1.0e-12

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	fnm := filepath.Join(dir, "accel.txt")
	err := os.WriteFile(fnm, []byte("0.1 -0.1\n0.05\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	rc, err := ReadFile(fnm, 0.02)
	if err != nil {
		t.Fatal(err)
	}
	if rc.NumSteps() != 3 {
		t.Errorf("NumSteps: got %d, trg 3", rc.NumSteps())
	}
	trg := []float64{0.1, -0.1, 0.05}
	for i, v := range rc.Accel {
		if math.Abs(v-trg[i]) > difTol {
			t.Errorf("Accel[%d]: got %v, trg %v", i, v, trg[i])
		}
	}
	if math.Abs(rc.Duration()-0.06) > difTol {
		t.Errorf("Duration: got %v, trg 0.06", rc.Duration())
	}
	if rc.Nm != "accel.txt" {
		t.Errorf("Nm: got %v, trg accel.txt", rc.Nm)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"), 0.02)
	if err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestReadFileBad(t *testing.T) {
	dir := t.TempDir()
	fnm := filepath.Join(dir, "bad.txt")
	err := os.WriteFile(fnm, []byte("0.1 xyz 0.2\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(fnm, 0.02)
	if err == nil {
		t.Errorf("expected error for unparsable sample")
	}
}

func TestReadFileEmpty(t *testing.T) {
	dir := t.TempDir()
	fnm := filepath.Join(dir, "empty.txt")
	err := os.WriteFile(fnm, []byte("\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(fnm, 0.02)
	if err == nil {
		t.Errorf("expected error for empty record")
	}
}

func TestScale(t *testing.T) {
	rc := &Record{Dt: 0.01, Accel: []float64{1, -2, 0.5}}
	rc.Scale(9800)
	trg := []float64{9800, -19600, 4900}
	for i, v := range rc.Accel {
		if math.Abs(v-trg[i]) > difTol {
			t.Errorf("Accel[%d]: got %v, trg %v", i, v, trg[i])
		}
	}
}
