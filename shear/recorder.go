// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shear

import (
	"fmt"
	"os"
)

// NodeRecorder appends the displacement time history of one node to a
// file, one "time displacement" line per recorded step.  The file is
// opened in append mode, so histories accumulate across runs.
type NodeRecorder struct {

	// tag of the recorded node
	Tag int `desc:"tag of the recorded node"`

	// output file
	File *os.File `desc:"output file"`
}

// NewNodeRecorder opens (creating or appending) the given file for
// recording the given node.
func NewNodeRecorder(fname string, tag int) (*NodeRecorder, error) {
	f, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("shear.NewNodeRecorder: %w", err)
	}
	return &NodeRecorder{Tag: tag, File: f}, nil
}

// Record appends the node's current displacement at the analysis time.
func (nr *NodeRecorder) Record(an *Transient) error {
	_, err := fmt.Fprintf(nr.File, "%g %.6e\n", an.Time(), an.NodeDisp(nr.Tag))
	return err
}

// Close closes the underlying file.
func (nr *NodeRecorder) Close() error {
	return nr.File.Close()
}
