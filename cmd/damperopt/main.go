// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// damperopt trains a single-step policy-gradient agent to place one
// supplemental damper in a 10-story shear building so that the peak
// inter-story drift ratio lands as close as possible to the code
// drift limit, under a fixed ground-acceleration record.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/strucrl/damperopt/train"
)

func main() {
	ss := train.New()
	var lr float64
	var saveEpcLog bool
	flag.StringVar(&ss.AccelFile, "accel", ss.AccelFile, "ground-motion record file")
	flag.Float64Var(&ss.Dt, "dt", ss.Dt, "record sampling interval")
	flag.IntVar(&ss.NumEpisodes, "episodes", ss.NumEpisodes, "number of training episodes")
	flag.Float64Var(&lr, "lr", float64(ss.Opt.LR), "learning rate")
	flag.Int64Var(&ss.RndSeed, "seed", ss.RndSeed, "random seed for weight init and action sampling")
	flag.StringVar(&ss.Tag, "tag", "", "extra tag to add to file names saved from this run")
	flag.BoolVar(&saveEpcLog, "epclog", false, "if true, save episode log to file")
	flag.Parse()
	ss.Opt.LR = float32(lr)

	if err := ss.Config(); err != nil {
		log.Fatal(err)
	}
	if saveEpcLog {
		fnm := ss.LogFileName("epc")
		f, err := os.Create(fnm)
		if err != nil {
			log.Println(err)
		} else {
			fmt.Printf("Saving episode log to: %v\n", fnm)
			ss.EpcFile = f
			defer f.Close()
		}
	}
	ss.Init()
	ss.Train()
}
