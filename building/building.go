// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package building implements the damper-placement episode environment:
a 10-story lumped-mass shear chain excited by a fixed ground-motion
record.  Each episode is a single step -- a bandit formulation: the
discrete action picks the floor receiving a supplemental link element,
the full time history runs, and the reward is the negated deviation of
the peak inter-story drift ratio from the code drift limit.
*/
package building

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
	"github.com/strucrl/damperopt/quake"
	"github.com/strucrl/damperopt/shear"
)

// Env is the damper-placement environment.  It implements the
// emergent env.Env interface (Action then Step), and additionally the
// bandit-facing Reset / StepAction used by the trainer.
type Env struct {

	// name of this environment
	Nm string `desc:"name of this environment"`

	// description of this environment
	Dsc string `desc:"description of this environment"`

	// ground-motion record driving every episode
	Rec *quake.Record `desc:"ground-motion record driving every episode"`

	// number of floors above the fixed base; also the size of the action space
	FloorNum int `def:"10" desc:"number of floors above the fixed base; also the size of the action space"`

	// story height between consecutive floors
	StoryHeight float64 `def:"3" desc:"story height between consecutive floors"`

	// lumped mass per floor
	MassPerFloor float64 `def:"1e+05" desc:"lumped mass per floor"`

	// elastic stiffness of the inter-floor links
	LinkStiff float64 `def:"1e+08" desc:"elastic stiffness of the inter-floor links"`

	// code limit on the inter-story drift ratio
	CodeDrift float64 `def:"0.01" desc:"code limit on the inter-story drift ratio"`

	// episodes between defensive solver wipes; the wipe fires when episode count mod this == 1
	RebuildEvery int `def:"10" desc:"episodes between defensive solver wipes; the wipe fires when episode count mod this == 1"`

	// Newmark gamma integration parameter
	NewmarkGamma float64 `def:"0.5" desc:"Newmark gamma integration parameter"`

	// Newmark beta integration parameter
	NewmarkBeta float64 `def:"0.25" desc:"Newmark beta integration parameter"`

	// directory receiving the append-only per-floor peak displacement files
	DispDir string `def:"floor_disp" desc:"directory receiving the append-only per-floor peak displacement files"`

	// total episodes stepped since Init
	EpisodeCount int `inactive:"+" desc:"total episodes stepped since Init"`

	// number of defensive wipes performed
	Rebuilds int `inactive:"+" desc:"number of defensive wipes performed"`

	// drift deviation from the last episode
	LastAlpha float64 `inactive:"+" desc:"drift deviation from the last episode"`

	// action taken in the last episode
	LastAction int `inactive:"+" desc:"action taken in the last episode"`

	// reward from the last episode
	LastReward float32 `inactive:"+" desc:"reward from the last episode"`

	// state: drift deviation observation, 1D size 1
	Alpha etensor.Float32 `desc:"state: drift deviation observation, 1D size 1"`

	// per-floor peak absolute displacements from the last analysis
	MaxDisps etensor.Float64 `desc:"per-floor peak absolute displacements from the last analysis"`

	// [view: inline] current run of model as provided during Init
	Run env.Ctr `view:"inline" desc:"current run of model as provided during Init"`

	// [view: inline] epoch increments over trials
	Epoch env.Ctr `view:"inline" desc:"epoch increments over trials"`

	// [view: inline] trial increments per episode
	Trial env.Ctr `view:"inline" desc:"trial increments per episode"`

	dom    *shear.Domain // current solver domain, wiped on the rebuild cadence
	act    int           // pending action set via Action, consumed by Step
}

func (ev *Env) Name() string { return ev.Nm }
func (ev *Env) Desc() string { return ev.Dsc }

// Defaults sets the standard 10-story model parameters.
func (ev *Env) Defaults() {
	ev.FloorNum = 10
	ev.StoryHeight = 3.0
	ev.MassPerFloor = 1.0e5
	ev.LinkStiff = 1.0e8
	ev.CodeDrift = 1.0 / 100.0
	ev.RebuildEvery = 10
	ev.NewmarkGamma = 0.5
	ev.NewmarkBeta = 0.25
	ev.DispDir = "floor_disp"
}

// Config attaches the ground-motion record and output directory, and
// shapes the state tensors.
func (ev *Env) Config(rec *quake.Record, dispDir string) {
	ev.Rec = rec
	if dispDir != "" {
		ev.DispDir = dispDir
	}
	ev.Alpha.SetShape([]int{1}, nil, []string{"Alpha"})
	ev.MaxDisps.SetShape([]int{ev.FloorNum}, nil, []string{"Floor"})
}

func (ev *Env) Validate() error {
	if ev.FloorNum == 0 {
		return fmt.Errorf("building.Env: %v has FloorNum == 0 -- need Defaults", ev.Nm)
	}
	if ev.Rec == nil {
		return fmt.Errorf("building.Env: %v has no ground-motion record -- need Config", ev.Nm)
	}
	return nil
}

func (ev *Env) State(element string) etensor.Tensor {
	switch element {
	case "Alpha":
		return &ev.Alpha
	case "MaxDisps":
		return &ev.MaxDisps
	}
	return nil
}

// String returns the current state as a string
func (ev *Env) String() string {
	return fmt.Sprintf("Damper_%d_Alpha_%.6f", ev.DamperFloor(ev.LastAction), ev.LastAlpha)
}

// Init is called to restart the environment entirely: counters, episode
// count, and solver state all reset.
func (ev *Env) Init(run int) {
	ev.Run.Scale = env.Run
	ev.Epoch.Scale = env.Epoch
	ev.Trial.Scale = env.Trial
	ev.Run.Init()
	ev.Epoch.Init()
	ev.Trial.Init()
	ev.Run.Cur = run
	ev.Trial.Cur = -1 // init state -- key so that first Step() = 0
	ev.EpisodeCount = 0
	ev.Rebuilds = 0
	ev.dom = nil
	ev.Reset()
}

// Reset zeroes the scalar observation for the start of an episode and
// returns it.  The episode count is deliberately not touched: it runs
// across the whole training run.
func (ev *Env) Reset() float32 {
	ev.LastAlpha = 0
	ev.Alpha.SetZeros()
	return 0
}

// DamperFloor is the single point of conversion from the 0-based
// action space to 1-based floor numbering.
func (ev *Env) DamperFloor(act int) int {
	return act + 1
}

// Action sets the pending damper action for the next Step; only the
// "Damper" element is recognized, holding the 0-based action index.
func (ev *Env) Action(element string, input etensor.Tensor) {
	if element != "Damper" {
		return
	}
	ev.act = int(input.FloatVal1D(0))
}

// Step runs one episode using the action set via Action (or the
// previous action if none was set), per the env.Env protocol.
func (ev *Env) Step() bool {
	ev.Epoch.Same()
	ev.StepAction(ev.act)
	return true
}

// StepAction runs one full episode for the given 0-based action:
// defensive wipe on the rebuild cadence, model build, full transient
// analysis, reward from the drift deviation, and append of per-floor
// peak displacements.  done is always true -- every episode is exactly
// one step.
func (ev *Env) StepAction(act int) (state, reward float32, done bool) {
	ev.EpisodeCount++
	if ev.RebuildEvery > 0 && ev.EpisodeCount%ev.RebuildEvery == 1 {
		ev.rebuild()
	}
	alpha, maxDisps := ev.RunAnalysis(ev.DamperFloor(act))
	reward = float32(-alpha)
	ev.LastAlpha = alpha
	ev.LastAction = act
	ev.LastReward = reward
	ev.Alpha.Values[0] = float32(alpha)
	for i, d := range maxDisps {
		ev.MaxDisps.Values[i] = d
	}
	ev.saveFloorDisps(maxDisps)
	if ev.Trial.Incr() {
		ev.Epoch.Incr()
	}
	return float32(alpha), reward, true
}

// rebuild wipes the solver domain, bounding accumulated solver state
// across many episodes.
func (ev *Env) rebuild() {
	if ev.dom != nil {
		ev.dom.Wipe()
	}
	ev.dom = shear.NewDomain()
	ev.Rebuilds++
}

// BuildModel constructs a fresh chain model with the damper at the
// given 1-based floor.  A damper floor outside [1, FloorNum) adds no
// damper element at all -- in particular the top floor cannot host
// one, so that action silently degrades to the bare chain.
func (ev *Env) BuildModel(damperFloor int) *shear.Domain {
	dm := shear.NewDomain()
	for i := 0; i <= ev.FloorNum; i++ {
		dm.AddNode(i+1, float64(i)*ev.StoryHeight)
	}
	dm.Fix(1)
	for nd := 2; nd <= ev.FloorNum+1; nd++ {
		dm.SetMass(nd, ev.MassPerFloor)
	}
	dm.ElasticMaterial(1, ev.LinkStiff)
	etag := 1
	for i := 1; i < ev.FloorNum; i++ {
		if err := dm.AddLink(etag, i+1, i+2, 1); err != nil {
			panic(err)
		}
		etag++
	}
	if damperFloor >= 1 && damperFloor < ev.FloorNum {
		if err := dm.AddLink(etag, damperFloor, damperFloor+1, 1); err != nil {
			panic(err)
		}
	}
	dm.SetExcitation(&shear.PathSeries{Dt: ev.Rec.Dt, Values: ev.Rec.Accel})
	dm.Rayleigh(0, 0)
	return dm
}

// ModalModel constructs the grounded variant of the chain used for
// modal analysis: the base link from the fixed node up to the first
// floor is included, so the stiffness restrained to the free DOFs is
// nonsingular and the lowest eigenvalue is the fundamental sway mode
// rather than a rigid-body drift.  The episode model deliberately
// omits this link (see BuildModel) -- its transient solve is
// regularized by the mass matrix, but an eigen solve is not.
func (ev *Env) ModalModel(damperFloor int) *shear.Domain {
	dm := ev.BuildModel(damperFloor)
	if err := dm.AddLink(dm.NumLinks()+1, 1, 2, 1); err != nil {
		panic(err)
	}
	return dm
}

// RunAnalysis builds the model for the given damper floor and runs the
// full transient analysis, returning the drift-limit deviation and the
// per-floor peak absolute displacements.  A step failure mid-history
// terminates the loop early; the partial peaks collected so far still
// feed the metric.
func (ev *Env) RunAnalysis(damperFloor int) (alpha float64, maxDisps []float64) {
	ev.dom = ev.BuildModel(damperFloor)
	maxDisps = make([]float64, ev.FloorNum)
	an, err := shear.NewTransient(ev.dom, ev.NewmarkGamma, ev.NewmarkBeta)
	if err != nil {
		// model misconfiguration: cannot happen for the fixed chain
		panic(err)
	}
	for step := 0; step < ev.Rec.NumSteps(); step++ {
		if err := an.Step(ev.Rec.Dt); err != nil {
			break // partial results are still used
		}
		for nd := 2; nd <= ev.FloorNum+1; nd++ {
			d := an.NodeDisp(nd)
			if math.Abs(d) > math.Abs(maxDisps[nd-2]) {
				maxDisps[nd-2] = d
			}
		}
	}
	maxDrift := 0.0
	for i := 0; i < ev.FloorNum-1; i++ {
		drift := math.Abs(maxDisps[i+1]-maxDisps[i]) / ev.StoryHeight
		if drift > maxDrift {
			maxDrift = drift
		}
	}
	alpha = math.Abs(maxDrift - ev.CodeDrift)
	return alpha, maxDisps
}

// saveFloorDisps appends one line per floor to the per-floor peak
// displacement files, creating the directory if absent.  Files are
// append-only: histories accumulate across runs.
func (ev *Env) saveFloorDisps(maxDisps []float64) {
	if err := os.MkdirAll(ev.DispDir, 0755); err != nil {
		log.Println(err)
		return
	}
	for i, d := range maxDisps {
		fnm := filepath.Join(ev.DispDir, fmt.Sprintf("floor%d_disp.txt", i+1))
		f, err := os.OpenFile(fnm, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Println(err)
			continue
		}
		fmt.Fprintf(f, "%.6e\n", d)
		f.Close()
	}
}

func (ev *Env) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return ev.Run.Query()
	case env.Epoch:
		return ev.Epoch.Query()
	case env.Trial:
		return ev.Trial.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*Env)(nil)
