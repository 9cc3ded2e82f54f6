// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package train runs the single-step REINFORCE training loop over the
damper-placement environment: one sampled action, one environment
step, one optimizer update per episode, with tabular episode logging.
*/
package train

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/strucrl/damperopt/building"
	"github.com/strucrl/damperopt/policy"
	"github.com/strucrl/damperopt/quake"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 6

// Sim encapsulates the whole training run, and we define all the
// functionality as methods on this struct.
type Sim struct {

	// the damper-placement environment
	Env building.Env `desc:"the damper-placement environment"`

	// the softmax policy network
	Net *policy.Network `desc:"the softmax policy network"`

	// the Adam optimizer
	Opt policy.Adam `view:"inline" desc:"the Adam optimizer"`

	// number of episodes to train
	NumEpisodes int `def:"200" desc:"number of episodes to train"`

	// ground-motion record file
	AccelFile string `def:"accel.txt" desc:"ground-motion record file"`

	// record sampling interval
	Dt float64 `def:"0.02" desc:"record sampling interval"`

	// hidden layer width of the policy network
	HiddenSize int `def:"64" desc:"hidden layer width of the policy network"`

	// random seed for weight init and action sampling
	RndSeed int64 `desc:"random seed for weight init and action sampling"`

	// extra tag string to add to any file names output from sim
	Tag string `desc:"extra tag string to add to any file names output from sim"`

	// episode-level log
	EpcLog *etable.Table `view:"no-inline" desc:"episode-level log"`

	// log file, nil if not saving
	EpcFile *os.File `view:"-" desc:"log file, nil if not saving"`

	// reward from the last episode
	LastReward float32 `inactive:"+" desc:"reward from the last episode"`

	// loss from the last episode
	LastLoss float32 `inactive:"+" desc:"loss from the last episode"`

	epcHdrs bool
}

// New returns a new Sim with logs allocated.
func New() *Sim {
	ss := &Sim{}
	ss.EpcLog = &etable.Table{}
	ss.Defaults()
	return ss
}

// Defaults sets the standard training parameters.
func (ss *Sim) Defaults() {
	ss.NumEpisodes = 200
	ss.AccelFile = "accel.txt"
	ss.Dt = 0.02
	ss.HiddenSize = 64
	ss.RndSeed = 1
	ss.Env.Nm = "BuildingEnv"
	ss.Env.Dsc = "10-story shear chain with one supplemental damper"
	ss.Env.Defaults()
	ss.Opt.Defaults()
}

// Config loads the ground-motion record and configures the
// environment, network, and logs.  A missing or malformed record file
// is returned as an error: the run cannot start without it.
func (ss *Sim) Config() error {
	rec, err := quake.ReadFile(ss.AccelFile, ss.Dt)
	if err != nil {
		return err
	}
	ss.Env.Config(rec, "")
	if err := ss.Env.Validate(); err != nil {
		return err
	}
	ss.Net = policy.NewNetwork(1, ss.HiddenSize, ss.Env.FloorNum)
	ss.ConfigEpcLog(ss.EpcLog)
	return nil
}

// Init seeds the random source and initializes environment, network
// weights, and optimizer state for a fresh run.
func (ss *Sim) Init() {
	rand.Seed(ss.RndSeed)
	ss.Env.Init(0)
	ss.Net.InitWts()
	ss.Opt.Init(ss.Net)
	ss.EpcLog.SetNumRows(0)
	ss.epcHdrs = false
}

// TrainEpisode runs one episode: reset, sample, step, update.
func (ss *Sim) TrainEpisode() {
	state := ss.Env.Reset()
	act, logp := ss.Net.SampleAction([]float32{state})
	_, reward, _ := ss.Env.StepAction(act)
	g := reward // single-step return: no discounting at horizon 1
	loss := -logp * g
	ss.Net.Backward(act, g)
	ss.Opt.Step(ss.Net)
	ss.LastReward = reward
	ss.LastLoss = loss
}

// Train runs the full set of episodes with per-episode console output
// and logging.
func (ss *Sim) Train() {
	for epi := 0; epi < ss.NumEpisodes; epi++ {
		ss.TrainEpisode()
		fmt.Printf("Episode [%d/%d], Action=%d, Reward=%.6f, Loss=%.6f\n",
			epi+1, ss.NumEpisodes, ss.Env.LastAction, ss.LastReward, ss.LastLoss)
		ss.LogEpc(ss.EpcLog, epi)
	}
	ix := etable.NewIdxView(ss.EpcLog)
	fmt.Printf("Training complete: %d episodes, mean reward %.6f\n",
		ss.NumEpisodes, agg.Mean(ix, "Reward")[0])
}

//////////////////////////////////////////////
//  Logging

// LogEpc adds one row of episode data to the given table, streaming it
// to the log file if one is open.
func (ss *Sim) LogEpc(dt *etable.Table, epi int) {
	row := dt.Rows
	dt.SetNumRows(row + 1)

	dt.SetCellFloat("Episode", row, float64(epi+1))
	dt.SetCellFloat("Action", row, float64(ss.Env.LastAction))
	dt.SetCellFloat("DamperFloor", row, float64(ss.Env.DamperFloor(ss.Env.LastAction)))
	dt.SetCellFloat("Reward", row, float64(ss.LastReward))
	dt.SetCellFloat("Loss", row, float64(ss.LastLoss))
	dt.SetCellFloat("Alpha", row, ss.Env.LastAlpha)

	if ss.EpcFile != nil {
		if !ss.epcHdrs {
			dt.WriteCSVHeaders(ss.EpcFile, etable.Tab)
			ss.epcHdrs = true
		}
		dt.WriteCSVRow(ss.EpcFile, row, etable.Tab)
	}
}

func (ss *Sim) ConfigEpcLog(dt *etable.Table) {
	dt.SetMetaData("name", "EpcLog")
	dt.SetMetaData("desc", "Record of reward and loss over training episodes")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{Name: "Episode", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Action", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "DamperFloor", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Reward", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Loss", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Alpha", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	dt.SetFromSchema(sch, 0)
}

// RunName returns a tag-qualified name for output files.
func (ss *Sim) RunName() string {
	if ss.Tag != "" {
		return "damperopt_" + ss.Tag
	}
	return "damperopt"
}

// LogFileName returns the log file name for the given log.
func (ss *Sim) LogFileName(lognm string) string {
	return ss.RunName() + "_" + lognm + ".tsv"
}
