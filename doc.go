// Copyright (c) 2026, The Damperopt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package damperopt is the overall repository for the damper-placement
reinforcement learning trainer: a single-step policy-gradient agent that
learns which floor of a 10-story shear building should receive a
supplemental damper so that the peak inter-story drift ratio lands as
close as possible to the code drift limit, under a fixed
ground-acceleration record.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* quake: loads whitespace-separated ground-acceleration records sampled
at a fixed time step.

* shear: a small finite-element domain for lumped-mass shear-chain
models -- elastic two-node link elements, uniform base excitation from a
path time series, Rayleigh damping, Newmark transient integration on a
banded system, and modal (eigen) analysis.

* building: the episode environment -- maps a discrete damper-floor
action onto a fresh shear model, runs the full time history, and turns
the peak-drift deviation from the code limit into a scalar reward.

* policy: the feed-forward softmax policy network, with REINFORCE
gradients and an Adam optimizer.

* train: the episode loop tying environment and policy together, with
tabular episode logging.

* cmd/damperopt: the trainer command line. cmd/modal: a standalone
modal-analysis run with per-floor displacement recorders.
*/
package damperopt
