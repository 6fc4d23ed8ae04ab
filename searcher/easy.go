package searcher

import (
	"time"

	"golang.org/x/exp/rand"
)

const (
	easySafetyChance  = 0.8
	easyCaptureChance = 0.5
	easyRescueChance  = 0.3
)

// Easy reacts to the position with a few weighted coin flips.
type Easy struct{}

func (Easy) Name() string { return "easy" }

func (Easy) Decide(view View, rng *rand.Rand) (Decision, bool) {
	start := time.Now()
	plans := Candidates(view)
	if len(plans) == 0 {
		return Decision{}, false
	}
	decide := func(branch Branch, plan MovePlan) (Decision, bool) {
		return Decision{Plan: plan, Branch: branch, Candidates: len(plans), Duration: time.Since(start)}, true
	}

	if KingAttacked(view) && rng.Float64() < easySafetyChance {
		if safe := SafetyMoves(view, plans); len(safe) > 0 {
			return decide(BranchSafety, pick(rng, safe))
		}
	}
	if rng.Float64() < easyCaptureChance {
		if caps := captures(plans); len(caps) > 0 {
			return decide(BranchCapture, pick(rng, caps))
		}
	}
	if rng.Float64() < easyRescueChance {
		if rescues := RescueMoves(view, plans); len(rescues) > 0 {
			return decide(BranchRescue, pick(rng, rescues))
		}
	}
	return decide(BranchRandom, pick(rng, plans))
}
