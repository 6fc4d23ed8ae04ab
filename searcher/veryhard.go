package searcher

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"xiangqi/game"
	"xiangqi/meta"
)

type Option func(v *VeryHard)

func WithDepth(depth int) Option {
	return func(v *VeryHard) {
		if depth > 0 {
			v.depth = depth
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(v *VeryHard) {
		if goroutines > 0 {
			v.goroutines = goroutines
		}
	}
}

func WithBook(book Book) Option {
	return func(v *VeryHard) {
		v.book = book
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(v *VeryHard) {
		if evaluate != nil {
			v.evaluate = evaluate
		}
	}
}

// VeryHard plays a scripted opening, then searches a fixed depth of minimax.
// It keeps per-match state and must not be shared between matches.
type VeryHard struct {
	depth      int
	goroutines int
	evaluate   game.Evaluate
	book       Book

	mu       sync.Mutex
	ply      int
	bookDone bool
}

func NewVeryHard(options ...Option) *VeryHard {
	v := &VeryHard{ // Default values
		depth:      meta.SearchDepth,
		goroutines: meta.Goroutines,
		evaluate:   game.EvaluateMaterial,
		book:       DefaultBook(),
	}
	for _, option := range options {
		option(v)
	}
	return v
}

func (v *VeryHard) Name() string { return "veryhard" }

func (v *VeryHard) Decide(view View, rng *rand.Rand) (Decision, bool) {
	start := time.Now()
	plans := Candidates(view)
	if len(plans) == 0 {
		return Decision{}, false
	}
	decide := func(branch Branch, plan MovePlan) (Decision, bool) {
		return Decision{Plan: plan, Branch: branch, Candidates: len(plans), Duration: time.Since(start)}, true
	}

	if KingAttacked(view) {
		if safe := SafetyMoves(view, plans); len(safe) > 0 {
			return decide(BranchSafety, pick(rng, safe))
		}
	}
	if plan, ok := v.opening(view, plans); ok {
		return decide(BranchOpening, plan)
	}
	return decide(BranchMinimax, v.search(view, plans, rng))
}

// InBook reports whether the opening is still being followed.
func (v *VeryHard) InBook() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.bookDone
}

func (v *VeryHard) opening(view View, plans []MovePlan) (MovePlan, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.bookDone {
		return MovePlan{}, false
	}
	plan, ok := v.book.Next(v.ply, view, plans)
	if !ok {
		if v.ply < v.book.Len() {
			log.Debug().Msgf("%s left opening %q at ply %d", view.Team, v.book.Name, v.ply)
		}
		v.bookDone = true
		return MovePlan{}, false
	}
	v.ply++
	return plan, true
}

// search scores every root move on its own goroutine and returns a best one.
func (v *VeryHard) search(view View, plans []MovePlan, rng *rand.Rand) MovePlan {
	g := new(errgroup.Group)
	g.SetLimit(v.goroutines)
	for i := range plans {
		i := i
		g.Go(func() error {
			after := simulate(view.Board, plans[i])
			plans[i].Score = v.minimax(after, view.Rules, view.Team, view.Team.Opponent(), v.depth-1)
			return nil
		})
	}
	_ = g.Wait()
	return best(rng, plans)
}

// minimax scores b for root with toMove about to play.
func (v *VeryHard) minimax(b *game.Board, rules game.Rules, root, toMove game.Team, depth int) float64 {
	if depth <= 0 {
		return v.evaluate(b, root)
	}
	if _, alive := FindKing(b, toMove); !alive {
		return v.evaluate(b, root)
	}
	replies := enumerate(b, rules, toMove, nil)
	if len(replies) == 0 {
		return v.evaluate(b, root)
	}

	maximizing := toMove == root
	value := math.Inf(1)
	if maximizing {
		value = math.Inf(-1)
	}
	for _, p := range replies {
		score := v.minimax(simulate(b, p), rules, root, toMove.Opponent(), depth-1)
		if maximizing {
			value = max(value, score)
		} else {
			value = min(value, score)
		}
	}
	return value
}
