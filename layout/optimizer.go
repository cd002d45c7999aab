// Package layout provides the iterative optimizer that repositions nodes to
// satisfy an aspect-ratio and edge-length objective while preserving graph
// topology.
package layout

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"mentis/geometry"
	"mentis/model"
)

// ProgressFunc is invoked at iteration checkpoints so callers can drive a
// progress indicator without the optimizer knowing about any UI.
type ProgressFunc func(done, total int)

// Parameters controls the optimization objective. The dialog supplies
// AspectRatio and MinEdgeLength; the rest are tuning knobs with usable
// defaults.
type Parameters struct {
	AspectRatio   float64 // target width/height of the overall bounding box
	MinEdgeLength float64 // target length for every edge
	Iterations    int
	InitialTemp   float64
	Cooling       float64
}

// DefaultParameters returns the tuning used by the layout dialog.
func DefaultParameters(aspectRatio, minEdgeLength float64) Parameters {
	return Parameters{
		AspectRatio:   aspectRatio,
		MinEdgeLength: minEdgeLength,
		Iterations:    5000,
		InitialTemp:   100,
		Cooling:       0.999,
	}
}

// Optimizer mutates node positions in place. It offers no built-in reversal:
// the caller records an undo point before invoking Optimize.
type Optimizer struct {
	params Parameters
	rng    *rand.Rand
	log    zerolog.Logger
}

// New creates an optimizer. The random source is seeded with a fixed value so
// a given graph and parameter set always produce the same layout.
func New(params Parameters, log zerolog.Logger) *Optimizer {
	if params.Iterations <= 0 {
		params.Iterations = 5000
	}
	if params.InitialTemp <= 0 {
		params.InitialTemp = 100
	}
	if params.Cooling <= 0 || params.Cooling >= 1 {
		params.Cooling = 0.999
	}
	return &Optimizer{
		params: params,
		rng:    rand.New(rand.NewSource(1)),
		log:    log.With().Str("component", "layout").Logger(),
	}
}

// Optimize repositions the document's nodes via simulated annealing: random
// single-node moves are accepted when they lower the cost, or with a
// temperature-scaled probability otherwise. Edges are never touched.
func (o *Optimizer) Optimize(doc *model.MindMap, progress ProgressFunc) {
	nodes := doc.Nodes()
	if len(nodes) < 2 {
		return
	}

	edges := doc.Edges()
	cost := o.cost(nodes, edges)
	initial := cost
	temp := o.params.InitialTemp

	// Move scale tied to the edge-length target so proposals stay relevant
	// as the objective changes.
	moveScale := o.params.MinEdgeLength
	if moveScale <= 0 {
		moveScale = 50
	}

	checkpoint := o.params.Iterations / 20
	if checkpoint == 0 {
		checkpoint = 1
	}

	for i := 0; i < o.params.Iterations; i++ {
		node := nodes[o.rng.Intn(len(nodes))]
		old := node.Position
		node.Position = old.Add(geometry.Point{
			X: (o.rng.Float64()*2 - 1) * moveScale,
			Y: (o.rng.Float64()*2 - 1) * moveScale,
		})

		next := o.cost(nodes, edges)
		delta := next - cost
		if delta <= 0 || o.rng.Float64() < math.Exp(-delta/temp) {
			cost = next
		} else {
			node.Position = old
		}

		temp *= o.params.Cooling
		if progress != nil && (i+1)%checkpoint == 0 {
			progress(i+1, o.params.Iterations)
		}
	}

	doc.SetModified(true)
	o.log.Debug().
		Float64("initialCost", initial).
		Float64("finalCost", cost).
		Msg("layout optimized")
}

// cost combines the deviation of each edge length from the target with the
// deviation of the bounding-box aspect ratio from the target ratio.
func (o *Optimizer) cost(nodes []*model.Node, edges []*model.Edge) float64 {
	total := 0.0

	byIndex := make(map[int]*model.Node, len(nodes))
	for _, n := range nodes {
		byIndex[n.Index] = n
	}

	for _, e := range edges {
		source, ok := byIndex[e.SourceIndex]
		if !ok {
			continue
		}
		target, ok := byIndex[e.TargetIndex]
		if !ok {
			continue
		}
		length := source.Position.DistanceTo(target.Position)
		total += math.Abs(length - o.params.MinEdgeLength)
	}

	// Penalize node overlap so annealing does not collapse everything onto
	// the edge-length optimum.
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			d := nodes[i].Position.DistanceTo(nodes[j].Position)
			if min := o.params.MinEdgeLength / 2; d < min && min > 0 {
				total += (min - d) * 2
			}
		}
	}

	if o.params.AspectRatio > 0 {
		bounds := boundingBox(nodes)
		if ratio := bounds.AspectRatio(); ratio > 0 {
			total += math.Abs(math.Log(ratio/o.params.AspectRatio)) * o.params.MinEdgeLength
		}
	}

	return total
}

func boundingBox(nodes []*model.Node) geometry.Rect {
	bounds := nodes[0].Rect()
	for _, n := range nodes[1:] {
		bounds = bounds.Union(n.Rect())
	}
	return bounds
}
