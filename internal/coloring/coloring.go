// Package coloring implements equitable K-coloring over a directed acyclic
// graph: a proper coloring (no edge monochromatic) whose class sizes differ
// by at most one. The algorithm pads the vertex set with a virtual clique so
// every class can be filled exactly, processes edges in ascending vertex
// order maintaining dense neighborhood/witness counters, and rebalances via
// a witness-chasing procedure whenever an ad-hoc recolor is required.
package coloring

import (
	"sort"

	"meshforge/internal/graph"
	"meshforge/pkg/apperror"
	"meshforge/pkg/metrics"
)

// Coloring maps each vertex in [0, V) to a color in [0, K).
type Coloring []int

// EquitableColoring returns a proper K-coloring of g with class sizes
// differing by at most one, or fails with NotEnoughColors if K <=
// max_degree(g), or CyclicGraph if g has a cycle. mode labels the
// coloring-retries observation (the generation mode that requested the
// coloring), so callers that never color (manual topology) never need to
// pass a meaningful value.
func EquitableColoring(g *graph.DiGraph, colorCount int, mode string) (Coloring, error) {
	maxDegree := g.MaxDegree()
	if maxDegree >= colorCount {
		return nil, apperror.NotEnoughColors(colorCount, maxDegree+1)
	}
	if !g.IsAcyclic() {
		return nil, apperror.New(apperror.CodeCyclicGraph, "graph has a cycle")
	}

	pg := newPaddedGraph(g, colorCount)
	s := initState(pg, colorCount)
	s.run(pg)

	metrics.Get().RecordColoringRetries(mode, s.retries)

	return Coloring(s.coloring[:g.NodeCount()]), nil
}

// IsColoring reports the first monochromatic edge, if any, as an
// InvalidColoring error.
func IsColoring(edges []graph.Edge, coloring Coloring) error {
	for _, e := range edges {
		src, tgt := int(e.Source), int(e.Target)
		if coloring[src] == coloring[tgt] {
			return apperror.InvalidColoring(src, tgt, coloring[src])
		}
	}
	return nil
}

// IsEquitable reports whether coloring is proper over edges and its class
// sizes differ by at most one. When colorCount is non-nil, colors with zero
// members (beyond those appearing in coloring) are counted too.
func IsEquitable(edges []graph.Edge, coloring Coloring, colorCount *int) bool {
	if IsColoring(edges, coloring) != nil {
		return false
	}

	sizes := map[int]int{}
	for _, c := range coloring {
		sizes[c]++
	}
	if colorCount != nil {
		for c := 0; c < *colorCount; c++ {
			if _, ok := sizes[c]; !ok {
				sizes[c] = 0
			}
		}
	}

	distinct := map[int]bool{}
	for _, v := range sizes {
		distinct[v] = true
	}

	switch len(distinct) {
	case 0:
		return colorCount == nil
	case 2:
		var a, b int
		first := true
		for v := range distinct {
			if first {
				a = v
				first = false
			} else {
				b = v
			}
		}
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		return diff <= 1
	default:
		return len(distinct) == 1
	}
}

// paddedGraph views a real graph plus a disjoint complete clique K_p sized so
// that node_count() becomes a multiple of colorCount. Padding is virtual:
// the clique is its own small DiGraph and successor queries route to it for
// padded indices, never touching the real graph's edges.
type paddedGraph struct {
	g         *graph.DiGraph
	kp        *graph.DiGraph
	realCount int
}

func newPaddedGraph(g *graph.DiGraph, colorCount int) *paddedGraph {
	nc := g.NodeCount()
	ncPerC := nc / colorCount

	var kp *graph.DiGraph
	if nc != ncPerC*colorCount {
		pnc := colorCount - nc%colorCount
		b := graph.WithNodeCount(pnc)
		for u := 0; u < pnc; u++ {
			for v := u + 1; v < pnc; v++ {
				_, _ = b.AddEdge(graph.Edge{Source: graph.NodeIndex(u), Target: graph.NodeIndex(v)})
			}
		}
		kp = b.Build()
	} else {
		kp = graph.NewBuilder().Build()
	}

	return &paddedGraph{g: g, kp: kp, realCount: nc}
}

func (p *paddedGraph) nodeCount() int {
	return p.realCount + p.kp.NodeCount()
}

func (p *paddedGraph) successors(v int) []int {
	if v < p.realCount {
		succ := p.g.Successors(graph.NodeIndex(v))
		out := make([]int, len(succ))
		for i, s := range succ {
			out[i] = int(s)
		}
		return out
	}
	succ := p.kp.Successors(graph.NodeIndex(v - p.realCount))
	out := make([]int, len(succ))
	for i, s := range succ {
		out[i] = int(s) + p.realCount
	}
	return out
}

// state holds the dense equitable-coloring bookkeeping over the padded
// vertex set: the working coloring, per-color membership (insertion order
// with swap-remove, mirroring an index set), the processed-edge adjacency,
// and the neighborhood/witness counters from the Design Notes' dense-array
// port of the source's hashed-map state.
type state struct {
	k        int
	paddedN  int
	coloring []int
	retries  int

	classMembers [][]int
	classPos     []int

	edgeAdj  [][]int
	seenEdge [][]bool

	neighborhood [][]int
	witness      [][]int
}

func initState(pg *paddedGraph, k int) *state {
	n := pg.nodeCount()
	s := &state{
		k:            k,
		paddedN:      n,
		coloring:     make([]int, n),
		classMembers: make([][]int, k),
		classPos:     make([]int, n),
		edgeAdj:      make([][]int, n),
		seenEdge:     make([][]bool, n),
		neighborhood: make([][]int, n),
		witness:      make([][]int, k),
	}
	for v := 0; v < n; v++ {
		s.neighborhood[v] = make([]int, k)
		s.seenEdge[v] = make([]bool, n)
	}
	for c := 0; c < k; c++ {
		s.witness[c] = make([]int, k)
	}

	for v := 0; v < n; v++ {
		s.coloring[v] = v % k
	}
	for v := 0; v < n; v++ {
		s.addToClass(v, s.coloring[v])
	}

	// At init every neighborhood counter is zero, so every vertex in class
	// c1 witnesses a move to every color c2 (including c1 itself).
	for c1 := 0; c1 < k; c1++ {
		sz := len(s.classMembers[c1])
		for c2 := 0; c2 < k; c2++ {
			s.witness[c1][c2] = sz
		}
	}

	return s
}

func (s *state) addToClass(v, c int) {
	s.classMembers[c] = append(s.classMembers[c], v)
	s.classPos[v] = len(s.classMembers[c]) - 1
}

func (s *state) removeFromClass(v, c int) {
	pos := s.classPos[v]
	last := len(s.classMembers[c]) - 1
	lastV := s.classMembers[c][last]
	s.classMembers[c][pos] = lastV
	s.classPos[lastV] = pos
	s.classMembers[c] = s.classMembers[c][:last]
}

// changeColor recolors node from oldC to newC, updating neighborhood and
// witness counters for node itself and for every processed neighbor.
func (s *state) changeColor(node, oldC, newC int) {
	s.coloring[node] = newC

	for c := 0; c < s.k; c++ {
		if s.neighborhood[node][c] == 0 {
			s.witness[oldC][c]--
			s.witness[newC][c]++
		}
	}

	for _, w := range s.edgeAdj[node] {
		s.neighborhood[w][oldC]--
		if s.neighborhood[w][oldC] == 0 {
			s.witness[s.coloring[w]][oldC]++
		}

		s.neighborhood[w][newC]++
		if s.neighborhood[w][newC] == 1 {
			s.witness[s.coloring[w]][newC]--
		}
	}

	s.removeFromClass(node, oldC)
	s.addToClass(node, newC)
}

// run drives the main loop: process every padded vertex's outgoing edges in
// ascending neighbor order, then recolor and rebalance on conflict.
func (s *state) run(pg *paddedGraph) {
	for u := 0; u < s.paddedN; u++ {
		uColor := s.coloring[u]

		succ := pg.successors(u)
		sort.Ints(succ)

		for _, v := range succ {
			if s.seenEdge[v][u] {
				continue
			}
			s.seenEdge[u][v] = true
			s.edgeAdj[u] = append(s.edgeAdj[u], v)
			s.edgeAdj[v] = append(s.edgeAdj[v], u)

			vColor := s.coloring[v]

			s.neighborhood[u][vColor]++
			if vColor != uColor && s.neighborhood[u][vColor] == 1 {
				s.witness[uColor][vColor]--
			}

			s.neighborhood[v][uColor]++
			if vColor != uColor && s.neighborhood[v][uColor] == 1 {
				s.witness[vColor][uColor]--
			}
		}

		if s.neighborhood[u][uColor] != 0 {
			unusedColor := -1
			for c := 0; c < s.k; c++ {
				if s.neighborhood[u][c] == 0 {
					unusedColor = c
					break
				}
			}
			if unusedColor == -1 {
				panic("coloring: invariant violation: no unused color available for conflicting vertex")
			}

			s.retries++
			s.changeColor(u, uColor, unusedColor)
			s.procedureP(uColor, unusedColor, map[int]bool{})
		}
	}
}

// procedureP restores equitable class sizes after a single ad-hoc move: class
// vMinus lost a vertex, class vPlus gained one.
func (s *state) procedureP(vMinus, vPlus int, excluded map[int]bool) {
	aCal, rCal, tCal := s.reachableViaWitness(vMinus, excluded)

	b := s.k - len(aCal)

	if aCal[vPlus] {
		s.moveWitness(vPlus, vMinus, tCal)
		return
	}

	aCal0 := map[int]bool{}
	numTerminalSetsFound := 0
	madeEquitable := false

	for i := len(rCal) - 1; i >= 0; i-- {
		w1 := rCal[i]
		didBreak := false

		members := append([]int(nil), s.classMembers[w1]...)
		for _, v := range members {
			x := -1
			for color := 0; color < s.k; color++ {
				if s.neighborhood[v][color] == 0 && aCal[color] && color != w1 {
					x = color
				}
			}
			if x == -1 {
				continue
			}

			for color := 0; color < s.k; color++ {
				if s.neighborhood[v][color] < 1 || aCal[color] {
					continue
				}
				xPrime := color
				w := v

				y := -1
				for _, neighbour := range s.edgeAdj[w] {
					if s.coloring[neighbour] == xPrime && s.neighborhood[neighbour][w1] == 1 {
						y = neighbour
						break
					}
				}
				if y == -1 {
					panic("coloring: invariant violation: expected a solo-edge neighbor")
				}

				capitalW := w1

				// Move w from W to X; X gains one extra vertex.
				s.changeColor(w, capitalW, x)
				// Move a witness from X into v_minus, restoring it.
				s.moveWitness(x, vMinus, tCal)
				// Move y from x_prime into W, restoring W's size.
				s.changeColor(y, xPrime, capitalW)

				s.procedureP(xPrime, vPlus, excluded)
				madeEquitable = true
				break
			}

			if madeEquitable {
				didBreak = true
				break
			}
		}

		if !didBreak {
			aCal0[w1] = true
			numTerminalSetsFound++
		}

		if numTerminalSetsFound == b {
			s.resolveByIndependentSet(vMinus, vPlus, aCal0, tCal, excluded)
		}

		if madeEquitable {
			continue
		}
	}
}

// reachableViaWitness BFS-explores, from root, every color c reachable by a
// chain of witness moves terminating at root: tCal[c] is the color
// immediately after c on the path back to root.
func (s *state) reachableViaWitness(root int, excluded map[int]bool) (aCal map[int]bool, order []int, tCal map[int]int) {
	aCal = map[int]bool{}
	tCal = map[int]int{}

	reachable := []int{root}
	marked := map[int]bool{root: true}
	idx := 0

	for idx < len(reachable) {
		pop := reachable[idx]
		idx++

		aCal[pop] = true
		order = append(order, pop)

		var nextLayer []int
		for color := 0; color < s.k; color++ {
			if s.witness[color][pop] > 0 && !aCal[color] && !excluded[color] && !marked[color] {
				nextLayer = append(nextLayer, color)
			}
		}
		for _, dst := range nextLayer {
			tCal[dst] = pop
			marked[dst] = true
		}
		reachable = append(reachable, nextLayer...)
	}

	return aCal, order, tCal
}

// resolveByIndependentSet is the final rebalancing branch: no solo edge was
// found anywhere in A, so a maximal independent set over the colors
// reachable from vPlus is built and a pivot pair z1, z2 sharing a solo
// witness neighbor is used to shift the imbalance across the boundary.
func (s *state) resolveByIndependentSet(vMinus, vPlus int, aCal0 map[int]bool, tCal map[int]int, excluded map[int]bool) bool {
	bCalPrime := map[int]bool{}

	reachable := []int{vPlus}
	marked := map[int]bool{vPlus: true}
	idx := 0
	for idx < len(reachable) {
		pop := reachable[idx]
		idx++
		bCalPrime[pop] = true

		var nextLayer []int
		for color := 0; color < s.k; color++ {
			if s.witness[pop][color] > 0 && !bCalPrime[color] && !marked[color] {
				nextLayer = append(nextLayer, color)
			}
		}
		marked[pop] = true
		for _, c := range nextLayer {
			marked[c] = true
		}
		reachable = append(reachable, nextLayer...)
	}

	iCovered := map[int]bool{}
	wCovering := map[int]int{}

	var bPrime []int
	for color := range bCalPrime {
		bPrime = append(bPrime, s.classMembers[color]...)
	}

	candidates := append([]int(nil), s.classMembers[vPlus]...)
	candidates = append(candidates, bPrime...)

	for _, z := range candidates {
		if iCovered[z] || !bCalPrime[s.coloring[z]] {
			continue
		}
		iCovered[z] = true
		for _, w := range s.edgeAdj[z] {
			iCovered[w] = true
		}

		found := false
		for _, w := range s.edgeAdj[z] {
			color := s.coloring[w]
			ncc := s.neighborhood[z][color]
			if !aCal0[color] || ncc != 1 {
				continue
			}

			if _, ok := wCovering[w]; !ok {
				wCovering[w] = z
				continue
			}

			z1 := wCovering[w]
			capitalZ := s.coloring[z1]
			capitalW := s.coloring[w]

			s.moveWitness(capitalW, vMinus, tCal)
			s.moveWitness(capitalW, vMinus, tCal)

			s.changeColor(z1, capitalZ, capitalW)

			capitalWPlus := -1
			for color2 := 0; color2 < s.k; color2++ {
				if bCalPrime[color2] {
					continue
				}
				if s.neighborhood[w][color2] == 0 {
					capitalWPlus = color2
					break
				}
			}
			if capitalWPlus == -1 {
				panic("coloring: invariant violation: no available color for pivot vertex")
			}
			s.changeColor(w, capitalW, capitalWPlus)

			for color2 := 0; color2 < s.k; color2++ {
				if color2 != capitalW && !bCalPrime[color2] {
					excluded[color2] = true
				}
			}

			s.procedureP(capitalW, capitalWPlus, excluded)
			found = true
			break
		}

		if found {
			return true
		}
	}

	return false
}

// moveWitness walks the parent chain from src to dst recorded in tCal,
// shifting one witness vertex across each hop.
func (s *state) moveWitness(src, dst int, tCal map[int]int) {
	for src != dst {
		y, ok := tCal[src]
		if !ok {
			panic("coloring: invariant violation: move_witness missing parent for color")
		}

		w := -1
		for _, node := range s.classMembers[src] {
			if s.neighborhood[node][y] == 0 {
				w = node
				break
			}
		}
		if w == -1 {
			panic("coloring: invariant violation: move_witness found no witness vertex")
		}

		s.changeColor(w, src, y)
		src = y
	}
}
