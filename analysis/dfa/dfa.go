// Package dfa provides a sparse solver for forward data-flow analyses over abstract domains of infinite height.
package dfa

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

const debugging = false

func debugf(f string, args ...any) {
	if debugging {
		log.Printf(f, args...)
	}
}

// NodeID identifies a node of a [Graph]. IDs are dense and start at zero.
type NodeID int

// Transfer computes the abstract state of a node from the states of its inputs, in the order the inputs were
// specified. It returns false if the node can't be reached given these states, for example a branch whose condition
// contradicts its operand. Transfer is only called once all inputs are reachable.
type Transfer[S comparable] func(inputs []S) (S, bool)

type node[S comparable] struct {
	name     string
	inputs   []NodeID
	transfer Transfer[S]
	merge    bool
}

// Graph is a sparse data-flow graph. Each node computes one abstract state, either by applying a transfer function to
// the states of its inputs, or, for merge nodes, by combining the states of all of its reachable inputs. Merge nodes
// correspond to ϕ nodes in SSA form and are where widening and narrowing happen. Every cycle in the graph must pass
// through at least one merge node.
type Graph[S comparable] struct {
	nodes     []node[S]
	referrers [][]NodeID
}

// Add adds a node that applies fn to the states of inputs.
func (g *Graph[S]) Add(name string, fn Transfer[S], inputs ...NodeID) NodeID {
	return g.add(node[S]{name: name, transfer: fn}, inputs)
}

// AddMerge adds a merge node. Inputs that form back edges usually don't exist yet and can be added later using
// [Graph.AddInputs].
func (g *Graph[S]) AddMerge(name string, inputs ...NodeID) NodeID {
	return g.add(node[S]{name: name, merge: true}, inputs)
}

// AddInputs adds inputs to the merge node id.
func (g *Graph[S]) AddInputs(id NodeID, inputs ...NodeID) {
	if !g.nodes[id].merge {
		panic(fmt.Sprintf("node %s isn't a merge node", g.nodes[id].name))
	}
	g.nodes[id].inputs = append(g.nodes[id].inputs, inputs...)
	for _, in := range inputs {
		g.referrers[in] = append(g.referrers[in], id)
	}
}

func (g *Graph[S]) add(n node[S], inputs []NodeID) NodeID {
	id := NodeID(len(g.nodes))
	n.inputs = inputs
	g.nodes = append(g.nodes, n)
	g.referrers = append(g.referrers, nil)
	for _, in := range inputs {
		g.referrers[in] = append(g.referrers[in], id)
	}
	return id
}

// Len returns the number of nodes in the graph.
func (g *Graph[S]) Len() int { return len(g.nodes) }

// Name returns the name of the node id.
func (g *Graph[S]) Name(id NodeID) string { return g.nodes[id].name }

// Framework describes a data-flow framework over a lattice of abstract states that may have infinite ascending
// chains.
//
// Join combines the states of the inputs of merge nodes and must return their least upper bound. Widen and Narrow are
// applied at merge nodes during the ascending and the descending phase of the analysis respectively; old is nil if the
// node had no state yet. Widen must guarantee that every ascending chain of its results is finite.
//
// Unreachable nodes have no state, which acts as the ⊥ element. Join is never called with ⊥.
type Framework[S comparable] struct {
	Join   func(a, b S) S
	Widen  func(nv S, old *S) S
	Narrow func(nv S, old *S) S
	// Leq, if set, is used to check that transfer functions are monotonic during the ascending phase.
	Leq func(a, b S) bool
	// MaxNarrow is the number of times the state of any one merge node may be narrowed. Zero disables the descending
	// phase.
	MaxNarrow int
}

// Instance is the result of running a framework on a graph. It is created by [Framework.Forward].
type Instance[S comparable] struct {
	Framework *Framework[S]
	Graph     *Graph[S]

	states    []S
	reachable []bool
	// Evaluations counts the number of times nodes were evaluated.
	Evaluations int
}

// Value returns the abstract state of the node id. It returns false if the node is unreachable.
func (ins *Instance[S]) Value(id NodeID) (S, bool) {
	return ins.states[id], ins.reachable[id]
}

var debugMu sync.Mutex

// Forward runs a forward data-flow analysis on g. It first computes a post-fixpoint, widening at merge nodes, and then
// improves it by narrowing.
func (fw *Framework[S]) Forward(g *Graph[S]) *Instance[S] {
	if debugging {
		debugMu.Lock()
		defer debugMu.Unlock()
	}

	ins := &Instance[S]{
		Framework: fw,
		Graph:     g,
		states:    make([]S, g.Len()),
		reachable: make([]bool, g.Len()),
	}
	ins.run(false)
	if fw.MaxNarrow > 0 {
		ins.run(true)
	}
	return ins
}

// worklist is a FIFO queue of nodes that doesn't hold duplicates.
type worklist struct {
	queue  []NodeID
	queued []bool
}

func newWorklist(n int) *worklist {
	wl := &worklist{queue: make([]NodeID, 0, n), queued: make([]bool, n)}
	for i := 0; i < n; i++ {
		wl.push(NodeID(i))
	}
	return wl
}

func (wl *worklist) push(id NodeID) {
	if !wl.queued[id] {
		wl.queued[id] = true
		wl.queue = append(wl.queue, id)
	}
}

func (wl *worklist) pop() (NodeID, bool) {
	if len(wl.queue) == 0 {
		return 0, false
	}
	id := wl.queue[0]
	wl.queue = wl.queue[1:]
	wl.queued[id] = false
	return id, true
}

func (ins *Instance[S]) run(descending bool) {
	g := ins.Graph
	fw := ins.Framework
	narrowed := make([]int, g.Len())
	wl := newWorklist(g.Len())
	for {
		id, ok := wl.pop()
		if !ok {
			break
		}
		ins.Evaluations++
		n := &g.nodes[id]

		var state S
		var reachable bool
		if n.merge {
			state, reachable = ins.merge(n)
			if reachable {
				var old *S
				if ins.reachable[id] {
					old = &ins.states[id]
				}
				if !descending {
					state = fw.Widen(state, old)
				} else if narrowed[id] < fw.MaxNarrow {
					state = fw.Narrow(state, old)
				} else {
					continue
				}
			}
		} else {
			state, reachable = ins.transfer(n)
		}

		if reachable == ins.reachable[id] && (!reachable || state == ins.states[id]) {
			continue
		}
		if !descending && ins.reachable[id] {
			if !reachable {
				panic(fmt.Sprintf("transfer function isn't monotonic; %s became unreachable", n.name))
			}
			if fw.Leq != nil && !fw.Leq(ins.states[id], state) {
				panic(fmt.Sprintf("transfer function isn't monotonic; %s went from %v to %v", n.name, ins.states[id], state))
			}
		}
		if descending && n.merge {
			narrowed[id]++
		}
		debugf("%s: %v -> %v", n.name, ins.states[id], state)

		var zero S
		if !reachable {
			state = zero
		}
		ins.states[id] = state
		ins.reachable[id] = reachable
		for _, ref := range g.referrers[id] {
			wl.push(ref)
		}
	}
	ins.printStates()
}

func (ins *Instance[S]) merge(n *node[S]) (S, bool) {
	var out S
	found := false
	for _, in := range n.inputs {
		if !ins.reachable[in] {
			continue
		}
		if !found {
			out = ins.states[in]
			found = true
		} else if s := ins.states[in]; s != out {
			out = ins.Framework.Join(out, s)
		}
	}
	return out, found
}

func (ins *Instance[S]) transfer(n *node[S]) (S, bool) {
	args := make([]S, len(n.inputs))
	for i, in := range n.inputs {
		if !ins.reachable[in] {
			var zero S
			return zero, false
		}
		args[i] = ins.states[in]
	}
	return n.transfer(args)
}

func (ins *Instance[S]) printStates() {
	if !debugging {
		return
	}
	for id := range ins.states {
		if ins.reachable[id] {
			debugf("\t%s = %v", ins.Graph.nodes[id].name, ins.states[id])
		} else {
			debugf("\t%s = ⊥", ins.Graph.nodes[id].name)
		}
	}
}

// Dot returns a directed graph in [Graphviz] format of the data-flow graph, with nodes labeled by their states.
// Merge nodes are drawn as diamonds.
//
// [Graphviz]: https://graphviz.org/
func (ins *Instance[S]) Dot() string {
	var sb strings.Builder
	sb.WriteString("digraph{\n")
	for id, n := range ins.Graph.nodes {
		label := n.name + " = ⊥"
		if ins.reachable[id] {
			if s, ok := any(ins.states[id]).(fmt.Stringer); ok {
				label = n.name + " = " + s.String()
			} else {
				label = fmt.Sprintf("%s = %v", n.name, ins.states[id])
			}
		}
		shape := "box"
		if n.merge {
			shape = "diamond"
		}
		fmt.Fprintf(&sb, "n%d [label=%q shape=%s]\n", id, label, shape)
	}
	for id, n := range ins.Graph.nodes {
		for _, in := range n.inputs {
			fmt.Fprintf(&sb, "n%d -> n%d\n", in, id)
		}
	}
	sb.WriteString("}")
	return sb.String()
}
