// File: pathresolver/resolver.go
// Package pathresolver computes shortest, loop-free sequences of hops
// through a topology.Snapshot using Dijkstra's algorithm, one datapath per
// hop of hop-count cost.
// Author: trema-go
// License: Apache-2.0
package pathresolver

import (
	"container/heap"
	"math"
	"sort"

	"github.com/trema-go/trema/topology"
)

// Hop describes one step of a computed path: which switch, which ingress
// port, and which egress port.
type Hop struct {
	DPID    topology.DPID
	InPort  topology.PortNo
	OutPort topology.PortNo
}

// Path is an ordered sequence of Hops. A nil or empty Path means no route
// was found; that is not an error condition.
type Path []Hop

// Callback receives the result of a single resolution, along with the
// userData the caller supplied. It is invoked exactly once, synchronously,
// from the calling goroutine.
type Callback func(path Path, userData any)

// Weight computes the cost of traversing link l. The default weight used
// by Resolve is 1 for every up link (hop-count minimisation); callers that
// need a different cost model can call ResolveWithWeight directly.
type Weight func(l topology.Link) int

func unitWeight(topology.Link) int { return 1 }

// Resolver computes paths over the Snapshot currently served by provider.
// Each call to ResolvePath fetches a fresh snapshot; the Resolver holds no
// subscription and caches nothing, so every resolution sees one
// consistent view and staleness is the caller's concern.
type Resolver struct {
	provider topology.Provider
}

// New returns a Resolver reading topology from provider.
func New(provider topology.Provider) *Resolver {
	return &Resolver{provider: provider}
}

// ResolvePath computes a shortest loop-free path from (inDPID, inPort) to
// (outDPID, outPort) and invokes callback exactly once with the result.
func (r *Resolver) ResolvePath(inDPID topology.DPID, inPort topology.PortNo, outDPID topology.DPID, outPort topology.PortNo, userData any, callback Callback) {
	snapshot := r.provider.Snapshot()
	path := Resolve(snapshot, inDPID, inPort, outDPID, outPort)
	callback(path, userData)
}

// Resolve computes a shortest loop-free path over snapshot directly,
// without going through a Provider or callback. It is the synchronous core
// that ResolvePath wraps, and is exported for callers that already hold a
// consistent Snapshot (e.g. tests, or batch recomputation).
func Resolve(snapshot topology.Snapshot, inDPID topology.DPID, inPort topology.PortNo, outDPID topology.DPID, outPort topology.PortNo) Path {
	return ResolveWithWeight(snapshot, inDPID, inPort, outDPID, outPort, unitWeight)
}

// ResolveWithWeight is Resolve with a caller-supplied link weight function.
// Weights must be non-negative for Dijkstra's correctness.
func ResolveWithWeight(snapshot topology.Snapshot, inDPID topology.DPID, inPort topology.PortNo, outDPID topology.DPID, outPort topology.PortNo, weight Weight) Path {
	if inDPID == outDPID {
		return Path{{DPID: inDPID, InPort: inPort, OutPort: outPort}}
	}

	adjacency := buildAdjacency(snapshot)

	const unvisitedCost = math.MaxInt
	cost := map[topology.DPID]int{inDPID: 0}
	pred := map[topology.DPID]topology.Link{}
	visited := map[topology.DPID]bool{}

	frontier := &vertexHeap{{dpid: inDPID, cost: 0}}
	heap.Init(frontier)

	for frontier.Len() > 0 {
		cur := heap.Pop(frontier).(vertexEntry)
		if visited[cur.dpid] {
			continue
		}
		visited[cur.dpid] = true

		if cur.dpid == outDPID {
			break
		}

		neighbours := adjacency[cur.dpid]
		for _, link := range neighbours {
			if visited[link.ToDPID] {
				continue
			}
			newCost := cur.cost + weight(link)
			existing, known := cost[link.ToDPID]
			if !known || newCost < existing || (newCost == existing && tieBreakWins(link, pred[link.ToDPID])) {
				cost[link.ToDPID] = newCost
				pred[link.ToDPID] = link
				heap.Push(frontier, vertexEntry{dpid: link.ToDPID, cost: newCost})
			}
		}
	}

	if !visited[outDPID] {
		return nil
	}

	return materializePath(inDPID, inPort, outDPID, outPort, pred)
}

// buildAdjacency groups up links by source switch, sorted by
// (neighbour dpid, link port) ascending so relaxation order, and hence
// the predecessor chosen on cost ties, is deterministic.
func buildAdjacency(snapshot topology.Snapshot) map[topology.DPID][]topology.Link {
	adjacency := make(map[topology.DPID][]topology.Link)
	for _, l := range snapshot.Links {
		if !l.Up {
			continue
		}
		adjacency[l.FromDPID] = append(adjacency[l.FromDPID], l)
	}
	for dpid, links := range adjacency {
		ls := links
		sort.Slice(ls, func(i, j int) bool {
			if ls[i].ToDPID != ls[j].ToDPID {
				return ls[i].ToDPID < ls[j].ToDPID
			}
			return ls[i].FromPort < ls[j].FromPort
		})
		adjacency[dpid] = ls
	}
	return adjacency
}

// tieBreakWins reports whether candidate should replace the current
// predecessor link for a vertex reached at equal cost: ties break by
// (neighbour dpid, link port) ascending so results are deterministic.
func tieBreakWins(candidate, current topology.Link) bool {
	if candidate.ToDPID != current.ToDPID {
		return candidate.ToDPID < current.ToDPID
	}
	return candidate.FromPort < current.FromPort
}

// materializePath walks the predecessor map from outDPID back to inDPID,
// reverses it, and builds the Hop sequence: the first
// hop's InPort is the caller-supplied inPort, the last hop's OutPort is the
// caller-supplied outPort, and every intermediate hop's ports come from the
// links entering and leaving that switch.
func materializePath(inDPID topology.DPID, inPort topology.PortNo, outDPID topology.DPID, outPort topology.PortNo, pred map[topology.DPID]topology.Link) Path {
	var links []topology.Link
	for v := outDPID; v != inDPID; {
		l, ok := pred[v]
		if !ok {
			// unreachable: visited[outDPID] implies a predecessor chain exists
			return nil
		}
		links = append(links, l)
		v = l.FromDPID
	}
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}

	vertices := make([]topology.DPID, 0, len(links)+1)
	vertices = append(vertices, inDPID)
	for _, l := range links {
		vertices = append(vertices, l.ToDPID)
	}

	path := make(Path, len(vertices))
	for i, dpid := range vertices {
		hop := Hop{DPID: dpid}
		if i == 0 {
			hop.InPort = inPort
		} else {
			hop.InPort = links[i-1].ToPort
		}
		if i == len(vertices)-1 {
			hop.OutPort = outPort
		} else {
			hop.OutPort = links[i].FromPort
		}
		path[i] = hop
	}
	return path
}

// vertexEntry is one entry of the Dijkstra frontier.
type vertexEntry struct {
	dpid topology.DPID
	cost int
}

// vertexHeap is a min-heap of vertexEntry ordered by cost, breaking ties by
// dpid ascending for determinism.
type vertexHeap []vertexEntry

func (h vertexHeap) Len() int { return len(h) }
func (h vertexHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].dpid < h[j].dpid
}
func (h vertexHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x any)   { *h = append(*h, x.(vertexEntry)) }
func (h *vertexHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
