package analyzer

// Graph is an undirected graph over a generic comparable node key, used for
// connected-component clustering. Node and edge insertion order is preserved
// so component output is deterministic.
type Graph[K comparable] struct {
	adjacency map[K][]K
	order     []K
}

// NewGraph creates an empty graph.
func NewGraph[K comparable]() *Graph[K] {
	return &Graph[K]{
		adjacency: make(map[K][]K),
	}
}

// AddNode registers a node without edges. Adding an existing node is a no-op.
func (g *Graph[K]) AddNode(node K) {
	if _, ok := g.adjacency[node]; ok {
		return
	}
	g.adjacency[node] = nil
	g.order = append(g.order, node)
}

// AddEdge registers an undirected edge, creating the endpoints as needed.
func (g *Graph[K]) AddEdge(a, b K) {
	g.AddNode(a)
	g.AddNode(b)
	g.adjacency[a] = append(g.adjacency[a], b)
	g.adjacency[b] = append(g.adjacency[b], a)
}

// NodeCount returns the number of registered nodes.
func (g *Graph[K]) NodeCount() int {
	return len(g.order)
}

// Neighbors returns the adjacency list of a node.
func (g *Graph[K]) Neighbors(node K) []K {
	return g.adjacency[node]
}

// ConnectedComponents returns all connected components via breadth-first
// traversal. Members within a component appear in insertion order of their
// discovery; singleton nodes form single-member components.
func (g *Graph[K]) ConnectedComponents() [][]K {
	visited := make(map[K]bool, len(g.order))
	var components [][]K

	for _, start := range g.order {
		if visited[start] {
			continue
		}

		var component []K
		queue := []K{start}
		visited[start] = true

		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			component = append(component, node)

			for _, neighbor := range g.adjacency[node] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}

		components = append(components, component)
	}

	return components
}
