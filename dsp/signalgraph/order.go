package signalgraph

// sortNodes orders live nodes so every node renders after the nodes feeding
// its input and params (Kahn's algorithm). Nodes left over by a cycle, and
// everything downstream of one, are appended in creation order.
func (g *Graph) sortNodes() []*Node {
	indegree := make(map[*Node]int, len(g.nodes))
	for _, n := range g.nodes {
		indegree[n] = 0
	}

	for _, n := range g.nodes {
		for _, t := range n.targets {
			indegree[t.Owner()]++
		}
	}

	queue := make([]*Node, 0, len(g.nodes))

	for _, n := range g.nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*Node, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		order = append(order, n)
		for _, t := range n.targets {
			owner := t.Owner()

			indegree[owner]--
			if indegree[owner] == 0 {
				queue = append(queue, owner)
			}
		}
	}

	if len(order) == len(g.nodes) {
		return order
	}

	for _, n := range g.nodes {
		if indegree[n] > 0 {
			order = append(order, n)
		}
	}

	return order
}
