package topology

// ChainFrom collects the connected run of sharp edges reachable from
// the seed edge. Edges are adjacent when they share a quantized
// endpoint, and only edges whose dihedral angle exceeds the threshold
// are followed. The seed itself is always included.
func ChainFrom(seed *Edge, edges []*Edge, threshold float64) []*Edge {
	if seed == nil {
		return nil
	}
	byEndpoint := make(map[gridKey][]*Edge)
	for _, e := range edges {
		if e == seed || e.IsSharp(threshold) {
			byEndpoint[e.keyA] = append(byEndpoint[e.keyA], e)
			byEndpoint[e.keyB] = append(byEndpoint[e.keyB], e)
		}
	}

	visited := map[*Edge]bool{seed: true}
	chain := []*Edge{seed}
	stack := []*Edge{seed}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, key := range [2]gridKey{cur.keyA, cur.keyB} {
			for _, next := range byEndpoint[key] {
				if visited[next] {
					continue
				}
				visited[next] = true
				chain = append(chain, next)
				stack = append(stack, next)
			}
		}
	}
	return chain
}
