package settings

const pathSeparator = '-'

// resolveLeaf walks the settings tree to locate the mapping that holds the
// field addressed by pathSpec, along with the final field name inside it.
// Absence is a normal outcome, reported through ok, never an error.
//
// Field names may themselves contain the separator, so one path segment does
// not necessarily correspond to one tree level. At every node the full
// remaining suffix is tried as a field name first, then the longest
// separator-bounded prefix naming a nested mapping is descended into. The
// schema is closed and small, so the greedy walk never backtracks.
func resolveLeaf(doc map[string]any, pathSpec string) (map[string]any, string, bool) {
	node := doc
	remaining := pathSpec
	for {
		if remaining == "" {
			return nil, "", false
		}
		if _, ok := node[remaining]; ok {
			return node, remaining, true
		}
		child, rest, ok := descendLongestPrefix(node, remaining)
		if !ok {
			return nil, "", false
		}
		node = child
		remaining = rest
	}
}

// descendLongestPrefix finds the longest prefix of remaining, cut at a
// separator, that names a nested mapping in node. Prefixes matching scalar
// fields are not descent candidates; the walk stops at the first leaf.
func descendLongestPrefix(node map[string]any, remaining string) (map[string]any, string, bool) {
	for i := len(remaining) - 1; i > 0; i-- {
		if remaining[i] != pathSeparator {
			continue
		}
		child, ok := node[remaining[:i]].(map[string]any)
		if !ok {
			continue
		}
		return child, remaining[i+1:], true
	}
	return nil, "", false
}
