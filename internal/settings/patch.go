package settings

import (
	"fmt"
	"strings"
)

const longOptionPrefix = "--"

// UpdateFromCommandLine applies a list of --dotted-path[=value] arguments to
// a settings tree and returns the patched tree. The input tree is never
// mutated: the function deep-copies it first and either every argument
// applies cleanly or the first failure aborts the whole batch.
//
// Supported argument shapes, evaluated left to right:
//
//	--path=value      inline value (may be empty, which sets a string leaf to "")
//	--path value      value taken from the next argument
//	--path            implicit true, when the path names a boolean leaf
//
// Later arguments see the edits of earlier ones. Only existing scalar leaves
// may be overwritten; structural nodes and unknown paths are rejected.
func UpdateFromCommandLine(doc map[string]any, args []string) (map[string]any, error) {
	updated := CopyTree(doc)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, longOptionPrefix) {
			return nil, fmt.Errorf("Unexpected argument '%s'", arg)
		}
		pathSpec := arg[len(longOptionPrefix):]
		value := ""
		haveValue := false
		if eq := strings.Index(pathSpec, "="); eq >= 0 {
			pathSpec, value, haveValue = pathSpec[:eq], pathSpec[eq+1:], true
		}
		parent, finalKey, ok := resolveLeaf(updated, pathSpec)
		if !ok {
			return nil, fmt.Errorf("Can't evaluate command-line argument --%s: no such entry in current settings", pathSpec)
		}
		current := parent[finalKey]
		if !haveValue {
			if _, isBool := current.(bool); isBool {
				value = "true"
			} else {
				if i == len(args)-1 {
					return nil, fmt.Errorf("No value provided for option --%s", pathSpec)
				}
				i++
				value = args[i]
			}
		}
		if _, isNode := current.(map[string]any); isNode {
			return nil, fmt.Errorf("Can't overwrite existing setting --%s", pathSpec)
		}
		coerced, err := coerceUpdate(pathSpec, current, value)
		if err != nil {
			return nil, err
		}
		parent[finalKey] = coerced
	}
	return updated, nil
}
