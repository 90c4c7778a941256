package server

import (
	"fmt"
	"sort"
	"strconv"
)

// flattenToArgs converts a settings JSON object into the --path=value
// arguments understood by the patch engine. Keys are visited in sorted order
// so a given document always produces the same argument list.
func flattenToArgs(doc map[string]any) ([]string, error) {
	var args []string
	if err := appendLeafArgs(&args, "", doc); err != nil {
		return nil, err
	}
	return args, nil
}

func appendLeafArgs(args *[]string, prefix string, node map[string]any) error {
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + "-" + key
		}
		switch value := node[key].(type) {
		case map[string]any:
			if err := appendLeafArgs(args, path, value); err != nil {
				return err
			}
		case string:
			*args = append(*args, "--"+path+"="+value)
		case bool:
			*args = append(*args, "--"+path+"="+strconv.FormatBool(value))
		case float64:
			*args = append(*args, "--"+path+"="+strconv.FormatFloat(value, 'f', -1, 64))
		default:
			return fmt.Errorf("invalid value for %s: settings values must be strings, numbers, booleans, or nested objects", path)
		}
	}
	return nil
}
