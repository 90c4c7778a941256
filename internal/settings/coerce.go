package settings

import (
	"encoding/json"
	"fmt"
)

// coerceUpdate converts the raw text of a command-line value into the type
// of the existing leaf. The target type comes from the current value alone;
// the raw text never decides it. Error text is part of the CLI contract and
// must stay stable.
func coerceUpdate(pathSpec string, current any, raw string) (any, error) {
	switch current.(type) {
	case string:
		return raw, nil
	case bool:
		// Only the exact literals flip a boolean. The JSON parse below is for
		// the cross-type diagnostic; it would also accept whitespace-padded
		// literals, which don't count.
		switch raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, fmt.Errorf("Can't evaluate --%s=%s as boolean", pathSpec, raw)
		}
		if _, isBool := parsed.(bool); isBool {
			return nil, fmt.Errorf("Can't evaluate --%s=%s as boolean", pathSpec, raw)
		}
		return nil, fmt.Errorf("Type of '%s' is %s, but current type of %s is boolean", raw, jsonTypeName(parsed), pathSpec)
	case float64:
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, fmt.Errorf("Can't evaluate --%s=%s as number: %v", pathSpec, raw, err)
		}
		value, ok := parsed.(float64)
		if !ok {
			return nil, fmt.Errorf("Type of '%s' is %s, but current type of %s is number", raw, jsonTypeName(parsed), pathSpec)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("Type of %s is not updatable from the command line", pathSpec)
	}
}
