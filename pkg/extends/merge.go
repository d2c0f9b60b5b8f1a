// SPDX-License-Identifier: MPL-2.0

package extends

// DefaultsDeep returns a new map holding every key of dst plus the keys of
// src that dst lacks. A key present in dst keeps its value, even when that
// value is nil. When both sides hold a map for the same key the maps are
// merged recursively with the same rule; any other value, slices included,
// is never combined. Neither argument is modified.
func DefaultsDeep(dst, src map[string]any) map[string]any {
	out := cloneMap(dst)
	if out == nil {
		out = make(map[string]any, len(src))
	}

	for k, sv := range src {
		dv, exists := out[k]
		if !exists {
			out[k] = cloneValue(sv)
			continue
		}
		dm, dstIsMap := dv.(map[string]any)
		sm, srcIsMap := sv.(map[string]any)
		if dstIsMap && srcIsMap {
			out[k] = DefaultsDeep(dm, sm)
		}
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
