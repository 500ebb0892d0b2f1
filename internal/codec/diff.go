package codec

import (
	"reflect"
	"sort"
	"strings"
)

// Diff computes the merge-patch that, applied to newObj, yields oldObj.
// Per the vault's history model this is backward-looking: callers diff
// (previousEntry, currentEntry) and store the result as the history patch
// for the current version.
//
// Rules: a key present in old and absent-or-different in new records old's
// value; a key present in new and absent in old records nil (deletion);
// nested objects recurse; any non-object value (including arrays) is
// compared and replaced whole, never merged key-by-key.
func Diff(oldObj, newObj map[string]interface{}) map[string]interface{} {
	patch := map[string]interface{}{}

	for k, oldVal := range oldObj {
		newVal, present := newObj[k]
		if !present {
			patch[k] = oldVal
			continue
		}
		oldMap, oldIsMap := asObject(oldVal)
		newMap, newIsMap := asObject(newVal)
		if oldIsMap && newIsMap {
			nested := Diff(oldMap, newMap)
			if len(nested) > 0 {
				patch[k] = nested
			}
			continue
		}
		if !deepEqual(oldVal, newVal) {
			patch[k] = oldVal
		}
	}

	for k := range newObj {
		if _, present := oldObj[k]; !present {
			patch[k] = nil
		}
	}

	return patch
}

// Apply applies patch (as produced by Diff) to obj, returning a new map
// equal to the object Diff's oldObj was computed from.
func Apply(obj map[string]interface{}, patch map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		result[k] = v
	}

	for k, patchVal := range patch {
		if patchVal == nil {
			delete(result, k)
			continue
		}
		if patchMap, ok := asObject(patchVal); ok {
			if baseMap, ok := asObject(result[k]); ok {
				result[k] = Apply(baseMap, patchMap)
				continue
			}
		}
		result[k] = patchVal
	}

	return result
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func deepEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

// loginEntryFieldOrder is the declared, stable key order for the "login"
// entry kind; it is what makes the dotted-path field list deterministic
// instead of following Go's randomized map iteration.
var loginEntryFieldOrder = []string{"kind", "username", "password"}

// entryFieldOrder returns the declared key order for entry's kind, falling
// back to lexicographic order for unrecognized kinds, then appends any
// remaining keys (sorted) that the declared order missed.
func entryFieldOrder(entry map[string]interface{}) []string {
	var declared []string
	if kind, ok := entry["kind"].(string); ok && kind == "login" {
		declared = loginEntryFieldOrder
	}

	seen := make(map[string]bool, len(declared))
	order := make([]string, 0, len(entry))
	for _, k := range declared {
		if _, ok := entry[k]; ok {
			order = append(order, k)
			seen[k] = true
		}
	}

	var rest []string
	for k := range entry {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// recordFieldOrder is the declared, stable top-level key order used for the
// dotted-path telemetry field list. id, created and history are immutable
// or internal and never appear in a diff of update-eligible fields.
var recordFieldOrder = []string{"title", "entry", "origins", "tags", "last_used"}

// arrayFields names the top-level fields reported by name only, never
// descended into, because the spec treats arrays as atomic.
var arrayFields = map[string]bool{"origins": true, "tags": true}

// FieldList renders the dotted-path, comma-joined field list for a
// top-level record patch, in the new record's declared field order,
// descending one level into a changed "entry". newEntry supplies the key
// order for that nested diff; entry keys the update removed (absent from
// newEntry) follow in sorted order. Objects nested inside entry are
// reported by their "entry.<key>" path only, not descended into.
// Returns "" if patch is empty.
func FieldList(patch map[string]interface{}, newEntry map[string]interface{}) string {
	if len(patch) == 0 {
		return ""
	}

	var paths []string
	for _, field := range recordFieldOrder {
		val, present := patch[field]
		if !present {
			continue
		}
		if arrayFields[field] {
			paths = append(paths, field)
			continue
		}
		if nested, ok := asObject(val); ok && field == "entry" {
			listed := make(map[string]bool, len(nested))
			for _, sub := range entryFieldOrder(newEntry) {
				if _, present := nested[sub]; present {
					paths = append(paths, field+"."+sub)
					listed[sub] = true
				}
			}
			var removed []string
			for sub := range nested {
				if !listed[sub] {
					removed = append(removed, sub)
				}
			}
			sort.Strings(removed)
			for _, sub := range removed {
				paths = append(paths, field+"."+sub)
			}
			continue
		}
		paths = append(paths, field)
	}

	return strings.Join(paths, ",")
}

// IsEmpty reports whether patch would record no changes.
func IsEmpty(patch map[string]interface{}) bool {
	return len(patch) == 0
}
