package diff

import (
	"encoding/json"
	"reflect"
)

// Patch op kinds
const (
	OpSet    = "set"
	OpDelete = "delete"
)

// PatchOp mutates one path of a nested object
type PatchOp struct {
	Op    string      `json:"op"`
	Path  []string    `json:"path"`
	Value interface{} `json:"value,omitempty"`
}

// Patch transforms one nested associative payload into another.
// applying CreatePatch(a, b) to a always yields b.
type Patch struct {
	Ops []PatchOp `json:"ops"`
}

// CreatePatch computes the structural difference between two nested
// objects (as decoded from JSON payloads).
func CreatePatch(oldData, newData map[string]interface{}) *Patch {
	p := &Patch{}
	diffObjects(nil, oldData, newData, p)
	return p
}

func diffObjects(path []string, oldObj, newObj map[string]interface{}, p *Patch) {
	for key, oldVal := range oldObj {
		newVal, ok := newObj[key]
		childPath := append(append([]string{}, path...), key)
		if !ok {
			p.Ops = append(p.Ops, PatchOp{Op: OpDelete, Path: childPath})
			continue
		}
		oldMap, oldIsMap := oldVal.(map[string]interface{})
		newMap, newIsMap := newVal.(map[string]interface{})
		if oldIsMap && newIsMap {
			diffObjects(childPath, oldMap, newMap, p)
			continue
		}
		if !reflect.DeepEqual(oldVal, newVal) {
			p.Ops = append(p.Ops, PatchOp{Op: OpSet, Path: childPath, Value: newVal})
		}
	}
	for key, newVal := range newObj {
		if _, ok := oldObj[key]; !ok {
			childPath := append(append([]string{}, path...), key)
			p.Ops = append(p.Ops, PatchOp{Op: OpSet, Path: childPath, Value: newVal})
		}
	}
}

// ApplyPatch returns a new object with the patch applied; the input is not
// mutated.
func ApplyPatch(data map[string]interface{}, p *Patch) map[string]interface{} {
	out := deepCopy(data)
	for _, op := range p.Ops {
		applyOp(out, op)
	}
	return out
}

func applyOp(obj map[string]interface{}, op PatchOp) {
	if len(op.Path) == 0 {
		return
	}
	cur := obj
	for _, seg := range op.Path[:len(op.Path)-1] {
		next, ok := cur[seg].(map[string]interface{})
		if !ok {
			if op.Op == OpDelete {
				return
			}
			next = map[string]interface{}{}
			cur[seg] = next
		}
		cur = next
	}
	leaf := op.Path[len(op.Path)-1]
	switch op.Op {
	case OpSet:
		cur[leaf] = op.Value
	case OpDelete:
		delete(cur, leaf)
	}
}

func deepCopy(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		if m, ok := v.(map[string]interface{}); ok {
			out[k] = deepCopy(m)
		} else {
			out[k] = v
		}
	}
	return out
}

// DecodePayload parses a payload blob as a nested JSON object. The second
// return is false when the payload is not a JSON object; callers fall back
// to line-level treatment.
func DecodePayload(payload string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
