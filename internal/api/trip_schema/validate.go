package tripSchema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Violation names the first field that does not satisfy the schema.
type Violation struct {
	Path   string
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}

// Validate checks a decoded JSON value (as produced by encoding/json into
// any, with or without UseNumber) against the node. Object properties are
// checked in declaration order, arrays check their bounds before their items,
// and the first violation wins.
func (n *Node) Validate(value any) error {
	if v := n.validate("", value); v != nil {
		return v
	}
	return nil
}

func (n *Node) validate(path string, value any) *Violation {
	if value == nil {
		return &Violation{Path: display(path), Reason: fmt.Sprintf("expected %s, got null", n.Type)}
	}
	switch n.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			return mismatch(path, n.Type, value)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return mismatch(path, n.Type, value)
		}
	case TypeNumber:
		if _, ok := asFloat(value); !ok {
			return mismatch(path, n.Type, value)
		}
	case TypeInteger:
		f, ok := asFloat(value)
		if !ok {
			return mismatch(path, n.Type, value)
		}
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return &Violation{Path: display(path), Reason: fmt.Sprintf("expected integer, got %v", value)}
		}
	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return mismatch(path, n.Type, value)
		}
		if n.MinItems != nil && len(items) < *n.MinItems {
			return &Violation{Path: display(path), Reason: fmt.Sprintf("expected at least %d items, got %d", *n.MinItems, len(items))}
		}
		if n.MaxItems != nil && len(items) > *n.MaxItems {
			return &Violation{Path: display(path), Reason: fmt.Sprintf("expected at most %d items, got %d", *n.MaxItems, len(items))}
		}
		if n.Items == nil {
			return nil
		}
		for i, item := range items {
			if v := n.Items.validate(path+"["+strconv.Itoa(i)+"]", item); v != nil {
				return v
			}
		}
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return mismatch(path, n.Type, value)
		}
		for _, p := range n.Properties {
			child := join(path, p.Name)
			pv, present := obj[p.Name]
			if !present || pv == nil {
				if p.Required {
					return &Violation{Path: child, Reason: "missing required field"}
				}
				continue
			}
			if v := p.Schema.validate(child, pv); v != nil {
				return v
			}
		}
	}
	return nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func mismatch(path string, want Type, got any) *Violation {
	return &Violation{Path: display(path), Reason: fmt.Sprintf("expected %s, got %s", want, kindOf(got))}
}

func kindOf(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func display(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

// Normalize rewrites every integer field of a validated value into its plain
// integer form, so 3.0 and 1e1 decode into Go ints. Call it only after
// Validate succeeded.
func (n *Node) Normalize(value any) any {
	switch n.Type {
	case TypeInteger:
		if f, ok := asFloat(value); ok {
			return json.Number(strconv.FormatInt(int64(f), 10))
		}
	case TypeArray:
		items, ok := value.([]any)
		if !ok || n.Items == nil {
			return value
		}
		for i, item := range items {
			items[i] = n.Items.Normalize(item)
		}
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return value
		}
		for _, p := range n.Properties {
			if pv, present := obj[p.Name]; present && pv != nil {
				obj[p.Name] = p.Schema.Normalize(pv)
			}
		}
	}
	return value
}
