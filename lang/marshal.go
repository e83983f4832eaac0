package lang

import "encoding/json"

// ToMap converts e to a tree of native Go values suitable for encoding.
//
// Every node becomes a map with a "kind" key naming its variant and the
// variant's fields under "value", "name", "op", "left", "right". Positions are
// included under "pos" when known.
func ToMap(e Expr) map[string]any {
	if e == nil {
		return nil
	}

	var m map[string]any

	switch x := e.(type) {
	case *Literal:
		m = map[string]any{"kind": "Literal", "value": x.Value}

	case *Variable:
		m = map[string]any{"kind": "Variable", "name": x.Name}

	case *Binary:
		m = map[string]any{
			"kind":  "Binary",
			"op":    x.Op.Symbol(),
			"left":  ToMap(x.Left),
			"right": ToMap(x.Right),
		}

	case *Assign:
		m = map[string]any{
			"kind":  "Assign",
			"name":  x.Name,
			"value": ToMap(x.Value),
		}

	default:
		return nil
	}

	if pos := e.Position(); pos.IsValid() {
		m["pos"] = pos.String()
	}

	return m
}

// MarshalJSON implements json.Marshaler.
func (e *Literal) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(e)) }

// MarshalJSON implements json.Marshaler.
func (e *Variable) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(e)) }

// MarshalJSON implements json.Marshaler.
func (e *Binary) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(e)) }

// MarshalJSON implements json.Marshaler.
func (e *Assign) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(e)) }
