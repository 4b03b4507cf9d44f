package filter

import (
	"encoding/json"

	"github.com/datagate-io/datagate/pkg/apperr"
)

// ParseJSON decodes a JSON document into a filter tree. Malformed JSON is
// classified as InvalidFilterJSON; a well-formed document with an invalid
// shape is classified by FromMap.
func ParseJSON(data []byte) (Node, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperr.Wrap(apperr.InvalidFilterJSON, "filter", err)
	}
	return FromMap(raw)
}

// FromMap builds a filter tree from an already-decoded JSON object, deciding
// each node's kind exactly once. A node holding both "field" and "operator"
// is a condition; a node holding "logic" and "filters" is a group; anything
// else is invalid.
func FromMap(raw map[string]any) (Node, error) {
	if raw == nil {
		return nil, nil
	}

	_, hasField := raw["field"]
	_, hasOperator := raw["operator"]
	if hasField && hasOperator {
		field, ok := raw["field"].(string)
		if !ok {
			return nil, apperr.New(apperr.InvalidFilterStructure, "filter", "condition field must be a string")
		}
		operator, ok := raw["operator"].(string)
		if !ok {
			return nil, apperr.New(apperr.InvalidFilterStructure, "filter", "condition operator must be a string")
		}
		return &Condition{Field: field, Operator: operator, Value: raw["value"]}, nil
	}

	logicRaw, hasLogic := raw["logic"]
	filtersRaw, hasFilters := raw["filters"]
	if hasLogic && hasFilters {
		logic, ok := logicRaw.(string)
		if !ok {
			return nil, apperr.New(apperr.InvalidFilterStructure, "filter", "group logic must be a string")
		}
		children, ok := filtersRaw.([]any)
		if !ok {
			return nil, apperr.New(apperr.InvalidFilterStructure, "filter", "group filters must be an array")
		}
		group := &Group{Logic: logic, Filters: make([]Node, 0, len(children))}
		for _, child := range children {
			childMap, ok := child.(map[string]any)
			if !ok {
				return nil, apperr.New(apperr.InvalidFilterStructure, "filter", "group filter entries must be objects")
			}
			node, err := FromMap(childMap)
			if err != nil {
				return nil, err
			}
			group.Filters = append(group.Filters, node)
		}
		return group, nil
	}

	return nil, apperr.New(apperr.InvalidFilterStructure, "filter",
		"node is neither a condition (field/operator) nor a group (logic/filters)")
}
