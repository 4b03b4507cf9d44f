package filter

import "testing"

func TestMapOperator(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{"=", "eq"},
		{"<>", "neq"},
		{"!=", "neq"},
		{">", "gt"},
		{">=", "gte"},
		{"<", "lt"},
		{"<=", "lte"},
		{"LIKE", "like"},
		{"like", "like"},
		{"ILIKE", "ilike"},
		{"IN", "in"},
		{"in", "in"},
		{"IS", "is"},
		{"IS NOT", "not.is"},
		{"is  not", "not.is"},
		{"IS NULL", "is"},
		{"IS NOT NULL", "not.is"},
		// unknown operators pass through unchanged
		{"between", "between"},
		{"~", "~"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			if got := MapOperator(tt.op); got != tt.want {
				t.Errorf("MapOperator(%q) = %q, want %q", tt.op, got, tt.want)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   any
		want any
		name string
	}{
		{name: "true", in: "true", want: true},
		{name: "false", in: "false", want: false},
		{name: "mixed case", in: "True", want: true},
		{name: "other string", in: "truthy", want: "truthy"},
		{name: "int passes through", in: 42, want: 42},
		{name: "bool passes through", in: true, want: true},
		{name: "nil passes through", in: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coerce(tt.in); got != tt.want {
				t.Errorf("Coerce(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
