package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversions(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		str   string
		num   int
		float float64
		flag  bool
	}{
		{name: "string", in: "gpt-4o-mini", str: "gpt-4o-mini"},
		{name: "int", in: 400, num: 400, float: 400},
		{name: "toml int64", in: int64(1000), num: 1000, float: 1000},
		{name: "float", in: 0.3, float: 0.3},
		{name: "float32", in: float32(0.5), float: 0.5},
		{name: "bool", in: true, flag: true},
		{name: "nil", in: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, String(tt.in))
			assert.Equal(t, tt.num, Int(tt.in))
			assert.InDelta(t, tt.float, Float(tt.in), 1e-9)
			assert.Equal(t, tt.flag, Bool(tt.in))
		})
	}
}
