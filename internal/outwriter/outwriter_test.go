package outwriter

import (
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		explain  bool
		expected int
	}{
		{"narrow clamps to minimum", 60, false, 15},
		{"wide clamps to maximum", 300, false, 70},
		{"in between", 120, false, 40},
		{"explain takes room", 120, true, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width, Explain: tt.explain}
			assert.Equal(t, tt.expected, GetMaxTablePathWidth(cfg))
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	original := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = original }()

	plain := categoryLabel(schema.FlakyCategory, &contract.Config{UseColors: false})
	assert.Equal(t, "flaky", plain)

	colored := categoryLabel(schema.FlakyCategory, &contract.Config{UseColors: true})
	assert.Contains(t, colored, "flaky")
	assert.NotEqual(t, "flaky", colored)
}
