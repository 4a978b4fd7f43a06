package text

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/docfind/core"
)

func TestDetectSectionType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want core.SectionType
	}{
		{
			name: "explanation",
			text: "The valve sticks because deposits build up. Therefore pressure rises over time.",
			want: core.SectionExplanation,
		},
		{
			name: "glossary",
			text: "A watt is defined as one joule per second.",
			want: core.SectionGlossary,
		},
		{
			name: "procedure",
			text: "Step 1. Remove the cover. Next, disconnect the hose. Finally, tighten the clamp.",
			want: core.SectionProcedure,
		},
		{
			name: "warning",
			text: "Warning: never operate the pump dry. Do not exceed 90 psi.",
			want: core.SectionWarning,
		},
		{
			name: "diagram",
			text: "As shown in Figure 3, the diagram traces the coolant loop.",
			want: core.SectionDiagram,
		},
		{
			name: "example",
			text: "For example, a worn impeller reduces flow.",
			want: core.SectionExample,
		},
		{
			name: "formula",
			text: "Power is calculated as P = V * I.",
			want: core.SectionFormula,
		},
		{
			name: "unknown",
			text: "Plain prose describing routine maintenance records.",
			want: core.SectionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSectionType(tt.text))
		})
	}
}

func TestDetectSectionType_TieGoesToEarlierRule(t *testing.T) {
	// One explanation hit and one example hit; explanation is declared
	// first and must win the tie.
	got := DetectSectionType("This means the seal failed, for example under load.")
	assert.Equal(t, core.SectionExplanation, got)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, core.ContentTable, DetectContentType("| rpm | flow |"))
	assert.Equal(t, core.ContentList, DetectContentType("- check oil\n- check coolant"))
	assert.Equal(t, core.ContentText, DetectContentType("ordinary prose"))
}
