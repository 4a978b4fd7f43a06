package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfind/core"
)

func TestAnalyze_Intent(t *testing.T) {
	tests := []struct {
		q    string
		want core.Intent
	}{
		{"What is cavitation?", core.IntentDefinition},
		{"How do I bleed the brakes?", core.IntentProcedure},
		{"Why does the engine stall at idle?", core.IntentDiagnosis},
		{"Difference between torque and horsepower?", core.IntentComparison},
		{"Calculate the total flow rate.", core.IntentCalculation},
		{"Tell me about the fuel system.", core.IntentOther},
	}

	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.q).Intent)
		})
	}
}

func TestAnalyze_FirstMatchingFamilyWins(t *testing.T) {
	// Both definition ("what is") and diagnosis ("why") fire; the
	// definition family is tested first.
	analysis := Analyze("What is the reason why the pump cavitates?")
	assert.Equal(t, core.IntentDefinition, analysis.Intent)
}

func TestAnalyze_KeyTerms(t *testing.T) {
	analysis := Analyze("Why does pump 7 overheat above 3000 rpm?")
	assert.Contains(t, analysis.KeyTerms, "pump")
	assert.Contains(t, analysis.KeyTerms, "overheat")
	assert.Contains(t, analysis.KeyTerms, "7", "numeric literals are never dropped")
	assert.Contains(t, analysis.KeyTerms, "3000")
}

func TestAnalyze_NumericLiteralsSurviveTheCap(t *testing.T) {
	q := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november at 42 degrees"
	analysis := Analyze(q)

	require.GreaterOrEqual(t, len(analysis.KeyTerms), 13)
	assert.Len(t, analysis.KeyTerms[:12], 12)
	assert.Contains(t, analysis.KeyTerms, "42", "numbers are appended even past the 12-term cap")
	assert.NotContains(t, analysis.KeyTerms, "november", "terms beyond the cap are dropped")
}

func TestAnalyze_Negations(t *testing.T) {
	analysis := Analyze("Why does the relay NOT close, and never latch, without power?")
	assert.Equal(t, []string{"not", "never", "without"}, analysis.Negations)
}

func TestAnalyze_NegationsDeduplicated(t *testing.T) {
	analysis := Analyze("Not here, not there, NOT anywhere")
	assert.Equal(t, []string{"not"}, analysis.Negations)
}

func TestAnalyze_ConstraintsAreSnippets(t *testing.T) {
	analysis := Analyze("Does the alternator charge during cold starts?")
	require.Len(t, analysis.Constraints, 1)
	assert.Contains(t, analysis.Constraints[0], "during cold starts")
	assert.Greater(t, len(analysis.Constraints[0]), len("during"), "constraints are context windows, not single words")
}

func TestAnalyze_FocusPhrases(t *testing.T) {
	analysis := Analyze(`What does "limp mode" mean versus 'fail safe'?`)
	assert.Equal(t, []string{"limp mode", "fail safe"}, analysis.FocusPhrases)
}
