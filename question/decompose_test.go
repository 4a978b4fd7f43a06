package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizQuestion = `Which component limits system pressure?
A) The relief valve
B. The accumulator
c) The reservoir`

func TestDetectQuiz(t *testing.T) {
	quiz := DetectQuiz(quizQuestion)
	require.NotNil(t, quiz)

	assert.Equal(t, "Which component limits system pressure?", quiz.Stem)
	require.Len(t, quiz.Options, 3)
	assert.Equal(t, QuizOption{Letter: "A", Text: "The relief valve"}, quiz.Options[0])
	assert.Equal(t, QuizOption{Letter: "B", Text: "The accumulator"}, quiz.Options[1])
	assert.Equal(t, QuizOption{Letter: "C", Text: "The reservoir"}, quiz.Options[2])
}

func TestDetectQuiz_RequiresTwoOptions(t *testing.T) {
	assert.Nil(t, DetectQuiz("Which valve?\nA) The relief valve"))
	assert.Nil(t, DetectQuiz("Plain question with no options?"))
}

func TestDecompose_Quiz(t *testing.T) {
	subs := Decompose(quizQuestion)
	require.Len(t, subs, 4)
	assert.Equal(t, "Which component limits system pressure?", subs[0])
	assert.Equal(t, "Which component limits system pressure? The relief valve", subs[1])
	assert.Equal(t, "Which component limits system pressure? The accumulator", subs[2])
	assert.Equal(t, "Which component limits system pressure? The reservoir", subs[3])
}

func TestDecompose_MultiClause(t *testing.T) {
	subs := Decompose("How does the turbo spool up, and what controls boost pressure?")
	require.Len(t, subs, 2)
	assert.Equal(t, "How does the turbo spool up", subs[0])
	assert.Equal(t, "what controls boost pressure?", subs[1])
}

func TestDecompose_SimpleQuestionIsSingle(t *testing.T) {
	subs := Decompose("  What is boost pressure?  ")
	assert.Equal(t, []string{"What is boost pressure?"}, subs)
}

func TestDecompose_ShortFragmentsFoldIntoBase(t *testing.T) {
	subs := Decompose("What is EGR; and why?")
	assert.Equal(t, []string{"What is EGR; and why?"}, subs, "fragments under the length floor do not stand alone")
}

func TestIsComplex(t *testing.T) {
	assert.True(t, IsComplex(quizQuestion))
	assert.True(t, IsComplex("How does the turbo spool up, and what controls boost pressure?"))
	assert.False(t, IsComplex("What is boost pressure?"))
}
