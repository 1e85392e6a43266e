package controllers

import (
	"encoding/json"
	"strconv"
	"testing"

	courseModels "learnhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func embeddedAssessment(t *testing.T, db *gorm.DB, courseID uint) *courseModels.Assessment {
	t.Helper()

	questions := []courseModels.EmbeddedQuestion{
		{Question: "What keyword declares a variable?", Options: []string{"var", "let", "def"}, CorrectAnswer: "var"},
		{Question: "Which type holds text?", Options: []string{"int", "string"}, CorrectAnswer: "string"},
		{Question: "What starts a goroutine?", Options: []string{"go", "run", "spawn"}, CorrectAnswer: "go"},
		{Question: "Which builtin grows a slice?", Options: []string{"push", "append"}, CorrectAnswer: "append"},
		{Question: "What closes a channel?", Options: []string{"close", "end"}, CorrectAnswer: "close"},
	}
	questionsJSON, err := json.Marshal(questions)
	require.NoError(t, err)

	assessment := courseModels.Assessment{
		CourseID:      courseID,
		Title:         "Final Assessment",
		PassingScore:  70,
		QuestionsData: questionsJSON,
	}
	require.NoError(t, db.Create(&assessment).Error)
	return &assessment
}

func structuredAssessment(t *testing.T, db *gorm.DB, courseID uint) (*courseModels.Assessment, map[string]string) {
	t.Helper()

	assessment := courseModels.Assessment{CourseID: courseID, Title: "Final Assessment", PassingScore: 70}
	require.NoError(t, db.Create(&assessment).Error)

	answerKey := make(map[string]string)
	prompts := []string{"Q1", "Q2", "Q3", "Q4", "Q5"}
	for i, prompt := range prompts {
		question := courseModels.Question{AssessmentID: assessment.ID, Prompt: prompt, OrderIndex: (i + 1) * 10}
		require.NoError(t, db.Create(&question).Error)

		correct := courseModels.Choice{QuestionID: question.ID, Text: "right", IsCorrect: true, OrderIndex: 10}
		wrong := courseModels.Choice{QuestionID: question.ID, Text: "wrong", OrderIndex: 20}
		require.NoError(t, db.Create(&correct).Error)
		require.NoError(t, db.Create(&wrong).Error)

		questionKey := strconv.FormatUint(uint64(question.ID), 10)
		answerKey[questionKey] = strconv.FormatUint(uint64(correct.ID), 10)
	}

	return &assessment, answerKey
}

func TestScoreSubmission(t *testing.T) {
	answerKey := map[string]string{"q1": "a", "q2": "b", "q3": "c", "q4": "d", "q5": "e"}

	t.Run("three of five scores sixty", func(t *testing.T) {
		score, correct, total := scoreSubmission(answerKey, map[string]string{
			"q1": "a", "q2": "b", "q3": "c", "q4": "x", "q5": "x",
		})
		assert.Equal(t, 60, score)
		assert.Equal(t, 3, correct)
		assert.Equal(t, 5, total)
	})

	t.Run("four of five scores eighty", func(t *testing.T) {
		score, _, _ := scoreSubmission(answerKey, map[string]string{
			"q1": "a", "q2": "b", "q3": "c", "q4": "d",
		})
		assert.Equal(t, 80, score)
	})

	t.Run("unanswered questions count as incorrect", func(t *testing.T) {
		score, correct, total := scoreSubmission(answerKey, map[string]string{})
		assert.Equal(t, 0, score)
		assert.Equal(t, 0, correct)
		assert.Equal(t, 5, total)
	})

	t.Run("score rounds to the nearest integer", func(t *testing.T) {
		key := map[string]string{"q1": "a", "q2": "b", "q3": "c"}
		score, _, _ := scoreSubmission(key, map[string]string{"q1": "a"})
		assert.Equal(t, 33, score, "1/3 rounds down")

		score, _, _ = scoreSubmission(key, map[string]string{"q1": "a", "q2": "b"})
		assert.Equal(t, 67, score, "2/3 rounds up")
	})

	t.Run("assessment without questions scores zero", func(t *testing.T) {
		score, correct, total := scoreSubmission(map[string]string{}, map[string]string{"q1": "a"})
		assert.Equal(t, 0, score)
		assert.Equal(t, 0, correct)
		assert.Equal(t, 0, total)
	})

	t.Run("extra answers are ignored", func(t *testing.T) {
		score, _, total := scoreSubmission(answerKey, map[string]string{
			"q1": "a", "q2": "b", "q3": "c", "q4": "d", "q5": "e", "bogus": "x",
		})
		assert.Equal(t, 100, score)
		assert.Equal(t, 5, total)
	})
}

func TestLoadCanonicalQuestionsEmbedded(t *testing.T) {
	db := setupTestDB(t)

	_, modules := createTestEnrollment(t, db, 1)
	assessment := embeddedAssessment(t, db, modules[0].CourseID)

	assert.Equal(t, courseModels.VariantEmbedded, assessment.Variant())

	views, answerKey, err := loadCanonicalQuestions(db, assessment)
	require.NoError(t, err)
	require.Len(t, views, 5)
	require.Len(t, answerKey, 5)

	// Questions key by list position; options key by their text
	assert.Equal(t, "question_0", views[0].Key)
	assert.Equal(t, "What keyword declares a variable?", views[0].Prompt)
	assert.Equal(t, "var", answerKey["question_0"])
	require.Len(t, views[0].Options, 3)
	assert.Equal(t, views[0].Options[0].Key, views[0].Options[0].Text)
}

func TestEmbeddedDuplicatePromptsStayDistinct(t *testing.T) {
	db := setupTestDB(t)

	_, modules := createTestEnrollment(t, db, 1)

	questions := []courseModels.EmbeddedQuestion{
		{Question: "Pick the right answer", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		{Question: "Pick the right answer", Options: []string{"c", "d"}, CorrectAnswer: "d"},
	}
	questionsJSON, err := json.Marshal(questions)
	require.NoError(t, err)

	assessment := courseModels.Assessment{
		CourseID:      modules[0].CourseID,
		Title:         "Duplicates",
		PassingScore:  70,
		QuestionsData: questionsJSON,
	}
	require.NoError(t, db.Create(&assessment).Error)

	views, answerKey, err := loadCanonicalQuestions(db, &assessment)
	require.NoError(t, err)
	require.Len(t, views, 2, "identical prompts must not collapse")
	require.Len(t, answerKey, 2)
	assert.Equal(t, "a", answerKey["question_0"])
	assert.Equal(t, "d", answerKey["question_1"])

	score, correct, total := scoreSubmission(answerKey, map[string]string{
		"question_0": "a",
		"question_1": "d",
	})
	assert.Equal(t, 100, score)
	assert.Equal(t, 2, correct)
	assert.Equal(t, 2, total)
}

func TestLoadCanonicalQuestionsStructured(t *testing.T) {
	db := setupTestDB(t)

	_, modules := createTestEnrollment(t, db, 1)
	assessment, wantKey := structuredAssessment(t, db, modules[0].CourseID)

	assert.Equal(t, courseModels.VariantStructured, assessment.Variant())

	views, answerKey, err := loadCanonicalQuestions(db, assessment)
	require.NoError(t, err)
	require.Len(t, views, 5)
	assert.Equal(t, wantKey, answerKey)

	// The served view never exposes which choice is correct
	viewJSON, err := json.Marshal(views)
	require.NoError(t, err)
	assert.NotContains(t, string(viewJSON), "is_correct")
}

func TestBothVariantsGradeTheSameSubmissionShape(t *testing.T) {
	db := setupTestDB(t)

	_, modules := createTestEnrollment(t, db, 1)

	embedded := embeddedAssessment(t, db, modules[0].CourseID)
	_, embeddedKey, err := loadCanonicalQuestions(db, embedded)
	require.NoError(t, err)

	// Answer three of five correctly
	answers := map[string]string{
		"question_0": "var",
		"question_1": "string",
		"question_2": "go",
		"question_3": "push",
		"question_4": "end",
	}
	score, _, _ := scoreSubmission(embeddedKey, answers)
	assert.Equal(t, 60, score)
	assert.Less(t, score, embedded.PassingScore, "sixty fails a seventy threshold")
}

func TestScoreEmbeddedQuiz(t *testing.T) {
	questions := []courseModels.EmbeddedQuestion{
		{Question: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		{Question: "Q2", Options: []string{"a", "b"}, CorrectAnswer: "b"},
	}

	assert.Equal(t, 100, scoreEmbeddedQuiz(questions, map[string]string{"question_0": "a", "question_1": "b"}))
	assert.Equal(t, 50, scoreEmbeddedQuiz(questions, map[string]string{"question_0": "a", "question_1": "a"}))
	assert.Equal(t, 0, scoreEmbeddedQuiz(nil, map[string]string{"question_0": "a"}))
}
