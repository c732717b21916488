package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQuestionBank(t *testing.T) {
	bank := DefaultQuestionBank()
	require.Equal(t, QuestionCount, bank.Len())

	perAxis := map[Axis]int{}
	for _, q := range bank.Questions {
		perAxis[q.Axis]++
		assert.NotEmpty(t, q.Text, q.ID)
		assert.NotEmpty(t, q.LeftLabel, q.ID)
		assert.NotEmpty(t, q.RightLabel, q.ID)
	}
	for _, axis := range Axes {
		assert.Equal(t, 3, perAxis[axis], axis)
	}

	q, ok := bank.Lookup("vision_2")
	require.True(t, ok)
	assert.Equal(t, AxisVision, q.Axis)
	_, ok = bank.Lookup("nope")
	assert.False(t, ok)
}

func TestQuestionBankValidate(t *testing.T) {
	valid := func() *QuestionBank {
		b := DefaultQuestionBank()
		b.Questions = append([]Question(nil), b.Questions...)
		return b
	}

	tests := []struct {
		name   string
		mutate func(b *QuestionBank)
	}{
		{"too few", func(b *QuestionBank) { b.Questions = b.Questions[:11] }},
		{"duplicate id", func(b *QuestionBank) { b.Questions[1].ID = b.Questions[0].ID }},
		{"empty id", func(b *QuestionBank) { b.Questions[3].ID = "" }},
		{"bad axis", func(b *QuestionBank) { b.Questions[0].Axis = "mood" }},
		{"axis without questions", func(b *QuestionBank) {
			for i := range b.Questions {
				if b.Questions[i].Axis == AxisVision {
					b.Questions[i].Axis = AxisEnergy
				}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			tt.mutate(b)
			assert.ErrorIs(t, b.Validate(), ErrInvalidBank)
		})
	}
}

func TestLoadQuestionBankFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yaml")
	require.NoError(t, os.WriteFile(path, defaultQuestions, 0o644))

	bank, err := LoadQuestionBank(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultQuestionBank().Questions, bank.Questions)

	_, err = LoadQuestionBank(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNewAnswerMap(t *testing.T) {
	bank := DefaultQuestionBank()
	answers := NewAnswerMap(bank)
	require.Len(t, answers, QuestionCount)
	for _, q := range bank.Questions {
		assert.Equal(t, DefaultAnswer, answers[q.ID])
	}

	clone := answers.Clone()
	clone[bank.At(0).ID] = 99
	assert.Equal(t, DefaultAnswer, answers[bank.At(0).ID])
}

func TestAxisScoresGet(t *testing.T) {
	s := NewAxisScores(map[Axis]int{AxisEnergy: 1, AxisThinking: 2, AxisPlanning: 3, AxisVision: 4})
	assert.Equal(t, AxisScores{Energy: 1, Thinking: 2, Planning: 3, Vision: 4}, s)
	assert.Equal(t, 3, s.Get(AxisPlanning))
	assert.Panics(t, func() { s.Get("mood") })

	assert.True(t, AxisThinking.Valid())
	assert.False(t, Axis("mood").Valid())
}

func TestTimestamp(t *testing.T) {
	var missing Timestamp
	assert.False(t, missing.Valid())
	assert.Equal(t, int64(0), missing.Millis())
	_, ok := missing.Time()
	assert.False(t, ok)
	assert.False(t, NewTimestamp(time.Time{}).Valid())

	at := time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC)
	ts := NewTimestamp(at)
	assert.Equal(t, at.UnixMilli(), ts.Millis())

	v, err := ts.Value()
	require.NoError(t, err)
	var scanned Timestamp
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, ts, scanned)
	require.NoError(t, scanned.Scan(nil))
	assert.False(t, scanned.Valid())
	assert.Error(t, scanned.Scan(42))
}

func TestAssessmentHistoryJSON(t *testing.T) {
	h := AssessmentHistory{
		ID:         "h1",
		AxisScores: AxisScores{Energy: 10, Thinking: 20, Planning: 30, Vision: 40},
		AnsweredAt: NewTimestamp(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
	}
	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"h1","energy":10,"thinking":20,"planning":30,"vision":40,"answeredAt":"2026-05-01T00:00:00Z"}`, string(data))

	var back AssessmentHistory
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, h, back)

	noTime, err := json.Marshal(AssessmentHistory{ID: "h2"})
	require.NoError(t, err)
	assert.Contains(t, string(noTime), `"answeredAt":null`)
}
