// assessment.go
package models

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuestionCount is the fixed size of the instrument.
const QuestionCount = 12

// DefaultAnswer is the neutral slider midpoint every answer starts from.
const DefaultAnswer = 50

//go:embed questions.yaml
var defaultQuestions []byte

// ErrInvalidBank is returned when a question bank breaks one of its invariants.
var ErrInvalidBank = errors.New("invalid question bank")

// Question struct to match the YAML structure
type Question struct {
	ID              string `yaml:"id" json:"id"`
	Axis            Axis   `yaml:"axis" json:"axis"`
	Text            string `yaml:"text" json:"text"`
	LeftLabel       string `yaml:"left_label" json:"leftLabel"`
	RightLabel      string `yaml:"right_label" json:"rightLabel"`
	Context         string `yaml:"context,omitempty" json:"context,omitempty"`
	ShortLeftLabel  string `yaml:"short_left_label,omitempty" json:"shortLeftLabel,omitempty"`
	ShortRightLabel string `yaml:"short_right_label,omitempty" json:"shortRightLabel,omitempty"`
}

// QuestionBank is the ordered, immutable list of questions.
type QuestionBank struct {
	Questions []Question `yaml:"questions" json:"questions"`
}

// LoadQuestionBank reads and parses a questions YAML file. An empty path
// yields the embedded default bank.
func LoadQuestionBank(path string) (*QuestionBank, error) {
	data := defaultQuestions
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read question bank: %w", err)
		}
	}
	return ParseQuestionBank(data)
}

// DefaultQuestionBank returns the embedded bank. It panics if the embedded
// file is broken, which can only happen at build time.
func DefaultQuestionBank() *QuestionBank {
	bank, err := ParseQuestionBank(defaultQuestions)
	if err != nil {
		panic(err)
	}
	return bank
}

func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var bank QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question bank YAML: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}

// Validate checks the bank has exactly QuestionCount questions with unique
// ids, valid axes, and at least one question per axis.
func (b *QuestionBank) Validate() error {
	if len(b.Questions) != QuestionCount {
		return fmt.Errorf("%w: want %d questions, got %d", ErrInvalidBank, QuestionCount, len(b.Questions))
	}
	seen := make(map[string]bool, len(b.Questions))
	perAxis := make(map[Axis]int, len(Axes))
	for i, q := range b.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidBank, i)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidBank, q.ID)
		}
		seen[q.ID] = true
		if !q.Axis.Valid() {
			return fmt.Errorf("%w: question %q has unknown axis %q", ErrInvalidBank, q.ID, q.Axis)
		}
		perAxis[q.Axis]++
	}
	for _, axis := range Axes {
		if perAxis[axis] == 0 {
			return fmt.Errorf("%w: axis %q has no questions", ErrInvalidBank, axis)
		}
	}
	return nil
}

func (b *QuestionBank) Len() int {
	return len(b.Questions)
}

// At returns the question at a zero-based position.
func (b *QuestionBank) At(index int) Question {
	return b.Questions[index]
}

func (b *QuestionBank) Lookup(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// AnswerMap maps question id to a slider value in [0, 100].
type AnswerMap map[string]int

// NewAnswerMap seeds every question of the bank with DefaultAnswer, so the
// map is never missing a key.
func NewAnswerMap(bank *QuestionBank) AnswerMap {
	answers := make(AnswerMap, bank.Len())
	for _, q := range bank.Questions {
		answers[q.ID] = DefaultAnswer
	}
	return answers
}

// Clone returns an independent copy.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
