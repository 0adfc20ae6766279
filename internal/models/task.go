package models

import (
	"strings"

	"github.com/google/uuid"
)

// Language is the programming language a task targets
type Language string

const (
	LanguageJavaScript Language = "JavaScript"
	LanguageTypeScript Language = "TypeScript"
	LanguagePython     Language = "Python"
)

// Languages lists every supported language in prompt order
var Languages = []Language{LanguageJavaScript, LanguageTypeScript, LanguagePython}

// ParseLanguage matches s case-insensitively against the supported languages
func ParseLanguage(s string) (Language, bool) {
	for _, l := range Languages {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, true
		}
	}
	return "", false
}

// Difficulty is the task difficulty level
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
)

// ParseDifficulty matches s case-insensitively against the known levels
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}

// TaskExample is a worked input/output pair shown with the statement
type TaskExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation"`
}

// TaskTestCase is an input with its expected output
type TaskTestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// Task represents a generated practice task
type Task struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Language        Language       `json:"language"`
	Difficulty      Difficulty     `json:"difficulty"`
	Statement       string         `json:"statement"`
	Constraints     []string       `json:"constraints"`
	Examples        []TaskExample  `json:"examples"`
	StarterCode     string         `json:"starterCode"`
	SolutionOutline []string       `json:"solutionOutline"`
	TestCases       []TaskTestCase `json:"testCases"`
}

// Validate checks a task produced by the model and normalizes its enums.
// An empty id is replaced with a random UUID.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return missingField("title")
	}
	if strings.TrimSpace(t.Statement) == "" {
		return missingField("statement")
	}
	if strings.TrimSpace(t.StarterCode) == "" {
		return missingField("starterCode")
	}

	lang, ok := ParseLanguage(string(t.Language))
	if !ok {
		return invalidField("language", "unsupported language %q", t.Language)
	}
	t.Language = lang

	diff, ok := ParseDifficulty(string(t.Difficulty))
	if !ok {
		return invalidField("difficulty", "unsupported difficulty %q", t.Difficulty)
	}
	t.Difficulty = diff

	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.NewString()
	}

	if t.Constraints == nil {
		t.Constraints = []string{}
	}
	if t.Examples == nil {
		t.Examples = []TaskExample{}
	}
	if t.SolutionOutline == nil {
		t.SolutionOutline = []string{}
	}
	if t.TestCases == nil {
		t.TestCases = []TaskTestCase{}
	}

	return nil
}

// ValidateInput checks a task supplied by a caller for checking or solving
// and normalizes its language. Only the fields the prompts depend on are
// required.
func (t *Task) ValidateInput() error {
	if strings.TrimSpace(t.Statement) == "" {
		return missingField("task.statement")
	}
	if strings.TrimSpace(string(t.Language)) == "" {
		return missingField("task.language")
	}
	lang, ok := ParseLanguage(string(t.Language))
	if !ok {
		return invalidField("task.language", "unsupported language %q", t.Language)
	}
	t.Language = lang
	return nil
}
