package models

import "strings"

// MaxEdgeCases caps the edge cases returned with a check result
const MaxEdgeCases = 3

// CheckResult is the model's verdict on submitted code
type CheckResult struct {
	Passed    bool     `json:"passed"`
	Score     float64  `json:"score"`
	Summary   string   `json:"summary"`
	Feedback  string   `json:"feedback"`
	Fixes     []string `json:"fixes"`
	EdgeCases []string `json:"edgeCases"`
}

// Validate checks the result and trims edge cases to MaxEdgeCases
func (c *CheckResult) Validate() error {
	if strings.TrimSpace(c.Summary) == "" {
		return missingField("summary")
	}
	if c.Score < 0 || c.Score > 10 {
		return invalidField("score", "must be within 0..10, got %v", c.Score)
	}

	if c.Fixes == nil {
		c.Fixes = []string{}
	}
	if c.EdgeCases == nil {
		c.EdgeCases = []string{}
	}
	if len(c.EdgeCases) > MaxEdgeCases {
		c.EdgeCases = c.EdgeCases[:MaxEdgeCases]
	}

	return nil
}

// SolutionResult is a reference solution for a task
type SolutionResult struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Validate checks that the solution carries code
func (s *SolutionResult) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return missingField("code")
	}
	return nil
}
