package models

// Role is the author of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single message sent to the completion endpoint
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role message
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// GenerateTaskRequest is the body of POST /api/task/generate
type GenerateTaskRequest struct {
	Topic    *string `json:"topic,omitempty"`
	Language *string `json:"language,omitempty"`
}

// Validate normalizes a requested language to its canonical spelling.
// An absent language is left for the server default.
func (r *GenerateTaskRequest) Validate() error {
	if r.Language == nil {
		return nil
	}
	lang, ok := ParseLanguage(*r.Language)
	if !ok {
		return invalidField("language", "unsupported language %q", *r.Language)
	}
	canonical := string(lang)
	r.Language = &canonical
	return nil
}

// CheckAnswerRequest is the body of POST /api/answer/check
type CheckAnswerRequest struct {
	Task     *Task  `json:"task"`
	UserCode string `json:"userCode"`
}

// GetSolutionRequest is the body of POST /api/solution/get
type GetSolutionRequest struct {
	Task *Task `json:"task"`
}

// ErrorResponse is returned by the API on failure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
