package llm

// Message is one role-tagged message in a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat requests structured output from the provider.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest is the wire request for a chat completion.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatResponse is the wire response for a chat completion.
type ChatResponse struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice is one completion alternative.
type Choice struct {
	Message Message `json:"message"`
}

// APIError is the provider's structured error payload.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// QA pairs a follow-up question with the student's recorded answer.
type QA struct {
	Question string
	Answer   string
}
