package dto

// ErrorResponse is the structured refusal returned for every failed request.
// Code carries the error-taxonomy kind so clients can branch without parsing
// the message; the optional fields give recoverable failures enough context
// to correct course (attempts used vs. max, would-be point total).
type ErrorResponse struct {
	Error        string   `json:"error"`
	Code         string   `json:"code,omitempty"`
	Details      []string `json:"details,omitempty"`
	AttemptsUsed *int     `json:"attempts_used,omitempty"`
	MaxAttempts  *int     `json:"max_attempts,omitempty"`
	WouldBeTotal *int     `json:"would_be_total,omitempty"`
}
