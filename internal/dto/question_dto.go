package dto

// QuestionInputDTO is one question in a replace or append request. Order is
// taken from the array position, continuing the existing sequence on append.
type QuestionInputDTO struct {
	Prompt       string   `json:"prompt" binding:"required"`
	Options      []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectIndex int      `json:"correct_index" binding:"min=0"`
	Points       int      `json:"points" binding:"required,min=1"`
}

type QuestionBatchDTO struct {
	Questions []QuestionInputDTO `json:"questions" binding:"required,min=1,dive"`
}

// QuestionResponseDTO is the instructor view; it includes the answer key.
type QuestionResponseDTO struct {
	ID           uint     `json:"id"`
	QuizID       uint     `json:"quiz_id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Points       int      `json:"points"`
	OrderInQuiz  int      `json:"order_in_quiz"`
}

// StudentQuestionDTO is the redacted view issued with startAttempt. It has no
// correct-index field at all: the answer key must never reach a client before
// submission.
type StudentQuestionDTO struct {
	ID          uint     `json:"id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Points      int      `json:"points"`
	OrderInQuiz int      `json:"order_in_quiz"`
}
