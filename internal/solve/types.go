// Package solve turns raw model output into a validated solution record.
package solve

// Difficulty levels allowed in a solution record.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Solution is the validated structured output derived from the model's
// response. All fields are required; a record missing any of them never
// leaves this package.
type Solution struct {
	Question        string   `json:"question"`
	SolutionSteps   []string `json:"solution_steps"`
	FinalAnswer     string   `json:"final_answer"`
	DifficultyLevel string   `json:"difficulty_level"`
	Topic           string   `json:"topic"`
}
