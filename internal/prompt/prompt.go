// Package prompt holds the fixed prompt templates and the JSON schema the
// external model is instructed to follow.
package prompt

import "fmt"

// SolveSystem sets the model's role for the solve operation. The solution
// schema is appended separately so engines can place it where their API
// expects it.
const SolveSystem = `Behave like you are a top level JEE Mains mathematics tutor. Solve the given math problem step by step.

### Understanding and explaining the answer:
- Show all mathematical working clearly
- Use proper mathematical notation
- Explain the reasoning behind each step
- Highlight any important formulas or theorems used

### Output rules:
1. Return ONLY valid JSON - no trailing commas, code fences or text around the output
2. The JSON object must be a single, valid block
3. All strings must be properly escaped

### Fields:
- "question": restate the question clearly
- "solution_steps": array of steps, each with a clear explanation
- "final_answer": the final numerical answer or expression
- "difficulty_level": Easy, Medium or Hard by JEE Mains standards
- "topic": one of Algebra, Calculus, Coordinate Geometry, Statistics, Trigonometry`

// SolveUser renders the per-request user prompt.
func SolveUser(question string) string {
	return fmt.Sprintf("Solve the following JEE Mains math problem and answer strictly with JSON matching solution.schema.json: %s", question)
}

// ExtractQuestion asks the model to read a question off a photo. Extraction
// only; solving happens in a second call on the extracted text.
const ExtractQuestion = `What is the math question in this image? Provide only the extracted text of the question, without any additional explanations or formatting.`

// SolutionSchema is the draft-07 schema every model response must satisfy.
// It is both sent to the model (as part of the system instruction) and
// enforced locally after the call.
const SolutionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "solution",
  "type": "object",
  "properties": {
    "question": {
      "type": "string",
      "minLength": 1,
      "description": "The original math question"
    },
    "solution_steps": {
      "type": "array",
      "items": { "type": "string" },
      "minItems": 1,
      "description": "Step-by-step solution"
    },
    "final_answer": {
      "type": "string",
      "minLength": 1,
      "description": "The final answer"
    },
    "difficulty_level": {
      "type": "string",
      "enum": ["Easy", "Medium", "Hard"]
    },
    "topic": {
      "type": "string",
      "minLength": 1,
      "description": "Math topic, e.g. Calculus, Algebra"
    }
  },
  "required": ["question", "solution_steps", "final_answer", "difficulty_level", "topic"],
  "additionalProperties": true
}`
