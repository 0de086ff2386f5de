package quiz

// Question is one generated multiple-choice question.
type Question struct {
	// Prompt is the question text, without the leading "Q:" marker.
	Prompt string

	// Options are the four choices in presentation order, kept in the
	// form the model emitted them, including the "A) ".."D) " prefixes.
	Options []string

	// CorrectLabel is the letter of the correct option (A-D). When the
	// model omits an "Answer:" line the parser defaults to "A".
	CorrectLabel string
}

// QuizSet is the immutable ordered collection of questions for one
// quiz attempt. It is created once per generation request and discarded
// when the user starts a new quiz.
type QuizSet []Question

// Labels for the four options, in order.
var optionLabels = []string{"A", "B", "C", "D"}

// optionsPerQuestion is fixed by the generation prompt template.
const optionsPerQuestion = 4
