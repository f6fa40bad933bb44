package domain

import "errors"

var (
	// ErrSubjectNotFound is returned when a subject slug resolves to nothing.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrSessionNotFound is returned when a quiz session ID is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionCompleted rejects mutations against a finished session.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrNoQuestions indicates retrieval produced zero questions for the
	// requested configuration; callers render this, they never crash on it.
	ErrNoQuestions = errors.New("no questions available")
	// ErrQuestionNotFound indicates an answer referenced a question outside
	// the session.
	ErrQuestionNotFound = errors.New("question not in session")
	// ErrAttemptSubmitted guards against persisting the same attempt twice.
	ErrAttemptSubmitted = errors.New("attempt already submitted")
)
