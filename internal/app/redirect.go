package app

import (
	"context"
	"strconv"
	"strings"

	"examprep-quiz-service/internal/domain"
)

// LegacyParams are the raw query parameters carried by the legacy quiz
// routes. Each may be absent or the sentinel "ALL".
type LegacyParams struct {
	Subject string
	Year    string
	Type    string
}

// RedirectAction names the screen the caller should render next.
type RedirectAction string

const (
	// RedirectToQuiz proceeds straight into the quiz with the resolved config.
	RedirectToQuiz RedirectAction = "quiz"
	// RedirectToSetup falls back to the manual configuration wizard.
	RedirectToSetup RedirectAction = "setup"
)

// RedirectDecision is the outcome of resolving a legacy URL. Config is only
// meaningful when Action is RedirectToQuiz.
type RedirectDecision struct {
	Action RedirectAction
	Config domain.QuizConfig
	Reason string
}

// Redirector reconstructs a QuizConfig from legacy query parameters. It never
// fails for malformed input; every bad shape resolves to the setup fallback.
type Redirector struct {
	subjects SubjectFinder
	priority []domain.ExamType
}

// NewRedirector builds a redirector. priority decides the exam type for
// subjects offered under more than one body; the shipped default prefers
// JAMB, but this is product policy and stays configurable.
func NewRedirector(subjects SubjectFinder, priority []domain.ExamType) *Redirector {
	if len(priority) == 0 {
		priority = []domain.ExamType{domain.ExamTypeJAMB, domain.ExamTypeWAEC}
	}
	return &Redirector{subjects: subjects, priority: priority}
}

// Resolve decides between the quiz screen and the setup fallback. The only
// side effect is the single subject lookup used to resolve an unspecified
// exam type.
func (r *Redirector) Resolve(ctx context.Context, mode domain.QuizMode, params LegacyParams) RedirectDecision {
	slug := normalizeParam(params.Subject)
	if slug == "" {
		return fallback("no subject parameter")
	}

	examType, reason := r.resolveExamType(ctx, slug, normalizeParam(params.Type))
	if examType == "" {
		return fallback(reason)
	}

	opts := domain.ConfigOptions{SubjectSlug: slug}
	if rawYear := normalizeParam(params.Year); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			return fallback("unparseable year parameter")
		}
		opts.Year = year
	}

	var cfg domain.QuizConfig
	if mode == domain.ModeExam {
		cfg = domain.NewExamConfig(examType, domain.SelectBySubject, opts)
	} else {
		cfg = domain.NewPracticeConfig(examType, domain.SelectBySubject, opts)
	}
	if err := cfg.Validate(); err != nil {
		return fallback(err.Error())
	}
	return RedirectDecision{Action: RedirectToQuiz, Config: cfg}
}

func (r *Redirector) resolveExamType(ctx context.Context, slug, rawType string) (domain.ExamType, string) {
	switch domain.ExamType(rawType) {
	case domain.ExamTypeJAMB, domain.ExamTypeWAEC:
		return domain.ExamType(rawType), ""
	}

	subject, err := r.subjects.FindSubjectBySlug(ctx, slug)
	if err != nil {
		return "", "subject lookup failed: " + err.Error()
	}
	for _, candidate := range r.priority {
		if subject.SupportsExamType(candidate) {
			return candidate, ""
		}
	}
	if len(subject.ExamTypes) > 0 {
		return subject.ExamTypes[0], ""
	}
	return "", "subject declares no exam type"
}

// normalizeParam treats "ALL" (any case) and whitespace as unset.
func normalizeParam(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, "ALL") {
		return ""
	}
	return trimmed
}

func fallback(reason string) RedirectDecision {
	return RedirectDecision{Action: RedirectToSetup, Reason: reason}
}
