package domain

import (
	"errors"
	"fmt"
	"time"
)

// MinExamYear is the earliest year past questions are available for.
const MinExamYear = 2000

// QuizConfig describes one requested quiz. It is built once per launch and
// never mutated; a new quiz gets a new config.
type QuizConfig struct {
	ExamType     ExamType        `json:"examType"`
	Mode         QuizMode        `json:"mode"`
	Selection    SelectionMethod `json:"selectionMethod"`
	SubjectSlug  string          `json:"subjectSlug,omitempty"`
	Year         int             `json:"year,omitempty"`
	Category     ClassCategory   `json:"classCategory,omitempty"`
	SubjectSlugs []string        `json:"subjectSlugs,omitempty"`
}

// ConfigOptions carries the selection-specific fields for the factories.
type ConfigOptions struct {
	SubjectSlug  string
	Year         int
	Category     ClassCategory
	SubjectSlugs []string
}

// NewPracticeConfig builds an untimed practice configuration.
func NewPracticeConfig(examType ExamType, method SelectionMethod, opts ConfigOptions) QuizConfig {
	return newConfig(ModePractice, examType, method, opts)
}

// NewExamConfig builds a timed exam-simulation configuration.
func NewExamConfig(examType ExamType, method SelectionMethod, opts ConfigOptions) QuizConfig {
	return newConfig(ModeExam, examType, method, opts)
}

func newConfig(mode QuizMode, examType ExamType, method SelectionMethod, opts ConfigOptions) QuizConfig {
	return QuizConfig{
		ExamType:     examType,
		Mode:         mode,
		Selection:    method,
		SubjectSlug:  opts.SubjectSlug,
		Year:         opts.Year,
		Category:     opts.Category,
		SubjectSlugs: opts.SubjectSlugs,
	}
}

// Validate checks the configuration and returns a human-readable error for
// the first violated rule, or nil. Every consumer must call this before
// starting a session; a non-nil result is a hard stop.
func (c QuizConfig) Validate() error {
	return c.validate(time.Now().Year())
}

func (c QuizConfig) validate(currentYear int) error {
	switch c.ExamType {
	case ExamTypeJAMB, ExamTypeWAEC:
	default:
		return fmt.Errorf("exam type must be JAMB or WAEC, got %q", string(c.ExamType))
	}

	switch c.Mode {
	case ModePractice, ModeExam:
	default:
		return fmt.Errorf("quiz mode must be practice or exam, got %q", string(c.Mode))
	}

	switch c.Selection {
	case SelectBySubject:
		if c.SubjectSlug == "" {
			return errors.New("subject slug is required for subject-based selection")
		}
	case SelectByYear:
		if c.Year == 0 {
			return errors.New("exam year is required for year-based selection")
		}
	case SelectByCategory:
		switch c.Category {
		case CategoryScience, CategoryArts, CategoryCommercial:
		default:
			return fmt.Errorf("class category must be SCIENCE, ARTS or COMMERCIAL, got %q", string(c.Category))
		}
		if len(c.SubjectSlugs) == 0 {
			return errors.New("at least one subject is required for category-based selection")
		}
	default:
		return fmt.Errorf("selection method must be subject, year or category, got %q", string(c.Selection))
	}

	// The year bound applies whenever a year is present, not only for
	// year-based selection.
	if c.Year != 0 && (c.Year < MinExamYear || c.Year > currentYear) {
		return fmt.Errorf("exam year must be between %d and %d, got %d", MinExamYear, currentYear, c.Year)
	}
	return nil
}

func (c QuizConfig) IsPracticeMode() bool { return c.Mode == ModePractice }
func (c QuizConfig) IsExamMode() bool     { return c.Mode == ModeExam }
func (c QuizConfig) IsSubjectBased() bool { return c.Selection == SelectBySubject }
func (c QuizConfig) IsYearBased() bool    { return c.Selection == SelectByYear }

// ModeLabel is the presentation string for the mode. Decision logic must use
// the enum values, never these labels.
func (c QuizConfig) ModeLabel() string {
	if c.Mode == ModeExam {
		return "Exam Mode"
	}
	return "Practice Mode"
}

// ExamTypeLabel is the presentation string for the examination body.
func (c QuizConfig) ExamTypeLabel() string {
	switch c.ExamType {
	case ExamTypeJAMB:
		return "JAMB UTME"
	case ExamTypeWAEC:
		return "WAEC SSCE"
	}
	return string(c.ExamType)
}

// ModeIdentifier is the stable analytics/logging key for a config. It depends
// on mode and selection method only.
func (c QuizConfig) ModeIdentifier() string {
	return fmt.Sprintf("%s-%s", c.Mode, c.Selection)
}
