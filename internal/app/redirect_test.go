package app_test

import (
	"context"
	"errors"
	"testing"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

type stubFinder struct {
	subject domain.Subject
	err     error
	calls   int
}

func (f *stubFinder) FindSubjectBySlug(_ context.Context, slug string) (domain.Subject, error) {
	f.calls++
	if f.err != nil {
		return domain.Subject{}, f.err
	}
	if f.subject.Slug != slug {
		return domain.Subject{}, domain.ErrSubjectNotFound
	}
	return f.subject, nil
}

func mathSubject() domain.Subject {
	return domain.Subject{
		ID: "sub-math", Slug: "mathematics", Name: "Mathematics",
		ExamTypes: []domain.ExamType{domain.ExamTypeJAMB, domain.ExamTypeWAEC},
	}
}

func TestRedirectResolvesExamTypeFromSubject(t *testing.T) {
	finder := &stubFinder{subject: mathSubject()}
	redirector := app.NewRedirector(finder, nil)

	decision := redirector.Resolve(context.Background(), domain.ModePractice, app.LegacyParams{
		Subject: "mathematics", Year: "ALL", Type: "ALL",
	})
	if decision.Action != app.RedirectToQuiz {
		t.Fatalf("expected direct quiz handoff, got %+v", decision)
	}
	if decision.Config.ExamType != domain.ExamTypeJAMB {
		t.Fatalf("default priority prefers JAMB, got %s", decision.Config.ExamType)
	}
	if decision.Config.Mode != domain.ModePractice || decision.Config.SubjectSlug != "mathematics" {
		t.Fatalf("unexpected config %+v", decision.Config)
	}
	if decision.Config.Year != 0 {
		t.Fatalf("ALL year must stay unset, got %d", decision.Config.Year)
	}
}

func TestRedirectFallsBackWithoutSubject(t *testing.T) {
	redirector := app.NewRedirector(&stubFinder{}, nil)

	for _, params := range []app.LegacyParams{
		{},
		{Subject: "  "},
		{Subject: "ALL", Year: "2023", Type: "JAMB"},
	} {
		decision := redirector.Resolve(context.Background(), domain.ModePractice, params)
		if decision.Action != app.RedirectToSetup {
			t.Fatalf("expected setup fallback for %+v, got %+v", params, decision)
		}
	}
}

func TestRedirectHonorsExplicitType(t *testing.T) {
	finder := &stubFinder{subject: mathSubject()}
	redirector := app.NewRedirector(finder, nil)

	decision := redirector.Resolve(context.Background(), domain.ModeExam, app.LegacyParams{
		Subject: "mathematics", Year: "2023", Type: "WAEC",
	})
	if decision.Action != app.RedirectToQuiz {
		t.Fatalf("expected quiz handoff, got %+v", decision)
	}
	if decision.Config.ExamType != domain.ExamTypeWAEC || decision.Config.Year != 2023 {
		t.Fatalf("unexpected config %+v", decision.Config)
	}
	if decision.Config.Mode != domain.ModeExam {
		t.Fatalf("mode must come from the route, got %s", decision.Config.Mode)
	}
	if finder.calls != 0 {
		t.Fatalf("explicit type must not trigger a lookup, got %d calls", finder.calls)
	}
}

func TestRedirectPriorityIsConfigurable(t *testing.T) {
	finder := &stubFinder{subject: mathSubject()}
	redirector := app.NewRedirector(finder, []domain.ExamType{domain.ExamTypeWAEC, domain.ExamTypeJAMB})

	decision := redirector.Resolve(context.Background(), domain.ModePractice, app.LegacyParams{Subject: "mathematics"})
	if decision.Config.ExamType != domain.ExamTypeWAEC {
		t.Fatalf("expected configured priority to pick WAEC, got %s", decision.Config.ExamType)
	}
}

func TestRedirectFallsBackOnLookupFailure(t *testing.T) {
	redirector := app.NewRedirector(&stubFinder{err: errors.New("store down")}, nil)

	decision := redirector.Resolve(context.Background(), domain.ModePractice, app.LegacyParams{Subject: "mathematics"})
	if decision.Action != app.RedirectToSetup {
		t.Fatalf("expected silent fallback on store error, got %+v", decision)
	}
}

func TestRedirectFallsBackOnBadYear(t *testing.T) {
	finder := &stubFinder{subject: mathSubject()}
	redirector := app.NewRedirector(finder, nil)

	for _, year := range []string{"abc", "1850"} {
		decision := redirector.Resolve(context.Background(), domain.ModePractice, app.LegacyParams{
			Subject: "mathematics", Year: year, Type: "JAMB",
		})
		if decision.Action != app.RedirectToSetup {
			t.Fatalf("expected fallback for year %q, got %+v", year, decision)
		}
	}
}
