package app

import (
	"sync"
	"time"

	"examprep-quiz-service/internal/domain"
)

// Session owns the state of one active quiz. The question list is fixed at
// creation; all other state mutates under the session's lock. Once completed
// the session is frozen apart from snapshot reads.
type Session struct {
	id        string
	config    domain.QuizConfig
	questions []domain.QuizQuestion

	mu               sync.RWMutex
	currentIndex     int
	answers          map[string]string
	timeRemaining    int
	timed            bool
	showExplanations bool
	completed        bool
	autoSubmitted    bool
	submitted        bool
	result           Result
	startTime        time.Time
	now              func() time.Time
	timer            CountdownTimer
	handle           CountdownHandle
	subscribers      map[chan Snapshot]struct{}
}

// Snapshot is the point-in-time view handed to observers. Transports and UIs
// consume these; they never hold quiz logic themselves.
type Snapshot struct {
	SessionID        string            `json:"sessionId"`
	CurrentIndex     int               `json:"currentIndex"`
	TotalQuestions   int               `json:"totalQuestions"`
	Answers          map[string]string `json:"answers"`
	TimeRemaining    *int              `json:"timeRemaining"`
	ShowExplanations bool              `json:"showExplanations"`
	Completed        bool              `json:"completed"`
	AutoSubmitted    bool              `json:"autoSubmitted"`
}

// Result is derived once at completion.
type Result struct {
	TotalQuestions   int                      `json:"totalQuestions"`
	CorrectAnswers   int                      `json:"correctAnswers"`
	IncorrectAnswers int                      `json:"incorrectAnswers"`
	Unanswered       int                      `json:"unanswered"`
	ScorePercentage  float64                  `json:"scorePercentage"`
	TimeTakenSeconds int                      `json:"timeTakenSeconds"`
	AutoSubmitted    bool                     `json:"autoSubmitted"`
	Questions        []domain.AttemptQuestion `json:"questionsData"`
}

// NewSession builds a session in its initial state. Practice mode has no
// countdown (TimeRemaining is absent); exam mode starts at zero until the
// duration lookup assigns the real value via StartTimer.
func NewSession(id string, cfg domain.QuizConfig, questions []domain.QuizQuestion, timer CountdownTimer) *Session {
	return newSessionWithClock(id, cfg, questions, timer, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, cfg domain.QuizConfig, questions []domain.QuizQuestion, timer CountdownTimer, now func() time.Time) *Session {
	return newSessionWithClock(id, cfg, questions, timer, now)
}

func newSessionWithClock(id string, cfg domain.QuizConfig, questions []domain.QuizQuestion, timer CountdownTimer, now func() time.Time) *Session {
	return &Session{
		id:               id,
		config:           cfg,
		questions:        questions,
		answers:          make(map[string]string),
		timed:            cfg.IsExamMode(),
		showExplanations: cfg.IsPracticeMode(),
		startTime:        now(),
		now:              now,
		timer:            timer,
		subscribers:      make(map[chan Snapshot]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Config() domain.QuizConfig { return s.config }

func (s *Session) Questions() []domain.QuizQuestion { return s.questions }

// StartTimer arms the exam countdown. Calling it again replaces the previous
// countdown so a session never has two tickers running against it.
func (s *Session) StartTimer(durationSeconds int) {
	if !s.timed || s.timer == nil {
		return
	}
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	if s.handle != nil {
		s.handle.Cancel()
	}
	s.timeRemaining = durationSeconds
	s.handle = s.timer.Start(durationSeconds, s.Tick, s.expire)
	s.broadcastLocked()
	s.mu.Unlock()
}

// ReleaseTimer cancels the countdown without completing the session. Used
// when a session is discarded (user navigated away or started a new quiz).
func (s *Session) ReleaseTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
}

// RecordAnswer stores the selected option for a question. Re-answering
// overwrites; the current index never moves as a side effect. Rejected once
// the session is completed.
func (s *Session) RecordAnswer(questionID, optionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return domain.ErrSessionCompleted
	}
	if !s.hasQuestion(questionID) {
		return domain.ErrQuestionNotFound
	}
	s.answers[questionID] = optionKey
	s.broadcastLocked()
	return nil
}

// Advance moves to the next question, clamped to the last index. Moving past
// the end never completes the session; completion is always explicit or
// timer-driven.
func (s *Session) Advance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return s.currentIndex
	}
	if s.currentIndex < len(s.questions)-1 {
		s.currentIndex++
		s.broadcastLocked()
	}
	return s.currentIndex
}

// Tick consumes one second of exam time. At zero the session auto-completes
// with the auto-submitted flag set.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timed || s.completed {
		return
	}
	s.timeRemaining--
	if s.timeRemaining <= 0 {
		s.timeRemaining = 0
		s.completeLocked(true)
		return
	}
	s.broadcastLocked()
}

func (s *Session) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return
	}
	s.timeRemaining = 0
	s.completeLocked(true)
}

// Complete finishes the session manually. A second completion attempt
// returns the already-derived result alongside ErrSessionCompleted so
// callers can treat the race with timer expiry as a no-op.
func (s *Session) Complete() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return s.result, domain.ErrSessionCompleted
	}
	s.completeLocked(false)
	return s.result, nil
}

func (s *Session) completeLocked(auto bool) {
	s.completed = true
	s.autoSubmitted = auto
	s.showExplanations = true
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.result = s.deriveResultLocked(auto)
	s.broadcastLocked()
}

// deriveResultLocked scores the session. Unanswered questions count against
// the score: the denominator is always the full question count.
func (s *Session) deriveResultLocked(auto bool) Result {
	total := len(s.questions)
	res := Result{
		TotalQuestions:   total,
		AutoSubmitted:    auto,
		TimeTakenSeconds: int(s.now().Sub(s.startTime) / time.Second),
		Questions:        make([]domain.AttemptQuestion, 0, total),
	}
	for _, q := range s.questions {
		selected := s.answers[q.ID]
		correct := selected != "" && selected == q.Correct
		if correct {
			res.CorrectAnswers++
		} else if selected != "" {
			res.IncorrectAnswers++
		} else {
			res.Unanswered++
		}
		res.Questions = append(res.Questions, domain.AttemptQuestion{
			QuestionID: q.ID,
			Selected:   selected,
			Correct:    q.Correct,
			IsCorrect:  correct,
		})
	}
	if total > 0 {
		res.ScorePercentage = float64(100*res.CorrectAnswers) / float64(total)
	}
	return res
}

// Completed reports whether the session reached its terminal state.
func (s *Session) Completed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed
}

// Result returns the derived outcome. Only meaningful once Completed.
func (s *Session) Result() Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// beginSubmit flips the one-shot submission guard. Returns false if an
// attempt was already handed to persistence.
func (s *Session) beginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.completed || s.submitted {
		return false
	}
	s.submitted = true
	return true
}

// Subscribe registers an observer. The channel receives an immediate
// snapshot, then one per state change. The cancel function must be called to
// avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Snapshot returns the current observer view.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow consumer never
			// blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	answers := make(map[string]string, len(s.answers))
	for id, key := range s.answers {
		answers[id] = key
	}
	snap := Snapshot{
		SessionID:        s.id,
		CurrentIndex:     s.currentIndex,
		TotalQuestions:   len(s.questions),
		Answers:          answers,
		ShowExplanations: s.showExplanations,
		Completed:        s.completed,
		AutoSubmitted:    s.autoSubmitted,
	}
	if s.timed {
		remaining := s.timeRemaining
		snap.TimeRemaining = &remaining
	}
	return snap
}

func (s *Session) hasQuestion(questionID string) bool {
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			return true
		}
	}
	return false
}
