package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

// WSHandler drives an interactive quiz session over a websocket. All quiz
// logic lives in the app layer; this handler only translates messages and
// forwards state snapshots.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Option     string `json:"option"`
}

type startedPayload struct {
	SessionID string                `json:"sessionId"`
	Config    domain.QuizConfig     `json:"config"`
	Questions []domain.QuizQuestion `json:"questions"`
	State     app.Snapshot          `json:"state"`
}

type completedPayload struct {
	Result    app.Result            `json:"result"`
	Questions []domain.QuizQuestion `json:"questions"`
	AttemptID string                `json:"attemptId,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the session protocol: inbound start,
// answer, next, finish; outbound started, state, completed, noQuestions,
// warning, error.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("userId")
	if ownerID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var updatesDone chan struct{}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	started := false
	var completeOnce sync.Once

	// finishAndReport persists the attempt (once) and emits the review
	// payload. A persistence failure is a warning, never a dropped summary.
	finishAndReport := func(result app.Result) {
		completeOnce.Do(func() {
			attempt, err := h.service.SubmitAttempt(r.Context(), ownerID)
			if err != nil && !errors.Is(err, domain.ErrAttemptSubmitted) {
				send <- outboundMessage[any]{Type: "warning", Payload: messagePayload{Message: "attempt could not be saved: " + err.Error()}}
			}
			session, sessErr := h.service.Session(ownerID)
			payload := completedPayload{Result: result, AttemptID: attempt.ID}
			if sessErr == nil {
				payload.Questions = session.Questions()
			}
			send <- outboundMessage[any]{Type: "completed", Payload: payload}
		})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			if started {
				send <- outboundMessage[any]{Type: "error", Payload: messagePayload{Message: "quiz already started"}}
				continue
			}
			var cfg domain.QuizConfig
			if err := json.Unmarshal(inbound.Payload, &cfg); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: messagePayload{Message: "invalid quiz config payload"}}
				continue
			}
			session, err := h.service.StartQuiz(r.Context(), ownerID, cfg)
			if errors.Is(err, domain.ErrNoQuestions) {
				send <- outboundMessage[any]{Type: "noQuestions", Payload: messagePayload{Message: "no questions available for this selection"}}
				continue
			}
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: messagePayload{Message: err.Error()}}
				continue
			}
			started = true
			defer h.service.EndSession(ownerID)

			snap := session.Snapshot()
			send <- outboundMessage[any]{Type: "started", Payload: startedPayload{
				SessionID: session.ID(),
				Config:    session.Config(),
				Questions: presentQuestions(session.Questions(), snap.ShowExplanations),
				State:     snap,
			}}

			updates, cancel := session.Subscribe()
			defer cancel()
			updatesDone = make(chan struct{})
			go func() {
				defer close(updatesDone)
				for {
					select {
					case update, ok := <-updates:
						if !ok {
							return
						}
						select {
						case send <- outboundMessage[any]{Type: "state", Payload: update}:
						case <-closeSignals:
							return
						}
						if update.Completed && update.AutoSubmitted {
							finishAndReport(session.Result())
						}
					case <-closeSignals:
						return
					}
				}
			}()

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: messagePayload{Message: "invalid answer payload"}}
				continue
			}
			if err := h.service.RecordAnswer(ownerID, payload.QuestionID, payload.Option); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: messagePayload{Message: err.Error()}}
			}

		case "next":
			if _, err := h.service.Advance(ownerID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: messagePayload{Message: err.Error()}}
			}

		case "finish":
			result, err := h.service.Finish(ownerID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: messagePayload{Message: err.Error()}}
				continue
			}
			finishAndReport(result)

		default:
			send <- outboundMessage[any]{Type: "error", Payload: messagePayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	if updatesDone != nil {
		<-updatesDone
	}
	close(send)
	<-writerDone
}

// presentQuestions redacts answer keys and explanations while a timed
// attempt is still running; review after completion always gets the full
// questions.
func presentQuestions(questions []domain.QuizQuestion, showExplanations bool) []domain.QuizQuestion {
	if showExplanations {
		return questions
	}
	redacted := make([]domain.QuizQuestion, len(questions))
	for i, q := range questions {
		q.Correct = ""
		q.Explanation = ""
		redacted[i] = q
	}
	return redacted
}
