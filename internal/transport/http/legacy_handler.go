package http

import (
	"encoding/json"
	"log"
	"net/http"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/domain"
)

// LegacyHandler serves the legacy practice/exam entry routes. Both respond
// with a handoff: either straight into the quiz screen with a resolved
// config, or the manual setup wizard. Failures are silent fallbacks, never
// error responses.
type LegacyHandler struct {
	redirector *app.Redirector
}

func NewLegacyHandler(redirector *app.Redirector) *LegacyHandler {
	return &LegacyHandler{redirector: redirector}
}

type handoffResponse struct {
	Screen string             `json:"screen"`
	Config *domain.QuizConfig `json:"config,omitempty"`
}

func (h *LegacyHandler) Practice(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, domain.ModePractice)
}

func (h *LegacyHandler) Exam(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, domain.ModeExam)
}

func (h *LegacyHandler) redirect(w http.ResponseWriter, r *http.Request, mode domain.QuizMode) {
	query := r.URL.Query()
	decision := h.redirector.Resolve(r.Context(), mode, app.LegacyParams{
		Subject: query.Get("subject"),
		Year:    query.Get("year"),
		Type:    query.Get("type"),
	})

	response := handoffResponse{Screen: string(decision.Action)}
	if decision.Action == app.RedirectToQuiz {
		cfg := decision.Config
		response.Config = &cfg
	} else if decision.Reason != "" {
		log.Printf("legacy %s route falling back to setup: %s", mode, decision.Reason)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("legacy handoff encode failed: %v", err)
	}
}
