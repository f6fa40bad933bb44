package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"examprep-quiz-service/internal/app"
	"examprep-quiz-service/internal/config"
	"examprep-quiz-service/internal/domain"
	"examprep-quiz-service/internal/infra/memory"
	pgstore "examprep-quiz-service/internal/infra/postgres"
	redisinfra "examprep-quiz-service/internal/infra/redis"
	transport "examprep-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var store app.QuestionStore = sampleQuestionStore()
	var attempts app.AttemptStore = memory.NewAttemptStore()
	if pool != nil {
		store = pgstore.NewQuestionStore(pool)
		attempts = pgstore.NewAttemptStore(pool)
	}

	cacheTTL := config.TTLDuration(cfg.Quiz.SubjectCacheTTL, 10*time.Minute)
	var subjects app.SubjectFinder
	if redisClient != nil {
		subjects = redisinfra.NewSubjectCache(redisClient, store, cacheTTL)
	} else {
		subjects = memory.NewSubjectCache(store, cacheTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	questions := app.NewQuestionService(store, subjects, cfg.Quiz.QuestionLimit, cfg.Quiz.PerSubjectLimit, nil)

	durations := make(map[domain.ExamType]int, len(cfg.Quiz.ExamDurations))
	for name, seconds := range cfg.Quiz.ExamDurations {
		durations[domain.ExamType(name)] = seconds
	}
	service := app.NewQuizService(questions, sessions, attempts, app.TickerTimer{}, durations, cfg.Quiz.DefaultDurationSeconds, nil)

	priority := make([]domain.ExamType, 0, len(cfg.Quiz.ExamTypePriority))
	for _, name := range cfg.Quiz.ExamTypePriority {
		priority = append(priority, domain.ExamType(name))
	}
	redirector := app.NewRedirector(subjects, priority)

	wsHandler := transport.NewWSHandler(service)
	legacyHandler := transport.NewLegacyHandler(redirector)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/practice", legacyHandler.Practice)
	mux.HandleFunc("/exam", legacyHandler.Exam)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting exam-prep quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestionStore provides a minimal data set so the service runs
// without Postgres; production deployments configure a database.
func sampleQuestionStore() *memory.QuestionStore {
	subjects := []domain.Subject{
		{ID: "sub-math", Slug: "mathematics", Name: "Mathematics", ExamTypes: []domain.ExamType{domain.ExamTypeJAMB, domain.ExamTypeWAEC}},
		{ID: "sub-eng", Slug: "english", Name: "English Language", ExamTypes: []domain.ExamType{domain.ExamTypeJAMB}},
	}
	topics := []domain.Topic{
		{ID: "top-algebra", SubjectID: "sub-math", Name: "Algebra"},
	}
	questions := []domain.QuestionRecord{
		{
			ID: "q-1", SubjectID: "sub-math",
			Text:    "What is 2 + 2?",
			OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "22",
			CorrectAnswer: "B", Explanation: "Basic addition.",
			ExamType: domain.ExamTypeJAMB, ExamYear: 2023,
		},
		{
			ID: "q-2", TopicID: "top-algebra",
			Text:    "Solve for x: x + 3 = 7",
			OptionA: "2", OptionB: "3", OptionC: "4", OptionD: "10",
			CorrectAnswer: "C",
			ExamType:      domain.ExamTypeJAMB, ExamYear: 2023,
		},
		{
			ID: "q-3", SubjectID: "sub-eng",
			Text:    "Choose the correct plural of 'child'.",
			OptionA: "childs", OptionB: "children", OptionC: "childes", OptionD: "childrens",
			CorrectAnswer: "B",
			ExamType:      domain.ExamTypeJAMB, ExamYear: 2022,
		},
	}
	return memory.NewQuestionStore(subjects, topics, questions)
}
