package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		// SubjectCacheTTL bounds how long subject lookups are memoized.
		SubjectCacheTTL string `yaml:"subject_cache_ttl"`
		// QuestionLimit caps a single-subject quiz.
		QuestionLimit int `yaml:"question_limit"`
		// PerSubjectLimit caps each subject's share of an aggregated quiz.
		PerSubjectLimit int `yaml:"per_subject_limit"`
		// ExamDurations maps exam type to countdown seconds.
		ExamDurations          map[string]int `yaml:"exam_durations"`
		DefaultDurationSeconds int            `yaml:"default_duration_seconds"`
		// ExamTypePriority resolves subjects offered under several exam
		// types on the legacy routes. First match wins.
		ExamTypePriority []string `yaml:"exam_type_priority"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
