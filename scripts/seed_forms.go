// Seeds a sample quiz covering every question type.
//
// Usage: go run scripts/seed_forms.go [-config configs] [-slug sample-quiz]

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/config"
	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/repository"
	"github.com/Saravana-31/Form-Builder/internal/service"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/Saravana-31/Form-Builder/pkg/database"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
	"go.uber.org/zap"
)

func sampleQuestions() model.Questions {
	return model.Questions{
		{
			ID:            "q-capital",
			Type:          model.QuestionCloze,
			Question:      "The capital of France is _____ and of Italy is _____.",
			CorrectAnswer: model.BlankAnswers("Paris", "Rome"),
			Points:        2,
		},
		{
			ID:         "q-sort",
			Type:       model.QuestionCategorize,
			Question:   "Sort the food.",
			Categories: []string{"Fruit", "Vegetable"},
			Items:      []string{"Apple", "Carrot", "Banana"},
			Points:     1,
		},
		{
			ID:            "q-passage",
			Type:          model.QuestionComprehension,
			Question:      "Go was announced in 2009. When was Go announced?",
			Options:       []string{"2007", "2009", "2012"},
			CorrectAnswer: model.SingleAnswer("2009"),
			Points:        1,
		},
	}
}

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	slug := flag.String("slug", "sample-quiz", "slug for the seeded form")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close(ctx)

	if err := store.Migrate(ctx); err != nil {
		logger.Log.Fatal("Failed to migrate", zap.Error(err))
	}

	var repo repository.FormRepository
	switch {
	case store.SQL != nil:
		repo = repository.NewGormFormRepository(store.SQL)
	case store.Mongo != nil:
		repo = repository.NewMongoFormRepository(store.Mongo)
	default:
		logger.Log.Fatal("Seeding needs a persistent driver", zap.String("driver", store.Driver))
	}

	forms := service.NewFormService(repo)
	if existing, err := forms.Get(ctx, *slug); err == nil {
		logger.Log.Info("Form already seeded", zap.String("id", existing.ID), zap.String("slug", *slug))
		return
	} else if !errors.Is(err, util.ErrFormNotFound) {
		logger.Log.Fatal("Failed to look up form", zap.Error(err))
	}

	questions, _ := json.Marshal(sampleQuestions())
	form, err := forms.Create(ctx, service.FormRequest{
		Title:       json.RawMessage(`"Sample Quiz"`),
		Description: "One question of each type.",
		Questions:   questions,
		Slug:        *slug,
	})
	if err != nil {
		logger.Log.Fatal("Failed to seed form", zap.Error(err))
	}
	logger.Log.Info("Seeded form", zap.String("id", form.ID), zap.String("slug", *slug))
}
