// Bulk question import.
//
// Reads a YAML question bank and inserts it through the regular question
// validation, resolving subjects by JAMB code and creating topics on demand.
//
// Usage: go run scripts/seed_questions.go <questions.yaml>

package main

import (
	"log"
	"os"

	"jamb_cbt_backend/internal/config"
	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/pkg/database"
	"jamb_cbt_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

type seedQuestion struct {
	SubjectCode    string   `yaml:"subjectCode"`
	Topic          string   `yaml:"topic"`
	Type           string   `yaml:"type"`
	Stem           string   `yaml:"stem"`
	Options        []option `yaml:"options"`
	CorrectAnswers []string `yaml:"correctAnswers"`
	Explanation    string   `yaml:"explanation"`
	Difficulty     int      `yaml:"difficulty"`
	Tags           []string `yaml:"tags"`
}

type option struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Text  string `yaml:"text"`
}

type seedFile struct {
	Questions []seedQuestion `yaml:"questions"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/seed_questions.go <questions.yaml>")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to read seed file: %v", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("failed to parse seed file: %v", err)
	}

	subjectRepo := repository.NewSubjectRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	passageRepo := repository.NewPassageRepository(db)
	audit := service.NewAuditService(repository.NewAuditRepository(db))
	questions := service.NewQuestionService(questionRepo, subjectRepo, passageRepo, audit)

	subjects := make(map[string]string) // code -> id
	all, err := subjectRepo.ListAll()
	if err != nil {
		log.Fatalf("failed to list subjects: %v", err)
	}
	for _, s := range all {
		subjects[s.Code] = s.ID
	}

	topics := make(map[string]string) // subjectID/name -> id

	imported, skipped := 0, 0
	for i, q := range seed.Questions {
		subjectID, ok := subjects[q.SubjectCode]
		if !ok {
			log.Printf("question %d: unknown subject code %q, skipping", i+1, q.SubjectCode)
			skipped++
			continue
		}

		topicID, err := resolveTopic(subjectRepo, topics, subjectID, q.Topic)
		if err != nil {
			log.Printf("question %d: topic %q: %v, skipping", i+1, q.Topic, err)
			skipped++
			continue
		}

		opts := make([]model.QuestionOption, len(q.Options))
		for j, o := range q.Options {
			opts[j] = model.QuestionOption{ID: o.ID, Label: o.Label, Text: o.Text}
		}

		req := service.QuestionRequest{
			SubjectID:      subjectID,
			TopicID:        topicID,
			Type:           model.QuestionType(q.Type),
			Stem:           q.Stem,
			Options:        opts,
			CorrectAnswers: q.CorrectAnswers,
			Explanation:    q.Explanation,
			Difficulty:     q.Difficulty,
			Tags:           q.Tags,
		}

		if _, err := questions.Create("seed-script", req); err != nil {
			log.Printf("question %d: %v, skipping", i+1, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("done: %d imported, %d skipped", imported, skipped)
}

func resolveTopic(repo *repository.SubjectRepository, cache map[string]string, subjectID, name string) (string, error) {
	key := subjectID + "/" + name
	if id, ok := cache[key]; ok {
		return id, nil
	}

	existing, err := repo.ListTopics(subjectID)
	if err != nil {
		return "", err
	}
	for _, t := range existing {
		cache[subjectID+"/"+t.Name] = t.ID
	}
	if id, ok := cache[key]; ok {
		return id, nil
	}

	topic := &model.Topic{SubjectID: subjectID, Name: name}
	if err := repo.CreateTopic(topic); err != nil {
		return "", err
	}
	cache[key] = topic.ID
	return topic.ID, nil
}
