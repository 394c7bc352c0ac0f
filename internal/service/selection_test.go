package service

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"jamb_cbt_backend/internal/model"
)

func makePool(t *testing.T, subjectID string, n int) []model.Question {
	t.Helper()
	pool := make([]model.Question, n)
	for i := range pool {
		pool[i] = model.Question{
			UUIDBase:  model.UUIDBase{ID: subjectID + "-q" + string(rune('a'+i))},
			SubjectID: subjectID,
			TopicID:   subjectID + "-top",
			Type:      model.SingleChoice,
			Options: mustJSON(t, []model.QuestionOption{
				{ID: "o1", Label: "A", Text: "first"},
				{ID: "o2", Label: "B", Text: "second"},
				{ID: "o3", Label: "C", Text: "third"},
				{ID: "o4", Label: "D", Text: "fourth"},
			}),
			CorrectAnswers: mustJSON(t, []string{"A"}),
		}
	}
	return pool
}

func TestBuildFrozenListSectionCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sections := []model.ExamSection{
		{UUIDBase: model.UUIDBase{ID: "sec-eng"}, SubjectID: "eng", NumQuestions: 5, ShuffleQuestions: true, ShuffleOptions: true},
		{UUIDBase: model.UUIDBase{ID: "sec-mth"}, SubjectID: "mth", NumQuestions: 3, ShuffleQuestions: true, ShuffleOptions: true},
	}
	pools := map[string][]model.Question{
		"eng": makePool(t, "eng", 10),
		"mth": makePool(t, "mth", 10),
	}

	frozen, err := buildFrozenList(rng, sections, pools)
	if err != nil {
		t.Fatalf("buildFrozenList: %v", err)
	}

	if len(frozen) != 8 {
		t.Fatalf("frozen list length = %d, want 8", len(frozen))
	}

	// entries appear in section order
	for i, entry := range frozen {
		wantSection := "sec-eng"
		if i >= 5 {
			wantSection = "sec-mth"
		}
		if entry.SectionID != wantSection {
			t.Errorf("entry %d section = %s, want %s", i, entry.SectionID, wantSection)
		}
	}

	// no duplicate questions
	seen := map[string]bool{}
	for _, entry := range frozen {
		if seen[entry.QuestionID] {
			t.Errorf("question %s selected twice", entry.QuestionID)
		}
		seen[entry.QuestionID] = true
	}
}

func TestBuildFrozenListShortPool(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sections := []model.ExamSection{
		{UUIDBase: model.UUIDBase{ID: "sec1"}, SubjectID: "chm", NumQuestions: 40, ShuffleQuestions: true},
	}
	pools := map[string][]model.Question{"chm": makePool(t, "chm", 4)}

	frozen, err := buildFrozenList(rng, sections, pools)
	if err != nil {
		t.Fatalf("buildFrozenList: %v", err)
	}
	if len(frozen) != 4 {
		t.Errorf("short pool should yield the whole pool: got %d, want 4", len(frozen))
	}
}

func TestBuildFrozenListNoDuplicatesAcrossSections(t *testing.T) {
	// Two sections over the same subject drawing from a pool that only just
	// covers both: the second section must not reuse the first's questions.
	rng := rand.New(rand.NewSource(7))
	sections := []model.ExamSection{
		{UUIDBase: model.UUIDBase{ID: "sec1"}, SubjectID: "eng", NumQuestions: 3, ShuffleQuestions: true},
		{UUIDBase: model.UUIDBase{ID: "sec2"}, SubjectID: "eng", NumQuestions: 3, ShuffleQuestions: true},
	}
	pools := map[string][]model.Question{"eng": makePool(t, "eng", 6)}

	frozen, err := buildFrozenList(rng, sections, pools)
	if err != nil {
		t.Fatalf("buildFrozenList: %v", err)
	}
	if len(frozen) != 6 {
		t.Fatalf("frozen list length = %d, want 6", len(frozen))
	}

	seen := map[string]bool{}
	for _, entry := range frozen {
		if seen[entry.QuestionID] {
			t.Fatalf("question %s handed out by both sections", entry.QuestionID)
		}
		seen[entry.QuestionID] = true
	}
}

func TestBuildFrozenListOptionOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sections := []model.ExamSection{
		{UUIDBase: model.UUIDBase{ID: "sec1"}, SubjectID: "eng", NumQuestions: 2, ShuffleQuestions: true, ShuffleOptions: true},
	}
	pools := map[string][]model.Question{"eng": makePool(t, "eng", 5)}

	frozen, err := buildFrozenList(rng, sections, pools)
	if err != nil {
		t.Fatalf("buildFrozenList: %v", err)
	}

	for _, entry := range frozen {
		got := append([]string(nil), entry.OptionOrder...)
		sort.Strings(got)
		want := []string{"o1", "o2", "o3", "o4"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("OptionOrder %v is not a permutation of the option ids", entry.OptionOrder)
		}
	}
}

func TestBuildFrozenListNoOptionShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sections := []model.ExamSection{
		{UUIDBase: model.UUIDBase{ID: "sec1"}, SubjectID: "eng", NumQuestions: 2},
	}
	pools := map[string][]model.Question{"eng": makePool(t, "eng", 5)}

	frozen, err := buildFrozenList(rng, sections, pools)
	if err != nil {
		t.Fatalf("buildFrozenList: %v", err)
	}
	for _, entry := range frozen {
		if entry.OptionOrder != nil {
			t.Errorf("OptionOrder set although option shuffling is off: %v", entry.OptionOrder)
		}
	}
}

func TestSampleQuestionsKeepsPoolOrderWithoutShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pool := makePool(t, "eng", 8)

	selected := sampleQuestions(rng, pool, 4, false)
	if len(selected) != 4 {
		t.Fatalf("selected %d questions, want 4", len(selected))
	}

	pos := map[string]int{}
	for i, q := range pool {
		pos[q.ID] = i
	}
	for i := 1; i < len(selected); i++ {
		if pos[selected[i-1].ID] > pos[selected[i].ID] {
			t.Fatalf("selection broke pool order: %s before %s", selected[i-1].ID, selected[i].ID)
		}
	}
}

func TestBuildFrozenListSeededDeterminism(t *testing.T) {
	sections := []model.ExamSection{
		{UUIDBase: model.UUIDBase{ID: "sec1"}, SubjectID: "eng", NumQuestions: 4, ShuffleQuestions: true, ShuffleOptions: true},
	}
	pools := map[string][]model.Question{"eng": makePool(t, "eng", 10)}

	first, err := buildFrozenList(rand.New(rand.NewSource(42)), sections, pools)
	if err != nil {
		t.Fatalf("buildFrozenList: %v", err)
	}
	second, err := buildFrozenList(rand.New(rand.NewSource(42)), sections, pools)
	if err != nil {
		t.Fatalf("buildFrozenList: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different frozen lists")
	}
}
