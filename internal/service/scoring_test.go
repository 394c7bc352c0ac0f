package service

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"jamb_cbt_backend/internal/model"
)

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func makeQuestion(t *testing.T, id, subjectID, topicID string, qType model.QuestionType, correct []string) *model.Question {
	t.Helper()
	return &model.Question{
		UUIDBase:       model.UUIDBase{ID: id},
		SubjectID:      subjectID,
		TopicID:        topicID,
		Type:           qType,
		Stem:           "stem " + id,
		CorrectAnswers: mustJSON(t, correct),
	}
}

func scoreSingle(t *testing.T, q *model.Question, response json.RawMessage, rule MarkingRule) QuestionScore {
	t.Helper()
	frozen := []model.AttemptQuestion{{QuestionID: q.ID, SectionID: "sec1"}}
	questions := map[string]*model.Question{q.ID: q}
	rules := map[string]MarkingRule{"sec1": rule}
	responses := map[string]json.RawMessage{}
	if response != nil {
		responses[q.ID] = response
	}

	_, scores, err := ScoreAttempt(frozen, questions, rules, responses)
	if err != nil {
		t.Fatalf("ScoreAttempt: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 question score, got %d", len(scores))
	}
	return scores[0]
}

func TestScoreQuestionTypes(t *testing.T) {
	tests := []struct {
		name         string
		qType        model.QuestionType
		correct      []string
		response     json.RawMessage
		wantAnswered bool
		wantCorrect  bool
		wantPoints   float64
	}{
		{
			name:         "single choice exact match",
			qType:        model.SingleChoice,
			correct:      []string{"B"},
			response:     json.RawMessage(`"B"`),
			wantAnswered: true,
			wantCorrect:  true,
			wantPoints:   1,
		},
		{
			name:         "single choice wrong label",
			qType:        model.SingleChoice,
			correct:      []string{"B"},
			response:     json.RawMessage(`"C"`),
			wantAnswered: true,
		},
		{
			name:         "multi choice set equality ignores order",
			qType:        model.MultiChoice,
			correct:      []string{"A", "C"},
			response:     json.RawMessage(`["C","A"]`),
			wantAnswered: true,
			wantCorrect:  true,
			wantPoints:   1,
		},
		{
			name:         "multi choice partial selection is wrong",
			qType:        model.MultiChoice,
			correct:      []string{"A", "C"},
			response:     json.RawMessage(`["A"]`),
			wantAnswered: true,
		},
		{
			name:         "multi choice superset is wrong",
			qType:        model.MultiChoice,
			correct:      []string{"A", "C"},
			response:     json.RawMessage(`["A","C","D"]`),
			wantAnswered: true,
		},
		{
			name:         "free text is case and whitespace insensitive",
			qType:        model.FreeText,
			correct:      []string{"Photosynthesis"},
			response:     json.RawMessage(`"  photosynthesis "`),
			wantAnswered: true,
			wantCorrect:  true,
			wantPoints:   1,
		},
		{
			name:         "free text accepts any listed variant",
			qType:        model.FreeText,
			correct:      []string{"colour", "color"},
			response:     json.RawMessage(`"COLOR"`),
			wantAnswered: true,
			wantCorrect:  true,
			wantPoints:   1,
		},
		{
			name:         "numeric compares by value not text",
			qType:        model.Numeric,
			correct:      []string{"0.5"},
			response:     json.RawMessage(`"0.50"`),
			wantAnswered: true,
			wantCorrect:  true,
			wantPoints:   1,
		},
		{
			name:         "numeric bare json number",
			qType:        model.Numeric,
			correct:      []string{"42"},
			response:     json.RawMessage(`42`),
			wantAnswered: true,
			wantCorrect:  true,
			wantPoints:   1,
		},
		{
			name:     "missing response is unanswered",
			qType:    model.SingleChoice,
			correct:  []string{"A"},
			response: nil,
		},
		{
			name:     "empty string is unanswered",
			qType:    model.SingleChoice,
			correct:  []string{"A"},
			response: json.RawMessage(`""`),
		},
		{
			name:     "empty array is unanswered",
			qType:    model.MultiChoice,
			correct:  []string{"A"},
			response: json.RawMessage(`[]`),
		},
		{
			name:     "null is unanswered",
			qType:    model.SingleChoice,
			correct:  []string{"A"},
			response: json.RawMessage(`null`),
		},
		{
			name:         "empty answer key never matches",
			qType:        model.SingleChoice,
			correct:      []string{},
			response:     json.RawMessage(`"A"`),
			wantAnswered: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := makeQuestion(t, "q1", "sub1", "top1", tt.qType, tt.correct)
			got := scoreSingle(t, q, tt.response, MarkingRule{})

			if got.Answered != tt.wantAnswered {
				t.Errorf("Answered = %v, want %v", got.Answered, tt.wantAnswered)
			}
			if got.Correct != tt.wantCorrect {
				t.Errorf("Correct = %v, want %v", got.Correct, tt.wantCorrect)
			}
			if got.Points != tt.wantPoints {
				t.Errorf("Points = %v, want %v", got.Points, tt.wantPoints)
			}
		})
	}
}

func TestNegativeMarking(t *testing.T) {
	rule := MarkingRule{NegativeMarking: true, NegativeMarkValue: 0.25}

	q1 := makeQuestion(t, "q1", "sub1", "top1", model.SingleChoice, []string{"A"})
	q2 := makeQuestion(t, "q2", "sub1", "top1", model.SingleChoice, []string{"B"})

	frozen := []model.AttemptQuestion{
		{QuestionID: "q1", SectionID: "sec1"},
		{QuestionID: "q2", SectionID: "sec1"},
	}
	questions := map[string]*model.Question{"q1": q1, "q2": q2}
	rules := map[string]MarkingRule{"sec1": rule}
	responses := map[string]json.RawMessage{
		"q1": json.RawMessage(`"A"`), // correct
		"q2": json.RawMessage(`"C"`), // wrong, penalized
	}

	breakdown, _, err := ScoreAttempt(frozen, questions, rules, responses)
	if err != nil {
		t.Fatalf("ScoreAttempt: %v", err)
	}

	if breakdown.TotalScore != 0.75 {
		t.Errorf("TotalScore = %v, want 0.75", breakdown.TotalScore)
	}
	if breakdown.MaxScore != 2 {
		t.Errorf("MaxScore = %v, want 2", breakdown.MaxScore)
	}
	if breakdown.Percentage != 37.5 {
		t.Errorf("Percentage = %v, want 37.5", breakdown.Percentage)
	}
}

func TestNegativeMarkingSkipsUnanswered(t *testing.T) {
	q := makeQuestion(t, "q1", "sub1", "top1", model.SingleChoice, []string{"A"})
	got := scoreSingle(t, q, nil, MarkingRule{NegativeMarking: true, NegativeMarkValue: 0.5})

	if got.Points != 0 {
		t.Errorf("unanswered question was penalized: Points = %v", got.Points)
	}
}

func TestNegativeMarkingPerSection(t *testing.T) {
	// Same subject, two sections with different marking rules: each wrong
	// answer is penalized by its own section's value.
	q1 := makeQuestion(t, "q1", "sub1", "top1", model.SingleChoice, []string{"A"})
	q2 := makeQuestion(t, "q2", "sub1", "top1", model.SingleChoice, []string{"A"})

	frozen := []model.AttemptQuestion{
		{QuestionID: "q1", SectionID: "strict"},
		{QuestionID: "q2", SectionID: "lenient"},
	}
	questions := map[string]*model.Question{"q1": q1, "q2": q2}
	rules := map[string]MarkingRule{
		"strict":  {NegativeMarking: true, NegativeMarkValue: 0.5},
		"lenient": {},
	}
	responses := map[string]json.RawMessage{
		"q1": json.RawMessage(`"X"`),
		"q2": json.RawMessage(`"X"`),
	}

	breakdown, scores, err := ScoreAttempt(frozen, questions, rules, responses)
	if err != nil {
		t.Fatalf("ScoreAttempt: %v", err)
	}
	if scores[0].Points != -0.5 {
		t.Errorf("strict section Points = %v, want -0.5", scores[0].Points)
	}
	if scores[1].Points != 0 {
		t.Errorf("lenient section Points = %v, want 0", scores[1].Points)
	}
	if breakdown.TotalScore != -0.5 {
		t.Errorf("TotalScore = %v, want -0.5", breakdown.TotalScore)
	}
}

func TestScoreBreakdownGrouping(t *testing.T) {
	frozen := []model.AttemptQuestion{
		{QuestionID: "q1", SectionID: "sec1"},
		{QuestionID: "q2", SectionID: "sec1"},
		{QuestionID: "q3", SectionID: "sec2"},
	}
	questions := map[string]*model.Question{
		"q1": makeQuestion(t, "q1", "eng", "grammar", model.SingleChoice, []string{"A"}),
		"q2": makeQuestion(t, "q2", "eng", "oral", model.SingleChoice, []string{"A"}),
		"q3": makeQuestion(t, "q3", "mth", "algebra", model.SingleChoice, []string{"A"}),
	}
	rules := map[string]MarkingRule{"sec1": {}, "sec2": {}}
	responses := map[string]json.RawMessage{
		"q1": json.RawMessage(`"A"`),
		"q3": json.RawMessage(`"A"`),
	}

	breakdown, _, err := ScoreAttempt(frozen, questions, rules, responses)
	if err != nil {
		t.Fatalf("ScoreAttempt: %v", err)
	}

	wantSubjects := []model.GroupScore{
		{GroupID: "eng", Score: 1, MaxScore: 2},
		{GroupID: "mth", Score: 1, MaxScore: 1},
	}
	if !reflect.DeepEqual(breakdown.SubjectScores, wantSubjects) {
		t.Errorf("SubjectScores = %+v, want %+v", breakdown.SubjectScores, wantSubjects)
	}

	wantTopics := []model.GroupScore{
		{GroupID: "grammar", Score: 1, MaxScore: 1},
		{GroupID: "oral", Score: 0, MaxScore: 1},
		{GroupID: "algebra", Score: 1, MaxScore: 1},
	}
	if !reflect.DeepEqual(breakdown.TopicScores, wantTopics) {
		t.Errorf("TopicScores = %+v, want %+v", breakdown.TopicScores, wantTopics)
	}

	if math.Abs(breakdown.Percentage-66.67) > 1e-9 {
		t.Errorf("Percentage = %v, want 66.67", breakdown.Percentage)
	}
}

func TestScoreAttemptDeterministic(t *testing.T) {
	frozen := []model.AttemptQuestion{
		{QuestionID: "q1", SectionID: "sec1"},
		{QuestionID: "q2", SectionID: "sec1"},
	}
	questions := map[string]*model.Question{
		"q1": makeQuestion(t, "q1", "sub1", "top1", model.MultiChoice, []string{"A", "B"}),
		"q2": makeQuestion(t, "q2", "sub1", "top2", model.Numeric, []string{"3.14"}),
	}
	rules := map[string]MarkingRule{"sec1": {NegativeMarking: true, NegativeMarkValue: 0.25}}
	responses := map[string]json.RawMessage{
		"q1": json.RawMessage(`["B","A"]`),
		"q2": json.RawMessage(`"2.71"`),
	}

	first, firstScores, err := ScoreAttempt(frozen, questions, rules, responses)
	if err != nil {
		t.Fatalf("ScoreAttempt: %v", err)
	}
	second, secondScores, err := ScoreAttempt(frozen, questions, rules, responses)
	if err != nil {
		t.Fatalf("ScoreAttempt: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rescoring produced a different breakdown: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(firstScores, secondScores) {
		t.Errorf("rescoring produced different question scores")
	}
}

func TestScoreAttemptRejectsBadData(t *testing.T) {
	t.Run("unknown question in frozen list", func(t *testing.T) {
		frozen := []model.AttemptQuestion{{QuestionID: "ghost", SectionID: "sec1"}}
		_, _, err := ScoreAttempt(frozen, map[string]*model.Question{}, nil, nil)
		if err == nil {
			t.Fatal("expected an error for a frozen entry without a question row")
		}
	})

	t.Run("malformed answer key", func(t *testing.T) {
		q := &model.Question{
			UUIDBase:       model.UUIDBase{ID: "q1"},
			SubjectID:      "sub1",
			TopicID:        "top1",
			Type:           model.SingleChoice,
			CorrectAnswers: json.RawMessage(`{not json`),
		}
		frozen := []model.AttemptQuestion{{QuestionID: "q1", SectionID: "sec1"}}
		rules := map[string]MarkingRule{"sec1": {}}
		responses := map[string]json.RawMessage{"q1": json.RawMessage(`"A"`)}
		_, _, err := ScoreAttempt(frozen, map[string]*model.Question{"q1": q}, rules, responses)
		if err == nil {
			t.Fatal("expected an error for a malformed answer key")
		}
	})

	t.Run("unparseable response payload", func(t *testing.T) {
		q := makeQuestion(t, "q1", "sub1", "top1", model.SingleChoice, []string{"A"})
		frozen := []model.AttemptQuestion{{QuestionID: "q1", SectionID: "sec1"}}
		rules := map[string]MarkingRule{"sec1": {}}
		responses := map[string]json.RawMessage{"q1": json.RawMessage(`{"a":1}`)}
		_, _, err := ScoreAttempt(frozen, map[string]*model.Question{"q1": q}, rules, responses)
		if err == nil {
			t.Fatal("expected an error for an object response payload")
		}
	})

	t.Run("section without a marking rule", func(t *testing.T) {
		// A frozen entry whose section id is gone from the template must not
		// fall back to a zero-value rule: a wrong answer under negative
		// marking would quietly score 0 instead of the penalty.
		q := makeQuestion(t, "q1", "sub1", "top1", model.SingleChoice, []string{"A"})
		frozen := []model.AttemptQuestion{{QuestionID: "q1", SectionID: "sec-gone"}}
		responses := map[string]json.RawMessage{"q1": json.RawMessage(`"X"`)}
		_, _, err := ScoreAttempt(frozen, map[string]*model.Question{"q1": q}, map[string]MarkingRule{}, responses)
		if err == nil {
			t.Fatal("expected an error for a frozen entry without a marking rule")
		}
	})
}
