package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"jamb_cbt_backend/internal/model"
)

// MarkingRule carries the owning section's marking parameters into the
// scorer.
type MarkingRule struct {
	NegativeMarking   bool
	NegativeMarkValue float64
}

// QuestionScore is the per-question outcome of one scoring pass.
type QuestionScore struct {
	QuestionID string  `json:"questionId"`
	Answered   bool    `json:"answered"`
	Correct    bool    `json:"correct"`
	Points     float64 `json:"points"`
}

// parseResponse normalizes a stored response payload to a string set. The
// payload is either a JSON string, a JSON array of strings, or a bare JSON
// number (numeric questions). An empty payload, empty string or empty array
// means unanswered.
func parseResponse(raw json.RawMessage) ([]string, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		single = strings.TrimSpace(single)
		if single == "" {
			return nil, false, nil
		}
		return []string{single}, true, nil
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		cleaned := make([]string, 0, len(many))
		for _, v := range many {
			v = strings.TrimSpace(v)
			if v != "" {
				cleaned = append(cleaned, v)
			}
		}
		if len(cleaned) == 0 {
			return nil, false, nil
		}
		return cleaned, true, nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return []string{strconv.FormatFloat(num, 'f', -1, 64)}, true, nil
	}

	return nil, false, fmt.Errorf("unparseable response payload: %s", string(raw))
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// isCorrect applies the type-specific equality between a submitted answer
// and the question's correct-answer set.
func isCorrect(qType model.QuestionType, submitted, correct []string) (bool, error) {
	if len(correct) == 0 {
		// Nothing can match an empty answer key; an attempted response is
		// simply incorrect.
		return false, nil
	}

	switch qType {
	case model.SingleChoice:
		if len(submitted) != 1 {
			return false, nil
		}
		for _, c := range correct {
			if submitted[0] == c {
				return true, nil
			}
		}
		return false, nil

	case model.MultiChoice:
		return equalStringSets(submitted, correct), nil

	case model.FreeText:
		if len(submitted) != 1 {
			return false, nil
		}
		got := strings.ToLower(strings.TrimSpace(submitted[0]))
		for _, c := range correct {
			if got == strings.ToLower(strings.TrimSpace(c)) {
				return true, nil
			}
		}
		return false, nil

	case model.Numeric:
		if len(submitted) != 1 {
			return false, nil
		}
		got, err := strconv.ParseFloat(strings.TrimSpace(submitted[0]), 64)
		if err != nil {
			// Submission-time validation should have rejected this.
			return false, fmt.Errorf("stored numeric response is not a number: %q", submitted[0])
		}
		for _, c := range correct {
			want, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
			if err != nil {
				return false, fmt.Errorf("numeric answer key is not a number: %q", c)
			}
			if got == want {
				return true, nil
			}
		}
		return false, nil
	}

	return false, fmt.Errorf("unknown question type %q", qType)
}

// scoreQuestion scores one frozen-list entry. A missing response earns zero
// and is never penalized; negative marking only applies to an attempted,
// incorrect response.
func scoreQuestion(q *model.Question, response json.RawMessage, rule MarkingRule) (QuestionScore, error) {
	result := QuestionScore{QuestionID: q.ID}

	correct, err := q.DecodedCorrectAnswers()
	if err != nil {
		return result, fmt.Errorf("question %s: malformed answer key: %w", q.ID, err)
	}

	submitted, answered, err := parseResponse(response)
	if err != nil {
		return result, fmt.Errorf("question %s: %w", q.ID, err)
	}
	if !answered {
		return result, nil
	}
	result.Answered = true

	ok, err := isCorrect(q.Type, submitted, correct)
	if err != nil {
		return result, fmt.Errorf("question %s: %w", q.ID, err)
	}

	if ok {
		result.Correct = true
		result.Points = 1
	} else if rule.NegativeMarking {
		result.Points = -rule.NegativeMarkValue
	}

	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScoreAttempt walks the frozen question list and produces the final score
// plus the subject and topic breakdowns. It is pure and deterministic:
// rescoring the same inputs yields an identical result. Any malformed stored
// datum, including a frozen entry whose section has no marking rule, aborts
// scoring; a wrong score is never silently produced.
func ScoreAttempt(
	frozen []model.AttemptQuestion,
	questions map[string]*model.Question,
	rules map[string]MarkingRule,
	responses map[string]json.RawMessage,
) (*model.ScoreBreakdown, []QuestionScore, error) {
	breakdown := &model.ScoreBreakdown{MaxScore: float64(len(frozen))}
	scores := make([]QuestionScore, 0, len(frozen))

	subjectIdx := make(map[string]int)
	topicIdx := make(map[string]int)

	for _, entry := range frozen {
		q, ok := questions[entry.QuestionID]
		if !ok {
			return nil, nil, fmt.Errorf("frozen list references unknown question %s", entry.QuestionID)
		}

		rule, ok := rules[entry.SectionID]
		if !ok {
			return nil, nil, fmt.Errorf("frozen list references unknown section %s", entry.SectionID)
		}
		qs, err := scoreQuestion(q, responses[entry.QuestionID], rule)
		if err != nil {
			return nil, nil, err
		}
		scores = append(scores, qs)
		breakdown.TotalScore += qs.Points

		i, seen := subjectIdx[q.SubjectID]
		if !seen {
			i = len(breakdown.SubjectScores)
			subjectIdx[q.SubjectID] = i
			breakdown.SubjectScores = append(breakdown.SubjectScores, model.GroupScore{GroupID: q.SubjectID})
		}
		breakdown.SubjectScores[i].Score = round2(breakdown.SubjectScores[i].Score + qs.Points)
		breakdown.SubjectScores[i].MaxScore++

		j, seen := topicIdx[q.TopicID]
		if !seen {
			j = len(breakdown.TopicScores)
			topicIdx[q.TopicID] = j
			breakdown.TopicScores = append(breakdown.TopicScores, model.GroupScore{GroupID: q.TopicID})
		}
		breakdown.TopicScores[j].Score = round2(breakdown.TopicScores[j].Score + qs.Points)
		breakdown.TopicScores[j].MaxScore++
	}

	breakdown.TotalScore = round2(breakdown.TotalScore)
	if breakdown.MaxScore > 0 {
		breakdown.Percentage = round2(breakdown.TotalScore / breakdown.MaxScore * 100)
	}

	return breakdown, scores, nil
}
