package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/util"
	"jamb_cbt_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// The attempt engine only needs key-based lookups and upserts from its
// collaborators, so they are expressed as narrow interfaces; the gorm
// repositories satisfy them in production and the tests supply in-memory
// fakes.

type AttemptStore interface {
	Create(attempt *model.ExamAttempt) error
	FindByID(id string) (*model.ExamAttempt, error)
	FindNonExpiredByUserAndInstance(userID, instanceID string) (*model.ExamAttempt, error)
	ListByUser(userID string, page, limit int) ([]model.ExamAttempt, int64, error)
	UpdateFlagged(attemptID string, flagged []byte) error
	Finalize(attempt *model.ExamAttempt) error
	UpsertResponse(response *model.ExamResponse) error
	ListResponses(attemptID string) ([]model.ExamResponse, error)
}

type ExamStore interface {
	FindInstanceByID(id string) (*model.ExamInstance, error)
	FindTemplateByID(id string) (*model.ExamTemplate, error)
}

type QuestionStore interface {
	FindActiveBySubject(subjectID string) ([]model.Question, error)
	FindByIDs(ids []string) ([]model.Question, error)
}

type PassageStore interface {
	FindByIDs(ids []string) ([]model.Passage, error)
}

type AuditRecorder interface {
	Record(actorID, action, entityType, entityID string, changes interface{})
}

type AttemptService struct {
	Attempts  AttemptStore
	Exams     ExamStore
	Questions QuestionStore
	Passages  PassageStore
	Audit     AuditRecorder

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewAttemptService wires the engine. rng may be nil outside of tests.
func NewAttemptService(attempts AttemptStore, exams ExamStore, questions QuestionStore, passages PassageStore, audit AuditRecorder, rng *rand.Rand) *AttemptService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AttemptService{
		Attempts:  attempts,
		Exams:     exams,
		Questions: questions,
		Passages:  passages,
		Audit:     audit,
		rng:       rng,
	}
}

// CreateAttempt materializes a frozen question list for the caller from the
// instance's template and opens an in-progress attempt.
func (s *AttemptService) CreateAttempt(userID string, role model.UserRole, instanceID string) (*model.ExamAttempt, error) {
	instance, err := s.Exams.FindInstanceByID(instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstanceNotFound
		}
		return nil, err
	}

	now := time.Now()
	if !instance.WindowOpen(now) {
		return nil, util.ErrWindowClosed
	}

	allowed, err := instance.RoleAllowed(role)
	if err != nil {
		return nil, util.InternalError("malformed allowed roles", err)
	}
	if !allowed {
		return nil, util.ErrRoleNotEligible
	}

	if _, err := s.Attempts.FindNonExpiredByUserAndInstance(userID, instanceID); err == nil {
		return nil, util.ErrDuplicateAttempt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	template, err := s.Exams.FindTemplateByID(instance.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTemplateNotFound
		}
		return nil, err
	}

	pools := make(map[string][]model.Question)
	for _, section := range template.Sections {
		if _, ok := pools[section.SubjectID]; ok {
			continue
		}
		pool, err := s.Questions.FindActiveBySubject(section.SubjectID)
		if err != nil {
			return nil, err
		}
		pools[section.SubjectID] = pool
	}

	s.rngMu.Lock()
	frozen, err := buildFrozenList(s.rng, template.Sections, pools)
	s.rngMu.Unlock()
	if err != nil {
		return nil, util.InternalError("building question list failed", err)
	}

	frozenRaw, err := json.Marshal(frozen)
	if err != nil {
		return nil, util.InternalError("encoding question list failed", err)
	}

	activeKey := instanceID
	attempt := &model.ExamAttempt{
		UserID:           userID,
		ExamInstanceID:   instanceID,
		Questions:        frozenRaw,
		FlaggedQuestions: json.RawMessage(`[]`),
		StartedAt:        now,
		Status:           model.AttemptInProgress,
		ActiveKey:        &activeKey,
	}

	if err := s.Attempts.Create(attempt); err != nil {
		// The (user, active_key) unique index closes the read-then-write
		// race between concurrent creations.
		if repository.IsDuplicateKey(err) {
			return nil, util.ErrDuplicateAttempt
		}
		return nil, err
	}

	s.Audit.Record(userID, "exam_attempt.created", "exam_attempt", attempt.ID, nil)
	monitoring.AttemptTransitions.WithLabelValues("created").Inc()
	return attempt, nil
}

func (s *AttemptService) getOwnedAttempt(userID string, role model.UserRole, attemptID string, allowAdmin bool) (*model.ExamAttempt, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	if attempt.UserID != userID && !(allowAdmin && role == model.Admin) {
		return nil, util.ErrNotAttemptOwner
	}
	return attempt, nil
}

// maybeExpire runs the lazy expiry check: an in-progress attempt whose
// deadline has passed is scored with whatever responses exist and persisted
// as expired before the caller sees it. There is no background scheduler.
func (s *AttemptService) maybeExpire(attempt *model.ExamAttempt) (*model.ExamAttempt, error) {
	if attempt.Status != model.AttemptInProgress {
		return attempt, nil
	}

	instance, err := s.Exams.FindInstanceByID(attempt.ExamInstanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstanceNotFound
		}
		return nil, err
	}

	deadline := attempt.Deadline(instance.DurationMinutes)
	if time.Now().Before(deadline) {
		return attempt, nil
	}

	if err := s.finalize(attempt, instance, model.AttemptExpired, deadline); err != nil {
		return nil, err
	}

	s.Audit.Record(attempt.UserID, "exam_attempt.expired", "exam_attempt", attempt.ID, nil)
	monitoring.AttemptTransitions.WithLabelValues("expired").Inc()
	return attempt, nil
}

// finalize computes and persists the one-shot terminal transition.
func (s *AttemptService) finalize(attempt *model.ExamAttempt, instance *model.ExamInstance, status model.AttemptStatus, submittedAt time.Time) error {
	frozen, err := attempt.DecodedQuestions()
	if err != nil {
		return util.InternalError("malformed frozen question list", err)
	}

	template, err := s.Exams.FindTemplateByID(instance.TemplateID)
	if err != nil {
		return util.InternalError("template lookup failed", err)
	}

	rules := make(map[string]MarkingRule, len(template.Sections))
	for _, section := range template.Sections {
		rules[section.ID] = MarkingRule{
			NegativeMarking:   section.NegativeMarking,
			NegativeMarkValue: section.NegativeMarkValue,
		}
	}

	ids := make([]string, len(frozen))
	for i, entry := range frozen {
		ids[i] = entry.QuestionID
	}
	questionRows, err := s.Questions.FindByIDs(ids)
	if err != nil {
		return err
	}
	questions := make(map[string]*model.Question, len(questionRows))
	for i := range questionRows {
		questions[questionRows[i].ID] = &questionRows[i]
	}

	responseRows, err := s.Attempts.ListResponses(attempt.ID)
	if err != nil {
		return err
	}
	responses := make(map[string]json.RawMessage, len(responseRows))
	for _, r := range responseRows {
		responses[r.QuestionID] = r.Response
	}

	breakdown, _, err := ScoreAttempt(frozen, questions, rules, responses)
	if err != nil {
		return util.InternalError("scoring failed", err)
	}

	breakdownRaw, err := json.Marshal(breakdown)
	if err != nil {
		return util.InternalError("encoding score breakdown failed", err)
	}

	score := breakdown.TotalScore
	attempt.Status = status
	attempt.Score = &score
	attempt.ScoreBreakdown = breakdownRaw
	attempt.SubmittedAt = &submittedAt
	attempt.ActiveKey = nil

	return s.Attempts.Finalize(attempt)
}

type ResponseRequest struct {
	QuestionID       string          `json:"questionId" binding:"required"`
	Response         json.RawMessage `json:"response" binding:"required"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
}

// validateResponsePayload checks the submitted payload against the question
// type before it is stored. Correctness is never revealed here.
func validateResponsePayload(q *model.Question, raw json.RawMessage) error {
	submitted, answered, err := parseResponse(raw)
	if err != nil {
		return util.ValidationError("malformed answer payload")
	}
	if !answered {
		// An empty payload clears the answer; scoring treats it as
		// unanswered.
		return nil
	}

	switch q.Type {
	case model.SingleChoice, model.FreeText:
		if len(submitted) != 1 {
			return util.ValidationError("this question takes exactly one answer")
		}
	case model.Numeric:
		if len(submitted) != 1 {
			return util.ValidationError("this question takes exactly one answer")
		}
		if _, perr := strconv.ParseFloat(strings.TrimSpace(submitted[0]), 64); perr != nil {
			return util.ValidationError("numeric answer must be a number")
		}
	}
	return nil
}

// SubmitResponse upserts one response; last write wins for both the answer
// and the time spent.
func (s *AttemptService) SubmitResponse(userID string, role model.UserRole, attemptID string, req ResponseRequest) error {
	attempt, err := s.getOwnedAttempt(userID, role, attemptID, false)
	if err != nil {
		return err
	}

	attempt, err = s.maybeExpire(attempt)
	if err != nil {
		return err
	}
	if attempt.Status != model.AttemptInProgress {
		return util.ErrAttemptFinished
	}

	frozen, err := attempt.DecodedQuestions()
	if err != nil {
		return util.InternalError("malformed frozen question list", err)
	}
	member := false
	for _, entry := range frozen {
		if entry.QuestionID == req.QuestionID {
			member = true
			break
		}
	}
	if !member {
		return util.ValidationError("question is not part of this attempt")
	}

	questionRows, err := s.Questions.FindByIDs([]string{req.QuestionID})
	if err != nil {
		return err
	}
	if len(questionRows) == 0 {
		return util.InternalError("frozen list references unknown question", nil)
	}
	if err := validateResponsePayload(&questionRows[0], req.Response); err != nil {
		return err
	}

	if req.TimeSpentSeconds < 0 {
		return util.ValidationError("time spent cannot be negative")
	}

	return s.Attempts.UpsertResponse(&model.ExamResponse{
		AttemptID:        attemptID,
		QuestionID:       req.QuestionID,
		Response:         req.Response,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
}

// FlagQuestion toggles review flags on one frozen-list question.
func (s *AttemptService) FlagQuestion(userID string, role model.UserRole, attemptID, questionID string, flagged bool) error {
	attempt, err := s.getOwnedAttempt(userID, role, attemptID, false)
	if err != nil {
		return err
	}

	attempt, err = s.maybeExpire(attempt)
	if err != nil {
		return err
	}
	if attempt.Status != model.AttemptInProgress {
		return util.ErrAttemptFinished
	}

	frozen, err := attempt.DecodedQuestions()
	if err != nil {
		return util.InternalError("malformed frozen question list", err)
	}
	member := false
	for _, entry := range frozen {
		if entry.QuestionID == questionID {
			member = true
			break
		}
	}
	if !member {
		return util.ValidationError("question is not part of this attempt")
	}

	var current []string
	if len(attempt.FlaggedQuestions) > 0 {
		if err := json.Unmarshal(attempt.FlaggedQuestions, &current); err != nil {
			return util.InternalError("malformed flagged question list", err)
		}
	}

	next := make([]string, 0, len(current)+1)
	for _, id := range current {
		if id != questionID {
			next = append(next, id)
		}
	}
	if flagged {
		next = append(next, questionID)
	}

	raw, _ := json.Marshal(next)
	return s.Attempts.UpdateFlagged(attemptID, raw)
}

// SubmitAttempt finalizes the attempt as completed. Resubmission of a
// terminal attempt is an idempotent no-op returning the stored result.
func (s *AttemptService) SubmitAttempt(userID string, role model.UserRole, attemptID string) (*model.ExamAttempt, error) {
	attempt, err := s.getOwnedAttempt(userID, role, attemptID, false)
	if err != nil {
		return nil, err
	}

	attempt, err = s.maybeExpire(attempt)
	if err != nil {
		return nil, err
	}
	if attempt.Status.Terminal() {
		return attempt, nil
	}

	instance, err := s.Exams.FindInstanceByID(attempt.ExamInstanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInstanceNotFound
		}
		return nil, err
	}

	if err := s.finalize(attempt, instance, model.AttemptCompleted, time.Now()); err != nil {
		return nil, err
	}

	s.Audit.Record(userID, "exam_attempt.submitted", "exam_attempt", attempt.ID, nil)
	monitoring.AttemptTransitions.WithLabelValues("completed").Inc()
	return attempt, nil
}

// AttemptQuestionView is the candidate-facing rendering of one frozen-list
// entry. Correct answers and explanations appear only once the attempt is
// terminal.
type AttemptQuestionView struct {
	QuestionID       string                 `json:"questionId"`
	SectionID        string                 `json:"sectionId"`
	SubjectID        string                 `json:"subjectId"`
	TopicID          string                 `json:"topicId"`
	Type             model.QuestionType     `json:"type"`
	Stem             string                 `json:"stem"`
	PassageID        string                 `json:"passageId,omitempty"`
	Passage          string                 `json:"passage,omitempty"`
	Options          []model.QuestionOption `json:"options,omitempty"`
	Flagged          bool                   `json:"flagged"`
	Response         json.RawMessage        `json:"response,omitempty"`
	TimeSpentSeconds int                    `json:"timeSpentSeconds"`
	CorrectAnswers   []string               `json:"correctAnswers,omitempty"`
	Explanation      string                 `json:"explanation,omitempty"`
}

type AttemptDetail struct {
	Attempt          *model.ExamAttempt    `json:"attempt"`
	Questions        []AttemptQuestionView `json:"questions"`
	RemainingSeconds int                   `json:"remainingSeconds"`
}

// GetAttempt returns the attempt with its presentation question list. The
// lazy expiry check runs before anything is returned, so a read past the
// deadline always observes a terminal, scored attempt.
func (s *AttemptService) GetAttempt(userID string, role model.UserRole, attemptID string) (*AttemptDetail, error) {
	attempt, err := s.getOwnedAttempt(userID, role, attemptID, true)
	if err != nil {
		return nil, err
	}

	attempt, err = s.maybeExpire(attempt)
	if err != nil {
		return nil, err
	}

	frozen, err := attempt.DecodedQuestions()
	if err != nil {
		return nil, util.InternalError("malformed frozen question list", err)
	}

	ids := make([]string, len(frozen))
	for i, entry := range frozen {
		ids[i] = entry.QuestionID
	}
	questionRows, err := s.Questions.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	questions := make(map[string]*model.Question, len(questionRows))
	for i := range questionRows {
		questions[questionRows[i].ID] = &questionRows[i]
	}

	var passageIDs []string
	seenPassage := make(map[string]bool)
	for _, q := range questions {
		if q.PassageID != nil && !seenPassage[*q.PassageID] {
			seenPassage[*q.PassageID] = true
			passageIDs = append(passageIDs, *q.PassageID)
		}
	}
	passageRows, err := s.Passages.FindByIDs(passageIDs)
	if err != nil {
		return nil, err
	}
	passages := make(map[string]string, len(passageRows))
	for _, p := range passageRows {
		passages[p.ID] = p.Content
	}

	responseRows, err := s.Attempts.ListResponses(attempt.ID)
	if err != nil {
		return nil, err
	}
	responses := make(map[string]*model.ExamResponse, len(responseRows))
	for i := range responseRows {
		responses[responseRows[i].QuestionID] = &responseRows[i]
	}

	var flaggedIDs []string
	if len(attempt.FlaggedQuestions) > 0 {
		_ = json.Unmarshal(attempt.FlaggedQuestions, &flaggedIDs)
	}
	flagged := make(map[string]bool, len(flaggedIDs))
	for _, id := range flaggedIDs {
		flagged[id] = true
	}

	terminal := attempt.Status.Terminal()
	views := make([]AttemptQuestionView, 0, len(frozen))
	for _, entry := range frozen {
		q, ok := questions[entry.QuestionID]
		if !ok {
			return nil, util.InternalError("frozen list references unknown question", nil)
		}

		view := AttemptQuestionView{
			QuestionID: q.ID,
			SectionID:  entry.SectionID,
			SubjectID:  q.SubjectID,
			TopicID:    q.TopicID,
			Type:       q.Type,
			Stem:       q.Stem,
			Flagged:    flagged[q.ID],
		}
		if q.PassageID != nil {
			view.PassageID = *q.PassageID
			view.Passage = passages[*q.PassageID]
		}

		opts, err := q.DecodedOptions()
		if err != nil {
			return nil, util.InternalError("malformed question options", err)
		}
		view.Options = permuteOptions(opts, entry.OptionOrder)

		if r, ok := responses[q.ID]; ok {
			view.Response = r.Response
			view.TimeSpentSeconds = r.TimeSpentSeconds
		}

		if terminal {
			correct, err := q.DecodedCorrectAnswers()
			if err != nil {
				return nil, util.InternalError("malformed answer key", err)
			}
			view.CorrectAnswers = correct
			view.Explanation = q.Explanation
		}

		views = append(views, view)
	}

	detail := &AttemptDetail{Attempt: attempt, Questions: views}
	if attempt.Status == model.AttemptInProgress {
		instance, err := s.Exams.FindInstanceByID(attempt.ExamInstanceID)
		if err == nil {
			remaining := int(time.Until(attempt.Deadline(instance.DurationMinutes)).Seconds())
			if remaining < 0 {
				remaining = 0
			}
			detail.RemainingSeconds = remaining
		}
	}

	return detail, nil
}

func (s *AttemptService) ListAttempts(userID string, page, limit int) ([]model.ExamAttempt, int64, error) {
	return s.Attempts.ListByUser(userID, page, limit)
}

// permuteOptions applies the per-attempt option order; options missing from
// the stored order keep their original relative position at the tail.
func permuteOptions(opts []model.QuestionOption, order []string) []model.QuestionOption {
	if len(order) == 0 || len(opts) == 0 {
		return opts
	}

	byID := make(map[string]model.QuestionOption, len(opts))
	for _, o := range opts {
		byID[o.ID] = o
	}

	out := make([]model.QuestionOption, 0, len(opts))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if o, ok := byID[id]; ok {
			out = append(out, o)
			seen[id] = true
		}
	}
	for _, o := range opts {
		if !seen[o.ID] {
			out = append(out, o)
		}
	}
	return out
}
