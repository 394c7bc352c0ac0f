package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/util"

	"gorm.io/gorm"
)

// In-memory stores standing in for the gorm repositories. The attempt store
// enforces the same (user, active_key) uniqueness the MySQL index provides,
// atomically under a mutex, so the concurrency tests exercise the real
// duplicate-key path.

type fakeAttemptStore struct {
	mu        sync.Mutex
	attempts  map[string]model.ExamAttempt
	responses map[string]model.ExamResponse // attemptID + "/" + questionID
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		attempts:  map[string]model.ExamAttempt{},
		responses: map[string]model.ExamResponse{},
	}
}

func (f *fakeAttemptStore) Create(attempt *model.ExamAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if attempt.ActiveKey != nil {
		for _, existing := range f.attempts {
			if existing.UserID == attempt.UserID && existing.ActiveKey != nil && *existing.ActiveKey == *attempt.ActiveKey {
				return gorm.ErrDuplicatedKey
			}
		}
	}

	if attempt.ID == "" {
		attempt.ID = model.GenerateUUID()
	}
	f.attempts[attempt.ID] = *attempt
	return nil
}

func (f *fakeAttemptStore) FindByID(id string) (*model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	attempt, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &attempt, nil
}

func (f *fakeAttemptStore) FindNonExpiredByUserAndInstance(userID, instanceID string) (*model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, attempt := range f.attempts {
		if attempt.UserID == userID && attempt.ExamInstanceID == instanceID && attempt.Status != model.AttemptExpired {
			found := attempt
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptStore) ListByUser(userID string, page, limit int) ([]model.ExamAttempt, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ExamAttempt
	for _, attempt := range f.attempts {
		if attempt.UserID == userID {
			out = append(out, attempt)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttemptStore) UpdateFlagged(attemptID string, flagged []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	attempt, ok := f.attempts[attemptID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	attempt.FlaggedQuestions = flagged
	f.attempts[attemptID] = attempt
	return nil
}

func (f *fakeAttemptStore) Finalize(attempt *model.ExamAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.attempts[attempt.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Status != model.AttemptInProgress {
		// matches the repository's guarded update: terminal rows never change
		return nil
	}
	f.attempts[attempt.ID] = *attempt
	return nil
}

func (f *fakeAttemptStore) UpsertResponse(response *model.ExamResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[response.AttemptID+"/"+response.QuestionID] = *response
	return nil
}

func (f *fakeAttemptStore) ListResponses(attemptID string) ([]model.ExamResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ExamResponse
	for key, r := range f.responses {
		if len(key) > len(attemptID) && key[:len(attemptID)] == attemptID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeExamStore struct {
	instances map[string]model.ExamInstance
	templates map[string]model.ExamTemplate
}

func (f *fakeExamStore) FindInstanceByID(id string) (*model.ExamInstance, error) {
	instance, ok := f.instances[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &instance, nil
}

func (f *fakeExamStore) FindTemplateByID(id string) (*model.ExamTemplate, error) {
	template, ok := f.templates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &template, nil
}

type fakeQuestionStore struct {
	questions []model.Question
}

func (f *fakeQuestionStore) FindActiveBySubject(subjectID string) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.SubjectID == subjectID && q.Status == model.QuestionActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) FindByIDs(ids []string) ([]model.Question, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Question
	for _, q := range f.questions {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakePassageStore struct {
	passages map[string]model.Passage
}

func (f *fakePassageStore) FindByIDs(ids []string) ([]model.Passage, error) {
	var out []model.Passage
	for _, id := range ids {
		if p, ok := f.passages[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAudit) Record(actorID, action, entityType, entityID string, changes interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

// fixture builds a service around one instance of a two-section template with
// an open window.
type attemptFixture struct {
	service  *AttemptService
	attempts *fakeAttemptStore
	audit    *fakeAudit
}

func newAttemptFixture(t *testing.T, durationMinutes int) *attemptFixture {
	t.Helper()

	passageID := "pass1"
	questions := make([]model.Question, 0, 12)
	for i := 0; i < 6; i++ {
		questions = append(questions, model.Question{
			UUIDBase:       model.UUIDBase{ID: "eng-q" + string(rune('0'+i))},
			SubjectID:      "eng",
			TopicID:        "eng-top",
			Type:           model.SingleChoice,
			Status:         model.QuestionActive,
			PassageID:      &passageID,
			Options:        json.RawMessage(`[{"id":"o1","label":"A","text":"a"},{"id":"o2","label":"B","text":"b"}]`),
			CorrectAnswers: json.RawMessage(`["A"]`),
		})
	}
	for i := 0; i < 6; i++ {
		questions = append(questions, model.Question{
			UUIDBase:       model.UUIDBase{ID: "mth-q" + string(rune('0'+i))},
			SubjectID:      "mth",
			TopicID:        "mth-top",
			Type:           model.Numeric,
			Status:         model.QuestionActive,
			CorrectAnswers: json.RawMessage(`["4"]`),
		})
	}

	template := model.ExamTemplate{
		UUIDBase: model.UUIDBase{ID: "tpl1"},
		Name:     "UTME Mock",
		Sections: []model.ExamSection{
			{UUIDBase: model.UUIDBase{ID: "sec-eng"}, TemplateID: "tpl1", SubjectID: "eng", NumQuestions: 3, NegativeMarking: true, NegativeMarkValue: 0.25, ShuffleQuestions: true, ShuffleOptions: true},
			{UUIDBase: model.UUIDBase{ID: "sec-mth"}, TemplateID: "tpl1", SubjectID: "mth", NumQuestions: 2, ShuffleQuestions: true},
		},
	}

	instance := model.ExamInstance{
		UUIDBase:        model.UUIDBase{ID: "inst1"},
		TemplateID:      "tpl1",
		Name:            "UTME Mock Sitting",
		ScheduledAt:     time.Now().Add(-time.Minute),
		DurationMinutes: durationMinutes,
		AllowedRoles:    json.RawMessage(`["candidate"]`),
		Status:          model.InstanceActive,
	}

	attempts := newFakeAttemptStore()
	audit := &fakeAudit{}
	svc := NewAttemptService(
		attempts,
		&fakeExamStore{
			instances: map[string]model.ExamInstance{"inst1": instance},
			templates: map[string]model.ExamTemplate{"tpl1": template},
		},
		&fakeQuestionStore{questions: questions},
		&fakePassageStore{passages: map[string]model.Passage{
			"pass1": {UUIDBase: model.UUIDBase{ID: "pass1"}, SubjectID: "eng", Title: "The Harmattan", Content: "The harmattan season brings dry dusty winds."},
		}},
		audit,
		rand.New(rand.NewSource(1)),
	)

	return &attemptFixture{service: svc, attempts: attempts, audit: audit}
}

func TestCreateAttemptFreezesQuestions(t *testing.T) {
	f := newAttemptFixture(t, 60)

	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	if attempt.Status != model.AttemptInProgress {
		t.Errorf("Status = %s, want %s", attempt.Status, model.AttemptInProgress)
	}
	if attempt.ActiveKey == nil || *attempt.ActiveKey != "inst1" {
		t.Errorf("ActiveKey = %v, want inst1", attempt.ActiveKey)
	}

	frozen, err := attempt.DecodedQuestions()
	if err != nil {
		t.Fatalf("DecodedQuestions: %v", err)
	}
	if len(frozen) != 5 {
		t.Fatalf("frozen list length = %d, want 5", len(frozen))
	}
	for i, entry := range frozen {
		wantSection := "sec-eng"
		if i >= 3 {
			wantSection = "sec-mth"
		}
		if entry.SectionID != wantSection {
			t.Errorf("entry %d section = %s, want %s", i, entry.SectionID, wantSection)
		}
	}
}

func TestCreateAttemptPreconditions(t *testing.T) {
	t.Run("unknown instance", func(t *testing.T) {
		f := newAttemptFixture(t, 60)
		_, err := f.service.CreateAttempt("user1", model.Candidate, "ghost")
		if !errors.Is(err, util.ErrInstanceNotFound) {
			t.Errorf("err = %v, want ErrInstanceNotFound", err)
		}
	})

	t.Run("window closed", func(t *testing.T) {
		f := newAttemptFixture(t, 60)
		closed := model.ExamInstance{
			UUIDBase:        model.UUIDBase{ID: "late"},
			TemplateID:      "tpl1",
			ScheduledAt:     time.Now().Add(-3 * time.Hour),
			DurationMinutes: 60,
			AllowedRoles:    json.RawMessage(`["candidate"]`),
		}
		f.service.Exams.(*fakeExamStore).instances["late"] = closed

		_, err := f.service.CreateAttempt("user1", model.Candidate, "late")
		if !errors.Is(err, util.ErrWindowClosed) {
			t.Errorf("err = %v, want ErrWindowClosed", err)
		}
	})

	t.Run("role not eligible", func(t *testing.T) {
		f := newAttemptFixture(t, 60)
		_, err := f.service.CreateAttempt("user1", model.Tutor, "inst1")
		if !errors.Is(err, util.ErrRoleNotEligible) {
			t.Errorf("err = %v, want ErrRoleNotEligible", err)
		}
	})
}

func TestCreateAttemptDuplicate(t *testing.T) {
	f := newAttemptFixture(t, 60)

	if _, err := f.service.CreateAttempt("user1", model.Candidate, "inst1"); err != nil {
		t.Fatalf("first CreateAttempt: %v", err)
	}

	_, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if !errors.Is(err, util.ErrDuplicateAttempt) {
		t.Errorf("err = %v, want ErrDuplicateAttempt", err)
	}

	// a different user is unaffected
	if _, err := f.service.CreateAttempt("user2", model.Candidate, "inst1"); err != nil {
		t.Errorf("second user's CreateAttempt: %v", err)
	}
}

func TestCreateAttemptConcurrentDuplicate(t *testing.T) {
	f := newAttemptFixture(t, 60)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.CreateAttempt("user1", model.Candidate, "inst1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, util.ErrDuplicateAttempt):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d creations succeeded, want exactly 1", succeeded)
	}
}

func TestSubmitResponseLastWriteWins(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}
	frozen, _ := attempt.DecodedQuestions()
	qid := frozen[0].QuestionID

	first := ResponseRequest{QuestionID: qid, Response: json.RawMessage(`"A"`), TimeSpentSeconds: 30}
	if err := f.service.SubmitResponse("user1", model.Candidate, attempt.ID, first); err != nil {
		t.Fatalf("first SubmitResponse: %v", err)
	}

	second := ResponseRequest{QuestionID: qid, Response: json.RawMessage(`"B"`), TimeSpentSeconds: 45}
	if err := f.service.SubmitResponse("user1", model.Candidate, attempt.ID, second); err != nil {
		t.Fatalf("second SubmitResponse: %v", err)
	}

	responses, _ := f.attempts.ListResponses(attempt.ID)
	if len(responses) != 1 {
		t.Fatalf("stored %d responses, want 1", len(responses))
	}
	if string(responses[0].Response) != `"B"` {
		t.Errorf("stored response = %s, want \"B\"", responses[0].Response)
	}
	if responses[0].TimeSpentSeconds != 45 {
		t.Errorf("TimeSpentSeconds = %d, want 45 (replaced, not accumulated)", responses[0].TimeSpentSeconds)
	}
}

func TestSubmitResponseValidation(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}
	frozen, _ := attempt.DecodedQuestions()

	t.Run("question outside frozen list", func(t *testing.T) {
		req := ResponseRequest{QuestionID: "ghost", Response: json.RawMessage(`"A"`)}
		err := f.service.SubmitResponse("user1", model.Candidate, attempt.ID, req)
		appErr, ok := util.AsAppError(err)
		if !ok || appErr.Kind != util.KindValidation {
			t.Errorf("err = %v, want a validation error", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		req := ResponseRequest{QuestionID: frozen[0].QuestionID, Response: json.RawMessage(`"A"`)}
		err := f.service.SubmitResponse("intruder", model.Candidate, attempt.ID, req)
		if !errors.Is(err, util.ErrNotAttemptOwner) {
			t.Errorf("err = %v, want ErrNotAttemptOwner", err)
		}
	})

	t.Run("numeric payload must parse", func(t *testing.T) {
		var numericQID string
		for _, entry := range frozen {
			if entry.SectionID == "sec-mth" {
				numericQID = entry.QuestionID
				break
			}
		}
		req := ResponseRequest{QuestionID: numericQID, Response: json.RawMessage(`"four"`)}
		err := f.service.SubmitResponse("user1", model.Candidate, attempt.ID, req)
		appErr, ok := util.AsAppError(err)
		if !ok || appErr.Kind != util.KindValidation {
			t.Errorf("err = %v, want a validation error", err)
		}
	})

	t.Run("empty payload clears the answer", func(t *testing.T) {
		qid := frozen[0].QuestionID
		set := ResponseRequest{QuestionID: qid, Response: json.RawMessage(`"A"`)}
		if err := f.service.SubmitResponse("user1", model.Candidate, attempt.ID, set); err != nil {
			t.Fatalf("SubmitResponse: %v", err)
		}
		cleared := ResponseRequest{QuestionID: qid, Response: json.RawMessage(`""`)}
		if err := f.service.SubmitResponse("user1", model.Candidate, attempt.ID, cleared); err != nil {
			t.Errorf("clearing an answer should be allowed: %v", err)
		}
	})
}

func TestSubmitAttemptScoresAndIsIdempotent(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}
	frozen, _ := attempt.DecodedQuestions()

	// answer all english questions correctly, leave maths blank
	for _, entry := range frozen {
		if entry.SectionID != "sec-eng" {
			continue
		}
		req := ResponseRequest{QuestionID: entry.QuestionID, Response: json.RawMessage(`"A"`)}
		if err := f.service.SubmitResponse("user1", model.Candidate, attempt.ID, req); err != nil {
			t.Fatalf("SubmitResponse: %v", err)
		}
	}

	submitted, err := f.service.SubmitAttempt("user1", model.Candidate, attempt.ID)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	if submitted.Status != model.AttemptCompleted {
		t.Errorf("Status = %s, want %s", submitted.Status, model.AttemptCompleted)
	}
	if submitted.Score == nil || *submitted.Score != 3 {
		t.Errorf("Score = %v, want 3", submitted.Score)
	}
	if submitted.SubmittedAt == nil {
		t.Fatal("SubmittedAt not set")
	}
	if submitted.ActiveKey != nil {
		t.Errorf("ActiveKey still set after submission")
	}

	var breakdown model.ScoreBreakdown
	if err := json.Unmarshal(submitted.ScoreBreakdown, &breakdown); err != nil {
		t.Fatalf("unmarshal breakdown: %v", err)
	}
	if breakdown.TotalScore != 3 || breakdown.MaxScore != 5 {
		t.Errorf("breakdown = %v/%v, want 3/5", breakdown.TotalScore, breakdown.MaxScore)
	}

	// resubmission is a no-op returning the stored result
	again, err := f.service.SubmitAttempt("user1", model.Candidate, attempt.ID)
	if err != nil {
		t.Fatalf("second SubmitAttempt: %v", err)
	}
	if !again.SubmittedAt.Equal(*submitted.SubmittedAt) {
		t.Errorf("resubmission changed SubmittedAt: %v vs %v", again.SubmittedAt, submitted.SubmittedAt)
	}
	if *again.Score != *submitted.Score {
		t.Errorf("resubmission changed Score: %v vs %v", *again.Score, *submitted.Score)
	}

	// and the attempt no longer takes responses
	req := ResponseRequest{QuestionID: frozen[0].QuestionID, Response: json.RawMessage(`"B"`)}
	if err := f.service.SubmitResponse("user1", model.Candidate, attempt.ID, req); !errors.Is(err, util.ErrAttemptFinished) {
		t.Errorf("err = %v, want ErrAttemptFinished", err)
	}

	// a new attempt on the same instance is blocked while completed
	if _, err := f.service.CreateAttempt("user1", model.Candidate, "inst1"); !errors.Is(err, util.ErrDuplicateAttempt) {
		t.Errorf("err = %v, want ErrDuplicateAttempt after completion", err)
	}
}

func TestSubmitAttemptFailsOnOrphanedSections(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	// simulate a wholesale section rewrite: the frozen entries now carry
	// section ids the template no longer knows
	exams := f.service.Exams.(*fakeExamStore)
	tpl := exams.templates["tpl1"]
	tpl.Sections = []model.ExamSection{
		{UUIDBase: model.UUIDBase{ID: "sec-rewritten"}, TemplateID: "tpl1", SubjectID: "eng", NumQuestions: 3},
	}
	exams.templates["tpl1"] = tpl

	_, err = f.service.SubmitAttempt("user1", model.Candidate, attempt.ID)
	appErr, ok := util.AsAppError(err)
	if !ok || appErr.Kind != util.KindInternal {
		t.Fatalf("err = %v, want an internal error instead of a silently mis-scored attempt", err)
	}

	stored, err := f.attempts.FindByID(attempt.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Status != model.AttemptInProgress {
		t.Errorf("Status = %s, want %s after a failed finalize", stored.Status, model.AttemptInProgress)
	}
	if stored.Score != nil {
		t.Errorf("Score = %v, want nil after a failed finalize", *stored.Score)
	}
}

func TestGetAttemptLazyExpiry(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	// push the start far past the deadline
	f.attempts.mu.Lock()
	stored := f.attempts.attempts[attempt.ID]
	stored.StartedAt = time.Now().Add(-2 * time.Hour)
	f.attempts.attempts[attempt.ID] = stored
	f.attempts.mu.Unlock()

	detail, err := f.service.GetAttempt("user1", model.Candidate, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}

	if detail.Attempt.Status != model.AttemptExpired {
		t.Errorf("Status = %s, want %s", detail.Attempt.Status, model.AttemptExpired)
	}
	if detail.Attempt.Score == nil || *detail.Attempt.Score != 0 {
		t.Errorf("Score = %v, want 0 for an untouched expired attempt", detail.Attempt.Score)
	}
	wantDeadline := stored.StartedAt.Add(60 * time.Minute)
	if detail.Attempt.SubmittedAt == nil || !detail.Attempt.SubmittedAt.Equal(wantDeadline) {
		t.Errorf("SubmittedAt = %v, want the deadline %v", detail.Attempt.SubmittedAt, wantDeadline)
	}
	if detail.RemainingSeconds != 0 {
		t.Errorf("RemainingSeconds = %d, want 0", detail.RemainingSeconds)
	}

	// terminal views reveal the answer key
	if len(detail.Questions) == 0 || detail.Questions[0].CorrectAnswers == nil {
		t.Error("expired attempt view should include correct answers")
	}

	// expiry frees the slot for a fresh attempt
	if _, err := f.service.CreateAttempt("user1", model.Candidate, "inst1"); err != nil {
		t.Errorf("CreateAttempt after expiry: %v", err)
	}
}

func TestGetAttemptHidesAnswersWhileInProgress(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	detail, err := f.service.GetAttempt("user1", model.Candidate, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}

	for _, view := range detail.Questions {
		if view.CorrectAnswers != nil {
			t.Fatalf("question %s exposes correct answers while in progress", view.QuestionID)
		}
		if view.Explanation != "" {
			t.Fatalf("question %s exposes the explanation while in progress", view.QuestionID)
		}
	}
	if detail.RemainingSeconds <= 0 {
		t.Errorf("RemainingSeconds = %d, want positive", detail.RemainingSeconds)
	}
}

func TestGetAttemptOwnership(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	if _, err := f.service.GetAttempt("intruder", model.Candidate, attempt.ID); !errors.Is(err, util.ErrNotAttemptOwner) {
		t.Errorf("err = %v, want ErrNotAttemptOwner", err)
	}

	// admins may read any attempt
	if _, err := f.service.GetAttempt("admin1", model.Admin, attempt.ID); err != nil {
		t.Errorf("admin read failed: %v", err)
	}
}

func TestFlagQuestion(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}
	frozen, _ := attempt.DecodedQuestions()
	qid := frozen[0].QuestionID

	if err := f.service.FlagQuestion("user1", model.Candidate, attempt.ID, qid, true); err != nil {
		t.Fatalf("FlagQuestion: %v", err)
	}

	detail, err := f.service.GetAttempt("user1", model.Candidate, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if !detail.Questions[0].Flagged {
		t.Error("question not flagged in the view")
	}

	if err := f.service.FlagQuestion("user1", model.Candidate, attempt.ID, qid, false); err != nil {
		t.Fatalf("unflag: %v", err)
	}
	detail, _ = f.service.GetAttempt("user1", model.Candidate, attempt.ID)
	if detail.Questions[0].Flagged {
		t.Error("question still flagged after unflag")
	}

	if err := f.service.FlagQuestion("user1", model.Candidate, attempt.ID, "ghost", true); err == nil {
		t.Error("flagging a question outside the frozen list should fail")
	}
}

func TestGetAttemptIncludesPassageText(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	detail, err := f.service.GetAttempt("user1", model.Candidate, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}

	for _, view := range detail.Questions {
		switch view.SectionID {
		case "sec-eng":
			if view.PassageID != "pass1" {
				t.Errorf("question %s PassageID = %q, want pass1", view.QuestionID, view.PassageID)
			}
			if view.Passage != "The harmattan season brings dry dusty winds." {
				t.Errorf("question %s passage text = %q", view.QuestionID, view.Passage)
			}
		default:
			if view.PassageID != "" || view.Passage != "" {
				t.Errorf("question %s carries a passage it does not reference", view.QuestionID)
			}
		}
	}
}

func TestGetAttemptAppliesOptionOrder(t *testing.T) {
	f := newAttemptFixture(t, 60)
	attempt, err := f.service.CreateAttempt("user1", model.Candidate, "inst1")
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}
	frozen, _ := attempt.DecodedQuestions()

	detail, err := f.service.GetAttempt("user1", model.Candidate, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}

	for i, view := range detail.Questions {
		if len(frozen[i].OptionOrder) == 0 {
			continue
		}
		if len(view.Options) != len(frozen[i].OptionOrder) {
			t.Fatalf("question %s: %d options rendered, want %d", view.QuestionID, len(view.Options), len(frozen[i].OptionOrder))
		}
		for j, id := range frozen[i].OptionOrder {
			if view.Options[j].ID != id {
				t.Errorf("question %s option %d = %s, want %s", view.QuestionID, j, view.Options[j].ID, id)
			}
		}
	}
}
