package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

type fakeAyahRepo struct {
	pages     map[int][]*entities.Ayah
	intruders []*entities.Ayah
}

func (r *fakeAyahRepo) GetPage(_ context.Context, pageNumber int) ([]*entities.Ayah, error) {
	return r.pages[pageNumber], nil
}

func (r *fakeAyahRepo) GetIntruders(_ context.Context, _ int, limit int) ([]*entities.Ayah, error) {
	if len(r.intruders) > limit {
		return r.intruders[:limit], nil
	}
	return r.intruders, nil
}

func (r *fakeAyahRepo) GetPageNumbers(_ context.Context) ([]int, error) {
	pages := make([]int, 0, len(r.pages))
	for p := range r.pages {
		pages = append(pages, p)
	}
	return pages, nil
}

type fakeSettlementRepo struct {
	settlements      []*entities.SessionResult
	challengeResults []*entities.ChallengeResult
	failSettlement   error
}

func (r *fakeSettlementRepo) SaveSettlement(_ context.Context, _ *entities.Player, result *entities.SessionResult) error {
	if r.failSettlement != nil {
		return r.failSettlement
	}
	r.settlements = append(r.settlements, result)
	return nil
}

func (r *fakeSettlementRepo) SaveChallengeResult(_ context.Context, result *entities.ChallengeResult) error {
	r.challengeResults = append(r.challengeResults, result)
	return nil
}

type fakeMasteryRepo struct {
	records []int // page numbers recorded
}

func (r *fakeMasteryRepo) UpdateMasteryRecord(_ context.Context, _ int64, pageNumber, _ int) error {
	r.records = append(r.records, pageNumber)
	return nil
}

func (r *fakeMasteryRepo) GetByPlayer(_ context.Context, playerID int64) ([]*entities.MasteryRecord, error) {
	out := make([]*entities.MasteryRecord, 0, len(r.records))
	for _, page := range r.records {
		out = append(out, &entities.MasteryRecord{PlayerID: playerID, PageNumber: page, PerfectRuns: 1})
	}
	return out, nil
}

type fakeActionRepo struct {
	actions []string
}

func (r *fakeActionRepo) Log(_ context.Context, _ int64, action string, _ map[string]any) error {
	r.actions = append(r.actions, action)
	return nil
}

type fakeChallengeRepo struct {
	challenges map[string]*entities.Challenge
}

func (r *fakeChallengeRepo) GetByID(_ context.Context, id string) (*entities.Challenge, error) {
	return r.challenges[id], nil
}

func (r *fakeChallengeRepo) Create(_ context.Context, c *entities.Challenge) error {
	r.challenges[c.ID] = c
	return nil
}

type fakeQuestProgress struct {
	events []string
}

func (r *fakeQuestProgress) UpdateProgress(_ context.Context, _ *entities.Player, event string) ([]*entities.Quest, error) {
	r.events = append(r.events, event)
	return nil, nil
}

type quizHarness struct {
	svc        *QuizService
	ayahs      *fakeAyahRepo
	settlement *fakeSettlementRepo
	mastery    *fakeMasteryRepo
	actions    *fakeActionRepo
	challenges *fakeChallengeRepo
	quests     *fakeQuestProgress
}

func newQuizHarness(t *testing.T, cfg QuizConfig, types []entities.QuestionType) *quizHarness {
	t.Helper()

	catalog, err := NewCatalog(types)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	progression := newTestProgression(t)
	achievements := NewAchievementService(nil, progression, zap.NewNop())

	h := &quizHarness{
		ayahs: &fakeAyahRepo{
			pages: map[int][]*entities.Ayah{1: makeAyahs(10)},
			intruders: []*entities.Ayah{
				{Number: 900, Text: "آية دخيلة", SurahName: "النور", PageNumber: 350},
			},
		},
		settlement: &fakeSettlementRepo{},
		mastery:    &fakeMasteryRepo{},
		actions:    &fakeActionRepo{},
		challenges: &fakeChallengeRepo{challenges: make(map[string]*entities.Challenge)},
		quests:     &fakeQuestProgress{},
	}

	h.svc = NewQuizService(
		cfg,
		catalog,
		progression,
		achievements,
		h.ayahs,
		h.settlement,
		h.mastery,
		h.actions,
		h.challenges,
		h.quests,
		rand.New(rand.NewSource(42)),
		zap.NewNop(),
	)
	return h
}

func defaultQuizConfig() QuizConfig {
	return QuizConfig{
		TotalQuestions: 3,
		MaxAttempts:    15,
		IntruderPool:   5,
		FeedbackDelay:  3 * time.Second,
	}
}

func simpleTypes() []entities.QuestionType {
	return []entities.QuestionType{
		{ID: "choose_next_text_3", Relation: entities.RelationNext, Modality: entities.ModalityText, OptionsCount: 3, RequiredLevel: 1},
	}
}

// answerAll plays the whole session, answering every question either
// correctly or with a guaranteed-wrong option.
func answerAll(t *testing.T, h *quizHarness, session *entities.QuizSession, player *entities.Player, correctly bool) {
	t.Helper()
	ctx := context.Background()

	for {
		q, err := h.svc.NextQuestion(ctx, session, player)
		if errors.Is(err, ErrSessionComplete) {
			return
		}
		if err != nil {
			t.Fatalf("next question: %v", err)
		}

		index := correctIndex(t, q)
		if !correctly {
			index = (index + 1) % len(q.Options)
		}
		if _, err := h.svc.Answer(session, q, index); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
}

func TestQuizFlowPerfectRun(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{
		ChatID:     10,
		Mode:       entities.ModeNormalTest,
		PageNumber: 1,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.TotalQuestions != 3 {
		t.Fatalf("expected 3 planned questions, got %d", session.TotalQuestions)
	}

	answerAll(t, h, session, player, true)

	if session.Score != 3 || session.QuestionsAnswered != 3 {
		t.Fatalf("expected 3/3 correct, got %d/%d", session.Score, session.QuestionsAnswered)
	}
	if len(session.ErrorLog) != 0 {
		t.Fatalf("perfect run produced %d error log entries", len(session.ErrorLog))
	}

	result, err := h.svc.Finish(context.Background(), session, player)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}

	// 3 correct answers at 10 XP each plus the 50 XP perfect bonus.
	if result.XPEarned != 80 {
		t.Fatalf("expected 80 XP, got %d", result.XPEarned)
	}
	if !result.IsPerfect {
		t.Fatal("expected a perfect result")
	}
	if result.LevelUp != nil {
		t.Fatalf("80 XP must not level up from zero, got %+v", result.LevelUp)
	}

	if player.XP != 80 {
		t.Fatalf("player XP = %d, want 80", player.XP)
	}
	if player.TotalQuizzesCompleted != 1 || player.TotalCorrectAnswers != 3 || player.TotalQuestionsAnswered != 3 {
		t.Fatalf("aggregates wrong: %+v", player)
	}

	if len(h.settlement.settlements) != 1 {
		t.Fatalf("expected one settlement, got %d", len(h.settlement.settlements))
	}
	if len(h.mastery.records) != 1 || h.mastery.records[0] != 1 {
		t.Fatalf("perfect run must record page mastery, got %v", h.mastery.records)
	}
	if len(h.actions.actions) != 1 || h.actions.actions[0] != "QUIZ_COMPLETED" {
		t.Fatalf("expected one QUIZ_COMPLETED action, got %v", h.actions.actions)
	}

	wantQuestEvents := []string{entities.EventMasteryCheck, entities.EventQuizCompleted}
	if len(h.quests.events) != len(wantQuestEvents) {
		t.Fatalf("quest events = %v, want %v", h.quests.events, wantQuestEvents)
	}
	for i, e := range wantQuestEvents {
		if h.quests.events[i] != e {
			t.Fatalf("quest events = %v, want %v", h.quests.events, wantQuestEvents)
		}
	}
}

func TestQuizFlowWrongAnswersAreLogged(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	answerAll(t, h, session, player, false)

	if session.Score != 0 {
		t.Fatalf("expected score 0, got %d", session.Score)
	}
	if len(session.ErrorLog) != session.QuestionsAnswered-session.Score {
		t.Fatalf("error log has %d entries for %d wrong answers",
			len(session.ErrorLog), session.QuestionsAnswered-session.Score)
	}
	for _, e := range session.ErrorLog {
		if e.Prompt == "" || e.CorrectAnswer == "" || e.QuestionTypeID == "" {
			t.Fatalf("incomplete error log entry: %+v", e)
		}
	}

	result, err := h.svc.Finish(context.Background(), session, player)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.XPEarned != 0 || result.IsPerfect {
		t.Fatalf("all-wrong run earned xp=%d perfect=%v", result.XPEarned, result.IsPerfect)
	}
	if len(h.mastery.records) != 0 {
		t.Fatal("imperfect run must not record mastery")
	}
}

func TestQuizStartClampsQuestionsToLevelCap(t *testing.T) {
	cfg := defaultQuizConfig()
	cfg.TotalQuestions = 10
	h := newQuizHarness(t, cfg, simpleTypes())
	player := entities.NewPlayer(1, 10, "test") // level 1, capped at 5

	session, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.TotalQuestions != 5 {
		t.Fatalf("expected the level cap of 5 questions, got %d", session.TotalQuestions)
	}
}

func TestQuizChallengeTouchesNothingPersistent(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	h.challenges.challenges["abc"] = &entities.Challenge{
		ID:             "abc",
		CreatorID:      2,
		PageNumber:     1,
		TotalQuestions: 2,
	}
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{
		ChatID:      10,
		Mode:        entities.ModePersonalChallenge,
		ChallengeID: "abc",
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.TotalQuestions != 2 || session.PageNumber != 1 {
		t.Fatalf("challenge parameters not applied: %+v", session)
	}

	answerAll(t, h, session, player, true)

	result, err := h.svc.Finish(context.Background(), session, player)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}

	if len(h.settlement.challengeResults) != 1 {
		t.Fatalf("expected one challenge result, got %d", len(h.settlement.challengeResults))
	}
	if len(h.settlement.settlements) != 0 {
		t.Fatal("challenge run must not write a settlement")
	}
	if player.XP != 0 || player.TotalQuizzesCompleted != 0 || player.TotalQuestionsAnswered != 0 {
		t.Fatalf("challenge run mutated the player: %+v", player)
	}
	if len(h.quests.events) != 0 || len(h.mastery.records) != 0 || len(h.actions.actions) != 0 {
		t.Fatal("challenge run touched quests, mastery or the action log")
	}
}

func TestCreateChallengeRoundTrip(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	creator := entities.NewPlayer(2, 20, "creator")

	challenge, err := h.svc.CreateChallenge(context.Background(), creator, 1)
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	if challenge.CreatorID != 2 || challenge.PageNumber != 1 || challenge.TotalQuestions != 3 {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
	if !challenge.ExpiresAt.After(challenge.CreatedAt) {
		t.Fatal("challenge must expire after creation")
	}

	// Another player can start a session from the issued ID.
	taker := entities.NewPlayer(1, 10, "taker")
	session, err := h.svc.Start(context.Background(), taker, StartParams{
		ChatID:      10,
		Mode:        entities.ModePersonalChallenge,
		ChallengeID: challenge.ID,
	})
	if err != nil {
		t.Fatalf("start from challenge: %v", err)
	}
	if session.PageNumber != 1 || session.TotalQuestions != 3 {
		t.Fatalf("challenge parameters not applied: %+v", session)
	}

	if _, err := h.svc.CreateChallenge(context.Background(), creator, 604); !errors.Is(err, ErrEmptyPage) {
		t.Fatalf("expected ErrEmptyPage for an unknown page, got %v", err)
	}
}

func TestQuizStartUnknownChallenge(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	player := entities.NewPlayer(1, 10, "test")

	_, err := h.svc.Start(context.Background(), player, StartParams{
		ChatID:      10,
		Mode:        entities.ModePersonalChallenge,
		ChallengeID: "missing",
	})
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestQuizLiveEventPerfectRunPaysDiamonds(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	player := entities.NewPlayer(1, 10, "test")
	event := &entities.LiveEvent{ID: 7, Name: "حدث", RewardDiamonds: 30}

	session, err := h.svc.Start(context.Background(), player, StartParams{
		ChatID:     10,
		Mode:       entities.ModeLiveEvent,
		PageNumber: 1,
		LiveEvent:  event,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	answerAll(t, h, session, player, true)
	if _, err := h.svc.Finish(context.Background(), session, player); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if player.Diamonds != 30 {
		t.Fatalf("expected 30 event diamonds, got %d", player.Diamonds)
	}
}

func TestQuizFinishIsIdempotent(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, h, session, player, true)

	if _, err := h.svc.Finish(context.Background(), session, player); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if _, err := h.svc.Finish(context.Background(), session, player); !errors.Is(err, ErrSessionSettled) {
		t.Fatalf("expected ErrSessionSettled, got %v", err)
	}
	if player.TotalQuizzesCompleted != 1 {
		t.Fatalf("double settlement applied aggregates twice: %d", player.TotalQuizzesCompleted)
	}
}

// A stop command and a delayed advance can try to settle the same
// session from different goroutines; exactly one of them may apply
// rewards and aggregates.
func TestQuizFinishConcurrentSettlesOnce(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, h, session, player, true)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = h.svc.Finish(context.Background(), session, player)
		}()
	}
	wg.Wait()

	var settled, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			settled++
		case errors.Is(err, ErrSessionSettled):
			lost++
		default:
			t.Fatalf("finish: %v", err)
		}
	}
	if settled != 1 || lost != 1 {
		t.Fatalf("expected exactly one finisher to settle, got %d settled / %d refused", settled, lost)
	}
	if len(h.settlement.settlements) != 1 {
		t.Fatalf("expected one settlement, got %d", len(h.settlement.settlements))
	}
	if player.TotalQuizzesCompleted != 1 {
		t.Fatalf("concurrent settlement applied aggregates twice: %d", player.TotalQuizzesCompleted)
	}
}

func TestQuizNextQuestionEmptyCatalogEndsEarly(t *testing.T) {
	types := []entities.QuestionType{
		{ID: "choose_next_text_3", Relation: entities.RelationNext, Modality: entities.ModalityText, OptionsCount: 3, RequiredLevel: 99},
	}
	h := newQuizHarness(t, defaultQuizConfig(), types)
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := h.svc.NextQuestion(context.Background(), session, player); !errors.Is(err, ErrNoEligibleQuestions) {
		t.Fatalf("expected ErrNoEligibleQuestions, got %v", err)
	}
	if !session.EndedEarly {
		t.Fatal("session must be marked as ended early")
	}
}

func TestQuizNextQuestionRetryBudgetExhausted(t *testing.T) {
	// Every catalog type needs more ayahs than the page holds, so each
	// attempt fails recoverably until the budget runs out.
	types := []entities.QuestionType{
		{ID: "choose_next_text_6", Relation: entities.RelationNext, Modality: entities.ModalityText, OptionsCount: 6, RequiredLevel: 1},
	}
	h := newQuizHarness(t, defaultQuizConfig(), types)
	h.ayahs.pages[1] = makeAyahs(4)
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := h.svc.NextQuestion(context.Background(), session, player); !errors.Is(err, ErrNoEligibleQuestions) {
		t.Fatalf("expected ErrNoEligibleQuestions, got %v", err)
	}
	if !session.EndedEarly {
		t.Fatal("session must be marked as ended early")
	}
	if session.CurrentQuestionIndex != 0 {
		t.Fatalf("failed generation must not advance the index, got %d", session.CurrentQuestionIndex)
	}
}

func TestQuizAnswerRejectsBadIndex(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	q, err := h.svc.NextQuestion(context.Background(), session, player)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}

	if _, err := h.svc.Answer(session, q, -1); !errors.Is(err, ErrInvalidOptionIndex) {
		t.Fatalf("expected ErrInvalidOptionIndex for -1, got %v", err)
	}
	if _, err := h.svc.Answer(session, q, len(q.Options)); !errors.Is(err, ErrInvalidOptionIndex) {
		t.Fatalf("expected ErrInvalidOptionIndex past the end, got %v", err)
	}
	if session.QuestionsAnswered != 0 {
		t.Fatal("rejected answers must not advance the session")
	}
}

func TestQuizStartEmptyPage(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	player := entities.NewPlayer(1, 10, "test")

	_, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 604})
	if !errors.Is(err, ErrEmptyPage) {
		t.Fatalf("expected ErrEmptyPage, got %v", err)
	}
}

func TestQuizFinishSurvivesSettlementFailure(t *testing.T) {
	h := newQuizHarness(t, defaultQuizConfig(), simpleTypes())
	h.settlement.failSettlement = errors.New("connection refused")
	player := entities.NewPlayer(1, 10, "test")

	session, err := h.svc.Start(context.Background(), player, StartParams{ChatID: 10, Mode: entities.ModeNormalTest, PageNumber: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, h, session, player, true)

	result, err := h.svc.Finish(context.Background(), session, player)
	if err == nil {
		t.Fatal("expected the persistence error to surface")
	}
	if result == nil {
		t.Fatal("the in-memory result must survive a persistence failure")
	}
	if player.XP != 80 {
		t.Fatalf("in-memory progress rolled back: xp=%d", player.XP)
	}
}
