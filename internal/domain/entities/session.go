package entities

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionMode distinguishes the flavors of a quiz run. Personal
// challenges skip all aggregate, achievement and quest updates.
type SessionMode string

const (
	ModeNormalTest        SessionMode = "normal_test"
	ModeLiveEvent         SessionMode = "live_event"
	ModePersonalChallenge SessionMode = "personal_challenge"
)

// SessionStatus tracks the quiz state machine at session granularity.
type SessionStatus string

const (
	StatusActive SessionStatus = "active"
	StatusEnded  SessionStatus = "ended"
)

// ErrorLogEntry records one wrong answer for the post-session review.
type ErrorLogEntry struct {
	QuestionTypeID string
	Prompt         string // snapshot of the presented question
	CorrectAnswer  string
}

// QuizSession is the mutable state of one quiz run. It is owned by a
// single player and discarded (or settled) when the run ends.
type QuizSession struct {
	ID       string
	PlayerID int64
	ChatID   int64

	PageAyahs     []*Ayah // ordered items of the selected page(s)
	IntruderAyahs []*Ayah // out-of-page items, used only by intruder questions

	CurrentQuestionIndex int // 1-based index of the question being presented
	QuestionsAnswered    int
	TotalQuestions       int
	Score                int
	XPEarned             int
	ErrorLog             []ErrorLogEntry

	Qari      string // selected recitation voice
	StartedAt time.Time

	Mode        SessionMode
	LiveEvent   *LiveEvent // set when Mode is ModeLiveEvent
	ChallengeID string     // set when Mode is ModePersonalChallenge
	PageNumber  int        // 0 when the session is not tied to a single page

	Status     SessionStatus
	EndedEarly bool // generation dried up before TotalQuestions were asked
	Settled    bool

	settleMu sync.Mutex
}

// BeginSettle atomically marks the session as settled and ended. It returns
// true for exactly one caller; later callers get false and must not apply
// rewards or aggregates.
func (s *QuizSession) BeginSettle() bool {
	s.settleMu.Lock()
	defer s.settleMu.Unlock()
	if s.Settled {
		return false
	}
	s.Settled = true
	s.Status = StatusEnded
	return true
}

// NewQuizSession creates an active session with zeroed counters.
func NewQuizSession(playerID, chatID int64, totalQuestions int, mode SessionMode) *QuizSession {
	return &QuizSession{
		ID:             uuid.NewString(),
		PlayerID:       playerID,
		ChatID:         chatID,
		TotalQuestions: totalQuestions,
		Qari:           DefaultQari,
		StartedAt:      time.Now(),
		Mode:           mode,
		Status:         StatusActive,
	}
}

// DefaultQari is the recitation used when the player has not picked one.
const DefaultQari = "ar.alafasy"

// Duration returns how long the session has been running, rounded to seconds.
func (s *QuizSession) Duration(now time.Time) int {
	return int(now.Sub(s.StartedAt).Seconds())
}

// IsPerfect reports whether every planned question was answered correctly.
func (s *QuizSession) IsPerfect() bool {
	return s.Score == s.TotalQuestions
}

// Feedback is what the player sees right after answering a question.
type Feedback struct {
	Correct       bool
	CorrectAnswer string
	QuizFinished  bool
}

// LevelUpInfo describes a level crossing caused by one XP update.
type LevelUpInfo struct {
	Level          int
	RewardDiamonds int
}

// SessionResult is the settled outcome handed to the persistence layer
// and to the final-result screen.
type SessionResult struct {
	SessionID      string
	PlayerID       int64
	PageNumber     int
	Score          int
	TotalQuestions int
	XPEarned       int
	ErrorLog       []ErrorLogEntry
	DurationSecs   int
	IsPerfect      bool
	EndedEarly     bool
	LevelUp        *LevelUpInfo
	Achievements   []AchievementRule // granted during settlement
}

// ChallengeResult is the distinct record produced by personal-challenge
// sessions. Challenges never touch aggregates, quests or achievements.
type ChallengeResult struct {
	ID           string
	ChallengeID  string
	PlayerID     int64
	Score        int
	DurationSecs int
	IsPerfect    bool
}

// NewChallengeResult builds a challenge record from a finished session.
func NewChallengeResult(s *QuizSession, now time.Time) *ChallengeResult {
	return &ChallengeResult{
		ID:           uuid.NewString(),
		ChallengeID:  s.ChallengeID,
		PlayerID:     s.PlayerID,
		Score:        s.Score,
		DurationSecs: s.Duration(now),
		IsPerfect:    s.IsPerfect(),
	}
}
