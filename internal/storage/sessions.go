package storage

import (
	"sync"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// ActiveQuiz couples a running session with the question currently on
// screen. One per chat; answering replaces the question.
//
// The embedded mutex serializes every mutation of the quiz for its chat:
// grading an answer, advancing to the next question and finishing all run
// under it, including advances scheduled on a timer after feedback.
type ActiveQuiz struct {
	sync.Mutex

	Session  *entities.QuizSession
	Question *entities.QuestionInstance
}

// SessionStorage provides in-memory storage for active quiz sessions by
// chat ID. Starting a new session for a chat replaces the old one
// wholesale; a replaced quiz keeps its own lock so late timers can detect
// they have been superseded.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*ActiveQuiz
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*ActiveQuiz),
	}
}

// Store saves the active quiz for a chat.
func (s *SessionStorage) Store(chatID int64, quiz *ActiveQuiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = quiz
}

// Get retrieves the active quiz for a chat, or nil.
func (s *SessionStorage) Get(chatID int64) *ActiveQuiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[chatID]
}

// Delete discards the active quiz for a chat. Abandoning a session this
// way needs no further cleanup; settlement only happens on finish.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
