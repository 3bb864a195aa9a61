package storage

import (
	"testing"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

func TestSessionStorageLifecycle(t *testing.T) {
	s := NewSessionStorage()

	if s.Get(10) != nil {
		t.Fatal("expected no active quiz for a fresh chat")
	}

	quiz := &ActiveQuiz{Session: entities.NewQuizSession(1, 10, 3, entities.ModeNormalTest)}
	s.Store(10, quiz)

	if got := s.Get(10); got != quiz {
		t.Fatal("stored quiz not returned")
	}

	// Starting over replaces the old session wholesale.
	replacement := &ActiveQuiz{Session: entities.NewQuizSession(1, 10, 5, entities.ModeNormalTest)}
	s.Store(10, replacement)
	if got := s.Get(10); got != replacement {
		t.Fatal("replacement quiz not returned")
	}

	s.Delete(10)
	if s.Get(10) != nil {
		t.Fatal("expected the quiz to be gone after delete")
	}
}
