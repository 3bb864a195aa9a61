package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres/repository"
)

type fakePlayerRepo struct {
	players map[int64]*entities.Player
	saves   int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int64]*entities.Player)}
}

func (r *fakePlayerRepo) Get(_ context.Context, playerID int64) (*entities.Player, error) {
	p, ok := r.players[playerID]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	return p, nil
}

func (r *fakePlayerRepo) Save(_ context.Context, player *entities.Player) error {
	r.players[player.ID] = player
	r.saves++
	return nil
}

func (r *fakePlayerRepo) Leaderboard(_ context.Context, limit int) ([]*entities.Player, error) {
	out := make([]*entities.Player, 0, limit)
	for _, p := range r.players {
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestEnsurePlayerCreatesOnFirstContact(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := NewPlayerService(repo, &fakeMasteryRepo{}, newTestAchievements(t, nil), zap.NewNop())

	player, err := svc.EnsurePlayer(context.Background(), 1, 10, "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if player.ID != 1 || player.ChatID != 10 || player.Username != "student" {
		t.Fatalf("unexpected player: %+v", player)
	}
	if player.SelectedQari != entities.DefaultQari {
		t.Fatalf("expected default qari, got %q", player.SelectedQari)
	}
	if repo.saves != 1 {
		t.Fatalf("expected the new player to be saved, saves=%d", repo.saves)
	}
}

func TestEnsurePlayerFiresLoginEventOncePerDay(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := NewPlayerService(repo, &fakeMasteryRepo{}, newTestAchievements(t, DefaultAchievementRules()), zap.NewNop())

	existing := entities.NewPlayer(1, 10, "student")
	existing.XP = 700 // level 5, satisfies the first login milestone
	existing.LastLoginAt = time.Now().Add(-48 * time.Hour)
	repo.players[1] = existing

	player, err := svc.EnsurePlayer(context.Background(), 1, 10, "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !player.HasAchievement(1) {
		t.Fatal("first login of the day must evaluate the login rules")
	}

	// A second contact the same day must not re-evaluate.
	xpAfterGrant := player.XP
	player, err = svc.EnsurePlayer(context.Background(), 1, 10, "student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if player.XP != xpAfterGrant {
		t.Fatalf("same-day login changed XP from %d to %d", xpAfterGrant, player.XP)
	}
}

func TestEnsurePlayerUpdatesUsername(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := NewPlayerService(repo, &fakeMasteryRepo{}, newTestAchievements(t, nil), zap.NewNop())

	existing := entities.NewPlayer(1, 10, "old")
	repo.players[1] = existing

	player, err := svc.EnsurePlayer(context.Background(), 1, 10, "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if player.Username != "new" {
		t.Fatalf("username not updated, got %q", player.Username)
	}
}
