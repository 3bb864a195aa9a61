package telegram

import (
	"testing"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

func TestOwnedQaris(t *testing.T) {
	player := entities.NewPlayer(1, 10, "test")
	player.Inventory = []string{"qari_ar.husary", "theme_dark", "qari_ar.minshawi"}

	qaris := ownedQaris(player)
	want := []string{entities.DefaultQari, "ar.husary", "ar.minshawi"}
	if len(qaris) != len(want) {
		t.Fatalf("owned qaris = %v, want %v", qaris, want)
	}
	for i := range want {
		if qaris[i] != want[i] {
			t.Fatalf("owned qaris = %v, want %v", qaris, want)
		}
	}
}

func TestOwnedQarisDeduplicatesDefault(t *testing.T) {
	player := entities.NewPlayer(1, 10, "test")
	player.Inventory = []string{"qari_" + entities.DefaultQari}

	if qaris := ownedQaris(player); len(qaris) != 1 {
		t.Fatalf("default qari duplicated: %v", qaris)
	}
}

func TestQariDisplayName(t *testing.T) {
	if name := qariDisplayName("ar.alafasy"); name == "ar.alafasy" {
		t.Fatal("known edition must map to a display name")
	}
	if name := qariDisplayName("ar.unknown"); name != "ar.unknown" {
		t.Fatalf("unknown edition must fall back to its id, got %q", name)
	}
}
