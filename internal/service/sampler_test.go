package service

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// makeAyahs builds a page of n consecutive ayahs starting at number 101.
func makeAyahs(n int) []*entities.Ayah {
	ayahs := make([]*entities.Ayah, 0, n)
	for i := 0; i < n; i++ {
		ayahs = append(ayahs, &entities.Ayah{
			Number:        101 + i,
			NumberInSurah: i + 1,
			Text:          fmt.Sprintf("نص الآية %d", 101+i),
			SurahName:     "البقرة",
			PageNumber:    17,
		})
	}
	return ayahs
}

func TestSamplerPickReturnsDistinctItems(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(1)))
	pool := makeAyahs(10)

	for round := 0; round < 100; round++ {
		picked, err := sampler.Pick(pool, nil, 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(picked) != 4 {
			t.Fatalf("expected 4 items, got %d", len(picked))
		}

		seen := make(map[int]struct{})
		for _, a := range picked {
			if _, dup := seen[a.Number]; dup {
				t.Fatalf("duplicate ayah %d in sample", a.Number)
			}
			seen[a.Number] = struct{}{}
		}
	}
}

func TestSamplerPickRespectsExclusions(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(2)))
	pool := makeAyahs(10)
	excluded := map[int]struct{}{103: {}, 104: {}}

	for round := 0; round < 100; round++ {
		picked, err := sampler.Pick(pool, excluded, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, a := range picked {
			if _, skip := excluded[a.Number]; skip {
				t.Fatalf("excluded ayah %d was picked", a.Number)
			}
		}
	}
}

func TestSamplerPickNeverReturnsShortList(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(3)))
	pool := makeAyahs(5)
	excluded := map[int]struct{}{101: {}, 102: {}}

	picked, err := sampler.Pick(pool, excluded, 4)
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
	if picked != nil {
		t.Fatalf("expected nil result on insufficiency, got %d items", len(picked))
	}
}

func TestSamplerPickExactFit(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(4)))
	pool := makeAyahs(3)

	picked, err := sampler.Pick(pool, nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picked) != 3 {
		t.Fatalf("expected all 3 items, got %d", len(picked))
	}
}

func TestSamplerPickOne(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(5)))

	if _, err := sampler.PickOne(nil); !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool on empty pool, got %v", err)
	}

	pool := makeAyahs(1)
	picked, err := sampler.PickOne(pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if picked.Number != 101 {
		t.Fatalf("expected ayah 101, got %d", picked.Number)
	}
}
