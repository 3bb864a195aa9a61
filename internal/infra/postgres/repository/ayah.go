package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

// AyahRepository provides access to the preloaded ayah content.
type AyahRepository struct {
	db postgres.DBTX
}

// NewAyahRepository creates a new AyahRepository with the provided database pool.
func NewAyahRepository(db postgres.DBTX) *AyahRepository {
	return &AyahRepository{db: db}
}

// GetPage returns the ayahs of one mushaf page in their original order.
func (r *AyahRepository) GetPage(ctx context.Context, pageNumber int) ([]*entities.Ayah, error) {
	query := `
		SELECT number, number_in_surah, text, surah_name, page_number, duration
		FROM ayahs
		WHERE page_number = $1
		ORDER BY number
	`

	rows, err := r.db.Query(ctx, query, pageNumber)
	if err != nil {
		return nil, fmt.Errorf("query page ayahs: %w", err)
	}
	defer rows.Close()

	var ayahs []*entities.Ayah
	for rows.Next() {
		var a entities.Ayah
		if err := rows.Scan(&a.Number, &a.NumberInSurah, &a.Text, &a.SurahName, &a.PageNumber, &a.Duration); err != nil {
			return nil, fmt.Errorf("scan ayah: %w", err)
		}
		ayahs = append(ayahs, &a)
	}

	return ayahs, rows.Err()
}

// GetIntruders returns random ayahs from outside the given page, used
// as the intruder pool of intruder questions.
func (r *AyahRepository) GetIntruders(ctx context.Context, excludePage, limit int) ([]*entities.Ayah, error) {
	query := `
		SELECT number, number_in_surah, text, surah_name, page_number, duration
		FROM ayahs
		WHERE page_number <> $1
		ORDER BY random()
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, excludePage, limit)
	if err != nil {
		return nil, fmt.Errorf("query intruder ayahs: %w", err)
	}
	defer rows.Close()

	var ayahs []*entities.Ayah
	for rows.Next() {
		var a entities.Ayah
		if err := rows.Scan(&a.Number, &a.NumberInSurah, &a.Text, &a.SurahName, &a.PageNumber, &a.Duration); err != nil {
			return nil, fmt.Errorf("scan ayah: %w", err)
		}
		ayahs = append(ayahs, &a)
	}

	return ayahs, rows.Err()
}

// GetPageNumbers lists the distinct pages content is loaded for.
func (r *AyahRepository) GetPageNumbers(ctx context.Context) ([]int, error) {
	query := `SELECT DISTINCT page_number FROM ayahs ORDER BY page_number`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query page numbers: %w", err)
	}
	defer rows.Close()

	var pages []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan page number: %w", err)
		}
		pages = append(pages, p)
	}

	return pages, rows.Err()
}
