package service

import (
	"fmt"
	"math/rand"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// audioCDNFormat is the recitation CDN the original web client streams from.
const audioCDNFormat = "https://cdn.islamic.network/quran/audio/128/%s/%d.mp3"

// AudioURL builds the CDN URL of an ayah recitation for the given qari.
func AudioURL(qari string, ayahNumber int) string {
	return fmt.Sprintf(audioCDNFormat, qari, ayahNumber)
}

// Generator produces question instances for every supported
// relation × modality combination. It is pure apart from its injected
// random source: generation either yields a complete QuestionInstance
// or ErrInsufficientPool, with no partial results.
type Generator struct {
	sampler *Sampler
	rng     *rand.Rand
}

// NewGenerator creates a generator drawing randomness from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		sampler: NewSampler(rng),
		rng:     rng,
	}
}

// Generate builds one question of the given type from the page pool
// (and, for intruder questions, the intruder pool). It returns
// ErrInsufficientPool when the pools cannot support the type's arity.
func (g *Generator) Generate(
	qt entities.QuestionType,
	pageAyahs []*entities.Ayah,
	intruderAyahs []*entities.Ayah,
	qari string,
) (*entities.QuestionInstance, error) {
	if err := qt.Validate(); err != nil {
		return nil, err
	}

	if qt.Relation == entities.RelationIntruder {
		return g.generateIntruder(qt, pageAyahs, intruderAyahs, qari)
	}

	return g.generateNeighbor(qt, pageAyahs, qari)
}

// generateNeighbor handles the next/previous relations: pick a random
// adjacent pair, prompt with one side, answer with the other, and fill
// the remaining options with sampled distractors.
func (g *Generator) generateNeighbor(
	qt entities.QuestionType,
	pageAyahs []*entities.Ayah,
	qari string,
) (*entities.QuestionInstance, error) {
	if len(pageAyahs) < qt.OptionsCount+1 {
		return nil, ErrInsufficientPool
	}

	var question, correct *entities.Ayah
	switch qt.Relation {
	case entities.RelationNext:
		i := g.rng.Intn(len(pageAyahs) - 1)
		question, correct = pageAyahs[i], pageAyahs[i+1]
	case entities.RelationPrevious:
		i := g.rng.Intn(len(pageAyahs)-1) + 1
		question, correct = pageAyahs[i], pageAyahs[i-1]
	default:
		return nil, entities.ErrUnknownRelation
	}

	excluded := map[int]struct{}{
		question.Number: {},
		correct.Number:  {},
	}
	distractors, err := g.sampler.Pick(pageAyahs, excluded, qt.OptionsCount-1)
	if err != nil {
		return nil, err
	}

	options := g.buildOptions(append([]*entities.Ayah{correct}, distractors...), qt.Modality, qari, 0)

	q := &entities.QuestionInstance{
		TypeID:        qt.ID,
		Relation:      qt.Relation,
		Modality:      qt.Modality,
		Options:       options,
		CorrectNumber: correct.Number,
		CorrectAnswer: correctAnswerText(correct, qt.Modality),
	}

	switch qt.Modality {
	case entities.ModalityText:
		q.PromptText = question.Text
	case entities.ModalityAudioText, entities.ModalityAudioAudio:
		q.PromptAudio = AudioURL(qari, question.Number)
	}

	return q, nil
}

// generateIntruder handles the intruder relation: one random
// out-of-page ayah hidden among decoys sampled from the page itself.
// The correct pick is the intruder.
func (g *Generator) generateIntruder(
	qt entities.QuestionType,
	pageAyahs []*entities.Ayah,
	intruderAyahs []*entities.Ayah,
	qari string,
) (*entities.QuestionInstance, error) {
	intruder, err := g.sampler.PickOne(intruderAyahs)
	if err != nil {
		return nil, err
	}

	decoys, err := g.sampler.Pick(pageAyahs, nil, qt.OptionsCount-1)
	if err != nil {
		return nil, err
	}

	options := g.buildOptions(append([]*entities.Ayah{intruder}, decoys...), qt.Modality, qari, intruder.Number)

	var correctAnswer string
	if qt.Modality == entities.ModalityText {
		correctAnswer = intruder.Text
	} else {
		correctAnswer = fmt.Sprintf("الآية الدخيلة كانت من سورة %s", intruder.SurahName)
	}

	return &entities.QuestionInstance{
		TypeID:        qt.ID,
		Relation:      qt.Relation,
		Modality:      qt.Modality,
		Options:       options,
		CorrectNumber: intruder.Number,
		CorrectAnswer: correctAnswer,
	}, nil
}

// buildOptions renders and shuffles the option list. intruderNumber is
// zero for neighbor questions.
func (g *Generator) buildOptions(
	ayahs []*entities.Ayah,
	modality entities.Modality,
	qari string,
	intruderNumber int,
) []entities.Option {
	options := make([]entities.Option, 0, len(ayahs))
	for _, a := range ayahs {
		opt := entities.Option{
			AyahNumber: a.Number,
			Text:       a.Text,
			IsIntruder: intruderNumber != 0 && a.Number == intruderNumber,
		}
		if modality == entities.ModalityAudioAudio {
			opt.AudioURL = AudioURL(qari, a.Number)
		}
		options = append(options, opt)
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}

// correctAnswerText describes the right answer for feedback. Audio
// options cannot quote themselves, so the ayah is named instead.
func correctAnswerText(correct *entities.Ayah, modality entities.Modality) string {
	if modality == entities.ModalityAudioAudio {
		return fmt.Sprintf("الآية رقم %d في سورة %s", correct.NumberInSurah, correct.SurahName)
	}
	return correct.Text
}
