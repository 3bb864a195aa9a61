package service

import (
	"errors"
	"fmt"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

var (
	ErrEmptyCatalog    = errors.New("question catalog is empty")
	ErrDuplicateTypeID = errors.New("duplicate question type id")
)

// Catalog is the validated set of question types a session can draw
// from. It is built once from configuration and read-only afterwards.
type Catalog struct {
	types []entities.QuestionType
}

// NewCatalog validates every descriptor and fails on the first
// malformed entry, so arity/relation mistakes surface at startup rather
// than mid-session.
func NewCatalog(types []entities.QuestionType) (*Catalog, error) {
	if len(types) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(types))
	for _, qt := range types {
		if err := qt.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[qt.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTypeID, qt.ID)
		}
		seen[qt.ID] = struct{}{}
	}

	out := make([]entities.QuestionType, len(types))
	copy(out, types)
	return &Catalog{types: out}, nil
}

// EligibleFor returns the types available to a player of the given level.
func (c *Catalog) EligibleFor(level int) []entities.QuestionType {
	eligible := make([]entities.QuestionType, 0, len(c.types))
	for _, qt := range c.types {
		if qt.RequiredLevel <= level {
			eligible = append(eligible, qt)
		}
	}
	return eligible
}

// Len returns the number of registered question types.
func (c *Catalog) Len() int {
	return len(c.types)
}

// relationPrefix maps a relation/modality pair to the type-id prefix
// the original question bank uses.
func relationPrefix(rel entities.Relation, mod entities.Modality) string {
	switch rel {
	case entities.RelationNext:
		if mod == entities.ModalityText {
			return "choose_next_text"
		}
		if mod == entities.ModalityAudioText {
			return "choose_next_audio_text"
		}
		return "choose_next_audio_audio"
	case entities.RelationPrevious:
		if mod == entities.ModalityText {
			return "choose_prev_text"
		}
		if mod == entities.ModalityAudioText {
			return "choose_prev_audio_text"
		}
		return "choose_prev_audio_audio"
	default:
		if mod == entities.ModalityText {
			return "find_intruder_text"
		}
		return "find_intruder_audio"
	}
}

// DefaultQuestionTypes is the built-in catalog: every relation and
// modality at arities 3 through 6, with harder shapes gated behind
// higher levels. The question_types table, when populated, replaces
// this set wholesale.
func DefaultQuestionTypes() []entities.QuestionType {
	// Base level per relation/modality; each arity step above 3 adds two levels.
	baseLevels := []struct {
		relation entities.Relation
		modality entities.Modality
		level    int
	}{
		{entities.RelationNext, entities.ModalityText, 1},
		{entities.RelationPrevious, entities.ModalityText, 1},
		{entities.RelationNext, entities.ModalityAudioText, 3},
		{entities.RelationPrevious, entities.ModalityAudioText, 3},
		{entities.RelationIntruder, entities.ModalityText, 4},
		{entities.RelationNext, entities.ModalityAudioAudio, 6},
		{entities.RelationPrevious, entities.ModalityAudioAudio, 6},
		{entities.RelationIntruder, entities.ModalityAudioAudio, 7},
	}

	var types []entities.QuestionType
	for _, b := range baseLevels {
		prefix := relationPrefix(b.relation, b.modality)
		for arity := 3; arity <= 6; arity++ {
			types = append(types, entities.QuestionType{
				ID:            fmt.Sprintf("%s_%d", prefix, arity),
				Relation:      b.relation,
				Modality:      b.modality,
				OptionsCount:  arity,
				RequiredLevel: b.level + (arity-3)*2,
			})
		}
	}
	return types
}
