package entities

import (
	"errors"
	"fmt"
)

// Relation describes how the correct answer relates to the prompted ayah.
type Relation string

const (
	RelationNext     Relation = "next"     // the ayah that follows the prompt
	RelationPrevious Relation = "previous" // the ayah that precedes the prompt
	RelationIntruder Relation = "intruder" // spot the ayah that is not from this page
)

// Modality describes how the prompt and the options are presented.
type Modality string

const (
	ModalityText       Modality = "text"        // text prompt, text options
	ModalityAudioText  Modality = "audio_text"  // audio prompt, text options
	ModalityAudioAudio Modality = "audio_audio" // audio prompt, audio options
)

var (
	ErrUnknownRelation = errors.New("unknown question relation")
	ErrUnknownModality = errors.New("unknown question modality")
	ErrInvalidArity    = errors.New("question option count must be at least 2")
)

// QuestionType is a catalog entry describing one generatable question shape.
// It is read-only configuration; the catalog validates it at construction.
type QuestionType struct {
	ID            string // e.g. "choose_next_text_4"
	Relation      Relation
	Modality      Modality
	OptionsCount  int // number of options presented to the player
	RequiredLevel int // minimum player level for this type to appear
}

// Validate reports the first malformed field of the descriptor.
func (qt QuestionType) Validate() error {
	switch qt.Relation {
	case RelationNext, RelationPrevious, RelationIntruder:
	default:
		return fmt.Errorf("question type %q: %w", qt.ID, ErrUnknownRelation)
	}

	switch qt.Modality {
	case ModalityText, ModalityAudioText, ModalityAudioAudio:
	default:
		return fmt.Errorf("question type %q: %w", qt.ID, ErrUnknownModality)
	}

	// Intruder questions have no audio-prompt form; audio modality means
	// audio options.
	if qt.Relation == RelationIntruder && qt.Modality == ModalityAudioText {
		return fmt.Errorf("question type %q: %w", qt.ID, ErrUnknownModality)
	}

	if qt.OptionsCount < 2 {
		return fmt.Errorf("question type %q: %w", qt.ID, ErrInvalidArity)
	}

	return nil
}

// Option is one selectable answer, tagged with the ayah it was built from.
type Option struct {
	AyahNumber int
	Text       string
	AudioURL   string // set for audio-option modalities
	IsIntruder bool   // true for the single out-of-page option of intruder questions
}

// QuestionInstance is a fully rendered question: a prompt, shuffled
// options and the correctness predicate bound at generation time.
// It lives for exactly one question and is discarded after the answer.
type QuestionInstance struct {
	TypeID        string
	Relation      Relation
	Modality      Modality
	PromptText    string // set for text-prompt modalities
	PromptAudio   string // CDN URL, set for audio-prompt modalities
	Options       []Option
	CorrectNumber int    // ayah number the predicate matches (the intruder's, for intruder questions)
	CorrectAnswer string // human description shown in feedback and error review
}

// IsCorrect reports whether the option at index i is the right answer.
// For next/previous questions this is the true neighbor; for intruder
// questions it is the intruder itself.
func (q *QuestionInstance) IsCorrect(i int) bool {
	if i < 0 || i >= len(q.Options) {
		return false
	}
	return q.Options[i].AyahNumber == q.CorrectNumber
}
