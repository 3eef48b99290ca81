package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

// LineClassification is how a single body-line answer was classified.
type LineClassification string

const (
	LineStraight LineClassification = "straight"
	LineCurved   LineClassification = "curved"
)

// LineAnswer is one answer from the body-line section of the questionnaire.
type LineAnswer struct {
	BodyPart       string             `json:"bodyPart"`
	Answer         string             `json:"answer"`
	Classification LineClassification `json:"classification"`
}

// ScaleAnswer is one answer from the scale section of the questionnaire.
type ScaleAnswer struct {
	Category string `json:"category"`
	Answer   string `json:"answer"`
}

// Body shapes offered by the questionnaire.
const (
	ShapePear             = "Pear Shape"
	ShapeInvertedTriangle = "Inverted Triangle"
	ShapeStraight         = "Straight"
	ShapeRoundApple       = "Round/Apple"
	ShapeHourglass        = "Hourglass"
)

// Questionnaire holds the structured answers collected by the presentation layer.
type Questionnaire struct {
	LineAnswers  []LineAnswer  `json:"lineAnswers"`
	ScaleAnswers []ScaleAnswer `json:"scaleAnswers"`
	BodyShape    string        `json:"bodyShape"`
}

// ErrInvalidQuestionnaire is returned when the questionnaire is missing or empty.
var ErrInvalidQuestionnaire = domain.NewValidationError("INVALID_QUESTIONNAIRE", "questionnaire data is missing, cannot generate report")

// Validate checks the questionnaire carries something to report on. Unknown
// classifications and shapes are accepted; the assembler degrades for them.
func (q *Questionnaire) Validate() error {
	if q == nil {
		return ErrInvalidQuestionnaire
	}
	if len(q.LineAnswers) == 0 && len(q.ScaleAnswers) == 0 && strings.TrimSpace(q.BodyShape) == "" {
		return ErrInvalidQuestionnaire.WithCause(fmt.Errorf("no answers provided"))
	}
	return nil
}

// UserReport is the delivered result of a paid consultation.
type UserReport struct {
	Recommendations   string        `json:"recommendations"`
	QuestionnaireData Questionnaire `json:"questionnaireData"`
	RecipientEmail    string        `json:"recipientEmail"`
	GeneratedAt       time.Time     `json:"generatedAt"`
	ArchiveLocation   string        `json:"archiveLocation,omitempty"`
}
