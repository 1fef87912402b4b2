package services

import (
	"strings"

	"pharmafind/internal/models"

	"go.uber.org/zap"
)

// TranslationSelector picks the display name and description of a product for
// a language. It never fails: without a usable translation the INN name is
// shown with no description.
type TranslationSelector struct {
	logger *zap.Logger
}

func NewTranslationSelector(logger *zap.Logger) *TranslationSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranslationSelector{logger: logger}
}

// SelectDisplay returns the first translation, in repository order, whose
// language code matches case-insensitively and whose name is not blank.
// Further matches for the same language are ignored and logged.
func (s *TranslationSelector) SelectDisplay(product *models.Product, language string) (string, *string) {
	var chosen *models.Translation
	duplicates := 0
	for _, t := range product.Translations {
		if t == nil || !strings.EqualFold(t.LanguageCode, language) || strings.TrimSpace(t.TranslatedName) == "" {
			continue
		}
		if chosen == nil {
			chosen = t
			continue
		}
		duplicates++
	}

	if chosen == nil {
		return product.INNName, nil
	}
	if duplicates > 0 {
		s.logger.Warn("Multiple translations for product language, using first",
			zap.String("product_id", product.ID),
			zap.String("language", language),
			zap.String("translation_id", chosen.ID),
			zap.Int("ignored", duplicates))
	}

	var description *string
	if chosen.TranslatedDescription != nil && strings.TrimSpace(*chosen.TranslatedDescription) != "" {
		d := *chosen.TranslatedDescription
		description = &d
	}
	return chosen.TranslatedName, description
}
