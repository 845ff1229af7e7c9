package localization

import (
	"strings"

	"arogyakrishi/internal/model"
)

// EvaluateTreatment decides whether a scanned product matches a known
// treatment for disease. The match is a case-insensitive substring search
// for active ingredients and common brand names on the item label.
func (c *Catalog) EvaluateTreatment(disease string, itemLabel *string, lang string) model.ScanTreatmentResponse {
	label := c.NormalizeDisease(disease)
	localized := c.DiseaseName(label, lang)
	tmpl := c.feedback(lang)

	resp := model.ScanTreatmentResponse{
		Disease:   localized,
		Language:  lang,
		ItemLabel: itemLabel,
	}

	item := ""
	if itemLabel != nil {
		item = strings.TrimSpace(*itemLabel)
	}

	switch {
	case c.IsHealthy(label):
		resp.Feedback = tmpl.Healthy
	case item == "":
		resp.Feedback = tmpl.NoItem
	default:
		resp.WillCure = c.matchesTreatment(label, item)
		text := tmpl.WillNotCure
		if resp.WillCure {
			text = tmpl.WillCure
		}
		resp.Feedback = strings.NewReplacer("{item}", item, "{disease}", localized).Replace(text)
	}
	return resp
}

func (c *Catalog) matchesTreatment(label, item string) bool {
	entry, ok := c.file.Diseases[label]
	if !ok {
		return false
	}
	folded := fold(item)
	for _, t := range entry.Treatments {
		if t != "" && strings.Contains(folded, fold(t)) {
			return true
		}
	}
	return false
}

func (c *Catalog) feedback(lang string) feedbackTemplates {
	if t, ok := c.file.Feedback[lang]; ok {
		return t
	}
	return c.file.Feedback[DefaultLanguage]
}
