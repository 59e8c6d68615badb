package persist

import "github.com/nhle/clientdeck/internal/model"

// DefaultTemplateID is the id of the built-in template seeded into an empty
// store.
const DefaultTemplateID = "onboarding-amazon"

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() []model.Template {
	return []model.Template{
		{
			ID:   DefaultTemplateID,
			Name: "Onboarding Amazon",
			Items: []model.TemplateItem{
				{ID: "conta-amazon", Text: "Amazon account opened?", Type: model.ItemCheckbox, IsRequired: true},
				{ID: "pagamento", Text: "Payment method confirmed?", Type: model.ItemCheckbox, IsRequired: true},
				{ID: "produtos", Text: "Products uploaded?", Type: model.ItemCheckbox},
				{ID: "quantidade-produtos", Text: "How many products?", Type: model.ItemNumber},
				{ID: model.ObservationsItemID, Text: model.ObservationsItemText, Type: model.ItemObservations},
			},
			IsDefault: true,
		},
	}
}
