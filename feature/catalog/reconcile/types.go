package reconcile

import "catalog-manager/feature/catalog/models"

// OptionAction specifies how an option change entry should be applied.
type OptionAction string

const (
	// OptionActionCreate introduces a new option label (or reuses an
	// existing one matched case-insensitively).
	OptionActionCreate OptionAction = "create"
	// OptionActionUpdate reuses an existing option by explicit ID.
	OptionActionUpdate OptionAction = "update"
)

// OptionChange describes one requested option entry in a change-set.
type OptionChange struct {
	// Action is "create" or "update".
	Action OptionAction `json:"action"`

	// ID references an existing option. Only honored for "update".
	ID uint `json:"id,omitempty"`

	// Label is the free-text option label (e.g. "Color").
	Label string `json:"label"`
}

// VariantChange describes one desired variant in a change-set.
type VariantChange struct {
	// Title is the variant's display title.
	Title string `json:"title"`

	// OptionValues maps option labels to the value this variant selects
	// (e.g. {"Color": "Red", "Size": "Large"}). Partial matrices are
	// allowed; a variant may specify only a subset of the product's options.
	OptionValues map[string]string `json:"option_values"`

	// GenerateImage requests that an externally generated image be attached.
	// Image generation itself happens out of band; the engine only consumes
	// a pre-resolved title -> URL lookup.
	GenerateImage bool `json:"generate_image"`

	// ImagePrompt is the prompt for the external image generator.
	// Ignored by the engine.
	ImagePrompt string `json:"image_prompt,omitempty"`
}

// ChangeSet is the transient input to a reconciliation run. It is never
// persisted and is not assumed to be conflict-free or previously validated.
type ChangeSet struct {
	Options  []OptionChange  `json:"options"`
	Variants []VariantChange `json:"variants"`
}

// CreatedVariant summarizes one persisted variant in the engine's output.
// The slice returned by Apply preserves the order of the input variant list.
type CreatedVariant struct {
	ID           uint               `json:"id"`
	Title        string             `json:"title"`
	Images       models.StringSlice `json:"images"`
	OptionValues map[string]string  `json:"option_values"`
}

// Result is the aggregate outcome of a reconciliation run.
type Result struct {
	CreatedVariants []CreatedVariant `json:"created_variants"`
}
