package validator

import "github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"

// Form is the editable state behind the prediction screen: the FieldSet, the
// selected coffee type and the advisory completeness flag.
// It is not safe for concurrent use; the owning session serialises access.
type Form struct {
	fields   entities.FieldSet
	category entities.Category
	complete bool
}

func NewForm() *Form {
	return &Form{fields: entities.NewFieldSet(), category: entities.DefaultCategory}
}

// Update is the per-keystroke gate. Text that is not empty or numeric is
// discarded and the field keeps its value. Completeness is recomputed after
// every accepted update.
func (f *Form) Update(name, text string) bool {
	if !f.fields.Set(name, text) {
		return false
	}
	f.complete = f.fields.Complete()
	return true
}

// Complete only enables the submit control; Check is authoritative.
func (f *Form) Complete() bool { return f.complete }

func (f *Form) SetCategory(c entities.Category) { f.category = c }

func (f *Form) Category() entities.Category { return f.category }

// Fields returns a copy of the current values.
func (f *Form) Fields() entities.FieldSet { return f.fields }

// Reset empties every field and restores the default coffee type.
func (f *Form) Reset() {
	f.fields = entities.NewFieldSet()
	f.category = entities.DefaultCategory
	f.complete = false
}
