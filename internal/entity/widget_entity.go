// FILE: internal/entity/widget_entity.go
package entity

// WidgetOutcomeKind enumerates the four results the external payment widget
// can report for one invocation. Exactly one fires per invocation.
type WidgetOutcomeKind string

const (
	WidgetOutcomeSuccess WidgetOutcomeKind = "success"
	WidgetOutcomePending WidgetOutcomeKind = "pending"
	WidgetOutcomeError   WidgetOutcomeKind = "error"
	// WidgetOutcomeClosed means the user dismissed the widget without a
	// definitive outcome; control returns to the page, no navigation.
	WidgetOutcomeClosed WidgetOutcomeKind = "close"
)

func (k WidgetOutcomeKind) Valid() bool {
	switch k {
	case WidgetOutcomeSuccess, WidgetOutcomePending, WidgetOutcomeError, WidgetOutcomeClosed:
		return true
	}
	return false
}

// WidgetOutcome is the tagged result of a widget invocation.
type WidgetOutcome struct {
	Kind    WidgetOutcomeKind
	OrderId string
	Message string
}
