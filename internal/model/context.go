package model

// ContextKind records where a text segment was found relative to the
// rendering tree of the page.
type ContextKind string

const (
	// ContextStandard is visible text of the main document.
	ContextStandard ContextKind = "standard"

	// ContextIframe is text found inside an embedded document.
	ContextIframe ContextKind = "iframe"

	// ContextShadowDOM is text found inside a shadow root.
	ContextShadowDOM ContextKind = "shadow-dom"

	// ContextHidden is main-document text owned by an element that is not
	// visible to the user.
	ContextHidden ContextKind = "hidden"
)

// Description returns the suffix appended to a location in reports.
// Standard content has no suffix.
func (k ContextKind) Description() string {
	switch k {
	case ContextIframe:
		return " (found in iframe)"
	case ContextShadowDOM:
		return " (found in shadow DOM)"
	case ContextHidden:
		return " (found in hidden element)"
	default:
		return ""
	}
}

// GroupContext is the context information attached to a LocatedIssueGroup.
type GroupContext struct {
	// Kind is the segment's context kind.
	Kind ContextKind `json:"type"`

	// Description is Kind.Description(), kept so consumers of the JSON
	// output do not need their own table.
	Description string `json:"description"`
}

// NewGroupContext builds the GroupContext for kind.
func NewGroupContext(kind ContextKind) GroupContext {
	return GroupContext{Kind: kind, Description: kind.Description()}
}
