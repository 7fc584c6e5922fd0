package domain

import "time"

// Well-known template ids.
var (
	// TemplateTemplateID is the type of template definition items.
	TemplateTemplateID = MustParseID("{AB86861A-6030-46C5-B394-E8F99E8B87DB}")

	// LanguageTemplateID is the type of language definition items.
	LanguageTemplateID = MustParseID("{F68F13A6-3395-426A-B9A1-FA2DC60D94EB}")
)

// Well-known field ids.
var (
	// CreatedFieldID stamps the creation time of a version.
	CreatedFieldID = MustParseID("{25BED78C-4957-4165-998A-CA1B52F67497}")

	// WorkflowStateFieldID holds workflow state; it is not carried over
	// when a version is copied.
	WorkflowStateFieldID = MustParseID("{3E431DE1-525E-47A3-B6B0-1CCBEC3A8C98}")
)

// WellKnownFields are always known to a field registry.
var WellKnownFields = []FieldDefinition{
	{ID: CreatedFieldID, Name: "__Created", Scope: ScopeVersioned},
	{ID: WorkflowStateFieldID, Name: "__Workflow state", Scope: ScopeVersioned},
}

// SyntheticRootName names roots materialized by a forest mapping.
const SyntheticRootName = "$default-mapping"

// isoTicksLayout is the compact ISO 8601 form with seven fractional digits.
const isoTicksLayout = "20060102T150405.0000000Z"

// FormatISOTicks formats t in UTC as yyyyMMddTHHmmss.fffffffZ.
func FormatISOTicks(t time.Time) string {
	return t.UTC().Format(isoTicksLayout)
}
