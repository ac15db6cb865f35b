package tzrecord

import "fmt"

// LinkFields holds the raw columns of a link line:
//
//	Link  TARGET           LINK-NAME
//	Link  Europe/Istanbul  Asia/Istanbul
type LinkFields struct {
	Target string `validate:"required"`
	Name   string `validate:"required,nefield=Target,excludes=.."`
}

// Link makes Name an alternative name for the zone Target.
type Link struct {
	Target string
	Name   string
}

// NewLink validates the columns of a link line and builds the Link.
func NewLink(f LinkFields) (Link, error) {
	if err := validate.Struct(f); err != nil {
		return Link{}, fmt.Errorf("invalid fields: %w", err)
	}
	return Link{Target: f.Target, Name: f.Name}, nil
}

// linkFields maps the fields of a link line to their columns.
func linkFields(fields []string) (LinkFields, error) {
	if len(fields) != 3 {
		return LinkFields{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	return LinkFields{Target: fields[1], Name: fields[2]}, nil
}
