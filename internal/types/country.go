package types

import (
	"time"

	"github.com/google/uuid"
)

// Country is a hierarchical label grouping cities.
type Country struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type CreateCountryParams struct {
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type UpdateCountryParams struct {
	Name        *string    `json:"name"`
	Slug        *string    `json:"slug"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
}
