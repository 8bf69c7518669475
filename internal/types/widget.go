package types

import (
	"time"

	"github.com/google/uuid"
)

// Widget is a placed "City Temperature" block and the city it shows.
type Widget struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CityID    *uuid.UUID `json:"city_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// WidgetForm is the data behind the widget settings form.
type WidgetForm struct {
	Widget  Widget
	Options []WidgetCityOption
}

type WidgetCityOption struct {
	ID       uuid.UUID
	Name     string
	Selected bool
}

// WidgetView is what the front end renders. Empty is true when nothing must be shown.
type WidgetView struct {
	Empty       bool
	CityName    string
	Temperature string
}

type CreateWidgetParams struct {
	Title  string `json:"title"`
	CityID string `json:"city_id"`
}

// UpdateWidgetParams carries the raw settings form values. A present CityID
// that is empty or not a valid id clears the selection.
type UpdateWidgetParams struct {
	Title  *string `json:"title"`
	CityID *string `json:"city_id"`
}
