package types

import (
	"time"

	"github.com/google/uuid"
)

// City publication states. Only published cities show up in the table and search.
const (
	CityStatusPublish = "publish"
	CityStatusDraft   = "draft"
)

// CityDetail matches the cities table structure joined with its country.
// Latitude and Longitude are kept as the free text an editor typed in.
type CityDetail struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Latitude    string     `json:"latitude"`
	Longitude   string     `json:"longitude"`
	Status      string     `json:"status"`
	CountryID   *uuid.UUID `json:"country_id,omitempty"`
	CountryName string     `json:"country,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasCoordinates reports whether both coordinates were filled in.
func (c CityDetail) HasCoordinates() bool {
	return hasText(c.Latitude) && hasText(c.Longitude)
}

type CreateCityParams struct {
	Name      string     `json:"name"`
	Latitude  string     `json:"latitude"`
	Longitude string     `json:"longitude"`
	Status    string     `json:"status"`
	CountryID *uuid.UUID `json:"country_id"`
}

// UpdateCityParams only touches the fields that are present (non-nil).
// ClearCountry detaches the city from its country.
type UpdateCityParams struct {
	Name         *string    `json:"name"`
	Latitude     *string    `json:"latitude"`
	Longitude    *string    `json:"longitude"`
	Status       *string    `json:"status"`
	CountryID    *uuid.UUID `json:"country_id"`
	ClearCountry bool       `json:"clear_country"`
}

// CityFilter narrows ListCities. Zero value lists everything.
type CityFilter struct {
	Status    string
	CountryID *uuid.UUID
}

// CitySearchRow is one row of the cities table before the temperature is added.
type CitySearchRow struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	Country   string    `json:"country"`
}

func (r CitySearchRow) HasCoordinates() bool {
	return hasText(r.Latitude) && hasText(r.Longitude)
}
