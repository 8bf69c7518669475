package types

// CatalogStatistics is the admin "at a glance" summary.
type CatalogStatistics struct {
	Countries                int `json:"countries"`
	PublishedCities          int `json:"published_cities"`
	DraftCities              int `json:"draft_cities"`
	CitiesWithoutCoordinates int `json:"cities_without_coordinates"`
	CitiesWithoutCountry     int `json:"cities_without_country"`
	Widgets                  int `json:"widgets"`
	WidgetsWithoutCity       int `json:"widgets_without_city"`
}
