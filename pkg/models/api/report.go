package api

// Section describes one report section for the listing endpoint.
type Section struct {
	Name        string `json:"name"`
	PeriodField string `json:"period_field"`
}

// Error is the JSON body returned on handler failures.
type Error struct {
	Error string `json:"error"`
}
