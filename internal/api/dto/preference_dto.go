package dto

// DisplayStateResponse is the current presentation state.
type DisplayStateResponse struct {
	DarkMode        bool   `json:"darkMode"`
	Theme           string `json:"theme"`
	Grouping        string `json:"grouping"`
	Ordering        string `json:"ordering"`
	DropdownVisible bool   `json:"dropdownVisible"`
}

// UpdatePreferencesRequest is a partial update; omitted fields are unchanged.
type UpdatePreferencesRequest struct {
	DarkMode *bool   `json:"darkMode"`
	Grouping *string `json:"grouping"`
	Ordering *string `json:"ordering"`
}
