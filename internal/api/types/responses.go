package types

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
	Total     int64  `json:"total,omitempty"`
}

// ProfileResponse is the profile shape returned from auth and profile
// endpoints; the stored resume JSON is never echoed back.
type ProfileResponse struct {
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Year         string `json:"year,omitempty"`
	Department   string `json:"department,omitempty"`
	Institution  string `json:"institution,omitempty"`
	Availability string `json:"availability,omitempty"`
}
