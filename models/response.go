package models

// Response represents a generic API response structure.
type Response struct {
	Success      int         `json:"success"`
	ErrorCode    string      `json:"error_code,omitempty"`
	ErrorDetails string      `json:"error_details,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

// ResultResponse reports the outcome of a delete.
type ResultResponse struct {
	Result string `json:"result"`
}

// Link is a relation to another resource of the API.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Greeting is served at the API root and points at the collections.
type Greeting struct {
	Greeting string `json:"greeting"`
	Users    Link   `json:"users"`
	Groups   Link   `json:"groups"`
}
