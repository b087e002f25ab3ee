package server

// PiResponse is the body of a /pi response. Value is omitted and Error set
// when the computation failed.
type PiResponse struct {
	Digits   int    `json:"digits"`
	Threads  int    `json:"threads"`
	Engine   string `json:"engine"`
	Value    string `json:"value,omitempty"`
	Duration string `json:"duration"`
	Cached   bool   `json:"cached"`
	Error    string `json:"error,omitempty"`
}

// ErrorResponse is the body of every 4xx response.
type ErrorResponse struct {
	// Error is the HTTP status text.
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// paramError is a query parameter problem reported as 400.
type paramError struct {
	Message string
}

func (e paramError) Error() string {
	return e.Message
}
