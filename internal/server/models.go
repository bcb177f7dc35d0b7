package server

import "time"

// GenerateRequest is the batch endpoint payload.
type GenerateRequest struct {
	URLs  []string `json:"urls"`
	Style string   `json:"style"`
}

type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionCitationRequest struct {
	URL   string `json:"url"`
	Style string `json:"style"`
}

type SessionExportRequest struct {
	Style    string `json:"style"`
	Filename string `json:"filename"`
}

// MessageResponse carries the textual result of a generator operation.
type MessageResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
