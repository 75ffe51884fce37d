package models

import "time"

// ActionResponse имеет вид {status, message, data}.
type ActionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse: единый формат ошибки API.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Status  int               `json:"status"`
}

type HealthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}
