package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Error writes an error response
func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// Success writes a 200 response wrapping data in the standard envelope
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response wrapping data in the standard envelope
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// NoContent writes a 204 response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Paginated writes a 200 response with data and paging metadata
func Paginated(w http.ResponseWriter, data interface{}, total, limit, offset int) {
	JSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       data,
		Pagination: &pagination{Total: total, Limit: limit, Offset: offset},
	})
}
