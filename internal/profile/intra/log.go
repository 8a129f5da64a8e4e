package intra

import (
	"log"
	"time"
)

// LogRequest logs an outbound platform request.
func LogRequest(service, method, url string, params map[string]any) {
	if len(params) > 0 {
		log.Printf("[%s] %s %s params=%v", service, method, url, params)
	} else {
		log.Printf("[%s] %s %s", service, method, url)
	}
}

// LogResponse logs a platform response.
func LogResponse(service string, statusCode int, duration time.Duration, resultCount int) {
	log.Printf("[%s] response status=%d duration=%dms results=%d",
		service, statusCode, duration.Milliseconds(), resultCount)
}

// LogError logs a failed platform operation.
func LogError(service, operation string, err error) {
	log.Printf("[%s] %s error: %v", service, operation, err)
}
