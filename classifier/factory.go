package classifier

import (
	"log"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "SUPPORTDESK_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewClassifier creates a classifier based on the SUPPORTDESK_MODE
// environment variable. If SUPPORTDESK_MODE=MOCK, returns a MockClient;
// otherwise returns a real Client.
func NewClassifier(baseURL string, timeout time.Duration) Classifier {
	mode := os.Getenv(EnvMode)

	if mode == ModeMock {
		log.Println("SUPPORTDESK_MODE=MOCK detected, using mock classifier")
		return NewMockClient()
	}

	return NewClient(baseURL, timeout)
}
