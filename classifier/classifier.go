// Package classifier provides an abstraction over the external intent
// classification service.
package classifier

import "context"

// Prediction is the classifier's output for one utterance: the top
// intent label and a calibrated confidence in [0,1].
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier defines the interface for intent classification.
// Implementations must be stable: the same input yields the same
// prediction absent retraining.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Prediction, error)
}

// Ensure Client implements Classifier interface.
var _ Classifier = (*Client)(nil)
