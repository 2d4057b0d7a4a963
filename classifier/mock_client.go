package classifier

import (
	"context"
	"strings"
)

// MockClient is a deterministic keyword-backed classifier for local
// development and tests.
type MockClient struct{}

// NewMockClient creates a new mock classifier.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Classifier interface.
var _ Classifier = (*MockClient)(nil)

var mockRules = []struct {
	keywords   []string
	label      string
	confidence float64
}{
	{[]string{"cancel"}, "cancellation", 0.92},
	{[]string{"refund", "money back"}, "refund", 0.90},
	{[]string{"order", "delivery", "where is", "track"}, "shipping", 0.88},
	{[]string{"hi", "hello", "hey"}, "greeting", 0.95},
	{[]string{"human", "agent", "representative"}, "human_agent", 0.85},
	{[]string{"return"}, "returns", 0.80},
	{[]string{"price", "cost"}, "pricing", 0.78},
}

// Classify matches the cleaned text against fixed keyword rules. Text
// matching no rule gets the "help" label with low confidence, which
// lands below the default threshold.
func (m *MockClient) Classify(ctx context.Context, text string) (*Prediction, error) {
	cleaned := Clean(text)
	for _, rule := range mockRules {
		for _, kw := range rule.keywords {
			if strings.Contains(cleaned, kw) {
				return &Prediction{Label: rule.label, Confidence: rule.confidence}, nil
			}
		}
	}
	return &Prediction{Label: "help", Confidence: 0.30}, nil
}
