package dialog

import (
	"fmt"
	"math/rand"

	"github.com/kohara42/supportdesk/domain"
)

// Picker selects one of n fallback variants. math/rand's global source
// satisfies it and is safe for concurrent use; tests inject a
// deterministic picker.
type Picker interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// fallbackVariants are the low-confidence fallback replies. One is
// picked at random per fallback turn.
var fallbackVariants = []string{
	"I'm not sure I understood that. Could you rephrase?",
	"Sorry, I didn't quite get that. Can you say it differently?",
	"Hmm, I'm not certain what you mean. Could you try again?",
	"I didn't catch that. What would you like help with?",
	"I'm still learning. Could you put that another way?",
}

const (
	menuGreeting = "Hello! I can help you with:\n" +
		"- Tracking an order\n" +
		"- Delivery issues\n" +
		"- Refunds\n" +
		"- Cancelling an order\n" +
		"What would you like to do?"
	shortGreeting = "Hi again! What would you like help with?"

	orderIDPrompt       = "I can help with your order. Please share your order ID so I can check its status."
	cancelOrderIDPrompt = "Sure. Please share the order ID you would like to cancel."
	invalidOrderID      = "Please share a valid order ID (example: ORD12345)."

	refundPrompt    = "I can help with a refund. What is the reason for the refund?"
	refundSubmitted = "Refund request submitted. Your refund will be processed within 5-7 business days. Anything else I can help you with?"

	cancelAborted = "Cancellation aborted. Your order is still active."
	yesNoPrompt   = "Please reply with Yes or No."
	nothingToUndo = "There is no cancelled order to undo."

	humanHandoff = "Connecting you to a human support agent. Please wait..."
	helpFallback = "I'm here to help. You can ask about your order, delivery, refunds, or cancellations."
)

func orderDetails(info *domain.OrderInfo) string {
	return fmt.Sprintf("Order %s details:\nStatus: %s\nExpected delivery: %s\nCurrent location: %s\nCan I help you with anything else?",
		info.OrderNumber, info.Status, info.ExpectedDelivery, info.Location)
}

func orderNotFound(orderNumber string) string {
	return fmt.Sprintf("I couldn't find order %s. Please double-check the ID and try again.", orderNumber)
}

func confirmCancel(orderNumber string) string {
	return fmt.Sprintf("Are you sure you want to cancel order %s? Reply Yes or No.", orderNumber)
}

func cancelled(orderNumber string) string {
	return fmt.Sprintf("Order %s has been cancelled successfully. If this was a mistake, type 'undo'.", orderNumber)
}

func cannotCancel(orderNumber, reason string) string {
	if reason == "already delivered" {
		return fmt.Sprintf("Order %s has already been delivered and cannot be cancelled.", orderNumber)
	}
	return fmt.Sprintf("Order %s cannot be cancelled: %s.", orderNumber, reason)
}

func undone(orderNumber string) string {
	return fmt.Sprintf("Cancellation undone. Order %s is active again and currently in transit.", orderNumber)
}
