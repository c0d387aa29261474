package chat

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// MessageKind tags how Content must be interpreted by a renderer.
type MessageKind string

const (
	KindText              MessageKind = "text"
	KindRecommendations   MessageKind = "recommendations"
	KindOrderConfirmation MessageKind = "order_confirmation"
	KindOrderList         MessageKind = "order_list"
	KindOrderInfo         MessageKind = "order_info"
)

// Message is one transcript entry. Immutable once appended; the transcript
// is never reordered.
type Message struct {
	Content any         `json:"content"`
	Sender  Sender      `json:"sender"`
	Kind    MessageKind `json:"kind"`
}

// Fixed bot texts. The welcome line doubles as the reset greeting.
const (
	welcomeText = "Welcome! I'm BookWorm, your virtual assistant. I'm here to help you browse and find the perfect book for your collection. Ready to start exploring?"

	recommendationIntroText    = "Based on our conversation, here are some book recommendations for you:"
	recommendationFollowUpText = "Would you like more recommendations or have any other questions?"

	orderListIntroText    = "Here are your recent orders:"
	orderListFollowUpText = "You can view the details of any order or ask me something else."
	noOrdersText          = "You don't have any orders yet. Would you like to browse some books?"

	orderInfoIntroText = "Here's the current status of your order:"

	classifierApologyText = "I'm sorry, I'm having trouble processing your request. Please try again later."
	orderApologyText      = "I'm sorry, there was an error placing your order. Please try again."

	// Substituted when the classifier omits a per-book reason.
	reasonPlaceholderText = "Recommended based on your reading interests."
)

func botText(content string) Message {
	return Message{Content: content, Sender: SenderBot, Kind: KindText}
}

func userText(content string) Message {
	return Message{Content: content, Sender: SenderUser, Kind: KindText}
}
