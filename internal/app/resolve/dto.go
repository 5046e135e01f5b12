package resolve

import "rpverse/internal/domain/rp"

// Request carries the chat message context: sender identity, the user being
// replied to (if any), explicit mentions, and the raw text. MessageID, when
// present, deduplicates redelivered webhooks.
type Request struct {
	MessageID string    `json:"message_id,omitempty"`
	Sender    rp.User   `json:"sender"`
	ReplyTo   *rp.User  `json:"reply_to,omitempty"`
	Mentions  []rp.User `json:"mentions,omitempty"`
	Text      string    `json:"text"`
}

// Response is either a committed outcome or a business-rule rejection,
// never both. Infrastructure failures surface as errors instead.
type Response struct {
	Outcome   *rp.Outcome   `json:"outcome,omitempty"`
	Rejection *rp.Rejection `json:"rejection,omitempty"`

	// Replayed marks a response served from the idempotency record.
	Replayed bool `json:"replayed,omitempty"`
}
