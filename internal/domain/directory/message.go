package directory

import (
	"fmt"
	"strings"
	"time"

	"kids-carpool/internal/domain/carpool"
)

// Message is a free-text note between two parents. Plain record storage,
// no delivery semantics.
type Message struct {
	ID        string
	CreatedAt time.Time

	SenderID   string
	ReceiverID string

	Content string
	IsRead  bool
}

var (
	ErrSenderRequired   = fmt.Errorf("%w: sender id is required", carpool.ErrValidation)
	ErrReceiverRequired = fmt.Errorf("%w: receiver id is required", carpool.ErrValidation)
	ErrContentRequired  = fmt.Errorf("%w: message content is required", carpool.ErrValidation)
	ErrSelfMessage      = fmt.Errorf("%w: sender and receiver must differ", carpool.ErrValidation)
)

// NewMessage validates and constructs a message record.
func NewMessage(senderID, receiverID, content string) (*Message, error) {
	if senderID = strings.TrimSpace(senderID); senderID == "" {
		return nil, ErrSenderRequired
	}
	if receiverID = strings.TrimSpace(receiverID); receiverID == "" {
		return nil, ErrReceiverRequired
	}
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}
	if content = strings.TrimSpace(content); content == "" {
		return nil, ErrContentRequired
	}

	return &Message{
		CreatedAt:  time.Now().UTC(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}, nil
}
