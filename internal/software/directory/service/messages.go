package service

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/directory"
)

// SendMessage stores a message from one parent to another. The receiver must
// be an existing account.
func (service *directoryService) SendMessage(ctx context.Context, senderID, receiverID, content string) (*directory.Message, error) {
	msg, err := directory.NewMessage(senderID, receiverID, content)
	if err != nil {
		return nil, err
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		exists, err := service.userRepo.Exists(txCtx, msg.ReceiverID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: user %s", carpool.ErrNotFound, msg.ReceiverID)
		}

		return service.messageRepo.Create(txCtx, msg)
	})
	if err != nil {
		service.logger.Error(ctx, "message_send_failed", "Failed to send message", err, map[string]any{
			"sender_id":   senderID,
			"receiver_id": receiverID,
		})
		return nil, err
	}

	service.logger.Info(ctx, "message_sent", fmt.Sprintf("Message %s sent", msg.ID), map[string]any{
		"message_id":  msg.ID,
		"sender_id":   senderID,
		"receiver_id": receiverID,
	})

	return msg, nil
}

// ListMessages returns the user's sent and received messages, newest first.
func (service *directoryService) ListMessages(ctx context.Context, userID string) ([]*directory.Message, error) {
	var msgs []*directory.Message
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		msgs, err = service.messageRepo.ListForUser(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkMessageRead flags a received message as read.
func (service *directoryService) MarkMessageRead(ctx context.Context, messageID, readerID string) error {
	return service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.messageRepo.MarkRead(txCtx, messageID, readerID)
	})
}
