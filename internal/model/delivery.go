package model

import "context"

// CodeSender delivers a one-time code to its owner out of band.
type CodeSender interface {
	Send(ctx context.Context, email, code string) error
}

// CodeDelivery accepts codes for asynchronous delivery. Enqueue never blocks
// on the delivery itself.
type CodeDelivery interface {
	Enqueue(email, code string) error
}
