package chatbot

import (
	"context"
	"errors"
	"log"
	"time"
)

var (
	// ErrEmptyMessage rejects blank or whitespace-only submissions at the
	// boundary; nothing is appended and no error message is shown.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy rejects a submission while a previous one is still resolving.
	ErrBusy = errors.New("a response is already in progress")
)

// QuestionRecorder receives raw user questions for analytics. Failures are
// logged and swallowed; the conversation flow never waits on it.
type QuestionRecorder interface {
	RecordQuestion(ctx context.Context, question string) error
}

// Controller drives conversations: it accepts submissions, records the raw
// question in the background, resolves an answer, and applies the resulting
// transition. One controller serves all sessions; per-session state lives in
// the Conversation.
type Controller struct {
	resolver *Resolver
	recorder QuestionRecorder
	minDelay time.Duration
}

// NewController wires a controller. minDelay is the minimum time before the
// bot answer surfaces, so replies don't land jarringly fast; pass 0 to
// disable (tests do).
func NewController(resolver *Resolver, recorder QuestionRecorder, minDelay time.Duration) *Controller {
	return &Controller{resolver: resolver, recorder: recorder, minDelay: minDelay}
}

// Submit runs one full user turn against conv and returns the bot message
// that was appended. At most one turn may be in flight per conversation;
// overlapping submissions get ErrBusy, blank ones ErrEmptyMessage.
func (ct *Controller) Submit(ctx context.Context, conv *Conversation, text string) (Message, error) {
	if !conv.Apply(Command{Kind: CmdSubmit, Text: text}) {
		if conv.Awaiting() {
			return Message{}, ErrBusy
		}
		return Message{}, ErrEmptyMessage
	}

	ct.recordQuestion(text)

	started := time.Now()
	answer := ct.resolver.Resolve(ctx, text, conv.RemoteEnabled())
	ct.holdForMinDelay(ctx, started)

	// Local resolution is total, so answer is non-empty; the error
	// transition stays as a defensive last resort.
	if answer == "" {
		conv.Apply(Command{Kind: CmdReceiveError})
	} else {
		conv.Apply(Command{Kind: CmdReceiveAnswer, Text: answer})
	}

	msg, ok := conv.LastMessage()
	if !ok {
		return Message{}, errors.New("conversation has no messages")
	}
	return msg, nil
}

// recordQuestion fires the analytics write without joining it. A panicking
// or failing recorder must never take down the conversation flow.
func (ct *Controller) recordQuestion(question string) {
	if ct.recorder == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[chatbot] question recorder panic: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ct.recorder.RecordQuestion(ctx, question); err != nil {
			log.Printf("[chatbot] failed to record question: %v", err)
		}
	}()
}

func (ct *Controller) holdForMinDelay(ctx context.Context, started time.Time) {
	remaining := ct.minDelay - time.Since(started)
	if remaining <= 0 {
		return
	}
	t := time.NewTimer(remaining)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
