package chatbot

import (
	"context"
	"log"
)

// Resolver turns a user utterance into exactly one non-empty answer: a single
// remote attempt when enabled, then the local knowledge base. Local
// resolution is total, so Resolve itself cannot fail.
type Resolver struct {
	remote RemoteResponder
	kb     *KnowledgeBase
}

// NewResolver wires a resolver. remote may be nil, in which case every
// utterance resolves locally regardless of the enabled flag.
func NewResolver(remote RemoteResponder, kb *KnowledgeBase) *Resolver {
	return &Resolver{remote: remote, kb: kb}
}

// Resolve expects a trimmed, non-empty utterance (the submission boundary
// rejects everything else). A failed or disabled remote degrades silently to
// the local answer; the caller cannot tell the two apart.
func (r *Resolver) Resolve(ctx context.Context, text string, remoteEnabled bool) string {
	if remoteEnabled && r.remote != nil {
		answer, err := r.remote.Generate(ctx, text)
		if err == nil {
			return answer
		}
		log.Printf("[chatbot] remote responder failed, falling back to local: %v", err)
	}
	return r.kb.ResolveLocal(text)
}
