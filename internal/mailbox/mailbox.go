// Package mailbox retrieves candidate report messages from the upstream
// mail provider. Retrieval (auth, querying, pagination) is an external
// collaborator to the extraction core: it surfaces a single pass/fail
// signal and an ordered batch of raw message payloads, nothing more.
package mailbox

import "context"

// Part is one node of a message's MIME part tree. Data holds the
// base64url-encoded body bytes, when the node carries any.
type Part struct {
	MimeType string
	Data     string
	Parts    []*Part
}

// Message is one retrieved message: provider id, headers, snippet and the
// raw payload tree. The body is decoded later by the normalizer.
type Message struct {
	ID      string
	From    string
	To      string
	Subject string
	Date    string
	Snippet string
	Payload *Part
}

// Source lists candidate messages for one batch run. Implementations must
// return messages in retrieval order; the pipeline processes them strictly
// sequentially.
type Source interface {
	List(ctx context.Context, query string, maxResults int64) ([]Message, error)
}
