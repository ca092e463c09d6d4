package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUser = "me"

// DefaultQuery pulls recent messages under the report label.
const DefaultQuery = `label:"cw/daily-reports" newer_than:2d`

// DefaultMaxResults caps one batch.
const DefaultMaxResults = 30

// GmailConfig configures the Gmail source.
type GmailConfig struct {
	// CredentialsFile is the OAuth client secret JSON. Required.
	CredentialsFile string

	// TokenFile holds the cached OAuth token. A missing or expired token is
	// an authentication failure; minting tokens is an operator step, not
	// something a batch run does interactively.
	TokenFile string

	// Query is the Gmail search expression. Default: DefaultQuery.
	Query string

	// MaxResults limits the batch size. Default: DefaultMaxResults.
	MaxResults int64
}

func (c *GmailConfig) query() string {
	if c.Query == "" {
		return DefaultQuery
	}
	return c.Query
}

func (c *GmailConfig) maxResults() int64 {
	if c.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return c.MaxResults
}

// GmailSource implements Source against the Gmail API.
type GmailSource struct {
	srv *gmail.Service
	cfg GmailConfig
}

// NewGmailSource authenticates against Gmail. Any failure here is the
// single pass/fail auth signal the pipeline sees.
func NewGmailSource(ctx context.Context, cfg GmailConfig) (*GmailSource, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret file: %w", err)
	}
	tok, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("reading oauth token %q: %w", cfg.TokenFile, err)
	}
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauthClient(ctx, oauthConfig, tok)))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return &GmailSource{srv: srv, cfg: cfg}, nil
}

// List runs the configured query and fetches each matching message in full,
// preserving the provider's result order.
func (g *GmailSource) List(ctx context.Context, query string, maxResults int64) ([]Message, error) {
	if query == "" {
		query = g.cfg.query()
	}
	if maxResults <= 0 {
		maxResults = g.cfg.maxResults()
	}

	res, err := g.srv.Users.Messages.List(gmailUser).Q(query).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	var out []Message
	for _, ref := range res.Messages {
		full, err := g.srv.Users.Messages.Get(gmailUser, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("fetching message %s: %w", ref.Id, err)
		}
		out = append(out, toMessage(full))
	}
	return out, nil
}

func toMessage(m *gmail.Message) Message {
	msg := Message{
		ID:      m.Id,
		Snippet: m.Snippet,
	}
	if m.Payload == nil {
		return msg
	}
	for _, h := range m.Payload.Headers {
		switch h.Name {
		case "From":
			msg.From = h.Value
		case "To":
			msg.To = h.Value
		case "Subject":
			msg.Subject = h.Value
		case "Date":
			msg.Date = h.Value
		}
	}
	msg.Payload = toPart(m.Payload)
	return msg
}

func toPart(p *gmail.MessagePart) *Part {
	if p == nil {
		return nil
	}
	part := &Part{MimeType: p.MimeType}
	if p.Body != nil {
		part.Data = p.Body.Data
	}
	for _, sub := range p.Parts {
		part.Parts = append(part.Parts, toPart(sub))
	}
	return part
}

func oauthClient(ctx context.Context, config *oauth2.Config, tok *oauth2.Token) *http.Client {
	return config.Client(ctx, tok)
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}
