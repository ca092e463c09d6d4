// Package normalize decodes a raw message payload tree into plain text and,
// where available, HTML.
//
// The contract is total and deterministic: any payload tree, however
// malformed, yields a Body. Decode failures degrade to empty strings and
// never surface as errors.
package normalize

import (
	"encoding/base64"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/mailbox"
)

const (
	mimeHTML = "text/html"
	mimeText = "text/plain"
)

// Body is the normalized rendering of one message body.
type Body struct {
	HTML string
	Text string
}

// Payload walks the MIME part tree depth-first and decodes the first body
// it finds, preferring a text/html node over text/plain when the HTML node
// sits at the same or a shallower depth. A tree with no body bytes yields
// an empty Body.
func Payload(root *mailbox.Part) Body {
	htmlNode, htmlDepth := findPart(root, mimeHTML, 0)
	textNode, textDepth := findPart(root, mimeText, 0)

	if htmlNode != nil && (textNode == nil || htmlDepth <= textDepth) {
		raw := decodeBody(htmlNode.Data)
		if len(raw) > 0 {
			return Body{HTML: string(raw), Text: htmlToText(string(raw))}
		}
	}
	if textNode != nil {
		raw := decodeBody(textNode.Data)
		if len(raw) > 0 {
			return Body{Text: strings.ToValidUTF8(string(raw), "")}
		}
	}
	return Body{}
}

// findPart returns the first node (in depth-first order) whose MIME type
// contains mime and which carries body bytes, along with its depth.
func findPart(p *mailbox.Part, mime string, depth int) (*mailbox.Part, int) {
	if p == nil {
		return nil, 0
	}
	if p.Data != "" && strings.Contains(p.MimeType, mime) {
		return p, depth
	}
	for _, sub := range p.Parts {
		if found, d := findPart(sub, mime, depth+1); found != nil {
			return found, d
		}
	}
	return nil, 0
}

// decodeBody decodes Gmail-style base64url body data. Providers are
// inconsistent about padding and alphabet, so try the variants before
// giving up; an undecodable body is a degradation, not an error.
func decodeBody(data string) []byte {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
	} {
		if raw, err := enc.DecodeString(data); err == nil {
			return raw
		}
	}
	return nil
}

// htmlToText renders HTML as plain text. Script and style bodies are
// dropped; block-ish containers become line breaks so line-scoped
// extraction keywords still land on one line each.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Unparseable HTML: strip nothing, let extraction see raw text.
		return strings.ToValidUTF8(html, "")
	}
	doc.Find("script, style").Remove()

	var sb strings.Builder
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	sb.WriteString(doc.Text())

	return collapseBlankLines(sb.String())
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.ToValidUTF8(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
