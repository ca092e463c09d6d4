package normalize

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/mailbox"
)

func b64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestPayloadPlainText(t *testing.T) {
	p := &mailbox.Part{MimeType: "text/plain", Data: b64("Net New MRR: $500")}

	body := Payload(p)

	if body.Text != "Net New MRR: $500" {
		t.Errorf("Text = %q", body.Text)
	}
	if body.HTML != "" {
		t.Errorf("HTML = %q, want empty for plain part", body.HTML)
	}
}

func TestPayloadNestedParts(t *testing.T) {
	p := &mailbox.Part{
		MimeType: "multipart/mixed",
		Parts: []*mailbox.Part{
			{MimeType: "multipart/alternative", Parts: []*mailbox.Part{
				{MimeType: "text/plain", Data: b64("inner text")},
			}},
		},
	}

	if got := Payload(p).Text; got != "inner text" {
		t.Errorf("Text = %q", got)
	}
}

func TestPayloadPrefersHTMLAtSameDepth(t *testing.T) {
	p := &mailbox.Part{
		MimeType: "multipart/alternative",
		Parts: []*mailbox.Part{
			{MimeType: "text/plain", Data: b64("plain version")},
			{MimeType: "text/html", Data: b64("<p>MTTR: 4.2m</p>")},
		},
	}

	body := Payload(p)

	if body.HTML == "" {
		t.Error("HTML should be retained alongside the text rendering")
	}
	if !strings.Contains(body.Text, "MTTR: 4.2m") {
		t.Errorf("Text = %q, want HTML rendering", body.Text)
	}
}

func TestPayloadShallowerPlainWins(t *testing.T) {
	p := &mailbox.Part{
		MimeType: "multipart/mixed",
		Parts: []*mailbox.Part{
			{MimeType: "text/plain", Data: b64("top-level plain")},
			{MimeType: "multipart/alternative", Parts: []*mailbox.Part{
				{MimeType: "text/html", Data: b64("<p>deep html</p>")},
			}},
		},
	}

	if got := Payload(p).Text; got != "top-level plain" {
		t.Errorf("Text = %q, want shallower plain part", got)
	}
}

func TestPayloadHTMLStripsMarkup(t *testing.T) {
	html := "<html><head><style>p{color:red}</style></head>" +
		"<body><p>Autonomy: 90%</p><p>MTTR: 4.2m</p></body></html>"
	p := &mailbox.Part{MimeType: "text/html", Data: b64(html)}

	body := Payload(p)

	if strings.Contains(body.Text, "color:red") {
		t.Errorf("style leaked into text: %q", body.Text)
	}
	// Block elements become separate lines so line-scoped extraction works.
	lines := strings.Split(body.Text, "\n")
	foundAutonomy, foundMTTR := false, false
	for _, l := range lines {
		if l == "Autonomy: 90%" {
			foundAutonomy = true
		}
		if l == "MTTR: 4.2m" {
			foundMTTR = true
		}
	}
	if !foundAutonomy || !foundMTTR {
		t.Errorf("paragraphs not line-separated: %q", body.Text)
	}
}

func TestPayloadInvalidBase64Degrades(t *testing.T) {
	p := &mailbox.Part{MimeType: "text/plain", Data: "!!not base64!!"}

	body := Payload(p)

	if body.Text != "" || body.HTML != "" {
		t.Errorf("expected empty body, got %+v", body)
	}
}

func TestPayloadNoBodyAnywhere(t *testing.T) {
	p := &mailbox.Part{
		MimeType: "multipart/mixed",
		Parts:    []*mailbox.Part{{MimeType: "application/pdf"}},
	}

	if body := Payload(p); body.Text != "" || body.HTML != "" {
		t.Errorf("expected empty body, got %+v", body)
	}
}

func TestPayloadNilTree(t *testing.T) {
	if body := Payload(nil); body.Text != "" || body.HTML != "" {
		t.Errorf("expected empty body for nil payload, got %+v", body)
	}
}

func TestPayloadLossyUTF8(t *testing.T) {
	raw := append([]byte("MTTR: 4.2m "), 0xff, 0xfe)
	p := &mailbox.Part{
		MimeType: "text/plain",
		Data:     base64.RawURLEncoding.EncodeToString(raw),
	}

	body := Payload(p)

	if !strings.Contains(body.Text, "MTTR: 4.2m") {
		t.Errorf("Text = %q", body.Text)
	}
	if strings.ContainsRune(body.Text, 0xFFFD) {
		t.Errorf("invalid bytes should be dropped, got %q", body.Text)
	}
}
