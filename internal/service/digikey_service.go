package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"app/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Digi-Key blocks requests carrying Go's default client identifier, so the PDF
// download has to present a browser User-Agent.
const browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/104.0.0.0 Safari/537.36"

// invoiceUUIDPattern matches the invoice identifier embedded in the tracking
// redirect's inline script. It is pattern-matched only, never parsed as a UUID.
var invoiceUUIDPattern = regexp.MustCompile(`[a-z0-9]{8}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{12}`)

// DigiKeyService turns a Digi-Key notification email into a forwarded invoice
// PDF: extract the review link, resolve the tracking redirect to an invoice
// UUID, download the PDF, forward it. Every stage short-circuits on an absent
// result without failing the invocation.
type DigiKeyService interface {
	ProcessEmail(ctx context.Context, htmlBody string)
}

type digiKeyService struct {
	pdfURL    string
	vendor    model.Vendor
	forwarder Forwarder
	client    *http.Client
	logger    zerolog.Logger
}

func NewDigiKeyService(pdfURL string, vendor model.Vendor, fwd Forwarder, logger zerolog.Logger) DigiKeyService {
	return &digiKeyService{
		pdfURL:    pdfURL,
		vendor:    vendor,
		forwarder: fwd,
		client: &http.Client{
			// The tracking URL answers with a 302 that must be inspected, not followed.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.With().Str("service", "DigiKeyService").Logger(),
	}
}

func (s *digiKeyService) ProcessEmail(ctx context.Context, htmlBody string) {
	trackingURL := invoiceTrackingURL(htmlBody)
	if trackingURL == "" {
		s.logger.Debug().Msg("No invoice review link found in Digi-Key email")
		return
	}

	invoiceUUID, err := s.invoiceUUID(ctx, trackingURL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not extract invoice UUID")
		return
	}

	pdfBinary, err := s.downloadPDF(ctx, invoiceUUID)
	if err != nil {
		s.logger.Warn().Err(err).Str("invoice_uuid", invoiceUUID).Msg("Could not download invoice PDF")
		return
	}

	if err := s.forwarder.ForwardPDF(ctx, s.vendor, base64.StdEncoding.EncodeToString(pdfBinary)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to forward Digi-Key invoice")
	}
}

// invoiceTrackingURL scans the email HTML for anchors whose text is exactly
// "Review Invoice" and returns the last one's href, or "" if there is none.
func invoiceTrackingURL(htmlBody string) string {
	doc, err := html.Parse(strings.NewReader(htmlBody))
	if err != nil {
		// html.Parse is lenient; this only happens on reader errors.
		return ""
	}

	var trackingURL string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attrValue(n, "href"); ok && nodeText(n) == "Review Invoice" {
				trackingURL = href
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return trackingURL
}

// invoiceUUID resolves the tracking URL and pulls the invoice UUID out of the
// redirect page's first inline script.
func (s *digiKeyService) invoiceUUID(ctx context.Context, trackingURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", trackingURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("accessing tracking URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		return "", fmt.Errorf("digi-key returned %d when accessing tracking URL", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing tracking redirect body: %w", err)
	}

	script := firstScriptText(doc)
	if script == "" {
		return "", fmt.Errorf("no inline script in tracking redirect body")
	}

	match := invoiceUUIDPattern.FindString(script)
	if match == "" {
		return "", fmt.Errorf("no invoice UUID in redirect JavaScript")
	}

	return match, nil
}

// downloadPDF fetches the invoice PDF for a UUID and returns its raw bytes.
func (s *digiKeyService) downloadPDF(ctx context.Context, invoiceUUID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := req.URL.Query()
	q.Set("id", invoiceUUID)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("digi-key returned %d when downloading PDF", resp.StatusCode)
	}

	pdfBinary, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading PDF body: %w", err)
	}

	return pdfBinary, nil
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// nodeText concatenates the text content under a node.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// firstScriptText returns the text content of the first script element in
// document order, or "" if the document has none.
func firstScriptText(doc *html.Node) string {
	var script string
	var found bool
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			script = nodeText(n)
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return script
}
