package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

type fakeForwarder struct {
	vendors  []model.Vendor
	contents []string
	err      error
}

func (f *fakeForwarder) ForwardPDF(ctx context.Context, vendor model.Vendor, contentBase64 string) error {
	f.vendors = append(f.vendors, vendor)
	f.contents = append(f.contents, contentBase64)
	return f.err
}

func TestInvoiceTrackingURLFound(t *testing.T) {
	htmlBody := `<html><body><p>Your order shipped.</p><a href="https://track.example/x">Review Invoice</a></body></html>`
	if got := invoiceTrackingURL(htmlBody); got != "https://track.example/x" {
		t.Fatalf("expected tracking URL, got %q", got)
	}
}

func TestInvoiceTrackingURLAbsent(t *testing.T) {
	cases := map[string]string{
		"no anchors":      `<html><body><p>digikey order update</p></body></html>`,
		"wrong text":      `<html><body><a href="https://track.example/x">View Order</a></body></html>`,
		"anchor, no href": `<html><body><a>Review Invoice</a></body></html>`,
		"empty":           ``,
	}
	for name, htmlBody := range cases {
		if got := invoiceTrackingURL(htmlBody); got != "" {
			t.Fatalf("%s: expected no tracking URL, got %q", name, got)
		}
	}
}

func TestInvoiceTrackingURLLastMatchWins(t *testing.T) {
	htmlBody := `<a href="https://track.example/first">Review Invoice</a><a href="https://track.example/second">Review Invoice</a>`
	if got := invoiceTrackingURL(htmlBody); got != "https://track.example/second" {
		t.Fatalf("expected last matching href, got %q", got)
	}
}

func TestInvoiceTrackingURLMalformedHTML(t *testing.T) {
	// html.Parse is lenient; unclosed tags must not panic or error out.
	htmlBody := `<html><body><div><a href="https://track.example/x">Review Invoice`
	if got := invoiceTrackingURL(htmlBody); got != "https://track.example/x" {
		t.Fatalf("expected tracking URL from malformed HTML, got %q", got)
	}
}

func newTestDigiKeyService(pdfURL string, fwd Forwarder) *digiKeyService {
	svc := NewDigiKeyService(pdfURL, model.DigiKeyVendor("purchasing@example.org"), fwd, zerolog.Nop())
	return svc.(*digiKeyService)
}

func TestInvoiceUUIDExtracted(t *testing.T) {
	tracking := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
		fmt.Fprint(w, `<html><head><script>window.location = "/invoice/1a2b3c4d-1234-5678-9abc-1234567890ab";</script></head></html>`)
	}))
	defer tracking.Close()

	svc := newTestDigiKeyService("http://unused.example", &fakeForwarder{})
	got, err := svc.invoiceUUID(context.Background(), tracking.URL)
	if err != nil {
		t.Fatalf("invoiceUUID returned error: %v", err)
	}
	if got != "1a2b3c4d-1234-5678-9abc-1234567890ab" {
		t.Fatalf("expected UUID, got %q", got)
	}
}

func TestInvoiceUUIDRequires302(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusMovedPermanently, http.StatusInternalServerError} {
		tracking := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			fmt.Fprint(w, `<script>var id = "1a2b3c4d-1234-5678-9abc-1234567890ab";</script>`)
		}))

		svc := newTestDigiKeyService("http://unused.example", &fakeForwarder{})
		if _, err := svc.invoiceUUID(context.Background(), tracking.URL); err == nil {
			t.Fatalf("status %d: expected error, got none", status)
		}
		tracking.Close()
	}
}

func TestInvoiceUUIDNoMatchInScript(t *testing.T) {
	tracking := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
		fmt.Fprint(w, `<html><script>window.location = "/login";</script></html>`)
	}))
	defer tracking.Close()

	svc := newTestDigiKeyService("http://unused.example", &fakeForwarder{})
	if _, err := svc.invoiceUUID(context.Background(), tracking.URL); err == nil {
		t.Fatal("expected error when script has no UUID, got none")
	}
}

func TestInvoiceUUIDNoScript(t *testing.T) {
	tracking := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
		fmt.Fprint(w, `<html><body>redirecting</body></html>`)
	}))
	defer tracking.Close()

	svc := newTestDigiKeyService("http://unused.example", &fakeForwarder{})
	if _, err := svc.invoiceUUID(context.Background(), tracking.URL); err == nil {
		t.Fatal("expected error when body has no script, got none")
	}
}

func TestDownloadPDF(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 test content")
	pdf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != browserUserAgent {
			t.Errorf("expected browser User-Agent, got %q", ua)
		}
		if id := r.URL.Query().Get("id"); id != "1a2b3c4d-1234-5678-9abc-1234567890ab" {
			t.Errorf("expected invoice UUID query param, got %q", id)
		}
		w.Write(pdfBytes)
	}))
	defer pdf.Close()

	svc := newTestDigiKeyService(pdf.URL, &fakeForwarder{})
	got, err := svc.downloadPDF(context.Background(), "1a2b3c4d-1234-5678-9abc-1234567890ab")
	if err != nil {
		t.Fatalf("downloadPDF returned error: %v", err)
	}
	if !bytes.Equal(got, pdfBytes) {
		t.Fatalf("expected PDF bytes %q, got %q", pdfBytes, got)
	}
}

func TestDownloadPDFRequires200(t *testing.T) {
	pdf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer pdf.Close()

	svc := newTestDigiKeyService(pdf.URL, &fakeForwarder{})
	if _, err := svc.downloadPDF(context.Background(), "1a2b3c4d-1234-5678-9abc-1234567890ab"); err == nil {
		t.Fatal("expected error on non-200 response, got none")
	}
}

func TestProcessEmailForwardsInvoice(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 full flow")
	var pdfDownloads int
	pdf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pdfDownloads++
		w.Write(pdfBytes)
	}))
	defer pdf.Close()

	tracking := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
		fmt.Fprint(w, `<html><script>var invoice = "1a2b3c4d-1234-5678-9abc-1234567890ab";</script></html>`)
	}))
	defer tracking.Close()

	fwd := &fakeForwarder{}
	svc := newTestDigiKeyService(pdf.URL, fwd)
	htmlBody := fmt.Sprintf(`<html><body>Thanks for your digikey order. <a href="%s">Review Invoice</a></body></html>`, tracking.URL)
	svc.ProcessEmail(context.Background(), htmlBody)

	if pdfDownloads != 1 {
		t.Fatalf("expected 1 PDF download, got %d", pdfDownloads)
	}
	if len(fwd.contents) != 1 {
		t.Fatalf("expected 1 forward call, got %d", len(fwd.contents))
	}
	if want := base64.StdEncoding.EncodeToString(pdfBytes); fwd.contents[0] != want {
		t.Fatalf("expected base64 PDF content %q, got %q", want, fwd.contents[0])
	}
	if fwd.vendors[0].Subject != "Invoice for Digi-Key transaction" {
		t.Fatalf("expected Digi-Key subject, got %q", fwd.vendors[0].Subject)
	}
	if fwd.vendors[0].AttachmentName != "invoice.pdf" {
		t.Fatalf("expected invoice.pdf attachment name, got %q", fwd.vendors[0].AttachmentName)
	}
}

func TestProcessEmailTrackingFailureShortCircuits(t *testing.T) {
	var pdfDownloads int
	pdf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pdfDownloads++
	}))
	defer pdf.Close()

	tracking := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer tracking.Close()

	fwd := &fakeForwarder{}
	svc := newTestDigiKeyService(pdf.URL, fwd)
	htmlBody := fmt.Sprintf(`<a href="%s">Review Invoice</a>`, tracking.URL)
	svc.ProcessEmail(context.Background(), htmlBody)

	if pdfDownloads != 0 {
		t.Fatalf("expected no PDF downloads after tracking failure, got %d", pdfDownloads)
	}
	if len(fwd.contents) != 0 {
		t.Fatalf("expected no forward calls after tracking failure, got %d", len(fwd.contents))
	}
}

func TestProcessEmailNoLinkShortCircuits(t *testing.T) {
	fwd := &fakeForwarder{}
	svc := newTestDigiKeyService("http://unused.example", fwd)
	svc.ProcessEmail(context.Background(), `<html><body>digikey order received</body></html>`)

	if len(fwd.contents) != 0 {
		t.Fatalf("expected no forward calls without a review link, got %d", len(fwd.contents))
	}
}
