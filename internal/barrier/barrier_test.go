package barrier

import (
	"strings"
	"testing"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

func TestDetectKinds(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		body string
		want types.BarrierKind
	}{
		{"clean page", "<html><body><h1>The Theory of the Leisure Class</h1><p>Chapter One</p></body></html>", types.BarrierNone},
		{"empty", "", types.BarrierNone},
		{"paywall subscribe", "Please subscribe to continue reading this article.", types.BarrierPaywall},
		{"paywall price", "Pay $39.95 to access the full text.", types.BarrierPaywall},
		{"paywall members", "This content is for members only.", types.BarrierPaywall},
		{"login wall", "Sign in to continue to your institution's resources.", types.BarrierLoginRequired},
		{"login institutional", "Access via institutional access is available.", types.BarrierLoginRequired},
		{"preview", "This book offers a limited preview. Some pages are omitted.", types.BarrierPreviewOnly},
		{"preview pages", "Showing 12 of 340 pages.", types.BarrierPreviewOnly},
		{"soft 404 title", "<title>404 Not Found</title>", types.BarrierSoft404},
		{"soft 404 doi", "DOI not found. The identifier you entered is invalid.", types.BarrierSoft404},
		{"soft 404 phrase", "Sorry, we couldn't locate the page you requested.", types.BarrierSoft404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.body)
			if got.Kind != tt.want {
				t.Errorf("Detect(%q).Kind = %v, want %v (detail %q)", tt.body, got.Kind, tt.want, got.Detail)
			}
			if got.Detail == "" {
				t.Error("Detail must never be empty")
			}
		})
	}
}

// Priority ordering is absolute: a page matching soft-404 must be reported
// as soft-404 even when it also matches paywall, login, and preview rules.
func TestSoft404OutranksEverything(t *testing.T) {
	d := NewDetector()
	body := strings.Join([]string{
		"<title>404 Not Found</title>",
		"Subscribe to continue.",
		"Please sign in to your account.",
		"Limited preview available.",
	}, "\n")

	got := d.Detect(body)
	if got.Kind != types.BarrierSoft404 {
		t.Fatalf("Kind = %v, want BarrierSoft404", got.Kind)
	}
}

func TestPaywallOutranksLoginAndPreview(t *testing.T) {
	d := NewDetector()
	body := "Subscription required. Please sign in to continue. Limited preview."
	if got := d.Detect(body); got.Kind != types.BarrierPaywall {
		t.Fatalf("Kind = %v, want BarrierPaywall", got.Kind)
	}
}

func TestLoginOutranksPreview(t *testing.T) {
	d := NewDetector()
	body := "Authentication required to view more than this limited preview."
	if got := d.Detect(body); got.Kind != types.BarrierLoginRequired {
		t.Fatalf("Kind = %v, want BarrierLoginRequired", got.Kind)
	}
}

func TestDetailNamesMatchedRule(t *testing.T) {
	d := NewDetector()
	got := d.Detect("Subscribe to continue")
	if got.Detail != "Paywall detected: subscription required" {
		t.Errorf("Detail = %q", got.Detail)
	}
}

func TestCaseInsensitive(t *testing.T) {
	d := NewDetector()
	if got := d.Detect("SUBSCRIBE NOW TO CONTINUE"); got.Kind != types.BarrierPaywall {
		t.Errorf("uppercase paywall text not detected: %v", got.Kind)
	}
}
