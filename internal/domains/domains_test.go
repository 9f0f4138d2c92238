package domains

import (
	"testing"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

func TestHost(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "https://example.com/page", "example.com"},
		{"strips www", "https://www.jstor.org/stable/123", "jstor.org"},
		{"lowercases", "https://Archive.ORG/details/x", "archive.org"},
		{"port ignored", "http://localhost:8080/x", "localhost"},
		{"no scheme", "not a url at all", ""},
		{"empty", "", ""},
		{"garbage", "ht!tp://%%%", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Host(tt.url); got != tt.want {
				t.Errorf("Host(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		url  string
		want types.Tier
	}{
		{"https://doi.org/10.1126/science.185.4157.1124", types.TierPersistent},
		{"https://dx.doi.org/10.1000/182", types.TierPersistent},
		{"https://web.archive.org/web/2019/http://x.com", types.TierPersistent},
		{"https://archive.org/details/theoryofleisurec01vebl", types.TierPersistent},
		{"https://www.jstor.org/stable/1738360", types.TierPersistent},
		{"https://plato.stanford.edu/entries/fallacies/", types.TierInstitutional},
		{"https://www.cdc.gov/niosh/", types.TierInstitutional},
		{"https://press.uchicago.edu/ucp/books", types.TierInstitutional},
		{"https://www.universitypressscholarship.com/view/1", types.TierPublisher},
		{"https://www.apa.org/monitor", types.TierPublisher},
		{"https://www.amazon.com/dp/B000000", types.TierPurchase},
		{"https://example.com/blog/post", types.TierOther},
		{"%%%not-a-url", types.TierOther},
	}
	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := c.Classify(tt.url).Tier; got != tt.want {
				t.Errorf("Classify(%q).Tier = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// The curated paywall and free sets must never overlap, and classification
// must respect the split exhaustively over both lists.
func TestPaywallFreeSetsDisjoint(t *testing.T) {
	c := NewClassifier()

	for _, d := range defaultPaywallDomains {
		info := c.Classify("https://www." + d + "/article/1")
		if !info.KnownPaywall {
			t.Errorf("%s: expected KnownPaywall", d)
		}
		if info.KnownFree {
			t.Errorf("%s: paywall domain classified as free", d)
		}
	}
	for _, d := range defaultFreeDomains {
		info := c.Classify("https://" + d + "/item/2")
		if !info.KnownFree {
			t.Errorf("%s: expected KnownFree", d)
		}
		if info.KnownPaywall {
			t.Errorf("%s: free domain classified as paywall", d)
		}
	}
}

func TestNewClassifierWithSetsRejectsOverlap(t *testing.T) {
	_, err := NewClassifierWithSets([]string{"jstor.org"}, []string{"arxiv.org", "JSTOR.org"})
	if err == nil {
		t.Fatal("expected error for overlapping sets")
	}
}

func TestSubdomainMatching(t *testing.T) {
	c := NewClassifier()
	info := c.Classify("https://pubmed.ncbi.nlm.nih.gov/12345/")
	if !info.KnownFree {
		t.Errorf("subdomain of ncbi.nlm.nih.gov should be known free, got %+v", info)
	}

	// A domain merely containing a curated name must not match.
	info = c.Classify("https://notjstor.org.example.com/")
	if info.KnownPaywall {
		t.Errorf("unrelated host matched paywall set: %+v", info)
	}
}

func TestUnlistedDomainDefersToTier(t *testing.T) {
	c := NewClassifier()
	info := c.Classify("https://somepersonalblog.net/essay")
	if info.KnownPaywall || info.KnownFree {
		t.Errorf("unlisted domain should be in neither set: %+v", info)
	}
	if info.Tier != types.TierOther {
		t.Errorf("Tier = %v, want TierOther", info.Tier)
	}
}

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		url  string
		want ContentKind
	}{
		{"https://doi.org/10.1126/science.1", ContentDOILink},
		{"https://example.edu/papers/smith2020.pdf", ContentPDF},
		{"https://journal.example.com/articles/42", ContentArticlePage},
		{"https://www.amazon.com/dp/12345", ContentPurchasePage},
		{"https://publisher.com/books/leisure-class", ContentBookPage},
		{"https://example.com/about", ContentHTMLPage},
	}
	for _, tt := range tests {
		if got := ClassifyContent(tt.url); got != tt.want {
			t.Errorf("ClassifyContent(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
