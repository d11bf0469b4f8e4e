package schadevoertuigen

import (
	"testing"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

const resultsPage = `
<html><body>
<section>
  <article class="occasion">
    <a class="occasion-link" href="/aanbod/ford-fiesta-10-ecoboost"></a>
    <h3 class="occasion-title">Ford Fiesta 1.0 EcoBoost</h3>
    <span class="occasion-price">€ 3.750,-</span>
    <div class="occasion-details">2014 | 145.000 km</div>
    <span class="occasion-location">Eindhoven</span>
    <p class="occasion-damage">Krassen op achterbumper en parkeerdeuk</p>
    <img class="occasion-photo" src="https://www.schadevoertuigen.nl/img/fiesta.jpg"/>
  </article>
  <article class="occasion">
    <h3 class="occasion-title">Zonder link</h3>
  </article>
</section>
<ul class="paginering">
  <li><a rel="next" href="/aanbod/pagina/2">2</a></li>
</ul>
</body></html>`

func TestExtractListings(t *testing.T) {
	adapter := NewAdapter(nil, port.NoopLogger())

	listings, skipped := adapter.ExtractListings(resultsPage)

	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(listings) != 1 {
		t.Fatalf("len(listings) = %d, want 1", len(listings))
	}

	got := listings[0]
	if got.ExternalID != "" {
		t.Errorf("ExternalID = %q, want empty (site has no stable id)", got.ExternalID)
	}
	if got.URL != "https://www.schadevoertuigen.nl/aanbod/ford-fiesta-10-ecoboost" {
		t.Errorf("URL = %q", got.URL)
	}
	if got.Make != "Ford" || got.Model != "Fiesta 1.0" {
		t.Errorf("Make/Model = %q/%q", got.Make, got.Model)
	}
	if got.Price == nil || *got.Price != 3750 {
		t.Errorf("Price = %v, want 3750", got.Price)
	}
	if got.DamageDescription != "Krassen op achterbumper en parkeerdeuk" {
		t.Errorf("DamageDescription = %q", got.DamageDescription)
	}

	// Listings from this site deduplicate through the content fingerprint.
	fp := domain.ComputeFingerprint(got)
	if fp.IsPrimary() {
		t.Errorf("fingerprint %q should be a content fallback", fp)
	}
}

func TestHasNextPage(t *testing.T) {
	adapter := NewAdapter(nil, port.NoopLogger())

	if !adapter.HasNextPage(resultsPage) {
		t.Error("expected next page link to be detected")
	}
	if adapter.HasNextPage(`<ul class="paginering"><li><a href="/aanbod">1</a></li></ul>`) {
		t.Error("expected no next page without rel=next link")
	}
}
