package constants

// Site identifiers. These are stable keys: they appear in fingerprints and
// stored listings, so renaming one orphans existing records.
const (
	SiteMarktplaats      = "marktplaats.nl"
	SiteSchadeautos      = "schadeautos.nl"
	SiteSchadevoertuigen = "schadevoertuigen.nl"
)

// AllSites lists every registered marketplace in dispatch order.
var AllSites = []string{
	SiteMarktplaats,
	SiteSchadeautos,
	SiteSchadevoertuigen,
}
