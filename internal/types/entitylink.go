package types

// EntityLink is one AI-suggested link entry inside a category.
type EntityLink struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	SearchTerms    []string `json:"searchTerms"`
	SuggestedSites []string `json:"suggestedSites"`
	EstimatedPrice string   `json:"estimatedPrice,omitempty"`
	OpeningHours   string   `json:"openingHours,omitempty"`
	Context        string   `json:"context"`
	SourceNote     string   `json:"sourceNote"`
}

// EntityLinkBundle maps the fixed category taxonomy to link entries.
// Consumers rely on every category being present (possibly empty), so
// anything that produces a bundle must call Normalize first.
type EntityLinkBundle struct {
	Products   []EntityLink `json:"products"`
	Services   []EntityLink `json:"services"`
	Events     []EntityLink `json:"events"`
	Places     []EntityLink `json:"places"`
	People     []EntityLink `json:"people"`
	Concepts   []EntityLink `json:"concepts"`
	Activities []EntityLink `json:"activities"`
	Resources  []EntityLink `json:"resources"`
	TechStack  []EntityLink `json:"techStack"`
}

var LinkCategories = []string{
	"products", "services", "events", "places", "people",
	"concepts", "activities", "resources", "techStack",
}

// Normalize replaces nil category slices with empty ones so a bundle
// serializes with all nine keys regardless of what the model returned.
func (b *EntityLinkBundle) Normalize() {
	if b.Products == nil {
		b.Products = []EntityLink{}
	}
	if b.Services == nil {
		b.Services = []EntityLink{}
	}
	if b.Events == nil {
		b.Events = []EntityLink{}
	}
	if b.Places == nil {
		b.Places = []EntityLink{}
	}
	if b.People == nil {
		b.People = []EntityLink{}
	}
	if b.Concepts == nil {
		b.Concepts = []EntityLink{}
	}
	if b.Activities == nil {
		b.Activities = []EntityLink{}
	}
	if b.Resources == nil {
		b.Resources = []EntityLink{}
	}
	if b.TechStack == nil {
		b.TechStack = []EntityLink{}
	}
}

func EmptyEntityLinkBundle() EntityLinkBundle {
	var b EntityLinkBundle
	b.Normalize()
	return b
}
