package workflow

import "time"

type StageKind string

const (
	StageKindAutomatic StageKind = "automatic"
	StageKindManual    StageKind = "manual"
)

type StageDefinition struct {
	Name              string        `json:"name"`
	Kind              StageKind     `json:"kind"`
	ExpectedDuration  time.Duration `json:"expectedDuration"`
	RequiredReviewers int           `json:"requiredReviewers"`
}

// Definition is a review process template a publisher picks from.
type Definition struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Stages []StageDefinition `json:"stages"`
}

type Reviewer struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Expertise []string `json:"expertise"`
}

// Catalog holds the reference data of the publish workflow.
type Catalog struct {
	definitions []Definition
	reviewers   []Reviewer
}

func NewCatalog(definitions []Definition, reviewers []Reviewer) *Catalog {
	return &Catalog{
		definitions: definitions,
		reviewers:   reviewers,
	}
}

func DefaultCatalog() *Catalog {
	automated := StageDefinition{Name: "Automated check", Kind: StageKindAutomatic, ExpectedDuration: 10 * time.Minute}

	return NewCatalog([]Definition{
		{
			ID:   "standard",
			Name: "Standard review",
			Stages: []StageDefinition{
				automated,
				{Name: "Peer review", Kind: StageKindManual, ExpectedDuration: 48 * time.Hour, RequiredReviewers: 1},
				{Name: "Final approval", Kind: StageKindManual, ExpectedDuration: 24 * time.Hour, RequiredReviewers: 1},
			},
		},
		{
			ID:   "fast-track",
			Name: "Fast track",
			Stages: []StageDefinition{
				automated,
				{Name: "Lead approval", Kind: StageKindManual, ExpectedDuration: 24 * time.Hour, RequiredReviewers: 1},
			},
		},
		{
			ID:   "comprehensive",
			Name: "Comprehensive review",
			Stages: []StageDefinition{
				automated,
				{Name: "Peer review", Kind: StageKindManual, ExpectedDuration: 72 * time.Hour, RequiredReviewers: 2},
				{Name: "Architecture board", Kind: StageKindManual, ExpectedDuration: 120 * time.Hour, RequiredReviewers: 3},
				{Name: "Final approval", Kind: StageKindManual, ExpectedDuration: 24 * time.Hour, RequiredReviewers: 1},
			},
		},
	}, []Reviewer{
		{ID: "rev-001", Name: "A. Moreau", Role: "Chief systems engineer", Expertise: []string{"architecture", "sysml"}},
		{ID: "rev-002", Name: "K. Tanaka", Role: "Simulation lead", Expertise: []string{"modelica", "simulation"}},
		{ID: "rev-003", Name: "R. Okafor", Role: "Requirements engineer", Expertise: []string{"requirements", "traceability"}},
		{ID: "rev-004", Name: "L. Novak", Role: "Verification engineer", Expertise: []string{"verification", "interfaces"}},
		{ID: "rev-005", Name: "S. Iyer", Role: "Model librarian", Expertise: []string{"naming", "metadata"}},
	})
}

func (c *Catalog) Definitions() []Definition {
	return append([]Definition(nil), c.definitions...)
}

func (c *Catalog) Reviewers() []Reviewer {
	return append([]Reviewer(nil), c.reviewers...)
}

func (c *Catalog) Definition(id string) (Definition, bool) {
	for _, def := range c.definitions {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

func (c *Catalog) Reviewer(id string) (Reviewer, bool) {
	for _, reviewer := range c.reviewers {
		if reviewer.ID == id {
			return reviewer, true
		}
	}
	return Reviewer{}, false
}
