package domain

// Contribution credits one person (or "Personal Project") on a project card.
type Contribution struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Project represents a single portfolio entry.
// It is intentionally storage-agnostic and used across repository and HTTP layers.
// JSON names follow what the front end reads (_id, desc).
type Project struct {
	ID            string         `json:"_id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Desc          string         `json:"desc" yaml:"desc"`
	Skills        []string       `json:"skills" yaml:"skills"`
	Contributions []Contribution `json:"contributions" yaml:"contributions"`
	Github        string         `json:"github,omitempty" yaml:"github,omitempty"`
	Devpost       string         `json:"devpost,omitempty" yaml:"devpost,omitempty"`
	Image         string         `json:"image,omitempty" yaml:"image,omitempty"`
}

// ProjectPatch is the full replacement applied by an update.
// Image is only replaced when non-nil.
type ProjectPatch struct {
	Name          string
	Desc          string
	Skills        []string
	Contributions []Contribution
	Github        string
	Devpost       string
	Image         *string
}

// Apply overwrites p with the patch fields.
func (p *Project) Apply(patch ProjectPatch) {
	p.Name = patch.Name
	p.Desc = patch.Desc
	p.Skills = patch.Skills
	p.Contributions = patch.Contributions
	p.Github = patch.Github
	p.Devpost = patch.Devpost
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	p.normalize()
}

// Clone returns a deep copy so stores never hand out shared slices.
func (p Project) Clone() Project {
	out := p
	out.Skills = append([]string(nil), p.Skills...)
	out.Contributions = append([]Contribution(nil), p.Contributions...)
	out.normalize()
	return out
}

// normalize keeps list fields encoding as [] rather than null.
func (p *Project) normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Contributions == nil {
		p.Contributions = []Contribution{}
	}
}
