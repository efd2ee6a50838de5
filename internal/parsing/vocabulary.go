package parsing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the curated term lists used by keyword extraction. It is
// plain data so deployments can extend it from a YAML file.
type Vocabulary struct {
	Domains        map[string][]string `yaml:"domains"`
	SoftSkills     []string            `yaml:"softSkills"`
	EducationTerms []string            `yaml:"educationTerms"`
	Certifications []string            `yaml:"certifications"`
	ActionVerbs    []string            `yaml:"actionVerbs"`
}

var defaultDomains = map[string][]string{
	"healthcare": {
		"patient care", "aged care", "disability support", "medication administration",
		"infection control", "clinical assessment", "wound care", "nursing", "first aid",
		"mental health", "care planning", "manual handling", "allied health", "triage",
	},
	"education": {
		"curriculum development", "lesson planning", "classroom management", "student engagement",
		"early childhood", "differentiated instruction", "assessment design", "tutoring",
		"special education", "literacy", "numeracy", "e-learning",
	},
	"business": {
		"project management", "stakeholder management", "business analysis", "budgeting",
		"forecasting", "financial reporting", "accounts payable", "accounts receivable",
		"payroll", "procurement", "risk management", "change management", "strategic planning",
		"data entry", "customer service", "sales", "marketing", "recruitment", "operations",
		"bookkeeping", "reporting", "compliance", "negotiation",
	},
	"technical": {
		"python", "java", "javascript", "typescript", "golang", "c++", "c#", "react", "angular",
		"node.js", "docker", "kubernetes", "terraform", "linux", "excel", "power bi", "tableau",
		"data analysis", "machine learning", "software development", "web development",
		"cloud computing", "network administration", "cyber security", "technical support",
		"microsoft office", "salesforce", "sap", "agile", "scrum", "devops", "postgresql",
	},
	"trades": {
		"carpentry", "plumbing", "electrical", "welding", "forklift", "white card", "construction",
		"machinery operation", "maintenance", "fabrication", "site safety", "work health and safety",
		"landscaping", "painting", "tiling",
	},
	"hospitality": {
		"food safety", "food preparation", "barista", "responsible service of alcohol",
		"front of house", "cash handling", "event management", "housekeeping", "menu planning",
		"guest services", "kitchen operations",
	},
	"creative": {
		"graphic design", "adobe photoshop", "adobe illustrator", "indesign", "video editing",
		"photography", "copywriting", "content creation", "social media", "branding",
		"user research", "illustration",
	},
	"transport": {
		"logistics", "warehousing", "inventory management", "supply chain", "fleet management",
		"dispatch", "heavy rigid", "route planning", "freight", "stock control", "pick and pack",
	},
}

var defaultSoftSkills = []string{
	"communication", "teamwork", "leadership", "problem solving", "time management",
	"attention to detail", "adaptability", "critical thinking", "customer focus",
	"conflict resolution", "interpersonal skills", "organisational skills", "organizational skills",
	"collaboration", "mentoring", "decision making", "initiative", "multitasking",
}

var defaultEducationTerms = []string{
	"bachelor", "master", "diploma", "advanced diploma", "certificate iii", "certificate iv",
	"degree", "phd", "doctorate", "graduate certificate", "apprenticeship", "traineeship",
}

var defaultCertifications = []string{
	"pmp", "prince2", "itil", "cpa", "aws certified", "ccna", "cissp", "six sigma",
	"working with children check", "police check", "rsa", "rcg", "ahpra", "cert iv tae",
}

var defaultActionVerbs = []string{
	"managed", "assisted", "developed", "served", "led", "coordinated", "implemented",
	"designed", "supervised", "trained", "delivered", "improved", "created", "organised",
	"organized", "maintained", "supported", "analysed", "analyzed", "negotiated",
	"mentored", "established", "achieved", "resolved",
}

// DefaultVocabulary returns a fresh copy of the built-in term lists.
func DefaultVocabulary() Vocabulary {
	domains := make(map[string][]string, len(defaultDomains))
	for name, terms := range defaultDomains {
		domains[name] = append([]string(nil), terms...)
	}
	return Vocabulary{
		Domains:        domains,
		SoftSkills:     append([]string(nil), defaultSoftSkills...),
		EducationTerms: append([]string(nil), defaultEducationTerms...),
		Certifications: append([]string(nil), defaultCertifications...),
		ActionVerbs:    append([]string(nil), defaultActionVerbs...),
	}
}

// Merge appends the terms of other to v, skipping duplicates.
func (v *Vocabulary) Merge(other Vocabulary) {
	if v.Domains == nil {
		v.Domains = map[string][]string{}
	}
	for name, terms := range other.Domains {
		key := strings.ToLower(strings.TrimSpace(name))
		v.Domains[key] = appendUnique(v.Domains[key], terms)
	}
	v.SoftSkills = appendUnique(v.SoftSkills, other.SoftSkills)
	v.EducationTerms = appendUnique(v.EducationTerms, other.EducationTerms)
	v.Certifications = appendUnique(v.Certifications, other.Certifications)
	v.ActionVerbs = appendUnique(v.ActionVerbs, other.ActionVerbs)
}

// skillSet is the union of every list except the action verbs.
func (v Vocabulary) skillSet() map[string]bool {
	set := map[string]bool{}
	for _, terms := range v.Domains {
		for _, t := range terms {
			set[t] = true
		}
	}
	for _, list := range [][]string{v.SoftSkills, v.EducationTerms, v.Certifications} {
		for _, t := range list {
			set[t] = true
		}
	}
	return set
}

// LoadVocabularyFile reads extra terms from a YAML file and merges them over
// the defaults.
func LoadVocabularyFile(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()
	raw, err := os.ReadFile(path)
	if err != nil {
		return vocab, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	var extra Vocabulary
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return vocab, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	vocab.Merge(extra)
	return vocab, nil
}

func appendUnique(dst []string, terms []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, t := range dst {
		seen[t] = true
	}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		dst = append(dst, t)
	}
	return dst
}
