package responses

import "time"

// Defaults returns the starter library seeded into an empty workspace.
func Defaults(now time.Time) []Response {
	seed := []struct {
		id       string
		category Category
		text     string
	}{
		{"crowd1", CategoryCrowd, "I am writing to express my strong interest in the position at your company. With my background and experience, I believe I would be a valuable addition to your team."},
		{"crowd2", CategoryCrowd, "Having researched your company extensively, I am impressed by your commitment to innovation and excellence. I am excited about the opportunity to contribute to your continued success."},
		{"crowd3", CategoryCrowd, "My experience in the field has equipped me with the skills and knowledge necessary to excel in this role. I am confident that my background aligns well with your requirements."},
		{"crowd4", CategoryCrowd, "I am particularly drawn to this opportunity because it combines my passion for the industry with the chance to work for a company that shares my values and vision."},
		{"crowd5", CategoryCrowd, "Thank you for considering my application. I look forward to the opportunity to discuss how my skills and experience can contribute to your team's success."},
		{"ai1", CategoryAI, "As a results-driven professional with a proven track record of success, I am excited to bring my expertise to your dynamic organization and contribute to achieving your strategic objectives."},
		{"ai2", CategoryAI, "Your company's reputation for fostering innovation and professional growth aligns perfectly with my career aspirations, making this an ideal opportunity for mutual benefit."},
		{"ai3", CategoryAI, "Throughout my career, I have consistently demonstrated the ability to adapt to new challenges while maintaining high standards of quality and efficiency in all my endeavors."},
		{"ai4", CategoryAI, "I am particularly excited about the prospect of joining a team that values collaboration, creativity, and continuous improvement, as these principles have guided my professional journey."},
		{"ai5", CategoryAI, "I would welcome the opportunity to discuss how my unique perspective and experience can contribute to your organization's continued growth and success in the marketplace."},
	}
	out := make([]Response, 0, len(seed))
	for _, s := range seed {
		out = append(out, Response{
			ID:        s.id,
			Text:      s.text,
			Category:  s.category,
			Tags:      []string{},
			CreatedAt: now.UTC(),
		})
	}
	return out
}
