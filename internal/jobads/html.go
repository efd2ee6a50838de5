package jobads

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coverletter-backend/internal/parsing"
)

// boardSelectors locate the title, company and body of a rendered ad, in
// the order the text should be emitted.
var boardSelectors = map[string]struct {
	title, company, body string
}{
	"seek": {
		title:   `[data-automation="job-detail-title"]`,
		company: `[data-automation="advertiser-name"]`,
		body:    `[data-automation="jobAdDetails"]`,
	},
	"indeed": {
		title:   `.jobsearch-JobInfoHeader-title, h1`,
		company: `[data-company-name], [data-testid="inlineHeader-companyName"]`,
		body:    `#jobDescriptionText`,
	},
	"linkedin": {
		title:   `.top-card-layout__title, .topcard__title`,
		company: `.topcard__org-name-link, .topcard__flavor`,
		body:    `.show-more-less-html__markup, .description__text`,
	},
}

const blockElements = "p, div, li, h1, h2, h3, h4, h5, h6, tr, section, article, ul, ol"

// TextFromHTML renders job-ad HTML to plain text, one block per line. Known
// boards are read through their content selectors so the title and company
// lead the text the way the board strategies expect.
func TextFromHTML(html, sourceURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse job ad html: %w", err)
	}
	doc.Find("script, style, noscript, svg, template").Remove()

	name := BoardFor(sourceURL)
	if sel, ok := boardSelectors[name]; ok {
		title := firstText(doc, sel.title)
		company := firstText(doc, sel.company)
		body := ""
		if b := doc.Find(sel.body).First(); b.Length() > 0 {
			body = blockText(b)
		}
		if title != "" || body != "" {
			var lines []string
			switch {
			case name == "indeed" && title != "" && company != "":
				lines = append(lines, title+" - "+company)
			default:
				lines = appendNonEmpty(lines, title, company)
			}
			lines = appendNonEmpty(lines, body)
			return strings.Join(lines, "\n"), nil
		}
	}

	return blockText(doc.Find("body")), nil
}

func firstText(doc *goquery.Document, selector string) string {
	return parsing.CollapseWhitespace(doc.Find(selector).First().Text())
}

func blockText(s *goquery.Selection) string {
	s.Find("br").ReplaceWithHtml("\n")
	s.Find(blockElements).Each(func(_ int, el *goquery.Selection) {
		el.AppendHtml("\n")
	})
	var lines []string
	for _, line := range strings.Split(s.Text(), "\n") {
		if line = parsing.CollapseWhitespace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func appendNonEmpty(dst []string, vals ...string) []string {
	for _, v := range vals {
		if v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
