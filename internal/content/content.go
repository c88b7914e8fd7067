// Package content loads the landing page copy bundled with the binary.
//
// The copy lives in site.yaml. FAQ answers are written in Markdown, rendered
// with goldmark and sanitized before they reach a template.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

// Brand identifies the business.
type Brand struct {
	Name     string `yaml:"name"`
	Slogan   string `yaml:"slogan"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Coverage string `yaml:"coverage"`
	Hours    string `yaml:"hours"`
}

// Hero is the top banner.
type Hero struct {
	Kicker     string   `yaml:"kicker"`
	Title      string   `yaml:"title"`
	Highlights []string `yaml:"highlights"`
}

// Heading is a section title with its lead line.
type Heading struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

// Card is a titled paragraph, used by services and process steps.
type Card struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// CardSection is a heading followed by cards.
type CardSection struct {
	Heading `yaml:",inline"`
	Items   []Card `yaml:"items"`
}

// Equipment is an item of the "buy" strip. Prices are asked for by chat.
type Equipment struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// EquipmentSection lists purchasable equipment.
type EquipmentSection struct {
	Heading `yaml:",inline"`
	Items   []Equipment `yaml:"items"`
}

// FAQ is one accordion entry. Answer is Markdown; AnswerHTML is filled by
// Load with sanitized HTML.
type FAQ struct {
	Question   string `yaml:"question"`
	Answer     string `yaml:"answer"`
	CTA        string `yaml:"cta"`
	Calculator bool   `yaml:"calculator"`
	AnswerHTML string `yaml:"-"`
}

// FAQSection lists the FAQ entries.
type FAQSection struct {
	Heading `yaml:",inline"`
	Items   []FAQ `yaml:"items"`
}

// Site is the whole landing page.
type Site struct {
	Brand     Brand            `yaml:"brand"`
	Hero      Hero             `yaml:"hero"`
	Services  CardSection      `yaml:"services"`
	Process   CardSection      `yaml:"process"`
	Equipment EquipmentSection `yaml:"equipment"`
	FAQ       FAQSection       `yaml:"faq"`
	Contact   Heading          `yaml:"contact"`
	Catalog   Heading          `yaml:"catalog"`
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

	answerPolicy = newAnswerPolicy()
	textPolicy   = bluemonday.StrictPolicy()
)

func newAnswerPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Parse decodes site YAML and renders every FAQ answer.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	if strings.TrimSpace(site.Brand.Name) == "" {
		return nil, fmt.Errorf("parse site content: brand name is required")
	}

	for i := range site.FAQ.Items {
		html, err := RenderMarkdown(site.FAQ.Items[i].Answer)
		if err != nil {
			return nil, fmt.Errorf("render faq %d: %w", i+1, err)
		}
		site.FAQ.Items[i].AnswerHTML = html
	}
	return &site, nil
}

var bundled = sync.OnceValues(func() (*Site, error) {
	return Parse(siteYAML)
})

// Load returns the bundled site content. The result is shared; callers must
// not modify it.
func Load() (*Site, error) {
	return bundled()
}

// RenderMarkdown converts Markdown to HTML safe for embedding in a page.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(answerPolicy.Sanitize(buf.String())), nil
}

// PlainText strips every HTML tag from s. Spreadsheet descriptions go through
// this before display.
func PlainText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
