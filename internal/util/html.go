package util

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

type rewrite struct {
	re   *regexp.Regexp
	with string
}

// Structural tags become line breaks before everything else is stripped.
var structure = []rewrite{
	{regexp.MustCompile(`(?i)<br\s*/?\s*>`), "\n"},
	{regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|blockquote|pre|table|tr)\s*>`), "\n\n"},
	{regexp.MustCompile(`(?i)<(?:p|div|h[1-6]|blockquote|pre|table|tr)(?:\s[^>]*)?>`), "\n"},
	{regexp.MustCompile(`(?i)</?(?:ul|ol)(?:\s[^>]*)?>`), ""},
	{regexp.MustCompile(`(?i)<li(?:\s[^>]*)?>`), "\n• "},
	{regexp.MustCompile(`(?i)</li\s*>`), ""},
}

var (
	anchorRe     = regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*["']([^"']*)["'][^>]*>(.*?)</a\s*>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	spacesRe     = regexp.MustCompile(`[^\S\n]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// LinkStyle controls how anchors survive PlainText.
type LinkStyle int

const (
	// LinksInline renders "text (url)", or just the url when they match.
	LinksInline LinkStyle = iota
	// LinksOSC8 renders clickable terminal hyperlinks showing only the text.
	LinksOSC8
)

// PlainText turns an event description (plain text or HTML from the portal
// or Outlook) into terminal text. Link text longer than width is truncated;
// width <= 0 disables truncation.
func PlainText(s string, width int, links LinkStyle) string {
	if s == "" {
		return s
	}
	s = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(html.UnescapeString(s))
	}

	for _, r := range structure {
		s = r.re.ReplaceAllString(s, r.with)
	}
	s = anchorRe.ReplaceAllStringFunc(s, func(a string) string {
		m := anchorRe.FindStringSubmatch(a)
		return renderLink(unwrapRedirect(html.UnescapeString(m[1])), tagRe.ReplaceAllString(m[2], ""), width, links)
	})
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = spacesRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "• ") {
			line = "  " + line
		}
		lines[i] = line
	}
	s = blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.Trim(s, "\n")
}

func renderLink(href, text string, width int, links LinkStyle) string {
	text = strings.TrimSpace(html.UnescapeString(text))
	if text == "" {
		text = href
	}
	if width > 0 {
		text = TruncateText(text, width)
	}
	if links == LinksOSC8 {
		return MakeHyperlink(href, text)
	}
	if text == href || href == "" {
		return text
	}
	return text + " (" + href + ")"
}

// unwrapRedirect extracts the real target from Google's
// https://www.google.com/url?q=TARGET wrappers.
func unwrapRedirect(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.Host == "www.google.com" && u.Path == "/url" {
		if q := u.Query().Get("q"); q != "" {
			return q
		}
	}
	return rawURL
}
