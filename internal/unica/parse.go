package unica

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	applog "github.com/shanehull/unicabot/internal/log"
	"github.com/shanehull/unicabot/internal/types"
)

const (
	eventSelector = "div.event"
	titleSelector = "div.event-info > h3.event-title"
	dateSelector  = "div.event-img > p.event-date"
	linkSelector  = "div.event-info > p.text-right > a.btn"

	// Event hrefs start with the site's "/fr/" path root, which the base
	// URL already ends with.
	hrefPrefixLen = 4

	filteredTitleWord = "test"
)

var spaceRegex = regexp.MustCompile(`[\n\t\r\s\xA0]+`)

// ParseEvents extracts the events listed in markup. Containers without a
// title or a date are skipped, as are events whose title mentions "test".
func ParseEvents(markup string, baseURL string) []types.Event {
	logger := applog.WithComponent("unica")

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to parse HTML")
		return nil
	}
	doc := goquery.NewDocumentFromNode(root)

	var events []types.Event
	doc.Find(eventSelector).Each(func(i int, s *goquery.Selection) {
		title, ok := selectionText(s.Find(titleSelector))
		if !ok {
			logger.Debug().Int("index", i).Msg("Skipping event without title")
			return
		}
		title = strings.TrimSpace(title)

		if strings.Contains(strings.ToLower(title), filteredTitleWord) {
			logger.Debug().Str("title", title).Msg("Skipping test event")
			return
		}

		rawDate, ok := selectionText(s.Find(dateSelector))
		if !ok {
			logger.Debug().Int("index", i).Str("title", title).Msg("Skipping event without date")
			return
		}

		events = append(events, types.Event{
			Title: title,
			Date:  cleanDate(rawDate),
			Link:  eventLink(s, baseURL),
		})
	})

	return events
}

// selectionText joins the text runs of the first selected node with single
// spaces.
func selectionText(s *goquery.Selection) (string, bool) {
	if s.Length() == 0 {
		return "", false
	}
	return strings.Join(textRuns(s.Nodes[0]), " "), true
}

func textRuns(n *html.Node) []string {
	var runs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			runs = append(runs, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return runs
}

func cleanDate(raw string) string {
	date := strings.ReplaceAll(strings.TrimSpace(raw), "\n", " ")
	return strings.TrimSpace(spaceRegex.ReplaceAllString(date, " "))
}

func eventLink(s *goquery.Selection, baseURL string) string {
	var href string
	found := false
	s.Find(linkSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, found = a.Attr("href")
		return !found
	})
	if !found {
		return ""
	}

	runes := []rune(href)
	if len(runes) <= hrefPrefixLen {
		return baseURL
	}
	return baseURL + string(runes[hrefPrefixLen:])
}
