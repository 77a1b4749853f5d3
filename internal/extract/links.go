package extract

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// DiscoverLinks extracts the detail-page URLs from a listing page.
//
// Every anchor href is resolved against baseURL; a link is kept when it
// stays on the listing's host and its path falls under pathPrefix. The
// prefix root itself is excluded, duplicates collapse, and the result is
// sorted lexicographically so scrape order is deterministic.
func DiscoverLinks(htmlContent string, baseURL string, pathPrefix string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse listing HTML: %w", err)
	}

	seen := make(map[string]bool)
	var links []string
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}

				resolved := resolveLink(base, strings.TrimSpace(attr.Val))
				if resolved == nil {
					continue
				}
				if resolved.Host != base.Host {
					continue
				}
				if !strings.HasPrefix(resolved.Path, pathPrefix) || resolved.Path == pathPrefix {
					continue
				}

				abs := resolved.String()
				if !seen[abs] {
					seen[abs] = true
					links = append(links, abs)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	sort.Strings(links)
	return links, nil
}

// resolveLink resolves an href against the base URL, returning nil for
// anchors, non-navigational schemes, and unparseable values
func resolveLink(base *url.URL, href string) *url.URL {
	if href == "" || strings.HasPrefix(href, "#") {
		return nil
	}
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return nil
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return nil
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}

	// Fragments never distinguish detail pages
	resolved.Fragment = ""

	return resolved
}
