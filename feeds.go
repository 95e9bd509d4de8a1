package pagesmith

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// SitemapXML renders sitemap.xml for every published document.
func SitemapXML(site *Site) ([]byte, error) {
	base := site.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	for _, d := range site.Documents() {
		u := sitemapURL{Loc: BuildURL(base, d.Permalink)}
		if !d.Date.IsZero() {
			u.LastMod = d.Date.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return encodeXML(sitemap)
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// FeedXML renders the RSS 2.0 feed of published posts, newest first.
func FeedXML(site *Site) ([]byte, error) {
	base := site.Config.URL
	items := make([]rssItem, 0, len(site.Posts))
	for _, p := range site.Posts {
		pubDate := ""
		if !p.Date.IsZero() {
			pubDate = p.Date.Format(time.RFC1123Z)
		}
		postURL := BuildURL(base, p.Permalink)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Summary,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Config.Name,
			Link:        base,
			Description: site.Config.Description,
			Items:       items,
		},
	}
	return encodeXML(feed)
}

// RobotsTxt renders robots.txt pointing crawlers at the sitemap.
func RobotsTxt(cfg SiteConfig) []byte {
	return []byte(fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", cfg.URL))
}

func encodeXML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
