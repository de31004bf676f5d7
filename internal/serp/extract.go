package serp

import "github.com/tidwall/gjson"

const (
	itemTypeOrganic    = "organic"
	itemTypePAA        = "people_also_ask"
	itemTypePAAElement = "people_also_ask_element"
)

// OrganicRecord is a normalised organic listing. Position is the rank among
// organic results (rank_group); AbsolutePosition counts every SERP element.
type OrganicRecord struct {
	Keyword           string   `json:"keyword"`
	Title             string   `json:"title"`
	URL               string   `json:"url"`
	Domain            string   `json:"domain"`
	Description       string   `json:"description"`
	Position          int      `json:"position"`
	AbsolutePosition  int      `json:"rank_absolute"`
	Language          string   `json:"language"`
	LocationName      string   `json:"location_name"`
	Breadcrumb        string   `json:"breadcrumb"`
	WebsiteName       string   `json:"website_name"`
	IsFeaturedSnippet bool     `json:"is_featured_snippet"`
	Rating            *Rating  `json:"rating"`
	Highlighted       []string `json:"highlighted"`
	Links             []Link   `json:"links"`
	FAQ               *FAQ     `json:"faq"`
	Timestamp         *string  `json:"timestamp"`
}

// Rating is the review snippet attached to some listings.
type Rating struct {
	Type       string  `json:"rating_type"`
	Value      float64 `json:"value"`
	VotesCount int64   `json:"votes_count"`
	Max        float64 `json:"rating_max"`
}

// Link is a sitelink shown under a listing.
type Link struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// FAQ is the expandable question box shown under a listing.
type FAQ struct {
	Items []FAQItem `json:"items"`
}

type FAQItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FeatureCount is the number of SERP items of one type.
type FeatureCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ExtractOrganic returns the organic items of the block in source order.
func ExtractOrganic(b *ResultBlock) []OrganicRecord {
	if b == nil {
		return nil
	}
	keyword := stringOr(b.Keyword, "Unknown")
	location := stringOr(b.LocationName, "Unknown")
	language := stringOr(b.LanguageCode, "en")

	var out []OrganicRecord
	for _, item := range b.items {
		if item.Get("type").String() != itemTypeOrganic {
			continue
		}
		out = append(out, OrganicRecord{
			Keyword:           keyword,
			Title:             item.Get("title").String(),
			URL:               item.Get("url").String(),
			Domain:            item.Get("domain").String(),
			Description:       item.Get("description").String(),
			Position:          int(item.Get("rank_group").Int()),
			AbsolutePosition:  int(item.Get("rank_absolute").Int()),
			Language:          language,
			LocationName:      location,
			Breadcrumb:        item.Get("breadcrumb").String(),
			WebsiteName:       item.Get("website_name").String(),
			IsFeaturedSnippet: item.Get("is_featured_snippet").Bool(),
			Rating:            parseRating(item.Get("rating")),
			Highlighted:       parseStrings(item.Get("highlighted")),
			Links:             parseLinks(item.Get("links")),
			FAQ:               parseFAQ(item.Get("faq")),
			Timestamp:         optionalString(item.Get("timestamp")),
		})
	}
	return out
}

// ExtractPAA returns the non-empty "People Also Ask" questions in source order.
func ExtractPAA(b *ResultBlock) []string {
	if b == nil {
		return nil
	}
	var out []string
	for _, item := range b.items {
		if item.Get("type").String() != itemTypePAA {
			continue
		}
		for _, el := range item.Get("items").Array() {
			if el.Get("type").String() != itemTypePAAElement {
				continue
			}
			if q := el.Get("title").String(); q != "" {
				out = append(out, q)
			}
		}
	}
	return out
}

// ItemTypeCounts tallies item types in order of first appearance.
func ItemTypeCounts(b *ResultBlock) []FeatureCount {
	if b == nil {
		return nil
	}
	idx := make(map[string]int)
	var out []FeatureCount
	for _, item := range b.items {
		t := item.Get("type").String()
		if t == "" {
			continue
		}
		if i, ok := idx[t]; ok {
			out[i].Count++
			continue
		}
		idx[t] = len(out)
		out = append(out, FeatureCount{Type: t, Count: 1})
	}
	return out
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func optionalString(v gjson.Result) *string {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	s := v.String()
	return &s
}

func parseStrings(v gjson.Result) []string {
	out := []string{}
	for _, s := range v.Array() {
		out = append(out, s.String())
	}
	return out
}

func parseRating(v gjson.Result) *Rating {
	if !v.IsObject() {
		return nil
	}
	return &Rating{
		Type:       v.Get("rating_type").String(),
		Value:      v.Get("value").Float(),
		VotesCount: v.Get("votes_count").Int(),
		Max:        v.Get("rating_max").Float(),
	}
}

func parseLinks(v gjson.Result) []Link {
	out := []Link{}
	for _, l := range v.Array() {
		out = append(out, Link{
			Title:       l.Get("title").String(),
			Description: l.Get("description").String(),
			URL:         l.Get("url").String(),
		})
	}
	return out
}

func parseFAQ(v gjson.Result) *FAQ {
	if !v.IsObject() {
		return nil
	}
	faq := &FAQ{Items: []FAQItem{}}
	for _, it := range v.Get("items").Array() {
		faq.Items = append(faq.Items, FAQItem{
			Title:       it.Get("title").String(),
			Description: it.Get("description").String(),
		})
	}
	return faq
}
