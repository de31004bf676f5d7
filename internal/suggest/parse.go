package suggest

import (
	"errors"
	"regexp"

	"github.com/tidwall/gjson"
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

var (
	errFenceInvalid      = errors.New("fenced json block is not valid JSON")
	errBodyInvalid       = errors.New("response is not valid JSON")
	errMissingSuggestion = errors.New(`response has no "suggestions" key`)
)

// ParseSuggestions extracts suggestions from a provider answer. A fenced json
// block takes precedence; without one the whole body is parsed. It never
// fails hard: when nothing usable is found it returns an empty list and an
// error describing why.
func ParseSuggestions(content string) ([]Suggestion, error) {
	body := content
	invalid := errBodyInvalid
	if m := fencedJSON.FindStringSubmatch(content); m != nil {
		body = m[1]
		invalid = errFenceInvalid
	}

	if !gjson.Valid(body) {
		return []Suggestion{}, invalid
	}
	list := gjson.Get(body, "suggestions")
	if !list.Exists() {
		return []Suggestion{}, errMissingSuggestion
	}

	out := []Suggestion{}
	for _, item := range list.Array() {
		if !item.IsObject() {
			continue
		}
		out = append(out, Suggestion{
			Title:       item.Get("title").String(),
			Description: item.Get("description").String(),
			Rationale:   item.Get("rationale").String(),
		})
	}
	return out, nil
}
