package serp

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ResultBlock is the provider's per-query payload: request metadata plus the
// ordered list of SERP items. Every accessor has a default, so a sparse
// payload never fails parsing.
type ResultBlock struct {
	Keyword        string
	Type           string
	SEDomain       string
	LocationCode   int
	LanguageCode   string
	LocationName   string
	Device         string
	OS             string
	CheckURL       string
	Datetime       string
	SEResultsCount *int64
	ItemsCount     int
	ItemTypes      []string

	items []gjson.Result
}

// ParseResultBlock parses a raw result object. It only fails when the input is
// not a JSON object.
func ParseResultBlock(raw []byte) (*ResultBlock, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: result block is not valid JSON", ErrMalformedResponse)
	}
	res := gjson.ParseBytes(raw)
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: result block is not an object", ErrMalformedResponse)
	}
	return newResultBlock(res), nil
}

func newResultBlock(res gjson.Result) *ResultBlock {
	b := &ResultBlock{
		Keyword:      res.Get("keyword").String(),
		Type:         res.Get("type").String(),
		SEDomain:     res.Get("se_domain").String(),
		LocationCode: int(res.Get("location_code").Int()),
		LanguageCode: res.Get("language_code").String(),
		LocationName: res.Get("location_name").String(),
		Device:       res.Get("device").String(),
		OS:           res.Get("os").String(),
		CheckURL:     res.Get("check_url").String(),
		Datetime:     res.Get("datetime").String(),
		ItemsCount:   int(res.Get("items_count").Int()),
	}
	if v := res.Get("se_results_count"); v.Exists() && v.Type == gjson.Number {
		n := v.Int()
		b.SEResultsCount = &n
	}
	for _, t := range res.Get("item_types").Array() {
		b.ItemTypes = append(b.ItemTypes, t.String())
	}
	if items := res.Get("items"); items.IsArray() {
		b.items = items.Array()
	}
	return b
}

// Len returns the number of raw items in the block.
func (b *ResultBlock) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}
