package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Dataset is one entry of the service catalogue.
type Dataset struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Datasets fetches the catalogue. Each line reads "<key>, <name>"; lines
// without a comma are ignored.
func (c *Client) Datasets(ctx context.Context) ([]Dataset, error) {
	body, _, err := c.get(ctx, "datasets", c.endpoints.Datasets())
	if err != nil {
		return nil, err
	}
	return ParseDatasets(string(body)), nil
}

// ParseDatasets reads catalogue text.
func ParseDatasets(text string) []Dataset {
	var out []Dataset
	for _, line := range strings.Split(text, "\n") {
		key, name, ok := strings.Cut(strings.TrimRight(line, "\r"), ",")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out = append(out, Dataset{Key: key, Name: strings.TrimSpace(name)})
	}
	return out
}

// FilterDatasets keeps the datasets whose key or name contains query,
// ignoring case. An empty query keeps everything.
func FilterDatasets(list []Dataset, query string) []Dataset {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}

	var out []Dataset
	for _, d := range list {
		if strings.Contains(strings.ToLower(d.Name), query) || strings.Contains(d.Key, query) {
			out = append(out, d)
		}
	}
	return out
}

// ManualEntry is one documented API parameter.
type ManualEntry struct {
	Title   string `json:"SJ"`
	English string `json:"ENGL_CMGG"`
	Korean  string `json:"KOREAN_CMGG"`
	Detail  string `json:"DETAIL_CN"`
	Created string `json:"FRST_RGST_PNTTM"`
}

// Manual is the service's API manual.
type Manual struct {
	Result []ManualEntry `json:"result"`
}

// Title returns the manual heading (the first entry's title).
func (m *Manual) Title() string {
	if len(m.Result) == 0 {
		return ""
	}
	return m.Result[0].Title
}

// bareTimestamp matches the unquoted registration timestamp the service
// embeds in otherwise valid JSON.
var bareTimestamp = regexp.MustCompile(`("FRST_RGST_PNTTM":\s*)([0-9][0-9\- :.]*)`)

var detailEscapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

// Manual fetches and decodes the API manual.
func (c *Client) Manual(ctx context.Context) (*Manual, error) {
	body, _, err := c.get(ctx, "manual", c.endpoints.Manual())
	if err != nil {
		return nil, err
	}
	return ParseManual(body)
}

// ParseManual decodes a manual body, quoting bare timestamps first and
// expanding literal \n and \t sequences in entry details.
func ParseManual(body []byte) (*Manual, error) {
	fixed := bareTimestamp.ReplaceAll(body, []byte(`$1"$2"`))

	var m Manual
	if err := json.Unmarshal(fixed, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManualFormat, err)
	}

	for i := range m.Result {
		m.Result[i].Detail = detailEscapes.Replace(m.Result[i].Detail)
		m.Result[i].Created = strings.TrimSpace(m.Result[i].Created)
	}
	return &m, nil
}
