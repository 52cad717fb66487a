package remote

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the public archive service.
	DefaultBaseURL = "https://api.aihub.or.kr"

	// DefaultDownloadVersion is the download endpoint revision.
	DefaultDownloadVersion = "0.5"
)

// Endpoints derives every service URL from a base URL.
type Endpoints struct {
	BaseURL         string
	DownloadVersion string
}

// DefaultEndpoints returns the endpoints of the public service.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		BaseURL:         DefaultBaseURL,
		DownloadVersion: DefaultDownloadVersion,
	}
}

func (e Endpoints) base() string {
	return strings.TrimRight(e.BaseURL, "/")
}

// Listing is the text-tree listing of one dataset.
func (e Endpoints) Listing(datasetKey string) string {
	return fmt.Sprintf("%s/info/%s.do", e.base(), url.PathEscape(datasetKey))
}

// Datasets is the catalogue of every dataset.
func (e Endpoints) Datasets() string {
	return e.base() + "/info/dataset.do"
}

// Manual is the API usage manual.
func (e Endpoints) Manual() string {
	return e.base() + "/info/api.do"
}

// Download is the archive endpoint of one dataset. fileKeys is sent as the
// fileSn query parameter.
func (e Endpoints) Download(datasetKey, fileKeys string) string {
	version := e.DownloadVersion
	if version == "" {
		version = DefaultDownloadVersion
	}
	u := fmt.Sprintf("%s/down/%s/%s.do", e.base(), version, url.PathEscape(datasetKey))
	if fileKeys != "" {
		u += "?" + url.Values{"fileSn": {fileKeys}}.Encode()
	}
	return u
}
