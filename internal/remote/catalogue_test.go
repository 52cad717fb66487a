package remote

import (
	"errors"
	"testing"
)

func TestFilterDatasets(t *testing.T) {
	list := ParseDatasets("576, 경구약제 이미지 데이터\r\n71, Korean Speech\n, nameless\n")

	if len(list) != 2 {
		t.Fatalf("ParseDatasets returned %d entries, want 2", len(list))
	}

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 2},
		{query: "경구약제", want: 1},
		{query: "speech", want: 1},
		{query: "57", want: 1},
		{query: "nothing", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := FilterDatasets(list, tt.query); len(got) != tt.want {
				t.Errorf("FilterDatasets(%q) = %d entries, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestParseManual(t *testing.T) {
	t.Run("already quoted timestamp left alone", func(t *testing.T) {
		m, err := ParseManual([]byte(`{"result":[{"SJ":"t","FRST_RGST_PNTTM": "2023-01-02"}]}`))
		if err != nil {
			t.Fatalf("ParseManual failed: %v", err)
		}
		if m.Result[0].Created != "2023-01-02" {
			t.Errorf("Created = %q", m.Result[0].Created)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseManual([]byte("<html>maintenance</html>"))
		if !errors.Is(err, ErrManualFormat) {
			t.Errorf("expected ErrManualFormat, got %v", err)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		m, err := ParseManual([]byte(`{"result":[]}`))
		if err != nil {
			t.Fatalf("ParseManual failed: %v", err)
		}
		if m.Title() != "" {
			t.Errorf("Title() = %q, want empty", m.Title())
		}
	})
}

func TestEndpoints(t *testing.T) {
	e := Endpoints{BaseURL: "https://example.com/", DownloadVersion: "0.5"}

	if got := e.Listing("576"); got != "https://example.com/info/576.do" {
		t.Errorf("Listing() = %q", got)
	}
	if got := e.Download("576", "1,2"); got != "https://example.com/down/0.5/576.do?fileSn=1%2C2" {
		t.Errorf("Download() = %q", got)
	}
	if got := (Endpoints{BaseURL: "http://h"}).Download("1", ""); got != "http://h/down/0.5/1.do" {
		t.Errorf("Download() default version = %q", got)
	}
}
