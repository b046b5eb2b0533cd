package folio

import (
	"path/filepath"
	"testing"
)

func TestPageFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		page    string
		want    string
		wantErr bool
	}{
		{page: "/", want: "index.html"},
		{page: "/blog/hello/", want: "blog/hello/index.html"},
		{page: "/404.html", want: "404.html"},
		{page: "/tags/機器學習/", want: "tags/機器學習/index.html"},
		{page: "/tags/../../escaped/", wantErr: true},
		{page: "/../outside.html", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			got, err := pageFile(dir, tt.page)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("pageFile(%q) = %q, want error", tt.page, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("pageFile(%q): %v", tt.page, err)
			}
			if want := filepath.Join(dir, filepath.FromSlash(tt.want)); got != want {
				t.Errorf("pageFile(%q) = %q, want %q", tt.page, got, want)
			}
		})
	}
}

func TestOutputPathCards(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "og")
	if _, err := outputPath(dir, "blog/hello.png"); err != nil {
		t.Errorf("nested card: %v", err)
	}
	if _, err := outputPath(dir, "tags/../../../x.png"); err == nil {
		t.Error("card path outside og/ accepted")
	}
}
