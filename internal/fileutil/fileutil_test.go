package fileutil

import "testing"

func TestStem(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/videos/movie.mp4", "movie"},
		{"movie.MP4", "movie"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{".bashrc", ".bashrc"},
	}
	for _, tc := range cases {
		if got := Stem(tc.path); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestOutputName(t *testing.T) {
	if got := OutputName("/in/a.mp4", ".mp3"); got != "a.mp3" {
		t.Fatalf("unexpected output name: %q", got)
	}
	if got := OutputName("/in/a.MP4", "mp3"); got != "a.mp3" {
		t.Fatalf("expected dotless extension to be accepted, got %q", got)
	}
}

func TestDedupePreservesOrder(t *testing.T) {
	in := []string{"b", "a", "b", "c", "a"}
	got := Dedupe(in)
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
