package simplify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pgltd/polyglot/csvfile"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readRows(t *testing.T, path string) []csvfile.Row {
	t.Helper()
	f, err := csvfile.ReadFile(path, nil)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	return f.Rows
}

func TestRunMergesDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strings.csv")
	writeFile(t, path,
		"OK Button;OK;android\n"+
			"ok;OK;ios\n"+
			"greeting;Hello;any\n"+
			"confirm;OK;wp\n")

	res, err := Run(Options{Path: path})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.OutputPath != path+".temp" {
		t.Fatalf("OutputPath = %q", res.OutputPath)
	}
	if res.Rows != 2 || res.Merged != 2 {
		t.Fatalf("Rows = %d, Merged = %d, want 2 and 2", res.Rows, res.Merged)
	}

	rows := readRows(t, res.OutputPath)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// First-seen text stays first; the terse lowercase key wins, then loses
	// the tie against the equally terse later key.
	merged := rows[0]
	if merged[colKey] != "confirm" {
		t.Fatalf("surviving key = %q, want %q", merged[colKey], "confirm")
	}
	if merged[colSource] != "OK" {
		t.Fatalf("source text = %q", merged[colSource])
	}
	if merged[colPlatforms] != "android ios wp" {
		t.Fatalf("merged platforms = %q, want %q", merged[colPlatforms], "android ios wp")
	}
	if merged[colMergedFrom] != "OK Button/ok" {
		t.Fatalf("merged-from = %q, want %q", merged[colMergedFrom], "OK Button/ok")
	}

	if rows[1][colKey] != "greeting" || len(rows[1]) > colMergedFrom && rows[1][colMergedFrom] != "" {
		t.Fatalf("untouched row changed: %v", rows[1])
	}
}

func TestRunNoDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strings.csv")
	writeFile(t, path, "a;One;any\nb;Two;any\n")

	res, err := Run(Options{Path: path})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Merged != 0 || res.Rows != 2 {
		t.Fatalf("Rows = %d, Merged = %d, want 2 and 0", res.Rows, res.Merged)
	}
}

func TestRunRefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strings.csv")
	writeFile(t, path, "a;One;any\n")
	writeFile(t, path+".temp", "leftover")

	if _, err := Run(Options{Path: path}); err == nil {
		t.Fatal("Run() overwrote an existing output file")
	}
}

func TestRunKeepsDelimiter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strings.csv")
	writeFile(t, path, "a,One,any\nb,Two,any\n")

	res, err := Run(Options{Path: path})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if csvfile.SniffDelimiter(data) != ',' {
		t.Fatalf("delimiter not preserved:\n%s", data)
	}
}

func TestSelectAlias(t *testing.T) {
	cases := []struct {
		a, b   string
		winner string
	}{
		{a: "OK Button", b: "ok", winner: "ok"},
		{a: "ok", b: "OK Button", winner: "ok"},
		{a: "SAVE", b: "save", winner: "save"},
		{a: "first", b: "second", winner: "second"}, // tie, newer key wins
	}

	for _, tc := range cases {
		winner, loser := selectAlias(tc.a, tc.b)
		if winner != tc.winner {
			t.Fatalf("selectAlias(%q, %q) winner = %q, want %q", tc.a, tc.b, winner, tc.winner)
		}
		if loser == winner {
			t.Fatalf("selectAlias(%q, %q) returned the winner as loser", tc.a, tc.b)
		}
	}
}

func TestMergePlatforms(t *testing.T) {
	cases := []struct {
		a, b string
		want string
	}{
		{a: "android", b: "ios", want: "android ios"},
		{a: "android ios", b: "ios wp", want: "android ios wp"},
		{a: "", b: "bb", want: "bb"},
		{a: "qt", b: "qt", want: "qt"},
	}

	for _, tc := range cases {
		if got := mergePlatforms(tc.a, tc.b); got != tc.want {
			t.Fatalf("mergePlatforms(%q, %q) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}
