package csvfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSniffDelimiter(t *testing.T) {
	cases := []struct {
		name string
		data string
		want rune
	}{
		{name: "semicolons win", data: "a;b;c\nd;e;f\n", want: ';'},
		{name: "commas win", data: "a,b,c\nd,e,f\n", want: ','},
		{name: "empty defaults to comma", data: "", want: ','},
		{name: "mixed majority", data: "a;b,c;d\n", want: ';'},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SniffDelimiter([]byte(tc.data)); got != tc.want {
				t.Fatalf("SniffDelimiter() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("strips BOM and decodes semicolon rows", func(t *testing.T) {
		data := "\xEF\xBB\xBFgreeting;Hello;Bonjour;android ios\n"
		f, err := Parse("fr.csv", []byte(data), nil)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if f.Delim != ';' {
			t.Fatalf("Delim = %q, want ';'", f.Delim)
		}
		if len(f.Rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(f.Rows))
		}
		row := f.Rows[0]
		if row.Key() != "greeting" || row.SourceText() != "Hello" || row.TranslatedText() != "Bonjour" {
			t.Fatalf("unexpected row: %v", row)
		}
		if row.PlatformSpec() != "android ios" {
			t.Fatalf("PlatformSpec() = %q", row.PlatformSpec())
		}
	})

	t.Run("skips blank rows", func(t *testing.T) {
		data := "a,one,uno\n , , \nb,two,dos\n"
		f, err := Parse("es.csv", []byte(data), nil)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if len(f.Rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(f.Rows))
		}
	})

	t.Run("reports and drops short rows", func(t *testing.T) {
		data := "a,one,uno\nbroken,row\nb,two,dos\n"
		var gotPath string
		var gotLine int
		f, err := Parse("es.csv", []byte(data), func(path string, line int, fields []string) {
			gotPath, gotLine = path, line
		})
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if len(f.Rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(f.Rows))
		}
		if gotPath != "es.csv" || gotLine != 2 {
			t.Fatalf("row error at %s:%d, want es.csv:2", gotPath, gotLine)
		}
	})

	t.Run("rows without platform column", func(t *testing.T) {
		f, err := Parse("ru.csv", []byte("key,source,translation\n"), nil)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if spec := f.Rows[0].PlatformSpec(); spec != "" {
			t.Fatalf("PlatformSpec() = %q, want empty", spec)
		}
		if _, ok := f.Rows[0].Comment(); ok {
			t.Fatal("Comment() reported a comment on a 3-field row")
		}
	})
}

func TestKeysAndKeySet(t *testing.T) {
	f, err := Parse("en.csv", []byte("b,x,x\na,y,y\nb,z,z\n"), nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	keys := f.Keys()
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "b" {
		t.Fatalf("Keys() = %v", keys)
	}

	set := f.KeySet()
	if len(set) != 2 || !set["a"] || !set["b"] {
		t.Fatalf("KeySet() = %v", set)
	}
}

func TestWriteFileExclusive(t *testing.T) {
	dir := t.TempDir()

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(dir, "out.csv")
		rows := []Row{
			{"key", "source", "tags"},
			{"other", "text with, comma", "android ios"},
		}
		if err := WriteFileExclusive(path, rows, ';'); err != nil {
			t.Fatalf("WriteFileExclusive() error: %v", err)
		}

		f, err := ReadFile(path, nil)
		if err != nil {
			t.Fatalf("ReadFile() error: %v", err)
		}
		if len(f.Rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(f.Rows))
		}
		if f.Rows[1][1] != "text with, comma" {
			t.Fatalf("field lost in round trip: %q", f.Rows[1][1])
		}
	})

	t.Run("refuses existing file", func(t *testing.T) {
		path := filepath.Join(dir, "taken.csv")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := WriteFileExclusive(path, []Row{{"a", "b", "c"}}, ','); err == nil {
			t.Fatal("WriteFileExclusive() succeeded on an existing file")
		}
	})
}
