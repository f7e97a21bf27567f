package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/phrasememo/internal/cache"
	"codeberg.org/snonux/phrasememo/internal/engine"
	"codeberg.org/snonux/phrasememo/internal/prompt"
	"codeberg.org/snonux/phrasememo/internal/testutil"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "phrases only",
			fileContent: `Ustąp pierwszeństwa
Zakaz wjazdu
3. Stop`,
			want: []Entry{
				{Phrase: "Ustąp pierwszeństwa"},
				{Phrase: "Zakaz wjazdu"},
				{Phrase: "3. Stop"},
			},
		},
		{
			name: "mixed format with comments",
			fileContent: `# road signs
Stop = Стоп
Zakaz wjazdu

  Strefa zamieszkania  
= orphan translation
Pusty =
`,
			want: []Entry{
				{Phrase: "Stop", Translation: "Стоп"},
				{Phrase: "Zakaz wjazdu"},
				{Phrase: "Strefa zamieszkania"},
				{Phrase: "Pusty"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "Stop\r\nZakaz wjazdu\r\n",
			want:        []Entry{{Phrase: "Stop"}, {Phrase: "Zakaz wjazdu"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "batch.txt")
			if err := os.WriteFile(path, []byte(tt.fileContent), 0644); err != nil {
				t.Fatal(err)
			}

			got, err := ReadBatchFile(path)
			if err != nil {
				t.Fatalf("ReadBatchFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_NotFound(t *testing.T) {
	if _, err := ReadBatchFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func newEngine(t *testing.T, client *testutil.FakeClient) *engine.Engine {
	t.Helper()

	cfg, err := prompt.Parse([]byte(testutil.PromptDocument))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	builder, err := prompt.NewBuilder(cfg, 0)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	logger := testutil.DiscardLogger()
	return engine.New(engine.Deps{
		Cache:   cache.New(cache.NewMemoryStore(), logger),
		Builder: builder,
		Client:  client,
		Logger:  logger,
	})
}

func TestRun(t *testing.T) {
	client := testutil.NewFakeClient(map[string]string{
		`Fragment to translate: "Zakaz wjazdu"`:        "Въезд запрещён",
		`Fragment to translate: "Strefa zamieszkania"`: "Жилая зона",
	})
	client.Errors = map[string]error{
		`Fragment to translate: "Awaria"`: errors.New("boom"),
	}
	e := newEngine(t, client)

	entries := []Entry{
		{Phrase: "Stop", Translation: "Стоп"},
		{Phrase: "Zakaz wjazdu"},
		{Phrase: "42"},
		{Phrase: "Awaria"},
		{Phrase: "2. Strefa zamieszkania"},
	}

	results, err := Run(context.Background(), e, entries, Options{Concurrency: 2, UseCache: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != len(entries) {
		t.Fatalf("got %d results, want %d", len(results), len(entries))
	}
	for i, r := range results {
		if r.Entry != entries[i] {
			t.Errorf("result %d is for %q, want %q", i, r.Entry.Phrase, entries[i].Phrase)
		}
	}
	if Failed(results) != 1 || results[3].Err == nil {
		t.Errorf("expected only Awaria to fail: %+v", results)
	}

	var buf bytes.Buffer
	if err := Write(&buf, results); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := []string{
		"Stop = Стоп [approved]",
		"Zakaz wjazdu = Въезд запрещён",
		"42 = 42 [approved]",
		"Awaria: error: ",
		"2. Strefa zamieszkania = 2. Жилая зона",
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(want) {
		t.Fatalf("output has %d lines:\n%s", len(lines), buf.String())
	}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}

	// seeded entry is now an approved cache hit
	res, err := e.Translate(context.Background(), "Stop", engine.DefaultOptions)
	if err != nil || res.Translation != "Стоп" || !res.Approved {
		t.Errorf("seeded Translate() = (%+v, %v)", res, err)
	}
	if client.Calls() != 3 {
		t.Errorf("API called %d times, want 3", client.Calls())
	}
}

func TestRun_Cancelled(t *testing.T) {
	client := testutil.NewFakeClient(nil)
	client.Default = "x"
	e := newEngine(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, e, []Entry{{Phrase: "Zakaz wjazdu"}}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if client.Calls() != 0 {
		t.Errorf("API called %d times after cancel", client.Calls())
	}
}

func TestRun_SequentialReturnsNoError(t *testing.T) {
	client := testutil.NewFakeClient(nil)
	client.Default = "Въезд запрещён"
	e := newEngine(t, client)

	results, err := Run(context.Background(), e, []Entry{{Phrase: "Zakaz wjazdu"}}, Options{Concurrency: 1})
	if err != nil {
		t.Fatalf("Run returned %v after a successful run", err)
	}
	if results[0].Err != nil || results[0].Result.Translation != "Въезд запрещён" {
		t.Errorf("result = %+v", results[0])
	}
}

func TestRun_SeedsUseNormalizedKeys(t *testing.T) {
	client := testutil.NewFakeClient(nil)
	client.Default = "API-ANSWER"
	e := newEngine(t, client)
	ctx := context.Background()

	seeds := []Entry{
		{Phrase: "Znak  B - 20 stop", Translation: "Знак B-20 стоп"},
		{Phrase: "3. Zakaz wjazdu", Translation: "3. Въезд запрещён"},
	}
	if _, err := Run(ctx, e, seeds, Options{UseCache: true}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	doc, err := e.Cache().Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	approved := doc.Approved[cache.DefaultCategory]
	if approved["Znak B-20 stop"] != "Знак B-20 стоп" || approved["Zakaz wjazdu"] != "Въезд запрещён" {
		t.Errorf("approved bucket = %v", approved)
	}

	tests := []struct {
		input string
		want  string
	}{
		{"Znak  B - 20 stop", "Знак B-20 стоп"},
		{"3. Zakaz wjazdu", "3. Въезд запрещён"},
		{"7. Zakaz wjazdu", "7. Въезд запрещён"},
	}
	for _, tt := range tests {
		res, err := e.Translate(ctx, tt.input, engine.DefaultOptions)
		if err != nil {
			t.Fatalf("Translate(%q) failed: %v", tt.input, err)
		}
		if res.Translation != tt.want || !res.Approved {
			t.Errorf("Translate(%q) = %+v, want approved %q", tt.input, res, tt.want)
		}
	}
	if client.Calls() != 0 {
		t.Errorf("API called %d times for seeded phrases", client.Calls())
	}
}
