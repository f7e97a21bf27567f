package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/phrasememo/internal/engine"
)

// DefaultConcurrency is the number of phrases translated at once
const DefaultConcurrency = 4

// Entry is one line of a batch file
type Entry struct {
	Phrase string
	// Translation is set for "phrase = translation" lines
	Translation string
}

// Seeded reports whether the entry carries its own translation
func (e Entry) Seeded() bool { return e.Translation != "" }

// Result is the outcome for one entry
type Result struct {
	Entry  Entry
	Result engine.Result
	Err    error
}

// Options control a batch run
type Options struct {
	Concurrency int
	UseCache    bool
}

// ReadBatchFile reads entries from a file.
// Supports formats:
// - phrase only: "Ustąp pierwszeństwa" (translated)
// - with translation: "Stop = Стоп" (stored as approved)
// Blank lines and lines starting with '#' are skipped.
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	return ReadEntries(f)
}

// ReadEntries parses batch entries from r
func ReadEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		phrase, translation, found := strings.Cut(line, "=")
		if !found {
			entries = append(entries, Entry{Phrase: line})
			continue
		}

		phrase = strings.TrimSpace(phrase)
		translation = strings.TrimSpace(translation)
		if phrase == "" {
			// Ignore lines without a phrase
			continue
		}
		entries = append(entries, Entry{Phrase: phrase, Translation: translation})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch entries: %w", err)
	}

	return entries, nil
}

// Run translates entries with at most opts.Concurrency calls in flight.
// Results keep the order of entries; a failed entry does not stop the run.
func Run(ctx context.Context, e *engine.Engine, entries []Entry, opts Options) ([]Result, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	results := make([]Result, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, entry := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = process(gctx, e, entry, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	// gctx is always cancelled once Wait returns; only the caller's ctx counts
	return results, ctx.Err()
}

func process(ctx context.Context, e *engine.Engine, entry Entry, opts Options) Result {
	if entry.Seeded() {
		err := e.Seed(ctx, entry.Phrase, entry.Translation)
		return Result{
			Entry:  entry,
			Result: engine.Result{Translation: entry.Translation, Approved: true},
			Err:    err,
		}
	}

	res, err := e.Translate(ctx, entry.Phrase, engine.Options{UseCache: opts.UseCache})
	return Result{Entry: entry, Result: res, Err: err}
}

// Write prints one line per result: "phrase = translation [approved]"
func Write(w io.Writer, results []Result) error {
	for _, r := range results {
		var line string
		switch {
		case r.Err != nil:
			line = fmt.Sprintf("%s: error: %v", r.Entry.Phrase, r.Err)
		case r.Result.Approved:
			line = fmt.Sprintf("%s = %s [approved]", r.Entry.Phrase, r.Result.Translation)
		default:
			line = fmt.Sprintf("%s = %s", r.Entry.Phrase, r.Result.Translation)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Failed counts results with an error
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
