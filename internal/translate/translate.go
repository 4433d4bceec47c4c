package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mgpai22/tala/internal/logging"
	"github.com/mgpai22/tala/internal/subtitle"
)

// single cue text to translate
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated cue text
type Result struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Completer sends one prompt to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	// items per request
	BatchSize int
	// requests in flight
	Concurrency int
}

// Translator batches items over a Completer with a bounded worker pool.
type Translator struct {
	completer Completer
	opts      Options
	logger    *logging.Logger
}

func New(completer Completer, opts Options, logger *logging.Logger) (*Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Translator{completer: completer, opts: opts, logger: logger}, nil
}

// Factory builds a Translator backed by the named provider.
func Factory(ctx context.Context, provider Provider, apiKey string, opts Options, logger *logging.Logger) (*Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for %s", provider)
	}

	var (
		completer Completer
		err       error
	)
	switch provider {
	case ProviderGemini:
		completer, err = newGeminiCompleter(ctx, apiKey, opts.Model)
	case ProviderOpenAI:
		completer = newOpenAICompleter(apiKey, opts.Model)
	case ProviderAnthropic:
		completer = newAnthropicCompleter(apiKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return New(completer, opts, logger)
}

// Translate returns one result per item, ordered by index. The first
// failing batch cancels the rest.
func (t *Translator) Translate(ctx context.Context, items []Item) ([]Result, error) {
	if len(items) == 0 {
		return []Result{}, nil
	}

	var batches [][]Item
	for i := 0; i < len(items); i += t.opts.BatchSize {
		end := i + t.opts.BatchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	t.logger.Debugw("translating",
		"items", len(items),
		"batches", len(batches),
		"concurrency", t.opts.Concurrency,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		index   int
		results []Result
		err     error
	}

	work := make(chan int)
	out := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for w := 0; w < t.opts.Concurrency && w < len(batches); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				results, err := t.translateBatch(ctx, batches[idx])
				if err != nil {
					cancel()
				}
				out <- batchResult{index: idx, results: results, err: err}
			}
		}()
	}

	go func() {
		defer close(work)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case work <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var (
		all      []Result
		firstErr error
		done     int
	)
	for r := range out {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", r.index, r.err)
			}
			continue
		}
		done++
		all = append(all, r.results...)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if done != len(batches) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("only %d of %d batches completed", done, len(batches))
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all, nil
}

func (t *Translator) translateBatch(ctx context.Context, items []Item) ([]Result, error) {
	text, err := t.completer.Complete(ctx, BuildPrompt(t.opts, items))
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	return parseResponse(text, items)
}

// TranslateSubtitle returns a copy of sub with every cue translated.
// Timing is untouched.
func (t *Translator) TranslateSubtitle(ctx context.Context, sub *subtitle.Subtitle) (*subtitle.Subtitle, error) {
	items := make([]Item, len(sub.Entries))
	for i, e := range sub.Entries {
		items[i] = Item{Index: i, Text: e.Text}
	}

	results, err := t.Translate(ctx, items)
	if err != nil {
		return nil, err
	}

	out := sub.Clone()
	out.Language = t.opts.TargetLanguage
	for _, r := range results {
		if err := out.SetText(r.Index, r.Text); err != nil {
			return nil, fmt.Errorf("apply translation: %w", err)
		}
	}
	return out, nil
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []Item) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		fmt.Fprintf(&sb, "Translate the following %s subtitle cues to %s.\n\n", opts.InputLanguage, opts.TargetLanguage)
	} else {
		fmt.Fprintf(&sb, "Translate the following subtitle cues to %s.\n\n", opts.TargetLanguage)
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Keep inline tags such as <i> or <b> unchanged.\n")
	sb.WriteString("3. Keep line breaks (\\n) in the same places; cues are spoken aloud, so keep them short.\n")
	sb.WriteString("4. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("5. Each object must have 'index' and 'text' fields matching the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
