package gtts

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	DefaultURL = "https://translate.google.com/translate_tts"

	// The endpoint rejects queries longer than this many characters.
	maxTokenRunes = 100
)

// createAudio opens the output file for writing.
var createAudio = func(path string) (io.WriteCloser, error) { return os.Create(path) }

type Adapter struct {
	url    string
	client *http.Client
}

func New(endpoint string) *Adapter {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultURL
	}
	return &Adapter{url: endpoint, client: &http.Client{Timeout: 30 * time.Second}}
}

// Synthesize fetches one MP3 per text token and appends them to outPath in order.
func (a *Adapter) Synthesize(ctx context.Context, text, lang, outPath string) error {
	if lang == "" {
		lang = "en"
	}
	tokens := Tokenize(text, maxTokenRunes)
	if len(tokens) == 0 {
		return errors.New("gtts: no text to speak")
	}

	f, err := createAudio(outPath)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	w := bufio.NewWriter(f)
	for i, tok := range tokens {
		if err := a.fetch(ctx, w, tok, lang, i, len(tokens)); err != nil {
			_ = f.Close()
			_ = os.Remove(outPath)
			return fmt.Errorf("gtts token %d/%d: %w", i+1, len(tokens), err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(outPath)
		return fmt.Errorf("write audio file: %w", err)
	}
	return f.Close()
}

func (a *Adapter) fetch(ctx context.Context, w io.Writer, tok, lang string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", tok)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(len([]rune(tok))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("empty audio response")
	}
	return nil
}

// Tokenize splits text at sentence punctuation and line breaks, then packs
// words into chunks of at most max runes. A single word longer than max is cut.
func Tokenize(text string, max int) []string {
	if max <= 0 {
		max = maxTokenRunes
	}
	var out []string
	for _, sentence := range splitSentences(text) {
		var cur []rune
		for _, word := range strings.Fields(sentence) {
			wr := []rune(word)
			for len(wr) > max {
				if len(cur) > 0 {
					out = append(out, string(cur))
					cur = nil
				}
				out = append(out, string(wr[:max]))
				wr = wr[max:]
			}
			if len(wr) == 0 {
				continue
			}
			switch {
			case len(cur) == 0:
				cur = append(cur, wr...)
			case len(cur)+1+len(wr) <= max:
				cur = append(cur, ' ')
				cur = append(cur, wr...)
			default:
				out = append(out, string(cur))
				cur = append([]rune(nil), wr...)
			}
		}
		if len(cur) > 0 {
			out = append(out, string(cur))
		}
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" && strings.IndexFunc(s, isSpeakable) >= 0 {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, r := range text {
		switch r {
		case '\n', '\r':
			flush()
		case '.', '!', '?', ';', ':':
			b.WriteRune(r)
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return out
}

func isSpeakable(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
