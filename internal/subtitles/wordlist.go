package subtitles

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

//go:embed default_words.txt
var defaultWordList []byte

// Pattern is one compiled word-list entry.
type Pattern struct {
	Word string
	re   *regexp.Regexp
}

// LoadWordList compiles a word list from r. One pattern per line; blank
// lines and # comments are skipped. Entries are lowercased and
// NFC-normalized so list files written with decomposed accents still match
// composed subtitle text.
func LoadWordList(r io.Reader) ([]Pattern, error) {
	scanner := bufio.NewScanner(r)
	var patterns []Pattern
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word := norm.NFC.String(strings.ToLower(line))
		re, err := compileWord(word)
		if err != nil {
			return nil, fmt.Errorf("word list entry %q: %w", line, err)
		}
		patterns = append(patterns, Pattern{Word: word, re: re})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return patterns, nil
}

// LoadWordListFile loads patterns from path, or from the embedded default
// list when path is empty.
func LoadWordListFile(path string) ([]Pattern, error) {
	if path == "" {
		return LoadWordList(bytes.NewReader(defaultWordList))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	return LoadWordList(f)
}

func compileWord(word string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(word)
	expr := strings.ReplaceAll(quoted, `\*`, `.*`)
	return regexp.Compile(`(?i)\b` + expr + `\b`)
}
