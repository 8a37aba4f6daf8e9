package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// EncodingGuess is the result of statistical charset inference over
// the head of a file. It seeds the parsing cascade but never gates it.
type EncodingGuess struct {
	Name       string
	Confidence float64 // in [0,1]
}

const (
	// detectSampleSize bounds how much of the file feeds detection.
	detectSampleSize = 100_000
	// acceptConfidence is the floor below which the guess is ignored
	// in favor of UTF-8.
	acceptConfidence = 0.7
)

// fallbackEncodings is the fixed sweep order the cascade retries with.
var fallbackEncodings = []string{
	"utf-8", "latin1", "cp1252", "iso-8859-1", "utf-16", "ascii",
}

// DetectEncoding runs statistical charset detection over the first
// detectSampleSize bytes. Detection failure degrades to a zero-confidence
// UTF-8 guess.
func DetectEncoding(data []byte) EncodingGuess {
	sample := data
	if len(sample) > detectSampleSize {
		sample = sample[:detectSampleSize]
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil || res.Charset == "" {
		return EncodingGuess{Name: "utf-8"}
	}
	return EncodingGuess{
		Name:       strings.ToLower(res.Charset),
		Confidence: float64(res.Confidence) / 100,
	}
}

// Accepted returns the encoding the cascade should start with: the
// detected charset when confident enough, UTF-8 otherwise.
func (g EncodingGuess) Accepted() string {
	if g.Confidence > acceptConfidence && g.Name != "" {
		return g.Name
	}
	return "utf-8"
}

// decode converts raw bytes to a string under the named encoding.
// With replaceInvalid set, undecodable sequences become U+FFFD instead
// of failing; single-byte charmaps can never fail either way.
func decode(data []byte, name string, replaceInvalid bool) (string, error) {
	switch canonicalEncoding(name) {
	case "utf-8":
		if utf8.Valid(data) {
			return string(data), nil
		}
		if replaceInvalid {
			return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
		}
		return "", fmt.Errorf("invalid utf-8 byte sequence")
	case "ascii":
		for _, b := range data {
			if b >= 0x80 {
				if replaceInvalid {
					return asciiReplace(data), nil
				}
				return "", fmt.Errorf("byte 0x%02x outside ascii range", b)
			}
		}
		return string(data), nil
	case "latin1", "iso-8859-1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode latin1: %w", err)
		}
		return string(out), nil
	case "cp1252":
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode cp1252: %w", err)
		}
		return string(out), nil
	case "utf-16":
		if !replaceInvalid && len(data)%2 != 0 {
			return "", fmt.Errorf("odd byte count for utf-16")
		}
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// canonicalEncoding folds detector/chardet spellings onto the names
// used by the fallback sweep.
func canonicalEncoding(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	switch n {
	case "utf-8", "utf8":
		return "utf-8"
	case "ascii", "us-ascii":
		return "ascii"
	case "latin1", "latin-1":
		return "latin1"
	case "iso-8859-1", "iso8859-1":
		return "iso-8859-1"
	case "cp1252", "windows-1252":
		return "cp1252"
	case "utf-16", "utf16", "utf-16le", "utf-16be":
		return "utf-16"
	default:
		return n
	}
}

// decodable reports whether the cascade knows a decoder for name.
func decodable(name string) bool {
	switch canonicalEncoding(name) {
	case "utf-8", "ascii", "latin1", "iso-8859-1", "cp1252", "utf-16":
		return true
	}
	return false
}

func asciiReplace(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 0x80 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
