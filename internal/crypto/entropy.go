package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"sync"
)

// Charset selects the alphabet GeneratePassword draws from.
type Charset string

const (
	CharsetAlpha    Charset = "alpha"
	CharsetAlnum    Charset = "alnum"
	CharsetAlnumSym Charset = "alnumsym"
)

var charsetAlphabets = map[Charset][]rune{
	CharsetAlpha:    []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"),
	CharsetAlnum:    []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"),
	CharsetAlnumSym: []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_=+[]{}<>?,.:;/'\"|\\~"),
}

var (
	errNonPositiveLength = errors.New("crypto: length must be positive")
	errUnknownCharset    = errors.New("crypto: unknown charset")
)

var (
	entropySource   io.Reader = rand.Reader
	entropySourceMu sync.RWMutex
)

// SetRandomSource overrides the generator's entropy source, for
// deterministic tests. A nil r restores crypto/rand.Reader.
func SetRandomSource(r io.Reader) {
	entropySourceMu.Lock()
	defer entropySourceMu.Unlock()
	if r == nil {
		entropySource = rand.Reader
		return
	}
	entropySource = r
}

func currentSource() io.Reader {
	entropySourceMu.RLock()
	defer entropySourceMu.RUnlock()
	return entropySource
}

// GeneratePassword draws length runes uniformly at random from charset's
// alphabet via rejection sampling (never via a modulo that would bias
// toward the low end of the alphabet).
func GeneratePassword(length int, charset Charset) (string, error) {
	if length <= 0 {
		return "", errNonPositiveLength
	}
	alphabet, ok := charsetAlphabets[charset]
	if !ok {
		return "", errUnknownCharset
	}

	src := currentSource()
	var out strings.Builder
	out.Grow(length)
	for i := 0; i < length; i++ {
		idx, err := uniformIndex(src, len(alphabet))
		if err != nil {
			return "", err
		}
		out.WriteRune(alphabet[idx])
	}
	return out.String(), nil
}

// GenerateDiceware returns wordCount passphrase words, each drawn
// independently (with replacement) from the adjective-noun word list, for
// hosts that want a memorable passphrase instead of a random-character one.
func GenerateDiceware(wordCount int) ([]string, error) {
	if wordCount <= 0 {
		return nil, errNonPositiveLength
	}

	list := dicewareList()
	src := currentSource()
	words := make([]string, wordCount)
	for i := range words {
		idx, err := uniformIndex(src, len(list))
		if err != nil {
			return nil, err
		}
		words[i] = list[idx]
	}
	return words, nil
}

var dicewareAdjectives = []string{
	"able", "amber", "brave", "calm", "clever", "crisp", "daring", "eager",
	"early", "fancy", "gentle", "happy", "ideal", "jolly", "keen", "lively",
	"magic", "noble", "oaken", "pearl", "quick", "ready", "solar", "tidy",
	"urban", "vivid", "warm", "young", "zesty", "bright", "candid", "dazzle",
	"elegant", "friendly", "glossy", "humble",
}

var dicewareNouns = []string{
	"anchor", "beacon", "canyon", "dream", "ember", "forest", "galaxy",
	"harbor", "island", "jungle", "kingdom", "lantern", "meadow", "nebula",
	"ocean", "prairie", "quartz", "river", "summit", "temple", "unicorn",
	"valley", "willow", "xenon", "yonder", "zephyr", "apple", "bridge",
	"comet", "dragon", "feather", "garden", "horizon", "idol", "jade",
	"keeper", "legend",
}

var (
	dicewareOnce  sync.Once
	dicewareWords []string
)

// dicewareList lazily builds the adjective-noun cross product once, the
// first time a word is needed.
func dicewareList() []string {
	dicewareOnce.Do(func() {
		dicewareWords = make([]string, 0, len(dicewareAdjectives)*len(dicewareNouns))
		for _, adj := range dicewareAdjectives {
			for _, noun := range dicewareNouns {
				dicewareWords = append(dicewareWords, adj+"-"+noun)
			}
		}
	})
	return dicewareWords
}

// uniformIndex returns an index in [0, max) drawn uniformly from r via
// rejection sampling, widening the read size as max grows past a byte,
// then two bytes, then four.
func uniformIndex(r io.Reader, max int) (int, error) {
	if max <= 0 {
		return 0, errNonPositiveLength
	}

	switch {
	case max <= 1<<8:
		return rejectionSample(r, 1, func(buf []byte) uint32 { return uint32(buf[0]) }, 1<<8, max)
	case max <= 1<<16:
		return rejectionSample(r, 2, func(buf []byte) uint32 { return uint32(binary.BigEndian.Uint16(buf)) }, 1<<16, max)
	default:
		return rejectionSample(r, 4, binary.BigEndian.Uint32, 1<<32-1, max)
	}
}

func rejectionSample(r io.Reader, width int, decode func([]byte) uint32, space uint32, max int) (int, error) {
	limit := space - space%uint32(max)
	buf := make([]byte, width)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, err
		}
		if val := decode(buf); val < limit {
			return int(val % uint32(max)), nil
		}
	}
}
