package model

import "strings"

// Sound is one of the ten phonetic target categories a round quizzes on.
type Sound string

const (
	SoundShortA Sound = "A"
	SoundLongA  Sound = "AI"
	SoundShortE Sound = "E"
	SoundLongE  Sound = "EE"
	SoundShortI Sound = "I"
	SoundLongI  Sound = "IE"
	SoundShortO Sound = "O"
	SoundLongO  Sound = "OA"
	SoundShortU Sound = "U"
	SoundLongU  Sound = "UE"
)

// Sounds lists every category in display order.
var Sounds = []Sound{
	SoundShortA, SoundLongA,
	SoundShortE, SoundLongE,
	SoundShortI, SoundLongI,
	SoundShortO, SoundLongO,
	SoundShortU, SoundLongU,
}

// SoundLabels maps each category to the spellings and IPA hint shown on the
// student grid.
var SoundLabels = map[Sound][]string{
	SoundShortA: {"A", "/æ/"},
	SoundLongA:  {"AI", "AY", "EY", "EIGH", "/eɪ/"},
	SoundShortE: {"E", "/ɛ/"},
	SoundLongE:  {"EE", "EA", "IE", "/i/"},
	SoundShortI: {"I", "/I/"},
	SoundLongI:  {"IE", "IGH", "/aɪ/"},
	SoundShortO: {"O", "/ɑ/"},
	SoundLongO:  {"OA", "/oʊ/"},
	SoundShortU: {"U", "/ʊ/"},
	SoundLongU:  {"UE", "OO", "EW", "/u/"},
}

// ParseSound resolves a raw client string to a known category.
// Matching is case-insensitive.
func ParseSound(s string) (Sound, bool) {
	candidate := Sound(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Sounds {
		if candidate == known {
			return known, true
		}
	}
	return "", false
}

// WordLists holds the ten example-word buckets, one per sound category.
// The key set is fixed; items within a bucket are an unordered bag.
type WordLists map[Sound][]string

// NewWordLists returns empty buckets for every sound category.
func NewWordLists() WordLists {
	w := make(WordLists, len(Sounds))
	for _, s := range Sounds {
		w[s] = []string{}
	}
	return w
}

// Add appends a word to the bucket for the given sound. Duplicates are kept;
// the bag is teacher-curated content, not a set.
func (w WordLists) Add(sound Sound, word string) {
	w[sound] = append(w[sound], word)
}

// Remove deletes the first occurrence of word from the bucket.
func (w WordLists) Remove(sound Sound, word string) {
	bucket := w[sound]
	for i, item := range bucket {
		if item == word {
			w[sound] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

// Clear empties every bucket while keeping the fixed key set.
func (w WordLists) Clear() {
	for _, s := range Sounds {
		w[s] = []string{}
	}
}
