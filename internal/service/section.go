package service

import (
	"strings"

	"oragh/backend/internal/model"
)

// OtherSection collects musicians whose instrument is empty or unknown.
const OtherSection = "Inne"

// sectionOrder is the canonical order: woodwinds, brass, others, then Inne.
var sectionOrder = []string{
	"Flet", "Obój", "Klarnet", "Fagot", "Saksofon",
	"Waltornia", "Trąbka", "Puzon", "Eufonium", "Tuba",
	"Gitara", "Perkusja",
	OtherSection,
}

var instrumentSections = map[string]string{
	"flet":      "Flet",
	"obój":      "Obój",
	"klarnet":   "Klarnet",
	"fagot":     "Fagot",
	"saksofon":  "Saksofon",
	"waltornia": "Waltornia",
	"trąbka":    "Trąbka",
	"puzon":     "Puzon",
	"eufonium":  "Eufonium",
	"tuba":      "Tuba",
	"gitara":    "Gitara",
	"perkusja":  "Perkusja",
}

// Instruments returns the instrument catalogue codes in section order.
func Instruments() []string {
	out := make([]string, 0, len(instrumentSections))
	for _, name := range sectionOrder {
		if name != OtherSection {
			out = append(out, strings.ToLower(name))
		}
	}
	return out
}

// ValidInstrument reports whether code names a catalogue instrument.
func ValidInstrument(code string) bool {
	_, ok := instrumentSections[normalizeInstrument(code)]
	return ok
}

func normalizeInstrument(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// SectionOf maps an instrument code to its section name.
func SectionOf(instrument string) string {
	if name, ok := instrumentSections[normalizeInstrument(instrument)]; ok {
		return name
	}
	return OtherSection
}

// Section is one instrument group of musicians.
type Section struct {
	Name      string
	Musicians []model.Musician
}

// SectionBy groups musicians by section in canonical order. Empty sections
// are dropped and musicians keep their input order within a section.
func SectionBy(musicians []model.Musician) []Section {
	grouped := make(map[string][]model.Musician, len(sectionOrder))
	for _, m := range musicians {
		name := SectionOf(m.Instrument)
		grouped[name] = append(grouped[name], m)
	}
	sections := make([]Section, 0, len(grouped))
	for _, name := range sectionOrder {
		if list := grouped[name]; len(list) > 0 {
			sections = append(sections, Section{Name: name, Musicians: list})
		}
	}
	return sections
}
