package textproc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Technical entity patterns recognized in designations.
var (
	dosagePattern      = regexp.MustCompile(`(?i)(\d+)\s*(kg/m[23]?|kg|l/m[23]?)`)
	dimensionPattern   = regexp.MustCompile(`(?i)(\d+)\s*x\s*(\d+)(?:\s*x\s*(\d+))?`)
	measurementPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(m[23]?|cm|mm|kg|l|ml|cl)`)

	wordPattern = regexp.MustCompile(`\b[\w/-]+\b`)
)

// protectedJoiner temporarily replaces spaces inside protected technical
// terms so they survive word splitting.
const protectedJoiner = "_"

// stopWords are trade-context filler words. A token that carries a digit is
// kept even when it is listed here.
var stopWords = map[string]bool{
	"de": true, "la": true, "le": true, "et": true, "en": true, "un": true,
	"une": true, "avec": true, "du": true, "des": true, "les": true,
	"pour": true, "sur": true, "dans": true, "par": true, "au": true,
	"aux": true, "ce": true, "ces": true, "son": true, "sa": true,
	"y": true, "compris": true,
}

// abbreviation is a whole-word trade abbreviation and its expansion.
// Expansions are accentless so they compose with normalized text.
type abbreviation struct {
	pattern   *regexp.Regexp
	expansion string
}

func newAbbreviation(abbrev, expansion string) abbreviation {
	return abbreviation{
		pattern:   regexp.MustCompile(`\b` + regexp.QuoteMeta(abbrev) + `\b`),
		expansion: expansion,
	}
}

// abbreviations is applied in order before tokenization. The order is fixed so
// expansion is deterministic.
var abbreviations = []abbreviation{
	newAbbreviation("allu", "aluminium"),
	newAbbreviation("alu", "aluminium"),
	newAbbreviation("galva", "galvanise"),
	newAbbreviation("metal", "metallique"),
	newAbbreviation("m2", "metre carre"),
	newAbbreviation("m3", "metre cube"),
	newAbbreviation("cm", "centimetre"),
	newAbbreviation("mm", "millimetre"),
	newAbbreviation("kg", "kilogramme"),
	newAbbreviation("ep", "epaisseur"),
	newAbbreviation("dim", "dimension"),
	newAbbreviation("ht", "hauteur"),
	newAbbreviation("lg", "longueur"),
	newAbbreviation("larg", "largeur"),
	newAbbreviation("prof", "profondeur"),
	newAbbreviation("diam", "diametre"),
	newAbbreviation("epaiss", "epaisseur"),
	newAbbreviation("bat", "batiment"),
	newAbbreviation("elec", "electricite"),
	newAbbreviation("plomb", "plomberie"),
	newAbbreviation("menuis", "menuiserie"),
}

// Tokenize splits text into domain tokens.
//
// The pipeline is: lower-case, expand trade abbreviations, optionally protect
// technical patterns (dosages like "350 kg/m3", dimensions like "20 x 40 x 60",
// measurements like "2,5 m2") so they come out as single tokens, split on word
// boundaries keeping alphanumerics plus '/', '_' and '-', then drop stop words
// without digits and tokens of a single character. Output order follows input
// order.
func Tokenize(text string, preserveTechnical bool) []string {
	text = strings.ToLower(text)

	for _, abbr := range abbreviations {
		text = abbr.pattern.ReplaceAllString(text, abbr.expansion)
	}

	if preserveTechnical {
		text = dosagePattern.ReplaceAllStringFunc(text, protectSpaces)
		text = dimensionPattern.ReplaceAllStringFunc(text, protectSpaces)
		text = measurementPattern.ReplaceAllStringFunc(text, protectSpaces)
	}

	raw := wordPattern.FindAllString(text, -1)

	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		restored := strings.ReplaceAll(token, protectedJoiner, " ")
		if stopWords[restored] && !containsDigit(restored) {
			continue
		}
		if utf8.RuneCountInString(restored) <= 1 {
			continue
		}
		tokens = append(tokens, restored)
	}
	return tokens
}

func protectSpaces(match string) string {
	return strings.ReplaceAll(match, " ", protectedJoiner)
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
