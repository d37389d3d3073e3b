package importer

import (
	"path/filepath"
	"strings"
)

var languageCodes = map[string]bool{
	"EN": true, "RU": true, "AR": true, "DE": true, "FR": true,
	"ZH": true, "ES": true, "IT": true, "HI": true, "FA": true,
}

func isLabelDelimiter(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// DocumentLabel derives a display label from a document file name. The extension is
// dropped; an upper-case language token such as "EN_" or "_RU" is moved to a " (EN)" suffix.
func DocumentLabel(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	tokens := strings.FieldsFunc(base, isLabelDelimiter)
	lang := ""
	var rest []string
	for _, tok := range tokens {
		if lang == "" && languageCodes[tok] {
			lang = tok
			continue
		}
		rest = append(rest, tok)
	}
	if lang == "" {
		return base
	}
	if len(rest) == 0 {
		return "Document (" + lang + ")"
	}
	return strings.Join(rest, " ") + " (" + lang + ")"
}
