package importer

import (
	"regexp"
	"strings"

	"estate_portal/pkg/utils/location"
)

// NameSeparator separates the district from the property name in a folder name.
const NameSeparator = " - "

// "<District> - <Property Name>"; the district is everything before the first separator.
var folderPattern = regexp.MustCompile(`^(.+?) - (.+)$`)

// FolderName is the result of parsing a property folder name.
// Matched is false when the name does not follow the district convention; District is
// then empty and Name holds the whole folder name.
type FolderName struct {
	Raw      string
	District string
	Name     string
	Matched  bool
}

// ParseFolderName splits "District - Property Name" when District is in the catalog.
func ParseFolderName(raw string, catalog *location.Catalog) FolderName {
	raw = strings.TrimSpace(raw)
	fallback := FolderName{Raw: raw, Name: raw}

	m := folderPattern.FindStringSubmatch(raw)
	if m == nil {
		return fallback
	}
	district, name := m[1], strings.TrimSpace(m[2])
	if name == "" {
		return fallback
	}
	if _, ok := catalog.Lookup(district); !ok {
		return fallback
	}
	return FolderName{Raw: raw, District: district, Name: name, Matched: true}
}
