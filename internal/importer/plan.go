package importer

import (
	"path/filepath"
)

// FolderPlan describes what an import would do with one folder, without side effects.
type FolderPlan struct {
	Folder    string `json:"folder"`
	District  string `json:"district"`
	Name      string `json:"name"`
	Matched   bool   `json:"convention_matched"`
	Slug      string `json:"base_slug"`
	Images    int    `json:"images"`
	Videos    int    `json:"videos"`
	Documents int    `json:"documents"`
	Ignored   int    `json:"ignored"`
	Skip      bool   `json:"skip"`
	Error     string `json:"error,omitempty"`
}

// Plan inspects root like ImportPath but writes nothing. Videos are counted before the
// aspect ratio check.
func (i *Importer) Plan(root string) ([]FolderPlan, error) {
	folders, err := DiscoverFolders(root)
	if err != nil {
		return nil, err
	}

	plans := make([]FolderPlan, 0, len(folders))
	for _, dir := range folders {
		fn := ParseFolderName(filepath.Base(dir), i.catalog)
		district := fn.District
		if !fn.Matched {
			district = i.fallback
		}
		p := FolderPlan{
			Folder:   filepath.Base(dir),
			District: district,
			Name:     fn.Name,
			Matched:  fn.Matched,
			Slug:     PropertySlug(district, fn.Name),
		}

		b, err := Collect(dir)
		if err != nil {
			p.Error = err.Error()
			plans = append(plans, p)
			continue
		}
		p.Images = len(b.Images)
		p.Videos = len(b.Videos)
		p.Documents = len(b.Documents)
		p.Ignored = len(b.Ignored)
		p.Skip = b.Empty()
		plans = append(plans, p)
	}
	return plans, nil
}
