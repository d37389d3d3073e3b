package importer

import "fmt"

type Results struct {
	Success []string `json:"success"`
	Errors  []string `json:"errors"`
	Skipped []string `json:"skipped"`
}

// Created identifies a property persisted by an import run.
type Created struct {
	Folder string `json:"folder"`
	ID     uint   `json:"id"`
	Slug   string `json:"slug"`
	Images int    `json:"images"`
	Videos int    `json:"videos"`
	Files  int    `json:"files"`
}

// Report summarizes one import run. Total counts every candidate folder, including
// skipped ones that had no importable media.
type Report struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	Results    Results   `json:"results"`
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Properties []Created `json:"properties"`
}

func newReport(id string, total int) *Report {
	return &Report{
		ID:    id,
		Total: total,
		Results: Results{
			Success: []string{},
			Errors:  []string{},
			Skipped: []string{},
		},
		Properties: []Created{},
	}
}

func (r *Report) succeed(c Created) {
	r.Successful++
	r.Results.Success = append(r.Results.Success, c.Folder)
	r.Properties = append(r.Properties, c)
}

func (r *Report) fail(folder string, err error) {
	r.Failed++
	r.Results.Errors = append(r.Results.Errors, fmt.Sprintf("%s: %v", folder, err))
}

func (r *Report) skip(folder string) {
	r.Skipped++
	r.Results.Skipped = append(r.Results.Skipped, folder)
}

func (r *Report) finish() {
	r.Message = fmt.Sprintf("Import completed: %d successful, %d failed, %d skipped of %d folders",
		r.Successful, r.Failed, r.Skipped, r.Total)
}
