package clockify

import "context"

// EntrySource is a pluggable source of time entries. The CSV upload is
// one implementation; a Clockify REST pull can be added behind the same
// interface without touching the import flow.
type EntrySource interface {
	Fetch(ctx context.Context) (ParseResult, error)
}

// CSVSource wraps raw CSV file content.
type CSVSource struct {
	content string
}

func NewCSVSource(content string) *CSVSource {
	return &CSVSource{content: content}
}

func (s *CSVSource) Fetch(ctx context.Context) (ParseResult, error) {
	return Parse(s.content), nil
}
