package collector

import (
	"context"
	"os"

	"TickerDash/internal/model"
)

// CSVFileSource reads an offline snapshot of daily bars from disk.
type CSVFileSource struct {
	Path    string
	Symbol  string
	MinBars int
}

func NewCSVFileSource(path, symbol string, minBars int) *CSVFileSource {
	return &CSVFileSource{Path: path, Symbol: symbol, MinBars: minBars}
}

func (s *CSVFileSource) Name() string { return "csv" }

func (s *CSVFileSource) FetchSeries(ctx context.Context) (*model.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SourceError{Source: s.Name(), Err: err}
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Err: err}
	}
	defer f.Close()

	bars, err := ParseCSV(f, s.MinBars)
	if err != nil {
		return nil, err
	}
	return newSeries(s.Symbol, s.Name(), bars), nil
}
