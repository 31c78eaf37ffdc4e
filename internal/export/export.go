// Package export defines the JSON snapshot format shared by the dashboard,
// the Redis store and the one-shot exporter.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
)

// DateLayout is the wire format for lunch dates.
const DateLayout = "2006-01-02"

// Record is the serialized form of one lunch day.
type Record struct {
	Date            string `json:"date"`
	Weekday         string `json:"weekday"`
	Vendor          string `json:"vendor"`
	Menu            string `json:"menu"`
	SentimentRating int    `json:"sentiment_rating"`
	ReplyCount      int    `json:"reply_count"`
	Rank            int    `json:"rank"`
	Excerpt         string `json:"message_text"`
}

// UnmarshalJSON accepts snapshots written before the rating field was renamed
// from hype_score to sentiment_rating.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		SentimentRating *int `json:"sentiment_rating"`
		HypeScore       *int `json:"hype_score"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.SentimentRating != nil:
		r.SentimentRating = *aux.SentimentRating
	case aux.HypeScore != nil:
		r.SentimentRating = *aux.HypeScore
	}
	return nil
}

// FromRecords converts pipeline output to the wire representation.
func FromRecords(records []domain.LunchRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		out = append(out, Record{
			Date:            rec.Date.Format(DateLayout),
			Weekday:         rec.Weekday,
			Vendor:          rec.Vendor,
			Menu:            rec.Menu,
			SentimentRating: rec.SentimentRating,
			ReplyCount:      rec.ReplyCount,
			Rank:            rec.Rank,
			Excerpt:         rec.Excerpt,
		})
	}
	return out
}

// ToRecords converts wire records back to domain records, interpreting dates
// in the given location.
func ToRecords(records []Record, loc *time.Location) ([]domain.LunchRecord, error) {
	out := make([]domain.LunchRecord, 0, len(records))
	for _, rec := range records {
		date, err := time.ParseInLocation(DateLayout, rec.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing record date %q: %w", rec.Date, err)
		}
		out = append(out, domain.LunchRecord{
			Date:            date,
			Weekday:         rec.Weekday,
			Vendor:          rec.Vendor,
			Menu:            rec.Menu,
			SentimentRating: rec.SentimentRating,
			ReplyCount:      rec.ReplyCount,
			Rank:            rec.Rank,
			Excerpt:         rec.Excerpt,
		})
	}
	return out, nil
}

// Marshal serializes records as indented JSON.
func Marshal(records []Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling lunch records: %w", err)
	}
	return data, nil
}

// Unmarshal parses a JSON snapshot.
func Unmarshal(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshalling lunch records: %w", err)
	}
	return records, nil
}

// WriteFile atomically writes a snapshot file, creating parent directories
// as needed.
func WriteFile(path string, records []Record) error {
	data, err := Marshal(records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// ReadFile loads a snapshot file.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Unmarshal(data)
}
