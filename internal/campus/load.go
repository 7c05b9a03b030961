package campus

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
)

// LoadRoster reads student records from a JSON fixture file and
// validates every record before returning. A single invalid record
// fails the whole load.
func LoadRoster(path string) (*Roster, error) {
	var raw []map[string]any
	if err := readFixture(path, &raw); err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	roster := &Roster{Items: make([]*StudentRecord, 0, len(raw))}
	for _, entry := range raw {
		rec := &StudentRecord{}
		if err := decodeRecord(entry, rec); err != nil {
			return nil, fmt.Errorf("decoding student record: %w", err)
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		roster.Items = append(roster.Items, rec)
	}

	return roster, nil
}

// LoadBoard reads opportunity postings from a JSON fixture file.
func LoadBoard(path string) (*Board, error) {
	var raw []map[string]any
	if err := readFixture(path, &raw); err != nil {
		return nil, fmt.Errorf("loading board: %w", err)
	}

	board := &Board{Items: make([]*Opportunity, 0, len(raw))}
	for _, entry := range raw {
		opp := &Opportunity{}
		if err := decodeRecord(entry, opp); err != nil {
			return nil, fmt.Errorf("decoding opportunity: %w", err)
		}
		if opp.ID == "" {
			return nil, fmt.Errorf("opportunity id is required: %w", ErrInvalidInput)
		}
		board.Items = append(board.Items, opp)
	}

	return board, nil
}

func readFixture(path string, out *[]map[string]any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	// An empty fixture file means an empty collection, not an error.
	if stat.Size() == 0 {
		return nil
	}

	return json.NewDecoder(file).Decode(out)
}

func decodeRecord(entry map[string]any, out any) error {
	cfg := &mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		WeaklyTypedInput: true,
		Result:           out,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(entry)
}
