package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for record files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported record file format")

// DecodeCandidate converts a loosely typed nested map into a Candidate.
// Numbers given as strings are accepted.
func DecodeCandidate(raw map[string]any) (*Candidate, error) {
	var c Candidate
	if err := decode(raw, &c); err != nil {
		return nil, fmt.Errorf("decoding candidate: %w", err)
	}
	return &c, nil
}

// DecodeJob converts a loosely typed nested map into a Job.
func DecodeJob(raw map[string]any) (*Job, error) {
	var j Job
	if err := decode(raw, &j); err != nil {
		return nil, fmt.Errorf("decoding job: %w", err)
	}
	return &j, nil
}

func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// LoadCandidates reads candidate records from a JSON or YAML file holding
// either a list of records or a map with a "candidates" list.
func LoadCandidates(path string) (*Candidates, error) {
	items, err := readRecords(path, "candidates")
	if err != nil {
		return nil, err
	}

	candidates := &Candidates{}
	for i, raw := range items {
		c, err := DecodeCandidate(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i, err)
		}
		candidates.Items = append(candidates.Items, c)
	}
	return candidates, nil
}

// LoadJobs reads job records from a JSON or YAML file holding either a list
// of records or a map with a "jobs" list.
func LoadJobs(path string) (*Jobs, error) {
	items, err := readRecords(path, "jobs")
	if err != nil {
		return nil, err
	}

	jobs := &Jobs{}
	for i, raw := range items {
		j, err := DecodeJob(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i, err)
		}
		jobs.Items = append(jobs.Items, j)
	}
	return jobs, nil
}

func readRecords(path, key string) ([]map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records from %q: %w", path, err)
	}

	// JSON is a subset of YAML, one parser covers both.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing records from %q: %w", path, err)
	}

	if wrapped, ok := doc.(map[string]any); ok {
		doc = wrapped[key]
	}

	list, ok := doc.([]any)
	if !ok {
		if doc == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: expected a list of %s", path, key)
	}

	records := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: %s[%d] is not an object", path, key, i)
		}
		records = append(records, m)
	}
	return records, nil
}
