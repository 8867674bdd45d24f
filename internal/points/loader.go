package points

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadPrimary reads the sequential points CSV. It returns the loaded registry
// together with the natural sequence: point ids in row order, which becomes
// the default walking path.
//
// Rows without an id are skipped. A row that has an id but unparsable
// coordinates aborts the whole load.
func LoadPrimary(path string) (Registry, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("CSV file not found: %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	idx := makeIndex(header)

	registry := make(Registry)
	var sequence []string

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d of %s: %w", row, path, err)
		}

		id := getField(record, idx, "id")
		if id == "" {
			continue
		}

		lng, lngErr := strconv.ParseFloat(getField(record, idx, "x"), 64)
		lat, latErr := strconv.ParseFloat(getField(record, idx, "y"), 64)
		if lngErr != nil || latErr != nil {
			return nil, nil, fmt.Errorf("invalid coordinates in row %d (id=%s)", row, id)
		}

		name := getField(record, idx, "localization", "localisation")
		if name == "" {
			name = fmt.Sprintf("Localization %d", row)
		}

		registry[id] = Point{ID: id, Name: name, Lat: lat, Lng: lng}
		sequence = append(sequence, id)
	}

	return registry, sequence, nil
}

// LoadSecondary augments an existing registry with points from the database
// CSV, whose "GPS ID" column carries a combined "lat,lng" (or "lat;lng")
// value. A missing file is not an error. Malformed rows are skipped. A row
// whose explicit id collides with an existing point is dropped; rows without
// an explicit id get a synthesized db_<n> id. Returns the added ids in row
// order.
func LoadSecondary(path string, registry Registry) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	idx := makeIndex(header)

	var added []string
	nextIndex := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		lat, lng, ok := parseCombinedCoords(getField(record, idx, "gps id"))
		if !ok {
			continue
		}

		id := getField(record, idx, "id")
		if id != "" {
			if _, exists := registry[id]; exists {
				// Existing point wins; the row is dropped entirely.
				continue
			}
		} else {
			for {
				id = fmt.Sprintf("db_%d", nextIndex)
				if _, exists := registry[id]; !exists {
					break
				}
				nextIndex++
			}
			nextIndex++
		}

		name := getField(record, idx, "name")
		if name == "" {
			name = id
		}

		point := Point{ID: id, Name: name, Lat: lat, Lng: lng}
		if desc := getField(record, idx, "description"); desc != "" {
			point.Description = &desc
		}

		registry[id] = point
		added = append(added, id)
	}

	return added, nil
}

// parseCombinedCoords splits a "lat,lng" or "lat;lng" value into its two
// floats. Anything that does not yield exactly two parseable parts fails.
func parseCombinedCoords(value string) (lat, lng float64, ok bool) {
	cleaned := strings.ReplaceAll(value, ";", ",")
	var parts []string
	for _, part := range strings.Split(cleaned, ",") {
		if p := strings.TrimSpace(part); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, latErr := strconv.ParseFloat(parts[0], 64)
	lng, lngErr := strconv.ParseFloat(parts[1], 64)
	if latErr != nil || lngErr != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// makeIndex builds a lowercase header lookup, tolerating surrounding
// whitespace and a UTF-8 BOM on the first header name.
func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\uFEFF")
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// getField returns the trimmed value of the first matching field name.
func getField(record []string, idx map[string]int, fields ...string) string {
	for _, field := range fields {
		if i, ok := idx[field]; ok && i < len(record) {
			if v := strings.TrimSpace(record[i]); v != "" {
				return v
			}
		}
	}
	return ""
}
