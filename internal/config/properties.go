package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Properties are the numeric game rules read from a key=value file.
type Properties struct {
	MapSize     int     // Side length of the generated demo grid
	SpawnRadius float64 // Cells around the camera where entities may appear
	SpawnRate   float64 // Entities per second
	MaxEntities int

	// Values holds every key in the file, including unknown ones.
	Values map[string]float64
}

var requiredProperties = []string{"map_size", "spawn_radius", "spawn_rate", "max_entities"}

// LoadProperties reads a properties file. Every required key must be present
// and numeric; anything else is an error the caller treats as fatal.
func LoadProperties(path string) (*Properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open properties: %w", err)
	}
	defer f.Close()

	p, err := ParseProperties(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseProperties reads key=value lines. Blank lines and lines starting with
// '#' or '!' are ignored; keys are case-insensitive.
func ParseProperties(r io.Reader) (*Properties, error) {
	values := make(map[string]float64)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' || text[0] == '!' {
			continue
		}
		key, raw, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key=value, got %q", line, text)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("line %d: %s is not a number: %q", line, key, strings.TrimSpace(raw))
		}
		values[key] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read properties: %w", err)
	}

	for _, key := range requiredProperties {
		if _, ok := values[key]; !ok {
			return nil, fmt.Errorf("missing required property %s", key)
		}
	}

	p := &Properties{
		SpawnRadius: values["spawn_radius"],
		SpawnRate:   values["spawn_rate"],
		Values:      values,
	}
	var err error
	if p.MapSize, err = wholeNumber(values, "map_size"); err != nil {
		return nil, err
	}
	if p.MaxEntities, err = wholeNumber(values, "max_entities"); err != nil {
		return nil, err
	}

	switch {
	case p.MapSize < 3:
		return nil, fmt.Errorf("map_size must be at least 3, got %d", p.MapSize)
	case p.MaxEntities < 0:
		return nil, fmt.Errorf("max_entities must not be negative, got %d", p.MaxEntities)
	case p.SpawnRadius <= 0:
		return nil, fmt.Errorf("spawn_radius must be positive, got %v", p.SpawnRadius)
	case p.SpawnRate < 0:
		return nil, fmt.Errorf("spawn_rate must not be negative, got %v", p.SpawnRate)
	}
	return p, nil
}

func wholeNumber(values map[string]float64, key string) (int, error) {
	v := values[key]
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%s must be a whole number, got %v", key, v)
	}
	return int(v), nil
}
