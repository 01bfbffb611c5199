// Package timex holds time helpers shared by the config loaders.
package timex

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals, from JSON or YAML, either a
// Go duration string ("1500ms", "2s") or an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	case nil:
		d.Duration = 0
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid duration at line %d", n.Line)
	}

	switch n.ShortTag() {
	case "!!null":
		d.Duration = 0
		return nil
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", n.Value, err)
		}
		d.Duration = time.Duration(v)
		return nil
	default:
		parsed, err := time.ParseDuration(n.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", n.Value, err)
		}
		d.Duration = parsed
		return nil
	}
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
