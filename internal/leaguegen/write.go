package leaguegen

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/okian/flipper/internal/domain/model"
)

// Write encodes records as a single {games: [...]} document in format
// ("yaml" or "json"), readable by the file record source.
func Write(w io.Writer, format string, records []model.GameRecord) error {
	doc := struct {
		Games []model.GameRecord `json:"games" yaml:"games"`
	}{Games: records}

	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		return json.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
