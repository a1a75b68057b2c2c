package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cshum/cvjsgen/internal/whitelist"
)

// checkJSONKeys rejects repeated object keys, which encoding/json would
// otherwise resolve by keeping the last one.
func checkJSONKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return scanJSONValue(dec, nil)
}

func scanJSONValue(dec *json.Decoder, path []string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			if seen[key] {
				return duplicateKeyError(path, key)
			}
			seen[key] = true
			if err := scanJSONValue(dec, append(path, key)); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := scanJSONValue(dec, path); err != nil {
				return err
			}
		}
	}
	// closing delimiter
	_, err = dec.Token()
	return err
}

func duplicateKeyError(path []string, key string) error {
	switch len(path) {
	case 0:
		return fmt.Errorf("%w: %q", whitelist.ErrDuplicateModule, key)
	case 1:
		return fmt.Errorf("%w: %s.%s", ErrDuplicateClass, path[0], key)
	}
	return fmt.Errorf("duplicate key %q in %s", key, strings.Join(path, "."))
}
