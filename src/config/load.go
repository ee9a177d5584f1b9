package config

import (
	"encoding/json"
	"io"
	"os"

	hjson "github.com/hjson/hjson-go"
	"github.com/mitchellh/mapstructure"
)

// ReadConfig loads a NodeConfig from HJSON or plain JSON, read from path if
// non-empty or from stdin otherwise, merging onto a freshly generated
// config the same way a mobile-style StartJSON loader would: unmarshal into a
// generic map first, then mapstructure.Decode it onto the defaults, so that
// a config file only has to mention the fields it wants to override.
func ReadConfig(path string) (*NodeConfig, error) {
	var src io.Reader
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	} else {
		src = os.Stdin
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	var dat map[string]interface{}
	if err := hjson.Unmarshal(raw, &dat); err != nil {
		return nil, err
	}

	cfg := GenerateConfig()
	if err := mapstructure.Decode(dat, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg as HJSON (with the field comments embedded) or, if
// asJSON is set, as indented plain JSON.
func Marshal(cfg *NodeConfig, asJSON bool) ([]byte, error) {
	if asJSON {
		return json.MarshalIndent(cfg, "", "  ")
	}
	return hjson.Marshal(cfg)
}
