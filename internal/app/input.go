package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ggonzalez94/intents/internal/entity"
	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/route"
	"gopkg.in/yaml.v3"
)

// readDocument returns the bytes of an inline value or of an @path file, and
// whether they should be decoded as yaml.
func readDocument(flag, raw string) ([]byte, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, clierr.New(clierr.CodeUsage, fmt.Sprintf("--%s is required", flag))
	}
	path, isFile := strings.CutPrefix(raw, "@")
	if !isFile {
		return []byte(raw), false, nil
	}
	return readFile(flag, path)
}

func readFile(flag, path string) ([]byte, bool, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, false, clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("read --%s file", flag), err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return buf, true, nil
	}
	return buf, false, nil
}

func decodeDocument(flag string, buf []byte, isYAML bool, target any) error {
	var err error
	if isYAML {
		err = yaml.Unmarshal(buf, target)
	} else {
		err = json.Unmarshal(buf, target)
	}
	if err != nil {
		return clierr.Wrap(clierr.CodeUsage, fmt.Sprintf("decode --%s", flag), err)
	}
	return nil
}

// parseRef reads an entity reference given inline as json or as @path to a
// json or yaml file.
func parseRef(flag, raw string) (entity.Ref, error) {
	buf, isYAML, err := readDocument(flag, raw)
	if err != nil {
		return entity.Ref{}, err
	}
	var ref entity.Ref
	if err := decodeDocument(flag, buf, isYAML, &ref); err != nil {
		return entity.Ref{}, err
	}
	return ref, nil
}

// loadRouteData merges swap quotes and bridge route rows from files. Empty
// paths are skipped.
func loadRouteData(quotesPath, bridgeRoutesPath string) (route.Data, error) {
	var data route.Data
	if quotesPath != "" {
		buf, isYAML, err := readFile("quotes", quotesPath)
		if err != nil {
			return data, err
		}
		if err := decodeDocument("quotes", buf, isYAML, &data.SwapQuotes); err != nil {
			return data, err
		}
	}
	if bridgeRoutesPath != "" {
		buf, isYAML, err := readFile("bridge-routes", bridgeRoutesPath)
		if err != nil {
			return data, err
		}
		if err := decodeDocument("bridge-routes", buf, isYAML, &data.BridgeRoutes); err != nil {
			return data, err
		}
	}
	return data, nil
}
