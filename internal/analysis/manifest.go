package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"golang.org/x/mod/modfile"
)

// Manifest file names looked up at the repository root.
const (
	manifestPackageJSON  = "package.json"
	manifestRequirements = "requirements.txt"
	manifestRequireDev   = "requirements-dev.txt"
	manifestGoMod        = "go.mod"
)

// parsePackageJSON returns the keys of "dependencies" and "devDependencies"
// in declared order.
func parsePackageJSON(data []byte) (prod, dev []string, err error) {
	if !json.Valid(data) {
		return nil, nil, errors.New("package.json: invalid JSON")
	}
	if prod, err = objectKeys(data, "dependencies"); err != nil {
		return nil, nil, fmt.Errorf("package.json dependencies: %w", err)
	}
	if dev, err = objectKeys(data, "devDependencies"); err != nil {
		return nil, nil, fmt.Errorf("package.json devDependencies: %w", err)
	}
	return prod, dev, nil
}

// objectKeys lists the keys of the object at path. A missing or null value
// yields no keys and no error; any other non-object value is an error.
func objectKeys(data []byte, path string) ([]string, error) {
	value, typ, _, err := jsonparser.Get(data, path)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	switch typ {
	case jsonparser.NotExist, jsonparser.Null:
		return []string{}, nil
	case jsonparser.Object:
	default:
		return nil, fmt.Errorf("expected an object, got %s", typ)
	}

	keys := []string{}
	err = jsonparser.ObjectEach(value, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// parseRequirements returns the package names declared in a pip
// requirements file. A name is everything before the first version
// constraint, extras marker or environment marker.
func parseRequirements(data []byte) []string {
	names := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if i := strings.IndexAny(line, "=<>~!;[@ \t#"); i >= 0 {
			line = line[:i]
		}
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// parseGoMod returns the module paths required directly by a go.mod file.
func parseGoMod(data []byte) ([]string, error) {
	f, err := modfile.Parse(manifestGoMod, data, nil)
	if err != nil {
		return nil, err
	}
	direct := []string{}
	for _, r := range f.Require {
		if !r.Indirect {
			direct = append(direct, r.Mod.Path)
		}
	}
	return direct, nil
}
