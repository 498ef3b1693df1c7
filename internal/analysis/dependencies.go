package analysis

import (
	"fmt"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

// AnalyzeDependencies reads the first root manifest found, trying
// package.json, requirements.txt and go.mod in that order. Without a
// manifest it returns EmptyDependencies and no error; a malformed manifest
// returns EmptyDependencies and the parse error.
func AnalyzeDependencies(files []walker.FileDescriptor, root string) (Dependencies, error) {
	idx := rootFiles(files)

	if _, ok := idx[manifestPackageJSON]; ok {
		data, err := readFile(root, manifestPackageJSON)
		if err != nil {
			return EmptyDependencies(), err
		}
		prod, dev, err := parsePackageJSON(data)
		if err != nil {
			return EmptyDependencies(), err
		}
		return newDependencies(prod, dev, nodePackageManager(idx)), nil
	}

	if _, ok := idx[manifestRequirements]; ok {
		data, err := readFile(root, manifestRequirements)
		if err != nil {
			return EmptyDependencies(), err
		}
		dev := []string{}
		if _, ok := idx[manifestRequireDev]; ok {
			devData, err := readFile(root, manifestRequireDev)
			if err != nil {
				return EmptyDependencies(), err
			}
			dev = parseRequirements(devData)
		}
		return newDependencies(parseRequirements(data), dev, pythonPackageManager(idx)), nil
	}

	if _, ok := idx[manifestGoMod]; ok {
		data, err := readFile(root, manifestGoMod)
		if err != nil {
			return EmptyDependencies(), err
		}
		direct, err := parseGoMod(data)
		if err != nil {
			return EmptyDependencies(), fmt.Errorf("go.mod: %w", err)
		}
		return newDependencies(direct, []string{}, PackageManagerGo), nil
	}

	return EmptyDependencies(), nil
}

func newDependencies(prod, dev []string, manager string) Dependencies {
	return Dependencies{
		Production:     prod,
		Development:    dev,
		Total:          len(prod) + len(dev),
		PackageManager: manager,
	}
}

// nodePackageManager infers the JavaScript package manager from lockfiles.
func nodePackageManager(idx map[string]walker.FileDescriptor) string {
	for _, lf := range []struct{ file, manager string }{
		{"yarn.lock", PackageManagerYarn},
		{"pnpm-lock.yaml", PackageManagerPNPM},
		{"bun.lockb", PackageManagerBun},
		{"bun.lock", PackageManagerBun},
		{"package-lock.json", PackageManagerNPM},
	} {
		if _, ok := idx[lf.file]; ok {
			return lf.manager
		}
	}
	return PackageManagerNPM
}

// pythonPackageManager infers the Python package manager from lockfiles.
func pythonPackageManager(idx map[string]walker.FileDescriptor) string {
	for _, lf := range []struct{ file, manager string }{
		{"Pipfile.lock", PackageManagerPipenv},
		{"Pipfile", PackageManagerPipenv},
		{"poetry.lock", PackageManagerPoetry},
		{"uv.lock", PackageManagerUV},
	} {
		if _, ok := idx[lf.file]; ok {
			return lf.manager
		}
	}
	return PackageManagerPip
}
