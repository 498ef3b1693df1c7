package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

type signature struct {
	match string
	name  string
}

// nodeFrameworks match package.json dependency names exactly.
var nodeFrameworks = []signature{
	{"react", "React"},
	{"next", "Next.js"},
	{"vue", "Vue.js"},
	{"nuxt", "Nuxt"},
	{"@angular/core", "Angular"},
	{"svelte", "Svelte"},
	{"@sveltejs/kit", "SvelteKit"},
	{"gatsby", "Gatsby"},
	{"react-native", "React Native"},
	{"electron", "Electron"},
	{"express", "Express"},
	{"fastify", "Fastify"},
	{"koa", "Koa"},
	{"@nestjs/core", "NestJS"},
	{"@remix-run/react", "Remix"},
}

// pythonFrameworks match as substrings of requirements.txt.
var pythonFrameworks = []signature{
	{"django", "Django"},
	{"flask", "Flask"},
	{"fastapi", "FastAPI"},
	{"tornado", "Tornado"},
	{"pyramid", "Pyramid"},
	{"streamlit", "Streamlit"},
}

// javaFrameworks match as substrings of pom.xml or build.gradle.
var javaFrameworks = []signature{
	{"spring-boot", "Spring Boot"},
	{"quarkus", "Quarkus"},
	{"micronaut", "Micronaut"},
}

// goFrameworks match required module paths by prefix.
var goFrameworks = []signature{
	{"github.com/gin-gonic/gin", "Gin"},
	{"github.com/labstack/echo", "Echo"},
	{"github.com/gofiber/fiber", "Fiber"},
	{"github.com/go-chi/chi", "Chi"},
	{"github.com/gorilla/mux", "Gorilla Mux"},
	{"google.golang.org/grpc", "gRPC"},
}

var javaBuildFiles = []string{"pom.xml", "build.gradle", "build.gradle.kts"}

// DetectFrameworks matches root manifests against fixed signature tables.
// Each manifest is handled independently: one that cannot be read or parsed
// contributes nothing, the rest still count, and the failures are returned
// joined alongside the partial result.
func DetectFrameworks(files []walker.FileDescriptor, root string) ([]string, error) {
	idx := rootFiles(files)
	found := newNameSet()
	var errs []error

	if _, ok := idx[manifestPackageJSON]; ok {
		if err := detectNode(root, found); err != nil {
			errs = append(errs, err)
		}
	}
	if _, ok := idx[manifestRequirements]; ok {
		if err := detectSubstrings(root, manifestRequirements, pythonFrameworks, found); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range javaBuildFiles {
		if _, ok := idx[name]; ok {
			if err := detectSubstrings(root, name, javaFrameworks, found); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if _, ok := idx[manifestGoMod]; ok {
		if err := detectGo(root, found); err != nil {
			errs = append(errs, err)
		}
	}

	return found.list, errors.Join(errs...)
}

func detectNode(root string, found *nameSet) error {
	data, err := readFile(root, manifestPackageJSON)
	if err != nil {
		return err
	}
	prod, dev, err := parsePackageJSON(data)
	if err != nil {
		return err
	}
	deps := make(map[string]bool, len(prod)+len(dev))
	for _, d := range append(prod, dev...) {
		deps[d] = true
	}
	for _, sig := range nodeFrameworks {
		if deps[sig.match] {
			found.add(sig.name)
		}
	}
	return nil
}

func detectSubstrings(root, name string, table []signature, found *nameSet) error {
	data, err := readFile(root, name)
	if err != nil {
		return err
	}
	content := strings.ToLower(string(data))
	for _, sig := range table {
		if strings.Contains(content, sig.match) {
			found.add(sig.name)
		}
	}
	return nil
}

func detectGo(root string, found *nameSet) error {
	data, err := readFile(root, manifestGoMod)
	if err != nil {
		return err
	}
	direct, err := parseGoMod(data)
	if err != nil {
		return fmt.Errorf("go.mod: %w", err)
	}
	for _, sig := range goFrameworks {
		for _, path := range direct {
			if strings.HasPrefix(path, sig.match) {
				found.add(sig.name)
				break
			}
		}
	}
	return nil
}

// nameSet is an insertion-ordered set of names.
type nameSet struct {
	seen map[string]bool
	list []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]bool), list: []string{}}
}

func (s *nameSet) add(name string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.list = append(s.list, name)
}
