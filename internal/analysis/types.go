package analysis

import "time"

// AnalysisResult is the assembled, immutable output of one analysis run.
// Every facet has a defined "nothing found" value: empty slices, a nil
// Readme, zero counts and a PackageManager of "unknown".
type AnalysisResult struct {
	Repository         RepositoryInfo  `json:"repository"`
	Structure          string          `json:"structure"`
	Languages          []LanguageCount `json:"languages"`
	Frameworks         []string        `json:"frameworks"`
	Dependencies       Dependencies    `json:"dependencies"`
	Readme             *Readme         `json:"readme"`
	EntryPoints        []string        `json:"entryPoints"`
	ConfigFiles        []string        `json:"configFiles"`
	TestFiles          []string        `json:"testFiles"`
	DocumentationFiles []string        `json:"documentationFiles"`
	APISpecs           []APISpec       `json:"apiSpecs"`
	Metrics            Metrics         `json:"metrics"`
	Warnings           []string        `json:"warnings,omitempty"`
}

// RepositoryInfo identifies the analyzed repository.
type RepositoryInfo struct {
	Name       string    `json:"name"`
	URL        string    `json:"url,omitempty"`
	Branch     string    `json:"branch,omitempty"`
	AnalyzedAt time.Time `json:"analyzedAt"`
	TotalFiles int       `json:"totalFiles"`
}

// LanguageCount is the number of files written in one language.
type LanguageCount struct {
	Language  string `json:"language"`
	FileCount int    `json:"fileCount"`
}

// Dependencies lists declared packages from the first manifest found.
type Dependencies struct {
	Production     []string `json:"production"`
	Development    []string `json:"development"`
	Total          int      `json:"total"`
	PackageManager string   `json:"packageManager"`
}

// Package managers recognised by the dependency analyzer.
const (
	PackageManagerNPM     = "npm"
	PackageManagerYarn    = "yarn"
	PackageManagerPNPM    = "pnpm"
	PackageManagerBun     = "bun"
	PackageManagerPip     = "pip"
	PackageManagerPipenv  = "pipenv"
	PackageManagerPoetry  = "poetry"
	PackageManagerUV      = "uv"
	PackageManagerGo      = "go"
	PackageManagerUnknown = "unknown"
)

// EmptyDependencies is the value reported when no manifest is usable.
func EmptyDependencies() Dependencies {
	return Dependencies{
		Production:     []string{},
		Development:    []string{},
		PackageManager: PackageManagerUnknown,
	}
}

// Readme is the root README, possibly truncated to ReadmeBudget characters.
type Readme struct {
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	FullLength int    `json:"fullLength"`
	Truncated  bool   `json:"truncated"`
}

// API spec types.
const (
	SpecOpenAPI = "OpenAPI/Swagger"
	SpecGraphQL = "GraphQL"
)

// APISpec is a detected OpenAPI/Swagger or GraphQL schema file.
type APISpec struct {
	File    string `json:"file"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	Preview string `json:"preview"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
}

// Metrics summarises repository size. EstimatedLinesOfCode is extrapolated
// from a sample of code files, not counted exactly.
type Metrics struct {
	TotalFiles           int   `json:"totalFiles"`
	CodeFiles            int   `json:"codeFiles"`
	EstimatedLinesOfCode int   `json:"estimatedLinesOfCode"`
	TotalSizeBytes       int64 `json:"totalSizeBytes"`
	AverageFileSize      int64 `json:"averageFileSize"`
}

// Facet budgets and caps.
const (
	ReadmeBudget       = 5000
	SpecPreviewBudget  = 500
	MaxSpecSize        = 500 * 1024
	MaxConfigFiles     = 20
	MaxTestFiles       = 30
	MaxDocFiles        = 50
	MaxEntryPoints     = 10
	MaxAPISpecs        = 10
	MaxStructureDirs   = 15
	MaxStructureFiles  = 10
	MetricsSampleFiles = 10
)
