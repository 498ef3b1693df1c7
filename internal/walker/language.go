package walker

// extensionToLanguage maps file extensions to programming language names.
// Data and documentation formats (JSON, YAML, Markdown) never count toward
// a repository's languages.
var extensionToLanguage = map[string]string{
	// Go
	".go": "Go",
	// Python
	".py":  "Python",
	".pyi": "Python",
	// TypeScript
	".ts":  "TypeScript",
	".tsx": "TypeScript",
	".mts": "TypeScript",
	// JavaScript
	".js":  "JavaScript",
	".jsx": "JavaScript",
	".mjs": "JavaScript",
	".cjs": "JavaScript",
	// JVM
	".java":   "Java",
	".kt":     "Kotlin",
	".kts":    "Kotlin",
	".scala":  "Scala",
	".groovy": "Groovy",
	// Rust
	".rs": "Rust",
	// C family
	".c":   "C",
	".h":   "C",
	".cpp": "C++",
	".cc":  "C++",
	".cxx": "C++",
	".hpp": "C++",
	".cs":  "C#",
	// Scripting
	".rb":  "Ruby",
	".php": "PHP",
	".pl":  "Perl",
	".lua": "Lua",
	".r":   "R",
	// Mobile
	".swift": "Swift",
	".dart":  "Dart",
	".m":     "Objective-C",
	// Functional
	".ex":  "Elixir",
	".exs": "Elixir",
	".hs":  "Haskell",
	".clj": "Clojure",
	".erl": "Erlang",
	// Shell
	".sh":   "Shell",
	".bash": "Shell",
	".zsh":  "Shell",
	".ps1":  "PowerShell",
	// Web
	".html":   "HTML",
	".htm":    "HTML",
	".css":    "CSS",
	".scss":   "SCSS",
	".sass":   "Sass",
	".less":   "Less",
	".vue":    "Vue",
	".svelte": "Svelte",
	// Other
	".sql": "SQL",
}

// codeExtensions lists the suffixes whose files count as source code for
// line estimation. Markup and stylesheets are languages but not code here.
var codeExtensions = map[string]bool{
	".go": true, ".py": true, ".ts": true, ".tsx": true, ".mts": true,
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".java": true, ".kt": true, ".kts": true, ".scala": true, ".groovy": true,
	".rs": true, ".c": true, ".h": true, ".cpp": true, ".cc": true, ".cxx": true, ".hpp": true, ".cs": true,
	".rb": true, ".php": true, ".pl": true, ".lua": true, ".r": true,
	".swift": true, ".dart": true, ".m": true,
	".ex": true, ".exs": true, ".hs": true, ".clj": true, ".erl": true,
	".sh": true, ".bash": true, ".zsh": true, ".ps1": true,
	".vue": true, ".svelte": true, ".sql": true,
}

// LanguageFor returns the language name for a lower-cased extension such as
// ".ts". The boolean is false for unlisted extensions.
func LanguageFor(ext string) (string, bool) {
	lang, ok := extensionToLanguage[ext]
	return lang, ok
}

// IsCode reports whether ext belongs to a source-code file.
func IsCode(ext string) bool {
	return codeExtensions[ext]
}
