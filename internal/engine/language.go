package engine

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Language identifies a grammar the engine can parse.
type Language string

const (
	LangRust       Language = "rust"
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = LangRust

// extToLanguage maps file extensions to Language.
var extToLanguage = map[string]Language{
	".rs":  LangRust,
	".go":  LangGo,
	".py":  LangPython,
	".pyi": LangPython,
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
}

// Languages returns every supported language, sorted by name.
func Languages() []Language {
	return []Language{LangGo, LangPython, LangRust, LangTypeScript}
}

// ParseLanguage parses a language name. Matching is case-insensitive and
// accepts the common short forms.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rust", "rs":
		return LangRust, nil
	case "go", "golang":
		return LangGo, nil
	case "python", "py":
		return LangPython, nil
	case "typescript", "ts":
		return LangTypeScript, nil
	}
	return "", fmt.Errorf("unsupported language: %q", s)
}

// LanguageForPath picks a language from the file extension. extra overrides
// the built-in table and may be nil.
func LanguageForPath(path string, extra map[string]Language) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extra[ext]; ok {
		return lang, true
	}
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// Extensions returns the built-in extensions registered for lang, sorted.
func Extensions(lang Language) []string {
	var exts []string
	for ext, l := range extToLanguage {
		if l == lang {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// ToolTag is the document header tag for lang, e.g. RUST_PARSE_DESCRIBE.
func (l Language) ToolTag() string {
	return strings.ToUpper(string(l)) + "_PARSE_DESCRIBE"
}
