package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language identifies a supported source language.
type Language string

const (
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangRust       Language = "rust"
)

// LanguageForPath returns the language for a file path based on its
// extension, or false if the extension is not recognized.
func LanguageForPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return LangPython, true
	case ".go":
		return LangGo, true
	case ".ts", ".tsx":
		return LangTypeScript, true
	case ".rs":
		return LangRust, true
	default:
		return "", false
	}
}

// Declaration is a function or method declared in a file.
type Declaration struct {
	Name string
	Line int
}

// Call is a call expression observed inside a declared function. Callee is
// the lexical name of the call target (the identifier, or the final
// attribute/selector segment); no symbol resolution has happened yet.
type Call struct {
	Caller string
	Callee string
}

// FileResult holds everything extracted from a single source file.
type FileResult struct {
	Path  string // normalized, relative to the extraction root
	Decls []Declaration
	Calls []Call
}

// langExtractor walks a parsed tree and collects declarations and the calls
// made inside them.
type langExtractor interface {
	Extract(root *tree_sitter.Node, source []byte) ([]Declaration, []Call)
}

// Parser parses source files with tree-sitter grammars. A new tree-sitter
// parser is created per Parse call, so this type is safe for sequential use.
type Parser struct {
	languages  map[Language]*tree_sitter.Language
	extractors map[Language]langExtractor
}

// NewParser creates a Parser with Python, Go, TypeScript, and Rust grammars
// registered.
func NewParser() *Parser {
	return &Parser{
		languages: map[Language]*tree_sitter.Language{
			LangPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			LangGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			LangRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		},
		extractors: map[Language]langExtractor{
			LangPython:     &pyExtractor{},
			LangGo:         &goExtractor{},
			LangTypeScript: &tsExtractor{},
			LangRust:       &rsExtractor{},
		},
	}
}

// Parse extracts declarations and calls from a single source file.
func (p *Parser) Parse(path string, source []byte, lang Language) (*FileResult, error) {
	tsLang, ok := p.languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	ext := p.extractors[lang]

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	decls, calls := ext.Extract(tree.RootNode(), source)
	return &FileResult{Path: path, Decls: decls, Calls: calls}, nil
}

// SupportedLanguages returns the languages this parser can handle.
func (p *Parser) SupportedLanguages() []Language {
	langs := make([]Language, 0, len(p.languages))
	for l := range p.languages {
		langs = append(langs, l)
	}
	return langs
}
