package analyzer

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/zeebo/blake3"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/constants"
)

// ContentHash returns a 128-bit hex digest of the given bytes.
func ContentHash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:16])
}

// FragmentExtractorConfig holds the fragment size thresholds.
type FragmentExtractorConfig struct {
	MinLines  int
	MinTokens int
}

// DefaultFragmentExtractorConfig returns the default thresholds.
func DefaultFragmentExtractorConfig() *FragmentExtractorConfig {
	return &FragmentExtractorConfig{
		MinLines:  constants.DefaultMinFragmentLines,
		MinTokens: constants.DefaultMinFragmentTokens,
	}
}

// FragmentExtractor slices files into function- and class-level fragments and
// produces exact and alias-normalized hashes for each.
type FragmentExtractor struct {
	config *FragmentExtractorConfig
}

// NewFragmentExtractor creates a fragment extractor with the given config.
func NewFragmentExtractor(config *FragmentExtractorConfig) *FragmentExtractor {
	if config == nil {
		config = DefaultFragmentExtractorConfig()
	}
	return &FragmentExtractor{config: config}
}

// symbolSpan is one function- or class-like node eligible for extraction.
type symbolSpan struct {
	name      string
	kind      domain.FragmentKind
	startLine int
	endLine   int
	params    []string
}

// ExtractFragments extracts all fragments from one file. Symbols with
// unusable line ranges contribute no fragment; the file is never fatal to the
// batch.
func (fe *FragmentExtractor) ExtractFragments(file *domain.SourceFile, content []byte) []*domain.Fragment {
	lines := strings.Split(string(content), "\n")

	spans := make([]symbolSpan, 0, len(file.Functions)+len(file.Classes))
	for _, fn := range file.Functions {
		spans = append(spans, symbolSpan{
			name:      fn.Name,
			kind:      domain.FragmentFunction,
			startLine: fn.Line,
			endLine:   fn.EndLine,
			params:    fn.Params,
		})
	}
	for _, cls := range file.Classes {
		spans = append(spans, symbolSpan{
			name:      cls.Name,
			kind:      domain.FragmentClass,
			startLine: cls.Line,
			endLine:   cls.EndLine,
		})
	}

	symbols := renameSymbols{
		functions: toSet(file.FunctionNames()),
		classes:   toSet(file.ClassNames()),
	}

	var fragments []*domain.Fragment
	for _, span := range spans {
		if fragment := fe.extractSpan(file.FilePath, span, lines, symbols); fragment != nil {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}

// extractSpan builds one fragment, or nil when the span is unusable or below
// the size thresholds.
func (fe *FragmentExtractor) extractSpan(filePath string, span symbolSpan, lines []string, symbols renameSymbols) *domain.Fragment {
	if span.startLine < 1 || span.endLine < span.startLine || span.endLine > len(lines) {
		return nil
	}

	lineCount := span.endLine - span.startLine + 1
	if lineCount < fe.config.MinLines {
		return nil
	}

	rawText := strings.Join(lines[span.startLine-1:span.endLine], "\n")

	symbols.params = toSet(span.params)
	normalized, tokenCount, complexity := fe.normalize(rawText, symbols)
	if tokenCount < fe.config.MinTokens {
		return nil
	}

	return &domain.Fragment{
		SourceFile:           filePath,
		Name:                 span.name,
		Kind:                 span.kind,
		StartLine:            span.startLine,
		EndLine:              span.endLine,
		RawText:              rawText,
		NormalizedText:       normalized,
		ExactHash:            ContentHash([]byte(rawText)),
		NormalizedHash:       ContentHash([]byte(normalized)),
		CyclomaticComplexity: complexity,
		TokenCount:           tokenCount,
	}
}

// normalize produces the alias-insensitive text for a fragment. When
// tokenization fails it falls back to line-based normalization that strips
// comments and blank lines only.
func (fe *FragmentExtractor) normalize(rawText string, symbols renameSymbols) (normalized string, tokenCount, complexity int) {
	tokens, err := tokenize(rawText)
	if err != nil {
		stripped := stripCommentsAndBlanks(rawText)
		return stripped, len(strings.Fields(stripped)), 1
	}
	return normalizeTokens(tokens, symbols)
}

// renameSymbols carries the symbol classification used to pick placeholder
// prefixes during normalization.
type renameSymbols struct {
	functions map[string]struct{}
	classes   map[string]struct{}
	params    map[string]struct{}
}

// normalizeTokens renames every non-builtin identifier to a positional
// placeholder assigned in first-occurrence order within the fragment. The
// rename table is local to the call so normalization is referentially
// transparent and safe to run in parallel across fragments.
func normalizeTokens(tokens []token, symbols renameSymbols) (normalized string, tokenCount, complexity int) {
	renames := make(map[string]string)
	counters := make(map[string]int)
	complexity = 1

	var out strings.Builder
	atLineStart := true

	for _, tok := range tokens {
		if tok.kind == tokenNewline {
			if !atLineStart {
				out.WriteByte('\n')
				atLineStart = true
			}
			continue
		}

		text := tok.text
		if tok.kind == tokenIdentifier {
			if branchKeywords[text] {
				complexity++
			}
			if !builtinAllowList[text] {
				placeholder, ok := renames[text]
				if !ok {
					prefix := placeholderPrefix(text, symbols)
					placeholder = fmt.Sprintf("%s_%d", prefix, counters[prefix])
					counters[prefix]++
					renames[text] = placeholder
				}
				text = placeholder
			}
		}

		if !atLineStart {
			out.WriteByte(' ')
		}
		out.WriteString(text)
		atLineStart = false
		tokenCount++
	}

	return out.String(), tokenCount, complexity
}

// placeholderPrefix classifies an identifier for renaming.
func placeholderPrefix(name string, symbols renameSymbols) string {
	if _, ok := symbols.params[name]; ok {
		return "ARG"
	}
	if _, ok := symbols.functions[name]; ok {
		return "FUNC"
	}
	if _, ok := symbols.classes[name]; ok {
		return "CLASS"
	}
	return "VAR"
}

// stripCommentsAndBlanks is the line-based fallback normalization.
func stripCommentsAndBlanks(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// builtinAllowList holds identifiers that are never renamed: keywords, common
// builtins, and the conventional receiver names.
var builtinAllowList = map[string]bool{
	// keywords
	"def": true, "class": true, "if": true, "elif": true, "else": true,
	"for": true, "while": true, "return": true, "import": true, "from": true,
	"as": true, "with": true, "try": true, "except": true, "finally": true,
	"raise": true, "pass": true, "break": true, "continue": true,
	"lambda": true, "yield": true, "global": true, "nonlocal": true,
	"assert": true, "in": true, "is": true, "not": true, "and": true,
	"or": true, "del": true, "async": true, "await": true,

	// conventional receivers and singletons
	"self": true, "cls": true, "True": true, "False": true, "None": true,

	// common builtins
	"print": true, "len": true, "range": true, "str": true, "int": true,
	"float": true, "list": true, "dict": true, "set": true, "tuple": true,
	"bool": true, "super": true, "isinstance": true, "type": true,
	"enumerate": true, "zip": true, "map": true, "filter": true,
	"sorted": true, "min": true, "max": true, "sum": true, "abs": true,
	"open": true, "Exception": true, "ValueError": true, "TypeError": true,
	"KeyError": true, "IndexError": true, "AttributeError": true,
	"RuntimeError": true, "StopIteration": true, "NotImplementedError": true,
}

// branchKeywords drive the cheap cyclomatic complexity count.
var branchKeywords = map[string]bool{
	"if": true, "elif": true, "for": true, "while": true,
	"except": true, "and": true, "or": true, "case": true,
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenNumber
	tokenString
	tokenOperator
	tokenNewline
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits fragment text into identifiers, literals, operators, and
// newline markers. Comments are dropped. An unterminated string literal is a
// tokenization failure; callers fall back to line-based normalization.
func tokenize(text string) ([]token, error) {
	runes := []rune(text)
	var tokens []token

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case r == '\n':
			tokens = append(tokens, token{kind: tokenNewline, text: "\n"})
			i++

		case r == ' ' || r == '\t' || r == '\r':
			i++

		case r == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}

		case r == '\'' || r == '"':
			end, err := scanString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: string(runes[i:end])})
			i = end

		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdentifier, text: string(runes[start:i])})

		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || unicode.IsLetter(runes[i]) || runes[i] == '.' || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[start:i])})

		default:
			tokens = append(tokens, token{kind: tokenOperator, text: string(r)})
			i++
		}
	}

	return tokens, nil
}

// scanString consumes a quoted literal starting at position start and returns
// the index one past its closing quote. Handles escapes and triple quotes.
func scanString(runes []rune, start int) (int, error) {
	quote := runes[start]

	// Triple-quoted literal
	if start+2 < len(runes) && runes[start+1] == quote && runes[start+2] == quote {
		for i := start + 3; i+2 < len(runes); i++ {
			if runes[i] == quote && runes[i+1] == quote && runes[i+2] == quote {
				return i + 3, nil
			}
		}
		return 0, fmt.Errorf("unterminated triple-quoted string literal")
	}

	for i := start + 1; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case quote:
			return i + 1, nil
		case '\n':
			return 0, fmt.Errorf("unterminated string literal")
		}
	}
	return 0, fmt.Errorf("unterminated string literal")
}
