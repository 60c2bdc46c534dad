package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simscan-dev/simscan/domain"
)

func TestContentHash(t *testing.T) {
	hash := ContentHash([]byte("hello"))
	assert.Len(t, hash, 32, "Digest should be 128 bits as hex")
	assert.Equal(t, hash, ContentHash([]byte("hello")), "Hashing is deterministic")
	assert.NotEqual(t, hash, ContentHash([]byte("hello!")))
}

const totalFuncSource = `def total(items):
    result = 0
    for item in items:
        if item > 0:
            result = result + item
    return result
`

// renamedFuncSource is totalFuncSource with every non-builtin identifier
// renamed consistently.
const renamedFuncSource = `def accumulate(values):
    acc = 0
    for value in values:
        if value > 0:
            acc = acc + value
    return acc
`

func fileWithFunction(path, name string, endLine int, params ...string) *domain.SourceFile {
	return &domain.SourceFile{
		FilePath: path,
		Functions: []domain.FunctionInfo{
			{Name: name, Line: 1, EndLine: endLine, Params: params},
		},
	}
}

func TestFragmentExtractor_ExtractFragments(t *testing.T) {
	extractor := NewFragmentExtractor(&FragmentExtractorConfig{MinLines: 3, MinTokens: 5})
	file := fileWithFunction("a.py", "total", 6, "items")

	fragments := extractor.ExtractFragments(file, []byte(totalFuncSource))
	require.Len(t, fragments, 1)

	fragment := fragments[0]
	assert.Equal(t, "a.py", fragment.SourceFile)
	assert.Equal(t, "total", fragment.Name)
	assert.Equal(t, domain.FragmentFunction, fragment.Kind)
	assert.Equal(t, 1, fragment.StartLine)
	assert.Equal(t, 6, fragment.EndLine)
	assert.NotEmpty(t, fragment.ExactHash)
	assert.NotEmpty(t, fragment.NormalizedHash)
	assert.Greater(t, fragment.TokenCount, 0)
	assert.GreaterOrEqual(t, fragment.CyclomaticComplexity, 3,
		"for and if should each add a decision point")
}

func TestFragmentExtractor_SkipsShortSpans(t *testing.T) {
	extractor := NewFragmentExtractor(&FragmentExtractorConfig{MinLines: 10, MinTokens: 5})
	file := fileWithFunction("a.py", "total", 6, "items")

	fragments := extractor.ExtractFragments(file, []byte(totalFuncSource))
	assert.Empty(t, fragments, "Fragments below the line threshold are dropped")
}

func TestFragmentExtractor_SkipsUnusableSpans(t *testing.T) {
	extractor := NewFragmentExtractor(&FragmentExtractorConfig{MinLines: 1, MinTokens: 1})
	file := &domain.SourceFile{
		FilePath: "a.py",
		Functions: []domain.FunctionInfo{
			{Name: "zero_start", Line: 0, EndLine: 3},
			{Name: "inverted", Line: 5, EndLine: 2},
			{Name: "past_eof", Line: 1, EndLine: 9999},
		},
	}

	fragments := extractor.ExtractFragments(file, []byte(totalFuncSource))
	assert.Empty(t, fragments, "Unusable line ranges never abort the file, they just yield nothing")
}

func TestFragmentExtractor_ClassSpans(t *testing.T) {
	source := "class Box:\n    def get(self):\n        return self.value\n"
	extractor := NewFragmentExtractor(&FragmentExtractorConfig{MinLines: 2, MinTokens: 3})
	file := &domain.SourceFile{
		FilePath: "box.py",
		Classes: []domain.ClassInfo{
			{Name: "Box", Line: 1, EndLine: 3},
		},
	}

	fragments := extractor.ExtractFragments(file, []byte(source))
	require.Len(t, fragments, 1)
	assert.Equal(t, domain.FragmentClass, fragments[0].Kind)
}

func TestNormalization_RenameInvariance(t *testing.T) {
	extractor := NewFragmentExtractor(&FragmentExtractorConfig{MinLines: 3, MinTokens: 5})

	fileA := fileWithFunction("a.py", "total", 6, "items")
	fileB := fileWithFunction("b.py", "accumulate", 6, "values")

	fragA := extractor.ExtractFragments(fileA, []byte(totalFuncSource))
	fragB := extractor.ExtractFragments(fileB, []byte(renamedFuncSource))
	require.Len(t, fragA, 1)
	require.Len(t, fragB, 1)

	assert.NotEqual(t, fragA[0].ExactHash, fragB[0].ExactHash,
		"Renamed copies differ byte-for-byte")
	assert.Equal(t, fragA[0].NormalizedHash, fragB[0].NormalizedHash,
		"Consistent renaming should not survive normalization")
	assert.Equal(t, fragA[0].NormalizedText, fragB[0].NormalizedText)
}

func TestNormalization_PlaceholdersAreFirstOccurrenceOrdered(t *testing.T) {
	tokens, err := tokenize("foo = bar\nbar = foo")
	if err != nil {
		t.Fatal(err)
	}
	normalized, count, _ := normalizeTokens(tokens, renameSymbols{})

	assert.Equal(t, "VAR_0 = VAR_1\nVAR_1 = VAR_0", normalized)
	assert.Equal(t, 6, count)
}

func TestNormalization_BuiltinsKept(t *testing.T) {
	tokens, err := tokenize("return len(data)")
	if err != nil {
		t.Fatal(err)
	}
	normalized, _, _ := normalizeTokens(tokens, renameSymbols{})

	assert.Contains(t, normalized, "return")
	assert.Contains(t, normalized, "len")
	assert.NotContains(t, normalized, "data", "Non-builtin identifiers are replaced")
}

func TestNormalization_PlaceholderPrefixes(t *testing.T) {
	symbols := renameSymbols{
		functions: toSet([]string{"helper"}),
		classes:   toSet([]string{"Widget"}),
		params:    toSet([]string{"count"}),
	}
	tokens, err := tokenize("helper(Widget, count, local)")
	if err != nil {
		t.Fatal(err)
	}
	normalized, _, _ := normalizeTokens(tokens, symbols)

	assert.Contains(t, normalized, "FUNC_0")
	assert.Contains(t, normalized, "CLASS_0")
	assert.Contains(t, normalized, "ARG_0")
	assert.Contains(t, normalized, "VAR_0")
}

func TestNormalization_CommentsAndBlanksIgnored(t *testing.T) {
	plain := "x = 1\ny = x"
	commented := "x = 1  # set up\n\n# intermediate step\ny = x"

	tokensPlain, err := tokenize(plain)
	require.NoError(t, err)
	tokensCommented, err := tokenize(commented)
	require.NoError(t, err)

	normPlain, _, _ := normalizeTokens(tokensPlain, renameSymbols{})
	normCommented, _, _ := normalizeTokens(tokensCommented, renameSymbols{})
	assert.Equal(t, normPlain, normCommented)
}

func TestTokenize_UnterminatedStringFallsBack(t *testing.T) {
	_, err := tokenize(`x = "unterminated`)
	assert.Error(t, err)

	// The extractor falls back to line-based stripping rather than dropping
	// the fragment.
	extractor := NewFragmentExtractor(&FragmentExtractorConfig{MinLines: 1, MinTokens: 1})
	source := "def f():\n    x = \"unterminated\n"
	file := fileWithFunction("bad.py", "f", 2)
	fragments := extractor.ExtractFragments(file, []byte(source))
	require.Len(t, fragments, 1)
	assert.NotEmpty(t, fragments[0].NormalizedText)
}

func TestTokenize_TripleQuotedStrings(t *testing.T) {
	tokens, err := tokenize("x = '''multi\nline'''\ny = 1")
	require.NoError(t, err)

	var hasString bool
	for _, tok := range tokens {
		if tok.kind == tokenString {
			hasString = true
			assert.True(t, strings.HasPrefix(tok.text, "'''"))
		}
	}
	assert.True(t, hasString)
}

func TestStripCommentsAndBlanks(t *testing.T) {
	input := "x = 1  # comment\n\n   \n# only comment\ny = 2"
	assert.Equal(t, "x = 1\ny = 2", stripCommentsAndBlanks(input))
}
