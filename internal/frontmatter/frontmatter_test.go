package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontMatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Split(input)
	require.NoError(t, err)
	require.False(t, doc.HasMeta)
	require.Empty(t, doc.Meta)
	require.Equal(t, input, doc.Body)
}

func TestSplit_YAMLFrontMatter_SplitsMetaAndBody(t *testing.T) {
	doc, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.HasMeta)
	require.Equal(t, []byte("key: value\n"), doc.Meta)
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestSplit_Unterminated_ReturnsError(t *testing.T) {
	_, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnterminated))
}

func TestSplit_CRLF_SplitsMetaAndBody(t *testing.T) {
	doc, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, doc.HasMeta)
	require.Equal(t, []byte("key: value\r\n"), doc.Meta)
	require.Equal(t, []byte("# Title\r\n"), doc.Body)
	require.Equal(t, "\r\n", doc.Newline)
}

func TestSplit_EmptyBlock_SplitsAsHasMetaWithEmptyMeta(t *testing.T) {
	doc, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.HasMeta)
	require.Empty(t, doc.Meta)
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := [][]byte{
		[]byte("# Title\n\nHello\n"),
		[]byte("---\nkey: value\n---\n# Title\n"),
		[]byte("---\n---\n# Title\n"),
		[]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"),
	}

	for _, input := range cases {
		doc, err := Split(input)
		require.NoError(t, err)
		require.Equal(t, input, doc.Join())
	}
}

func TestDecode_ValidYAML_ReturnsMap(t *testing.T) {
	doc := Document{Meta: []byte("layout: post\ntags:\n  - aws\n"), HasMeta: true}

	fields, err := doc.Decode()
	require.NoError(t, err)
	require.Equal(t, "post", fields["layout"])
	require.Equal(t, []any{"aws"}, fields["tags"])
}

func TestDecode_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := Document{}.Decode()
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestDecode_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := Document{Meta: []byte(": not yaml")}.Decode()
	require.Error(t, err)
}
