package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTMLRemovesEncodedTags(t *testing.T) {
	assert.Equal(t, "hello", StripHTML("<b>hello</b>&lt;script&gt;"))
}

func TestLineCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Mary Ann", Line("  Mary \t <i>Ann</i>\n"))
}

func TestTextKeepsParagraphsAndLimits(t *testing.T) {
	assert.Equal(t, "a\n\nb", Text("a\r\n\r\n\r\n\r\nb", 0))
	assert.Equal(t, "abc", Text(strings.Repeat("abc", 10), 3))
	assert.Nil(t, TextPtr(nil, 10))
}
