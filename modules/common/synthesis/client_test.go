package synthesis

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	t.Run("short string unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", truncateString("hello", 10))
	})

	t.Run("long string gets ellipsis", func(t *testing.T) {
		assert.Equal(t, "abcde...", truncateString("abcdefghij", 5))
	})

	t.Run("multibyte text cut on rune boundary", func(t *testing.T) {
		got := truncateString("스티커 생성 프롬프트", 4)
		assert.Equal(t, "스티커 ...", got)
		assert.True(t, utf8.ValidString(got))
	})
}
