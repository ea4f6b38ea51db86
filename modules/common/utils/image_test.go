package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodePNG - 테스트용 PNG 생성 헬퍼
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeSticker(t *testing.T) {
	t.Run("wide image fits into 512x512 square", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 200, 100))
		for y := 0; y < 100; y++ {
			for x := 0; x < 200; x++ {
				src.Set(x, y, color.RGBA{R: 255, A: 255})
			}
		}

		out, err := NormalizeSticker(encodePNG(t, src))
		require.NoError(t, err)

		decoded, err := png.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, CanonicalSize, decoded.Bounds().Dx())
		assert.Equal(t, CanonicalSize, decoded.Bounds().Dy())

		// 레터박스 영역(상단)은 흰색이어야 함
		r, g, b, a := decoded.At(256, 10).RGBA()
		assert.Equal(t, uint32(0xffff), r)
		assert.Equal(t, uint32(0xffff), g)
		assert.Equal(t, uint32(0xffff), b)
		assert.Equal(t, uint32(0xffff), a)

		// 중앙은 소스 색상이어야 함
		r, _, _, _ = decoded.At(256, 256).RGBA()
		assert.Equal(t, uint32(0xffff), r)
	})

	t.Run("invalid data fails", func(t *testing.T) {
		_, err := NormalizeSticker([]byte("not an image"))
		assert.Error(t, err)
	})
}

func TestFlattenWhite(t *testing.T) {
	// 완전 투명 이미지 → 불투명 흰색으로 합성
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))

	out, err := FlattenWhite(encodePNG(t, src))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 10, decoded.Bounds().Dx())

	r, g, b, a := decoded.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestDataURL(t *testing.T) {
	got := DataURL("image/png", []byte{0x01, 0x02})
	assert.Equal(t, "data:image/png;base64,AQI=", got)
}
