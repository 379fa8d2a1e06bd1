package deploy_service

import (
	"testing"

	model "snapship-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := map[string]model.FileEncoding{
		"index.html":        model.EncodingUTF8,
		"css/site.CSS":      model.EncodingUTF8,
		"app.js":            model.EncodingUTF8,
		"data.json":         model.EncodingUTF8,
		"robots.txt":        model.EncodingUTF8,
		"README.md":         model.EncodingUTF8,
		"icon.svg":          model.EncodingUTF8,
		"sitemap.xml":       model.EncodingUTF8,
		"logo.png":          model.EncodingBase64,
		"font.woff2":        model.EncodingBase64,
		"archive.html.gz":   model.EncodingBase64,
		"LICENSE":           model.EncodingBase64,
		"scripts/module.ts": model.EncodingBase64,
	}

	for path, want := range cases {
		assert.Equal(t, want, Classify(path), path)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10, 'a', 'b'}

	for _, enc := range []model.FileEncoding{model.EncodingUTF8, model.EncodingBase64} {
		payload := EncodePayload(raw, enc)
		got, err := DecodePayload(payload, enc)
		require.NoError(t, err)
		assert.Equal(t, raw, got, string(enc))
	}
}

func TestEncodePayloadBase64(t *testing.T) {
	assert.Equal(t, "iVBORw==", EncodePayload([]byte{0x89, 'P', 'N', 'G'}, model.EncodingBase64))
	assert.Equal(t, "body{}", EncodePayload([]byte("body{}"), model.EncodingUTF8))
}
