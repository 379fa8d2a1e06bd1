package deploy_service

import (
	"encoding/base64"
	"strings"

	model "snapship-service/models"
)

// textExtensions are sent as UTF-8 strings; everything else is base64.
var textExtensions = []string{".html", ".css", ".js", ".json", ".txt", ".md", ".svg", ".xml"}

// Classify picks the payload encoding for a path by its lowercased suffix.
func Classify(path string) model.FileEncoding {
	lower := strings.ToLower(path)
	for _, ext := range textExtensions {
		if strings.HasSuffix(lower, ext) {
			return model.EncodingUTF8
		}
	}
	return model.EncodingBase64
}

// EncodePayload renders raw bytes with the given encoding. Text is decoded
// best-effort; invalid UTF-8 is not rejected.
func EncodePayload(data []byte, encoding model.FileEncoding) string {
	if encoding == model.EncodingUTF8 {
		return string(data)
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodePayload reverses EncodePayload.
func DecodePayload(payload string, encoding model.FileEncoding) ([]byte, error) {
	if encoding == model.EncodingUTF8 {
		return []byte(payload), nil
	}
	return base64.StdEncoding.DecodeString(payload)
}
