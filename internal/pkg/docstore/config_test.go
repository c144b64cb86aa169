package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetObjectKey(t *testing.T) {
	cfg := &Config{BucketName: "cardinsa-docs"}

	key := cfg.GetObjectKey("CLM-AB12CD34", "9f1c2e40-0000-0000-0000-000000000001", ".pdf", 2026, 3)
	assert.Equal(t, "claims/2026/03/CLM-AB12CD34/9f1c2e40-0000-0000-0000-000000000001.pdf", key)
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		fileName string
		expected string
	}{
		{"invoice.pdf", "application/pdf"},
		{"scan.jpg", "image/jpeg"},
		{"scan.jpeg", "image/jpeg"},
		{"xray.png", "image/png"},
		{"notes.txt", "text/plain"},
		{"report.docx", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, getContentType(tt.fileName), tt.fileName)
	}
}
