package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMimeType(t *testing.T) {
	zipHeader := append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0}, 40)...)
	mime, err := ValidateMimeType(bytes.NewReader(zipHeader), []string{MimeZip, MimeOLE})
	assert.NoError(t, err)
	assert.Equal(t, MimeZip, mime)

	_, err = ValidateMimeType(bytes.NewReader([]byte("name,score\nA,12\n")), []string{MimeZip, MimeOLE})
	assert.Error(t, err)
}

func TestIsWorkbookName(t *testing.T) {
	assert.True(t, IsWorkbookName("PT1.XLSX"))
	assert.True(t, IsWorkbookName("marks.xls"))
	assert.False(t, IsWorkbookName("marks.csv"))
	assert.False(t, IsWorkbookName("xlsx"))
}
