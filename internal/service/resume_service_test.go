package service

import (
	"context"
	"strings"
	"testing"

	"masteryloop_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlainTextPassthrough(t *testing.T) {
	r := NewPDFResumeReader()

	text, err := r.ExtractText(context.Background(), []byte("  Backend engineer, 5 years Go.  "), "resume.txt")
	require.NoError(t, err)
	assert.Equal(t, "Backend engineer, 5 years Go.", text)
}

func TestExtractTextRejectsBinaryGarbage(t *testing.T) {
	r := NewPDFResumeReader()

	_, err := r.ExtractText(context.Background(), []byte{0xff, 0xfe, 0x00, 0x81}, "resume.bin")
	assert.ErrorIs(t, err, util.ErrResumeUnreadable)
}

func TestExtractTextRejectsEmpty(t *testing.T) {
	r := NewPDFResumeReader()

	_, err := r.ExtractText(context.Background(), []byte("   \n  "), "resume.txt")
	assert.ErrorIs(t, err, util.ErrResumeUnreadable)
}

func TestExtractTextRejectsCorruptPDF(t *testing.T) {
	r := NewPDFResumeReader()

	_, err := r.ExtractText(context.Background(), []byte("%PDF-1.7 truncated garbage"), "resume.pdf")
	assert.ErrorIs(t, err, util.ErrResumeUnreadable)
}

func TestExtractTextCapsLength(t *testing.T) {
	r := NewPDFResumeReader()
	r.MaxChars = 10

	text, err := r.ExtractText(context.Background(), []byte(strings.Repeat("a", 100)), "resume.txt")
	require.NoError(t, err)
	assert.Len(t, text, 10)
}

func TestExtractTextHonorsContext(t *testing.T) {
	r := NewPDFResumeReader()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.ExtractText(ctx, []byte("text"), "resume.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
