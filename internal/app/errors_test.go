package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperifyio/readtable/internal/source"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(ErrNoTablesFound))
	assert.Equal(t, ExitFailure, ExitCode(&source.NetworkError{URL: "http://x", Status: 500, Err: errors.New("boom")}))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "No tables found.", UserMessage(fmt.Errorf("wrapped: %w", ErrNoTablesFound)))
	assert.Contains(t, UserMessage(fmt.Errorf("%w: bad delimiter", ErrUsage)), "Invalid usage:")

	msg := UserMessage(&source.IOError{Op: "read", Path: "page.html", Err: errors.New("no such file")})
	assert.Equal(t, "Error: read page.html: no such file", msg)
}
