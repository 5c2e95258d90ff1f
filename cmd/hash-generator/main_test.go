package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phrazzld/kanban-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPrintHashes(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	passwords := []string{"password123", "тест123"}

	var out bytes.Buffer
	require.NoError(t, printHashes(&out, hasher, passwords))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(passwords))
	for i, line := range lines {
		assert.NoError(t, hasher.Compare(line, passwords[i]))
	}
}

func TestPrintHashes_OverlongPassword(t *testing.T) {
	var out bytes.Buffer
	err := printHashes(&out, auth.NewBcryptHasher(bcrypt.MinCost), []string{strings.Repeat("x", 100)})
	assert.Error(t, err)
}
