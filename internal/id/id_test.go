package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate("test")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"thing", "thing"},
		{"interaction", "int"},
		{"recommendation", "rec"},
		{"invitation", "inv"},
		{"tag", "tag"},
		{"notification", "ntf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Generate(tt.prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, tt.prefix+"-"))

			// NanoID default is 21 characters after the prefix and hyphen.
			assert.Equal(t, len(tt.prefix)+1+21, len(id), "ID: %s", id)
		})
	}
}

func TestMustGenerate_Format(t *testing.T) {
	id := MustGenerate("test")

	assert.True(t, strings.HasPrefix(id, "test-"))
	assert.Equal(t, len("test")+1+21, len(id))
}

func TestGenerateShareCode_Alphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateShareCode()
		require.NoError(t, err)
		assert.Len(t, code, shareCodeLength)

		// No visually confusable characters may ever appear.
		for _, c := range code {
			assert.NotContains(t, "0O1Il", string(c), "code: %s", code)
			assert.Contains(t, shareCodeAlphabet, string(c), "code: %s", code)
		}
	}
}

func TestGenerateShareCode_Uniqueness(t *testing.T) {
	codes := make(map[string]bool)
	count := 500

	for i := 0; i < count; i++ {
		code, err := GenerateShareCode()
		require.NoError(t, err)
		codes[code] = true
	}

	// 31^8 keyspace makes collisions in 500 draws effectively impossible.
	assert.Len(t, codes, count)
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Generate("bench")
	}
}
