package promo

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestPromoFile creates a gzipped test promo code file.
func createTestPromoFile(t *testing.T, filename string, codes []string) string {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, code := range codes {
		_, err := gzipWriter.Write([]byte(code + "\n"))
		require.NoError(t, err)
	}

	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	logger := zerolog.Nop()
	loader := NewFileLoader(logger)

	testCodes := []string{
		"VERANO2026",
		"PROMO12345",
		"DESCUENTO1",
		"BIENVENIDA",
	}

	filePath := createTestPromoFile(t, "test_promos.gz", testCodes)

	ctx := context.Background()
	set, err := loader.Load(ctx, filePath)

	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, 4, set.Size())

	for _, code := range testCodes {
		assert.True(t, set.Contains(code), "Expected code %s to be present", code)
	}
}

func TestFileLoader_Load_WithEmptyLines(t *testing.T) {
	logger := zerolog.Nop()
	loader := NewFileLoader(logger)

	testCodes := []string{
		"CODIGO123",
		"",
		"CODIGO456",
		"   ",
		"CODIGO789",
	}

	filePath := createTestPromoFile(t, "test_promos.gz", testCodes)

	ctx := context.Background()
	set, err := loader.Load(ctx, filePath)

	require.NoError(t, err)
	assert.Equal(t, 3, set.Size())
	assert.True(t, set.Contains("CODIGO123"))
	assert.True(t, set.Contains("CODIGO456"))
	assert.True(t, set.Contains("CODIGO789"))
	assert.False(t, set.Contains(""))
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	logger := zerolog.Nop()
	loader := NewFileLoader(logger)

	ctx := context.Background()
	set, err := loader.Load(ctx, "/nonexistent/promos.gz")

	require.Error(t, err)
	assert.Nil(t, set)
	assert.Contains(t, err.Error(), "failed to open promo code file")
}

func TestFileLoader_Load_NotGzipped(t *testing.T) {
	logger := zerolog.Nop()
	loader := NewFileLoader(logger)

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "plain.gz")
	require.NoError(t, os.WriteFile(filePath, []byte("PLAINCODE1\n"), 0o644))

	ctx := context.Background()
	set, err := loader.Load(ctx, filePath)

	require.Error(t, err)
	assert.Nil(t, set)
}

func TestFileLoader_Load_ContextCancelled(t *testing.T) {
	logger := zerolog.Nop()
	loader := NewFileLoader(logger)

	filePath := createTestPromoFile(t, "test_promos.gz", []string{"CODIGO123"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, err := loader.Load(ctx, filePath)

	require.Error(t, err)
	assert.Nil(t, set)
	assert.ErrorIs(t, err, context.Canceled)
}
