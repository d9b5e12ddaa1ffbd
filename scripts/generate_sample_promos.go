package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Creates a sample promo code file for local testing. Codes must be 8 to 10
// characters to pass validation.
func main() {
	dataDir := "data/promos"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	codes := []string{
		"VERANO2026",
		"BIENVENIDA",
		"PROMO12345",
		"DESCUENTO1",
		"TIENDA2026",
		"MERCADITO1",
	}

	filePath := filepath.Join(dataDir, "codes.gz")
	if err := createPromoFile(filePath, codes); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d codes\n", filePath, len(codes))
}

func createPromoFile(path string, codes []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, code := range codes {
		if _, err := gzipWriter.Write([]byte(code + "\n")); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}

	return nil
}
