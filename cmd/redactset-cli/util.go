package main

import (
	"encoding/base64"
	"fmt"
	"strings"
)

func encodeB64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func decodeB64(content string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("decoding base64 signature file: %w", err)
	}
	return data, nil
}
