package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamsCommandStructure(t *testing.T) {
	assert.NotNil(t, streamsCmd)
	assert.Equal(t, "streams", streamsCmd.Use)
	assert.NotEmpty(t, streamsCmd.Short)
	assert.NotEmpty(t, streamsCmd.Long)
	assert.NotNil(t, streamsCmd.RunE)
}

func TestRunStreams(t *testing.T) {
	originalPath := streamsCatalogPath
	defer func() {
		streamsCatalogPath = originalPath
	}()

	path := filepath.Join(t.TempDir(), "catalog.json")
	doc := `{
		"streams": [
			{
				"tap_stream_id": "accounts",
				"stream": "accounts",
				"key_properties": ["Id"],
				"schema": {"type": ["object"]},
				"replication_method": "FULL_TABLE"
			},
			{
				"tap_stream_id": "campaigns",
				"stream": "campaigns",
				"key_properties": ["Id"],
				"schema": {"type": ["object"]},
				"replication_method": "FULL_TABLE",
				"selected": false
			}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	streamsCatalogPath = path

	var buf bytes.Buffer
	streamsCmd.SetOut(&buf)

	require.NoError(t, runStreams(streamsCmd, []string{}))

	output := buf.String()
	assert.Contains(t, output, "1. accounts")
	assert.Contains(t, output, "2. campaigns")
	assert.Contains(t, output, "Key Properties: [Id]")
	assert.Contains(t, output, "Replication:    FULL_TABLE")
	assert.Contains(t, output, "Selected:       yes")
	assert.Contains(t, output, "Selected:       no")
}

func TestRunStreamsEmptyCatalog(t *testing.T) {
	originalPath := streamsCatalogPath
	defer func() {
		streamsCatalogPath = originalPath
	}()

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"streams": []}`), 0o644))

	streamsCatalogPath = path

	var buf bytes.Buffer
	streamsCmd.SetOut(&buf)

	require.NoError(t, runStreams(streamsCmd, []string{}))
	assert.Contains(t, buf.String(), "No streams defined")
}

func TestRunStreamsMissingCatalog(t *testing.T) {
	originalPath := streamsCatalogPath
	defer func() {
		streamsCatalogPath = originalPath
	}()

	streamsCatalogPath = filepath.Join(t.TempDir(), "absent.json")

	err := runStreams(streamsCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
}
