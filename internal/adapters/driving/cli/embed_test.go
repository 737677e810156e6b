package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

func TestEmbedCmd_Use(t *testing.T) {
	assert.Equal(t, "embed", embedCmd.Use)
}

func TestEmbedCmd_Executes(t *testing.T) {
	_, _, _, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"embed"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Embedded 3 of 3 paragraphs")
}

func TestEmbedCmd_NothingPending(t *testing.T) {
	_, _, embed, _, cleanup := setupTestServices()
	defer cleanup()
	embed.report = &domain.EmbedReport{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"embed"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Nothing to embed.")
}

func TestEmbedCmd_ReportsFailures(t *testing.T) {
	_, _, embed, _, cleanup := setupTestServices()
	defer cleanup()
	embed.report = &domain.EmbedReport{Pending: 5, Embedded: 3, Failed: 2}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"embed"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "(2 failed)")
}

func TestEmbedCmd_ServiceFailure(t *testing.T) {
	_, _, embed, _, cleanup := setupTestServices()
	defer cleanup()
	embed.err = errFakeService

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"embed"})

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, errFakeService)
}
