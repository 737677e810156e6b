package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docquery", "prompts"), store.Dir())
}

func TestPromptStore_LoadDefaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAskContext)
	require.NoError(t, err)
	assert.Contains(t, prompt, "extractos")

	prompt, err = store.Load(driven.PromptAskInstruction)
	require.NoError(t, err)
	assert.Contains(t, prompt, "concisa")
}

func TestPromptStore_CreatesDefaultFilesOnFirstLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptAskContext)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "ask_context.txt"))
	assert.FileExists(t, filepath.Join(dir, "ask_instruction.txt"))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
}

func TestPromptStore_UserOverride(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	custom := "Extractos seleccionados de la documentación:"
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "ask_context.txt"), []byte(custom+"\n"), 0600))

	prompt, err := store.Load(driven.PromptAskContext)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_ReloadClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptAskContext)
	require.NoError(t, err)

	custom := "Texto de contexto actualizado:"
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "ask_context.txt"), []byte(custom), 0600))

	// Cached value survives until Reload.
	cached, err := store.Load(driven.PromptAskContext)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptAskContext)
	require.NoError(t, err)
	assert.Equal(t, custom, fresh)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}
