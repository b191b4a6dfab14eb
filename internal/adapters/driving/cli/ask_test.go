package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCommand_RetrievalFlags(t *testing.T) {
	for _, name := range []string{"top-k", "min-score", "json"} {
		assert.NotNil(t, askCmd.Flags().Lookup(name), "ask --%s", name)
		assert.NotNil(t, retrieveCmd.Flags().Lookup(name), "retrieve --%s", name)
	}
}

func TestAskCommand_MinScoreParsed(t *testing.T) {
	require.NoError(t, askCmd.Flags().Set("min-score", "0.6"))
	t.Cleanup(func() { askMinScore = 0 })
	assert.Equal(t, 0.6, askMinScore)
}
