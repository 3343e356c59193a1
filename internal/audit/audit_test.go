package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/foodgram/pkg/log"
)

func TestEntries(t *testing.T) {
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), zerolog.New(&buf))

	LogTarget(ctx, ActionDeleteRecipe, "u1", "42", "recipe deleted")
	LogWithDetail(ctx, ActionGrantRole, "u1", "admin", "role granted")

	dec := json.NewDecoder(&buf)

	var first map[string]interface{}
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, log.LogTypeAudit, first[log.FieldLogType])
	assert.Equal(t, ActionDeleteRecipe, first[FieldAction])
	assert.Equal(t, "u1", first[log.FieldUserID])
	assert.Equal(t, "42", first[FieldTargetID])

	var second map[string]interface{}
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "admin", second[FieldDetail])
	assert.Equal(t, "role granted", second["message"])
}
