package plugin_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/semrel_gitlab/semrel/config"
	"github.com/byte4ever/semrel_gitlab/semrel/plugin"
)

func TestDecodeInvocation(t *testing.T) {
	t.Parallel()

	raw := `{
		"pluginConfig": {
			"gitlabToken": "t",
			"projectId": 42,
			"targetBranch": "main",
			"path": "@semantic-release/gitlab-mirror"
		},
		"nextRelease": {
			"version": "2.0.0",
			"notes": "fix bug",
			"gitTag": "v2.0.0"
		},
		"options": {"dryRun": false}
	}`

	inv, err := plugin.DecodeInvocation(strings.NewReader(raw))

	require.NoError(t, err)
	assert.Equal(t, config.PluginConfig{
		GitlabToken:  "t",
		ProjectID:    "42",
		TargetBranch: "main",
	}, inv.PluginConfig)
	assert.Equal(t, config.Release{
		Version: "2.0.0",
		Notes:   "fix bug",
	}, inv.NextRelease)
}

func TestDecodeInvocation_invalid(t *testing.T) {
	t.Parallel()

	_, err := plugin.DecodeInvocation(strings.NewReader("{"))

	assert.ErrorContains(t, err, "decoding invocation")
}
