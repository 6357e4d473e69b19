package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name string
		key  string
		want slog.Value
		attr slog.Attr
	}{
		{"BuildID", KeyBuildID, slog.StringValue("b1"), BuildID("b1")},
		{"Stage", KeyStage, slog.StringValue("resolve"), Stage("resolve")},
		{"DurationMS", KeyDurationMS, slog.Float64Value(1.5), DurationMS(1.5)},
		{"Plugin", KeyPlugin, slog.StringValue("llms-txt"), Plugin("llms-txt")},
		{"Config", KeyConfig, slog.StringValue("docsite.yaml"), Config("docsite.yaml")},
		{"Path", KeyPath, slog.StringValue("/tmp/x"), Path("/tmp/x")},
		{"Slug", KeySlug, slog.StringValue("commands/admin"), Slug("commands/admin")},
		{"Documents", KeyDocuments, slog.IntValue(3), Documents(3)},
		{"NavNodes", KeyNavNodes, slog.IntValue(8), NavNodes(8)},
		{"Problems", KeyProblems, slog.IntValue(2), Problems(2)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.key, c.attr.Key)
			assert.True(t, c.attr.Value.Equal(c.want), "value %v", c.attr.Value)
		})
	}
}

func TestErrorAttr(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	a := Error(errors.New("boom"))
	assert.Equal(t, KeyError, a.Key)
	assert.Equal(t, "boom", a.Value.String())
}
