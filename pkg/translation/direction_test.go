package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"python", "zh-CN"},
		{"markdown", "zh-CN"},
		{"plaintext", "zh-CN"},
		{"", "zh-CN"},
		{"zh-tw", "en"},
		{"ZH-CN", "en"},
		{"chinese", "en"},
		{"Chinese-Traditional", "en"},
		// csharp 是刻意保留的历史规则，不是 bug
		{"csharp", "en"},
		{"CSharp", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTarget(tt.tag))
		})
	}
}
