package service

import (
	"testing"

	"github-portfolio-analyzer/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "纯用户名", input: "octocat", want: "octocat"},
		{name: "大小写与空白", input: "  OctoCat \n", want: "octocat"},
		{name: "带连字符", input: "some-user-1", want: "some-user-1"},
		{name: "https 主页", input: "https://github.com/octocat", want: "octocat"},
		{name: "无 scheme", input: "github.com/octocat/", want: "octocat"},
		{name: "仓库地址取 owner", input: "https://www.github.com/octocat/hello-world/tree/main", want: "octocat"},
		{name: "查询参数", input: "https://github.com/octocat?tab=repositories", want: "octocat"},
		{name: "锚点", input: "https://github.com/octocat#readme", want: "octocat"},
		{name: "空字符串", input: "   ", wantErr: true},
		{name: "非法字符", input: "octo_cat", wantErr: true},
		{name: "带空格", input: "octo cat", wantErr: true},
		{name: "join 页面", input: "https://github.com/join", wantErr: true},
		{name: "只有域名", input: "https://github.com/", wantErr: true},
		{name: "其他站点", input: "https://gitlab.com/octocat", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractUsername(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, common.ErrCodeInvalidInput, common.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
