package antibot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlocked_Signatures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{
			name: "安全违规标题页",
			body: `<html><head><title>보안 위반 페이지</title></head><body></body></html>`,
			want: true,
		},
		{
			name: "异常格式请求提示",
			body: `<html><body><p>비정상적인 형식의 요청이 감지되었습니다.</p></body></html>`,
			want: true,
		},
		{
			name: "完整 HTML 文档 + 无法查看页面",
			body: "<!DOCTYPE html>\n<html><body>요청하신 페이지를 볼 수 없습니다.</body></html>",
			want: true,
		},
		{
			name: "正常 JSON 响应",
			body: `{"totalSize": 3, "contents": [{"order": {"orderNumber": "B1"}}]}`,
			want: false,
		},
		{
			name: "无特征的普通 HTML 页",
			body: "<!DOCTYPE html>\n<html><body><h1>Welcome</h1></body></html>",
			want: false,
		},
		{
			name: "无法查看页面但不是完整文档",
			body: `{"message": "페이지를 볼 수 없습니다"}`,
			want: false,
		},
		{
			name: "空响应体",
			body: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBlocked(tt.body))
		})
	}
}
