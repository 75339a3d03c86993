// Package rpc 出站调用身份透传
package rpc

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/pu-ac-cn/auth-center/internal/security"
)

// PropagateIdentity 把认证上下文复制到出站请求头
// 各字段做 URL 编码后写入；上下文为空（匿名请求或纯服务间调用）时
// 不写任何身份头，下游应将缺少身份头视为"无已验证的终端用户身份"。
func PropagateIdentity(req *http.Request, ac *security.AuthContext) {
	if ac.IsEmpty() {
		return
	}

	req.Header.Set(security.HeaderUserKey, url.QueryEscape(ac.SessionID))
	req.Header.Set(security.HeaderUserID, url.QueryEscape(strconv.FormatInt(ac.UserID, 10)))
	req.Header.Set(security.HeaderAccount, url.QueryEscape(ac.Account))
	req.Header.Set(security.HeaderClientID, url.QueryEscape(ac.ClientID))
	if ac.RawToken != "" {
		req.Header.Set(security.HeaderAuthorization, security.TokenPrefix+ac.RawToken)
	}
}

// IdentityTransport 自动透传身份的 http.RoundTripper
// 从请求 context 读取认证上下文并写入身份头，供出站 HTTP 客户端复用；
// MarkInternal 为真时附加内部调用标识，下游按可信服务间调用处理。
type IdentityTransport struct {
	Base         http.RoundTripper
	MarkInternal bool
}

// RoundTrip 实现 http.RoundTripper
func (t *IdentityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTripper 约定不得修改原请求
	out := req.Clone(req.Context())

	if ac, ok := security.FromContext(req.Context()); ok {
		PropagateIdentity(out, ac)
	}
	if t.MarkInternal {
		out.Header.Set(security.HeaderFromSource, security.SourceInner)
	}

	return base.RoundTrip(out)
}

// NewClient 创建自动透传身份的 HTTP 客户端
func NewClient(markInternal bool) *http.Client {
	return &http.Client{
		Transport: &IdentityTransport{MarkInternal: markInternal},
	}
}
