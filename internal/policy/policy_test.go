package policy

import "testing"

func TestPolicyToken(t *testing.T) {
	tests := []struct {
		policy Policy
		want   string
	}{
		{Direct, "DIRECT"},
		{Proxy, "PROXY"},
		{Reject, "REJECT"},
		{Named("🚀 节点选择"), "🚀 节点选择"},
	}
	for _, tt := range tests {
		if got := tt.policy.Token(); got != tt.want {
			t.Errorf("Token() = %q, want %q", got, tt.want)
		}
	}
}

func TestMapperListMode(t *testing.T) {
	m := NewMapper(ModeList)
	tests := []struct {
		group string
		want  string
	}{
		{"🎯 全球直连", "DIRECT"},
		{"🛑 广告拦截", "REJECT"},
		{"🛡️ 隐私防护", "REJECT"},
		{"🚀 节点选择", "PROXY"},
		{"📺 哔哩哔哩", "DIRECT"},
		{"never heard of it", "PROXY"}, // unknown falls back to PROXY
		{"", "PROXY"},
	}
	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			if got := m.PolicyFor(tt.group).Token(); got != tt.want {
				t.Errorf("PolicyFor(%q) = %q, want %q", tt.group, got, tt.want)
			}
		})
	}
}

func TestMapperFullMode(t *testing.T) {
	m := NewMapper(ModeFull)
	tests := []struct {
		group string
		want  string
	}{
		// Canonical basic-policy groups are still substituted.
		{"🎯 全球直连", "DIRECT"},
		{"🛑 广告拦截", "REJECT"},
		{"🛡️ 隐私防护", "REJECT"},
		// Everything else keeps its display name verbatim.
		{"🚀 节点选择", "🚀 节点选择"},
		{"📲 电报消息", "📲 电报消息"},
		{"never heard of it", "never heard of it"},
	}
	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			if got := m.PolicyFor(tt.group).Token(); got != tt.want {
				t.Errorf("PolicyFor(%q) = %q, want %q", tt.group, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode("list"); !ok || m != ModeList {
		t.Errorf("ParseMode(list) = %v, %v", m, ok)
	}
	if m, ok := ParseMode("full"); !ok || m != ModeFull {
		t.Errorf("ParseMode(full) = %v, %v", m, ok)
	}
	if _, ok := ParseMode("yaml"); ok {
		t.Error("ParseMode(yaml) accepted")
	}
}

func TestParseToken(t *testing.T) {
	if ParseToken("DIRECT") != Direct || ParseToken("PROXY") != Proxy || ParseToken("REJECT") != Reject {
		t.Error("basic tokens not recognized")
	}
	if got := ParseToken("🐟 漏网之鱼").Token(); got != "🐟 漏网之鱼" {
		t.Errorf("named token = %q", got)
	}
}
