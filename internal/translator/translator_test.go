package translator

import (
	"testing"

	"github.com/ghost233/clash2rocket/internal/policy"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		policy policy.Policy
		want   string
		ok     bool
	}{
		{"domain suffix", "DOMAIN-SUFFIX,google.com,🚀 节点选择", policy.Proxy, "DOMAIN-SUFFIX,google.com,PROXY", true},
		{"domain", "DOMAIN,ad.example.com,REJECT", policy.Reject, "DOMAIN,ad.example.com,REJECT", true},
		{"domain keyword", "DOMAIN-KEYWORD,youtube,whatever", policy.Proxy, "DOMAIN-KEYWORD,youtube,PROXY", true},
		{"ip-cidr no-resolve preserved", "IP-CIDR,1.2.3.0/24,DIRECT,no-resolve", policy.Direct, "IP-CIDR,1.2.3.0/24,DIRECT,no-resolve", true},
		{"ip-cidr without flag", "IP-CIDR,10.0.0.0/8,DIRECT", policy.Direct, "IP-CIDR,10.0.0.0/8,DIRECT", true},
		{"ip-cidr6", "IP-CIDR6,2001:db8::/32,PROXY,no-resolve", policy.Proxy, "IP-CIDR6,2001:db8::/32,PROXY,no-resolve", true},
		{"geoip", "GEOIP,CN,DIRECT", policy.Direct, "GEOIP,CN,DIRECT", true},
		{"user-agent", "USER-AGENT,Spotify*,PROXY", policy.Proxy, "USER-AGENT,Spotify*,PROXY", true},
		{"process-name", "PROCESS-NAME,ssh,DIRECT", policy.Direct, "PROCESS-NAME,ssh,DIRECT", true},
		{"bare final", "FINAL", policy.Proxy, "FINAL,PROXY", true},
		{"match becomes final", "MATCH,DIRECT", policy.Proxy, "FINAL,PROXY", true},
		{"final with trailing content", "FINAL,DIRECT,dns-failed", policy.Proxy, "FINAL,PROXY", true},
		{"named policy", "DOMAIN-SUFFIX,netflix.com,x", policy.Named("🎥 奈飞视频"), "DOMAIN-SUFFIX,netflix.com,🎥 奈飞视频", true},
		{"surrounding whitespace", "  DOMAIN-SUFFIX,google.com,PROXY  ", policy.Proxy, "DOMAIN-SUFFIX,google.com,PROXY", true},
		{"blank", "", policy.Proxy, "", false},
		{"spaces only", "   ", policy.Direct, "", false},
		{"hash comment", "# payload", policy.Proxy, "", false},
		{"semicolon comment", "; payload", policy.Proxy, "", false},
		{"unknown kind", "URL-REGEX,^http://example,PROXY", policy.Proxy, "", false},
		{"unknown kind reject", "RULE-SET,something,DIRECT", policy.Reject, "", false},
		{"missing value", "DOMAIN-SUFFIX", policy.Proxy, "", false},
		{"empty value", "IP-CIDR,,DIRECT", policy.Direct, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.raw, tt.policy)
			if ok != tt.ok {
				t.Fatalf("Translate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Translate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// Translating the output of a translation with the same policy must yield the
// same line again.
func TestTranslateIdempotent(t *testing.T) {
	inputs := []struct {
		raw    string
		policy policy.Policy
	}{
		{"DOMAIN-SUFFIX,google.com,🚀 节点选择", policy.Proxy},
		{"IP-CIDR,1.2.3.0/24,DIRECT,no-resolve", policy.Direct},
		{"IP-CIDR,10.0.0.0/8,anything", policy.Direct},
		{"GEOIP,CN,DIRECT", policy.Direct},
		{"FINAL", policy.Proxy},
		{"MATCH,DIRECT", policy.Reject},
		{"DOMAIN,example.com,x", policy.Named("🎮 游戏平台")},
	}
	for _, in := range inputs {
		first, ok := Translate(in.raw, in.policy)
		if !ok {
			t.Fatalf("Translate(%q) unexpectedly dropped", in.raw)
		}
		second, ok := Translate(first, in.policy)
		if !ok {
			t.Fatalf("re-Translate(%q) unexpectedly dropped", first)
		}
		if first != second {
			t.Errorf("translation not idempotent: %q -> %q -> %q", in.raw, first, second)
		}
	}
}

func TestTranslateDropsForEveryPolicy(t *testing.T) {
	policies := []policy.Policy{policy.Direct, policy.Proxy, policy.Reject, policy.Named("🚀 节点选择")}
	lines := []string{"", "# comment", "; comment", "URL-REGEX,^http,PROXY", "garbage"}
	for _, pol := range policies {
		for _, line := range lines {
			if out, ok := Translate(line, pol); ok {
				t.Errorf("Translate(%q, %s) = %q, want drop", line, pol.Token(), out)
			}
		}
	}
}
