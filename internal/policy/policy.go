// Package policy maps rule-group display names to Shadowrocket policy tokens.
package policy

// Kind represents the routing action of a policy.
type Kind int

const (
	KindDirect Kind = iota
	KindProxy
	KindReject
	KindNamed
)

// Policy is the routing target appended to every translated rule line.
type Policy struct {
	Kind Kind
	Name string
}

var (
	Direct = Policy{Kind: KindDirect}
	Proxy  = Policy{Kind: KindProxy}
	Reject = Policy{Kind: KindReject}
)

// Named returns a policy rendered as the literal group name.
func Named(name string) Policy {
	return Policy{Kind: KindNamed, Name: name}
}

// Token renders the policy as it appears in a Shadowrocket rule line.
func (p Policy) Token() string {
	switch p.Kind {
	case KindDirect:
		return "DIRECT"
	case KindProxy:
		return "PROXY"
	case KindReject:
		return "REJECT"
	default:
		return p.Name
	}
}

// ParseToken maps a rendered token back to a policy. Unrecognized tokens
// become named policies.
func ParseToken(s string) Policy {
	switch s {
	case "DIRECT":
		return Direct
	case "PROXY":
		return Proxy
	case "REJECT":
		return Reject
	}
	return Named(s)
}

// Mode selects how group names are mapped to policies.
type Mode int

const (
	// ModeList collapses every group to a basic policy for standalone lists.
	ModeList Mode = iota
	// ModeFull keeps group names as policy-group references in the combined config.
	ModeFull
)

// ParseMode converts a mode string from the CLI or settings file.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "list":
		return ModeList, true
	case "full":
		return ModeFull, true
	}
	return ModeList, false
}

// basicTable maps the canonical basic-policy groups. In full mode only these
// are substituted; every other group keeps its own name as the policy token.
var basicTable = map[string]Policy{
	"🎯 全球直连":    Direct,
	"🛑 广告拦截":    Reject,
	"🍃 应用净化":    Reject,
	"🆎 AdBlock": Reject,
	"🛡️ 隐私防护":   Reject,
}

// listTable extends basicTable with the proxy-side groups so that list mode
// can collapse every known group to DIRECT/PROXY/REJECT.
var listTable = map[string]Policy{
	"🚀 节点选择":           Proxy,
	"🌍 国外媒体":           Proxy,
	"🌏 国内媒体":           Direct,
	"🍎 苹果服务":           Direct,
	"🎥 奈飞视频":           Proxy,
	"🎮 游戏平台":           Proxy,
	"🎶 网易音乐":           Direct,
	"🐟 漏网之鱼":           Proxy,
	"💬 OpenAi":         Proxy,
	"📢 谷歌FCM":          Proxy,
	"📲 电报消息":           Proxy,
	"📹 油管视频":           Proxy,
	"📺 巴哈姆特":           Proxy,
	"📺 哔哩哔哩":           Direct,
	"🤖 AI":             Proxy,
	"🎇 Anthropic":      Proxy,
	"🎯 Github Copilot": Proxy,
	"🎯 Google":         Proxy,
	"🎯 Other":          Proxy,
	"🎯 Parsec":         Proxy,
}

// Mapper resolves group display names to policies for one output mode.
type Mapper struct {
	mode Mode
}

// NewMapper creates a Mapper for the given mode.
func NewMapper(mode Mode) *Mapper {
	return &Mapper{mode: mode}
}

// PolicyFor is total: it never fails for any group name. Unknown names fall
// back to PROXY in list mode and to the name itself in full mode.
func (m *Mapper) PolicyFor(group string) Policy {
	if p, ok := basicTable[group]; ok {
		return p
	}
	if m.mode == ModeFull {
		return Named(group)
	}
	if p, ok := listTable[group]; ok {
		return p
	}
	return Proxy
}
