// Package classify maps a message's type code, plus decoded BytesExtra
// sub-fields for the composite type, to a semantic category and a
// human-readable summary.
package classify

import (
	"strconv"
	"strings"

	"github.com/whitelistlab/wx-db-kit/internal/wire"
)

// Kind is the closed set of semantic message categories.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindImage
	KindVoice
	KindVideo
	KindSticker
	KindMusic
	KindCard
	KindFile
	KindComposite
	KindCall
	KindSystem
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindText:      "text",
	KindImage:     "image",
	KindVoice:     "voice",
	KindVideo:     "video",
	KindSticker:   "sticker",
	KindMusic:     "music",
	KindCard:      "card",
	KindFile:      "file",
	KindComposite: "composite",
	KindCall:      "call",
	KindSystem:    "system",
}

func (k Kind) String() string { return kindNames[k] }

// Source store type codes.
const (
	TypeText      = 1
	TypeImage     = 3
	TypeVoice     = 34
	TypeVideo     = 43
	TypeSticker   = 47
	TypeComposite = 49
	TypeCall      = 50
	TypeSystem    = 10000
	TypeMusic     = 4903
	TypeCard      = 4905
	TypeFile      = 4906
)

// transferSentinel marks a composite record as a monetary transfer when it
// appears as the value of tag 5.
const transferSentinel = "2000"

// Transfer status phrases keyed by the sub-status code carried in tag 3.
var transferPhrases = map[int]string{
	1: "发起转账",
	3: "已退还",
	4: "已收款",
	5: "非实时转账收款",
	7: "发起非实时转账",
}

// Share kind labels keyed by the share code carried in tag 5.
var shareLabels = map[string]string{
	"8":  "[直播分享]",
	"33": "[小程序]",
	"36": "[小程序]",
	"4":  "[链接]",
	"5":  "[链接]",
}

const (
	genericShare    = "[分享内容]"
	genericTransfer = "[转账消息]"
)

// Result is the classified meaning of one message.
type Result struct {
	Kind    Kind
	Summary string
}

// Classify derives the semantic category and summary for one message row.
// Decode failures degrade to the type's generic placeholder; they are
// never fatal.
func Classify(msgType int, content string, extra []byte) Result {
	switch msgType {
	case TypeText:
		return Result{KindText, content}
	case TypeImage:
		return Result{KindImage, "[图片]"}
	case TypeVoice:
		return Result{KindVoice, "[语音消息]"}
	case TypeVideo:
		return Result{KindVideo, "[视频]"}
	case TypeSticker:
		return Result{KindSticker, "[表情包]"}
	case TypeMusic:
		return Result{KindMusic, "[音乐与音频]"}
	case TypeCard:
		return Result{KindCard, "[分享卡片]"}
	case TypeFile:
		return Result{KindFile, "[文件]"}
	case TypeCall:
		return Result{KindCall, "[音视频通话]"}
	case TypeSystem:
		return Result{KindSystem, "[系统消息]"}
	case TypeComposite:
		return Result{KindComposite, classifyComposite(extra)}
	}
	return Result{KindUnknown, "[未知类型消息]"}
}

// classifyComposite disambiguates transfers from generic shares. The
// transfer sentinel in tag 5 decides the path; without it tag 5 is read as
// a share kind code instead.
func classifyComposite(extra []byte) string {
	pairs := wire.Fields(extra)
	if len(pairs) == 0 {
		return genericShare
	}
	if isTransfer(pairs) {
		return renderTransfer(pairs)
	}
	return renderShare(pairs)
}

func isTransfer(pairs []wire.TagValue) bool {
	v, ok := wire.First(pairs, wire.TagShareKind)
	return ok && v == transferSentinel
}

func renderTransfer(pairs []wire.TagValue) string {
	fee, _ := wire.First(pairs, wire.TagSender)
	memo, _ := wire.First(pairs, wire.TagMemo)

	status, ok := wire.First(pairs, wire.TagPayStatus)
	if !ok {
		return genericTransfer
	}
	code, err := strconv.Atoi(strings.TrimSpace(status))
	if err != nil {
		return genericTransfer
	}
	phrase, ok := transferPhrases[code]
	if !ok {
		return genericTransfer
	}

	parts := []string{phrase}
	if fee != "" {
		parts = append(parts, fee)
	}
	if memo != "" {
		parts = append(parts, memo)
	}
	return strings.Join(parts, " ")
}

func renderShare(pairs []wire.TagValue) string {
	kind, _ := wire.First(pairs, wire.TagShareKind)
	title, _ := wire.First(pairs, wire.TagSender)

	label, ok := shareLabels[kind]
	if !ok {
		label = genericShare
	}
	if title != "" {
		return label + " " + title
	}
	return label
}

// ResolveDisplayName picks the name shown for a contact: remark takes
// priority over nickname, falling back to the raw handle.
func ResolveDisplayName(remark, nickname, handle string) string {
	if remark != "" {
		return remark
	}
	if nickname != "" {
		return nickname
	}
	return handle
}
