package extractor

import (
	"regexp"

	"github.com/cardwatch/backend/internal/model"
)

// Issuer format definitions. Labels appear in the emails with either ASCII
// or full-width colons, so anchors accept both; amount captures accept
// full-width digits, which are folded to ASCII before numeric parsing.

// MUFG debit transaction confirmation ("デビットカード取引確認メール").
// Field labels are bracketed, values follow on the same line.
var mufgFormat = &Format{
	Company: model.CardCompanyMUFG,
	probes: []string{
		"デビットカード取引確認メール",
		"三菱ＵＦＪ－ＪＣＢデビット",
	},
	fields: map[string]*regexp.Regexp{
		FieldCardName:   regexp.MustCompile(`【ご利用カード】[ \t　]*([^\r\n]+)`),
		FieldAmount:     regexp.MustCompile(`【ご利用金額】[ \t　]*([0-9０-９,，]+)[ \t　]*円?`),
		FieldWhereToUse: regexp.MustCompile(`【ご利用先】[ \t　]*([^\r\n]+)`),
		FieldDatetime:   regexp.MustCompile(`【ご利用日時】[ \t　]*([^\r\n]+)`),
	},
	dateLayouts: []string{
		"2006/01/02 15:04:05",
		"2006/01/02 15:04",
		"2006-01-02T15:04:05-07:00",
	},
}

// Sumitomo Mitsui Card usage notice ("ご利用のお知らせ").
var smbcFormat = &Format{
	Company: model.CardCompanySMBC,
	probes: []string{
		"三井住友カード",
		"ご利用のお知らせ",
	},
	fields: map[string]*regexp.Regexp{
		FieldCardName:   regexp.MustCompile(`ご利用カード[:：][ \t　]*([^\r\n]+)`),
		FieldAmount:     regexp.MustCompile(`ご利用金額[:：][ \t　]*([0-9０-９,，]+)[ \t　]*円?`),
		FieldWhereToUse: regexp.MustCompile(`ご利用先[:：][ \t　]*([^\r\n]+)`),
		FieldDatetime:   regexp.MustCompile(`ご利用日時[:：][ \t　]*([^\r\n]+)`),
	},
	dateLayouts: []string{
		"2006/01/02 15:04",
		"2006/01/02 15:04:05",
	},
}

// Rakuten Card usage digest ("カード利用お知らせメール"). States a usage
// date only, no time of day; midnight reference time is attached.
var rakutenFormat = &Format{
	Company: model.CardCompanyRakuten,
	probes: []string{
		"カード利用お知らせメール",
		"楽天カード",
	},
	fields: map[string]*regexp.Regexp{
		FieldCardName:   regexp.MustCompile(`■利用者[:：]?[ \t　]*([^\r\n]+)`),
		FieldAmount:     regexp.MustCompile(`■利用金額[:：]?[ \t　]*([0-9０-９,，]+)[ \t　]*円?`),
		FieldWhereToUse: regexp.MustCompile(`■利用先[:：]?[ \t　]*([^\r\n]+)`),
		FieldDatetime:   regexp.MustCompile(`■利用日[:：]?[ \t　]*([^\r\n]+)`),
	},
	dateLayouts: []string{
		"2006/01/02",
	},
}

// JCB card usage notice ("カードご利用通知"). Sent as multipart HTML+text.
var jcbFormat = &Format{
	Company: model.CardCompanyJCB,
	probes: []string{
		"JCB",
		"カードご利用通知",
	},
	fields: map[string]*regexp.Regexp{
		FieldCardName:   regexp.MustCompile(`ご利用カード[:：][ \t　]*([^\r\n]+)`),
		FieldAmount:     regexp.MustCompile(`ご利用金額[:：][ \t　]*([0-9０-９,，]+)[ \t　]*円?`),
		FieldWhereToUse: regexp.MustCompile(`ご利用先[:：][ \t　]*([^\r\n]+)`),
		FieldDatetime:   regexp.MustCompile(`ご利用日時(?:（日本時間）)?[:：][ \t　]*([^\r\n]+)`),
	},
	dateLayouts: []string{
		"2006/01/02 15:04",
		"2006/01/02 15:04:05",
	},
	multipart: true,
}

// registry lists all formats in detection priority order: the first whose
// probes all match wins. Rakuten precedes JCB because Rakuten issues
// JCB-branded cards whose digests mention JCB in passing.
var registry = []*Format{
	mufgFormat,
	smbcFormat,
	rakutenFormat,
	jcbFormat,
}

// Formats returns the registered issuer formats in priority order.
func Formats() []*Format {
	return registry
}

// formatFor returns the format registered for the issuer, if any.
func formatFor(company model.CardCompany) (*Format, bool) {
	for _, f := range registry {
		if f.Company == company {
			return f, true
		}
	}
	return nil, false
}

// detect runs each format's detector against the text in priority order.
func detect(text string) (*Format, bool) {
	for _, f := range registry {
		if f.Match(text) {
			return f, true
		}
	}
	return nil, false
}
