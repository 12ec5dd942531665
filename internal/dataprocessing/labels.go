package dataprocessing

import "regexp"

// Label constants matched against source documents. These must match the
// report text exactly, including full-width punctuation: the back-office
// sheets mix ASCII and full-width colons and parentheses between releases.
const (
	labelNavTotal = "单位净值"
	labelNavA     = "新智达成长六号A类"
	labelNavB     = "新智达成长六号B类"
	labelAssets   = "资产净值"
	labelCash     = "银行存款"

	// TRS mark-to-market sheet and its header columns. Ticker and name
	// columns each have two known spellings.
	trsSheetFragment   = "合约盯市情况"
	labelTicker        = "证券代码"
	labelTickerAlt     = "标的代码"
	labelAssetName     = "证券名称"
	labelAssetNameAlt  = "标的名称"
	labelNotional      = "期初名义本金（计价货币）"
	labelMarketValue   = "标的市值(计价货币)"
	labelContractValue = "乙方合约价值"
	labelSettlement    = "合计结算金额"
)

var (
	// labeledDateRe matches an explicit report-date row, tolerating both
	// colon variants.
	labeledDateRe = regexp.MustCompile(`日期[:：]\s*(\d{4}-\d{2}-\d{2})`)

	// bareDateRe matches any ISO-formatted date substring; used as the
	// fallback when no labeled date row exists.
	bareDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)
