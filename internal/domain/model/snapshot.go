package model

// 永続化境界で受け渡す全体スナップショット。
// 初回起動ではどちらも空でよい。
type Snapshot struct {
	Products []Product `json:"products"`
	Sales    []Sale    `json:"sales"`
}
