package model

import "time"

// 売上の明細。会計時点の価格を必ず保存する。
type SaleItem struct {
	ProductID           int64   `json:"product_id"`
	ProductNameSnapshot string  `json:"product_name_snapshot"`
	UnitPriceSnapshot   float64 `json:"unit_price_snapshot"`
	Quantity            int64   `json:"quantity"`
}

// 確定した売上。作成後は一切書き換えない。
// Totalは作成時に確定し、あとから再計算しない（過去価格の保全）。
type Sale struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Items     []SaleItem `json:"items"`
	Total     float64    `json:"total"`
}
