package usecase

import (
	"context"
	"net/http"
	"sort"

	"github.com/gnbaba/TindaWise/internal/domain/model"
)

// レポートは現在のスナップショットを読むだけ。状態は一切持たない。
type ProductLister interface {
	List() []model.Product
}

type SaleLister interface {
	All() []model.Sale
}

// ReportUsecaseは(products, sales)の純粋な集計。
// CatalogやLedgerを変更することはない。
type ReportUsecase struct {
	products ProductLister
	sales    SaleLister
	clock    Clock
}

// DI
func NewReportUsecase(products ProductLister, sales SaleLister, clock Clock) *ReportUsecase {
	return &ReportUsecase{products: products, sales: sales, clock: clock}
}

type OverviewOutput struct {
	TotalPurchaseCost float64 `json:"total_purchase_cost"`
	TotalSalesRevenue float64 `json:"total_sales_revenue"`
	SalesToday        float64 `json:"sales_today"`
	TotalProfit       float64 `json:"total_profit"`
	MonthlyProfit     float64 `json:"monthly_profit"`
	YearlyProfit      float64 `json:"yearly_profit"`
}

// Overviewはダッシュボード上段のカード群。
// 利益は「現在の売買価格差 × 累計販売数」で出す。価格変更後の過去売上も
// 現在価格で按分される近似だが、これが仕様通りの挙動なので変えない。
func (u *ReportUsecase) Overview(ctx context.Context) OverviewOutput {
	products := u.products.List()
	sales := u.sales.All()

	var purchaseCost, revenue, profit float64
	for _, p := range products {
		purchaseCost += p.BuyingPrice * float64(p.Quantity)
		profit += (p.SellingPrice - p.BuyingPrice) * float64(p.SoldQuantity)
	}
	for _, s := range sales {
		revenue += s.Total
	}

	// 今日＝ローカル日付が一致する売上
	var today float64
	now := u.clock.Now()
	for _, s := range sales {
		y1, m1, d1 := now.Date()
		y2, m2, d2 := s.Timestamp.Local().Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			today += s.Total
		}
	}

	return OverviewOutput{
		TotalPurchaseCost: purchaseCost,
		TotalSalesRevenue: revenue,
		SalesToday:        today,
		TotalProfit:       profit,
		MonthlyProfit:     profit,
		YearlyProfit:      profit,
	}
}

type BestProductRow struct {
	ProductID         int64          `json:"product_id"`
	Name              string         `json:"name"`
	Category          model.Category `json:"category"`
	SoldQuantity      int64          `json:"sold_quantity"`
	RemainingQuantity int64          `json:"remaining_quantity"`
	TurnOver          float64        `json:"turn_over"`
}

// 累計販売数の降順・上位n件。同数は登録順のまま（安定ソート）。
func (u *ReportUsecase) BestSellingProducts(ctx context.Context, n int) ([]BestProductRow, error) {
	if n < 1 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	products := u.products.List()

	rows := make([]BestProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, BestProductRow{
			ProductID:         p.ID,
			Name:              p.Name,
			Category:          p.Category,
			SoldQuantity:      p.SoldQuantity,
			RemainingQuantity: p.Quantity,
			TurnOver:          p.SellingPrice * float64(p.SoldQuantity),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SoldQuantity > rows[j].SoldQuantity
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

type BestCategoryRow struct {
	Category model.Category `json:"category"`
	TurnOver float64        `json:"turn_over"`
	Count    int            `json:"count"`
}

// カテゴリ別の売上高（現在売価 × 累計販売数の合計）上位n件。
func (u *ReportUsecase) BestSellingCategories(ctx context.Context, n int) ([]BestCategoryRow, error) {
	if n < 1 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	products := u.products.List()

	// 初出順を保ってグループ化
	byCategory := make(map[model.Category]int)
	rows := make([]BestCategoryRow, 0)
	for _, p := range products {
		i, ok := byCategory[p.Category]
		if !ok {
			i = len(rows)
			byCategory[p.Category] = i
			rows = append(rows, BestCategoryRow{Category: p.Category})
		}
		rows[i].TurnOver += p.SellingPrice * float64(p.SoldQuantity)
		rows[i].Count++
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TurnOver > rows[j].TurnOver
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

type LowStockRow struct {
	ProductID         int64  `json:"product_id"`
	Name              string `json:"name"`
	RemainingQuantity int64  `json:"remaining_quantity"`
	Threshold         int64  `json:"threshold"`
}

// 在庫が発注点を下回った商品。quantity < threshold ちょうどの集合。
func (u *ReportUsecase) LowStock(ctx context.Context) []LowStockRow {
	products := u.products.List()

	rows := make([]LowStockRow, 0)
	for _, p := range products {
		if !p.LowStock() {
			continue
		}
		rows = append(rows, LowStockRow{
			ProductID:         p.ID,
			Name:              p.Name,
			RemainingQuantity: p.Quantity,
			Threshold:         p.Threshold,
		})
	}
	return rows
}
