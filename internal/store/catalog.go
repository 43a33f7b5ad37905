package store

import (
	"sync"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"
)

// 商品登録の入力
type AddInput struct {
	Name         string
	Category     model.Category
	BuyingPrice  float64
	SellingPrice float64
	Quantity     int64
	Threshold    *int64 // nilならデフォルト10
}

// 部分更新。nilのフィールドは触らない。
// History/SoldQuantityはここからは更新できない（入荷・会計専用の遷移）。
type UpdatePatch struct {
	Name         *string
	Category     *model.Category
	BuyingPrice  *float64
	SellingPrice *float64
	Quantity     *int64
	Threshold    *int64
}

// カート1行（会計の要求数量）
type SaleLine struct {
	ProductID int64
	Quantity  int64
}

const defaultThreshold = 10

// Catalogは商品コレクションの唯一の所有者。
// 登録順を保持する（レポートの安定ソートが入力順に依存するため）。
// HTTP経由で並行に呼ばれるので全操作をmutexで直列化する。
type Catalog struct {
	mu       sync.Mutex
	products []*model.Product
	index    map[int64]int // id -> productsの位置
	nextID   int64
}

// NewCatalogはスナップショットから復元する。空でよい。
// IDは最大値+1から単調に採番する（時刻由来IDは衝突するので使わない）。
func NewCatalog(products []model.Product) *Catalog {
	c := &Catalog{
		products: make([]*model.Product, 0, len(products)),
		index:    make(map[int64]int, len(products)),
		nextID:   1,
	}
	for i := range products {
		p := products[i]
		p.History = append([]model.RestockEvent(nil), p.History...)
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, &p)
		if p.ID >= c.nextID {
			c.nextID = p.ID + 1
		}
	}
	return c
}

// Addは商品を新規登録する。
func (c *Catalog) Add(in AddInput, now time.Time) (model.Product, error) {
	if in.Name == "" {
		return model.Product{}, NewValidationError("name", "required")
	}
	if !in.Category.Valid() {
		return model.Product{}, NewValidationError("category", "unknown category")
	}
	if in.BuyingPrice < 0 {
		return model.Product{}, NewValidationError("buying_price", "must be >= 0")
	}
	if in.SellingPrice < 0 {
		return model.Product{}, NewValidationError("selling_price", "must be >= 0")
	}
	if in.Quantity < 0 {
		return model.Product{}, NewValidationError("quantity", "must be >= 0")
	}

	threshold := int64(defaultThreshold)
	if in.Threshold != nil {
		if *in.Threshold < 0 {
			return model.Product{}, NewValidationError("threshold", "must be >= 0")
		}
		threshold = *in.Threshold
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := &model.Product{
		ID:           c.nextID,
		Name:         in.Name,
		Category:     in.Category,
		BuyingPrice:  in.BuyingPrice,
		SellingPrice: in.SellingPrice,
		Quantity:     in.Quantity,
		Threshold:    threshold,
		SoldQuantity: 0,
		History:      []model.RestockEvent{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	c.nextID++
	c.index[p.ID] = len(c.products)
	c.products = append(c.products, p)

	return *p, nil
}

// Deleteはidsに含まれる商品をまとめて消す。
// 存在しないidは黙って無視する（冪等）。過去の売上には影響しない。
func (c *Catalog) Delete(ids []int64) int {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.products[:0]
	removed := 0
	for _, p := range c.products {
		if drop[p.ID] {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	c.products = kept
	c.rebuildIndex()

	return removed
}

// Updateはpatchの指定フィールドだけをマージする。
func (c *Catalog) Update(id int64, patch UpdatePatch, now time.Time) (model.Product, error) {
	if patch.Name != nil && *patch.Name == "" {
		return model.Product{}, NewValidationError("name", "required")
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return model.Product{}, NewValidationError("category", "unknown category")
	}
	if patch.BuyingPrice != nil && *patch.BuyingPrice < 0 {
		return model.Product{}, NewValidationError("buying_price", "must be >= 0")
	}
	if patch.SellingPrice != nil && *patch.SellingPrice < 0 {
		return model.Product{}, NewValidationError("selling_price", "must be >= 0")
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return model.Product{}, NewValidationError("quantity", "must be >= 0")
	}
	if patch.Threshold != nil && *patch.Threshold < 0 {
		return model.Product{}, NewValidationError("threshold", "must be >= 0")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.find(id)
	if !ok {
		return model.Product{}, ErrNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.BuyingPrice != nil {
		p.BuyingPrice = *patch.BuyingPrice
	}
	if patch.SellingPrice != nil {
		p.SellingPrice = *patch.SellingPrice
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Threshold != nil {
		p.Threshold = *patch.Threshold
	}
	p.UpdatedAt = now

	return clone(p), nil
}

// Restockは在庫を積み増し、現在価格を上書きし、履歴を1行追記する。
// qty=0も許可し、その場合も履歴は残す（入荷操作は数量ゼロでも監査対象）。
func (c *Catalog) Restock(id int64, qty int64, buyingPrice, sellingPrice float64, now time.Time) (model.Product, error) {
	if qty < 0 {
		return model.Product{}, NewValidationError("qty", "must be >= 0")
	}
	if buyingPrice < 0 {
		return model.Product{}, NewValidationError("buying_price", "must be >= 0")
	}
	if sellingPrice < 0 {
		return model.Product{}, NewValidationError("selling_price", "must be >= 0")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.find(id)
	if !ok {
		return model.Product{}, ErrNotFound
	}

	p.Quantity += qty
	p.BuyingPrice = buyingPrice
	p.SellingPrice = sellingPrice
	p.History = append(p.History, model.RestockEvent{
		Date:         now,
		Qty:          qty,
		BuyingPrice:  buyingPrice,
		SellingPrice: sellingPrice,
	})
	p.UpdatedAt = now

	return clone(p), nil
}

// FindはIDで商品のコピーを返す。
func (c *Catalog) Find(id int64) (model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.find(id)
	if !ok {
		return model.Product{}, ErrNotFound
	}
	return clone(p), nil
}

// Listは登録順の全商品コピーを返す。内部状態は渡さない。
func (c *Catalog) List() []model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, clone(p))
	}
	return out
}

// ApplySaleは会計専用の在庫遷移。1つのクリティカルセクションの中で
// 全行を検証してから適用する（validate-then-apply）。
//   - 未知のID → ErrNotFound
//   - 要求合計が在庫超過 → InsufficientStockError
//
// どれか1行でも失敗したらカタログは一切変更しない。
// 成功時は変更前の売価・商品名をスナップショットした明細を返す。
func (c *Catalog) ApplySale(lines []SaleLine, now time.Time) ([]model.SaleItem, error) {
	if len(lines) == 0 {
		return nil, NewValidationError("cart", "must not be empty")
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, NewValidationError("quantity", "must be > 0")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 検証パス。同じ商品が複数行に出ても合計で在庫を超えないこと。
	requested := make(map[int64]int64, len(lines))
	for _, l := range lines {
		p, ok := c.find(l.ProductID)
		if !ok {
			return nil, ErrNotFound
		}
		requested[l.ProductID] += l.Quantity
		if requested[l.ProductID] > p.Quantity {
			return nil, &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: requested[l.ProductID],
				Available: p.Quantity,
			}
		}
	}

	// 適用パス。ここからは失敗しない。
	items := make([]model.SaleItem, 0, len(lines))
	for _, l := range lines {
		p, _ := c.find(l.ProductID)
		items = append(items, model.SaleItem{
			ProductID:           p.ID,
			ProductNameSnapshot: p.Name,
			UnitPriceSnapshot:   p.SellingPrice,
			Quantity:            l.Quantity,
		})
		p.Quantity -= l.Quantity
		p.SoldQuantity += l.Quantity
		p.UpdatedAt = now
	}

	return items, nil
}

func (c *Catalog) find(id int64) (*model.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.products[i], true
}

func (c *Catalog) rebuildIndex() {
	c.index = make(map[int64]int, len(c.products))
	for i, p := range c.products {
		c.index[p.ID] = i
	}
}

func clone(p *model.Product) model.Product {
	out := *p
	out.History = append([]model.RestockEvent(nil), p.History...)
	return out
}
