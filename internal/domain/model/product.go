package model

import "time"

type Category string

// 店で扱う固定カテゴリ
const (
	CategorySnacks             Category = "Snacks"
	CategoryRice               Category = "Rice"
	CategoryCannedGoods        Category = "Canned Goods"
	CategoryCookingCondiments  Category = "Cooking Condiments"
	CategoryToiletries         Category = "Toiletries"
	CategoryCleaningSupplies   Category = "Cleaning Supplies"
	CategoryDrinks             Category = "Drinks"
	CategoryMiscellaneousGoods Category = "Miscellaneous Goods"
	CategorySchoolSupplies     Category = "School Supplies"
)

var Categories = []Category{
	CategorySnacks,
	CategoryRice,
	CategoryCannedGoods,
	CategoryCookingCondiments,
	CategoryToiletries,
	CategoryCleaningSupplies,
	CategoryDrinks,
	CategoryMiscellaneousGoods,
	CategorySchoolSupplies,
}

// 固定セットに含まれるカテゴリか
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// 入荷1回分の履歴行。追記のみで書き換えない。
type RestockEvent struct {
	Date         time.Time `json:"date"`
	Qty          int64     `json:"qty"`
	BuyingPrice  float64   `json:"buying_price"`
	SellingPrice float64   `json:"selling_price"`
}

type Product struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Category     Category       `json:"category"`
	BuyingPrice  float64        `json:"buying_price"`
	SellingPrice float64        `json:"selling_price"`
	Quantity     int64          `json:"quantity"`
	Threshold    int64          `json:"threshold"`
	SoldQuantity int64          `json:"sold_quantity"`
	History      []RestockEvent `json:"history"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// 在庫が発注点を下回っているか
func (p Product) LowStock() bool {
	return p.Quantity < p.Threshold
}
