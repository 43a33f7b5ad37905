package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gnbaba/TindaWise/internal/domain/model"

	"gorm.io/gorm"
)

// 履歴・明細はJSON列に寄せる。スナップショット境界では
// 行単位のクエリは要らないので正規化しない。
type productRecord struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(255);not null"`
	Category     string `gorm:"type:varchar(50);not null"`
	BuyingPrice  float64
	SellingPrice float64
	Quantity     int64
	Threshold    int64
	SoldQuantity int64
	HistoryJSON  string `gorm:"type:jsonb;column:history_json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (productRecord) TableName() string { return "pos_products" }

type saleRecord struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	Timestamp time.Time
	ItemsJSON string `gorm:"type:jsonb;column:items_json"`
	Total     float64
}

func (saleRecord) TableName() string { return "pos_sales" }

// AutoMigrateはスナップショット用のテーブルを作る
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&productRecord{}, &saleRecord{})
}

type SnapshotGormRepository struct {
	db *gorm.DB
}

// DI
func NewSnapshotGormRepository(db *gorm.DB) *SnapshotGormRepository {
	return &SnapshotGormRepository{db: db}
}

// Loadは全商品・全売上を復元する。空テーブルなら空スナップショット。
func (r *SnapshotGormRepository) Load(ctx context.Context) (model.Snapshot, error) {
	var pRecs []productRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&pRecs).Error; err != nil {
		return model.Snapshot{}, err
	}

	var sRecs []saleRecord
	if err := r.db.WithContext(ctx).Order("timestamp asc").Find(&sRecs).Error; err != nil {
		return model.Snapshot{}, err
	}

	snap := model.Snapshot{
		Products: make([]model.Product, 0, len(pRecs)),
		Sales:    make([]model.Sale, 0, len(sRecs)),
	}

	for _, rec := range pRecs {
		var history []model.RestockEvent
		if rec.HistoryJSON != "" {
			if err := json.Unmarshal([]byte(rec.HistoryJSON), &history); err != nil {
				return model.Snapshot{}, err
			}
		}
		snap.Products = append(snap.Products, model.Product{
			ID:           rec.ID,
			Name:         rec.Name,
			Category:     model.Category(rec.Category),
			BuyingPrice:  rec.BuyingPrice,
			SellingPrice: rec.SellingPrice,
			Quantity:     rec.Quantity,
			Threshold:    rec.Threshold,
			SoldQuantity: rec.SoldQuantity,
			History:      history,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		})
	}

	for _, rec := range sRecs {
		var items []model.SaleItem
		if rec.ItemsJSON != "" {
			if err := json.Unmarshal([]byte(rec.ItemsJSON), &items); err != nil {
				return model.Snapshot{}, err
			}
		}
		snap.Sales = append(snap.Sales, model.Sale{
			ID:        rec.ID,
			Timestamp: rec.Timestamp,
			Items:     items,
			Total:     rec.Total,
		})
	}

	return snap, nil
}

// Saveはスナップショット全体を1トランザクションで置き換える
func (r *SnapshotGormRepository) Save(ctx context.Context, snap model.Snapshot) error {
	pRecs := make([]productRecord, 0, len(snap.Products))
	for _, p := range snap.Products {
		history, err := json.Marshal(p.History)
		if err != nil {
			return err
		}
		pRecs = append(pRecs, productRecord{
			ID:           p.ID,
			Name:         p.Name,
			Category:     string(p.Category),
			BuyingPrice:  p.BuyingPrice,
			SellingPrice: p.SellingPrice,
			Quantity:     p.Quantity,
			Threshold:    p.Threshold,
			SoldQuantity: p.SoldQuantity,
			HistoryJSON:  string(history),
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		})
	}

	sRecs := make([]saleRecord, 0, len(snap.Sales))
	for _, s := range snap.Sales {
		items, err := json.Marshal(s.Items)
		if err != nil {
			return err
		}
		sRecs = append(sRecs, saleRecord{
			ID:        s.ID,
			Timestamp: s.Timestamp,
			ItemsJSON: string(items),
			Total:     s.Total,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := del.Delete(&productRecord{}).Error; err != nil {
			return err
		}
		if err := del.Delete(&saleRecord{}).Error; err != nil {
			return err
		}

		if len(pRecs) > 0 {
			if err := tx.CreateInBatches(pRecs, 100).Error; err != nil {
				return err
			}
		}
		if len(sRecs) > 0 {
			if err := tx.CreateInBatches(sRecs, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
