package models

type Item struct {
	Code  int64    `json:"itemCode" gorm:"column:item_code;primaryKey;autoIncrement"`
	Name  string   `json:"itemName" gorm:"type:text;not null;uniqueIndex"`
	Price int      `json:"itemPrice" gorm:"not null"`
	Stat  ItemStat `json:"itemStat" gorm:"foreignKey:ItemCode;references:Code;constraint:OnDelete:CASCADE;"`
}

type ItemStat struct {
	ItemCode int64 `json:"-" gorm:"column:item_code;primaryKey"`
	Health   int   `json:"health" gorm:"not null;default:0"`
	Power    int   `json:"power" gorm:"not null;default:0"`
}
