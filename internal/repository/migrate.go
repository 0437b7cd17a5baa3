package repository

import (
	"github.com/Behyna/paygw/internal/model"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.PaymentTransaction{}, &model.RequestLog{})
}
