package helper

import (
	"fmt"

	"table_order/model"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func GenerateUniqueRestaurantSlug(tx *gorm.DB, name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "restaurant"
	}
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.Restaurant{}).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}
