package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoodCategories are the tags a user can include or exclude for generated meals
var FoodCategories = []string{
	"Dairy products",
	"Fats, Oils, Shortenings",
	"Meat, Poultry",
	"Fish, Seafood",
	"Vegetables A-E",
	"Vegetables F-P",
	"Vegetables R-Z",
	"Fruits A-F",
	"Fruits G-P",
	"Fruits R-Z",
	"Breads, cereals, fastfood, grains",
	"Soups",
	"Desserts, sweets",
	"Jams, Jellies",
	"Seeds and Nuts",
	"Drinks,Alcohol, Beverages",
}

// ExerciseCategories are the body parts a user can include or exclude for generated workouts
var ExerciseCategories = []string{
	"back",
	"cardio",
	"chest",
	"lower arms",
	"lower legs",
	"shoulders",
	"upper arms",
	"upper legs",
	"neck",
	"waist",
}

// Food is a catalog entry with nutritional facts per measure
type Food struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Measure   string    `gorm:"size:100" json:"measure"`
	Grams     float64   `json:"grams"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Fat       float64   `json:"fat"`
	SatFat    float64   `json:"sat_fat"`
	Fiber     float64   `json:"fiber"`
	Carbs     float64   `json:"carbs"`
	Category  string    `gorm:"size:100;index" json:"category"`
}

func (Food) TableName() string {
	return "foods"
}

func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Item converts the food into a single meal item
func (f *Food) Item() MealItem {
	return MealItem{
		Food:     f.Name,
		Calories: int(f.Calories + 0.5),
		Grams:    int(f.Grams + 0.5),
	}
}

// Exercise is a catalog entry describing a single movement
type Exercise struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ExternalID int       `gorm:"index" json:"external_id"`
	Name       string    `gorm:"size:255;index;not null" json:"name"`
	BodyPart   string    `gorm:"size:100;index" json:"bodyPart"`
	Equipment  string    `gorm:"size:100" json:"equipment"`
	GifURL     string    `gorm:"size:500" json:"gifUrl"`
	Target     string    `gorm:"size:100" json:"target"`
}

func (Exercise) TableName() string {
	return "exercises"
}

func (e *Exercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
