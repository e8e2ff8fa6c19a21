package fakers

import (
	"math/rand"
	"strings"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

func CategoryFaker() *models.Category {
	return &models.Category{
		Name:     titleCase.String(faker.Word()),
		IsActive: rand.Intn(5) != 0,
	}
}

// ProductFaker builds an unsaved product created some time in the last year
// so the date hierarchy and the Days column have something to show.
func ProductFaker(now time.Time) *models.Product {
	name := titleCase.String(faker.Word() + " " + faker.Word())
	slugText := slug.Make(name)
	if len(slugText) > 50 {
		slugText = strings.Trim(slugText[:50], "-")
	}
	country := models.Countries[rand.Intn(len(models.Countries))].Value
	created := now.Add(-time.Duration(rand.Intn(365*24)) * time.Hour)

	return &models.Product{
		Name:        name,
		Country:     &country,
		Description: "<p>" + faker.Paragraph() + "</p>",
		IsInStock:   rand.Intn(3) != 0,
		Slug:        &slugText,
		CreateDate:  created,
		UpdateDate:  created,
	}
}

func ReviewFakers(max int) []models.Review {
	reviews := make([]models.Review, rand.Intn(max+1))
	for i := range reviews {
		reviews[i] = models.Review{
			Review:     faker.Sentence(),
			IsReleased: rand.Intn(4) != 0,
		}
	}
	return reviews
}

// PickCategories returns up to two distinct ids from ids.
func PickCategories(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	picked := []uint{ids[rand.Intn(len(ids))]}
	if len(ids) > 1 && rand.Intn(2) == 0 {
		for {
			id := ids[rand.Intn(len(ids))]
			if id != picked[0] {
				return append(picked, id)
			}
		}
	}
	return picked
}
