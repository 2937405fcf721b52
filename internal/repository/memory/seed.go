package memory

import (
	"time"

	"pizzahunt/internal/domain"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedDemo fills an empty store with a small catalog for local runs.
func (s *Store) SeedDemo() {
	classic := s.AddCategory(domain.Category{Name: "Классические", Slug: "classic", Order: 1})
	signature := s.AddCategory(domain.Category{Name: "Фирменные", Slug: "signature", Order: 2})

	s.AddPizza(domain.Pizza{
		Name: "Маргарита", Slug: "margherita", CategoryID: classic.ID,
		Ingredients: "томатный соус, моцарелла, базилик",
		Price30:     price("450"), Price35: price("550"), Price40: price("650"),
		IsPopular: true, IsVegetarian: true, Order: 1,
	})
	s.AddPizza(domain.Pizza{
		Name: "Пепперони", Slug: "pepperoni", CategoryID: classic.ID,
		Ingredients: "томатный соус, моцарелла, пепперони",
		Price30:     price("520"), Price35: price("620"), Price40: price("720"),
		IsPopular: true, IsSpicy: true, Order: 2,
	})
	s.AddPizza(domain.Pizza{
		Name: "Четыре сыра", Slug: "four-cheese", CategoryID: classic.ID,
		Ingredients: "моцарелла, пармезан, горгонзола, чеддер",
		Price30:     price("560"), Price35: price("660"), Price40: price("760"),
		IsVegetarian: true, Order: 3,
	})
	s.AddPizza(domain.Pizza{
		Name: "Дьябло", Slug: "diablo", CategoryID: signature.ID,
		Ingredients: "острый соус, салями, халапеньо",
		Price30:     price("590"), Price35: price("690"), Price40: price("790"),
		IsNew: true, IsSpicy: true, Order: 1,
	})
	s.AddPizza(domain.Pizza{
		Name: "Барбекю", Slug: "bbq", CategoryID: signature.ID,
		Ingredients: "соус барбекю, курица, лук",
		Price30:     price("610"), Price35: price("710"), Price40: price("810"),
		IsNew: true, Order: 2,
	})

	s.AddCombo(domain.Combo{
		Name: "Для двоих", Price: price("990"), Includes: "2 пиццы 30 см, напиток", Order: 1,
	})
	s.AddCombo(domain.Combo{
		Name: "Семейный", Price: price("1890"), Includes: "3 пиццы 35 см, 2 напитка", Order: 2,
	})

	s.AddPromotion(domain.Promotion{
		Title: "Вторая пицца за полцены", IsActive: true,
		EndDate: s.now().Add(30 * 24 * time.Hour),
	})
}
