package knowledge

import (
	"fmt"
	"strings"

	"vegly/internal/core"
)

// Entry is one ingredient or dish in the knowledge base.
type Entry struct {
	Name         string
	IsVegetarian bool
	Category     string
	Description  string
	Notes        string
}

// Keywords are the matching sets for the deterministic first tier.
// Markers match anywhere in a name; positive and negative words match on
// word boundaries only.
type Keywords struct {
	Positive []string
	Negative []string
	Markers  []string
}

// Base is the curated ingredient and dish knowledge base.
type Base struct {
	Ingredients []Entry
	Dishes      []Entry
	Keywords    Keywords
}

// Default returns the built-in knowledge base.
func Default() *Base {
	return &Base{
		Ingredients: ingredients,
		Dishes:      dishes,
		Keywords: Keywords{
			Positive: positiveKeywords,
			Negative: negativeKeywords,
			Markers:  vegetarianMarkers,
		},
	}
}

// Documents converts the base into indexable documents. IDs are stable
// ("ing_" or "dish_" plus the slugged name) so re-indexing the same base
// produces the same collection.
func (b *Base) Documents() []core.Document {
	docs := make([]core.Document, 0, len(b.Ingredients)+len(b.Dishes))
	for _, e := range b.Ingredients {
		docs = append(docs, e.document("ing_", core.TypeIngredient))
	}
	for _, e := range b.Dishes {
		docs = append(docs, e.document("dish_", core.TypeDish))
	}
	return docs
}

func (e Entry) document(prefix, docType string) core.Document {
	return core.Document{
		ID:   prefix + slug(e.Name),
		Text: fmt.Sprintf("%s: %s", e.Name, e.Description),
		Meta: core.DocMeta{
			Name:         e.Name,
			IsVegetarian: core.BoolPtr(e.IsVegetarian),
			Category:     e.Category,
			Type:         docType,
			Notes:        e.Notes,
		},
	}
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Positive keywords are explicit dietary claims only. Ingredient words such
// as tofu or falafel live in the knowledge base instead; an ingredient
// mention alone cannot clear a dish whose preparation may hide animal
// products.
var positiveKeywords = []string{
	"vegetarian", "veggie", "vegan", "plant-based", "meatless", "meat-free",
}

// Markers match by substring, so they also cover emoji shorthand.
var vegetarianMarkers = []string{
	"(v)", "[v]", "(vg)", "[vg]", "(veg)", "[veg]",
	"(vegan)", "(vegetarian)",
	"🌱", "🥬", "🥕",
}

var negativeKeywords = []string{
	"chicken", "beef", "pork", "lamb", "duck", "turkey",
	"fish", "salmon", "tuna", "shrimp", "crab", "lobster",
	"bacon", "ham", "sausage", "pepperoni", "prosciutto",
	"anchovy", "anchovies", "oyster", "mussel", "clam",
	"caesar",
}

var ingredients = []Entry{
	{Name: "tofu", IsVegetarian: true, Category: "protein", Description: "Soybean curd, plant-based protein source", Notes: "Vegan protein alternative"},
	{Name: "tempeh", IsVegetarian: true, Category: "protein", Description: "Fermented soybean product, Indonesian origin", Notes: "High protein vegan option"},
	{Name: "seitan", IsVegetarian: true, Category: "protein", Description: "Wheat gluten meat substitute", Notes: "Also called wheat meat"},
	{Name: "paneer", IsVegetarian: true, Category: "dairy", Description: "Indian fresh cheese, non-melting", Notes: "Vegetarian but not vegan"},
	{Name: "halloumi", IsVegetarian: true, Category: "dairy", Description: "Cypriot cheese that can be grilled", Notes: "Check for animal rennet"},
	{Name: "mushroom", IsVegetarian: true, Category: "vegetable", Description: "Fungi, various varieties including portobello, shiitake", Notes: "Common meat substitute"},
	{Name: "lentils", IsVegetarian: true, Category: "legume", Description: "Lens-shaped legumes, high protein", Notes: "Red, green, brown varieties"},
	{Name: "chickpeas", IsVegetarian: true, Category: "legume", Description: "Garbanzo beans, used in hummus and falafel", Notes: "High fiber and protein"},
	{Name: "black beans", IsVegetarian: true, Category: "legume", Description: "Common in Latin American cuisine", Notes: "Good protein source"},
	{Name: "quinoa", IsVegetarian: true, Category: "grain", Description: "Protein-rich seed often used as grain", Notes: "Complete protein"},
	{Name: "falafel", IsVegetarian: true, Category: "prepared", Description: "Fried chickpea or fava bean balls", Notes: "Middle Eastern vegetarian staple"},
	{Name: "hummus", IsVegetarian: true, Category: "prepared", Description: "Chickpea and tahini spread", Notes: "Vegan dip"},
	{Name: "cheese", IsVegetarian: true, Category: "dairy", Description: "Dairy product from milk", Notes: "Some use animal rennet - check if strict"},
	{Name: "eggs", IsVegetarian: true, Category: "dairy", Description: "Chicken eggs, used in many dishes", Notes: "Vegetarian but not vegan"},
	{Name: "butter", IsVegetarian: true, Category: "dairy", Description: "Dairy fat product", Notes: "Vegetarian but not vegan"},
	{Name: "jackfruit", IsVegetarian: true, Category: "fruit", Description: "Tropical fruit used as meat substitute when unripe", Notes: "Shredded texture similar to pulled pork"},
	{Name: "eggplant", IsVegetarian: true, Category: "vegetable", Description: "Aubergine, used in many cuisines", Notes: "Meaty texture when cooked"},
	{Name: "cauliflower", IsVegetarian: true, Category: "vegetable", Description: "Cruciferous vegetable, versatile", Notes: "Popular meat substitute"},
	{Name: "zucchini", IsVegetarian: true, Category: "vegetable", Description: "Summer squash, courgette", Notes: "Used in vegetarian dishes"},
	{Name: "spinach", IsVegetarian: true, Category: "vegetable", Description: "Leafy green vegetable", Notes: "High in iron"},
	{Name: "chicken", IsVegetarian: false, Category: "meat", Description: "Poultry meat", Notes: "Common meat, not vegetarian"},
	{Name: "beef", IsVegetarian: false, Category: "meat", Description: "Cattle meat", Notes: "Red meat, not vegetarian"},
	{Name: "pork", IsVegetarian: false, Category: "meat", Description: "Pig meat", Notes: "Not vegetarian"},
	{Name: "bacon", IsVegetarian: false, Category: "meat", Description: "Cured pork belly or back", Notes: "Often hidden in dishes"},
	{Name: "ham", IsVegetarian: false, Category: "meat", Description: "Cured pork leg", Notes: "Not vegetarian"},
	{Name: "lamb", IsVegetarian: false, Category: "meat", Description: "Young sheep meat", Notes: "Not vegetarian"},
	{Name: "duck", IsVegetarian: false, Category: "meat", Description: "Waterfowl meat", Notes: "Not vegetarian"},
	{Name: "turkey", IsVegetarian: false, Category: "meat", Description: "Poultry meat", Notes: "Not vegetarian"},
	{Name: "fish", IsVegetarian: false, Category: "seafood", Description: "Various fish species", Notes: "Not vegetarian (pescatarian only)"},
	{Name: "salmon", IsVegetarian: false, Category: "seafood", Description: "Fatty fish, pink flesh", Notes: "Not vegetarian"},
	{Name: "tuna", IsVegetarian: false, Category: "seafood", Description: "Large ocean fish", Notes: "Not vegetarian"},
	{Name: "shrimp", IsVegetarian: false, Category: "seafood", Description: "Crustacean shellfish", Notes: "Not vegetarian"},
	{Name: "crab", IsVegetarian: false, Category: "seafood", Description: "Crustacean shellfish", Notes: "Not vegetarian"},
	{Name: "lobster", IsVegetarian: false, Category: "seafood", Description: "Large crustacean", Notes: "Not vegetarian"},
	{Name: "anchovies", IsVegetarian: false, Category: "seafood", Description: "Small oily fish, often in sauces", Notes: "Hidden in Caesar dressing and Worcestershire"},
	{Name: "fish sauce", IsVegetarian: false, Category: "condiment", Description: "Fermented fish condiment", Notes: "Common in Thai/Vietnamese cuisine, hidden ingredient"},
	{Name: "oyster sauce", IsVegetarian: false, Category: "condiment", Description: "Sauce made from oyster extracts", Notes: "Common in Asian stir-fries"},
	{Name: "gelatin", IsVegetarian: false, Category: "additive", Description: "Derived from animal collagen", Notes: "In desserts, gummies, some yogurts"},
	{Name: "lard", IsVegetarian: false, Category: "fat", Description: "Rendered pig fat", Notes: "Used in some pastries and refried beans"},
	{Name: "bone broth", IsVegetarian: false, Category: "liquid", Description: "Stock made from animal bones", Notes: "Base for many soups"},
	{Name: "worcestershire sauce", IsVegetarian: false, Category: "condiment", Description: "Fermented sauce containing anchovies", Notes: "Hidden in many dishes"},
}

var dishes = []Entry{
	{Name: "margherita pizza", IsVegetarian: true, Category: "italian", Description: "Pizza with tomato, mozzarella, and basil", Notes: "Classic vegetarian option"},
	{Name: "vegetable stir fry", IsVegetarian: true, Category: "asian", Description: "Mixed vegetables cooked in wok", Notes: "Check for oyster sauce"},
	{Name: "greek salad", IsVegetarian: true, Category: "salad", Description: "Tomatoes, cucumber, olives, feta cheese", Notes: "Traditional vegetarian salad"},
	{Name: "caprese salad", IsVegetarian: true, Category: "salad", Description: "Tomatoes, mozzarella, basil", Notes: "Italian vegetarian starter"},
	{Name: "veggie burger", IsVegetarian: true, Category: "american", Description: "Plant-based burger patty", Notes: "Check if bun contains animal products"},
	{Name: "mushroom risotto", IsVegetarian: true, Category: "italian", Description: "Creamy rice dish with mushrooms", Notes: "Check stock is vegetable-based"},
	{Name: "palak paneer", IsVegetarian: true, Category: "indian", Description: "Spinach curry with paneer cheese", Notes: "Classic Indian vegetarian"},
	{Name: "dal", IsVegetarian: true, Category: "indian", Description: "Lentil curry/soup", Notes: "Vegetarian protein staple"},
	{Name: "falafel wrap", IsVegetarian: true, Category: "middle_eastern", Description: "Falafel in pita with vegetables", Notes: "Vegan option"},
	{Name: "pasta primavera", IsVegetarian: true, Category: "italian", Description: "Pasta with spring vegetables", Notes: "Usually vegetarian"},
	{Name: "cheese quesadilla", IsVegetarian: true, Category: "mexican", Description: "Tortilla with melted cheese", Notes: "Vegetarian"},
	{Name: "vegetable curry", IsVegetarian: true, Category: "indian", Description: "Mixed vegetables in curry sauce", Notes: "Vegetarian option"},
	{Name: "garden salad", IsVegetarian: true, Category: "salad", Description: "Mixed greens with vegetables", Notes: "Check dressing ingredients"},
	{Name: "caesar salad", IsVegetarian: false, Category: "salad", Description: "Romaine lettuce with caesar dressing", Notes: "Traditional dressing contains anchovies"},
	{Name: "pad thai", IsVegetarian: false, Category: "thai", Description: "Rice noodles with tamarind sauce", Notes: "Usually contains fish sauce and dried shrimp"},
	{Name: "chicken wings", IsVegetarian: false, Category: "american", Description: "Fried or baked chicken wings", Notes: "Meat dish"},
	{Name: "beef burger", IsVegetarian: false, Category: "american", Description: "Ground beef patty in bun", Notes: "Meat dish"},
	{Name: "fish and chips", IsVegetarian: false, Category: "british", Description: "Battered fish with fries", Notes: "Seafood dish"},
	{Name: "pepperoni pizza", IsVegetarian: false, Category: "italian", Description: "Pizza with pepperoni (cured pork/beef)", Notes: "Contains meat"},
	{Name: "tom yum soup", IsVegetarian: false, Category: "thai", Description: "Hot and sour Thai soup", Notes: "Usually contains shrimp and fish sauce"},
	{Name: "pho", IsVegetarian: false, Category: "vietnamese", Description: "Vietnamese noodle soup", Notes: "Usually beef or chicken broth base"},
	{Name: "ramen", IsVegetarian: false, Category: "japanese", Description: "Japanese noodle soup", Notes: "Usually pork or chicken broth, contains chashu"},
	{Name: "sushi roll", IsVegetarian: false, Category: "japanese", Description: "Rice and fish wrapped in seaweed", Notes: "Contains raw fish unless specified vegetable"},
	{Name: "carbonara", IsVegetarian: false, Category: "italian", Description: "Pasta with egg, cheese, and pancetta", Notes: "Contains pork (pancetta/guanciale)"},
	{Name: "french onion soup", IsVegetarian: false, Category: "french", Description: "Caramelized onion soup with cheese", Notes: "Usually made with beef broth"},
}
