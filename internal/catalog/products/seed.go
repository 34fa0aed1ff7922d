package products

import "github.com/teranga-resto/teranga-resto/internal/billing/money"

type seedProduct struct {
	name  string
	price money.Money
	unit  string
}

// defaultProducts is the stock catalog installed when the table is empty.
// Prices are whole FCFA.
var defaultProducts = []seedProduct{
	// Condiments / sauces
	{"Mayonnaise", 7000, "pot"},
	{"Ketchup", 4000, "bouteille"},
	{"Moutarde", 1300, "pot"},
	{"Sauce tomate", 6500, "boîte"},
	{"Vinaigre", 700, "bouteille"},
	{"Olive noire", 1000, "boîte"},

	// Épices / aromates
	{"Poivre", 2000, "sachet"},
	{"Sel", 900, "paquet"},
	{"Piment", 500, "sachet"},
	{"Laurier", 200, "sachet"},
	{"Adja", 150, "tablette"},
	{"Épices Adja", 250, "lot de 5"},
	{"Magi", 1600, "paquet"},

	// Féculents / bases
	{"Farine", 8500, "sac"},
	{"Pomme de terre", 10000, "sac"},
	{"Tortilla", 2500, "paquet"},

	// Produits laitiers / œufs
	{"Fromage", 7500, "portion"},
	{"Œuf", 2800, "plateau"},
	{"Chocolat", 1200, "tablette"},

	// Viandes / protéines
	{"Viande hachée", 4000, "portion"},
	{"Kani", 500, "pièce"},

	// Matières grasses
	{"Huile", 17000, "bidon"},

	// Divers alimentaires
	{"Ail", 1000, "sachet"},
	{"Soja", 1500, "sachet"},
	{"Levure", 1500, "sachet"},

	// Consommables cuisine
	{"Barquette", 2500, "paquet"},
	{"Gants", 3000, "boîte"},
	{"Papier alu", 2000, "rouleau"},
}
