package directory

import "github.com/cleared-dev/tally/internal/model"

// Category names used by the built-in directory.
const (
	CategoryDining    = "Dining"
	CategoryGroceries = "Groceries"
	CategoryFuel      = "Fuel"
	CategoryShopping  = "Shopping"
	CategoryHealth    = "Health"
	CategoryGiving    = "Giving"
	CategoryLeisure   = "Entertainment"
	CategoryPets      = "Pets"
)

// DefaultEntries returns the built-in counterparty table.
func DefaultEntries() []model.Counterparty {
	return []model.Counterparty{
		{Shorthand: "ACMOORE", Name: "AC Moore", Category: CategoryShopping},
		{Shorthand: "BADDAD", Name: "Bad Daddy's Burger Bar", Category: CategoryDining},
		{Shorthand: "BOJANG", Name: "Bojangles", Category: CategoryDining},
		{Shorthand: "CHICKFIL", Name: "Chick-Fil-A", Category: CategoryDining},
		{Shorthand: "CHICKENSALADCH", Name: "Chicken Salad Chick", Category: CategoryDining},
		{Shorthand: "COOKOUT", Name: "Cook Out", Category: CategoryDining},
		{Shorthand: "CRACKERB", Name: "Cracker Barrel", Category: CategoryDining},
		{Shorthand: "DOLLARTREE", Name: "Dollar Tree", Category: CategoryShopping},
		{Shorthand: "EDISONSQUARE", Name: "Edison Square Family Medicine", Category: CategoryHealth},
		{Shorthand: "FAMILYVID", Name: "Family Video", Category: CategoryLeisure},
		{Shorthand: "FOODLION", Name: "Food Lion", Category: CategoryGroceries},
		{Shorthand: "GATE", Name: "Gate Gas Station", Category: CategoryFuel},
		{Shorthand: "HARDEE", Name: "Hardees", Category: CategoryDining},
		{Shorthand: "JOHNNYSFARM", Name: "Johnny's Farmhouse", Category: CategoryDining},
		{Shorthand: "MARSHA", Name: "Marshalls", Category: CategoryShopping},
		{Shorthand: "MCDON", Name: "McDonald's", Category: CategoryDining},
		{Shorthand: "NEWHOPE", Name: "New Hope Worship Center", Category: CategoryGiving},
		{Shorthand: "PAPAJOHN", Name: "Papa John's Pizza", Category: CategoryDining},
		{Shorthand: "PETSMA", Name: "Petsmart", Category: CategoryPets},
		{Shorthand: "QUIK", Name: "Quiktrip", Category: CategoryFuel},
		{Shorthand: "SHELL", Name: "Shell Gas Station", Category: CategoryFuel},
		{Shorthand: "SONIC", Name: "Sonic Drive-In", Category: CategoryDining},
		{Shorthand: "STARBUCK", Name: "Starbucks", Category: CategoryDining},
		{Shorthand: "SWEETFR", Name: "Sweet Frog", Category: CategoryDining},
		{Shorthand: "TACOBELL", Name: "Taco Bell", Category: CategoryDining},
		{Shorthand: "TARG", Name: "Target", Category: CategoryShopping},
		{Shorthand: "WALMART", Name: "Wal-Mart", Category: CategoryGroceries},
		{Shorthand: "WMSUP", Name: "Walmart Supercenter", Category: CategoryGroceries},
		{Shorthand: "7ELEV", Name: "7-Eleven Gas Station", Category: CategoryFuel},
	}
}

// Default returns a directory built from DefaultEntries.
func Default() *Directory {
	d, err := New(DefaultEntries())
	if err != nil {
		panic("invalid built-in directory: " + err.Error())
	}
	return d
}
